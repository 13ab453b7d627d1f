package repository

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnavailable  = errors.New("store unavailable")
)

// classify maps driver errors onto the repository sentinels and attaches
// the operation name for logging.
func classify(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return pkgerrors.Wrapf(ErrDuplicateKey, "%s: %v", op, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err), errors.Is(err, context.DeadlineExceeded):
		return pkgerrors.Wrapf(ErrUnavailable, "%s: %v", op, err)
	default:
		return pkgerrors.Wrap(err, op)
	}
}
