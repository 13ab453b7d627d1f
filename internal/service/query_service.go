package service

import (
	"context"
	"fmt"
	"math"

	"quizbank/internal/cache"
	"quizbank/internal/model"
	"quizbank/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPage      = 1
	DefaultLimit     = 50
	DefaultQuizCount = 10
)

// QueryService handles paginated listing and suggestion lookups
type QueryService struct {
	repo        repository.QuestionRepo
	suggestions cache.SuggestionCache
	subjects    []string
	maxLimit    int
	log         logrus.FieldLogger
}

// NewQueryService creates a new query service. subjects is the closed
// subject taxonomy; suggestions may be nil when caching is disabled.
func NewQueryService(repo repository.QuestionRepo, suggestions cache.SuggestionCache, subjects []string, maxLimit int, logger logrus.FieldLogger) *QueryService {
	return &QueryService{
		repo:        repo,
		suggestions: suggestions,
		subjects:    append([]string(nil), subjects...),
		maxLimit:    maxLimit,
		log:         logger.WithField("component", "query_service"),
	}
}

// ListPage returns questions sorted by quesID using offset pagination.
// Zero page or limit selects the default. Results can drift between pages
// when questions are inserted or deleted concurrently.
func (s *QueryService) ListPage(ctx context.Context, page, limit int) (*model.QuestionPage, error) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 1 {
		return nil, &ValidationError{Message: "page must be at least 1"}
	}
	if limit < 1 || limit > s.maxLimit {
		return nil, &ValidationError{Message: fmt.Sprintf("limit must be between 1 and %d", s.maxLimit)}
	}

	// a page past any possible offset is simply empty
	questions := []*model.Question{}
	if int64(page-1) <= math.MaxInt64/int64(limit) {
		var err error
		questions, err = s.repo.List(ctx, int64(page-1)*int64(limit), int64(limit))
		if err != nil {
			return nil, err
		}
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &model.QuestionPage{
		Questions: questions,
		Total:     total,
		Page:      page,
		Limit:     limit,
	}, nil
}

// Subjects returns the configured subject taxonomy. It is never derived
// from stored questions.
func (s *QueryService) Subjects() []string {
	return append([]string{}, s.subjects...)
}

// Chapters returns the distinct chapters of questions in subject
func (s *QueryService) Chapters(ctx context.Context, subject string) ([]string, error) {
	return s.cached(ctx, "chapters", subject, s.repo.DistinctChapters)
}

// Topics returns the distinct topics of questions in chapter, regardless
// of subject
func (s *QueryService) Topics(ctx context.Context, chapter string) ([]string, error) {
	return s.cached(ctx, "topics", chapter, s.repo.DistinctTopics)
}

func (s *QueryService) cached(ctx context.Context, kind, value string, load func(context.Context, string) ([]string, error)) ([]string, error) {
	log := s.log.WithFields(logrus.Fields{"kind": kind, "value": value})

	if s.suggestions != nil {
		hit, err := s.getCached(ctx, kind, value)
		if err != nil {
			log.WithError(err).Warn("suggestion cache read failed")
		} else if hit != nil {
			return hit, nil
		}
	}

	values, err := load(ctx, value)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}

	if s.suggestions != nil {
		if err := s.setCached(ctx, kind, value, values); err != nil {
			log.WithError(err).Warn("suggestion cache write failed")
		}
	}
	return values, nil
}

func (s *QueryService) getCached(ctx context.Context, kind, value string) ([]string, error) {
	if kind == "chapters" {
		return s.suggestions.GetChapters(ctx, value)
	}
	return s.suggestions.GetTopics(ctx, value)
}

func (s *QueryService) setCached(ctx context.Context, kind, value string, values []string) error {
	if kind == "chapters" {
		return s.suggestions.SetChapters(ctx, value, values)
	}
	return s.suggestions.SetTopics(ctx, value, values)
}

// Quiz draws up to count random questions from subject. Zero count selects
// the default.
func (s *QueryService) Quiz(ctx context.Context, subject string, count int) ([]*model.Question, error) {
	if count == 0 {
		count = DefaultQuizCount
	}
	if count < 1 || count > s.maxLimit {
		return nil, &ValidationError{Message: fmt.Sprintf("count must be between 1 and %d", s.maxLimit)}
	}
	return s.repo.Sample(ctx, subject, count)
}
