package service

import (
	"context"
	"strings"

	"quizbank/internal/cache"
	"quizbank/internal/model"
	"quizbank/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionService owns question identity and schema validation on top of
// the repository.
type QuestionService struct {
	repo        repository.QuestionRepo
	suggestions cache.SuggestionCache
	broadcaster Broadcaster
	log         logrus.FieldLogger
	newID       func() string
}

// NewQuestionService creates a new question service. suggestions may be nil
// when caching is disabled.
func NewQuestionService(repo repository.QuestionRepo, suggestions cache.SuggestionCache, logger logrus.FieldLogger) *QuestionService {
	return &QuestionService{
		repo:        repo,
		suggestions: suggestions,
		log:         logger.WithField("component", "question_service"),
		newID:       uuid.NewString,
	}
}

// SetBroadcaster injects the catalog event broadcaster
func (s *QuestionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Create validates the payload, assigns a fresh quesID and persists it
func (s *QuestionService) Create(ctx context.Context, in *model.NewQuestion) (*model.Question, error) {
	payload := *in
	in = &payload
	if in.QuestionType == "" {
		in.QuestionType = model.QuestionTypeMCQ
	}
	if err := validateStruct(in, "Missing required fields"); err != nil {
		return nil, err
	}

	question := &model.Question{
		QuesID:          s.newID(),
		Course:          in.Course,
		Subject:         in.Subject,
		Topic:           in.Topic,
		Chapter:         in.Chapter,
		Tags:            in.Tags,
		QuestionContent: in.QuestionContent,
		SolutionContent: in.SolutionContent,
		QuestionType:    in.QuestionType,
		CorrectOption:   in.CorrectOption,
	}
	if question.QuestionType == model.QuestionTypeNumerical {
		question.StartingRange = in.StartingRange
		question.EndingRange = in.EndingRange
	}

	oid, err := s.repo.Create(ctx, question)
	if err != nil {
		return nil, err
	}
	question.ID = oid

	// Read back the stored document so callers see exactly what was persisted
	saved, err := s.GetByStorageID(ctx, oid.Hex())
	if err != nil {
		s.log.WithError(err).WithField("quesID", question.QuesID).Warn("read-back after insert failed")
		saved = question
	}

	s.afterWrite(ctx, EventQuestionCreated, saved)
	return saved, nil
}

// GetByKey returns the question with the given quesID
func (s *QuestionService) GetByKey(ctx context.Context, quesID string) (*model.Question, error) {
	if err := checkKey(quesID); err != nil {
		return nil, err
	}
	return s.repo.GetByQuesID(ctx, quesID)
}

// GetByStorageID returns the question with the given storage id (hex ObjectID)
func (s *QuestionService) GetByStorageID(ctx context.Context, id string) (*model.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &ValidationError{Message: "Invalid storage id"}
	}
	return s.repo.GetByID(ctx, oid)
}

// Update merges the supplied fields into the stored question. The numerical
// range requirement is only enforced at creation.
func (s *QuestionService) Update(ctx context.Context, quesID string, patch *model.QuestionPatch) (*model.Question, error) {
	if err := checkKey(quesID); err != nil {
		return nil, err
	}
	if err := validateStruct(patch, "Required fields cannot be empty"); err != nil {
		return nil, err
	}

	fields := patch.Fields()
	updated, err := s.repo.Update(ctx, quesID, fields)
	if err != nil {
		return nil, err
	}

	if len(fields) > 0 {
		s.afterWrite(ctx, EventQuestionUpdated, updated)
	}
	return updated, nil
}

// Delete removes the question with the given quesID
func (s *QuestionService) Delete(ctx context.Context, quesID string) error {
	if err := checkKey(quesID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, quesID); err != nil {
		return err
	}

	s.afterWrite(ctx, EventQuestionDeleted, map[string]string{"quesID": quesID})
	return nil
}

// Purge removes every question. Used by the seeder before reloading fixtures.
func (s *QuestionService) Purge(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	s.log.WithField("count", n).Info("question catalog cleared")
	s.afterWrite(ctx, EventCatalogCleared, map[string]int64{"count": n})
	return n, nil
}

// afterWrite drops cached suggestions and notifies subscribers. Neither
// step can fail the write that already happened.
func (s *QuestionService) afterWrite(ctx context.Context, event string, payload interface{}) {
	if s.suggestions != nil {
		if err := s.suggestions.Invalidate(ctx); err != nil {
			s.log.WithError(err).Warn("suggestion cache invalidation failed")
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(event, payload)
	}
}

// checkKey rejects keys that cannot be a quesID. Storage ids are refused
// explicitly so callers notice they sent the wrong identifier.
func checkKey(quesID string) error {
	if strings.TrimSpace(quesID) == "" {
		return &ValidationError{Message: "Missing quesID"}
	}
	if primitive.IsValidObjectID(quesID) {
		return &ValidationError{Message: "Storage ids are not accepted, use quesID"}
	}
	return nil
}
