// Package testutil holds in-memory stand-ins shared by package tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"quizbank/internal/model"
	"quizbank/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionRepo is an in-memory repository.QuestionRepo.
// Setting Err makes every call fail with it.
type QuestionRepo struct {
	mu    sync.Mutex
	byKey map[string]*model.Question
	Err   error
}

// NewQuestionRepo returns an empty in-memory repository
func NewQuestionRepo() *QuestionRepo {
	return &QuestionRepo{byKey: make(map[string]*model.Question)}
}

var _ repository.QuestionRepo = (*QuestionRepo)(nil)

// Len returns the number of stored questions
func (r *QuestionRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

func (r *QuestionRepo) Create(_ context.Context, q *model.Question) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return primitive.NilObjectID, r.Err
	}
	if _, ok := r.byKey[q.QuesID]; ok {
		return primitive.NilObjectID, repository.ErrDuplicateKey
	}
	stored := *q
	stored.ID = primitive.NewObjectID()
	r.byKey[q.QuesID] = &stored
	return stored.ID, nil
}

func (r *QuestionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, q := range r.byKey {
		if q.ID == id {
			c := *q
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *QuestionRepo) GetByQuesID(_ context.Context, quesID string) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	q, ok := r.byKey[quesID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *q
	return &c, nil
}

func (r *QuestionRepo) Update(_ context.Context, quesID string, fields map[string]interface{}) (*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	q, ok := r.byKey[quesID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		setField(q, k, v)
	}
	c := *q
	return &c, nil
}

func setField(q *model.Question, name string, v interface{}) {
	if t, ok := v.(model.QuestionType); ok {
		q.QuestionType = t
		return
	}
	s, _ := v.(string)
	switch name {
	case "course":
		q.Course = s
	case "subject":
		q.Subject = s
	case "topic":
		q.Topic = s
	case "chapter":
		q.Chapter = s
	case "tags":
		q.Tags = s
	case "questionContent":
		q.QuestionContent = s
	case "solutionContent":
		q.SolutionContent = s
	case "correctOption":
		q.CorrectOption = s
	case "startingRange":
		q.StartingRange = s
	case "endingRange":
		q.EndingRange = s
	case "questionType":
		q.QuestionType = model.QuestionType(s)
	}
}

func (r *QuestionRepo) Delete(_ context.Context, quesID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.byKey[quesID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byKey, quesID)
	return nil
}

func (r *QuestionRepo) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	n := int64(len(r.byKey))
	r.byKey = make(map[string]*model.Question)
	return n, nil
}

func (r *QuestionRepo) sorted() []*model.Question {
	all := make([]*model.Question, 0, len(r.byKey))
	for _, q := range r.byKey {
		c := *q
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].QuesID < all[j].QuesID })
	return all
}

func (r *QuestionRepo) List(_ context.Context, skip, limit int64) ([]*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	all := r.sorted()
	if skip >= int64(len(all)) {
		return []*model.Question{}, nil
	}
	end := skip + limit
	if end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (r *QuestionRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return int64(len(r.byKey)), nil
}

// Sample returns the first size matches in quesID order; randomness is the
// database's job.
func (r *QuestionRepo) Sample(_ context.Context, subject string, size int) ([]*model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := []*model.Question{}
	for _, q := range r.sorted() {
		if len(out) == size {
			break
		}
		if q.Subject == subject {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *QuestionRepo) DistinctChapters(_ context.Context, subject string) ([]string, error) {
	return r.distinct(func(q *model.Question) (string, bool) { return q.Chapter, q.Subject == subject })
}

func (r *QuestionRepo) DistinctTopics(_ context.Context, chapter string) ([]string, error) {
	return r.distinct(func(q *model.Question) (string, bool) { return q.Topic, q.Chapter == chapter })
}

func (r *QuestionRepo) distinct(pick func(*model.Question) (string, bool)) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	seen := make(map[string]bool)
	values := []string{}
	for _, q := range r.byKey {
		v, ok := pick(q)
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

// Question returns a valid MCQ payload for the given classification
func Question(subject, chapter, topic string) *model.NewQuestion {
	return &model.NewQuestion{
		Course:          "11th",
		Subject:         subject,
		Topic:           topic,
		Chapter:         chapter,
		QuestionContent: "Q: " + topic,
		SolutionContent: "S: " + topic,
		QuestionType:    model.QuestionTypeMCQ,
		CorrectOption:   "A",
	}
}
