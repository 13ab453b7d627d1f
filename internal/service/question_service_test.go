package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizbank/internal/cache"
	"quizbank/internal/model"
	"quizbank/internal/repository"
	"quizbank/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
)

type recordingBroadcaster struct {
	events []string
}

func (b *recordingBroadcaster) Broadcast(msgType string, _ interface{}) {
	b.events = append(b.events, msgType)
}

func newQuestionService(t *testing.T) (*QuestionService, *testutil.QuestionRepo) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	repo := testutil.NewQuestionRepo()
	return NewQuestionService(repo, nil, logger), repo
}

func strPtr(s string) *string { return &s }

func TestCreate_AssignsUniqueQuesID(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		q, err := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if q.QuesID == "" {
			t.Fatal("expected non-empty quesID")
		}
		if seen[q.QuesID] {
			t.Fatalf("duplicate quesID %s", q.QuesID)
		}
		seen[q.QuesID] = true
		if q.ID.IsZero() {
			t.Error("expected storage id to be assigned")
		}
	}
}

func TestCreate_DefaultsToMCQ(t *testing.T) {
	svc, _ := newQuestionService(t)
	in := testutil.Question("Physics", "Kinematics", "Motion")
	in.QuestionType = ""

	q, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.QuestionType != model.QuestionTypeMCQ {
		t.Errorf("expected MCQ, got %q", q.QuestionType)
	}
	if in.QuestionType != "" {
		t.Errorf("caller payload modified: questionType %q", in.QuestionType)
	}
}

func TestCreate_RequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*model.NewQuestion)
		field string
	}{
		{"course", func(q *model.NewQuestion) { q.Course = "" }, "course"},
		{"subject", func(q *model.NewQuestion) { q.Subject = "" }, "subject"},
		{"topic", func(q *model.NewQuestion) { q.Topic = "" }, "topic"},
		{"chapter", func(q *model.NewQuestion) { q.Chapter = "" }, "chapter"},
		{"question_content", func(q *model.NewQuestion) { q.QuestionContent = "" }, "questionContent"},
		{"solution_content", func(q *model.NewQuestion) { q.SolutionContent = "" }, "solutionContent"},
		{"correct_option", func(q *model.NewQuestion) { q.CorrectOption = "" }, "correctOption"},
		{"unknown_type", func(q *model.NewQuestion) { q.QuestionType = "Essay" }, "questionType"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newQuestionService(t)
			in := testutil.Question("Physics", "Kinematics", "Motion")
			tc.mut(in)

			_, err := svc.Create(context.Background(), in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(ve.Fields) != 1 || ve.Fields[0] != tc.field {
				t.Errorf("expected field %q, got %v", tc.field, ve.Fields)
			}
			if repo.Len() != 0 {
				t.Error("expected nothing persisted")
			}
		})
	}
}

func TestCreate_NumericalRequiresRange(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()

	in := testutil.Question("Physics", "Kinematics", "Motion")
	in.QuestionType = model.QuestionTypeNumerical
	in.EndingRange = "10"

	if _, err := svc.Create(ctx, in); !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	in.QuestionType = model.QuestionTypeMCQ
	q, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("MCQ payload should succeed: %v", err)
	}
	// ranges are ignored for MCQ
	if q.EndingRange != "" {
		t.Errorf("expected ranges dropped for MCQ, got %q", q.EndingRange)
	}

	in.QuestionType = model.QuestionTypeNumerical
	in.StartingRange = "5"
	q, err = svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("numerical with range should succeed: %v", err)
	}
	if q.StartingRange != "5" || q.EndingRange != "10" {
		t.Errorf("unexpected ranges %q..%q", q.StartingRange, q.EndingRange)
	}
}

func TestCreate_StoreErrorPropagates(t *testing.T) {
	svc, repo := newQuestionService(t)
	repo.Err = repository.ErrUnavailable

	_, err := svc.Create(context.Background(), testutil.Question("Physics", "Kinematics", "Motion"))
	if !errors.Is(err, repository.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCreate_DuplicateQuesID(t *testing.T) {
	svc, _ := newQuestionService(t)
	svc.newID = func() string { return "fixed" }
	ctx := context.Background()

	if _, err := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestUpdate_ChangesOnlySuppliedFields(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()

	orig, err := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, orig.QuesID, &model.QuestionPatch{Topic: strPtr("New Topic")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	want := *orig
	want.Topic = "New Topic"
	if *updated != want {
		t.Errorf("expected %+v, got %+v", want, *updated)
	}
}

func TestUpdate_DoesNotRecheckNumericalRange(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()

	orig, _ := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))
	numerical := model.QuestionTypeNumerical

	updated, err := svc.Update(ctx, orig.QuesID, &model.QuestionPatch{QuestionType: &numerical})
	if err != nil {
		t.Fatalf("expected update without ranges to succeed, got %v", err)
	}
	if updated.QuestionType != model.QuestionTypeNumerical {
		t.Errorf("expected Numerical, got %q", updated.QuestionType)
	}
}

func TestUpdate_RejectsBlankRequiredField(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()
	orig, _ := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))

	_, err := svc.Update(ctx, orig.QuesID, &model.QuestionPatch{Subject: strPtr("")})
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newQuestionService(t)

	_, err := svc.Update(context.Background(), "missing", &model.QuestionPatch{Topic: strPtr("x")})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKeys_StorageIDRejected(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()
	q, _ := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))

	if _, err := svc.GetByKey(ctx, q.ID.Hex()); !IsValidation(err) {
		t.Errorf("GetByKey: expected ValidationError, got %v", err)
	}
	if err := svc.Delete(ctx, q.ID.Hex()); !IsValidation(err) {
		t.Errorf("Delete: expected ValidationError, got %v", err)
	}
	if _, err := svc.Update(ctx, q.ID.Hex(), &model.QuestionPatch{}); !IsValidation(err) {
		t.Errorf("Update: expected ValidationError, got %v", err)
	}

	got, err := svc.GetByStorageID(ctx, q.ID.Hex())
	if err != nil {
		t.Fatalf("GetByStorageID: %v", err)
	}
	if got.QuesID != q.QuesID {
		t.Errorf("expected %s, got %s", q.QuesID, got.QuesID)
	}
	if _, err := svc.GetByStorageID(ctx, "not-hex"); !IsValidation(err) {
		t.Errorf("expected ValidationError for malformed id, got %v", err)
	}
}

func TestDelete_Twice(t *testing.T) {
	svc, _ := newQuestionService(t)
	ctx := context.Background()
	q, _ := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))

	if err := svc.Delete(ctx, q.QuesID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, q.QuesID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByKey(ctx, q.QuesID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestWrites_BroadcastAndInvalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	suggestions := cache.NewSuggestionCache(client, time.Minute)

	logger, _ := test.NewNullLogger()
	repo := testutil.NewQuestionRepo()
	svc := NewQuestionService(repo, suggestions, logger)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	suggestions.SetChapters(ctx, "Physics", []string{"Stale"})

	q, err := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if hit, _ := suggestions.GetChapters(ctx, "Physics"); hit != nil {
		t.Errorf("expected cache invalidated after create, got %v", hit)
	}

	svc.Update(ctx, q.QuesID, &model.QuestionPatch{Topic: strPtr("Velocity")})
	svc.Update(ctx, q.QuesID, &model.QuestionPatch{}) // no-op, no event
	svc.Delete(ctx, q.QuesID)

	want := []string{EventQuestionCreated, EventQuestionUpdated, EventQuestionDeleted}
	if len(b.events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, b.events)
	}
	for i := range want {
		if b.events[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], b.events[i])
		}
	}
}

func TestWrites_CacheOutageDoesNotFailWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	logger, hook := test.NewNullLogger()
	svc := NewQuestionService(testutil.NewQuestionRepo(), cache.NewSuggestionCache(client, time.Minute), logger)

	if _, err := svc.Create(context.Background(), testutil.Question("Physics", "Kinematics", "Motion")); err != nil {
		t.Fatalf("expected create to succeed with cache down, got %v", err)
	}
	if hook.LastEntry() == nil {
		t.Error("expected a warning to be logged")
	}
}

func TestPurge(t *testing.T) {
	svc, repo := newQuestionService(t)
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, testutil.Question("Physics", "Kinematics", "Motion")); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	n, err := svc.Purge(ctx)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 3 || repo.Len() != 0 {
		t.Errorf("expected 3 removed and an empty catalog, got %d removed and %d left", n, repo.Len())
	}
	if last := b.events[len(b.events)-1]; last != EventCatalogCleared {
		t.Errorf("expected %s event, got %s", EventCatalogCleared, last)
	}
}
