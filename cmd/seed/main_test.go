package main

import (
	"os"
	"path/filepath"
	"testing"

	"quizbank/internal/model"
)

func TestReadFixture(t *testing.T) {
	questions, err := readFixture(filepath.Join("testdata", "questions.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if len(questions) != 6 {
		t.Fatalf("expected 6 questions, got %d", len(questions))
	}

	first := questions[0]
	if first.QuestionType != model.QuestionTypeNumerical || first.StartingRange != "3.9" || first.EndingRange != "4.1" {
		t.Errorf("unexpected numerical question %+v", first)
	}
	if questions[2].QuestionType != "" {
		t.Errorf("expected type left for the service to default, got %q", questions[2].QuestionType)
	}
	for i, q := range questions {
		if q.Course == "" || q.Subject == "" || q.Chapter == "" || q.Topic == "" || q.CorrectOption == "" {
			t.Errorf("question %d missing required fields: %+v", i, q)
		}
	}
}

func TestReadFixture_Errors(t *testing.T) {
	if _, err := readFixture(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("questions: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := readFixture(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
