package handler

import (
	"net/http"

	"quizbank/internal/service"

	"github.com/sirupsen/logrus"
)

// SuggestionHandler serves the cascading subject → chapter → topic lookups
type SuggestionHandler struct {
	query *service.QueryService
	log   logrus.FieldLogger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(query *service.QueryService, logger logrus.FieldLogger) *SuggestionHandler {
	return &SuggestionHandler{
		query: query,
		log:   logger.WithField("component", "suggestion_handler"),
	}
}

// Subjects handles GET /suggestions/subjects
func (h *SuggestionHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.query.Subjects())
}

// Chapters handles GET /suggestions/chapters/{subject}
func (h *SuggestionHandler) Chapters(w http.ResponseWriter, r *http.Request) {
	subject, err := pathVar(r, "subject")
	if err != nil {
		writeError(w, h.log, err, "Error fetching chapters")
		return
	}

	chapters, err := h.query.Chapters(r.Context(), subject)
	if err != nil {
		writeError(w, h.log, err, "Error fetching chapters")
		return
	}
	writeJSON(w, http.StatusOK, chapters)
}

// Topics handles GET /suggestions/topics/{chapter}
func (h *SuggestionHandler) Topics(w http.ResponseWriter, r *http.Request) {
	chapter, err := pathVar(r, "chapter")
	if err != nil {
		writeError(w, h.log, err, "Error fetching topics")
		return
	}

	topics, err := h.query.Topics(r.Context(), chapter)
	if err != nil {
		writeError(w, h.log, err, "Error fetching topics")
		return
	}
	writeJSON(w, http.StatusOK, topics)
}
