package handler

import (
	"net/http"

	"quizbank/internal/model"
	"quizbank/internal/service"

	"github.com/sirupsen/logrus"
)

// QuestionHandler handles question catalog endpoints
type QuestionHandler struct {
	questions *service.QuestionService
	query     *service.QueryService
	log       logrus.FieldLogger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questions *service.QuestionService, query *service.QueryService, logger logrus.FieldLogger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		query:     query,
		log:       logger.WithField("component", "question_handler"),
	}
}

// UploadResponse is the response body for a created question
type UploadResponse struct {
	Message string          `json:"message"`
	Data    *model.Question `json:"data"`
}

// Upload handles POST /upload
func (h *QuestionHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req model.NewQuestion
	if !decodeBody(w, r, &req) {
		return
	}

	question, err := h.questions.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "Error uploading question")
		return
	}

	h.log.WithField("quesID", question.QuesID).Info("question uploaded")
	writeJSON(w, http.StatusOK, UploadResponse{
		Message: "Question uploaded successfully",
		Data:    question,
	})
}

// List handles GET /questions?page=&limit=
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, h.log, err, "Error fetching questions")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, h.log, err, "Error fetching questions")
		return
	}

	h.log.WithFields(logrus.Fields{"page": page, "limit": limit}).Debug("fetching questions")
	result, err := h.query.ListPage(r.Context(), page, limit)
	if err != nil {
		writeError(w, h.log, err, "Error fetching questions")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /questions/{id}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathVar(r, "id")
	if err != nil {
		writeError(w, h.log, err, "Error fetching question")
		return
	}

	question, err := h.questions.GetByKey(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "Error fetching question")
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// Update handles PUT /questions/{id}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathVar(r, "id")
	if err != nil {
		writeError(w, h.log, err, "Error updating question")
		return
	}
	var patch model.QuestionPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	question, err := h.questions.Update(r.Context(), id, &patch)
	if err != nil {
		writeError(w, h.log, err, "Error updating question")
		return
	}

	writeJSON(w, http.StatusOK, question)
}

// Delete handles DELETE /questions/{id}
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathVar(r, "id")
	if err != nil {
		writeError(w, h.log, err, "Error deleting question")
		return
	}

	if err := h.questions.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, err, "Error deleting question")
		return
	}

	writeMessage(w, http.StatusOK, "Question deleted successfully")
}

// Quiz handles GET /quiz/{subject}?count=
func (h *QuestionHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	count, err := queryInt(r, "count")
	if err != nil {
		writeError(w, h.log, err, "Error fetching quiz")
		return
	}

	subject, err := pathVar(r, "subject")
	if err != nil {
		writeError(w, h.log, err, "Error fetching quiz")
		return
	}

	questions, err := h.query.Quiz(r.Context(), subject, count)
	if err != nil {
		writeError(w, h.log, err, "Error fetching quiz")
		return
	}

	writeJSON(w, http.StatusOK, questions)
}
