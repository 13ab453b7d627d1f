package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"quizbank/internal/repository"
	"quizbank/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeMessage writes the {"message": ...} body used for every status reply
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps service and repository errors onto HTTP statuses.
// Store details are logged and replaced by fallback in the response.
func writeError(w http.ResponseWriter, log logrus.FieldLogger, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ve)
	case errors.Is(err, repository.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Question not found")
	default:
		log.WithError(err).Error(fallback)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

// decodeBody decodes a JSON request body into v, writing the error reply
// itself. Returns false if the caller should stop.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	writeMessage(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// queryInt parses an optional positive integer query parameter.
// A missing parameter yields 0 so the service applies its default.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &service.ValidationError{Message: name + " must be a positive integer"}
	}
	return n, nil
}

// pathVar returns the decoded route variable. The router matches on the
// escaped path, so values such as "Units%2FDimensions" arrive encoded.
func pathVar(r *http.Request, name string) (string, error) {
	v, err := url.PathUnescape(mux.Vars(r)[name])
	if err != nil {
		return "", &service.ValidationError{Message: "Invalid " + name + " in path"}
	}
	return v, nil
}
