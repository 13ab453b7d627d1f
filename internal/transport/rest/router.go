package rest

import (
	"io"
	"net/http"
	"strings"

	"quizbank/internal/service"
	"quizbank/internal/transport/rest/handler"
	"quizbank/internal/transport/rest/middleware"
	"quizbank/internal/transport/ws"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Container holds all dependencies for the router
type Container struct {
	QuestionService *service.QuestionService
	QueryService    *service.QueryService
	WSHub           *ws.Hub
	Logger          *logrus.Logger
	MaxBodyBytes    int64
	AllowedOrigins  string    // comma separated, "*" for any
	AccessLog       io.Writer // combined log format; nil discards
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()
	// match on the escaped path so %2F stays inside a subject or chapter
	r.UseEncodedPath()
	r.NotFoundHandler = http.HandlerFunc(notFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// Initialize handlers
	questionHandler := handler.NewQuestionHandler(c.QuestionService, c.QueryService, c.Logger)
	suggestionHandler := handler.NewSuggestionHandler(c.QueryService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.Logger)

	// Liveness
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Server running & reachable"))
	}).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Catalog events, kept off the compressing subrouter so the upgrade
	// sees the raw connection
	r.HandleFunc("/ws/questions", wsHandler.Subscribe).Methods("GET")

	api := r.NewRoute().Subrouter()
	// recover innermost so a panic is answered through the gzip writer
	api.Use(handlers.CompressHandler)
	api.Use(middleware.LimitBody(c.MaxBodyBytes))
	api.Use(middleware.RecoverAndLog(c.Logger))

	// Question store
	api.HandleFunc("/upload", questionHandler.Upload).Methods("POST")
	api.HandleFunc("/questions", questionHandler.List).Methods("GET")
	api.HandleFunc("/questions/{id}", questionHandler.Get).Methods("GET")
	api.HandleFunc("/questions/{id}", questionHandler.Update).Methods("PUT")
	api.HandleFunc("/questions/{id}", questionHandler.Delete).Methods("DELETE")
	api.HandleFunc("/quiz/{subject}", questionHandler.Quiz).Methods("GET")

	// Suggestions
	api.HandleFunc("/suggestions/subjects", suggestionHandler.Subjects).Methods("GET")
	api.HandleFunc("/suggestions/chapters/{subject}", suggestionHandler.Chapters).Methods("GET")
	api.HandleFunc("/suggestions/topics/{chapter}", suggestionHandler.Topics).Methods("GET")

	accessLog := c.AccessLog
	if accessLog == nil {
		accessLog = io.Discard
	}

	// Middleware chain: CORS → access log → recover → mux
	var h http.Handler = r
	h = middleware.RecoverAndLog(c.Logger)(h)
	h = handlers.CombinedLoggingHandler(accessLog, h)
	h = corsHandler(c.AllowedOrigins)(h)
	return h
}

func corsHandler(allowedOrigins string) func(http.Handler) http.Handler {
	origins := []string{"*"}
	if allowedOrigins != "" && allowedOrigins != "*" {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"message":"Not Found"}`))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"message":"Method Not Allowed"}`))
}
