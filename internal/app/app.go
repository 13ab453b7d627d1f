package app

import (
	"context"
	"io"
	"net/http"

	"quizbank/internal/cache"
	"quizbank/internal/config"
	"quizbank/internal/repository"
	"quizbank/internal/service"
	"quizbank/internal/transport/rest"
	"quizbank/internal/transport/ws"

	pkgerrors "github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App owns the store connections and the services built on them
type App struct {
	QuestionService *service.QuestionService
	QueryService    *service.QueryService
	WSHub           *ws.Hub

	cfg         *config.Config
	log         *logrus.Logger
	mongoClient *mongo.Client
	redisClient *redis.Client
	accessLog   *io.PipeWriter
}

// New connects to MongoDB (and Redis when configured) and wires the services.
// Redis is optional: an unreachable server disables suggestion caching.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(cfg.MongoTimeout).
		SetConnectTimeout(cfg.MongoTimeout)

	mongoClient, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "connect to MongoDB")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(context.Background())
		return nil, pkgerrors.Wrap(err, "ping MongoDB")
	}
	logger.WithField("db", cfg.MongoDB).Info("connected to MongoDB")

	a := &App{cfg: cfg, log: logger, mongoClient: mongoClient}

	var suggestions cache.SuggestionCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, suggestion caching disabled")
			rdb.Close()
		} else {
			logger.WithField("addr", cfg.RedisAddr).Info("connected to Redis")
			a.redisClient = rdb
			suggestions = cache.NewSuggestionCache(rdb, cfg.SuggestionTTL)
		}
	}

	repo := repository.NewQuestionRepo(ctx, mongoClient.Database(cfg.MongoDB), logger)

	a.accessLog = logger.WriterLevel(logrus.InfoLevel)
	a.WSHub = ws.NewHub(logger)
	a.QuestionService = service.NewQuestionService(repo, suggestions, logger)
	a.QueryService = service.NewQueryService(repo, suggestions, cfg.Subjects, cfg.MaxPageLimit, logger)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	a.QuestionService.SetBroadcaster(a.WSHub)

	return a, nil
}

// Handler builds the HTTP handler serving the catalog API
func (a *App) Handler() http.Handler {
	return rest.NewRouter(&rest.Container{
		QuestionService: a.QuestionService,
		QueryService:    a.QueryService,
		WSHub:           a.WSHub,
		Logger:          a.log,
		MaxBodyBytes:    a.cfg.MaxBodyBytes,
		AllowedOrigins:  a.cfg.AllowedOrigins,
		AccessLog:       a.accessLog,
	})
}

// Close disconnects subscribers and releases the store connections
func (a *App) Close(ctx context.Context) error {
	a.WSHub.Close()
	a.accessLog.Close()

	var firstErr error
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			firstErr = pkgerrors.Wrap(err, "close Redis")
		}
	}
	if err := a.mongoClient.Disconnect(ctx); err != nil && firstErr == nil {
		firstErr = pkgerrors.Wrap(err, "disconnect MongoDB")
	}
	return firstErr
}
