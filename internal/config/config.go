package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DebugMode      = "debug"
	ProductionMode = "production"
)

// Config holds process configuration read from the environment
type Config struct {
	Mode            string
	HTTPPort        string
	MongoURI        string
	MongoDB         string
	MongoTimeout    time.Duration
	RedisAddr       string // empty disables suggestion caching
	SuggestionTTL   time.Duration
	MaxBodyBytes    int64
	MaxPageLimit    int
	SubjectsFile    string
	Subjects        []string
	AllowedOrigins  string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, after loading envFile
// when it exists.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Mode:            getEnv("MODE", ProductionMode),
		HTTPPort:        getEnv("HTTP_PORT", "5000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "quizApp"),
		MongoTimeout:    getDuration("MONGO_TIMEOUT", 30*time.Second),
		RedisAddr:       getEnv("REDIS_URI", ""),
		SuggestionTTL:   getDuration("SUGGESTION_TTL", 10*time.Minute),
		MaxBodyBytes:    int64(getInt("MAX_BODY_BYTES", 500<<20)),
		MaxPageLimit:    getInt("MAX_PAGE_LIMIT", 500),
		SubjectsFile:    getEnv("SUBJECTS_FILE", ""),
		AllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "*"),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	// Remove redis:// prefix if present
	if len(cfg.RedisAddr) > 8 && cfg.RedisAddr[:8] == "redis://" {
		cfg.RedisAddr = cfg.RedisAddr[8:]
	}

	subjects, err := LoadSubjects(cfg.SubjectsFile)
	if err != nil {
		return nil, err
	}
	cfg.Subjects = subjects

	return cfg, nil
}

// IsDebugMode reports whether verbose logging is enabled
func (cfg *Config) IsDebugMode() bool {
	return cfg.Mode == DebugMode
}

// Logger builds the process logger for the configured mode
func (cfg *Config) Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if cfg.IsDebugMode() {
		l.SetLevel(logrus.DebugLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	return l
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return defaultVal
}
