package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"quizbank/internal/app"
	"quizbank/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	envFile = kingpin.Flag("env-file", "Dotenv file loaded before reading the environment").Default(".env").String()
)

func main() {
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version("1.0")
	kingpin.CommandLine.Help = "Question catalog API server"
	kingpin.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %s", err.Error())
	}
	log := cfg.Logger()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalf("Failed to start: %s", err.Error())
	}

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: a.Handler(),
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":     cfg.HTTPPort,
			"mode":     cfg.Mode,
			"subjects": cfg.Subjects,
		}).Info("server starting")
		log.Info("endpoints: POST /upload, GET /questions, GET|PUT|DELETE /questions/{quesID}, " +
			"GET /suggestions/{subjects,chapters/{subject},topics/{chapter}}, GET /quiz/{subject}, WS /ws/questions")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %s", err.Error())
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.WithError(err).Error("failed to release connections")
	}

	log.Info("server exited")
}
