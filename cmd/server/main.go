package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/talkready/opic-backend/internal/config"
	"github.com/talkready/opic-backend/internal/database"
	"github.com/talkready/opic-backend/internal/handler"
	"github.com/talkready/opic-backend/internal/logger"
	"github.com/talkready/opic-backend/internal/repository"
	"github.com/talkready/opic-backend/internal/router"
	"github.com/talkready/opic-backend/internal/service"
	"github.com/talkready/opic-backend/internal/speech"
	"github.com/talkready/opic-backend/internal/validator"
	"github.com/talkready/opic-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting TalkReady Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	surveyRepo := repository.NewSurveyRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	surveyService := service.NewSurveyService(surveyRepo, rdb, log)
	examService := service.NewExamService(sessionRepo, surveyService, rdb, log)
	gateway := service.NewHTTPGateway(cfg.FeedbackAPIURL, log)
	feedbackService := service.NewFeedbackService(gateway, submissionRepo, rdb, log)
	recognizer := speech.NewRecognizer(cfg.SpeechAPIURL, cfg.SpeechAPIKey, cfg.SpeechLang, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Survey:   handler.NewSurveyHandler(surveyService),
		Exam:     handler.NewExamHandler(examService),
		Feedback: handler.NewFeedbackHandler(feedbackService),
		WS:       handler.NewWSHandler(cfg, rdb, examService, feedbackService, recognizer, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	sequenceWorker := worker.NewSequenceWorker(sessionRepo, rdb, log)
	submissionWorker := worker.NewSubmissionWorker(submissionRepo, rdb, log)

	go sequenceWorker.Start(workerCtx)
	go submissionWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
