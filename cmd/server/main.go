// Command server starts the AI Interview Coach HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai/stub"
	httpserver "github.com/fairyhunter13/ai-interview-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/textextractor/resume"
	"github.com/fairyhunter13/ai-interview-coach/internal/app"
	"github.com/fairyhunter13/ai-interview-coach/internal/config"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
	"github.com/fairyhunter13/ai-interview-coach/internal/usecase"
)

func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		slog.Error("schema setup failed", slog.Any("error", err))
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepo(pool)
	sessionRepo := postgres.NewSessionRepo(pool)
	questionRepo := postgres.NewQuestionRepo(pool)
	feedbackRepo := postgres.NewFeedbackRepo(pool)

	var aiClient domain.AIClient
	switch {
	case cfg.GeminiConfigured():
		maxElapsed, initial, maxIvl, mult := cfg.GetAIBackoffConfig()
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, gemini.BackoffConfig{
			MaxElapsedTime:  maxElapsed,
			InitialInterval: initial,
			MaxInterval:     maxIvl,
			Multiplier:      mult,
		})
		if err != nil {
			slog.Error("gemini client init failed", slog.Any("error", err))
			os.Exit(1)
		}
		aiClient = client
		slog.Info("gemini client initialized", slog.String("model", cfg.GeminiModel))
	case cfg.AIProvider == "stub":
		aiClient = stub.New()
		slog.Warn("AI_PROVIDER=stub, using deterministic stub client")
	default:
		// The rest of the API keeps working; generation endpoints answer
		// with a configuration error until a key is provided.
		aiClient = ai.NewUnconfigured()
		slog.Warn("GEMINI_API_KEY not set, generation endpoints will refuse")
	}

	authSvc := usecase.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	questionSvc := usecase.NewQuestionService(aiClient)
	resumeSvc := usecase.NewResumeService(aiClient)
	feedbackSvc := usecase.NewFeedbackService(aiClient, feedbackRepo, sessionRepo, questionRepo, cfg.ScorePacing)
	analyticsSvc := usecase.NewAnalyticsService(feedbackRepo)

	extractor := resume.New()

	srv := httpserver.NewServer(cfg, authSvc, userRepo, questionSvc, resumeSvc, feedbackSvc, analyticsSvc, feedbackRepo, extractor)
	handler := app.BuildRouter(cfg, srv, app.BuildDBCheck(pool))

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
