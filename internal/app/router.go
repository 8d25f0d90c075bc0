// Package app assembles the HTTP router and readiness checks.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/fairyhunter13/ai-interview-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-coach/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty input means all origins.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildDBCheck returns the readiness check for the backing store.
func BuildDBCheck(pool Pinger) httpserver.DBCheck {
	return func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server, dbCheck httpserver.DBCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(cfg.HTTPWriteTimeout))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", srv.HealthHandler())

		// Rate limit mutating endpoints
		api.Group(func(wr chi.Router) {
			wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))

			wr.Post("/auth/register", srv.RegisterHandler())
			wr.Post("/auth/login", srv.LoginHandler())

			wr.Group(func(opt chi.Router) {
				opt.Use(httpserver.OptionalAuth(srv.Auth))
				opt.Post("/generate-questions", srv.GenerateQuestionsHandler())
				opt.Post("/analyze-resume", srv.AnalyzeResumeHandler())
				opt.Post("/save-session", srv.SaveSessionHandler())
			})

			wr.Group(func(auth chi.Router) {
				auth.Use(httpserver.RequireAuth(srv.Auth))
				auth.Post("/generate-feedback", srv.GenerateFeedbackHandler())
			})
		})

		api.Group(func(auth chi.Router) {
			auth.Use(httpserver.RequireAuth(srv.Auth))
			auth.Get("/auth/me", srv.MeHandler())
			auth.Get("/feedback/session/{sessionId}", srv.GetSessionFeedbackHandler())
			auth.Get("/feedback/user/{userId}", srv.ListUserFeedbackHandler())
			auth.Get("/feedback/user/{userId}/analytics", srv.UserAnalyticsHandler())
		})
	})

	// Health and metrics
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/readyz", srv.ReadyzHandler(dbCheck))

	return httpserver.SecurityHeaders(r)
}
