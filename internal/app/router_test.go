package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-interview-coach/internal/config"
	"github.com/fairyhunter13/ai-interview-coach/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{"*"}},
		{"wildcard", "*", []string{"*"}},
		{"single", "https://app.example.com", []string{"https://app.example.com"}},
		{"list with spaces", "https://a.com, https://b.com", []string{"https://a.com", "https://b.com"}},
		{"only commas", ",,", []string{"*"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseOrigins(tc.in))
		})
	}
}

func TestBuildDBCheck_NilPool(t *testing.T) {
	check := BuildDBCheck(nil)
	assert.Error(t, check(context.Background()))
}

func testRouter(dbCheck httpserver.DBCheck) http.Handler {
	cfg := config.Config{
		AppEnv:           "test",
		HTTPWriteTimeout: 5 * time.Second,
		RateLimitPerMin:  1000,
		MaxUploadMB:      5,
	}
	auth := usecase.NewAuthService(nil, "test-secret", time.Hour)
	srv := httpserver.NewServer(cfg, auth, nil, usecase.QuestionService{}, usecase.ResumeService{},
		usecase.FeedbackService{}, usecase.AnalyticsService{}, nil, nil)
	return BuildRouter(cfg, srv, dbCheck)
}

func TestRouter_HealthEndpoints(t *testing.T) {
	router := testRouter(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Readyz(t *testing.T) {
	router := testRouter(func(context.Context) error { return nil })
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	router = testRouter(func(context.Context) error { return errors.New("connection refused") })
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

func TestRouter_ProtectedRoutesRejectAnonymous(t *testing.T) {
	router := testRouter(nil)
	for _, path := range []string{
		"/api/auth/me",
		"/api/feedback/session/s1",
		"/api/feedback/user/u1",
		"/api/feedback/user/u1/analytics",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED", path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/generate-feedback", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RequestIDPassthrough(t *testing.T) {
	router := testRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-Id", "req-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-abc", rec.Header().Get("X-Request-Id"))
}
