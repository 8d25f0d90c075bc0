package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-coach/internal/config"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
	"github.com/fairyhunter13/ai-interview-coach/internal/usecase"
)

type fakeAI struct {
	response string
	err      error
}

func (f *fakeAI) Generate(_ domain.Context, _ string) (string, error) { return f.response, f.err }

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx domain.Context, u domain.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}
func (m *userRepoMock) GetByEmail(ctx domain.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}
func (m *userRepoMock) GetByID(ctx domain.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

type feedbackRepoMock struct{ mock.Mock }

func (m *feedbackRepoMock) Upsert(ctx domain.Context, f domain.SessionFeedback) (string, error) {
	args := m.Called(ctx, f)
	return args.String(0), args.Error(1)
}
func (m *feedbackRepoMock) GetBySession(ctx domain.Context, sessionID string) (domain.SessionFeedback, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.SessionFeedback), args.Error(1)
}
func (m *feedbackRepoMock) ListByUser(ctx domain.Context, userID string, page, limit int) ([]domain.SessionFeedback, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]domain.SessionFeedback), args.Get(1).(int64), args.Error(2)
}
func (m *feedbackRepoMock) ListChronological(ctx domain.Context, userID string) ([]domain.SessionFeedback, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.SessionFeedback), args.Error(1)
}

type sessionRepoMock struct{ mock.Mock }

func (m *sessionRepoMock) Upsert(ctx domain.Context, s domain.Session) (domain.Session, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(domain.Session), args.Error(1)
}
func (m *sessionRepoMock) Get(ctx domain.Context, id string) (domain.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Session), args.Error(1)
}

type questionRepoMock struct{ mock.Mock }

func (m *questionRepoMock) SaveIfAbsent(ctx domain.Context, q domain.Question) error {
	return m.Called(ctx, q).Error(0)
}
func (m *questionRepoMock) Get(ctx domain.Context, id string) (domain.Question, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Question), args.Error(1)
}

type serverFixture struct {
	srv   *Server
	users *userRepoMock
	store *feedbackRepoMock
}

func newFixture(client domain.AIClient) *serverFixture {
	users := &userRepoMock{}
	store := &feedbackRepoMock{}
	sessions := &sessionRepoMock{}
	questions := &questionRepoMock{}

	sessions.On("Get", mock.Anything, mock.Anything).Return(domain.Session{}, fmt.Errorf("%w", domain.ErrNotFound)).Maybe()
	sessions.On("Upsert", mock.Anything, mock.Anything).Return(domain.Session{}, nil).Maybe()
	questions.On("SaveIfAbsent", mock.Anything, mock.Anything).Return(nil).Maybe()

	cfg := config.Config{AppEnv: "test", MaxUploadMB: 5}
	auth := usecase.NewAuthService(users, "test-secret", time.Hour)
	feedback := usecase.NewFeedbackService(client, store, sessions, questions, 0)
	feedback.Sleep = func(domain.Context, time.Duration) {}

	srv := NewServer(cfg, auth, users, usecase.NewQuestionService(client), usecase.NewResumeService(client),
		feedback, usecase.NewAnalyticsService(store), store, nil)
	return &serverFixture{srv: srv, users: users, store: store}
}

func withClaims(r *http.Request, userID, role string) *http.Request {
	claims := usecase.Claims{Role: role}
	claims.Subject = userID
	return r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims))
}

func newMultipart(t *testing.T, buf *bytes.Buffer, fields map[string]string) string {
	t.Helper()
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return mw.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthHandler(t *testing.T) {
	f := newFixture(&fakeAI{})
	rec := httptest.NewRecorder()
	f.srv.HealthHandler()(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["geminiConfigured"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestRegisterHandler(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.users.On("GetByEmail", mock.Anything, "ada@example.com").
		Return(domain.User{}, fmt.Errorf("%w", domain.ErrNotFound)).Once()
	f.users.On("Create", mock.Anything, mock.Anything).Return("uid-1", nil).Once()

	payload := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"longenough"}`
	rec := httptest.NewRecorder()
	f.srv.RegisterHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload)))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "uid-1", user["id"])
	assert.NotContains(t, rec.Body.String(), "longenough")
}

func TestRegisterHandler_Validation(t *testing.T) {
	f := newFixture(&fakeAI{})
	payload := `{"firstName":"Ada","lastName":"Lovelace","email":"not-an-email","password":"short"}`
	rec := httptest.NewRecorder()
	f.srv.RegisterHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "INVALID_ARGUMENT", errObj["code"])
	details := errObj["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestRegisterHandler_Conflict(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.users.On("GetByEmail", mock.Anything, "taken@example.com").Return(domain.User{ID: "uid-1"}, nil).Once()

	payload := `{"firstName":"A","lastName":"B","email":"taken@example.com","password":"longenough"}`
	rec := httptest.NewRecorder()
	f.srv.RegisterHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(payload)))

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CONFLICT", body["error"].(map[string]any)["code"])
}

func TestLoginHandler_BadCredentials(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	f := newFixture(&fakeAI{})
	f.users.On("GetByEmail", mock.Anything, "a@example.com").
		Return(domain.User{ID: "uid-1", Email: "a@example.com", PasswordHash: string(hash)}, nil).Once()

	payload := `{"email":"a@example.com","password":"wrong"}`
	rec := httptest.NewRecorder()
	f.srv.LoginHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(payload)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateQuestionsHandler_JSONBody(t *testing.T) {
	questions := `[{"id":1,"text":"Q1","type":"technical","difficulty":"medium","coding":false,"expectedDuration":180}]`
	f := newFixture(&fakeAI{response: questions})

	payload := `{"role":"Backend Engineer","jobDescription":"Go services","duration":"short"}`
	rec := httptest.NewRecorder()
	f.srv.GenerateQuestionsHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/generate-questions", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	got := body["questions"].([]any)
	assert.Len(t, got, 5)
	meta := body["metadata"].(map[string]any)
	assert.Equal(t, "Backend Engineer", meta["role"])
	assert.Equal(t, false, meta["resumeProcessed"])
	assert.EqualValues(t, 5, meta["totalQuestions"])
}

func TestGenerateQuestionsHandler_MissingRole(t *testing.T) {
	f := newFixture(&fakeAI{})
	rec := httptest.NewRecorder()
	f.srv.GenerateQuestionsHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/generate-questions", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateQuestionsHandler_Unconfigured(t *testing.T) {
	f := newFixture(ai.NewUnconfigured())

	payload := `{"role":"Backend Engineer","jobDescription":"Go services"}`
	rec := httptest.NewRecorder()
	f.srv.GenerateQuestionsHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/generate-questions", strings.NewReader(payload)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "CONFIGURATION", errObj["code"])
	assert.Equal(t, "server is not configured for this operation; contact the operator", errObj["message"])
}

func TestGenerateFeedbackHandler_Unconfigured(t *testing.T) {
	f := newFixture(ai.NewUnconfigured())

	payload := `{
		"sessionId": "sess-1",
		"questions": [{"id":"1","text":"Q1","type":"technical","difficulty":"medium"}],
		"answers": [{"questionId":"1","transcription":"spoken answer"}]
	}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/generate-feedback", strings.NewReader(payload)), "u1", "user")
	rec := httptest.NewRecorder()
	f.srv.GenerateFeedbackHandler()(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CONFIGURATION", body["error"].(map[string]any)["code"])
}

func TestGenerateQuestionsHandler_Multipart(t *testing.T) {
	questions := `[{"id":1,"text":"Q1","type":"technical","difficulty":"medium"}]`
	f := newFixture(&fakeAI{response: questions})

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, map[string]string{
		"role":           "Backend Engineer",
		"jobDescription": "Go services",
		"duration":       "short",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/generate-questions", &buf)
	req.Header.Set("Content-Type", mw)

	rec := httptest.NewRecorder()
	f.srv.GenerateQuestionsHandler()(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["questions"].([]any), 5)
}

func TestAnalyzeResumeHandler_JSONBody(t *testing.T) {
	f := newFixture(&fakeAI{response: `{"ats_friendly":"Yes","score":70}`})

	payload := `{"resumeText":"my resume","jobDescription":"the job"}`
	rec := httptest.NewRecorder()
	f.srv.AnalyzeResumeHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/analyze-resume", strings.NewReader(payload)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	analysis := body["analysis"].(map[string]any)
	assert.Equal(t, "Yes", analysis["ats_friendly"])
}

func TestSaveSessionHandler(t *testing.T) {
	f := newFixture(&fakeAI{})
	rec := httptest.NewRecorder()
	f.srv.SaveSessionHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/save-session", strings.NewReader(`{"sessionData":{},"answers":[]}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.True(t, strings.HasPrefix(body["sessionId"].(string), "session_"))
}

func TestGenerateFeedbackHandler(t *testing.T) {
	f := newFixture(&fakeAI{response: `{"score":80,"assessment":"Good"}`})
	f.store.On("Upsert", mock.Anything, mock.Anything).Return("doc-1", nil).Once()

	payload := `{
		"sessionId": "sess-1",
		"questions": [{"id":"1","text":"Q1","type":"technical","difficulty":"medium"}],
		"answers": [{"questionId":"1","transcription":"spoken answer"}]
	}`
	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/generate-feedback", strings.NewReader(payload)), "u1", "user")
	rec := httptest.NewRecorder()
	f.srv.GenerateFeedbackHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	feedback := body["feedback"].(map[string]any)
	assert.Equal(t, "sess-1", feedback["sessionId"])
	assert.Equal(t, "u1", feedback["userId"])
	assert.EqualValues(t, 80, feedback["overallScore"])
}

func TestGenerateFeedbackHandler_NoClaims(t *testing.T) {
	f := newFixture(&fakeAI{})
	rec := httptest.NewRecorder()
	f.srv.GenerateFeedbackHandler()(rec, httptest.NewRequest(http.MethodPost, "/api/generate-feedback", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateFeedbackHandler_EmptyAnswers(t *testing.T) {
	f := newFixture(&fakeAI{})
	req := withClaims(httptest.NewRequest(http.MethodPost, "/api/generate-feedback", strings.NewReader(`{"questions":[],"answers":[]}`)), "u1", "user")
	rec := httptest.NewRecorder()
	f.srv.GenerateFeedbackHandler()(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// routeWithParam serves the request through a one-route chi router so
// chi.URLParam resolves inside the handler.
func routeWithParam(h http.HandlerFunc, pattern string, r *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get(pattern, h)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestGetSessionFeedbackHandler_OwnerAndUpgrade(t *testing.T) {
	f := newFixture(&fakeAI{})
	stored := domain.SessionFeedback{
		SessionID:    "sess-1",
		UserID:       "u1",
		OverallScore: 72,
		DetailedFeedback: []domain.LegacyDetail{
			{QuestionID: "1", QuestionText: "Q1", UserAnswer: "spoken words", Score: 72},
		},
	}
	f.store.On("GetBySession", mock.Anything, "sess-1").Return(stored, nil).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/session/sess-1", nil), "u1", "user")
	rec := routeWithParam(f.srv.GetSessionFeedbackHandler(), "/api/feedback/session/{sessionId}", req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	feedback := body["feedback"].(map[string]any)
	assert.Equal(t, "v1", feedback["feedbackVersion"])
	assert.NotEmpty(t, feedback["questionFeedbacks"])
	assert.Equal(t, "B", feedback["overallGrade"])
}

func TestGetSessionFeedbackHandler_Foreign(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.store.On("GetBySession", mock.Anything, "sess-1").
		Return(domain.SessionFeedback{SessionID: "sess-1", UserID: "someone-else"}, nil).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/session/sess-1", nil), "u1", "user")
	rec := routeWithParam(f.srv.GetSessionFeedbackHandler(), "/api/feedback/session/{sessionId}", req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetSessionFeedbackHandler_AdminAllowed(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.store.On("GetBySession", mock.Anything, "sess-1").
		Return(domain.SessionFeedback{SessionID: "sess-1", UserID: "someone-else", FeedbackVersion: domain.FeedbackV2, QuestionFeedbacks: []domain.QuestionFeedback{{}}}, nil).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/session/sess-1", nil), "admin-1", "admin")
	rec := routeWithParam(f.srv.GetSessionFeedbackHandler(), "/api/feedback/session/{sessionId}", req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSessionFeedbackHandler_NotFound(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.store.On("GetBySession", mock.Anything, "missing").
		Return(domain.SessionFeedback{}, fmt.Errorf("%w", domain.ErrNotFound)).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/session/missing", nil), "u1", "user")
	rec := routeWithParam(f.srv.GetSessionFeedbackHandler(), "/api/feedback/session/{sessionId}", req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUserFeedbackHandler_Pagination(t *testing.T) {
	f := newFixture(&fakeAI{})
	docs := []domain.SessionFeedback{
		{SessionID: "s2", UserID: "u1", OverallScore: 80, TotalQuestions: 5, AnsweredQuestions: 5, GeneratedAt: time.Now()},
		{SessionID: "s1", UserID: "u1", OverallScore: 60, TotalQuestions: 5, AnsweredQuestions: 3, GeneratedAt: time.Now().Add(-time.Hour)},
	}
	f.store.On("ListByUser", mock.Anything, "u1", 1, 10).Return(docs, int64(12), nil).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/user/u1", nil), "u1", "user")
	rec := routeWithParam(f.srv.ListUserFeedbackHandler(), "/api/feedback/user/{userId}", req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	items := body["feedback"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "s2", first["sessionId"])
	assert.Equal(t, "A-", first["overallGrade"])
	assert.EqualValues(t, 100, first["completionRate"])

	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 1, pagination["currentPage"])
	assert.EqualValues(t, 2, pagination["totalPages"])
	assert.EqualValues(t, 12, pagination["totalCount"])
	assert.Equal(t, true, pagination["hasNext"])
	assert.Equal(t, false, pagination["hasPrev"])
}

func TestListUserFeedbackHandler_LimitClamped(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.store.On("ListByUser", mock.Anything, "u1", 1, 100).Return([]domain.SessionFeedback{}, int64(0), nil).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/user/u1?limit=500", nil), "u1", "user")
	rec := routeWithParam(f.srv.ListUserFeedbackHandler(), "/api/feedback/user/{userId}", req)
	assert.Equal(t, http.StatusOK, rec.Code)
	f.store.AssertExpectations(t)
}

func TestListUserFeedbackHandler_Foreign(t *testing.T) {
	f := newFixture(&fakeAI{})
	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/user/u2", nil), "u1", "user")
	rec := routeWithParam(f.srv.ListUserFeedbackHandler(), "/api/feedback/user/{userId}", req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserAnalyticsHandler(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.store.On("ListChronological", mock.Anything, "u1").Return([]domain.SessionFeedback{
		{OverallScore: 60, OverallGrade: "C+", GeneratedAt: time.Now().Add(-time.Hour)},
		{OverallScore: 90, OverallGrade: "A+", GeneratedAt: time.Now()},
	}, nil).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/feedback/user/u1/analytics", nil), "u1", "user")
	rec := routeWithParam(f.srv.UserAnalyticsHandler(), "/api/feedback/user/{userId}/analytics", req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	analytics := body["analytics"].(map[string]any)
	assert.EqualValues(t, 2, analytics["totalInterviews"])
	assert.EqualValues(t, 75, analytics["avgScore"])
	assert.EqualValues(t, 50, analytics["progress"])
}

func TestMeHandler(t *testing.T) {
	f := newFixture(&fakeAI{})
	f.users.On("GetByID", mock.Anything, "u1").
		Return(domain.User{ID: "u1", FirstName: "Ada", Email: "a@example.com", Role: "user"}, nil).Once()

	req := withClaims(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "u1", "user")
	rec := httptest.NewRecorder()
	f.srv.MeHandler()(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Ada", body["user"].(map[string]any)["firstName"])
}

func TestRequireAuthMiddleware(t *testing.T) {
	f := newFixture(&fakeAI{})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		require.True(t, ok)
		assert.Equal(t, "uid-1", claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireAuth(f.srv.Auth)(next)

	// missing token
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// malformed header
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid token
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	f.users.On("GetByEmail", mock.Anything, "a@example.com").
		Return(domain.User{ID: "uid-1", Email: "a@example.com", PasswordHash: string(hash)}, nil).Once()
	res, err := f.srv.Auth.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
