package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/ai-interview-coach/internal/config"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
	"github.com/fairyhunter13/ai-interview-coach/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Auth      usecase.AuthService
	Users     domain.UserRepository
	Questions usecase.QuestionService
	Resume    usecase.ResumeService
	Feedback  usecase.FeedbackService
	Analytics usecase.AnalyticsService
	Store     domain.FeedbackRepository
	Extractor domain.TextExtractor
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, auth usecase.AuthService, users domain.UserRepository, questions usecase.QuestionService, resume usecase.ResumeService, feedback usecase.FeedbackService, analytics usecase.AnalyticsService, store domain.FeedbackRepository, extractor domain.TextExtractor) *Server {
	return &Server{
		Cfg:       cfg,
		Auth:      auth,
		Users:     users,
		Questions: questions,
		Resume:    resume,
		Feedback:  feedback,
		Analytics: analytics,
		Store:     store,
		Extractor: extractor,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

func validateStruct(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := getValidator().Struct(v); err != nil {
		details := map[string]any{}
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				details[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		writeValidationError(w, r, details)
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, fmt.Errorf("op=http.decode: %w: invalid json body", domain.ErrInvalidArgument))
		return false
	}
	return true
}

// HealthHandler reports liveness and whether a model key is configured.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":           "ok",
			"timestamp":        time.Now().UTC().Format(time.RFC3339),
			"geminiConfigured": s.Cfg.GeminiConfigured(),
		})
	}
}

type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Role: u.Role}
}

// RegisterHandler creates a new account and returns a signed token.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FirstName string `json:"firstName" validate:"required,max=100"`
			LastName  string `json:"lastName" validate:"required,max=100"`
			Email     string `json:"email" validate:"required,email"`
			Password  string `json:"password" validate:"required,min=8,max=128"`
		}
		if !decodeJSON(w, r, &req) || !validateStruct(w, r, req) {
			return
		}
		res, err := s.Auth.Register(r.Context(), usecase.RegisterInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Password:  req.Password,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"token":   res.Token,
			"user":    toUserResponse(res.User),
		})
	}
}

// LoginHandler verifies credentials and returns a signed token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required"`
		}
		if !decodeJSON(w, r, &req) || !validateStruct(w, r, req) {
			return
		}
		res, err := s.Auth.Login(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   res.Token,
			"user":    toUserResponse(res.User),
		})
	}
}

// MeHandler echoes the authenticated user.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("op=http.me: %w", domain.ErrUnauthorized))
			return
		}
		user, err := s.Users.GetByID(r.Context(), claims.Subject)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": toUserResponse(user)})
	}
}

func allowedResumeExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".txt") ||
		strings.HasSuffix(n, ".doc") || strings.HasSuffix(n, ".docx")
}

// extractResumeText spools the upload to a temp file, sniffs its content type
// and runs the extractor. The temp file is removed before returning on every
// path.
func (s *Server) extractResumeText(ctx context.Context, header *multipart.FileHeader, file multipart.File) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("op=http.resume: %w: resume read: %v", domain.ErrInvalidArgument, err)
	}
	tmp, err := os.CreateTemp("", "resume-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", fmt.Errorf("op=http.resume: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("op=http.resume: %w", err)
	}
	mime := mimetype.Detect(data)
	return s.Extractor.ExtractPath(ctx, header.Filename, tmp.Name(), mime.String())
}

// resumeFromRequest returns the extracted resume text and whether a file was
// present. Extraction never fails hard; unsupported formats come back as
// placeholder text from the extractor.
func (s *Server) resumeFromRequest(w http.ResponseWriter, r *http.Request) (text string, processed bool, err error) {
	file, header, ferr := r.FormFile("resume")
	if ferr != nil {
		return "", false, nil // no file attached
	}
	defer func() { _ = file.Close() }()
	if !allowedResumeExt(header.Filename) {
		return "", false, fmt.Errorf("op=http.resume: %w: unsupported resume extension %q", domain.ErrInvalidArgument, filepath.Ext(header.Filename))
	}
	text, err = s.extractResumeText(r.Context(), header, file)
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request, maxMB int64) bool {
	maxBytes := maxMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes*2)
	if err := r.ParseMultipartForm(maxBytes * 2); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
				Code:    "INVALID_ARGUMENT",
				Message: "payload too large",
				Details: map[string]any{"max_mb": maxMB},
			}})
			return false
		}
		writeError(w, r, fmt.Errorf("op=http.multipart: %w: %v", domain.ErrInvalidArgument, err))
		return false
	}
	return true
}

// GenerateQuestionsHandler produces an interview question set. Accepts
// multipart form data with an optional resume file, or a plain JSON body.
func (s *Server) GenerateQuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := usecase.GenerateQuestionsInput{}
		resumeProcessed := false

		if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			if !parseMultipart(w, r, s.Cfg.MaxUploadMB) {
				return
			}
			text, processed, err := s.resumeFromRequest(w, r)
			if err != nil {
				writeError(w, r, err)
				return
			}
			in = usecase.GenerateQuestionsInput{
				Role:           r.FormValue("role"),
				Company:        r.FormValue("company"),
				JobDescription: r.FormValue("jobDescription"),
				ResumeText:     text,
				Type:           r.FormValue("type"),
				Difficulty:     r.FormValue("difficulty"),
				Duration:       r.FormValue("duration"),
				IncludeCoding:  r.FormValue("includeCoding") == "true",
				Language:       r.FormValue("language"),
			}
			resumeProcessed = processed
		} else {
			var req struct {
				Role           string `json:"role"`
				Company        string `json:"company"`
				JobDescription string `json:"jobDescription"`
				Type           string `json:"type"`
				Difficulty     string `json:"difficulty"`
				Duration       string `json:"duration"`
				IncludeCoding  bool   `json:"includeCoding"`
				Language       string `json:"language"`
			}
			if !decodeJSON(w, r, &req) {
				return
			}
			in = usecase.GenerateQuestionsInput{
				Role:           req.Role,
				Company:        req.Company,
				JobDescription: req.JobDescription,
				Type:           req.Type,
				Difficulty:     req.Difficulty,
				Duration:       req.Duration,
				IncludeCoding:  req.IncludeCoding,
				Language:       req.Language,
			}
		}

		res, err := s.Questions.Generate(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}
		coding := 0
		for _, q := range res.Questions {
			if q.Coding {
				coding++
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"questions": res.Questions,
			"metadata": map[string]any{
				"role":            res.Spec.Role,
				"company":         res.Spec.Company,
				"type":            res.Spec.Type,
				"difficulty":      res.Spec.Difficulty,
				"duration":        res.Spec.Duration,
				"includeCoding":   res.Spec.IncludeCoding,
				"language":        res.Spec.Language,
				"totalQuestions":  len(res.Questions),
				"codingQuestions": coding,
				"resumeProcessed": resumeProcessed,
			},
		})
	}
}

// AnalyzeResumeHandler runs the ATS-style resume review. Accepts a multipart
// resume file plus jobDescription, or a JSON body with resumeText.
func (s *Server) AnalyzeResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resumeText, jobDescription string

		if strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			if !parseMultipart(w, r, s.Cfg.MaxUploadMB) {
				return
			}
			text, processed, err := s.resumeFromRequest(w, r)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !processed {
				writeError(w, r, fmt.Errorf("op=http.analyzeResume: %w: resume file is required", domain.ErrInvalidArgument))
				return
			}
			resumeText = text
			jobDescription = r.FormValue("jobDescription")
		} else {
			var req struct {
				ResumeText     string `json:"resumeText" validate:"required"`
				JobDescription string `json:"jobDescription" validate:"required"`
			}
			if !decodeJSON(w, r, &req) || !validateStruct(w, r, req) {
				return
			}
			resumeText, jobDescription = req.ResumeText, req.JobDescription
		}

		analysis, err := s.Resume.Analyze(r.Context(), resumeText, jobDescription)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "analysis": analysis})
	}
}

// SaveSessionHandler acknowledges a client-side session snapshot.
func (s *Server) SaveSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SessionData map[string]any `json:"sessionData"`
			Answers     []any          `json:"answers"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		sessionID := fmt.Sprintf("session_%d", time.Now().UnixMilli())
		LoggerFrom(r).Info("session snapshot received",
			slog.String("session_id", sessionID),
			slog.Int("answers", len(req.Answers)))
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Interview session saved successfully",
			"sessionId": sessionID,
		})
	}
}

// GenerateFeedbackHandler runs the full scoring pipeline for a finished
// interview and returns the assembled document.
func (s *Server) GenerateFeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("op=http.generateFeedback: %w", domain.ErrUnauthorized))
			return
		}
		var req struct {
			SessionID string            `json:"sessionId"`
			Questions []domain.Question `json:"questions" validate:"required,min=1"`
			Answers   []domain.Answer   `json:"answers" validate:"required,min=1"`
			Metadata  map[string]any    `json:"metadata"`
		}
		r.Body = http.MaxBytesReader(w, r.Body, 4<<20) // 4MB, transcripts and code included
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("op=http.generateFeedback: %w: invalid json body", domain.ErrInvalidArgument))
			return
		}
		if !validateStruct(w, r, req) {
			return
		}
		doc, err := s.Feedback.Generate(r.Context(), usecase.GenerateFeedbackInput{
			UserID:    claims.Subject,
			SessionID: req.SessionID,
			Questions: req.Questions,
			Answers:   req.Answers,
			Metadata:  req.Metadata,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "feedback": doc})
	}
}

// GetSessionFeedbackHandler loads a stored document by session id. Old flat
// documents are upgraded to the enriched shape on the way out.
func (s *Server) GetSessionFeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("op=http.getFeedback: %w", domain.ErrUnauthorized))
			return
		}
		sessionID := chi.URLParam(r, "sessionId")
		doc, err := s.Store.GetBySession(r.Context(), sessionID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !canAccess(claims, doc.UserID) {
			writeError(w, r, fmt.Errorf("op=http.getFeedback: %w: feedback belongs to another user", domain.ErrForbidden))
			return
		}
		if !doc.IsEnriched() {
			domain.UpgradeLegacyFeedback(&doc)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "feedback": doc})
	}
}

type feedbackSummary struct {
	SessionID         string    `json:"sessionId"`
	OverallScore      int       `json:"overallScore"`
	OverallGrade      string    `json:"overallGrade"`
	CompletionRate    int       `json:"completionRate"`
	GeneratedAt       time.Time `json:"generatedAt"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	TotalQuestions    int       `json:"totalQuestions"`
	JobRole           string    `json:"jobRole"`
	Company           string    `json:"company"`
	InterviewType     string    `json:"interviewType"`
}

func toSummary(f domain.SessionFeedback) feedbackSummary {
	grade := f.OverallGrade
	if grade == "" {
		grade = domain.GradeFor(f.OverallScore)
	}
	rate := f.CompletionRate
	if rate == 0 && f.TotalQuestions > 0 {
		rate = usecase.CompletionRate(f.AnsweredQuestions, f.TotalQuestions)
	}
	return feedbackSummary{
		SessionID:         f.SessionID,
		OverallScore:      f.OverallScore,
		OverallGrade:      grade,
		CompletionRate:    rate,
		GeneratedAt:       f.GeneratedAt,
		QuestionsAnswered: f.AnsweredQuestions,
		TotalQuestions:    f.TotalQuestions,
		JobRole:           f.Role,
		Company:           f.Company,
		InterviewType:     f.InterviewType,
	}
}

// ListUserFeedbackHandler returns a page of a user's feedback history,
// newest first.
func (s *Server) ListUserFeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("op=http.listFeedback: %w", domain.ErrUnauthorized))
			return
		}
		userID := chi.URLParam(r, "userId")
		if !canAccess(claims, userID) {
			writeError(w, r, fmt.Errorf("op=http.listFeedback: %w: history belongs to another user", domain.ErrForbidden))
			return
		}
		page := queryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}
		limit := queryInt(r, "limit", 10)
		if limit < 1 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}

		docs, total, err := s.Store.ListByUser(r.Context(), userID, page, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		summaries := make([]feedbackSummary, 0, len(docs))
		for _, d := range docs {
			summaries = append(summaries, toSummary(d))
		}
		totalPages := int(math.Ceil(float64(total) / float64(limit)))
		writeJSON(w, http.StatusOK, map[string]any{
			"success":  true,
			"feedback": summaries,
			"pagination": map[string]any{
				"currentPage": page,
				"totalPages":  totalPages,
				"totalCount":  total,
				"hasNext":     int64(page*limit) < total,
				"hasPrev":     page > 1,
			},
		})
	}
}

// UserAnalyticsHandler aggregates the user's full history.
func (s *Server) UserAnalyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r)
		if !ok {
			writeError(w, r, fmt.Errorf("op=http.analytics: %w", domain.ErrUnauthorized))
			return
		}
		userID := chi.URLParam(r, "userId")
		if !canAccess(claims, userID) {
			writeError(w, r, fmt.Errorf("op=http.analytics: %w: analytics belong to another user", domain.ErrForbidden))
			return
		}
		analytics, err := s.Analytics.ForUser(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "analytics": analytics})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
