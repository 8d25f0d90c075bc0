package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
	"github.com/fairyhunter13/ai-interview-coach/pkg/textx"
)

// FeedbackService runs the full feedback pipeline: score every answer
// sequentially, aggregate the session document, persist it best-effort, and
// return it.
type FeedbackService struct {
	AI        domain.AIClient
	Feedback  domain.FeedbackRepository
	Sessions  domain.SessionRepository
	Questions domain.QuestionRepository
	Cleaner   *ai.ResponseCleaner

	// Pacing is the delay inserted between consecutive model calls so the
	// upstream rate limit absorbs one request at a time. Sleep is injectable
	// for tests; the default honors context cancellation.
	Pacing time.Duration
	Sleep  func(domain.Context, time.Duration)
}

// NewFeedbackService constructs a FeedbackService with the default pacing sleep.
func NewFeedbackService(client domain.AIClient, fr domain.FeedbackRepository, sr domain.SessionRepository, qr domain.QuestionRepository, pacing time.Duration) FeedbackService {
	return FeedbackService{
		AI:        client,
		Feedback:  fr,
		Sessions:  sr,
		Questions: qr,
		Cleaner:   ai.NewResponseCleaner(),
		Pacing:    pacing,
		Sleep:     ctxSleep,
	}
}

func ctxSleep(ctx domain.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// GenerateFeedbackInput is the validated payload of a feedback request.
type GenerateFeedbackInput struct {
	UserID    string
	SessionID string
	Questions []domain.Question
	Answers   []domain.Answer
	Metadata  map[string]any
}

// Generate scores every answer in submission order, assembles the session
// document, and persists it. Persistence failures are logged and swallowed;
// the computed document is still returned. Only validation, a foreign session
// owner, and a missing provider configuration produce errors.
func (s FeedbackService) Generate(ctx domain.Context, in GenerateFeedbackInput) (domain.SessionFeedback, error) {
	if len(in.Answers) == 0 || len(in.Questions) == 0 {
		return domain.SessionFeedback{}, fmt.Errorf("op=feedback.Generate: %w: answers and questions are required", domain.ErrInvalidArgument)
	}

	meta := MetaFromMap(in.Metadata)
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), in.UserID)
	}
	if err := s.ensureSession(ctx, sessionID, in.UserID, meta); err != nil {
		return domain.SessionFeedback{}, err
	}
	s.saveQuestions(ctx, in.Questions)

	byID := make(map[string]domain.Question, len(in.Questions))
	for _, q := range in.Questions {
		byID[q.ID] = q
	}

	var (
		feedbacks     []domain.QuestionFeedback
		legacy        []domain.LegacyDetail
		contributions []int
	)
	first := true
	for _, answer := range in.Answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			slog.Warn("question not found for answer", slog.String("question_id", answer.QuestionID))
			continue
		}
		if !first {
			s.Sleep(ctx, s.Pacing)
		}
		first = false

		fb, err := s.scoreAnswer(ctx, question, answer, meta.JobRole)
		if err != nil {
			return domain.SessionFeedback{}, fmt.Errorf("op=feedback.Generate: %w", err)
		}

		feedbacks = append(feedbacks, buildQuestionFeedback(question, answer, fb))
		legacy = append(legacy, buildLegacyDetail(question, answer, fb))
		if answer.Skipped {
			contributions = append(contributions, 0)
		} else {
			contributions = append(contributions, fb.Score)
		}
		observability.ObserveAnswerScore(fb.Score)
	}

	answered := 0
	for _, a := range in.Answers {
		if !a.Skipped {
			answered++
		}
	}

	doc := BuildSessionFeedback(in.UserID, sessionID, in.Questions, feedbacks, legacy, contributions, answered, meta)
	observability.ObserveSessionScore(doc.OverallScore)

	if id, err := s.Feedback.Upsert(ctx, doc); err != nil {
		slog.Error("feedback save failed, returning computed document",
			slog.String("session_id", sessionID), slog.Any("error", err))
	} else {
		doc.ID = id
	}
	return doc, nil
}

// ensureSession finds or creates the session and rejects a foreign owner.
func (s FeedbackService) ensureSession(ctx domain.Context, sessionID, userID string, meta SessionMeta) error {
	sess, err := s.Sessions.Get(ctx, sessionID)
	switch {
	case err == nil:
		if sess.UserID != userID {
			return fmt.Errorf("op=feedback.ensureSession: %w: session belongs to another user", domain.ErrForbidden)
		}
		return nil
	case errors.Is(err, domain.ErrNotFound):
		_, createErr := s.Sessions.Upsert(ctx, domain.Session{
			ID:       sessionID,
			UserID:   userID,
			JobRole:  meta.JobRole,
			Metadata: meta.Raw,
		})
		if createErr != nil {
			slog.Error("session create failed", slog.String("session_id", sessionID), slog.Any("error", createErr))
		}
		return nil
	default:
		slog.Error("session lookup failed", slog.String("session_id", sessionID), slog.Any("error", err))
		return nil
	}
}

// saveQuestions stores questions best-effort; individual failures are logged
// and skipped.
func (s FeedbackService) saveQuestions(ctx domain.Context, questions []domain.Question) {
	for _, q := range questions {
		if err := s.Questions.SaveIfAbsent(ctx, q); err != nil {
			slog.Warn("question save failed", slog.String("question_id", q.ID), slog.Any("error", err))
		}
	}
}

// scoreAnswer calls the model once and normalizes the result, degrading to
// the deterministic fallback on call or parse failure. A missing provider
// configuration is not degradable and is returned as an error.
func (s FeedbackService) scoreAnswer(ctx domain.Context, q domain.Question, a domain.Answer, role string) (domain.AnswerFeedback, error) {
	prompt := BuildFeedbackPrompt(q, a, role)
	raw, err := s.AI.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return domain.AnswerFeedback{}, err
		}
		slog.Warn("model call failed, using fallback",
			slog.String("question_id", q.ID), slog.Any("error", err))
		observability.AnswerFallback("model_error")
		return FallbackFeedback(q, a), nil
	}
	fb, err := ParseAnswerFeedback(s.Cleaner, raw, q, a)
	if err != nil {
		slog.Warn("model response unusable, using fallback",
			slog.String("question_id", q.ID), slog.Any("error", err))
		observability.AnswerFallback("parse_error")
		return FallbackFeedback(q, a), nil
	}
	return fb, nil
}

// buildQuestionFeedback shapes one enriched per-question entry. Transcript
// fields apply only to voice questions, code fields only to coding ones.
func buildQuestionFeedback(q domain.Question, a domain.Answer, fb domain.AnswerFeedback) domain.QuestionFeedback {
	qtype := q.Type
	if qtype == "" {
		qtype = "general"
	}
	difficulty := q.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyMedium
	}

	out := domain.QuestionFeedback{
		QuestionID:       q.ID,
		QuestionText:     q.Text,
		QuestionType:     qtype,
		Difficulty:       difficulty,
		Coding:           q.Coding,
		Score:            fb.Score,
		WasAnswered:      !a.Skipped,
		DetailedFeedback: fb.Assessment,
		Strengths:        fb.Strengths,
		Improvements:     fb.Improvements,
		TechnicalScore:   fb.TechnicalScore,
		Clarity:          fb.Clarity,
	}
	if a.Skipped {
		out.Score = 0
	}
	if fb.CommunicationScore != nil {
		out.CommunicationScore = *fb.CommunicationScore
	} else {
		out.CommunicationScore = out.Score
	}
	if fb.Completeness != nil {
		out.Completeness = *fb.Completeness
	} else {
		out.Completeness = out.Score
	}

	if q.Coding {
		if a.Code != "" {
			code := a.Code
			out.HasCode = true
			out.Code = &code
			out.CodeLength = len(code)
		}
	} else if a.HasTranscript() {
		out.HasTranscript = true
		out.Transcription = a.Transcript
		out.TranscriptWordCount = textx.WordCount(a.Transcript.Text)
	} else {
		out.Transcription = a.Transcript
	}
	return out
}

// buildLegacyDetail shapes the flat entry still written for old readers.
func buildLegacyDetail(q domain.Question, a domain.Answer, fb domain.AnswerFeedback) domain.LegacyDetail {
	score := fb.Score
	if a.Skipped {
		score = 0
	}
	return domain.LegacyDetail{
		QuestionID:   q.ID,
		QuestionText: q.Text,
		UserAnswer:   legacyUserAnswer(q, a),
		Score:        score,
		Feedback:     fb.Assessment,
		Strengths:    fb.Strengths,
		Improvements: fb.Improvements,
	}
}

func legacyUserAnswer(q domain.Question, a domain.Answer) string {
	if a.Skipped {
		return domain.LegacySkippedAnswer
	}
	if q.Coding {
		if a.Code == "" {
			return domain.LegacyNoCode
		}
		return a.Code
	}
	if a.HasTranscript() {
		return a.Transcript.Text
	}
	return domain.LegacyNoTranscript
}
