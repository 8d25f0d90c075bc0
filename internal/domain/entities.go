// Package domain holds the core entities and ports of the interview coach.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrConfiguration      = errors.New("configuration error")
	ErrUpstreamGeneration = errors.New("upstream generation failed")
	ErrInternal           = errors.New("internal error")
)

// Difficulty values accepted for questions and sessions.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Feedback document schema versions. V1 is the flat legacy shape, V2 the
// enriched shape with per-question feedbacks. All writes stamp V2.
const (
	FeedbackV1 = "v1"
	FeedbackV2 = "v2"
)

// Markers the legacy flat schema used in place of a real answer payload.
const (
	LegacySkippedAnswer = "Question was skipped"
	LegacyNoTranscript  = "No transcript available"
	LegacyNoCode        = "No code submitted"
)

// Question is an interview question produced by the model or the fallback
// generator. Immutable once stored.
type Question struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	Type             string `json:"type"`
	Difficulty       string `json:"difficulty"`
	Coding           bool   `json:"coding"`
	ExpectedDuration int    `json:"expectedDuration"` // seconds
}

// Answer is a transient candidate response to one question. Exactly one of
// Transcript, Code or Skipped is meaningful depending on the question's
// coding flag.
type Answer struct {
	QuestionID string      `json:"questionId"`
	Transcript *Transcript `json:"transcription,omitempty"`
	Code       string      `json:"code,omitempty"`
	Skipped    bool        `json:"skipped,omitempty"`
}

// HasTranscript reports whether the answer carries non-empty transcript text.
func (a Answer) HasTranscript() bool {
	return a.Transcript != nil && a.Transcript.Text != ""
}

// AnswerFeedback is the normalized per-answer model output. The normalizer
// guarantees score in [0,100] and bounded list fields; it never fails.
type AnswerFeedback struct {
	Score               int      `json:"score"`
	Assessment          string   `json:"assessment"`
	Strengths           []string `json:"strengths"`
	Improvements        []string `json:"improvements"`
	Suggestions         []string `json:"suggestions"`
	KeywordsCovered     []string `json:"keywordsCovered"`
	MissedOpportunities []string `json:"missedOpportunities"`
	CommunicationScore  *int     `json:"communicationScore,omitempty"`
	TechnicalScore      *int     `json:"technicalScore,omitempty"`
	Completeness        *int     `json:"completeness,omitempty"`
	Clarity             *int     `json:"clarity,omitempty"`
	ResponseType        string   `json:"responseType"`
	Answered            bool     `json:"answered"`
}

// QuestionFeedback is one entry of the enriched (v2) per-question list.
type QuestionFeedback struct {
	QuestionID          string      `json:"questionId"`
	QuestionText        string      `json:"questionText"`
	QuestionType        string      `json:"questionType"`
	Difficulty          string      `json:"difficulty"`
	Coding              bool        `json:"coding"`
	Score               int         `json:"score"`
	WasAnswered         bool        `json:"wasAnswered"`
	HasTranscript       bool        `json:"hasTranscript"`
	Transcription       *Transcript `json:"transcription"`
	TranscriptWordCount int         `json:"transcriptWordCount"`
	HasCode             bool        `json:"hasCode"`
	Code                *string     `json:"code"`
	CodeLength          int         `json:"codeLength"`
	DetailedFeedback    string      `json:"detailedFeedback"`
	Strengths           []string    `json:"strengths"`
	Improvements        []string    `json:"improvements"`
	CommunicationScore  int         `json:"communicationScore"`
	TechnicalScore      *int        `json:"technicalScore"`
	Completeness        int         `json:"completeness"`
	Clarity             *int        `json:"clarity"`
}

// LegacyDetail is one entry of the flat v1 detailedFeedback array. It is
// still written alongside the v2 list for backward compatibility.
type LegacyDetail struct {
	QuestionID   string   `json:"questionId"`
	QuestionText string   `json:"questionText"`
	UserAnswer   string   `json:"userAnswer"`
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// CategoryStats aggregates per-question-type performance.
type CategoryStats struct {
	TotalQuestions      int `json:"totalQuestions"`
	QuestionsAnswered   int `json:"questionsAnswered"`
	AverageScore        int `json:"averageScore"`
	CompletionRate      int `json:"completionRate"`
	TranscriptAvailable int `json:"transcriptAvailable"`
	TotalWordsSpoken    int `json:"totalWordsSpoken"`
	AverageWordsSpoken  int `json:"averageWordsSpoken"`
	CodeSubmissions     int `json:"codeSubmissions"`
	TotalCodeLength     int `json:"totalCodeLength"`
	AverageCodeLength   int `json:"averageCodeLength"`
}

// EnhancedMetrics carries the v2 session-level metric block.
type EnhancedMetrics struct {
	AverageCommunicationScore int  `json:"averageCommunicationScore"`
	AverageTechnicalScore     *int `json:"averageTechnicalScore"`
	TotalWordsSpoken          int  `json:"totalWordsSpoken"`
	AverageWordsPerResponse   int  `json:"averageWordsPerResponse"`
	QuestionsWithTranscripts  int  `json:"questionsWithTranscripts"`
	CodingQuestionsAttempted  int  `json:"codingQuestionsAttempted"`
	TotalCodeLength           int  `json:"totalCodeLength"`
}

// CommunicationPatterns buckets how the candidate spoke overall.
type CommunicationPatterns struct {
	Brevity              string `json:"brevity"` // concise | balanced | detailed
	TechnicalLanguageUse string `json:"technicalLanguageUse"`
}

// CommunicationAnalysis is present only when at least one voice answer
// carried a transcript.
type CommunicationAnalysis struct {
	TotalWordsSpoken        int                   `json:"totalWordsSpoken"`
	AverageWordsPerResponse int                   `json:"averageWordsPerResponse"`
	CommunicationPatterns   CommunicationPatterns `json:"communicationPatterns"`
}

// SessionFeedback is the single feedback document kept per (sessionID,
// userID). It contains both the legacy flat fields and the enriched v2
// fields; FeedbackVersion tags which shape a stored document was written in.
// Re-submission for the same session overwrites the whole document.
type SessionFeedback struct {
	ID        string `json:"id,omitempty"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`

	// Legacy flat fields (v1), still populated on every write.
	Role                   string         `json:"role"`
	Company                string         `json:"company"`
	InterviewType          string         `json:"interviewType"`
	Difficulty             string         `json:"difficulty"`
	OverallScore           int            `json:"overallScore"`
	TotalQuestions         int            `json:"totalQuestions"`
	AnsweredQuestions      int            `json:"answeredQuestions"`
	SkippedQuestions       int            `json:"skippedQuestions"`
	CodingQuestions        int            `json:"codingQuestions"`
	AverageTimePerQuestion int            `json:"averageTimePerQuestion"`
	TotalInterviewTime     int            `json:"totalInterviewTime"`
	Strengths              []string       `json:"strengths"`
	Improvements           []string       `json:"improvements"`
	StrongAreas            []string       `json:"strongAreas"`
	WeakAreas              []string       `json:"weakAreas"`
	DetailedFeedback       []LegacyDetail `json:"detailedFeedback"`
	ResumeProcessed        bool           `json:"resumeProcessed"`
	Language               string         `json:"language"`
	GeneratedAt            time.Time      `json:"generatedAt"`

	// Enriched fields (v2).
	OverallGrade          string                    `json:"overallGrade,omitempty"`
	CompletionRate        int                       `json:"completionRate"`
	EnhancedMetrics       *EnhancedMetrics          `json:"enhancedMetrics,omitempty"`
	OverallStrengths      []string                  `json:"overallStrengths,omitempty"`
	OverallImprovements   []string                  `json:"overallImprovements,omitempty"`
	Recommendations       []string                  `json:"recommendations,omitempty"`
	NextSteps             []string                  `json:"nextSteps,omitempty"`
	QuestionFeedbacks     []QuestionFeedback        `json:"questionFeedbacks,omitempty"`
	CategoryPerformance   map[string]*CategoryStats `json:"categoryPerformance,omitempty"`
	CommunicationAnalysis *CommunicationAnalysis    `json:"communicationAnalysis,omitempty"`
	InterviewMetadata     map[string]any            `json:"interviewMetadata,omitempty"`
	FeedbackVersion       string                    `json:"feedbackVersion,omitempty"`
}

// IsEnriched reports whether the document already carries the v2 shape.
func (f *SessionFeedback) IsEnriched() bool {
	return f.FeedbackVersion == FeedbackV2 && len(f.QuestionFeedbacks) > 0
}

// Session is one mock-interview attempt owned by a user.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	JobRole   string         `json:"jobRole"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// User is an authenticated account. Role is "user" or "admin".
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool { return u.Role == "admin" }

// ScorePoint is one chronological entry of the analytics score trend.
type ScorePoint struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}

// RollingPoint is one entry of the rolling (window<=3) average trend.
type RollingPoint struct {
	Date       time.Time `json:"date"`
	RollingAvg int       `json:"rollingAvg"`
}

// LastInterview summarizes a user's most recent session for analytics.
type LastInterview struct {
	Score        int      `json:"score"`
	Grade        string   `json:"grade"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// UserAnalytics aggregates a user's whole feedback history.
type UserAnalytics struct {
	TotalInterviews        int            `json:"totalInterviews"`
	AvgScore               int            `json:"avgScore"`
	BestScore              int            `json:"bestScore"`
	WorstScore             int            `json:"worstScore"`
	AvgCompletionRate      int            `json:"avgCompletionRate"`
	GradeDistribution      map[string]int `json:"gradeDistribution"`
	MostCommonStrengths    []string       `json:"mostCommonStrengths"`
	MostCommonImprovements []string       `json:"mostCommonImprovements"`
	ScoreTrend             []ScorePoint   `json:"scoreTrend"`
	RollingAvgTrend        []RollingPoint `json:"rollingAvgTrend"`
	LastInterview          *LastInterview `json:"lastInterview"`
	Progress               int            `json:"progress"`
}

// Repositories (ports)

type UserRepository interface {
	Create(ctx Context, u User) (string, error)
	GetByEmail(ctx Context, email string) (User, error)
	GetByID(ctx Context, id string) (User, error)
}

type SessionRepository interface {
	// Upsert creates the session if absent and returns the stored record.
	Upsert(ctx Context, s Session) (Session, error)
	Get(ctx Context, id string) (Session, error)
}

type QuestionRepository interface {
	// SaveIfAbsent stores a question unless one with the same id exists.
	SaveIfAbsent(ctx Context, q Question) error
	Get(ctx Context, id string) (Question, error)
}

type FeedbackRepository interface {
	// Upsert fully replaces any existing document for (SessionID, UserID).
	Upsert(ctx Context, f SessionFeedback) (string, error)
	GetBySession(ctx Context, sessionID string) (SessionFeedback, error)
	// ListByUser returns a page (newest first) plus the total count.
	ListByUser(ctx Context, userID string, page, limit int) ([]SessionFeedback, int64, error)
	// ListChronological returns the full history oldest first.
	ListChronological(ctx Context, userID string) ([]SessionFeedback, error)
}

// AIClient (port)

// AIClient wraps the generative-text API. The returned text is expected,
// but not guaranteed, to contain JSON.
type AIClient interface {
	Generate(ctx Context, prompt string) (string, error)
}

// TextExtractor (port)
// ExtractPath extracts plain text from an uploaded file. Implementations
// degrade to an explanatory placeholder string on unsupported formats
// instead of failing.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path, mimeType string) (string, error)
}

// Context aliases context.Context so the domain package reads without the
// std import at every signature; adapters pass context.Context through.
type Context = context.Context
