package usecase

import (
	"math"
	"time"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// SessionMeta is the interview metadata clients attach to a feedback
// request. Raw keeps the original map for pass-through storage.
type SessionMeta struct {
	JobRole                string
	Company                string
	InterviewType          string
	Difficulty             string
	AverageTimePerQuestion int
	TotalInterviewTime     int
	ResumeProcessed        bool
	Language               string
	Raw                    map[string]any
}

// MetaFromMap lifts the known fields out of a raw metadata map, applying the
// documented defaults.
func MetaFromMap(m map[string]any) SessionMeta {
	if m == nil {
		m = map[string]any{}
	}
	role := strAt(m, "jobRole")
	if role == "" {
		role = strAt(m, "role")
	}
	if role == "" {
		role = "Not specified"
	}
	meta := SessionMeta{
		JobRole:                role,
		Company:                strAt(m, "company"),
		InterviewType:          strAt(m, "interviewType"),
		Difficulty:             strAt(m, "difficulty"),
		AverageTimePerQuestion: intAt(m, "averageTimePerQuestion"),
		TotalInterviewTime:     intAt(m, "totalInterviewTime"),
		ResumeProcessed:        boolAt(m, "resumeProcessed"),
		Language:               strAt(m, "language"),
		Raw:                    m,
	}
	if meta.Company == "" {
		meta.Company = "Not specified"
	}
	if meta.InterviewType == "" {
		meta.InterviewType = "technical"
	}
	if meta.Difficulty == "" {
		meta.Difficulty = domain.DifficultyMedium
	}
	if meta.Language == "" {
		meta.Language = "javascript"
	}
	return meta
}

func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// AverageScore averages the per-answer contribution scores, zeros included,
// rounding half away from zero.
func AverageScore(scores []int) int {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return roundDiv(sum, len(scores))
}

// CompletionRate is the rounded percentage of answered questions.
func CompletionRate(answered, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(answered) / float64(total) * 100))
}

// dedupCap removes duplicates keeping first-seen order, capped at n.
func dedupCap(list []string, n int) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, n)
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}

func dedup(list []string) []string {
	return dedupCap(list, len(list))
}

// PoolThemes pools strengths from high-scoring answers (>=80) and
// improvements from low-scoring ones (<65), along with the question types
// that produced them.
func PoolThemes(feedbacks []domain.QuestionFeedback) (strengths, improvements, strongAreas, weakAreas []string) {
	for _, fb := range feedbacks {
		switch {
		case fb.Score >= 80:
			strengths = append(strengths, fb.Strengths...)
			strongAreas = append(strongAreas, fb.QuestionType)
		case fb.Score < 65:
			improvements = append(improvements, fb.Improvements...)
			weakAreas = append(weakAreas, fb.QuestionType)
		}
	}
	return dedupCap(strengths, 5), dedupCap(improvements, 5), dedup(strongAreas), dedup(weakAreas)
}

// Defaults used when no answer scored into the pooled buckets.
var (
	defaultOverallStrengths = []string{
		"Completed the interview process",
		"Demonstrated engagement with the questions",
	}
	defaultOverallImprovements = []string{
		"Focus on providing more detailed responses",
		"Practice explaining technical concepts clearly",
	}
)

// Recommendations derives up to five study recommendations from the average
// score tier, with extra coding advice when coding answers averaged below 70.
func Recommendations(feedbacks []domain.QuestionFeedback, averageScore int) []string {
	var recs []string
	switch {
	case averageScore < 60:
		recs = []string{
			"Focus on understanding fundamental concepts before moving to advanced topics",
			"Practice explaining your thought process step by step",
			"Take time to think through questions before responding",
		}
	case averageScore < 75:
		recs = []string{
			"Work on providing more comprehensive answers with examples",
			"Practice technical interview questions regularly",
			"Focus on explaining the reasoning behind your solutions",
		}
	case averageScore < 85:
		recs = []string{
			"Continue practicing advanced scenarios and edge cases",
			"Work on optimizing your solutions and discussing trade-offs",
			"Practice explaining complex concepts in simple terms",
		}
	default:
		recs = []string{
			"Maintain your strong performance with continued practice",
			"Focus on leadership and system design questions",
			"Consider mentoring others to reinforce your knowledge",
		}
	}

	codingSum, codingN := 0, 0
	for _, fb := range feedbacks {
		if fb.Coding {
			codingSum += fb.Score
			codingN++
		}
	}
	if codingN > 0 && float64(codingSum)/float64(codingN) < 70 {
		recs = append(recs,
			"Practice more coding problems on platforms like LeetCode or HackerRank",
			"Focus on understanding time and space complexity",
			"Work on writing cleaner, more readable code with proper variable names",
		)
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

// NextSteps derives up to four follow-up actions from the average score.
func NextSteps(averageScore int) []string {
	steps := []string{
		"Review the detailed feedback for each question",
		"Practice the areas identified for improvement",
		"Take another mock interview to track progress",
	}
	if averageScore < 70 {
		steps = append(steps,
			"Study fundamental concepts in your field",
			"Practice basic interview questions daily",
		)
	} else {
		steps = append(steps,
			"Practice advanced interview scenarios",
			"Focus on system design and architectural questions",
		)
	}
	if len(steps) > 4 {
		steps = steps[:4]
	}
	return steps
}

// CategoryPerformance aggregates per-question feedback by question type.
// Average scores only count answered questions.
func CategoryPerformance(feedbacks []domain.QuestionFeedback) map[string]*domain.CategoryStats {
	categories := make(map[string]*domain.CategoryStats)
	scores := make(map[string][]int)
	for _, fb := range feedbacks {
		key := fb.QuestionType
		if key == "" {
			key = "general"
		}
		cat, ok := categories[key]
		if !ok {
			cat = &domain.CategoryStats{}
			categories[key] = cat
		}
		cat.TotalQuestions++
		if fb.WasAnswered {
			cat.QuestionsAnswered++
			scores[key] = append(scores[key], fb.Score)
		}
		if fb.HasTranscript {
			cat.TranscriptAvailable++
			cat.TotalWordsSpoken += fb.TranscriptWordCount
		}
		if fb.HasCode {
			cat.CodeSubmissions++
			cat.TotalCodeLength += fb.CodeLength
		}
	}
	for key, cat := range categories {
		sum := 0
		for _, s := range scores[key] {
			sum += s
		}
		cat.AverageScore = roundDiv(sum, len(scores[key]))
		cat.CompletionRate = CompletionRate(cat.QuestionsAnswered, cat.TotalQuestions)
		cat.AverageWordsSpoken = roundDiv(cat.TotalWordsSpoken, cat.TranscriptAvailable)
		cat.AverageCodeLength = roundDiv(cat.TotalCodeLength, cat.CodeSubmissions)
	}
	return categories
}

// BuildEnhancedMetrics computes the session-level metric block.
func BuildEnhancedMetrics(feedbacks []domain.QuestionFeedback) domain.EnhancedMetrics {
	var (
		commSum                  int
		techSum, techN           int
		totalWords, transcriptN  int
		codingAttempted, codeLen int
	)
	for _, fb := range feedbacks {
		commSum += fb.CommunicationScore
		if fb.TechnicalScore != nil {
			techSum += *fb.TechnicalScore
			techN++
		}
		if fb.HasTranscript {
			totalWords += fb.TranscriptWordCount
			transcriptN++
		}
		if fb.Coding && fb.HasCode {
			codingAttempted++
		}
		codeLen += fb.CodeLength
	}
	m := domain.EnhancedMetrics{
		AverageCommunicationScore: roundDiv(commSum, len(feedbacks)),
		TotalWordsSpoken:          totalWords,
		AverageWordsPerResponse:   roundDiv(totalWords, transcriptN),
		QuestionsWithTranscripts:  transcriptN,
		CodingQuestionsAttempted:  codingAttempted,
		TotalCodeLength:           codeLen,
	}
	if techN > 0 {
		avg := roundDiv(techSum, techN)
		m.AverageTechnicalScore = &avg
	}
	return m
}

// BuildCommunicationAnalysis buckets overall speaking style. Returns nil
// when no voice answer carried a transcript.
func BuildCommunicationAnalysis(metrics domain.EnhancedMetrics) *domain.CommunicationAnalysis {
	if metrics.QuestionsWithTranscripts == 0 {
		return nil
	}
	brevity := "balanced"
	switch {
	case metrics.AverageWordsPerResponse < 50:
		brevity = "concise"
	case metrics.AverageWordsPerResponse > 150:
		brevity = "detailed"
	}
	return &domain.CommunicationAnalysis{
		TotalWordsSpoken:        metrics.TotalWordsSpoken,
		AverageWordsPerResponse: metrics.AverageWordsPerResponse,
		CommunicationPatterns: domain.CommunicationPatterns{
			Brevity:              brevity,
			TechnicalLanguageUse: "moderate",
		},
	}
}

// BuildSessionFeedback assembles the full v2 document from the scored
// answers. Everything here is deterministic except GeneratedAt.
func BuildSessionFeedback(
	userID, sessionID string,
	questions []domain.Question,
	feedbacks []domain.QuestionFeedback,
	legacy []domain.LegacyDetail,
	contributionScores []int,
	answeredCount int,
	meta SessionMeta,
) domain.SessionFeedback {
	averageScore := AverageScore(contributionScores)
	strengths, improvements, strongAreas, weakAreas := PoolThemes(feedbacks)
	metrics := BuildEnhancedMetrics(feedbacks)

	overallStrengths := strengths
	if len(overallStrengths) == 0 {
		overallStrengths = defaultOverallStrengths
	}
	overallImprovements := improvements
	if len(overallImprovements) == 0 {
		overallImprovements = defaultOverallImprovements
	}

	codingQuestions := 0
	for _, q := range questions {
		if q.Coding {
			codingQuestions++
		}
	}

	return domain.SessionFeedback{
		UserID:                 userID,
		SessionID:              sessionID,
		Role:                   meta.JobRole,
		Company:                meta.Company,
		InterviewType:          meta.InterviewType,
		Difficulty:             meta.Difficulty,
		OverallScore:           averageScore,
		TotalQuestions:         len(questions),
		AnsweredQuestions:      answeredCount,
		SkippedQuestions:       len(questions) - answeredCount,
		CodingQuestions:        codingQuestions,
		AverageTimePerQuestion: meta.AverageTimePerQuestion,
		TotalInterviewTime:     meta.TotalInterviewTime,
		Strengths:              strengths,
		Improvements:           improvements,
		StrongAreas:            strongAreas,
		WeakAreas:              weakAreas,
		DetailedFeedback:       legacy,
		ResumeProcessed:        meta.ResumeProcessed,
		Language:               meta.Language,
		GeneratedAt:            time.Now().UTC(),

		OverallGrade:          domain.GradeFor(averageScore),
		CompletionRate:        CompletionRate(answeredCount, len(questions)),
		EnhancedMetrics:       &metrics,
		OverallStrengths:      overallStrengths,
		OverallImprovements:   overallImprovements,
		Recommendations:       Recommendations(feedbacks, averageScore),
		NextSteps:             NextSteps(averageScore),
		QuestionFeedbacks:     feedbacks,
		CategoryPerformance:   CategoryPerformance(feedbacks),
		CommunicationAnalysis: BuildCommunicationAnalysis(metrics),
		InterviewMetadata:     meta.Raw,
		FeedbackVersion:       domain.FeedbackV2,
	}
}
