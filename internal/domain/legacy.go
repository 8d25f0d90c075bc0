package domain

import (
	"regexp"
	"strings"
)

// codeTokens are substrings whose presence in a flat v1 answer marks it as a
// code submission rather than a spoken transcript.
var codeTokens = []string{
	"def ", "function ", "class ", "const ", "let ", "var ",
	"import ", "from ", "return ",
}

var codePunct = regexp.MustCompile(`[{}\[\];]`)

// LooksLikeCode classifies a flat v1 userAnswer as code or prose. The marker
// strings for skipped and transcript-less answers are never code.
func LooksLikeCode(answer string) bool {
	if answer == "" || answer == LegacyNoTranscript || answer == LegacySkippedAnswer {
		return false
	}
	for _, tok := range codeTokens {
		if strings.Contains(answer, tok) {
			return true
		}
	}
	return codePunct.MatchString(answer)
}

// UpgradeLegacyFeedback converts a stored v1 document into the enriched v2
// shape in place. It is a best-effort reconstruction: question types default
// to "technical", transcripts are synthesized from the flat answer text with
// a fixed confidence, and per-dimension scores fall back to the answer score.
// Documents already enriched are returned untouched. The stored row is not
// rewritten; the upgrade happens on every read of a v1 document.
func UpgradeLegacyFeedback(f *SessionFeedback) {
	if f.IsEnriched() {
		return
	}

	difficulty := f.Difficulty
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	feedbacks := make([]QuestionFeedback, 0, len(f.DetailedFeedback))
	for _, d := range f.DetailedFeedback {
		skipped := d.UserAnswer == LegacySkippedAnswer
		coding := LooksLikeCode(d.UserAnswer)
		answered := !skipped && d.UserAnswer != "" && d.UserAnswer != LegacyNoTranscript
		hasTranscript := answered && !coding

		qf := QuestionFeedback{
			QuestionID:         d.QuestionID,
			QuestionText:       d.QuestionText,
			QuestionType:       "technical",
			Difficulty:         difficulty,
			Coding:             coding,
			Score:              d.Score,
			WasAnswered:        answered,
			HasTranscript:      hasTranscript,
			DetailedFeedback:   d.Feedback,
			Strengths:          d.Strengths,
			Improvements:       d.Improvements,
			CommunicationScore: d.Score,
			Completeness:       d.Score,
		}
		if hasTranscript {
			qf.Transcription = &Transcript{Text: d.UserAnswer, Confidence: 0.9}
			qf.TranscriptWordCount = len(strings.Fields(d.UserAnswer))
		}
		if coding && answered {
			code := d.UserAnswer
			qf.HasCode = true
			qf.Code = &code
			qf.CodeLength = len(code)
			score := d.Score
			qf.TechnicalScore = &score
		}
		feedbacks = append(feedbacks, qf)
	}
	f.QuestionFeedbacks = feedbacks

	if f.OverallGrade == "" {
		f.OverallGrade = GradeFor(f.OverallScore)
	}
	if f.CompletionRate == 0 && f.TotalQuestions > 0 {
		f.CompletionRate = (f.AnsweredQuestions*100 + f.TotalQuestions/2) / f.TotalQuestions
	}
	if len(f.OverallStrengths) == 0 {
		f.OverallStrengths = f.Strengths
	}
	if len(f.OverallImprovements) == 0 {
		f.OverallImprovements = f.Improvements
	}
	f.FeedbackVersion = FeedbackV1
}
