package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

func TestParseAnswerFeedback_FencedResponse(t *testing.T) {
	raw := "Here is the evaluation:\n```json\n{\"score\": 83, \"assessment\": \"Solid answer\", \"strengths\": [\"depth\"], \"technicalScore\": 80}\n```"
	q := domain.Question{ID: "1", Type: "technical", Difficulty: "medium"}
	a := domain.Answer{QuestionID: "1", Transcript: &domain.Transcript{Text: "..."}}

	fb, err := ParseAnswerFeedback(ai.NewResponseCleaner(), raw, q, a)
	require.NoError(t, err)
	assert.Equal(t, 83, fb.Score)
	assert.Equal(t, "Solid answer", fb.Assessment)
	assert.Equal(t, []string{"depth"}, fb.Strengths)
	require.NotNil(t, fb.TechnicalScore)
	assert.Equal(t, 80, *fb.TechnicalScore)
	assert.Equal(t, "audio", fb.ResponseType)
	assert.True(t, fb.Answered)
}

func TestParseAnswerFeedback_Garbage(t *testing.T) {
	_, err := ParseAnswerFeedback(ai.NewResponseCleaner(), "I cannot evaluate this answer.", domain.Question{}, domain.Answer{})
	assert.Error(t, err)
}

func TestValidateFeedback_Defaults(t *testing.T) {
	fb := domain.AnswerFeedback{}
	ValidateFeedback(&fb, domain.Question{Coding: true}, domain.Answer{Code: "x"})
	assert.Equal(t, 60, fb.Score)
	assert.Equal(t, "Assessment not available", fb.Assessment)
	assert.NotNil(t, fb.Strengths)
	assert.Empty(t, fb.Strengths)
	assert.Equal(t, "code", fb.ResponseType)
	assert.True(t, fb.Answered)
}

func TestValidateFeedback_ClampAndTruncate(t *testing.T) {
	long := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("item %d", i)
		}
		return out
	}
	fb := domain.AnswerFeedback{
		Score:               250,
		Strengths:           long(9),
		Improvements:        long(7),
		Suggestions:         long(6),
		KeywordsCovered:     long(12),
		MissedOpportunities: long(8),
	}
	ValidateFeedback(&fb, domain.Question{}, domain.Answer{Skipped: true})
	assert.Equal(t, 100, fb.Score)
	assert.Len(t, fb.Strengths, 5)
	assert.Len(t, fb.Improvements, 5)
	assert.Len(t, fb.Suggestions, 5)
	assert.Len(t, fb.KeywordsCovered, 8)
	assert.Len(t, fb.MissedOpportunities, 5)
	assert.Equal(t, "skipped", fb.ResponseType)
	assert.False(t, fb.Answered)

	fb = domain.AnswerFeedback{Score: -4}
	ValidateFeedback(&fb, domain.Question{}, domain.Answer{})
	assert.Equal(t, 0, fb.Score)
}

func TestFallbackFeedback_Scores(t *testing.T) {
	cases := []struct {
		name       string
		q          domain.Question
		a          domain.Answer
		wantScore  int
		wantType   string
		wantAnswer bool
	}{
		{"skipped", domain.Question{Type: "technical", Difficulty: "medium"}, domain.Answer{Skipped: true}, 0, "skipped", false},
		{"coding medium", domain.Question{Coding: true, Difficulty: "medium"}, domain.Answer{Code: "x"}, 50, "code", true},
		{"voice medium", domain.Question{Difficulty: "medium"}, domain.Answer{}, 55, "audio", true},
		{"voice easy", domain.Question{Difficulty: "easy"}, domain.Answer{}, 65, "audio", true},
		{"coding hard", domain.Question{Coding: true, Difficulty: "hard"}, domain.Answer{}, 40, "code", true},
		{"skipped easy", domain.Question{Difficulty: "easy"}, domain.Answer{Skipped: true}, 10, "skipped", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fb := FallbackFeedback(tc.q, tc.a)
			assert.Equal(t, tc.wantScore, fb.Score)
			assert.Equal(t, tc.wantType, fb.ResponseType)
			assert.Equal(t, tc.wantAnswer, fb.Answered)
			assert.NotEmpty(t, fb.Assessment)
		})
	}
}

func TestFallbackFeedback_Deterministic(t *testing.T) {
	q := domain.Question{Type: "technical", Difficulty: "hard", Coding: true}
	a := domain.Answer{Code: "def f(): pass"}
	assert.Equal(t, FallbackFeedback(q, a), FallbackFeedback(q, a))
}

func TestValidateQuestions_BackfillAndPad(t *testing.T) {
	spec := QuestionSpec{Type: "technical", Difficulty: "medium", QuestionCount: 4, IncludeCoding: true}
	in := []domain.Question{
		{Text: "What is a goroutine?"},
		{ID: "x", Text: "Implement an LRU cache.", Coding: true},
	}
	out := ValidateQuestions(in, spec)
	require.Len(t, out, 4)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "technical", out[0].Type)
	assert.Equal(t, "medium", out[0].Difficulty)
	assert.Equal(t, 180, out[0].ExpectedDuration)
	assert.Equal(t, 900, out[1].ExpectedDuration)
	assert.Contains(t, out[2].Text, "technical responsibilities")
	assert.Contains(t, out[3].Text, "technical responsibilities")
}

func TestValidateQuestions_TrimAndClearCoding(t *testing.T) {
	spec := QuestionSpec{Type: "technical", Difficulty: "medium", QuestionCount: 1, IncludeCoding: false}
	in := []domain.Question{
		{ID: "1", Text: "a", Coding: true},
		{ID: "2", Text: "b"},
	}
	out := ValidateQuestions(in, spec)
	require.Len(t, out, 1)
	assert.False(t, out[0].Coding)
	assert.Equal(t, 180, out[0].ExpectedDuration)
}

func TestFallbackQuestions(t *testing.T) {
	spec := QuestionSpec{
		Role:          "Frontend Developer",
		Company:       "Acme",
		Difficulty:    "medium",
		Language:      "javascript",
		IncludeCoding: true,
		QuestionCount: 10,
	}
	out := FallbackQuestions(spec)
	require.Len(t, out, 10)

	coding := 0
	for _, q := range out {
		if q.Coding {
			coding++
			assert.Equal(t, 900, q.ExpectedDuration)
		}
		assert.NotEmpty(t, q.ID)
		assert.NotEmpty(t, q.Text)
	}
	assert.Equal(t, 2, coding)
	assert.Contains(t, out[0].Text, "Frontend Developer")
	assert.Contains(t, out[1].Text, "Acme")
}

func TestFallbackQuestions_TrimsToCount(t *testing.T) {
	spec := QuestionSpec{Role: "Backend Engineer", Company: "Acme", Difficulty: "easy", QuestionCount: 3}
	out := FallbackQuestions(spec)
	assert.Len(t, out, 3)
}
