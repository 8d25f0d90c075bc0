package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// The normalizer repairs model output into the guaranteed shapes the rest of
// the pipeline relies on. It is intentionally forgiving: wrong types become
// zero values, missing scores get the neutral default, and oversized lists
// are truncated. Parse failures surface as errors so the caller can degrade
// to the deterministic fallback instead.

const defaultScore = 60

// ParseAnswerFeedback extracts and normalizes one per-answer feedback object
// from raw model text.
func ParseAnswerFeedback(cleaner *ai.ResponseCleaner, raw string, q domain.Question, a domain.Answer) (domain.AnswerFeedback, error) {
	cleaned, err := cleaner.ExtractObject(raw)
	if err != nil {
		return domain.AnswerFeedback{}, fmt.Errorf("op=usecase.ParseAnswerFeedback: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(cleaned), &m); err != nil {
		return domain.AnswerFeedback{}, fmt.Errorf("op=usecase.ParseAnswerFeedback: %w", err)
	}
	fb := domain.AnswerFeedback{
		Score:               intAt(m, "score"),
		Assessment:          strAt(m, "assessment"),
		Strengths:           strSliceAt(m, "strengths"),
		Improvements:        strSliceAt(m, "improvements"),
		Suggestions:         strSliceAt(m, "suggestions"),
		KeywordsCovered:     strSliceAt(m, "keywordsCovered"),
		MissedOpportunities: strSliceAt(m, "missedOpportunities"),
		CommunicationScore:  optIntAt(m, "communicationScore"),
		TechnicalScore:      optIntAt(m, "technicalScore"),
		Completeness:        optIntAt(m, "completeness"),
		Clarity:             optIntAt(m, "clarity"),
	}
	ValidateFeedback(&fb, q, a)
	return fb, nil
}

// ValidateFeedback enforces the feedback invariants in place: a present
// score in [0,100] (zero or missing becomes the neutral default), a
// non-empty assessment, bounded lists, and the response type derived from
// the question and answer rather than trusted from the model.
func ValidateFeedback(fb *domain.AnswerFeedback, q domain.Question, a domain.Answer) {
	if fb.Score == 0 {
		fb.Score = defaultScore
	}
	if fb.Score < 0 {
		fb.Score = 0
	}
	if fb.Score > 100 {
		fb.Score = 100
	}
	if fb.Assessment == "" {
		fb.Assessment = "Assessment not available"
	}
	fb.Strengths = capList(fb.Strengths, 5)
	fb.Improvements = capList(fb.Improvements, 5)
	fb.Suggestions = capList(fb.Suggestions, 5)
	fb.KeywordsCovered = capList(fb.KeywordsCovered, 8)
	fb.MissedOpportunities = capList(fb.MissedOpportunities, 5)

	fb.ResponseType = responseType(q, a)
	fb.Answered = !a.Skipped
}

func responseType(q domain.Question, a domain.Answer) string {
	switch {
	case a.Skipped:
		return "skipped"
	case q.Coding:
		return "code"
	default:
		return "audio"
	}
}

// FallbackFeedback builds the deterministic substitute used when the model
// call fails or its output cannot be parsed. Base score is 0 for skipped
// answers, 50 for coding questions, 55 otherwise, shifted by 10 for easy
// and hard difficulty and clamped to [0,100].
func FallbackFeedback(q domain.Question, a domain.Answer) domain.AnswerFeedback {
	skipped := a.Skipped
	coding := q.Coding

	base := 55
	switch {
	case skipped:
		base = 0
	case coding:
		base = 50
	}
	switch q.Difficulty {
	case domain.DifficultyEasy:
		base += 10
	case domain.DifficultyHard:
		base -= 10
	}
	if base < 0 {
		base = 0
	}
	if base > 100 {
		base = 100
	}

	fb := domain.AnswerFeedback{
		Score:        base,
		ResponseType: responseType(q, a),
		Answered:     !skipped,
	}

	switch {
	case skipped:
		fb.Assessment = "Question was not attempted. This indicates a gap in knowledge or time management."
		fb.Strengths = []string{}
		fb.Improvements = []string{
			fmt.Sprintf("Study %s concepts", q.Type),
			"Practice time management",
			"Build confidence in this area",
		}
		fb.Suggestions = []string{
			fmt.Sprintf("Review %s level %s questions", q.Difficulty, q.Type),
			"Practice similar problems",
			"Allocate time better",
		}
		fb.KeywordsCovered = []string{}
		fb.MissedOpportunities = []string{
			"Complete understanding of the topic",
			"Demonstration of problem-solving skills",
		}
	case coding:
		fb.Assessment = "Code submission detected but detailed analysis unavailable. Basic problem-solving approach assumed."
		fb.Strengths = []string{"Attempted the coding challenge", "Code structure shows basic understanding"}
		fb.Improvements = []string{"Code optimization", "Edge case handling", "Algorithm efficiency"}
		fb.Suggestions = []string{"Practice coding problems daily", "Review algorithm fundamentals", "Write cleaner code"}
		fb.KeywordsCovered = []string{q.Type, q.Difficulty + " level"}
		fb.MissedOpportunities = []string{"Code comments", "Time complexity analysis", "Alternative solutions"}
	default:
		fb.Assessment = "Audio response recorded but detailed analysis unavailable. Communication attempt noted."
		fb.Strengths = []string{"Provided a response", "Communication attempt demonstrates engagement"}
		fb.Improvements = []string{"Technical depth", "Specific examples", "Structured responses"}
		fb.Suggestions = []string{"Use the STAR method", "Provide concrete examples", "Practice technical explanations"}
		fb.KeywordsCovered = []string{q.Type, q.Difficulty + " level"}
		fb.MissedOpportunities = []string{"Technical details", "Real-world applications", "Follow-up questions"}
	}
	return fb
}

// ParseQuestions extracts a question list from raw model text and validates
// it against the request spec.
func ParseQuestions(cleaner *ai.ResponseCleaner, raw string, spec QuestionSpec) ([]domain.Question, error) {
	cleaned, err := cleaner.ExtractArray(raw)
	if err != nil {
		return nil, fmt.Errorf("op=usecase.ParseQuestions: %w", err)
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("op=usecase.ParseQuestions: %w", err)
	}
	questions := make([]domain.Question, 0, len(items))
	for i, m := range items {
		q := domain.Question{
			ID:               idAt(m, "id", i+1),
			Text:             strAt(m, "text"),
			Type:             strAt(m, "type"),
			Difficulty:       strAt(m, "difficulty"),
			Coding:           boolAt(m, "coding"),
			ExpectedDuration: intAt(m, "expectedDuration"),
		}
		questions = append(questions, q)
	}
	return ValidateQuestions(questions, spec), nil
}

// ValidateQuestions backfills missing fields and trims or pads the list to
// exactly spec.QuestionCount entries. Coding flags are cleared when the
// request did not ask for coding questions.
func ValidateQuestions(questions []domain.Question, spec QuestionSpec) []domain.Question {
	out := make([]domain.Question, 0, spec.QuestionCount)
	for i, q := range questions {
		if q.ID == "" {
			q.ID = strconv.Itoa(i + 1)
		}
		if q.Text == "" {
			q.Text = fmt.Sprintf("Generated question %d", i+1)
		}
		if q.Type == "" {
			q.Type = spec.Type
		}
		if !spec.IncludeCoding {
			q.Coding = false
		}
		if q.Difficulty == "" {
			q.Difficulty = spec.Difficulty
		}
		if q.ExpectedDuration == 0 {
			if q.Coding {
				q.ExpectedDuration = 900
			} else {
				q.ExpectedDuration = 180
			}
		}
		out = append(out, q)
	}
	if len(out) > spec.QuestionCount {
		out = out[:spec.QuestionCount]
	}
	for len(out) < spec.QuestionCount {
		out = append(out, domain.Question{
			ID:               strconv.Itoa(len(out) + 1),
			Text:             fmt.Sprintf("What experience do you have with %s responsibilities?", strings.ToLower(spec.Type)),
			Type:             spec.Type,
			Difficulty:       spec.Difficulty,
			ExpectedDuration: 180,
		})
	}
	return out
}

// FallbackQuestions builds a deterministic question set when generation
// fails end to end. The base list gains frontend/React extras when the role
// suggests them and two coding exercises when coding was requested.
func FallbackQuestions(spec QuestionSpec) []domain.Question {
	type seed struct {
		text   string
		qtype  string
		coding bool
	}
	seeds := []seed{
		{text: fmt.Sprintf("Tell me about your experience as a %s.", spec.Role), qtype: "behavioral"},
		{text: fmt.Sprintf("What interests you about working at %s?", spec.Company), qtype: "behavioral"},
		{text: "Describe a challenging project you've worked on.", qtype: "behavioral"},
		{text: "How do you stay updated with industry trends?", qtype: "technical"},
		{text: "Where do you see yourself in 5 years?", qtype: "hr"},
	}

	roleLower := strings.ToLower(spec.Role)
	if strings.Contains(roleLower, "frontend") || strings.Contains(roleLower, "react") {
		seeds = append(seeds,
			seed{text: "What are the key differences between React class components and functional components?", qtype: "technical"},
			seed{text: "How do you optimize React application performance?", qtype: "technical"},
			seed{text: "Explain the virtual DOM and how React uses it.", qtype: "technical"},
		)
	}
	if spec.IncludeCoding {
		seeds = append(seeds,
			seed{text: fmt.Sprintf("Write a function to reverse a string in %s.", spec.Language), qtype: "technical", coding: true},
			seed{text: "Implement a function to check if a string is a palindrome.", qtype: "technical", coding: true},
		)
	}

	if len(seeds) > spec.QuestionCount {
		seeds = seeds[:spec.QuestionCount]
	}
	out := make([]domain.Question, 0, len(seeds))
	for i, s := range seeds {
		dur := 180
		if s.coding {
			dur = 900
		}
		out = append(out, domain.Question{
			ID:               strconv.Itoa(i + 1),
			Text:             s.text,
			Type:             s.qtype,
			Coding:           s.coding,
			Difficulty:       spec.Difficulty,
			ExpectedDuration: dur,
		})
	}
	return out
}

// coercion helpers for duck-typed model output

func strAt(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intAt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

func optIntAt(m map[string]any, key string) *int {
	if _, ok := m[key]; !ok {
		return nil
	}
	n := intAt(m, key)
	if n == 0 {
		return nil
	}
	return &n
}

func boolAt(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

func strSliceAt(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func capList(list []string, n int) []string {
	if list == nil {
		return []string{}
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}

func idAt(m map[string]any, key string, fallback int) string {
	switch v := m[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		if v != 0 {
			return strconv.Itoa(int(v))
		}
	}
	return strconv.Itoa(fallback)
}
