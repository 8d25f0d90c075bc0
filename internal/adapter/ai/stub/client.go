// Package stub provides a fast, deterministic AI client for local runs and
// tests. It inspects the prompt to decide which payload shape to return.
package stub

import (
	"encoding/json"
	"strings"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// Client implements the AI client port without network calls.
type Client struct{}

func New() *Client { return &Client{} }

// Generate returns a compact JSON string matching the schema the prompt
// asks for. It never fails.
func (c *Client) Generate(_ domain.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "JSON array"):
		return questionsPayload(), nil
	case strings.Contains(prompt, "ats_friendly"):
		return resumePayload(), nil
	default:
		return feedbackPayload(), nil
	}
}

func questionsPayload() string {
	qs := []map[string]any{}
	for i := 1; i <= 5; i++ {
		qs = append(qs, map[string]any{
			"id":               i,
			"text":             "Describe a project where you applied the core skills of this role.",
			"type":             "technical",
			"difficulty":       "medium",
			"coding":           false,
			"expectedDuration": 180,
		})
	}
	b, _ := json.Marshal(qs)
	return string(b)
}

func feedbackPayload() string {
	payload := map[string]any{
		"score":               72,
		"assessment":          "Clear answer with reasonable structure and relevant detail.",
		"strengths":           []string{"Clear structure", "Relevant examples"},
		"improvements":        []string{"Quantify outcomes"},
		"suggestions":         []string{"Use the STAR format"},
		"keywordsCovered":     []string{"ownership"},
		"missedOpportunities": []string{"Mention trade-offs considered"},
		"communicationScore":  74,
		"technicalScore":      70,
		"completeness":        71,
		"clarity":             75,
	}
	b, _ := json.Marshal(payload)
	return string(b)
}

func resumePayload() string {
	payload := map[string]any{
		"ats_friendly":     true,
		"fit_for_role":     "moderate",
		"missing_keywords": []string{"kubernetes"},
		"improvements":     []string{"Add measurable impact to bullet points"},
		"clarity":          "good",
		"achievements":     "present but unquantified",
		"sections":         map[string]string{"experience": "ok", "education": "ok"},
		"red_flags":        []string{},
		"formatting":       "clean single column",
		"resume_length":    "appropriate",
		"soft_skills":      []string{"communication"},
		"score":            68,
	}
	b, _ := json.Marshal(payload)
	return string(b)
}
