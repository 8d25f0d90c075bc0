package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// ResumeService runs the ATS-style resume review.
type ResumeService struct {
	AI      domain.AIClient
	Cleaner *ai.ResponseCleaner
}

// NewResumeService constructs a ResumeService.
func NewResumeService(client domain.AIClient) ResumeService {
	return ResumeService{AI: client, Cleaner: ai.NewResponseCleaner()}
}

// Analyze reviews resumeText against jobDescription. When the model output
// cannot be parsed as JSON the raw text is returned under a "raw" key
// instead of failing; only the model call itself can error.
func (s ResumeService) Analyze(ctx domain.Context, resumeText, jobDescription string) (map[string]any, error) {
	if resumeText == "" || jobDescription == "" {
		return nil, fmt.Errorf("op=resume.Analyze: %w: resume and jobDescription are required", domain.ErrInvalidArgument)
	}
	raw, err := s.AI.Generate(ctx, BuildResumeAnalysisPrompt(resumeText, jobDescription))
	if err != nil {
		return nil, fmt.Errorf("op=resume.Analyze: %w", err)
	}

	cleaned, cleanErr := s.Cleaner.ExtractObject(raw)
	if cleanErr == nil {
		var analysis map[string]any
		if json.Unmarshal([]byte(cleaned), &analysis) == nil {
			return analysis, nil
		}
	}
	slog.Warn("resume analysis parsing failed, returning raw response")
	return map[string]any{"raw": raw}, nil
}
