package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-interview-coach/internal/adapter/ai"
	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// QuestionService generates interview question sets.
type QuestionService struct {
	AI      domain.AIClient
	Cleaner *ai.ResponseCleaner
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(client domain.AIClient) QuestionService {
	return QuestionService{AI: client, Cleaner: ai.NewResponseCleaner()}
}

// GenerateQuestionsInput is the validated payload of a generation request.
// Role and JobDescription are required; everything else has defaults.
type GenerateQuestionsInput struct {
	Role           string
	Company        string
	JobDescription string
	ResumeText     string
	Type           string
	Difficulty     string
	Duration       string
	IncludeCoding  bool
	Language       string
}

// QuestionsResult bundles the generated set with its request metadata echo.
type QuestionsResult struct {
	Questions []domain.Question
	Spec      QuestionSpec
}

// Generate builds the prompt, calls the model once, and normalizes the
// result. Model failure or unusable output degrades to the deterministic
// fallback set; a missing provider configuration and missing required fields
// produce errors.
func (s QuestionService) Generate(ctx domain.Context, in GenerateQuestionsInput) (QuestionsResult, error) {
	if in.Role == "" || in.JobDescription == "" {
		return QuestionsResult{}, fmt.Errorf("op=questions.Generate: %w: role and jobDescription are required", domain.ErrInvalidArgument)
	}
	spec := specFromInput(in)

	raw, err := s.AI.Generate(ctx, BuildQuestionsPrompt(spec))
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return QuestionsResult{}, fmt.Errorf("op=questions.Generate: %w", err)
		}
		slog.Warn("question generation failed, using fallback set", slog.Any("error", err))
		return QuestionsResult{Questions: FallbackQuestions(spec), Spec: spec}, nil
	}
	questions, err := ParseQuestions(s.Cleaner, raw, spec)
	if err != nil {
		slog.Warn("question response unusable, using fallback set", slog.Any("error", err))
		return QuestionsResult{Questions: FallbackQuestions(spec), Spec: spec}, nil
	}
	return QuestionsResult{Questions: questions, Spec: spec}, nil
}

func specFromInput(in GenerateQuestionsInput) QuestionSpec {
	spec := QuestionSpec{
		Role:           in.Role,
		Company:        in.Company,
		JobDescription: in.JobDescription,
		ResumeText:     in.ResumeText,
		Type:           in.Type,
		Difficulty:     in.Difficulty,
		Duration:       in.Duration,
		IncludeCoding:  in.IncludeCoding,
		Language:       in.Language,
	}
	if spec.Company == "" {
		spec.Company = "General Company"
	}
	if spec.Type == "" {
		spec.Type = "technical"
	}
	if spec.Difficulty == "" {
		spec.Difficulty = domain.DifficultyMedium
	}
	if spec.Duration == "" {
		spec.Duration = "medium"
	}
	if spec.Language == "" {
		spec.Language = "javascript"
	}
	spec.QuestionCount = QuestionCountForDuration(spec.Duration)
	return spec
}
