package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

func TestQuestionsGenerate_RequiredFields(t *testing.T) {
	svc := NewQuestionService(&mockAI{})
	_, err := svc.Generate(context.Background(), GenerateQuestionsInput{Role: "Engineer"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Generate(context.Background(), GenerateQuestionsInput{JobDescription: "Build things"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestQuestionsGenerate_NormalizesModelOutput(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("Generate", mock.Anything, mock.Anything).
		Return("```json\n[{\"id\": 1, \"text\": \"Explain goroutines.\", \"type\": \"technical\", \"difficulty\": \"medium\", \"coding\": false, \"expectedDuration\": 180}]\n```", nil).Once()

	svc := NewQuestionService(aiMock)
	res, err := svc.Generate(context.Background(), GenerateQuestionsInput{
		Role: "Backend Engineer", JobDescription: "Go services", Duration: "short",
	})
	require.NoError(t, err)
	require.Len(t, res.Questions, 5) // padded to the short-duration count
	assert.Equal(t, "Explain goroutines.", res.Questions[0].Text)
	assert.Equal(t, 5, res.Spec.QuestionCount)
	assert.Equal(t, "General Company", res.Spec.Company)
	assert.Equal(t, "technical", res.Spec.Type)
}

func TestQuestionsGenerate_ModelFailureFallsBack(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota")).Once()

	svc := NewQuestionService(aiMock)
	res, err := svc.Generate(context.Background(), GenerateQuestionsInput{
		Role: "Frontend Developer", JobDescription: "React apps", Duration: "short",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Questions)
	assert.Contains(t, res.Questions[0].Text, "Frontend Developer")
}

func TestQuestionsGenerate_ConfigurationErrorPropagates(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("Generate", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: GEMINI_API_KEY is not set", domain.ErrConfiguration)).Once()

	svc := NewQuestionService(aiMock)
	res, err := svc.Generate(context.Background(), GenerateQuestionsInput{
		Role: "Engineer", JobDescription: "Things",
	})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, res.Questions) // no fallback set for a missing provider
}

func TestQuestionsGenerate_UnparsableOutputFallsBack(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("Generate", mock.Anything, mock.Anything).Return("no questions today", nil).Once()

	svc := NewQuestionService(aiMock)
	res, err := svc.Generate(context.Background(), GenerateQuestionsInput{
		Role: "Engineer", JobDescription: "Things", Duration: "short",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Questions)
}
