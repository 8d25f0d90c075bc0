package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

func TestResumeAnalyze(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("Generate", mock.Anything, mock.Anything).
		Return("```json\n{\"ats_friendly\": \"Yes\", \"score\": 78}\n```", nil).Once()

	svc := NewResumeService(aiMock)
	analysis, err := svc.Analyze(context.Background(), "resume text", "job description")
	require.NoError(t, err)
	assert.Equal(t, "Yes", analysis["ats_friendly"])
	assert.EqualValues(t, 78, analysis["score"])
}

func TestResumeAnalyze_UnparsableReturnsRaw(t *testing.T) {
	aiMock := &mockAI{}
	aiMock.On("Generate", mock.Anything, mock.Anything).Return("plain prose verdict", nil).Once()

	svc := NewResumeService(aiMock)
	analysis, err := svc.Analyze(context.Background(), "resume text", "job description")
	require.NoError(t, err)
	assert.Equal(t, "plain prose verdict", analysis["raw"])
}

func TestResumeAnalyze_Errors(t *testing.T) {
	svc := NewResumeService(&mockAI{})
	_, err := svc.Analyze(context.Background(), "", "job")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	aiMock := &mockAI{}
	aiMock.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("quota")).Once()
	svc = NewResumeService(aiMock)
	_, err = svc.Analyze(context.Background(), "resume", "job")
	assert.Error(t, err)
}
