package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

func historyOf(scores ...int) []domain.SessionFeedback {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]domain.SessionFeedback, 0, len(scores))
	for i, s := range scores {
		out = append(out, domain.SessionFeedback{
			OverallScore: s,
			OverallGrade: domain.GradeFor(s),
			GeneratedAt:  base.AddDate(0, 0, i),
		})
	}
	return out
}

func TestBuildUserAnalytics_EmptyHistory(t *testing.T) {
	a := BuildUserAnalytics(nil)
	assert.Zero(t, a.TotalInterviews)
	assert.Zero(t, a.AvgScore)
	assert.NotNil(t, a.GradeDistribution)
	assert.Empty(t, a.GradeDistribution)
	assert.NotNil(t, a.MostCommonStrengths)
	assert.NotNil(t, a.ScoreTrend)
	assert.NotNil(t, a.RollingAvgTrend)
	assert.Nil(t, a.LastInterview)
}

func TestBuildUserAnalytics_RollingAverage(t *testing.T) {
	a := BuildUserAnalytics(historyOf(60, 80, 100, 40))
	require.Len(t, a.RollingAvgTrend, 4)
	got := make([]int, 0, 4)
	for _, p := range a.RollingAvgTrend {
		got = append(got, p.RollingAvg)
	}
	assert.Equal(t, []int{60, 70, 80, 73}, got)
}

func TestBuildUserAnalytics_ScoresExcludeZeros(t *testing.T) {
	a := BuildUserAnalytics(historyOf(0, 80, 60))
	assert.Equal(t, 3, a.TotalInterviews)
	assert.Equal(t, 70, a.AvgScore)
	assert.Equal(t, 80, a.BestScore)
	assert.Equal(t, 60, a.WorstScore)
	// the score trend still carries every session, zeros included
	require.Len(t, a.ScoreTrend, 3)
	assert.Equal(t, 0, a.ScoreTrend[0].Score)
}

func TestBuildUserAnalytics_GradeDistribution(t *testing.T) {
	history := historyOf(92, 92, 72)
	history = append(history, domain.SessionFeedback{GeneratedAt: time.Now()}) // no grade recorded
	a := BuildUserAnalytics(history)
	assert.Equal(t, 2, a.GradeDistribution["A+"])
	assert.Equal(t, 1, a.GradeDistribution["B"])
	assert.Equal(t, 1, a.GradeDistribution["N/A"])
}

func TestBuildUserAnalytics_Progress(t *testing.T) {
	a := BuildUserAnalytics(historyOf(50, 75))
	assert.Equal(t, 50, a.Progress)

	down := BuildUserAnalytics(historyOf(80, 60))
	assert.Equal(t, -25, down.Progress)

	zeroFirst := BuildUserAnalytics(historyOf(0, 60))
	assert.Equal(t, 0, zeroFirst.Progress)
}

func TestBuildUserAnalytics_LastInterview(t *testing.T) {
	history := historyOf(55, 85)
	history[1].OverallStrengths = []string{"system design"}
	history[1].Improvements = []string{"pacing"}
	a := BuildUserAnalytics(history)
	require.NotNil(t, a.LastInterview)
	assert.Equal(t, 85, a.LastInterview.Score)
	assert.Equal(t, "A", a.LastInterview.Grade)
	assert.Equal(t, []string{"system design"}, a.LastInterview.Strengths)
	assert.Equal(t, []string{"pacing"}, a.LastInterview.Improvements)
}

func TestBuildUserAnalytics_TopFrequencyStable(t *testing.T) {
	history := historyOf(70, 70, 70)
	history[0].OverallStrengths = []string{"clarity", "depth"}
	history[1].OverallStrengths = []string{"depth", "examples"}
	history[2].OverallStrengths = []string{"depth", "clarity", "brevity", "energy", "detail", "humor"}
	a := BuildUserAnalytics(history)
	require.Len(t, a.MostCommonStrengths, 5)
	assert.Equal(t, "depth", a.MostCommonStrengths[0])
	assert.Equal(t, "clarity", a.MostCommonStrengths[1])
}

func TestBuildUserAnalytics_AvgCompletionRate(t *testing.T) {
	history := historyOf(70, 80)
	history[0].CompletionRate = 50
	history[1].TotalQuestions = 4
	history[1].AnsweredQuestions = 4
	a := BuildUserAnalytics(history)
	assert.Equal(t, 75, a.AvgCompletionRate)
}
