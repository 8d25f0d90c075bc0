package usecase

import (
	"fmt"
	"sort"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
)

// AnalyticsService aggregates a user's full feedback history.
type AnalyticsService struct {
	Feedback domain.FeedbackRepository
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(fr domain.FeedbackRepository) AnalyticsService {
	return AnalyticsService{Feedback: fr}
}

// ForUser computes the analytics object over the user's history, oldest
// first. An empty history yields a zeroed object, not an error.
func (s AnalyticsService) ForUser(ctx domain.Context, userID string) (domain.UserAnalytics, error) {
	history, err := s.Feedback.ListChronological(ctx, userID)
	if err != nil {
		return domain.UserAnalytics{}, fmt.Errorf("op=analytics.ForUser: %w", err)
	}
	return BuildUserAnalytics(history), nil
}

// BuildUserAnalytics is the pure aggregation over a chronological history.
func BuildUserAnalytics(history []domain.SessionFeedback) domain.UserAnalytics {
	if len(history) == 0 {
		return domain.UserAnalytics{
			GradeDistribution:      map[string]int{},
			MostCommonStrengths:    []string{},
			MostCommonImprovements: []string{},
			ScoreTrend:             []domain.ScorePoint{},
			RollingAvgTrend:        []domain.RollingPoint{},
		}
	}

	// Zero scores are excluded from the score aggregates, unlike the
	// session-level average which counts skips as zeros.
	var scores, completionRates []int
	for _, fb := range history {
		if fb.OverallScore > 0 {
			scores = append(scores, fb.OverallScore)
		}
		rate := fb.CompletionRate
		if rate == 0 && fb.TotalQuestions > 0 {
			rate = CompletionRate(fb.AnsweredQuestions, fb.TotalQuestions)
		}
		if rate > 0 {
			completionRates = append(completionRates, rate)
		}
	}

	avg, best, worst := 0, 0, 0
	if len(scores) > 0 {
		sum := 0
		best, worst = scores[0], scores[0]
		for _, s := range scores {
			sum += s
			if s > best {
				best = s
			}
			if s < worst {
				worst = s
			}
		}
		avg = roundDiv(sum, len(scores))
	}

	avgCompletion := 0
	if len(completionRates) > 0 {
		sum := 0
		for _, r := range completionRates {
			sum += r
		}
		avgCompletion = roundDiv(sum, len(completionRates))
	}

	grades := map[string]int{}
	for _, fb := range history {
		grade := fb.OverallGrade
		if grade == "" {
			grade = "N/A"
		}
		grades[grade]++
	}

	var allStrengths, allImprovements []string
	for _, fb := range history {
		allStrengths = append(allStrengths, historyStrengths(fb)...)
		allImprovements = append(allImprovements, historyImprovements(fb)...)
	}

	trend := make([]domain.ScorePoint, 0, len(history))
	rolling := make([]domain.RollingPoint, 0, len(history))
	for i, fb := range history {
		trend = append(trend, domain.ScorePoint{Date: fb.GeneratedAt, Score: fb.OverallScore})

		lo := i - 2
		if lo < 0 {
			lo = 0
		}
		sum := 0
		for _, w := range history[lo : i+1] {
			sum += w.OverallScore
		}
		rolling = append(rolling, domain.RollingPoint{
			Date:       fb.GeneratedAt,
			RollingAvg: roundDiv(sum, i+1-lo),
		})
	}

	last := history[len(history)-1]
	lastGrade := last.OverallGrade
	if lastGrade == "" {
		lastGrade = "N/A"
	}
	lastInterview := &domain.LastInterview{
		Score:        last.OverallScore,
		Grade:        lastGrade,
		Strengths:    historyStrengths(last),
		Improvements: historyImprovements(last),
	}

	progress := 0
	if first := history[0].OverallScore; first > 0 {
		progress = roundDiv((last.OverallScore-first)*100, first)
	}

	return domain.UserAnalytics{
		TotalInterviews:        len(history),
		AvgScore:               avg,
		BestScore:              best,
		WorstScore:             worst,
		AvgCompletionRate:      avgCompletion,
		GradeDistribution:      grades,
		MostCommonStrengths:    topByFrequency(allStrengths, 5),
		MostCommonImprovements: topByFrequency(allImprovements, 5),
		ScoreTrend:             trend,
		RollingAvgTrend:        rolling,
		LastInterview:          lastInterview,
		Progress:               progress,
	}
}

func historyStrengths(fb domain.SessionFeedback) []string {
	if len(fb.OverallStrengths) > 0 {
		return fb.OverallStrengths
	}
	return fb.Strengths
}

func historyImprovements(fb domain.SessionFeedback) []string {
	if len(fb.OverallImprovements) > 0 {
		return fb.OverallImprovements
	}
	return fb.Improvements
}

// topByFrequency returns the n most frequent items; ties keep first-seen
// order via a stable sort.
func topByFrequency(items []string, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		order = []string{}
	}
	return order
}
