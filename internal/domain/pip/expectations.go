package pip

import (
	"fmt"
	"math"
	"strings"

	"talent/internal/domain/review"
)

type ExpectationSummary struct {
	Met            int `json:"met"`
	PartiallyMet   int `json:"partiallyMet"`
	NotMet         int `json:"notMet"`
	Total          int `json:"total"`
	CompletionRate int `json:"completionRate"`
}

func (s ExpectationSummary) Rate() float64 {
	return float64(s.CompletionRate) / 100
}

// Summarize counts expectation outcomes. Partially met expectations count
// half towards the completion rate, which is rounded to a whole percent.
func Summarize(expectations []Expectation) ExpectationSummary {
	var s ExpectationSummary
	for _, e := range expectations {
		switch e.Status {
		case ExpectationMet:
			s.Met++
		case ExpectationPartiallyMet:
			s.PartiallyMet++
		case ExpectationNotMet:
			s.NotMet++
		}
	}
	s.Total = len(expectations)
	if s.Total == 0 {
		return s
	}
	s.CompletionRate = int(math.Round(100 * (float64(s.Met) + 0.5*float64(s.PartiallyMet)) / float64(s.Total)))
	return s
}

func SeedExpectations(pipID string, plan review.DraftPlan) []Expectation {
	objectives := make([]string, 0, len(plan.Objectives))
	for _, o := range plan.Objectives {
		if s := strings.TrimSpace(o); s != "" {
			objectives = append(objectives, s)
		}
	}
	if len(objectives) == 0 {
		return nil
	}

	metrics := plan.SuccessMetrics
	out := make([]Expectation, 0, len(objectives))
	for i, objective := range objectives {
		criteria := fmt.Sprintf("Manager confirms the objective is met at the %s review", phaseForIndex(i, len(objectives)).Label())
		if i < len(metrics) && strings.TrimSpace(metrics[i]) != "" {
			criteria = strings.TrimSpace(metrics[i])
		}
		out = append(out, Expectation{
			PIPID:           pipID,
			Phase:           phaseForIndex(i, len(objectives)),
			Category:        string(plan.PlanType),
			Expectation:     objective,
			SuccessCriteria: criteria,
			Status:          ExpectationPending,
			OrderIndex:      i,
		})
	}
	return out
}

// phaseForIndex splits n items into three contiguous, nearly equal groups.
func phaseForIndex(i, n int) Phase {
	return Phases[min(i*len(Phases)/n, len(Phases)-1)]
}

func (p Phase) Label() string {
	if !p.Valid() {
		return string(p)
	}
	return fmt.Sprintf("%d-day", p.Day())
}
