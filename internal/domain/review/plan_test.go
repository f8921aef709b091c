package review

import (
	"testing"

	"talent/internal/domain/lexicon"
)

func TestDeterminePlanType(t *testing.T) {
	cases := []struct {
		performance lexicon.Rating
		potential   lexicon.Rating
		want        PlanType
	}{
		{lexicon.RatingHigh, lexicon.RatingHigh, PlanSuccession},
		{lexicon.RatingMedium, lexicon.RatingHigh, PlanDevelopment},
		{lexicon.RatingLow, lexicon.RatingHigh, PlanPerformanceImprovement},
		{lexicon.RatingLow, lexicon.RatingLow, PlanPerformanceImprovement},
		{lexicon.RatingHigh, lexicon.RatingMedium, PlanRetention},
		{lexicon.RatingMedium, lexicon.RatingMedium, PlanRetention},
		{lexicon.RatingMedium, lexicon.RatingLow, PlanRetention},
	}
	for _, tc := range cases {
		if got := DeterminePlanType(tc.performance, tc.potential); got != tc.want {
			t.Fatalf("performance=%s potential=%s: expected %s, got %s", tc.performance, tc.potential, tc.want, got)
		}
	}
}

func TestBuildPlanCapsLists(t *testing.T) {
	for _, pt := range []PlanType{PlanDevelopment, PlanPerformanceImprovement, PlanRetention, PlanSuccession} {
		plan := buildPlan(planInputs{
			planType:    pt,
			performance: lexicon.RatingMedium,
			potential:   lexicon.RatingMedium,
			strengths:   []string{"Clear written communication", "Customer empathy"},
			gaps:        []string{"Estimating delivery dates", "Code review turnaround"},
		})
		if len(plan.Objectives) == 0 || len(plan.Objectives) > maxObjectives {
			t.Fatalf("%s: unexpected objective count %d", pt, len(plan.Objectives))
		}
		if len(plan.ActionItems) == 0 || len(plan.ActionItems) > maxActionItems {
			t.Fatalf("%s: unexpected action item count %d", pt, len(plan.ActionItems))
		}
		if len(plan.SuccessMetrics) == 0 || len(plan.SuccessMetrics) > maxSuccessMetrics {
			t.Fatalf("%s: unexpected metric count %d", pt, len(plan.SuccessMetrics))
		}
		if plan.Timeline == "" {
			t.Fatalf("%s: expected timeline", pt)
		}
	}
}

func TestBuildPlanTruncatesHeadOfSequence(t *testing.T) {
	plan := buildPlan(planInputs{
		planType:    PlanPerformanceImprovement,
		performance: lexicon.RatingLow,
		potential:   lexicon.RatingMedium,
		title:       "Senior Analyst",
		gaps:        []string{"Timeliness of monthly close reporting", "Accuracy of reconciliations"},
	})
	if plan.Objectives[0] != "Meet the core performance standards of the Senior Analyst role within 90 days" {
		t.Fatalf("unexpected first objective %q", plan.Objectives[0])
	}
	if plan.Objectives[1] != "Demonstrate measurable improvement in: Timeliness of monthly close reporting" {
		t.Fatalf("unexpected second objective %q", plan.Objectives[1])
	}
	last := plan.ActionItems[len(plan.ActionItems)-1]
	if last.Description != "Complete assigned training or coaching sessions" {
		t.Fatalf("expected the head of the action sequence to be kept, last item %q", last.Description)
	}
	for _, item := range plan.ActionItems {
		if item.Completed {
			t.Fatalf("generated action items must start incomplete: %+v", item)
		}
	}
}
