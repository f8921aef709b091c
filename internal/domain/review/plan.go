package review

import (
	"fmt"

	"talent/internal/domain/lexicon"
)

const (
	maxObjectives     = 5
	maxActionItems    = 6
	maxSuccessMetrics = 5
)

// DeterminePlanType maps a placement to a plan type. High performance with
// high potential is checked first so that it reaches succession.
func DeterminePlanType(performance, potential lexicon.Rating) PlanType {
	switch {
	case performance == lexicon.RatingHigh && potential == lexicon.RatingHigh:
		return PlanSuccession
	case potential == lexicon.RatingHigh && performance == lexicon.RatingMedium:
		return PlanDevelopment
	case performance == lexicon.RatingLow:
		return PlanPerformanceImprovement
	default:
		return PlanRetention
	}
}

type planInputs struct {
	planType    PlanType
	performance lexicon.Rating
	potential   lexicon.Rating
	title       string
	strengths   []string
	gaps        []string
}

func (in planInputs) strength(i int) string { return pick(in.strengths, i) }
func (in planInputs) gap(i int) string      { return pick(in.gaps, i) }

func pick(items []string, i int) string {
	if i < len(items) {
		return items[i]
	}
	return ""
}

func buildPlan(in planInputs) DraftPlan {
	return DraftPlan{
		PlanType:       in.planType,
		Objectives:     head(objectivesFor(in), maxObjectives),
		ActionItems:    head(actionItemsFor(in), maxActionItems),
		SuccessMetrics: head(metricsFor(in), maxSuccessMetrics),
		Timeline:       timelineFor(in.planType),
	}
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func timelineFor(pt PlanType) string {
	switch pt {
	case PlanPerformanceImprovement:
		return "90 days with 30/60/90-day milestone reviews"
	case PlanDevelopment:
		return "6 months with monthly progress reviews"
	case PlanSuccession:
		return "12 months with quarterly readiness assessments"
	default:
		return "6 months with quarterly check-ins"
	}
}

func appendIf(out []string, format, arg string) []string {
	if arg == "" {
		return out
	}
	return append(out, fmt.Sprintf(format, arg))
}

func objectivesFor(in planInputs) []string {
	var out []string
	switch in.planType {
	case PlanPerformanceImprovement:
		role := "current"
		if in.title != "" && in.title != NotSpecified {
			role = in.title
		}
		out = append(out, fmt.Sprintf("Meet the core performance standards of the %s role within 90 days", role))
		out = appendIf(out, "Demonstrate measurable improvement in: %s", in.gap(0))
		out = appendIf(out, "Demonstrate measurable improvement in: %s", in.gap(1))
		out = append(out,
			"Complete weekly check-ins with documented progress against each expectation",
			"Apply the training and support provided to close identified gaps",
			"Sustain improved performance through the 90-day review",
		)
	case PlanDevelopment:
		out = append(out, "Build readiness for expanded scope and responsibility")
		out = appendIf(out, "Apply strength in %s to a high-visibility initiative", in.strength(0))
		out = appendIf(out, "Develop capability in: %s", in.gap(0))
		out = append(out,
			"Lead a cross-functional project from planning through delivery",
			"Establish a mentoring relationship with a senior leader",
			"Broaden business and strategic context",
		)
	case PlanSuccession:
		out = append(out, "Prepare for a successor role within 12 months")
		out = appendIf(out, "Expand leadership impact building on %s", in.strength(0))
		out = append(out, "Own a strategic initiative with executive visibility")
		out = appendIf(out, "Close readiness gap: %s", in.gap(0))
		out = append(out,
			"Mentor and develop at least one team member",
			"Build relationships with senior stakeholders",
		)
	default:
		out = append(out, fmt.Sprintf("Sustain %s performance in the current role", in.performance))
		out = appendIf(out, "Recognize and further apply strength in %s", in.strength(0))
		out = appendIf(out, "Grow capability in: %s", in.gap(0))
		out = append(out,
			"Hold a career conversation to surface development interests",
			"Increase engagement through stretch assignments aligned to interests",
		)
		if in.potential == lexicon.RatingLow {
			out = append(out, "Clarify role expectations and required skills for the current level")
		}
	}
	return out
}

func actionItemsFor(in planInputs) []ActionItem {
	var out []ActionItem
	add := func(desc string, due int, owner, priority string) {
		out = append(out, ActionItem{Description: desc, DueOffsetDays: due, Owner: owner, Priority: priority})
	}
	addIf := func(format, arg string, due int, owner, priority string) {
		if arg != "" {
			add(fmt.Sprintf(format, arg), due, owner, priority)
		}
	}

	switch in.planType {
	case PlanPerformanceImprovement:
		add("Hold PIP kickoff meeting and agree on written expectations", 3, OwnerManager, PriorityHigh)
		add("Schedule weekly check-ins for the duration of the plan", 7, OwnerManager, PriorityHigh)
		addIf("Create a targeted improvement plan for: %s", in.gap(0), 14, OwnerEmployee, PriorityHigh)
		addIf("Create a targeted improvement plan for: %s", in.gap(1), 21, OwnerEmployee, PriorityMedium)
		add("Conduct 30-day milestone review", 30, OwnerManager, PriorityHigh)
		add("Complete assigned training or coaching sessions", 30, OwnerEmployee, PriorityMedium)
		add("Conduct 60-day milestone review", 60, OwnerManager, PriorityHigh)
		add("Conduct final 90-day review and document the outcome", 90, OwnerHR, PriorityHigh)
	case PlanDevelopment:
		add("Agree on development goals and success measures", 7, OwnerManager, PriorityHigh)
		addIf("Enroll in a learning program covering: %s", in.gap(0), 30, OwnerEmployee, PriorityMedium)
		add("Identify a stretch assignment", 30, OwnerManager, PriorityMedium)
		add("Pair with a mentor and meet monthly", 30, OwnerEmployee, PriorityMedium)
		add("Present project outcomes to leadership", 90, OwnerEmployee, PriorityLow)
		add("Review development progress", 90, OwnerManager, PriorityMedium)
	case PlanSuccession:
		add("Confirm successor role and readiness timeline with HR", 14, OwnerHR, PriorityHigh)
		add("Assign a strategic initiative", 30, OwnerManager, PriorityHigh)
		add("Begin mentoring a team member", 30, OwnerEmployee, PriorityMedium)
		add("Schedule executive shadowing sessions", 45, OwnerManager, PriorityMedium)
		addIf("Close readiness gap through targeted development: %s", in.gap(0), 60, OwnerEmployee, PriorityMedium)
		add("Complete quarterly readiness assessment", 90, OwnerHR, PriorityMedium)
	default:
		add("Recognize recent contributions publicly", 7, OwnerManager, PriorityMedium)
		add("Hold a career conversation", 14, OwnerManager, PriorityHigh)
		addIf("Identify a development opportunity for: %s", in.gap(0), 30, OwnerEmployee, PriorityMedium)
		addIf("Share expertise in %s with the team", in.strength(0), 45, OwnerEmployee, PriorityLow)
		add("Review compensation and growth path", 60, OwnerHR, PriorityMedium)
		add("Run a follow-up engagement check", 90, OwnerManager, PriorityLow)
	}
	return out
}

func metricsFor(in planInputs) []string {
	var out []string
	switch in.planType {
	case PlanPerformanceImprovement:
		out = append(out, "All 30-day expectations rated met or partially met")
		out = appendIf(out, "Manager confirms observable improvement in: %s", in.gap(0))
		out = append(out,
			"At least 70% of expectations met by the 90-day review",
			"No missed weekly check-ins",
			"Quality and deadline standards met for four consecutive weeks",
		)
	case PlanDevelopment:
		out = append(out,
			"Development goals completed on schedule",
			"Stretch assignment delivered with positive stakeholder feedback",
		)
		out = appendIf(out, "Demonstrated growth in: %s", in.gap(0))
		out = append(out,
			"Manager rates readiness for the next level",
			"Mentor feedback documented each month",
		)
	case PlanSuccession:
		out = append(out,
			"Readiness rated ready-now within 12 months",
			"Strategic initiative delivered against agreed outcomes",
			"At least one mentee shows documented progress",
			"Positive feedback from senior stakeholders",
			"Successor bench documented with HR",
		)
	default:
		out = append(out,
			fmt.Sprintf("Performance rating maintained at %s or better", in.performance),
			"Career plan agreed and documented",
			"Engagement survey score stable or improving",
			"Retained through the next review cycle",
		)
	}
	return out
}

func keyInsights(placement PlacementSuggestion, perfConfidence, potConfidence int, sec sections, pt PlanType) []string {
	insights := []string{
		fmt.Sprintf("Performance assessed as %s (confidence %d%%)", placement.Performance, perfConfidence),
		fmt.Sprintf("Potential assessed as %s (confidence %d%%)", placement.Potential, potConfidence),
		fmt.Sprintf("%d strengths and %d improvement areas identified", len(sec.Strengths), len(sec.Improvements)),
	}
	if len(sec.Achievements) > 0 {
		insights = append(insights, "Notable achievement: "+sec.Achievements[0])
	}
	if len(sec.Challenges) > 0 {
		insights = append(insights, "Reported challenge: "+sec.Challenges[0])
	}
	insights = append(insights, "Recommended plan: "+string(pt))
	return insights
}
