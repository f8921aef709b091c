package pip

import (
	"fmt"
	"sort"
)

const finalReviewPrepDay = 75

// Recommend shares signals with EvaluateAlerts but not its output, and
// follows the same milestone coverage. Ordered urgent, high, medium.
func Recommend(sig Signals, opts AlertOptions) []Recommendation {
	if !sig.Status.Open() {
		return nil
	}

	var recs []Recommendation
	add := func(rule string, priority Priority, action, why string) {
		recs = append(recs, Recommendation{Rule: rule, Priority: priority, Action: action, Why: why})
	}

	if sig.Cadence.DaysSinceLast > checkInOverdueDays {
		why := "No check-in has been held since the plan started."
		if sig.Cadence.HasCheckIns() {
			why = fmt.Sprintf("The last check-in was %d days ago.", sig.Cadence.DaysSinceLast)
		}
		add(RuleCheckInOverdue, PriorityUrgent, "Schedule a check-in immediately", why)
	}

	switch sig.Trajectory {
	case TrajectoryFailing:
		add("trajectory_failing", PriorityUrgent, "Consult HR today about the plan outcome",
			fmt.Sprintf("Completion is at %d%% and recent check-ins are not trending toward success.", sig.Summary.CompletionRate))
	case TrajectoryAtRisk:
		add("trajectory_at_risk", PriorityHigh, "Consult HR today and increase coaching support",
			fmt.Sprintf("%d recent check-ins were rated at risk.", sig.Recent.AtRisk))
	case TrajectoryUncertain:
		add("trajectory_uncertain", PriorityMedium, "Clarify success criteria with the employee",
			"Recent check-ins do not show a clear direction.")
	}

	if sig.MajorityFailing() {
		add(RuleMajorityFailing, PriorityUrgent, "Prepare outcome documentation with HR",
			fmt.Sprintf("%d of %d expectations are not met after the 30-day milestone.", sig.Summary.NotMet, sig.Summary.Total))
	}

	for _, m := range alertMilestones(opts) {
		if sig.Reviewed[m] {
			continue
		}
		label := m.Label()
		switch {
		case sig.Day > m.Day():
			add(milestoneRule(RuleMilestoneOverdue, m), PriorityUrgent, fmt.Sprintf("Complete the %s milestone review", label),
				fmt.Sprintf("The %s review is overdue and the record is incomplete without it.", label))
		case sig.Day >= m.Day()-approachWindowDays:
			add(milestoneRule(RuleMilestoneApproach, m), PriorityHigh, fmt.Sprintf("Prepare for the %s milestone review", label),
				fmt.Sprintf("The review is due in %d days.", m.Day()-sig.Day))
		}
	}

	if sig.Cadence.BehindCadence {
		add(RuleCadenceBehind, PriorityHigh, "Return to weekly check-ins",
			fmt.Sprintf("Only %d of %d expected check-ins have been held.", sig.Cadence.Actual, sig.Cadence.Expected))
	}

	if sig.Stagnant > 0 {
		add(RuleStagnant, PriorityHigh, "Provide additional resources or training",
			fmt.Sprintf("%d expectations show no progress.", sig.Stagnant))
	}

	if sig.Summary.Total == 0 {
		add("no_expectations", PriorityHigh, "Define measurable expectations for each phase",
			"The plan has no expectations to measure progress against.")
	}

	if sig.Trajectory == TrajectoryOnTrack && sig.Day >= finalReviewPrepDay {
		add("final_review_prepare", PriorityMedium, "Prepare the final review",
			"The employee is on track and the plan is nearing its end.")
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.rank() < recs[j].Priority.rank()
	})
	return recs
}
