package pip

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

const (
	RuleCheckInOverdue    = "checkin_overdue"
	RuleCadenceBehind     = "cadence_behind"
	RuleMajorityFailing   = "majority_failing"
	RuleMilestoneApproach = "milestone_approaching"
	RuleMilestoneOverdue  = "milestone_overdue"
	RuleStagnant          = "stagnant_expectations"
	RuleEndApproaching    = "end_approaching"

	checkInOverdueDays = 7
	approachWindowDays = 5
	endApproachingDays = 7
)

var alertNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("talent/pip/alerts"))

type AlertOptions struct {
	// AllMilestones applies the approaching/overdue review rules to the 60
	// and 90-day milestones as well as the 30-day one.
	AllMilestones bool
}

// EvaluateAlerts applies the compliance rules to sig. Rules fire
// independently; the result is ordered critical, warning, info and otherwise
// keeps rule order. Closed plans produce no alerts.
func EvaluateAlerts(sig Signals, opts AlertOptions) []Alert {
	if !sig.Status.Open() {
		return nil
	}

	var alerts []Alert
	add := func(rule string, severity Severity, title, description, recommendation string) {
		alerts = append(alerts, Alert{
			ID:             alertID(sig.PIPID, rule),
			Rule:           rule,
			Severity:       severity,
			Title:          title,
			Description:    description,
			Recommendation: recommendation,
		})
	}

	if sig.Cadence.DaysSinceLast > checkInOverdueDays {
		description := "No check-ins have been recorded for this PIP."
		if sig.Cadence.HasCheckIns() {
			description = fmt.Sprintf("The last check-in was %d days ago; check-ins are required weekly.", sig.Cadence.DaysSinceLast)
		}
		add(RuleCheckInOverdue, SeverityCritical, "Check-in overdue", description,
			"Schedule a check-in with the employee immediately.")
	}

	if sig.Cadence.BehindCadence {
		add(RuleCadenceBehind, SeverityWarning, "Check-ins below required frequency",
			fmt.Sprintf("%d check-ins recorded; %d expected by day %d.", sig.Cadence.Actual, sig.Cadence.Expected, sig.Day),
			"Book recurring weekly check-ins for the remainder of the plan.")
	}

	if sig.MajorityFailing() {
		add(RuleMajorityFailing, SeverityCritical, "Majority of expectations failing",
			fmt.Sprintf("%d of %d expectations are not met.", sig.Summary.NotMet, sig.Summary.Total),
			"Review the plan with HR and document the outcome options.")
	}

	for _, m := range alertMilestones(opts) {
		label := m.Label()
		milestoneDay := m.Day()
		if sig.Reviewed[m] {
			continue
		}
		if sig.Day >= milestoneDay-approachWindowDays && sig.Day < milestoneDay {
			add(milestoneRule(RuleMilestoneApproach, m), SeverityWarning, fmt.Sprintf("%s review approaching", label),
				fmt.Sprintf("The %s milestone review is due in %d days.", label, milestoneDay-sig.Day),
				fmt.Sprintf("Prepare evidence and schedule the %s review.", label))
		}
		if sig.Day > milestoneDay {
			add(milestoneRule(RuleMilestoneOverdue, m), SeverityCritical, fmt.Sprintf("%s review overdue", label),
				fmt.Sprintf("No %s milestone review has been recorded and the plan is on day %d.", label, sig.Day),
				fmt.Sprintf("Complete and document the %s review now.", label))
		}
	}

	if sig.Stagnant > 0 {
		add(RuleStagnant, SeverityWarning, "Stagnant expectations",
			fmt.Sprintf("%d expectations are not met with no recorded progress.", sig.Stagnant),
			"Agree on concrete next steps and support for each stalled expectation.")
	}

	if sig.Day >= 0 && sig.Day <= PlanLengthDays && sig.DaysRemaining <= endApproachingDays {
		add(RuleEndApproaching, SeverityInfo, "PIP end date approaching",
			fmt.Sprintf("%d days remain before the final review.", sig.DaysRemaining),
			"Prepare the final review and outcome documentation.")
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.rank() < alerts[j].Severity.rank()
	})
	return alerts
}

func alertMilestones(opts AlertOptions) []Phase {
	if opts.AllMilestones {
		return Phases
	}
	return []Phase{Phase30}
}

func milestoneRule(rule string, m Phase) string {
	return rule + "_" + string(m)
}

func alertID(pipID, rule string) string {
	return uuid.NewSHA1(alertNamespace, []byte(pipID+"/"+rule)).String()
}
