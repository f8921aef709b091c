package pip

import (
	"strings"
	"time"
)

type Gap struct {
	Item        string   `json:"item"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Penalty     int      `json:"penalty"`
}

type Documentation struct {
	Score int   `json:"score"`
	Gaps  []Gap `json:"gaps"`
}

const (
	maxDocumentationScore = 100
	minReasonLength       = 50
	staleCheckInDays      = 10
	reviewGraceDays       = 7
	acknowledgmentWindow  = 3 * day
)

// ScoreDocumentation rates how defensible the written record of a plan is.
// It keeps its own thresholds and does not consult the alert rules.
func ScoreDocumentation(snap Snapshot, asOf time.Time) Documentation {
	p := snap.PIP
	var gaps []Gap
	add := func(item string, severity Severity, penalty int, description string) {
		gaps = append(gaps, Gap{Item: item, Severity: severity, Description: description, Penalty: penalty})
	}

	if p.StartDate.IsZero() {
		add("start_date", SeverityCritical, 20, "The plan has no start date.")
	}
	if len(strings.TrimSpace(p.ReasonForPIP)) < minReasonLength {
		add("reason_for_pip", SeverityCritical, 15, "The reason for the plan is missing or too brief to be specific.")
	}
	if strings.TrimSpace(p.Consequences) == "" {
		add("consequences", SeverityCritical, 15, "Consequences of not meeting expectations are not stated.")
	}
	if strings.TrimSpace(p.SupportProvided) == "" {
		add("support_provided", SeverityWarning, 5, "Support and resources offered to the employee are not recorded.")
	}

	if len(snap.Expectations) == 0 {
		add("expectations", SeverityCritical, 20, "No expectations have been defined.")
	} else {
		for _, e := range snap.Expectations {
			if strings.TrimSpace(e.SuccessCriteria) == "" {
				add("success_criteria", SeverityWarning, 5, "One or more expectations have no measurable success criteria.")
				break
			}
		}
	}

	if !p.StartDate.IsZero() {
		days := DaysElapsed(p, asOf)
		var count int
		var last time.Time
		for _, ci := range snap.CheckIns {
			if ci.CheckInDate.After(asOf) {
				continue
			}
			count++
			if ci.CheckInDate.After(last) {
				last = ci.CheckInDate
			}
		}

		if days >= 7 && count < days/7 {
			add("checkin_frequency", SeverityWarning, 10, "Fewer check-ins than the weekly minimum are documented.")
		}
		switch {
		case count == 0 && days > staleCheckInDays:
			add("checkin_recency", SeverityWarning, 10, "No check-in has been documented.")
		case count > 0 && daysBetween(last, asOf) > staleCheckInDays:
			add("checkin_recency", SeverityWarning, 10, "The most recent check-in is more than 10 days old.")
		}

		reviewed := reviewedMilestones(snap.MilestoneReviews, asOf)
		for _, m := range []Phase{Phase30, Phase60} {
			if !reviewed[m] && days > m.Day()+reviewGraceDays {
				add("milestone_review_"+string(m), SeverityCritical, 15, "The "+m.Label()+" milestone review is missing.")
			}
		}
	}

	if !p.EmployeeAcknowledged && !p.CreatedAt.IsZero() && asOf.Sub(p.CreatedAt) > acknowledgmentWindow {
		add("acknowledgment", SeverityWarning, 10, "The employee has not acknowledged the plan.")
	}

	score := maxDocumentationScore
	for _, g := range gaps {
		score -= g.Penalty
	}
	return Documentation{Score: max(0, min(maxDocumentationScore, score)), Gaps: gaps}
}
