package pip

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAlertsDay35WithoutCheckInsOrReviews(t *testing.T) {
	snap := Snapshot{PIP: activePIP(), Expectations: expectations(ExpectationInProgress, ExpectationPending)}
	alerts := EvaluateAlerts(DeriveSignals(snap, onDay(35)), AlertOptions{})

	overdue, ok := hasRule(alerts, RuleCheckInOverdue)
	if !ok || overdue.Severity != SeverityCritical {
		t.Fatalf("expected critical check-in overdue alert, got %+v", alerts)
	}
	missed, ok := hasRule(alerts, "milestone_overdue_30_day")
	if !ok || missed.Severity != SeverityCritical {
		t.Fatalf("expected critical missed 30-day review alert, got %+v", alerts)
	}
	if _, ok := hasRule(alerts, RuleCadenceBehind); !ok {
		t.Fatalf("expected cadence alert, got %+v", alerts)
	}
	for i := 1; i < len(alerts); i++ {
		if alerts[i-1].Severity.rank() > alerts[i].Severity.rank() {
			t.Fatalf("alerts not severity-sorted: %+v", alerts)
		}
	}
}

func TestAlertsMilestoneApproaching(t *testing.T) {
	snap := Snapshot{PIP: activePIP(), CheckIns: []CheckIn{checkIn(25, CheckInOnTrack)}}
	alerts := EvaluateAlerts(DeriveSignals(snap, onDay(26)), AlertOptions{})
	a, ok := hasRule(alerts, "milestone_approaching_30_day")
	if !ok || a.Severity != SeverityWarning {
		t.Fatalf("expected approaching warning, got %+v", alerts)
	}
	if _, ok := hasRule(alerts, "milestone_overdue_30_day"); ok {
		t.Fatal("did not expect overdue before day 30")
	}

	snap.MilestoneReviews = []MilestoneReview{{PIPID: "pip-1", Milestone: Phase30, ReviewDate: onDay(26)}}
	alerts = EvaluateAlerts(DeriveSignals(snap, onDay(26)), AlertOptions{})
	if _, ok := hasRule(alerts, "milestone_approaching_30_day"); ok {
		t.Fatal("did not expect approaching alert once reviewed")
	}
}

func TestAlertsLaterMilestonesOnlyWhenEnabled(t *testing.T) {
	snap := Snapshot{
		PIP:              activePIP(),
		CheckIns:         []CheckIn{checkIn(56, CheckInOnTrack)},
		MilestoneReviews: []MilestoneReview{{PIPID: "pip-1", Milestone: Phase30, ReviewDate: onDay(30)}},
	}
	sig := DeriveSignals(snap, onDay(57))
	if _, ok := hasRule(EvaluateAlerts(sig, AlertOptions{}), "milestone_approaching_60_day"); ok {
		t.Fatal("did not expect 60-day alerts by default")
	}
	if _, ok := hasRule(EvaluateAlerts(sig, AlertOptions{AllMilestones: true}), "milestone_approaching_60_day"); !ok {
		t.Fatal("expected 60-day approaching alert when all milestones are enabled")
	}
	late := DeriveSignals(snap, onDay(64))
	if _, ok := hasRule(EvaluateAlerts(late, AlertOptions{AllMilestones: true}), "milestone_overdue_60_day"); !ok {
		t.Fatal("expected 60-day overdue alert when all milestones are enabled")
	}
}

func TestAlertsStagnantGroupedIntoOne(t *testing.T) {
	snap := Snapshot{
		PIP:          activePIP(),
		Expectations: expectations(ExpectationNotMet, ExpectationNotMet, ExpectationMet),
		CheckIns:     []CheckIn{checkIn(14, CheckInAtRisk)},
	}
	alerts := EvaluateAlerts(DeriveSignals(snap, onDay(15)), AlertOptions{})
	var count int
	for _, a := range alerts {
		if a.Rule == RuleStagnant {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected one grouped stagnant alert, got %d", count)
	}

	early := EvaluateAlerts(DeriveSignals(snap, onDay(14)), AlertOptions{})
	if _, ok := hasRule(early, RuleStagnant); ok {
		t.Fatal("did not expect stagnant alert on day 14")
	}
}

func TestAlertsEndApproaching(t *testing.T) {
	snap := Snapshot{PIP: activePIP(), CheckIns: []CheckIn{checkIn(84, CheckInOnTrack)}}
	alerts := EvaluateAlerts(DeriveSignals(snap, onDay(85)), AlertOptions{})
	a, ok := hasRule(alerts, RuleEndApproaching)
	if !ok || a.Severity != SeverityInfo {
		t.Fatalf("expected info end-approaching alert, got %+v", alerts)
	}
	if alerts[len(alerts)-1].Severity != SeverityInfo {
		t.Fatalf("expected info alerts last, got %+v", alerts)
	}
}

func TestAlertsClosedPlanIsQuiet(t *testing.T) {
	p := activePIP()
	p.Status = StatusCompleted
	if alerts := EvaluateAlerts(DeriveSignals(Snapshot{PIP: p}, onDay(50)), AlertOptions{}); alerts != nil {
		t.Fatalf("expected no alerts for a closed plan, got %+v", alerts)
	}
}

func TestAlertsAreDeterministic(t *testing.T) {
	snap := Snapshot{PIP: activePIP(), Expectations: expectations(ExpectationNotMet, ExpectationNotMet, ExpectationNotMet)}
	first := EvaluateAlerts(DeriveSignals(snap, onDay(45)), AlertOptions{})
	second := EvaluateAlerts(DeriveSignals(snap, onDay(45)), AlertOptions{})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("re-evaluation differs (-first +second):\n%s", diff)
	}
	if first[0].ID == "" || first[0].ID == first[1].ID {
		t.Fatalf("expected distinct non-empty ids, got %+v", first)
	}
}
