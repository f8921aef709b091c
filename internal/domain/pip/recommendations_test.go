package pip

import "testing"

func findRecommendation(recs []Recommendation, rule string) (Recommendation, bool) {
	for _, r := range recs {
		if r.Rule == rule {
			return r, true
		}
	}
	return Recommendation{}, false
}

func TestRecommendFailingPlan(t *testing.T) {
	snap := Snapshot{
		PIP:          activePIP(),
		Expectations: expectations(ExpectationNotMet, ExpectationNotMet, ExpectationNotMet, ExpectationMet),
		CheckIns:     []CheckIn{checkIn(20, CheckInOffTrack)},
	}
	recs := Recommend(DeriveSignals(snap, onDay(35)), AlertOptions{})

	for _, rule := range []string{RuleCheckInOverdue, "trajectory_failing", RuleMajorityFailing, "milestone_overdue_30_day"} {
		r, ok := findRecommendation(recs, rule)
		if !ok || r.Priority != PriorityUrgent {
			t.Fatalf("expected urgent %s recommendation, got %+v", rule, recs)
		}
	}
	if r, ok := findRecommendation(recs, RuleStagnant); !ok || r.Priority != PriorityHigh {
		t.Fatalf("expected high stagnant recommendation, got %+v", recs)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i-1].Priority.rank() > recs[i].Priority.rank() {
			t.Fatalf("recommendations not priority-sorted: %+v", recs)
		}
	}
}

func TestRecommendOnTrackNearEnd(t *testing.T) {
	snap := Snapshot{
		PIP:              activePIP(),
		Expectations:     expectations(ExpectationMet, ExpectationMet, ExpectationMet, ExpectationPartiallyMet),
		MilestoneReviews: []MilestoneReview{{Milestone: Phase30, ReviewDate: onDay(30)}, {Milestone: Phase60, ReviewDate: onDay(60)}},
	}
	for d := 7; d <= 77; d += 7 {
		snap.CheckIns = append(snap.CheckIns, checkIn(d, CheckInOnTrack))
	}
	recs := Recommend(DeriveSignals(snap, onDay(78)), AlertOptions{})
	if len(recs) != 1 {
		t.Fatalf("expected only the final review recommendation, got %+v", recs)
	}
	if recs[0].Rule != "final_review_prepare" || recs[0].Priority != PriorityMedium {
		t.Fatalf("unexpected recommendation: %+v", recs[0])
	}
}

func TestRecommendNoExpectations(t *testing.T) {
	snap := Snapshot{PIP: activePIP(), CheckIns: []CheckIn{checkIn(9, CheckInOnTrack)}}
	recs := Recommend(DeriveSignals(snap, onDay(10)), AlertOptions{})
	if _, ok := findRecommendation(recs, "no_expectations"); !ok {
		t.Fatalf("expected no-expectations recommendation, got %+v", recs)
	}
}

func TestRecommendApproachingReviewIsHigh(t *testing.T) {
	snap := Snapshot{
		PIP:          activePIP(),
		Expectations: expectations(ExpectationMet, ExpectationInProgress),
		CheckIns:     []CheckIn{checkIn(7, CheckInOnTrack), checkIn(14, CheckInOnTrack), checkIn(21, CheckInAtRisk)},
	}
	recs := Recommend(DeriveSignals(snap, onDay(27)), AlertOptions{})
	r, ok := findRecommendation(recs, "milestone_approaching_30_day")
	if !ok || r.Priority != PriorityHigh {
		t.Fatalf("expected high approaching recommendation, got %+v", recs)
	}
	if r, ok := findRecommendation(recs, "trajectory_at_risk"); !ok || r.Priority != PriorityHigh {
		t.Fatalf("expected at-risk recommendation, got %+v", recs)
	}
}

func TestRecommendLaterMilestonesFollowAlertCoverage(t *testing.T) {
	snap := Snapshot{
		PIP:              activePIP(),
		Expectations:     expectations(ExpectationMet, ExpectationInProgress, ExpectationMet),
		MilestoneReviews: []MilestoneReview{{Milestone: Phase30, ReviewDate: onDay(30)}},
	}
	for d := 7; d <= 56; d += 7 {
		snap.CheckIns = append(snap.CheckIns, checkIn(d, CheckInOnTrack))
	}

	approaching := DeriveSignals(snap, onDay(57))
	if _, ok := findRecommendation(Recommend(approaching, AlertOptions{}), "milestone_approaching_60_day"); ok {
		t.Fatal("expected 60-day recommendations only with all milestones enabled")
	}
	r, ok := findRecommendation(Recommend(approaching, AlertOptions{AllMilestones: true}), "milestone_approaching_60_day")
	if !ok || r.Priority != PriorityHigh || r.Action != "Prepare for the 60-day milestone review" {
		t.Fatalf("expected high 60-day preparation, got %+v", r)
	}

	overdue := DeriveSignals(snap, onDay(62))
	r, ok = findRecommendation(Recommend(overdue, AlertOptions{AllMilestones: true}), "milestone_overdue_60_day")
	if !ok || r.Priority != PriorityUrgent {
		t.Fatalf("expected urgent 60-day review, got %+v", r)
	}
	if _, ok := hasRule(EvaluateAlerts(overdue, AlertOptions{AllMilestones: true}), "milestone_overdue_60_day"); !ok {
		t.Fatal("expected the matching alert to fire as well")
	}
}
