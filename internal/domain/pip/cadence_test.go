package pip

import "testing"

func TestAuditCadenceWithoutCheckIns(t *testing.T) {
	got := AuditCadence(nil, 40, onDay(40))
	if got.Expected != 5 || got.Actual != 0 || !got.BehindCadence || got.DaysSinceLast != NoCheckInsSentinel {
		t.Fatalf("unexpected cadence: %+v", got)
	}
	if got.HasCheckIns() {
		t.Fatal("expected no check-ins")
	}
}

func TestAuditCadenceUsesLatestCheckIn(t *testing.T) {
	checkIns := []CheckIn{checkIn(7, CheckInOnTrack), checkIn(21, CheckInAtRisk), checkIn(14, CheckInOnTrack)}
	got := AuditCadence(checkIns, 24, onDay(24))
	if got.Expected != 3 || got.Actual != 3 || got.BehindCadence {
		t.Fatalf("unexpected cadence: %+v", got)
	}
	if got.DaysSinceLast != 3 {
		t.Fatalf("expected 3 days since the day-21 check-in, got %d", got.DaysSinceLast)
	}
}

func TestAuditCadenceExpectsAtLeastOne(t *testing.T) {
	if got := AuditCadence(nil, 3, onDay(3)); got.Expected != 1 {
		t.Fatalf("expected minimum of one check-in, got %d", got.Expected)
	}
}
