package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(500, 30*time.Millisecond)
	c.Record(429, 0)
	c.RecordAssessment(2, 1, 0)
	c.RecordAssessment(0, 1, 3)
	c.RecordAnalysis(false)
	c.RecordAnalysis(true)
	c.RecordSweep(true)

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(3) || snap["errorsTotal"] != uint64(1) || snap["rateLimitedTotal"] != uint64(1) {
		t.Fatalf("unexpected request counters: %+v", snap)
	}
	if snap["avgDurationMs"] != float64(40)/3 {
		t.Fatalf("unexpected average duration: %v", snap["avgDurationMs"])
	}
	if snap["assessmentsTotal"] != uint64(2) {
		t.Fatalf("expected 2 assessments, got %v", snap["assessmentsTotal"])
	}
	alerts := snap["alertsTotal"].(map[string]uint64)
	if alerts["critical"] != 2 || alerts["warning"] != 2 || alerts["info"] != 3 {
		t.Fatalf("unexpected alert counters: %+v", alerts)
	}
	if snap["aiAnalysesTotal"] != uint64(2) || snap["aiFallbacksTotal"] != uint64(1) {
		t.Fatalf("unexpected ai counters: %+v", snap)
	}
	if snap["sweepRunsTotal"] != uint64(1) || snap["sweepFailuresTotal"] != uint64(1) {
		t.Fatalf("unexpected sweep counters: %+v", snap)
	}
}
