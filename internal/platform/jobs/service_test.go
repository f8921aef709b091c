package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent/internal/domain/pip"
)

var clock = time.Date(2025, 4, 12, 6, 0, 0, 0, time.UTC)

type fakeSweeper struct {
	tenants []string
	asOf    time.Time
	err     error
}

func (f *fakeSweeper) Sweep(_ context.Context, tenantID string, asOf time.Time) (pip.SweepSummary, error) {
	f.tenants = append(f.tenants, tenantID)
	f.asOf = asOf
	if f.err != nil {
		return pip.SweepSummary{}, f.err
	}
	return pip.SweepSummary{Assessed: 3, Alerts: map[string]int{"critical": 2}}, nil
}

type sweepCounter struct {
	runs, failures int
}

func (c *sweepCounter) RecordSweep(failed bool) {
	c.runs++
	if failed {
		c.failures++
	}
}

func TestSweepTenantWithoutDatabase(t *testing.T) {
	sweeper := &fakeSweeper{}
	counter := &sweepCounter{}
	svc := New(nil, sweeper, Options{Metrics: counter, Now: func() time.Time { return clock }})

	summary, err := svc.SweepTenant(context.Background(), "t1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if summary.Assessed != 3 || summary.Alerts["critical"] != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(sweeper.tenants) != 1 || sweeper.tenants[0] != "t1" || !sweeper.asOf.Equal(clock) {
		t.Fatalf("unexpected sweep call: %+v", sweeper)
	}
	if counter.runs != 1 || counter.failures != 0 {
		t.Fatalf("unexpected counters: %+v", counter)
	}
}

func TestSweepTenantFailure(t *testing.T) {
	counter := &sweepCounter{}
	svc := New(nil, &fakeSweeper{err: errors.New("db down")}, Options{Metrics: counter})
	if _, err := svc.SweepTenant(context.Background(), "t1"); err == nil {
		t.Fatal("expected sweep error")
	}
	if counter.failures != 1 {
		t.Fatalf("expected failure to be counted, got %+v", counter)
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	svc := New(nil, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	done := make(chan string, 1)
	if !svc.Enqueue("custom", "t1", func(context.Context) (any, error) {
		done <- "ran"
		return nil, nil
	}) {
		t.Fatal("expected job to be queued")
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queued job did not run")
	}
}
