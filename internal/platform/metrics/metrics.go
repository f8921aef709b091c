package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-local counters for /metrics.
type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64

	assessments    uint64
	alertsCritical uint64
	alertsWarning  uint64
	alertsInfo     uint64
	aiAnalyses     uint64
	aiFallbacks    uint64
	sweepRuns      uint64
	sweepFailures  uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordAssessment counts one PIP evaluation and the alerts it raised.
func (c *Collector) RecordAssessment(critical, warning, info int) {
	atomic.AddUint64(&c.assessments, 1)
	atomic.AddUint64(&c.alertsCritical, uint64(max(critical, 0)))
	atomic.AddUint64(&c.alertsWarning, uint64(max(warning, 0)))
	atomic.AddUint64(&c.alertsInfo, uint64(max(info, 0)))
}

// RecordAnalysis counts an AI-mode review analysis; fallback marks a reply
// served by pattern analysis instead.
func (c *Collector) RecordAnalysis(fallback bool) {
	atomic.AddUint64(&c.aiAnalyses, 1)
	if fallback {
		atomic.AddUint64(&c.aiFallbacks, 1)
	}
}

func (c *Collector) RecordSweep(failed bool) {
	atomic.AddUint64(&c.sweepRuns, 1)
	if failed {
		atomic.AddUint64(&c.sweepFailures, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      errs,
		"rateLimitedTotal": limited,
		"avgDurationMs":    avg,
		"totalDurationMs":  totalMs,
		"assessmentsTotal": atomic.LoadUint64(&c.assessments),
		"alertsTotal": map[string]uint64{
			"critical": atomic.LoadUint64(&c.alertsCritical),
			"warning":  atomic.LoadUint64(&c.alertsWarning),
			"info":     atomic.LoadUint64(&c.alertsInfo),
		},
		"aiAnalysesTotal":    atomic.LoadUint64(&c.aiAnalyses),
		"aiFallbacksTotal":   atomic.LoadUint64(&c.aiFallbacks),
		"sweepRunsTotal":     atomic.LoadUint64(&c.sweepRuns),
		"sweepFailuresTotal": atomic.LoadUint64(&c.sweepFailures),
	}
}
