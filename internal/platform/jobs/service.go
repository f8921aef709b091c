package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"talent/internal/domain/pip"
	"talent/internal/platform/querier"
)

const JobPIPSweep = "pip_sweep"

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// Sweeper assesses every open plan of a tenant.
type Sweeper interface {
	Sweep(ctx context.Context, tenantID string, asOf time.Time) (pip.SweepSummary, error)
}

// SweepRecorder counts finished sweeps.
type SweepRecorder interface {
	RecordSweep(failed bool)
}

type Options struct {
	SweepInterval time.Duration
	Metrics       SweepRecorder
	Now           func() time.Time
}

type Service struct {
	DB      querier.Querier
	sweeper Sweeper
	opts    Options
	queue   chan job
}

type job struct {
	Type     string
	TenantID string
	Run      func(context.Context) (any, error)
}

func New(db querier.Querier, sweeper Sweeper, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		DB:      db,
		sweeper: sweeper,
		opts:    opts,
		queue:   make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.opts.SweepInterval > 0 && s.sweeper != nil {
		go s.scheduleSweeps(ctx, s.opts.SweepInterval)
	}
}

func (s *Service) Enqueue(jobType, tenantID string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, TenantID: tenantID, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType, "tenantId", tenantID)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType, tenantID string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, TenantID: tenantID, Run: run})
}

// SweepTenant runs one PIP sweep for a tenant and records it in job_runs.
func (s *Service) SweepTenant(ctx context.Context, tenantID string) (pip.SweepSummary, error) {
	details, err := s.RunNow(ctx, JobPIPSweep, tenantID, s.sweepFunc(tenantID))
	summary, _ := details.(pip.SweepSummary)
	return summary, err
}

func (s *Service) sweepFunc(tenantID string) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		summary, err := s.sweeper.Sweep(ctx, tenantID, s.opts.Now())
		if s.opts.Metrics != nil {
			s.opts.Metrics.RecordSweep(err != nil)
		}
		if err != nil {
			return nil, err
		}
		slog.Info("pip sweep finished",
			"tenantId", tenantID,
			"assessed", summary.Assessed,
			"failed", summary.Failed,
			"critical", summary.Alerts[string(pip.SeverityCritical)],
		)
		return summary, nil
	}
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "tenantId", j.TenantID, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.DB != nil {
		if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (tenant_id, job_type, status)
    VALUES ($1,$2,$3)
    RETURNING id
  `, j.TenantID, j.Type, statusRunning).Scan(&runID); err != nil {
			slog.Warn("job run insert failed", "err", err)
		}
	}

	details, err := j.Run(ctx)
	status := statusCompleted
	if err != nil {
		status = statusFailed
		details = map[string]string{"error": err.Error()}
	}
	if runID != "" {
		detailsJSON, marshalErr := json.Marshal(details)
		if marshalErr != nil {
			slog.Warn("job details marshal failed", "err", marshalErr)
			detailsJSON = []byte("{}")
		}
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (s *Service) scheduleSweeps(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.enqueueSweeps(ctx)
		}
	}
}

func (s *Service) enqueueSweeps(ctx context.Context) {
	tenants, err := s.listTenants(ctx)
	if err != nil {
		slog.Warn("sweep scheduler tenant lookup failed", "err", err)
		return
	}
	for _, tenantID := range tenants {
		s.Enqueue(JobPIPSweep, tenantID, s.sweepFunc(tenantID))
	}
}

func (s *Service) listTenants(ctx context.Context) ([]string, error) {
	if s.DB == nil {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `SELECT id FROM tenants`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
