package pip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"talent/internal/domain/review"
)

type CreateInput struct {
	EmployeeID      string
	ManagerID       string
	StartDate       time.Time
	ReasonForPIP    string
	Consequences    string
	SupportProvided string
	Plan            *review.DraftPlan
	Expectations    []Expectation
}

type BatchResult struct {
	PIPID      string      `json:"pipId"`
	Assessment *Assessment `json:"assessment,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type SweepSummary struct {
	Assessed int            `json:"assessed"`
	Failed   int            `json:"failed"`
	Alerts   map[string]int `json:"alerts"`
}

func (s *Service) Get(ctx context.Context, tenantID, pipID string) (PIP, error) {
	return s.store.GetPIP(ctx, tenantID, pipID)
}

func (s *Service) LoadSnapshot(ctx context.Context, tenantID, pipID string) (Snapshot, error) {
	p, err := s.store.GetPIP(ctx, tenantID, pipID)
	if err != nil {
		return Snapshot{}, err
	}
	expectations, err := s.store.ListExpectations(ctx, tenantID, pipID)
	if err != nil {
		return Snapshot{}, err
	}
	checkIns, err := s.store.ListCheckIns(ctx, tenantID, pipID)
	if err != nil {
		return Snapshot{}, err
	}
	reviews, err := s.store.ListMilestoneReviews(ctx, tenantID, pipID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{PIP: p, Expectations: expectations, CheckIns: checkIns, MilestoneReviews: reviews}, nil
}

func (s *Service) Assess(ctx context.Context, tenantID, pipID string, asOf time.Time) (Assessment, error) {
	snap, err := s.LoadSnapshot(ctx, tenantID, pipID)
	if err != nil {
		return Assessment{}, err
	}
	a := Evaluate(snap, asOf, EvaluateOptions{Alerts: s.opts.Alerts})
	s.record(a)
	return a, nil
}

// AssessMany evaluates the plans with bounded parallelism. A missing plan is
// reported in its result; any other load error aborts the batch.
func (s *Service) AssessMany(ctx context.Context, tenantID string, pipIDs []string, asOf time.Time) ([]BatchResult, error) {
	results := make([]BatchResult, len(pipIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, id := range pipIDs {
		g.Go(func() error {
			a, err := s.Assess(gctx, tenantID, id, asOf)
			if errors.Is(err, ErrPIPNotFound) {
				results[i] = BatchResult{PIPID: id, Error: err.Error()}
				return nil
			}
			if err != nil {
				return fmt.Errorf("assess %s: %w", id, err)
			}
			results[i] = BatchResult{PIPID: id, Assessment: &a}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) ListActive(ctx context.Context, tenantID string, asOf time.Time, limit, offset int) ([]BatchResult, int, error) {
	ids, err := s.store.ListActivePIPIDs(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}
	total := len(ids)
	if offset >= total {
		return []BatchResult{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	results, err := s.AssessMany(ctx, tenantID, ids[offset:end], asOf)
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

func (s *Service) Sweep(ctx context.Context, tenantID string, asOf time.Time) (SweepSummary, error) {
	ids, err := s.store.ListActivePIPIDs(ctx, tenantID)
	if err != nil {
		return SweepSummary{}, err
	}
	results, err := s.AssessMany(ctx, tenantID, ids, asOf)
	if err != nil {
		return SweepSummary{}, err
	}
	summary := SweepSummary{Alerts: map[string]int{}}
	for _, r := range results {
		if r.Assessment == nil {
			summary.Failed++
			continue
		}
		summary.Assessed++
		for _, a := range r.Assessment.Alerts {
			summary.Alerts[string(a.Severity)]++
		}
	}
	return summary, nil
}

func (s *Service) CreatePIP(ctx context.Context, tenantID string, in CreateInput) (Snapshot, error) {
	p := NewPIP(uuid.NewString(), in.EmployeeID, in.ManagerID, in.StartDate)
	p.TenantID = tenantID
	p.ReasonForPIP = strings.TrimSpace(in.ReasonForPIP)
	p.Consequences = strings.TrimSpace(in.Consequences)
	p.SupportProvided = strings.TrimSpace(in.SupportProvided)
	p.CreatedAt = s.Now()

	expectations := in.Expectations
	if len(expectations) == 0 && in.Plan != nil {
		expectations = SeedExpectations(p.ID, *in.Plan)
	}
	for i := range expectations {
		expectations[i].ID = uuid.NewString()
		expectations[i].PIPID = p.ID
		if expectations[i].Status == "" {
			expectations[i].Status = ExpectationPending
		}
	}

	if err := s.store.CreatePIP(ctx, tenantID, p, expectations); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{PIP: p, Expectations: expectations}, nil
}

func (s *Service) RecordCheckIn(ctx context.Context, tenantID string, ci CheckIn, updates []ExpectationUpdate) (CheckIn, error) {
	if ci.CheckInDate.IsZero() || !ci.OverallStatus.Valid() {
		return CheckIn{}, ErrInvalidCheckIn
	}
	snap, err := s.LoadSnapshot(ctx, tenantID, ci.PIPID)
	if err != nil {
		return CheckIn{}, err
	}
	if !snap.PIP.Status.Open() {
		return CheckIn{}, ErrPIPClosed
	}

	known := make(map[string]bool, len(snap.Expectations))
	for _, e := range snap.Expectations {
		known[e.ID] = true
	}
	for _, u := range updates {
		if !known[u.ExpectationID] {
			return CheckIn{}, ErrUnknownExpectation
		}
		if !u.Status.Valid() || u.ProgressPercentage < 0 || u.ProgressPercentage > 100 {
			return CheckIn{}, ErrInvalidCheckIn
		}
	}

	ci.ID = uuid.NewString()
	if ci.Attendees == nil {
		ci.Attendees = []string{}
	}
	if err := s.store.CreateCheckIn(ctx, tenantID, ci, updates); err != nil {
		return CheckIn{}, err
	}
	return ci, nil
}

func (s *Service) RecordMilestoneReview(ctx context.Context, tenantID string, r MilestoneReview) (MilestoneReview, error) {
	if !r.Milestone.Valid() || r.ReviewDate.IsZero() {
		return MilestoneReview{}, ErrInvalidMilestone
	}
	p, err := s.store.GetPIP(ctx, tenantID, r.PIPID)
	if err != nil {
		return MilestoneReview{}, err
	}
	if !p.Status.Open() {
		return MilestoneReview{}, ErrPIPClosed
	}
	r.ID = uuid.NewString()
	if err := s.store.CreateMilestoneReview(ctx, tenantID, r); err != nil {
		return MilestoneReview{}, err
	}
	return r, nil
}

func (s *Service) ChangeStatus(ctx context.Context, tenantID, pipID string, to Status, outcome string) (PIP, error) {
	p, err := s.store.GetPIP(ctx, tenantID, pipID)
	if err != nil {
		return PIP{}, err
	}
	if !CanTransition(p.Status, to) {
		return PIP{}, ErrInvalidTransition
	}
	if err := s.store.UpdateStatus(ctx, tenantID, pipID, p.Status, to, strings.TrimSpace(outcome)); err != nil {
		return PIP{}, err
	}
	p.Status = to
	p.Outcome = strings.TrimSpace(outcome)
	return p, nil
}

func (s *Service) Acknowledge(ctx context.Context, tenantID, pipID string) (PIP, error) {
	p, err := s.store.GetPIP(ctx, tenantID, pipID)
	if err != nil {
		return PIP{}, err
	}
	if p.EmployeeAcknowledged {
		return PIP{}, ErrAlreadyAcknowledged
	}
	at := s.Now()
	if err := s.store.Acknowledge(ctx, tenantID, pipID, at); err != nil {
		return PIP{}, err
	}
	p.EmployeeAcknowledged = true
	p.AcknowledgedAt = &at
	return p, nil
}

// Document projects a plan for the document generator. An undetermined lang
// labels in English.
func (s *Service) Document(ctx context.Context, tenantID, pipID string, asOf time.Time, lang language.Tag) (Document, error) {
	snap, err := s.LoadSnapshot(ctx, tenantID, pipID)
	if err != nil {
		return Document{}, err
	}
	return Project(snap, asOf, DocumentOptions{DateLayout: s.opts.DateLayout, Language: lang, Alerts: s.opts.Alerts}), nil
}

func (s *Service) Letter(ctx context.Context, tenantID, pipID string, asOf time.Time, lang language.Tag, w io.Writer) error {
	doc, err := s.Document(ctx, tenantID, pipID, asOf, lang)
	if err != nil {
		return err
	}
	return RenderLetter(w, doc)
}

func (s *Service) ArchiveLetter(ctx context.Context, tenantID, pipID string, asOf time.Time) (string, error) {
	var buf bytes.Buffer
	if err := s.Letter(ctx, tenantID, pipID, asOf, language.Und, &buf); err != nil {
		return "", err
	}

	dir := filepath.Join(s.opts.LetterDir, tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	letterKey, err := s.crypto.Derive("pip-letter")
	if err != nil {
		return "", err
	}
	filePath, err := letterKey.WriteFile(filepath.Join(dir, pipID+".pdf"), buf.Bytes(), letterAAD(tenantID, pipID))
	if err != nil {
		return "", err
	}
	if err := s.store.UpdateLetterPath(ctx, tenantID, pipID, filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func (s *Service) ReadArchivedLetter(tenantID, pipID, path string) ([]byte, error) {
	letterKey, err := s.crypto.Derive("pip-letter")
	if err != nil {
		return nil, err
	}
	return letterKey.ReadFile(path, letterAAD(tenantID, pipID))
}

// Sealed letters are bound to their plan so a file moved between plans fails to open.
func letterAAD(tenantID, pipID string) []byte {
	return []byte(tenantID + "/" + pipID)
}

func (s *Service) record(a Assessment) {
	if s.opts.Recorder == nil {
		return
	}
	var critical, warning, info int
	for _, alert := range a.Alerts {
		switch alert.Severity {
		case SeverityCritical:
			critical++
		case SeverityWarning:
			warning++
		default:
			info++
		}
	}
	s.opts.Recorder.RecordAssessment(critical, warning, info)
}
