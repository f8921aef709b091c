// Package piptest provides an in-memory pip.StoreAPI for tests.
package piptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"talent/internal/domain/pip"
)

type MemStore struct {
	mu      sync.Mutex
	pips    map[string]pip.PIP
	exps    map[string][]pip.Expectation
	checks  map[string][]pip.CheckIn
	reviews map[string][]pip.MilestoneReview
	Letters map[string]string
	// FailWith, when set, is returned by every read.
	FailWith error
}

func NewMemStore() *MemStore {
	return &MemStore{
		pips:    map[string]pip.PIP{},
		exps:    map[string][]pip.Expectation{},
		checks:  map[string][]pip.CheckIn{},
		reviews: map[string][]pip.MilestoneReview{},
		Letters: map[string]string{},
	}
}

// Seed stores snap under its tenant as-is.
func (m *MemStore) Seed(tenantID string, snap pip.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := snap.PIP
	p.TenantID = tenantID
	m.pips[p.ID] = p
	m.exps[p.ID] = append([]pip.Expectation(nil), snap.Expectations...)
	m.checks[p.ID] = append([]pip.CheckIn(nil), snap.CheckIns...)
	m.reviews[p.ID] = append([]pip.MilestoneReview(nil), snap.MilestoneReviews...)
}

func (m *MemStore) lookup(tenantID, pipID string) (pip.PIP, error) {
	if m.FailWith != nil {
		return pip.PIP{}, m.FailWith
	}
	p, ok := m.pips[pipID]
	if !ok || p.TenantID != tenantID {
		return pip.PIP{}, pip.ErrPIPNotFound
	}
	return p, nil
}

func (m *MemStore) GetPIP(_ context.Context, tenantID, pipID string) (pip.PIP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookup(tenantID, pipID)
}

func (m *MemStore) ListExpectations(_ context.Context, tenantID, pipID string) ([]pip.Expectation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(tenantID, pipID); err != nil {
		return nil, err
	}
	return append([]pip.Expectation(nil), m.exps[pipID]...), nil
}

func (m *MemStore) ListCheckIns(_ context.Context, tenantID, pipID string) ([]pip.CheckIn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(tenantID, pipID); err != nil {
		return nil, err
	}
	return append([]pip.CheckIn(nil), m.checks[pipID]...), nil
}

func (m *MemStore) ListMilestoneReviews(_ context.Context, tenantID, pipID string) ([]pip.MilestoneReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(tenantID, pipID); err != nil {
		return nil, err
	}
	return append([]pip.MilestoneReview(nil), m.reviews[pipID]...), nil
}

func (m *MemStore) ListActivePIPIDs(_ context.Context, tenantID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, p := range m.pips {
		if p.TenantID == tenantID && p.Status.Open() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemStore) CreatePIP(_ context.Context, tenantID string, p pip.PIP, expectations []pip.Expectation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.TenantID = tenantID
	m.pips[p.ID] = p
	m.exps[p.ID] = append([]pip.Expectation(nil), expectations...)
	return nil
}

func (m *MemStore) CreateCheckIn(_ context.Context, tenantID string, ci pip.CheckIn, updates []pip.ExpectationUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(tenantID, ci.PIPID); err != nil {
		return err
	}
	exps := append([]pip.Expectation(nil), m.exps[ci.PIPID]...)
	for _, u := range updates {
		found := false
		for i := range exps {
			if exps[i].ID == u.ExpectationID {
				exps[i].Status = u.Status
				exps[i].ProgressPercentage = u.ProgressPercentage
				found = true
			}
		}
		if !found {
			return pip.ErrUnknownExpectation
		}
	}
	m.exps[ci.PIPID] = exps
	m.checks[ci.PIPID] = append(m.checks[ci.PIPID], ci)
	return nil
}

func (m *MemStore) CreateMilestoneReview(_ context.Context, tenantID string, review pip.MilestoneReview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(tenantID, review.PIPID); err != nil {
		return err
	}
	m.reviews[review.PIPID] = append(m.reviews[review.PIPID], review)
	return nil
}

func (m *MemStore) UpdateStatus(_ context.Context, tenantID, pipID string, from, to pip.Status, outcome string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(tenantID, pipID)
	if err != nil {
		return err
	}
	if p.Status != from {
		return pip.ErrInvalidTransition
	}
	p.Status = to
	p.Outcome = outcome
	m.pips[pipID] = p
	return nil
}

func (m *MemStore) Acknowledge(_ context.Context, tenantID, pipID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(tenantID, pipID)
	if err != nil {
		return err
	}
	if p.EmployeeAcknowledged {
		return pip.ErrAlreadyAcknowledged
	}
	p.EmployeeAcknowledged = true
	p.AcknowledgedAt = &at
	m.pips[pipID] = p
	return nil
}

func (m *MemStore) UpdateLetterPath(_ context.Context, tenantID, pipID, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.lookup(tenantID, pipID); err != nil {
		return err
	}
	m.Letters[pipID] = path
	return nil
}

// Snapshot returns the stored state of one plan.
func (m *MemStore) Snapshot(pipID string) pip.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return pip.Snapshot{
		PIP:              m.pips[pipID],
		Expectations:     append([]pip.Expectation(nil), m.exps[pipID]...),
		CheckIns:         append([]pip.CheckIn(nil), m.checks[pipID]...),
		MilestoneReviews: append([]pip.MilestoneReview(nil), m.reviews[pipID]...),
	}
}
