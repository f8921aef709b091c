package pip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetPIP(ctx context.Context, tenantID, pipID string) (PIP, error) {
	var p PIP
	err := s.DB.QueryRow(ctx, `
    SELECT id, tenant_id, employee_id, manager_id, status, start_date, end_date,
           day30_review_date, day60_review_date, day90_review_date,
           reason_for_pip, consequences, support_provided, outcome,
           employee_acknowledged, acknowledged_at, created_at
    FROM pips
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, pipID).Scan(&p.ID, &p.TenantID, &p.EmployeeID, &p.ManagerID, &p.Status, &p.StartDate, &p.EndDate,
		&p.Day30ReviewDate, &p.Day60ReviewDate, &p.Day90ReviewDate,
		&p.ReasonForPIP, &p.Consequences, &p.SupportProvided, &p.Outcome,
		&p.EmployeeAcknowledged, &p.AcknowledgedAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PIP{}, ErrPIPNotFound
	}
	if err != nil {
		return PIP{}, fmt.Errorf("get pip: %w", err)
	}
	return p, nil
}

func (s *Store) ListExpectations(ctx context.Context, tenantID, pipID string) ([]Expectation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.pip_id, e.phase, e.category, e.expectation, e.success_criteria,
           e.status, e.progress_percentage, e.order_index
    FROM pip_expectations e
    JOIN pips p ON e.pip_id = p.id
    WHERE p.tenant_id = $1 AND e.pip_id = $2
    ORDER BY e.phase, e.order_index
  `, tenantID, pipID)
	if err != nil {
		return nil, fmt.Errorf("list expectations: %w", err)
	}
	defer rows.Close()

	var out []Expectation
	for rows.Next() {
		var e Expectation
		if err := rows.Scan(&e.ID, &e.PIPID, &e.Phase, &e.Category, &e.Expectation, &e.SuccessCriteria,
			&e.Status, &e.ProgressPercentage, &e.OrderIndex); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) ListCheckIns(ctx context.Context, tenantID, pipID string) ([]CheckIn, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT c.id, c.pip_id, c.check_in_date, c.overall_status, c.progress_summary, c.attendees
    FROM pip_check_ins c
    JOIN pips p ON c.pip_id = p.id
    WHERE p.tenant_id = $1 AND c.pip_id = $2
    ORDER BY c.check_in_date DESC
  `, tenantID, pipID)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	var out []CheckIn
	for rows.Next() {
		var ci CheckIn
		if err := rows.Scan(&ci.ID, &ci.PIPID, &ci.CheckInDate, &ci.OverallStatus, &ci.ProgressSummary, &ci.Attendees); err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

func (s *Store) ListMilestoneReviews(ctx context.Context, tenantID, pipID string) ([]MilestoneReview, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT m.id, m.pip_id, m.milestone, m.review_date, m.overall_rating, m.decision, m.decision_rationale
    FROM pip_milestone_reviews m
    JOIN pips p ON m.pip_id = p.id
    WHERE p.tenant_id = $1 AND m.pip_id = $2
    ORDER BY m.review_date
  `, tenantID, pipID)
	if err != nil {
		return nil, fmt.Errorf("list milestone reviews: %w", err)
	}
	defer rows.Close()

	var out []MilestoneReview
	for rows.Next() {
		var m MilestoneReview
		if err := rows.Scan(&m.ID, &m.PIPID, &m.Milestone, &m.ReviewDate, &m.OverallRating, &m.Decision, &m.DecisionRationale); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ListActivePIPIDs(ctx context.Context, tenantID string) ([]string, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id
    FROM pips
    WHERE tenant_id = $1 AND status IN ($2, $3)
    ORDER BY start_date
  `, tenantID, StatusActive, StatusExtended)
	if err != nil {
		return nil, fmt.Errorf("list active pips: %w", err)
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

func (s *Store) CreatePIP(ctx context.Context, tenantID string, p PIP, expectations []Expectation) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    INSERT INTO pips (id, tenant_id, employee_id, manager_id, status, start_date, end_date,
                      day30_review_date, day60_review_date, day90_review_date,
                      reason_for_pip, consequences, support_provided, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
  `, p.ID, tenantID, p.EmployeeID, p.ManagerID, p.Status, p.StartDate, p.EndDate,
		p.Day30ReviewDate, p.Day60ReviewDate, p.Day90ReviewDate,
		p.ReasonForPIP, p.Consequences, p.SupportProvided, p.CreatedAt); err != nil {
		return fmt.Errorf("insert pip: %w", err)
	}

	for _, e := range expectations {
		if _, err := tx.Exec(ctx, `
      INSERT INTO pip_expectations (id, pip_id, phase, category, expectation, success_criteria,
                                    status, progress_percentage, order_index)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, e.ID, p.ID, e.Phase, e.Category, e.Expectation, e.SuccessCriteria,
			e.Status, e.ProgressPercentage, e.OrderIndex); err != nil {
			return fmt.Errorf("insert expectation: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// CreateCheckIn stores the check-in and applies the expectation updates
// recorded with it in one transaction.
func (s *Store) CreateCheckIn(ctx context.Context, tenantID string, ci CheckIn, updates []ExpectationUpdate) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    INSERT INTO pip_check_ins (id, pip_id, check_in_date, overall_status, progress_summary, attendees)
    SELECT $1, p.id, $3, $4, $5, $6
    FROM pips p
    WHERE p.tenant_id = $7 AND p.id = $2
  `, ci.ID, ci.PIPID, ci.CheckInDate, ci.OverallStatus, ci.ProgressSummary, ci.Attendees, tenantID)
	if err != nil {
		return fmt.Errorf("insert check-in: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPIPNotFound
	}

	for _, u := range updates {
		tag, err := tx.Exec(ctx, `
      UPDATE pip_expectations
      SET status = $1, progress_percentage = $2, updated_at = now()
      WHERE id = $3 AND pip_id = $4
    `, u.Status, u.ProgressPercentage, u.ExpectationID, ci.PIPID)
		if err != nil {
			return fmt.Errorf("update expectation: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrUnknownExpectation
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) CreateMilestoneReview(ctx context.Context, tenantID string, review MilestoneReview) error {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO pip_milestone_reviews (id, pip_id, milestone, review_date, overall_rating, decision, decision_rationale)
    SELECT $1, p.id, $3, $4, $5, $6, $7
    FROM pips p
    WHERE p.tenant_id = $8 AND p.id = $2
  `, review.ID, review.PIPID, review.Milestone, review.ReviewDate, review.OverallRating, review.Decision, review.DecisionRationale, tenantID)
	if err != nil {
		return fmt.Errorf("insert milestone review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPIPNotFound
	}
	return nil
}

// UpdateStatus is conditional on the current status so concurrent transitions
// cannot both succeed.
func (s *Store) UpdateStatus(ctx context.Context, tenantID, pipID string, from, to Status, outcome string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pips
    SET status = $1, outcome = $2, updated_at = now()
    WHERE tenant_id = $3 AND id = $4 AND status = $5
  `, to, outcome, tenantID, pipID, from)
	if err != nil {
		return fmt.Errorf("update pip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	return nil
}

func (s *Store) Acknowledge(ctx context.Context, tenantID, pipID string, at time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE pips
    SET employee_acknowledged = TRUE, acknowledged_at = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3 AND employee_acknowledged = FALSE
  `, at, tenantID, pipID)
	if err != nil {
		return fmt.Errorf("acknowledge pip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyAcknowledged
	}
	return nil
}

func (s *Store) UpdateLetterPath(ctx context.Context, tenantID, pipID, path string) error {
	if _, err := s.DB.Exec(ctx, `
    UPDATE pips
    SET letter_path = $1, updated_at = now()
    WHERE tenant_id = $2 AND id = $3
  `, path, tenantID, pipID); err != nil {
		return fmt.Errorf("update letter path: %w", err)
	}
	return nil
}
