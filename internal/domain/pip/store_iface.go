package pip

import (
	"context"
	"time"
)

type StoreAPI interface {
	GetPIP(ctx context.Context, tenantID, pipID string) (PIP, error)
	ListExpectations(ctx context.Context, tenantID, pipID string) ([]Expectation, error)
	ListCheckIns(ctx context.Context, tenantID, pipID string) ([]CheckIn, error)
	ListMilestoneReviews(ctx context.Context, tenantID, pipID string) ([]MilestoneReview, error)
	ListActivePIPIDs(ctx context.Context, tenantID string) ([]string, error)
	CreatePIP(ctx context.Context, tenantID string, p PIP, expectations []Expectation) error
	CreateCheckIn(ctx context.Context, tenantID string, ci CheckIn, updates []ExpectationUpdate) error
	CreateMilestoneReview(ctx context.Context, tenantID string, review MilestoneReview) error
	UpdateStatus(ctx context.Context, tenantID, pipID string, from, to Status, outcome string) error
	Acknowledge(ctx context.Context, tenantID, pipID string, at time.Time) error
	UpdateLetterPath(ctx context.Context, tenantID, pipID, path string) error
}
