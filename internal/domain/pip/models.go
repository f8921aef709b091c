package pip

import "time"

// PIP is one remediation cycle. The milestone and end dates are derived from
// StartDate; callers guarantee StartDate precedes the evaluation date.
type PIP struct {
	ID                   string     `json:"id"`
	TenantID             string     `json:"tenantId,omitempty"`
	EmployeeID           string     `json:"employeeId"`
	ManagerID            string     `json:"managerId"`
	Status               Status     `json:"status"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              time.Time  `json:"endDate"`
	Day30ReviewDate      time.Time  `json:"day30ReviewDate"`
	Day60ReviewDate      time.Time  `json:"day60ReviewDate"`
	Day90ReviewDate      time.Time  `json:"day90ReviewDate"`
	ReasonForPIP         string     `json:"reasonForPip"`
	Consequences         string     `json:"consequences"`
	SupportProvided      string     `json:"supportProvided"`
	Outcome              string     `json:"outcome,omitempty"`
	EmployeeAcknowledged bool       `json:"employeeAcknowledged"`
	AcknowledgedAt       *time.Time `json:"acknowledgedAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

func NewPIP(id, employeeID, managerID string, start time.Time) PIP {
	p := PIP{
		ID:         id,
		EmployeeID: employeeID,
		ManagerID:  managerID,
		Status:     StatusActive,
		StartDate:  start,
	}
	p.DeriveSchedule()
	return p
}

func (p *PIP) DeriveSchedule() {
	if p.StartDate.IsZero() {
		return
	}
	p.Day30ReviewDate = p.StartDate.AddDate(0, 0, 30)
	p.Day60ReviewDate = p.StartDate.AddDate(0, 0, 60)
	p.Day90ReviewDate = p.StartDate.AddDate(0, 0, 90)
	p.EndDate = p.StartDate.AddDate(0, 0, PlanLengthDays)
}

type Expectation struct {
	ID                 string            `json:"id"`
	PIPID              string            `json:"pipId"`
	Phase              Phase             `json:"phase"`
	Category           string            `json:"category"`
	Expectation        string            `json:"expectation"`
	SuccessCriteria    string            `json:"successCriteria"`
	Status             ExpectationStatus `json:"status"`
	ProgressPercentage int               `json:"progressPercentage"`
	OrderIndex         int               `json:"orderIndex"`
}

type CheckIn struct {
	ID              string        `json:"id"`
	PIPID           string        `json:"pipId"`
	CheckInDate     time.Time     `json:"checkInDate"`
	OverallStatus   CheckInStatus `json:"overallStatus"`
	ProgressSummary string        `json:"progressSummary"`
	Attendees       []string      `json:"attendees"`
}

type MilestoneReview struct {
	ID                string    `json:"id"`
	PIPID             string    `json:"pipId"`
	Milestone         Phase     `json:"milestone"`
	ReviewDate        time.Time `json:"reviewDate"`
	OverallRating     string    `json:"overallRating"`
	Decision          string    `json:"decision"`
	DecisionRationale string    `json:"decisionRationale"`
}

type ExpectationUpdate struct {
	ExpectationID      string            `json:"expectationId"`
	Status             ExpectationStatus `json:"status"`
	ProgressPercentage int               `json:"progressPercentage"`
}

type Snapshot struct {
	PIP              PIP               `json:"pip"`
	Expectations     []Expectation     `json:"expectations"`
	CheckIns         []CheckIn         `json:"checkIns"`
	MilestoneReviews []MilestoneReview `json:"milestoneReviews"`
}

type Alert struct {
	ID             string   `json:"id"`
	Rule           string   `json:"rule"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

type Recommendation struct {
	Rule     string   `json:"rule"`
	Priority Priority `json:"priority"`
	Action   string   `json:"action"`
	Why      string   `json:"why"`
}
