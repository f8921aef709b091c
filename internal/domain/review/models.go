package review

import "talent/internal/domain/lexicon"

type PlanType string

const (
	PlanDevelopment            PlanType = "development"
	PlanPerformanceImprovement PlanType = "performance_improvement"
	PlanRetention              PlanType = "retention"
	PlanSuccession             PlanType = "succession"
)

type Mode string

const (
	ModePattern Mode = "pattern"
	ModeAI      Mode = "ai"
)

const (
	SourcePattern = "pattern"
	SourceAI      = "ai"

	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"

	OwnerEmployee = "employee"
	OwnerManager  = "manager"
	OwnerHR       = "hr"

	UnknownEmployee = "Unknown Employee"
	NotSpecified    = "Not specified"
)

type PlacementSuggestion struct {
	Performance lexicon.Rating `json:"performance"`
	Potential   lexicon.Rating `json:"potential"`
	Confidence  int            `json:"confidence"`
}

type ActionItem struct {
	Description   string `json:"description" jsonschema:"description=What needs to be done"`
	DueOffsetDays int    `json:"dueOffsetDays" jsonschema:"description=Days after plan start when the item is due"`
	Owner         string `json:"owner" jsonschema:"enum=employee,enum=manager,enum=hr"`
	Priority      string `json:"priority" jsonschema:"enum=high,enum=medium,enum=low"`
	Completed     bool   `json:"completed"`
}

type DraftPlan struct {
	PlanType       PlanType     `json:"planType"`
	Objectives     []string     `json:"objectives"`
	ActionItems    []ActionItem `json:"actionItems"`
	SuccessMetrics []string     `json:"successMetrics"`
	Timeline       string       `json:"timeline"`
}

type Analysis struct {
	EmployeeName   string              `json:"employeeName"`
	Title          string              `json:"title"`
	Department     string              `json:"department"`
	Email          string              `json:"email"`
	Placement      PlacementSuggestion `json:"placement"`
	Plan           DraftPlan           `json:"plan"`
	KeyInsights    []string            `json:"keyInsights"`
	Strengths      []string            `json:"strengths"`
	Improvements   []string            `json:"improvements"`
	Achievements   []string            `json:"achievements"`
	Challenges     []string            `json:"challenges"`
	Reasoning      string              `json:"reasoning,omitempty"`
	Source         string              `json:"source"`
	FallbackUsed   bool                `json:"fallbackUsed"`
	FallbackReason string              `json:"fallbackReason,omitempty"`
}
