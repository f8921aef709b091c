package pip

type Status string

const (
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusTerminated Status = "terminated"
	StatusExtended   Status = "extended"
)

// Open reports whether the plan is still being worked. Unknown statuses are
// treated as open.
func (s Status) Open() bool {
	return s != StatusCompleted && s != StatusTerminated
}

// CanTransition allows only active -> {completed, terminated, extended}.
func CanTransition(from, to Status) bool {
	if from != StatusActive {
		return false
	}
	switch to {
	case StatusCompleted, StatusTerminated, StatusExtended:
		return true
	}
	return false
}

type Phase string

const (
	Phase30 Phase = "30_day"
	Phase60 Phase = "60_day"
	Phase90 Phase = "90_day"
)

var Phases = []Phase{Phase30, Phase60, Phase90}

func (p Phase) Valid() bool {
	return p == Phase30 || p == Phase60 || p == Phase90
}

func (p Phase) Day() int {
	switch p {
	case Phase30:
		return 30
	case Phase60:
		return 60
	case Phase90:
		return 90
	}
	return 0
}

type ExpectationStatus string

const (
	ExpectationPending      ExpectationStatus = "pending"
	ExpectationInProgress   ExpectationStatus = "in_progress"
	ExpectationPartiallyMet ExpectationStatus = "partially_met"
	ExpectationMet          ExpectationStatus = "met"
	ExpectationNotMet       ExpectationStatus = "not_met"
)

func (s ExpectationStatus) Valid() bool {
	switch s {
	case ExpectationPending, ExpectationInProgress, ExpectationPartiallyMet, ExpectationMet, ExpectationNotMet:
		return true
	}
	return false
}

type CheckInStatus string

const (
	CheckInOnTrack        CheckInStatus = "on_track"
	CheckInAtRisk         CheckInStatus = "at_risk"
	CheckInOffTrack       CheckInStatus = "off_track"
	CheckInNeedsAttention CheckInStatus = "needs_attention"
)

func (s CheckInStatus) Valid() bool {
	switch s {
	case CheckInOnTrack, CheckInAtRisk, CheckInOffTrack, CheckInNeedsAttention:
		return true
	}
	return false
}

type Stage string

const (
	StagePre30    Stage = "pre_30"
	StageWindow30 Stage = "window_30"
	StageWindow60 Stage = "window_60"
	StageWindow90 Stage = "window_90"
	StagePost90   Stage = "post_90"
)

type Trajectory string

const (
	TrajectoryOnTrack   Trajectory = "on_track"
	TrajectoryAtRisk    Trajectory = "at_risk"
	TrajectoryFailing   Trajectory = "failing"
	TrajectoryUncertain Trajectory = "uncertain"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

func (p Priority) rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	default:
		return 2
	}
}

const (
	PlanLengthDays = 90

	// NoCheckInsSentinel stands in for days-since-last-check-in when none
	// exist. It is not a real day count and must not be displayed as one.
	NoCheckInsSentinel = 999

	RecentWindowDays = 14
)
