package pip

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// daysBetween is floor((to - from) / 1 day).
func daysBetween(from, to time.Time) int {
	return int(math.Floor(float64(to.Sub(from)) / float64(day)))
}

// DaysElapsed is the plan day at asOf. It is negative before the start date.
func DaysElapsed(p PIP, asOf time.Time) int {
	return daysBetween(p.StartDate, asOf)
}

func DaysRemaining(p PIP, asOf time.Time) int {
	end := p.EndDate
	if end.IsZero() {
		end = p.StartDate.AddDate(0, 0, PlanLengthDays)
	}
	return max(0, daysBetween(asOf, end))
}

// StageFor maps a plan day onto the milestone windows. Each window opens five
// days ahead of its milestone.
func StageFor(days int) Stage {
	switch {
	case days < 25:
		return StagePre30
	case days < 55:
		return StageWindow30
	case days < 85:
		return StageWindow60
	case days <= PlanLengthDays:
		return StageWindow90
	default:
		return StagePost90
	}
}

func StageAt(p PIP, asOf time.Time) Stage {
	return StageFor(DaysElapsed(p, asOf))
}

func CurrentPhase(days int) Phase {
	switch {
	case days <= 30:
		return Phase30
	case days <= 60:
		return Phase60
	default:
		return Phase90
	}
}

func MilestoneDate(p PIP, m Phase) time.Time {
	switch m {
	case Phase30:
		if !p.Day30ReviewDate.IsZero() {
			return p.Day30ReviewDate
		}
	case Phase60:
		if !p.Day60ReviewDate.IsZero() {
			return p.Day60ReviewDate
		}
	case Phase90:
		if !p.Day90ReviewDate.IsZero() {
			return p.Day90ReviewDate
		}
	}
	return p.StartDate.AddDate(0, 0, m.Day())
}
