package pip

import "time"

type Cadence struct {
	Expected      int  `json:"expected"`
	Actual        int  `json:"actual"`
	DaysSinceLast int  `json:"daysSinceLast"`
	BehindCadence bool `json:"behindCadence"`
}

// HasCheckIns distinguishes a real DaysSinceLast from the sentinel.
func (c Cadence) HasCheckIns() bool {
	return c.Actual > 0
}

func AuditCadence(checkIns []CheckIn, daysInPIP int, asOf time.Time) Cadence {
	c := Cadence{
		Expected:      max(1, daysInPIP/7),
		Actual:        len(checkIns),
		DaysSinceLast: NoCheckInsSentinel,
	}
	if last, ok := latestCheckIn(checkIns); ok {
		c.DaysSinceLast = daysBetween(last.CheckInDate, asOf)
	}
	c.BehindCadence = c.Actual < c.Expected
	return c
}

func latestCheckIn(checkIns []CheckIn) (CheckIn, bool) {
	if len(checkIns) == 0 {
		return CheckIn{}, false
	}
	latest := checkIns[0]
	for _, ci := range checkIns[1:] {
		if ci.CheckInDate.After(latest.CheckInDate) {
			latest = ci
		}
	}
	return latest, true
}
