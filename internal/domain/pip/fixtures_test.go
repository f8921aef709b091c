package pip

import (
	"fmt"
	"strings"
	"time"
)

var planStart = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func onDay(days int) time.Time {
	return planStart.AddDate(0, 0, days)
}

func activePIP() PIP {
	p := NewPIP("pip-1", "emp-1", "mgr-1", planStart)
	p.ReasonForPIP = strings.Repeat("Missed three delivery deadlines in Q4. ", 2)
	p.Consequences = "Failure to meet expectations may result in termination."
	p.SupportProvided = "Weekly coaching with the team lead."
	p.CreatedAt = planStart
	return p
}

func expectations(statuses ...ExpectationStatus) []Expectation {
	out := make([]Expectation, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, Expectation{
			ID:              fmt.Sprintf("exp-%d", i+1),
			PIPID:           "pip-1",
			Phase:           Phases[i%len(Phases)],
			Expectation:     fmt.Sprintf("Objective %d", i+1),
			SuccessCriteria: "Measured at the milestone review",
			Status:          s,
			OrderIndex:      i,
		})
	}
	return out
}

func checkIn(days int, status CheckInStatus) CheckIn {
	return CheckIn{
		ID:            fmt.Sprintf("ci-%d", days),
		PIPID:         "pip-1",
		CheckInDate:   onDay(days),
		OverallStatus: status,
	}
}

func hasRule(alerts []Alert, rule string) (Alert, bool) {
	for _, a := range alerts {
		if a.Rule == rule {
			return a, true
		}
	}
	return Alert{}, false
}
