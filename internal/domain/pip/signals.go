package pip

import (
	"sort"
	"time"
)

const stagnantAfterDays = 14

// Signals are the derived values shared by the alert and recommendation
// rules. Records dated after asOf are ignored.
type Signals struct {
	PIPID         string             `json:"pipId"`
	Status        Status             `json:"status"`
	Day           int                `json:"day"`
	DaysRemaining int                `json:"daysRemaining"`
	Stage         Stage              `json:"stage"`
	Summary       ExpectationSummary `json:"summary"`
	Cadence       Cadence            `json:"cadence"`
	Recent        checkInTally       `json:"recent"`
	Trajectory    Trajectory         `json:"trajectory"`
	Reviewed      map[Phase]bool     `json:"reviewed"`
	Stagnant      int                `json:"stagnant"`
}

func DeriveSignals(snap Snapshot, asOf time.Time) Signals {
	days := DaysElapsed(snap.PIP, asOf)
	checkIns := checkInsAsOf(snap.CheckIns, asOf)
	summary := Summarize(snap.Expectations)
	recent := RecentCheckIns(checkIns, asOf)

	sig := Signals{
		PIPID:         snap.PIP.ID,
		Status:        snap.PIP.Status,
		Day:           days,
		DaysRemaining: DaysRemaining(snap.PIP, asOf),
		Stage:         StageFor(days),
		Summary:       summary,
		Cadence:       AuditCadence(checkIns, days, asOf),
		Recent:        tally(recent),
		Trajectory:    ClassifyTrajectory(summary.Rate(), recent),
		Reviewed:      reviewedMilestones(snap.MilestoneReviews, asOf),
	}
	if days > stagnantAfterDays {
		for _, e := range snap.Expectations {
			if e.Status == ExpectationNotMet && e.ProgressPercentage == 0 {
				sig.Stagnant++
			}
		}
	}
	return sig
}

// MajorityFailing is true once more than half of the expectations are not met
// after the first milestone.
func (s Signals) MajorityFailing() bool {
	return s.Summary.Total > 0 && s.Summary.NotMet*2 > s.Summary.Total && s.Day > 30
}

func checkInsAsOf(checkIns []CheckIn, asOf time.Time) []CheckIn {
	out := make([]CheckIn, 0, len(checkIns))
	for _, ci := range checkIns {
		if !ci.CheckInDate.After(asOf) {
			out = append(out, ci)
		}
	}
	return out
}

// reviewsAsOf keeps undated reviews; they were recorded without a date.
func reviewsAsOf(reviews []MilestoneReview, asOf time.Time) []MilestoneReview {
	out := make([]MilestoneReview, 0, len(reviews))
	for _, r := range reviews {
		if r.ReviewDate.IsZero() || !r.ReviewDate.After(asOf) {
			out = append(out, r)
		}
	}
	return out
}

func reviewedMilestones(reviews []MilestoneReview, asOf time.Time) map[Phase]bool {
	out := make(map[Phase]bool, len(Phases))
	for _, r := range reviewsAsOf(reviews, asOf) {
		out[r.Milestone] = true
	}
	return out
}

func sortCheckInsDesc(checkIns []CheckIn) {
	sort.SliceStable(checkIns, func(i, j int) bool {
		return checkIns[i].CheckInDate.After(checkIns[j].CheckInDate)
	})
}
