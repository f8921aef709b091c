package pip

import "time"

type checkInTally struct {
	OnTrack  int `json:"onTrack"`
	AtRisk   int `json:"atRisk"`
	OffTrack int `json:"offTrack"`
}

// RecentCheckIns returns check-ins dated within the trailing 14 days,
// newest first.
func RecentCheckIns(checkIns []CheckIn, asOf time.Time) []CheckIn {
	cutoff := asOf.Add(-RecentWindowDays * day)
	var out []CheckIn
	for _, ci := range checkIns {
		if ci.CheckInDate.After(cutoff) && !ci.CheckInDate.After(asOf) {
			out = append(out, ci)
		}
	}
	sortCheckInsDesc(out)
	return out
}

func tally(checkIns []CheckIn) checkInTally {
	var t checkInTally
	for _, ci := range checkIns {
		switch ci.OverallStatus {
		case CheckInOnTrack:
			t.OnTrack++
		case CheckInAtRisk:
			t.AtRisk++
		case CheckInOffTrack:
			t.OffTrack++
		}
	}
	return t
}

// ClassifyTrajectory applies the rules in order; the first match wins.
// completionRate is a fraction in [0, 1].
func ClassifyTrajectory(completionRate float64, recent []CheckIn) Trajectory {
	t := tally(recent)
	switch {
	case completionRate >= 0.70 && t.OnTrack > t.OffTrack:
		return TrajectoryOnTrack
	case completionRate >= 0.40 && t.AtRisk > 0:
		return TrajectoryAtRisk
	case completionRate < 0.40 || t.OffTrack > t.OnTrack:
		return TrajectoryFailing
	default:
		return TrajectoryUncertain
	}
}
