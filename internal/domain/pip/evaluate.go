package pip

import "time"

type Assessment struct {
	PIPID           string             `json:"pipId"`
	AsOf            time.Time          `json:"asOf"`
	Day             int                `json:"day"`
	DaysRemaining   int                `json:"daysRemaining"`
	Stage           Stage              `json:"stage"`
	Phase           Phase              `json:"phase"`
	Summary         ExpectationSummary `json:"summary"`
	Cadence         Cadence            `json:"cadence"`
	Trajectory      Trajectory         `json:"trajectory"`
	Alerts          []Alert            `json:"alerts"`
	Recommendations []Recommendation   `json:"recommendations"`
	Documentation   Documentation      `json:"documentation"`
}

type EvaluateOptions struct {
	Alerts AlertOptions
}

func Evaluate(snap Snapshot, asOf time.Time, opts EvaluateOptions) Assessment {
	sig := DeriveSignals(snap, asOf)
	return Assessment{
		PIPID:           snap.PIP.ID,
		AsOf:            asOf,
		Day:             sig.Day,
		DaysRemaining:   sig.DaysRemaining,
		Stage:           sig.Stage,
		Phase:           CurrentPhase(sig.Day),
		Summary:         sig.Summary,
		Cadence:         sig.Cadence,
		Trajectory:      sig.Trajectory,
		Alerts:          EvaluateAlerts(sig, opts.Alerts),
		Recommendations: Recommend(sig, opts.Alerts),
		Documentation:   ScoreDocumentation(snap, asOf),
	}
}
