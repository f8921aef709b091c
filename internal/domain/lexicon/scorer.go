package lexicon

import "strings"

const (
	baseConfidence = 60
	confidenceStep = 5
	maxConfidence  = 95
	tieConfidence  = 70
)

// Score classifies text against lx. Every configured phrase found as a
// substring of the lower-cased text contributes its weight, so nested
// phrases count independently. Without a unique maximum the result is
// medium with tie confidence.
func Score(text string, lx Lexicon) Result {
	lower := strings.ToLower(text)

	var scores Scores
	for _, p := range lx.High {
		if matches(lower, p) {
			scores.High += p.Weight
		}
	}
	for _, p := range lx.Medium {
		if matches(lower, p) {
			scores.Medium += p.Weight
			scores.High -= p.Weight
		}
	}
	for _, p := range lx.Low {
		if matches(lower, p) {
			scores.Low += p.Weight
		}
	}

	rating, winning, ok := pickWinner(scores)
	if !ok {
		return Result{Rating: RatingMedium, Confidence: tieConfidence, Scores: scores}
	}
	return Result{Rating: rating, Confidence: confidenceFor(winning), Scores: scores}
}

func matches(lower string, p WeightedPhrase) bool {
	return p.Phrase != "" && strings.Contains(lower, p.Phrase)
}

func pickWinner(s Scores) (Rating, int, bool) {
	switch {
	case s.High > s.Medium && s.High > s.Low:
		return RatingHigh, s.High, true
	case s.Low > s.High && s.Low > s.Medium:
		return RatingLow, s.Low, true
	case s.Medium > s.High && s.Medium > s.Low:
		return RatingMedium, s.Medium, true
	default:
		return "", 0, false
	}
}

func confidenceFor(winning int) int {
	return min(maxConfidence, baseConfidence+winning*confidenceStep)
}
