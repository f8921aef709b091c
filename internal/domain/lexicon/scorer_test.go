package lexicon

import "testing"

func TestScoreHighPhrasesOnly(t *testing.T) {
	set := Default()
	for _, p := range set.Performance.High {
		result := Score("Review notes: "+p.Phrase+".", set.Performance)
		if result.Rating != RatingHigh {
			t.Fatalf("phrase %q: expected high, got %s (%+v)", p.Phrase, result.Rating, result.Scores)
		}
		if result.Confidence < 60 {
			t.Fatalf("phrase %q: expected confidence >= 60, got %d", p.Phrase, result.Confidence)
		}
	}
}

func TestScoreNoMatchesDefaultsToMedium(t *testing.T) {
	set := Default()
	for _, text := range []string{"", "The quarterly report was filed on Tuesday."} {
		result := Score(text, set.Performance)
		if result.Rating != RatingMedium || result.Confidence != 70 {
			t.Fatalf("text %q: expected medium/70, got %s/%d", text, result.Rating, result.Confidence)
		}
	}
}

func TestScoreCountsOverlappingPhrasesIndependently(t *testing.T) {
	lx := Lexicon{High: []WeightedPhrase{
		{Phrase: "exceptional", Weight: 3},
		{Phrase: "exceeds goals", Weight: 2},
		{Phrase: "exceeds", Weight: 1},
	}}
	result := Score("An EXCEPTIONAL quarter; she exceeds goals.", lx)
	if result.Scores.High != 6 {
		t.Fatalf("expected high score 6, got %d", result.Scores.High)
	}
	if result.Confidence != 90 {
		t.Fatalf("expected confidence 90, got %d", result.Confidence)
	}
}

func TestScoreHedgingPullsHighToMedium(t *testing.T) {
	lx := Lexicon{
		High:   []WeightedPhrase{{Phrase: "excellent", Weight: 2}},
		Medium: []WeightedPhrase{{Phrase: "generally", Weight: 1}, {Phrase: "at times", Weight: 1}, {Phrase: "adequate", Weight: 2}},
	}
	result := Score("Excellent at times, generally adequate.", lx)
	if result.Rating != RatingMedium {
		t.Fatalf("expected hedged review to read as medium, got %s (%+v)", result.Rating, result.Scores)
	}
	if result.Scores.High != -2 || result.Scores.Medium != 4 {
		t.Fatalf("unexpected scores: %+v", result.Scores)
	}
}

func TestScoreConfidenceCapped(t *testing.T) {
	lx := Lexicon{Low: []WeightedPhrase{{Phrase: "poor", Weight: 10}}}
	result := Score("poor", lx)
	if result.Rating != RatingLow || result.Confidence != 95 {
		t.Fatalf("expected low/95, got %s/%d", result.Rating, result.Confidence)
	}
}

func TestScoreTieDefaultsToMedium(t *testing.T) {
	lx := Lexicon{
		High: []WeightedPhrase{{Phrase: "outstanding", Weight: 3}},
		Low:  []WeightedPhrase{{Phrase: "missed deadlines", Weight: 3}},
	}
	result := Score("Outstanding ideas but missed deadlines.", lx)
	if result.Rating != RatingMedium || result.Confidence != 70 {
		t.Fatalf("expected tie to resolve medium/70, got %s/%d", result.Rating, result.Confidence)
	}
}
