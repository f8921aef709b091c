package lexicon

type Rating string

const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

// Valid reports whether r is one of the three ordinal ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingLow, RatingMedium, RatingHigh:
		return true
	}
	return false
}

type WeightedPhrase struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Weight int    `yaml:"weight" json:"weight"`
}

// Lexicon classifies one ordinal dimension. Medium phrases are hedging
// language and also count against the high bucket.
type Lexicon struct {
	High   []WeightedPhrase `yaml:"high" json:"high"`
	Medium []WeightedPhrase `yaml:"medium" json:"medium"`
	Low    []WeightedPhrase `yaml:"low" json:"low"`
}

// Set holds the lexicons used for a review: one per dimension.
type Set struct {
	Performance Lexicon `yaml:"performance" json:"performance"`
	Potential   Lexicon `yaml:"potential" json:"potential"`
}

type Scores struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type Result struct {
	Rating     Rating `json:"rating"`
	Confidence int    `json:"confidence"`
	Scores     Scores `json:"scores"`
}
