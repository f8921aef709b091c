package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_lexicon.yaml
var defaultDocument []byte

var ErrEmptyLexicon = errors.New("lexicon has no phrases")

// Default returns the built-in lexicon set.
func Default() Set {
	set, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded lexicon invalid: %v", err))
	}
	return set
}

// Load reads a lexicon document from path, or returns the built-in set when
// path is empty.
func Load(path string) (Set, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	set, err := Parse(raw)
	if err != nil {
		return Set{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return set, nil
}

func Parse(raw []byte) (Set, error) {
	var set Set
	if err := yaml.Unmarshal(raw, &set); err != nil {
		return Set{}, err
	}
	set.Performance = set.Performance.normalized()
	set.Potential = set.Potential.normalized()
	if err := set.Validate(); err != nil {
		return Set{}, err
	}
	return set, nil
}

func (s Set) Validate() error {
	if err := s.Performance.Validate(); err != nil {
		return fmt.Errorf("performance: %w", err)
	}
	if err := s.Potential.Validate(); err != nil {
		return fmt.Errorf("potential: %w", err)
	}
	return nil
}

func (lx Lexicon) Validate() error {
	if len(lx.High)+len(lx.Medium)+len(lx.Low) == 0 {
		return ErrEmptyLexicon
	}
	for bucket, phrases := range map[string][]WeightedPhrase{"high": lx.High, "medium": lx.Medium, "low": lx.Low} {
		for _, p := range phrases {
			if p.Phrase == "" {
				return fmt.Errorf("%s: empty phrase", bucket)
			}
			if p.Weight <= 0 {
				return fmt.Errorf("%s: phrase %q must have a positive weight", bucket, p.Phrase)
			}
		}
	}
	return nil
}

func (lx Lexicon) normalized() Lexicon {
	return Lexicon{
		High:   normalizePhrases(lx.High),
		Medium: normalizePhrases(lx.Medium),
		Low:    normalizePhrases(lx.Low),
	}
}

func normalizePhrases(in []WeightedPhrase) []WeightedPhrase {
	if len(in) == 0 {
		return nil
	}
	out := make([]WeightedPhrase, len(in))
	for i, p := range in {
		out[i] = WeightedPhrase{Phrase: strings.ToLower(strings.TrimSpace(p.Phrase)), Weight: p.Weight}
	}
	return out
}
