package mood

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultConfidence is the confidence given to the neutral fallback when no
// classifier signal is available.
const DefaultConfidence = 0.5

// RawScore is one label/score pair as emitted by a classifier.
type RawScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RawClassification is the full score distribution for one text input, in
// the order the classifier produced it.
type RawClassification []RawScore

// Scored is a canonical mood with its confidence.
type Scored struct {
	Mood       Mood    `json:"mood"`
	Confidence float64 `json:"confidence"`
}

// Resolution is the outcome of resolving one classification.
//
// Confidence is the unrounded winning score; it is what gets persisted and
// used as an aggregation weight. AllScores carries 2-decimal rounded scores
// for display only.
type Resolution struct {
	Mood       Mood     `json:"mood"`
	Confidence float64  `json:"confidence"`
	AllScores  []Scored `json:"allScores"`
}

// DisplayConfidence returns the confidence rounded to 2 decimals.
func (r Resolution) DisplayConfidence() float64 {
	return Round2(r.Confidence)
}

// Default returns the neutral resolution used when there is no signal.
func Default() Resolution {
	return Resolution{Mood: Neutral, Confidence: DefaultConfidence, AllScores: []Scored{}}
}

// Resolve picks the winning mood using the built-in label table.
func Resolve(raw RawClassification) Resolution {
	return (*Normalizer)(nil).Resolve(raw)
}

// Resolve normalizes every label, sorts by score descending (ties keep input
// order) and takes the top entry as the winner.
func (n *Normalizer) Resolve(raw RawClassification) Resolution {
	if len(raw) == 0 {
		return Default()
	}

	scored := make([]Scored, len(raw))
	for i, s := range raw {
		scored[i] = Scored{Mood: n.Normalize(s.Label), Confidence: s.Score}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Confidence > scored[j].Confidence
	})

	res := Resolution{
		Mood:       scored[0].Mood,
		Confidence: scored[0].Confidence,
		AllScores:  make([]Scored, len(scored)),
	}
	for i, s := range scored {
		res.AllScores[i] = Scored{Mood: s.Mood, Confidence: Round2(s.Confidence)}
	}
	return res
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ErrFormat is matched by every FormatError.
var ErrFormat = errors.New("classification format error")

// FormatError reports a classifier payload that does not have the expected
// score-list shape.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("classification format error: %s", e.Reason)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// DecodeRaw decodes a classifier payload. Both the nested shape returned by
// inference endpoints ([[{label,score},...]]) and a flat list are accepted.
func DecodeRaw(data []byte) (RawClassification, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, &FormatError{Reason: "expected a JSON array"}
	}

	var nested []RawClassification
	if err := json.Unmarshal(data, &nested); err == nil {
		if len(nested) == 0 {
			return RawClassification{}, nil
		}
		return validate(nested[0])
	}

	var flat RawClassification
	if err := json.Unmarshal(data, &flat); err != nil {
		return nil, &FormatError{Reason: err.Error()}
	}
	return validate(flat)
}

func validate(raw RawClassification) (RawClassification, error) {
	for i, s := range raw {
		if s.Label == "" {
			return nil, &FormatError{Reason: fmt.Sprintf("item %d: missing label", i)}
		}
		if math.IsNaN(s.Score) || s.Score < 0 || s.Score > 1 {
			return nil, &FormatError{Reason: fmt.Sprintf("item %d: score %v out of range", i, s.Score)}
		}
	}
	return raw, nil
}
