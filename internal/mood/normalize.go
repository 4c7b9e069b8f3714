package mood

import (
	"fmt"
	"sort"
	"strings"
)

// synonyms maps lowercased raw labels to canonical moods. Classifier
// vocabulary coupling lives here and nowhere else.
var synonyms = map[string]Mood{
	// positional codes of the 3-way sentiment model
	"label_0": Negative,
	"label_1": Neutral,
	"label_2": Positive,

	// emotion model
	"sadness":  Sad,
	"anger":    Angry,
	"fear":     Fear,
	"disgust":  Disgust,
	"joy":      Joy,
	"surprise": Surprise,
	"neutral":  Neutral,

	// labels persisted by earlier versions of the app
	"happy":    Joy,
	"anxious":  Fear,
	"excited":  Surprise,
	"grateful": Positive,
}

func init() {
	for _, m := range All {
		synonyms[string(m)] = m
	}
}

// Normalizer maps raw labels to canonical moods using the built-in table plus
// optional extra synonyms.
type Normalizer struct {
	extra map[string]Mood
}

// NewNormalizer builds a Normalizer with additional raw->canonical entries.
// Extra entries take precedence over the built-in table.
func NewNormalizer(extra map[string]string) (*Normalizer, error) {
	n := &Normalizer{extra: make(map[string]Mood, len(extra))}
	for raw, target := range extra {
		m := Mood(strings.ToLower(strings.TrimSpace(target)))
		if !m.IsCanonical() {
			return nil, fmt.Errorf("label %q: %q is not a canonical mood", raw, target)
		}
		n.extra[key(raw)] = m
	}
	return n, nil
}

// Normalize maps a raw label to a canonical mood, returning Unknown when the
// label is not in any table.
func (n *Normalizer) Normalize(raw string) Mood {
	k := key(raw)
	if n != nil {
		if m, ok := n.extra[k]; ok {
			return m
		}
	}
	if m, ok := synonyms[k]; ok {
		return m
	}
	return Unknown
}

// Normalize maps a raw label using the built-in table only.
func Normalize(raw string) Mood {
	return (*Normalizer)(nil).Normalize(raw)
}

func key(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Spellings returns every lowercased label of the built-in table that
// normalizes to m, sorted. Stores use it to match legacy rows by mood.
func Spellings(m Mood) []string {
	out := []string{}
	for raw, target := range synonyms {
		if target == m {
			out = append(out, raw)
		}
	}
	sort.Strings(out)
	return out
}

// KnownSpellings returns every lowercased label of the built-in table that
// normalizes to something other than Unknown, sorted. Any other stored label
// reads back as Unknown.
func KnownSpellings() []string {
	out := []string{}
	for raw, target := range synonyms {
		if target != Unknown {
			out = append(out, raw)
		}
	}
	sort.Strings(out)
	return out
}
