package aggregate

import (
	"math"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

// MoodCount is one slice of a mood distribution.
type MoodCount struct {
	Mood    mood.Mood `json:"mood"`
	Count   int       `json:"count"`
	Percent float64   `json:"percent"`
}

// Distribution counts entries per mood in order of first occurrence. Moods
// that never occur are left out. Percent is the share of all entries,
// rounded to one decimal.
func Distribution(entries []domain.Entry) []MoodCount {
	out := []MoodCount{}
	index := make(map[mood.Mood]int)
	for _, e := range entries {
		m := mood.Normalize(string(e.Mood))
		i, ok := index[m]
		if !ok {
			i = len(out)
			index[m] = i
			out = append(out, MoodCount{Mood: m})
		}
		out[i].Count++
	}

	total := float64(len(entries))
	for i := range out {
		out[i].Percent = math.Round(float64(out[i].Count)/total*1000) / 10
	}
	return out
}
