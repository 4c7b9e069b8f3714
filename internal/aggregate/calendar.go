package aggregate

import (
	"time"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

// PredominantMoodByDay returns the most frequent mood of each day that has
// entries, with days taken in loc. On a tie the mood that appeared first
// that day wins.
func PredominantMoodByDay(entries []domain.Entry, loc *time.Location) map[Day]mood.Mood {
	byDay := make(map[Day][]mood.Mood)
	for _, e := range chronological(entries) {
		d := DayOf(e.CreatedAt, loc)
		byDay[d] = append(byDay[d], mood.Normalize(string(e.Mood)))
	}

	out := make(map[Day]mood.Mood, len(byDay))
	for d, moods := range byDay {
		out[d] = mostFrequent(moods)
	}
	return out
}

// mostFrequent returns the mood with the highest count; ties go to the one
// seen first in moods. Empty input yields Neutral.
func mostFrequent(moods []mood.Mood) mood.Mood {
	counts := make(map[mood.Mood]int)
	best, bestCount := mood.Neutral, 0
	for _, m := range moods {
		counts[m]++
	}
	// second pass in input order so the earliest mood wins ties
	for _, m := range moods {
		if c := counts[m]; c > bestCount {
			best, bestCount = m, c
		}
	}
	return best
}
