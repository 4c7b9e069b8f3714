package aggregate

import (
	"time"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

// WeekStart is the first day of a calendar week.
const WeekStart = time.Sunday

// Statistics summarizes a user's journal.
type Statistics struct {
	TotalEntries     int       `json:"totalEntries"`
	ThisWeekEntries  int       `json:"thisWeekEntries"`
	MostFrequentMood mood.Mood `json:"mostFrequentMood"`
	Streak           int       `json:"streak"`
}

// ComputeStatistics summarizes entries relative to now. Calendar days and the
// current week are taken in now's location.
//
// The streak counts consecutive days with at least one entry, walking back
// from now's date. A day without entries ends the walk, so the streak is 0
// until something is written today.
func ComputeStatistics(entries []domain.Entry, now time.Time) Statistics {
	loc := now.Location()
	today := midnight(now)
	weekFirst := today.AddDate(0, 0, -int((7+today.Weekday()-WeekStart)%7))
	weekFrom, weekTo := DayOf(weekFirst, loc), DayOf(weekFirst.AddDate(0, 0, 6), loc)

	sorted := chronological(entries)
	moods := make([]mood.Mood, len(sorted))
	days := make(map[Day]bool, len(sorted))
	stats := Statistics{TotalEntries: len(sorted)}

	for i, e := range sorted {
		moods[i] = mood.Normalize(string(e.Mood))
		d := DayOf(e.CreatedAt, loc)
		days[d] = true
		if d >= weekFrom && d <= weekTo {
			stats.ThisWeekEntries++
		}
	}

	stats.MostFrequentMood = mostFrequent(moods)
	for day := today; days[DayOf(day, loc)]; day = day.AddDate(0, 0, -1) {
		stats.Streak++
	}
	return stats
}
