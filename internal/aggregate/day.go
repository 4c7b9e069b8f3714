// Package aggregate rolls a user's journal entries up into trend, distribution,
// calendar and summary statistics.
//
// Every function here is a pure computation over an already-fetched entry
// slice plus an explicit reference time. None of them read the wall clock,
// keep state between calls, or modify their input.
package aggregate

import (
	"sort"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
)

// DayLayout is the textual form of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar date formatted as YYYY-MM-DD. Days sort lexically in
// chronological order.
type Day string

// DayOf returns the calendar day t falls on in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	return Day(t.In(loc).Format(DayLayout))
}

// ParseDay parses a YYYY-MM-DD string into a Day.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(DayLayout, s); err != nil {
		return "", err
	}
	return Day(s), nil
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(DayLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// midnight returns the start of t's calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// chronological returns a copy of entries sorted ascending by CreatedAt.
// Entries with equal timestamps keep their input order.
func chronological(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
