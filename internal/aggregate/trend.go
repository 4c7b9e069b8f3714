package aggregate

import (
	"time"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

// DefaultWindowDays is the trend window used by dashboards.
const DefaultWindowDays = 30

// DailyPoint is one day of a trend series.
type DailyPoint struct {
	Date           Day     `json:"date"`
	AverageValence float64 `json:"averageValence"`
	EntryCount     int     `json:"entryCount"`
}

type dayTotals struct {
	weighted   float64
	confidence float64
	plain      float64
	count      int
}

// Trend returns exactly windowDays points, oldest first, covering the
// calendar days that end on reference's date. Days are computed in
// reference's location.
//
// A day's AverageValence is the confidence-weighted mean valence of its
// entries, or the plain mean when every entry has zero confidence. Days
// without entries sit at the neutral baseline.
func Trend(entries []domain.Entry, windowDays int, reference time.Time) []DailyPoint {
	if windowDays <= 0 {
		return []DailyPoint{}
	}

	loc := reference.Location()
	last := midnight(reference)
	first := last.AddDate(0, 0, -(windowDays - 1))
	firstDay, lastDay := DayOf(first, loc), DayOf(last, loc)

	totals := make(map[Day]*dayTotals)
	for _, e := range entries {
		d := DayOf(e.CreatedAt, loc)
		if d < firstDay || d > lastDay {
			continue
		}
		t := totals[d]
		if t == nil {
			t = &dayTotals{}
			totals[d] = t
		}
		v := mood.Valence(mood.Normalize(string(e.Mood)))
		t.weighted += v * e.Confidence
		t.confidence += e.Confidence
		t.plain += v
		t.count++
	}

	points := make([]DailyPoint, windowDays)
	for i := range points {
		d := DayOf(first.AddDate(0, 0, i), loc)
		p := DailyPoint{Date: d, AverageValence: mood.NeutralValence}
		if t := totals[d]; t != nil {
			p.EntryCount = t.count
			if t.confidence > 0 {
				p.AverageValence = t.weighted / t.confidence
			} else {
				p.AverageValence = t.plain / float64(t.count)
			}
		}
		points[i] = p
	}
	return points
}
