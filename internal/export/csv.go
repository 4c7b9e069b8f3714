// Package export writes journal entries in download formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/pbaille/moodlog/internal/domain"
)

// DateLayout is the timestamp format of the Date column.
const DateLayout = "Jan 02, 2006 15:04"

// Header is the first CSV record.
var Header = []string{"Date", "Mood", "Confidence", "Text"}

// Filename returns the suggested download name for an export made at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("journal_entries_%s.csv", t.Format("2006-01-02"))
}

// WriteCSV writes entries to w with timestamps shown in loc.
func WriteCSV(w io.Writer, entries []domain.Entry, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write(record(e, loc)); err != nil {
			return fmt.Errorf("write entry %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(e domain.Entry, loc *time.Location) []string {
	text := e.Text
	if text == "" {
		text = "No text"
	}
	return []string{
		e.CreatedAt.In(loc).Format(DateLayout),
		capitalize(string(e.Mood)),
		fmt.Sprintf("%d%%", int(math.Round(e.Confidence*100))),
		text,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
