package domain

import (
	"errors"
	"time"

	"github.com/pbaille/moodlog/internal/mood"
)

// Entry is a journal entry with the mood it was classified as at creation
type Entry struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Text       string    `json:"text"`
	Mood       mood.Mood `json:"mood"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntryFilter narrows an entry query. Zero values mean "no constraint".
type EntryFilter struct {
	From   time.Time // inclusive
	To     time.Time // exclusive
	Mood   mood.Mood
	Query  string
	Limit  int
	Offset int
	Sort   SortField
	Newest bool // descending order
}

// SortField is the entry field a listing is ordered by. Ties fall back to
// creation time.
type SortField string

const (
	SortCreatedAt  SortField = "created_at"
	SortMood       SortField = "mood"
	SortText       SortField = "text"
	SortConfidence SortField = "confidence"
)

// ParseSortField validates s. The empty string means creation time.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case "":
		return SortCreatedAt, nil
	case SortCreatedAt, SortMood, SortText, SortConfidence:
		return f, nil
	default:
		return "", errors.New("sort must be one of created_at, mood, text, confidence")
	}
}
