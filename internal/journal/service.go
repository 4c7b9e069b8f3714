// Package journal ties the classifier and entry store collaborators to the
// mood taxonomy and the aggregators.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pbaille/moodlog/internal/aggregate"
	"github.com/pbaille/moodlog/internal/classifier"
	"github.com/pbaille/moodlog/internal/clock"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

// ErrEmptyText is returned when an entry would be saved without content.
var ErrEmptyText = errors.New("entry text is required")

// Warnings surfaced to the UI when classification degrades to neutral.
const (
	WarnUnavailable = "classification unavailable"
	WarnFormat      = "classification format error"
)

// Store is the entry store collaborator. Every call is scoped to one user.
type Store interface {
	AddEntry(ctx context.Context, userID, text string, m mood.Mood, confidence float64) (*domain.Entry, error)
	GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error)
	ListEntries(ctx context.Context, userID string, f domain.EntryFilter) ([]domain.Entry, error)
	UpdateText(ctx context.Context, userID, id, text string) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, userID, id string) error
}

// Analysis is the classification outcome for one text.
type Analysis struct {
	mood.Resolution
	Warning string `json:"warning,omitempty"`
}

// Created is the result of Create.
type Created struct {
	Entry    *domain.Entry `json:"entry"`
	Analysis Analysis      `json:"analysis"`
}

// Dashboard bundles every aggregate for one user.
type Dashboard struct {
	Trend        []aggregate.DailyPoint      `json:"trend"`
	Distribution []aggregate.MoodCount       `json:"distribution"`
	Calendar     map[aggregate.Day]mood.Mood `json:"calendar"`
	Statistics   aggregate.Statistics        `json:"statistics"`
}

// Service is the journaling flow.
type Service struct {
	store      Store
	classifier classifier.Classifier
	normalizer *mood.Normalizer
	clock      clock.Clock
	log        zerolog.Logger
}

// NewService creates a Service. A nil normalizer uses the built-in label
// table; a nil clock uses the system clock.
func NewService(s Store, c classifier.Classifier, n *mood.Normalizer, clk clock.Clock, log zerolog.Logger) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{store: s, classifier: c, normalizer: n, clock: clk, log: log}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.clock.Now() }

// Location is the timezone used for calendar days.
func (s *Service) Location() *time.Location { return s.clock.Now().Location() }

// Analyze classifies text without persisting anything. Classification
// problems never fail: they degrade to the neutral default with a warning.
func (s *Service) Analyze(ctx context.Context, text string) Analysis {
	if strings.TrimSpace(text) == "" {
		return Analysis{Resolution: mood.Default()}
	}

	raw, err := s.classifier.Classify(ctx, text)
	if err != nil {
		warning := WarnUnavailable
		if errors.Is(err, mood.ErrFormat) {
			warning = WarnFormat
		}
		s.log.Warn().Err(err).Str("warning", warning).Msg("classification fell back to neutral")
		return Analysis{Resolution: mood.Default(), Warning: warning}
	}

	return Analysis{Resolution: s.normalizer.Resolve(raw)}
}

// Create classifies text and stores it as a new entry.
func (s *Service) Create(ctx context.Context, userID, text string) (*Created, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	analysis := s.Analyze(ctx, text)
	entry, err := s.store.AddEntry(ctx, userID, text, analysis.Mood, analysis.Confidence)
	if err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	s.log.Info().
		Str("user_id", userID).
		Str("entry_id", entry.ID).
		Str("mood", string(entry.Mood)).
		Float64("confidence", entry.Confidence).
		Msg("entry created")

	return &Created{Entry: entry, Analysis: analysis}, nil
}

// Get returns one entry.
func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Entry, error) {
	return s.store.GetEntry(ctx, userID, id)
}

// List returns entries matching f.
func (s *Service) List(ctx context.Context, userID string, f domain.EntryFilter) ([]domain.Entry, error) {
	return s.store.ListEntries(ctx, userID, f)
}

// Search returns entries whose text contains query, newest first.
func (s *Service) Search(ctx context.Context, userID, query string) ([]domain.Entry, error) {
	return s.store.ListEntries(ctx, userID, domain.EntryFilter{Query: query, Newest: true})
}

// Update replaces an entry's text. The entry keeps the mood it was created
// with.
func (s *Service) Update(ctx context.Context, userID, id, text string) (*domain.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return s.store.UpdateText(ctx, userID, id, text)
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteEntry(ctx, userID, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Str("entry_id", id).Msg("entry deleted")
	return nil
}

// EntriesOn returns the entries written on day, newest first.
func (s *Service) EntriesOn(ctx context.Context, userID string, day aggregate.Day) ([]domain.Entry, error) {
	start := day.Start(s.Location())
	return s.store.ListEntries(ctx, userID, domain.EntryFilter{
		From:   start,
		To:     start.AddDate(0, 0, 1),
		Newest: true,
	})
}

// Trend returns the daily valence series for the last windowDays days.
func (s *Service) Trend(ctx context.Context, userID string, windowDays int) ([]aggregate.DailyPoint, error) {
	now := s.Now()
	first := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(windowDays - 1))
	entries, err := s.store.ListEntries(ctx, userID, domain.EntryFilter{From: first})
	if err != nil {
		return nil, err
	}
	return aggregate.Trend(entries, windowDays, now), nil
}

// Distribution counts moods over entries matching f.
func (s *Service) Distribution(ctx context.Context, userID string, f domain.EntryFilter) ([]aggregate.MoodCount, error) {
	entries, err := s.store.ListEntries(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	return aggregate.Distribution(entries), nil
}

// Calendar returns the predominant mood of every day with entries.
func (s *Service) Calendar(ctx context.Context, userID string) (map[aggregate.Day]mood.Mood, error) {
	entries, err := s.store.ListEntries(ctx, userID, domain.EntryFilter{})
	if err != nil {
		return nil, err
	}
	return aggregate.PredominantMoodByDay(entries, s.Location()), nil
}

// Statistics summarizes the user's whole journal.
func (s *Service) Statistics(ctx context.Context, userID string) (aggregate.Statistics, error) {
	entries, err := s.store.ListEntries(ctx, userID, domain.EntryFilter{})
	if err != nil {
		return aggregate.Statistics{}, err
	}
	return aggregate.ComputeStatistics(entries, s.Now()), nil
}

// Dashboard computes every aggregate from a single fetch of the journal.
func (s *Service) Dashboard(ctx context.Context, userID string, windowDays int) (*Dashboard, error) {
	entries, err := s.store.ListEntries(ctx, userID, domain.EntryFilter{})
	if err != nil {
		return nil, err
	}
	now := s.Now()
	return &Dashboard{
		Trend:        aggregate.Trend(entries, windowDays, now),
		Distribution: aggregate.Distribution(entries),
		Calendar:     aggregate.PredominantMoodByDay(entries, now.Location()),
		Statistics:   aggregate.ComputeStatistics(entries, now),
	}, nil
}
