package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

const testID = "3f1c2a9e-5b7d-4c1e-9a2b-6d8e0f1a2b3c"

func setupTestDB(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgres(db), mock
}

var entryCols = []string{"id", "user_id", "text", "mood", "confidence", "created_at", "updated_at"}

func TestPostgresAddEntry(t *testing.T) {
	p, mock := setupTestDB(t)
	ts := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO entries").
		WithArgs(sqlmock.AnyArg(), "u1", "good day", "joy", 0.93).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	e, err := p.AddEntry(context.Background(), "u1", "good day", mood.Joy, 0.93)
	require.NoError(t, err)
	assert.Equal(t, mood.Joy, e.Mood)
	assert.Equal(t, ts, e.CreatedAt)
	assert.NotEmpty(t, e.ID)
}

func TestPostgresAddEntryFailure(t *testing.T) {
	p, mock := setupTestDB(t)
	mock.ExpectQuery("INSERT INTO entries").WillReturnError(errors.New("connection reset"))

	_, err := p.AddEntry(context.Background(), "u1", "x", mood.Neutral, 0.5)
	assert.ErrorContains(t, err, "insert entry")
}

func TestPostgresGetEntry(t *testing.T) {
	p, mock := setupTestDB(t)
	ts := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM entries WHERE id = $1 AND user_id = $2")).
		WithArgs(testID, "u1").
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(testID, "u1", "meh", "LABEL_1", 0.55, ts, ts))

	e, err := p.GetEntry(context.Background(), "u1", testID)
	require.NoError(t, err)
	assert.Equal(t, mood.Neutral, e.Mood, "raw labels are normalized on read")
	assert.Equal(t, 0.55, e.Confidence)
}

func TestPostgresGetEntryNotFound(t *testing.T) {
	p, mock := setupTestDB(t)

	mock.ExpectQuery("FROM entries").
		WithArgs(testID, "u2").
		WillReturnError(sql.ErrNoRows)

	_, err := p.GetEntry(context.Background(), "u2", testID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.GetEntry(context.Background(), "u2", "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresListEntries(t *testing.T) {
	p, mock := setupTestDB(t)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	query := "SELECT id, user_id, text, mood, confidence, created_at, updated_at FROM entries " +
		"WHERE user_id = $1 AND created_at >= $2 AND created_at < $3 AND LOWER(TRIM(mood)) IN ($4, $5) AND text ILIKE $6 ESCAPE '\\' " +
		"ORDER BY created_at DESC, id DESC LIMIT $7 OFFSET $8"

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("u1", from, to, "sad", "sadness", "%rain\\_y%", 10, 20).
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(testID, "u1", "rain_y days", "sadness", 0.8, ts, ts))

	entries, err := p.ListEntries(context.Background(), "u1", domain.EntryFilter{
		From:   from,
		To:     to,
		Mood:   mood.Sad,
		Query:  "rain_y",
		Limit:  10,
		Offset: 20,
		Newest: true,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mood.Sad, entries[0].Mood)
}

func TestPostgresListEntriesLegacyMoodAndSort(t *testing.T) {
	p, mock := setupTestDB(t)
	ts := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	query := "SELECT id, user_id, text, mood, confidence, created_at, updated_at FROM entries " +
		"WHERE user_id = $1 AND LOWER(TRIM(mood)) IN ($2, $3) " +
		"ORDER BY confidence DESC, created_at DESC, id DESC"

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("u1", "happy", "joy").
		WillReturnRows(sqlmock.NewRows(entryCols).
			AddRow(testID, "u1", "old entry", "Happy", 0.8, ts, ts))

	entries, err := p.ListEntries(context.Background(), "u1", domain.EntryFilter{
		Mood:   mood.Joy,
		Sort:   domain.SortConfidence,
		Newest: true,
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, mood.Joy, entries[0].Mood)
}

func TestPostgresUpdateText(t *testing.T) {
	p, mock := setupTestDB(t)
	ts := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("UPDATE entries SET text").
		WithArgs("edited", testID, "u1").
		WillReturnRows(sqlmock.NewRows(entryCols).AddRow(testID, "u1", "edited", "fear", 0.7, ts, ts.Add(time.Hour)))

	e, err := p.UpdateText(context.Background(), "u1", testID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", e.Text)
	assert.Equal(t, mood.Fear, e.Mood)

	mock.ExpectQuery("UPDATE entries SET text").
		WithArgs("edited", testID, "u2").
		WillReturnError(sql.ErrNoRows)
	_, err = p.UpdateText(context.Background(), "u2", testID, "edited")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresDeleteEntry(t *testing.T) {
	p, mock := setupTestDB(t)

	mock.ExpectExec("DELETE FROM entries").
		WithArgs(testID, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, p.DeleteEntry(context.Background(), "u1", testID))

	mock.ExpectExec("DELETE FROM entries").
		WithArgs(testID, "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, p.DeleteEntry(context.Background(), "u1", testID), ErrNotFound)
}
