package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

//go:embed schema.sql
var schema string

// SQLite stores entries in a local SQLite database
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens the database at dbPath and initializes the schema
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AddEntry stores a classified entry and returns it
func (s *SQLite) AddEntry(ctx context.Context, userID, text string, m mood.Mood, confidence float64) (*domain.Entry, error) {
	id := uuid.New().String()
	now := s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO entries (id, user_id, text, mood, confidence, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, userID, text, string(m), confidence, now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	return &domain.Entry{
		ID:         id,
		UserID:     userID,
		Text:       text,
		Mood:       m,
		Confidence: confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// GetEntry retrieves one of the user's entries by ID
func (s *SQLite) GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM entries WHERE id = ? AND user_id = ?",
		id, userID,
	)
	e, err := scanSQLite(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// ListEntries returns the user's entries matching f
func (s *SQLite) ListEntries(ctx context.Context, userID string, f domain.EntryFilter) ([]domain.Entry, error) {
	query, args := sqliteDialect.listQuery(userID, f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanSQLite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// UpdateText replaces an entry's text. The stored mood is left as classified.
func (s *SQLite) UpdateText(ctx context.Context, userID, id, text string) (*domain.Entry, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE entries SET text = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		text, s.now().UTC().UnixNano(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetEntry(ctx, userID, id)
}

// DeleteEntry removes one of the user's entries
func (s *SQLite) DeleteEntry(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE id = ? AND user_id = ?",
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSQLite(row scanner) (*domain.Entry, error) {
	var (
		e                domain.Entry
		rawMood          string
		created, updated int64
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Text, &rawMood, &e.Confidence, &created, &updated); err != nil {
		return nil, err
	}
	e.Mood = mood.Normalize(rawMood)
	e.CreatedAt = time.Unix(0, created).UTC()
	e.UpdatedAt = time.Unix(0, updated).UTC()
	return &e, nil
}
