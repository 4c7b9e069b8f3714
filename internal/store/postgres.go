package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/mood"
)

//go:embed schema_postgres.sql
var postgresSchema string

// Postgres stores entries in a hosted PostgreSQL database.
type Postgres struct{ db *sql.DB }

// OpenPostgres connects to url and ensures the schema exists.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Close closes the connection pool
func (p *Postgres) Close() error { return p.db.Close() }

// Ping checks the database connection
func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// AddEntry stores a classified entry; timestamps come from the database
func (p *Postgres) AddEntry(ctx context.Context, userID, text string, m mood.Mood, confidence float64) (*domain.Entry, error) {
	e := &domain.Entry{
		ID:         uuid.New().String(),
		UserID:     userID,
		Text:       text,
		Mood:       m,
		Confidence: confidence,
	}
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO entries (id, user_id, text, mood, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, e.ID, userID, text, string(m), confidence).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return e, nil
}

// GetEntry retrieves one of the user's entries by ID. Malformed ids are
// reported as ErrNotFound.
func (p *Postgres) GetEntry(ctx context.Context, userID, id string) (*domain.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := p.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	e, err := scanPostgres(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// ListEntries returns the user's entries matching f
func (p *Postgres) ListEntries(ctx context.Context, userID string, f domain.EntryFilter) ([]domain.Entry, error) {
	query, args := postgresDialect.listQuery(userID, f)
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanPostgres(rows)
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
func (p *Postgres) UpdateText(ctx context.Context, userID, id, text string) (*domain.Entry, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	row := p.db.QueryRowContext(ctx, `
		UPDATE entries SET text = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING `+entryColumns,
		text, id, userID,
	)
	e, err := scanPostgres(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	return e, nil
}

// DeleteEntry removes one of the user's entries
func (p *Postgres) DeleteEntry(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	res, err := p.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPostgres(row scanner) (*domain.Entry, error) {
	var (
		e       domain.Entry
		rawMood string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.Text, &rawMood, &e.Confidence, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Mood = mood.Normalize(rawMood)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}
