// Package scorestore keeps the result of the most recent quiz in a small
// SQLite file so the menu can show it on the next launch.
package scorestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoScore is returned by Last when nothing usable has been saved.
var ErrNoScore = errors.New("no saved score")

// LastScore is the result of one quiz run.
type LastScore struct {
	Score          int
	TotalQuestions int
	SavedAt        time.Time
}

// Store is a single-row score table.
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS last_score (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	score INTEGER NOT NULL,
	total INTEGER NOT NULL,
	saved_at INTEGER NOT NULL
)`

// Open opens or creates the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open score store: %w", err)
	}
	// single writer; the TUI is the only client
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect score store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create score table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save replaces the stored score. Runs with no questions answered are
// ignored and negative values are clamped to zero.
func (s *Store) Save(ctx context.Context, ls LastScore) error {
	if ls.TotalQuestions <= 0 {
		return nil
	}
	if ls.Score < 0 {
		ls.Score = 0
	}
	if ls.SavedAt.IsZero() {
		ls.SavedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO last_score (id, score, total, saved_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET score = excluded.score, total = excluded.total, saved_at = excluded.saved_at`,
		ls.Score, ls.TotalQuestions, ls.SavedAt.Unix())
	if err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// Last returns the stored score or ErrNoScore.
func (s *Store) Last(ctx context.Context) (LastScore, error) {
	var (
		ls    LastScore
		saved int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT score, total, saved_at FROM last_score WHERE id = 1`).
		Scan(&ls.Score, &ls.TotalQuestions, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return LastScore{}, ErrNoScore
	}
	if err != nil {
		return LastScore{}, fmt.Errorf("load score: %w", err)
	}
	if ls.TotalQuestions <= 0 {
		return LastScore{}, ErrNoScore
	}
	ls.Score = max(ls.Score, 0)
	ls.SavedAt = time.Unix(saved, 0)
	return ls, nil
}

// Clear forgets the stored score.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM last_score`); err != nil {
		return fmt.Errorf("clear score: %w", err)
	}
	return nil
}
