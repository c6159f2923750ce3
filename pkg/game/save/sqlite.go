package save

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps progress in a single-row table and appends every
// finished night to a results table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			max_night INTEGER NOT NULL DEFAULT 1,
			difficulty REAL NOT NULL,
			seconds_per_hour REAL NOT NULL,
			last_updated DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS high_scores (
			night INTEGER PRIMARY KEY,
			score INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS night_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			night INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			killer TEXT NOT NULL DEFAULT '',
			finished_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_night_results_run_id ON night_results(run_id);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Load reads progress. An empty database yields the defaults.
func (s *SQLiteStore) Load(ctx context.Context) (Progress, error) {
	if s.db == nil {
		return NewDefault(), ErrClosed
	}

	p := NewDefault()
	row := s.db.QueryRowContext(ctx,
		`SELECT max_night, difficulty, seconds_per_hour FROM progress WHERE id = 1`)
	if err := row.Scan(&p.MaxNight, &p.Difficulty, &p.SecondsPerHour); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return NewDefault(), fmt.Errorf("failed to load progress: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT night, score FROM high_scores`)
	if err != nil {
		return NewDefault(), fmt.Errorf("failed to load high scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var night, score int
		if err := rows.Scan(&night, &score); err != nil {
			return NewDefault(), err
		}
		p.HighScores[night] = score
	}
	if err := rows.Err(); err != nil {
		return NewDefault(), err
	}
	return p.Normalize(), nil
}

// Save replaces the stored progress in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, p Progress) error {
	if s.db == nil {
		return ErrClosed
	}
	p = p.Normalize()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO progress (id, max_night, difficulty, seconds_per_hour, last_updated)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			max_night = excluded.max_night,
			difficulty = excluded.difficulty,
			seconds_per_hour = excluded.seconds_per_hour,
			last_updated = excluded.last_updated
	`, p.MaxNight, p.Difficulty, p.SecondsPerHour, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}

	for night, score := range p.HighScores {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO high_scores (night, score) VALUES (?, ?)
			ON CONFLICT(night) DO UPDATE SET score = excluded.score
		`, night, score)
		if err != nil {
			return fmt.Errorf("failed to save high score: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit save: %w", err)
	}
	return nil
}

// RecordResult appends a finished night.
func (s *SQLiteStore) RecordResult(ctx context.Context, r Result) error {
	if s.db == nil {
		return ErrClosed
	}
	if r.Finished.IsZero() {
		r.Finished = time.Now().UTC()
	}

	query := `
		INSERT INTO night_results (run_id, night, outcome, score, killer, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query, r.RunID, r.Night, string(r.Outcome), r.Score, r.Killer, r.Finished)
	if err != nil {
		return fmt.Errorf("failed to record night result: %w", err)
	}
	return nil
}

// Results returns the recorded nights of a run, oldest first.
func (s *SQLiteStore) Results(ctx context.Context, runID string) ([]Result, error) {
	if s.db == nil {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, night, outcome, score, killer, finished_at
		FROM night_results WHERE run_id = ? ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var outcome string
		if err := rows.Scan(&r.RunID, &r.Night, &outcome, &r.Score, &r.Killer, &r.Finished); err != nil {
			return nil, err
		}
		r.Outcome = Outcome(outcome)
		results = append(results, r)
	}
	return results, rows.Err()
}
