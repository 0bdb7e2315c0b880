// Package storage provides SQLite-based run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one finished play session.
type Run struct {
	ID         int64
	StartedAt  time.Time
	EndedAt    time.Time
	FrameRate  int     // Configured target; 0 means uncapped
	Seed       int64   // Seed actually used for the star field
	Frames     int     // Ticks that rendered
	Skipped    int     // Ticks dropped by a tick error
	AvgFPS     float64 // Mean measured frame rate over rendered frames
	ExitReason string  // "interrupted", "fatal", ...
	LastError  string  // Most recent tick error, empty if none
}

// Duration returns how long the run lasted.
func (r Run) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Stats aggregates the whole history.
type Stats struct {
	Runs        int
	TotalFrames int64
	TotalSkips  int64
	BestAvgFPS  float64
	LastPlayed  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// The path is used as given; callers expand "~" beforehand.
func Open(dbPath string) (*Store, error) {
	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
// Timestamps are stored as Unix milliseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL,
			frame_rate INTEGER NOT NULL DEFAULT 0,
			seed INTEGER NOT NULL DEFAULT 0,
			frames INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			avg_fps REAL NOT NULL DEFAULT 0,
			exit_reason TEXT NOT NULL DEFAULT '',
			last_error TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run Run) (int64, error) {
	var lastError sql.NullString
	if run.LastError != "" {
		lastError = sql.NullString{String: run.LastError, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (started_at, ended_at, frame_rate, seed, frames, skipped, avg_fps, exit_reason, last_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UnixMilli(),
		run.EndedAt.UnixMilli(),
		run.FrameRate,
		run.Seed,
		run.Frames,
		run.Skipped,
		run.AvgFPS,
		run.ExitReason,
		lastError,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, ended_at, frame_rate, seed, frames, skipped,
		        avg_fps, exit_reason, last_error
		 FROM runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, ended int64
		var lastError sql.NullString

		if err := rows.Scan(
			&r.ID,
			&started,
			&ended,
			&r.FrameRate,
			&r.Seed,
			&r.Frames,
			&r.Skipped,
			&r.AvgFPS,
			&r.ExitReason,
			&lastError,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.StartedAt = time.UnixMilli(started)
		r.EndedAt = time.UnixMilli(ended)
		if lastError.Valid {
			r.LastError = lastError.String
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// Stats retrieves aggregated statistics over every recorded run.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var lastPlayed sql.NullInt64

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(frames), 0), COALESCE(SUM(skipped), 0),
		        COALESCE(MAX(avg_fps), 0), MAX(started_at)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.TotalFrames, &stats.TotalSkips, &stats.BestAvgFPS, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	if lastPlayed.Valid {
		stats.LastPlayed = time.UnixMilli(lastPlayed.Int64)
	}
	return stats, nil
}

// ClearRuns deletes the whole history.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}
