// Package store persists a local history of scheduling runs in SQLite,
// letting planning sessions compare makespans across policies over time.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS
// makes it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id              TEXT PRIMARY KEY,
    project         TEXT NOT NULL,
    policy          TEXT NOT NULL,
    tasks           INTEGER NOT NULL,
    resources       INTEGER NOT NULL,
    makespan        INTEGER NOT NULL,
    critical_length INTEGER NOT NULL,
    created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at DESC);
`

// Run is one recorded scheduling run.
type Run struct {
	ID             string
	Project        string
	Policy         string
	Tasks          int
	Resources      int
	Makespan       int
	CriticalLength int
	CreatedAt      time.Time
}

// Store is a run-history database backed by local SQLite in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at dbPath, enables WAL mode
// and busy timeout, and creates the schema if it does not exist. Parent
// directories are created as needed.
func Open(ctx context.Context, dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer;
	// using one connection avoids SQLITE_BUSY contention between pooled
	// connections that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveRun inserts a run record. A run ID is generated when unset, and
// the final ID is returned.
func (s *Store) SaveRun(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO runs (id, project, policy, tasks, resources, makespan, critical_length)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q,
		r.ID, r.Project, r.Policy, r.Tasks, r.Resources, r.Makespan, r.CriticalLength); err != nil {
		return "", fmt.Errorf("store: save run %q: %w", r.ID, err)
	}
	return r.ID, nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns
// all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	q := "SELECT id, project, policy, tasks, resources, makespan, critical_length, created_at FROM runs ORDER BY created_at DESC, id"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ts string
		if err := rows.Scan(&r.ID, &r.Project, &r.Policy, &r.Tasks, &r.Resources,
			&r.Makespan, &r.CriticalLength, &ts); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		createdAt, parseErr := parseTimestamp(ts)
		if parseErr != nil {
			return nil, fmt.Errorf("store: parse run timestamp: %w", parseErr)
		}
		r.CreatedAt = createdAt
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}
	return runs, nil
}

// timestampFormats lists the formats SQLite drivers may produce for
// CURRENT_TIMESTAMP. modernc.org/sqlite typically returns RFC 3339
// (with "T" separator and "Z" suffix), while canonical SQLite returns
// the space-separated DateTime format.
var timestampFormats = []string{
	time.RFC3339,
	time.DateTime,
}

// parseTimestamp attempts to parse a SQLite timestamp string using known formats.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// Prune deletes all but the newest keep runs. Returns the number of
// deleted rows.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	const q = `
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY created_at DESC, id LIMIT ?
		)`
	res, err := s.db.ExecContext(ctx, q, keep)
	if err != nil {
		return 0, fmt.Errorf("store: prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: prune rows affected: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("store: close: %w", err)
	}
	return nil
}
