// Package audit keeps a local SQLite record of operator mutations and of the
// visibility queries entered in the workflow list.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

// Entry is one recorded mutation.
type Entry struct {
	ID         int64
	Time       time.Time
	Profile    string
	Namespace  string
	Action     string
	WorkflowID string
	RunID      string
	Detail     string
	Error      string
}

// Store wraps the audit database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the audit database location under the XDG data dir.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, "tuiporal", "audit.db")
}

const schema = `
CREATE TABLE IF NOT EXISTS mutations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	profile TEXT,
	namespace TEXT,
	action TEXT NOT NULL,
	workflow_id TEXT NOT NULL,
	run_id TEXT,
	detail TEXT,
	error TEXT
);
CREATE TABLE IF NOT EXISTS queries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL,
	namespace TEXT NOT NULL,
	query TEXT NOT NULL
);`

// Open opens (creating when needed) the database at path. An empty path uses
// DefaultPath.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping audit db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordMutation appends a mutation entry.
func (s *Store) RecordMutation(ctx context.Context, e Entry) error {
	if s == nil || s.db == nil {
		return nil
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mutations (timestamp, profile, namespace, action, workflow_id, run_id, detail, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Time.UTC(), e.Profile, e.Namespace, e.Action, e.WorkflowID, e.RunID, e.Detail, e.Error)
	return err
}

// RecentMutations returns up to limit entries, newest first.
func (s *Store) RecentMutations(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, timestamp, profile, namespace, action, workflow_id, run_id, detail, error FROM mutations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var profile, namespace, runID, detail, errText sql.NullString
		if err := rows.Scan(&e.ID, &e.Time, &profile, &namespace, &e.Action, &e.WorkflowID, &runID, &detail, &errText); err != nil {
			return nil, err
		}
		e.Profile = profile.String
		e.Namespace = namespace.String
		e.RunID = runID.String
		e.Detail = detail.String
		e.Error = errText.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecordQuery stores a query for namespace unless it repeats the most recent
// one.
func (s *Store) RecordQuery(ctx context.Context, namespace, query string) error {
	if s == nil || s.db == nil {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	var last string
	err := s.db.QueryRowContext(ctx,
		`SELECT query FROM queries WHERE namespace = ? ORDER BY id DESC LIMIT 1`, namespace).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if last == query {
		return nil
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO queries (timestamp, namespace, query) VALUES (?, ?, ?)`, time.Now().UTC(), namespace, query)
	return err
}

// RecentQueries returns distinct queries for namespace, newest first.
func (s *Store) RecentQueries(ctx context.Context, namespace string, limit int) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT query FROM queries WHERE namespace = ? GROUP BY query ORDER BY MAX(id) DESC LIMIT ?`, namespace, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
