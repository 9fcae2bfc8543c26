// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records digest runs in a local SQLite database: one row
// per run with its target date, keywords, result counts, and delivery
// status. It stores run summaries only; papers themselves are never
// persisted.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-digest/pkg/types"
)

const defaultDBPath = "digest-history.db"

// Run statuses.
const (
	StatusFetched = "fetched"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Run is one recorded digest run.
type Run struct {
	ID         int64
	Date       string
	Keywords   []string
	Papers     int
	Recipients int
	Status     string
	CreatedAt  time.Time
}

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database and its schema.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultDBPath
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	const stmt = `CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		keywords TEXT NOT NULL,
		papers INTEGER NOT NULL,
		recipients INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts one run and returns its row ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	keywords, err := json.Marshal(run.Keywords)
	if err != nil {
		return 0, fmt.Errorf("encoding keywords: %w", err)
	}
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (date, keywords, papers, recipients, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Date, string(keywords), run.Papers, run.Recipients, run.Status,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. A limit of zero returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	q := `SELECT id, date, keywords, papers, recipients, status, created_at
	      FROM runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var keywords, createdAt string
		if err := rows.Scan(&r.ID, &r.Date, &keywords, &r.Papers, &r.Recipients, &r.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := json.Unmarshal([]byte(keywords), &r.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords for run %d: %w", r.ID, err)
		}
		if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// FormatRuns writes runs as a human-readable table to w.
func FormatRuns(runs []Run, w io.Writer) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-40s  %-6s  %-10s  %s\n",
		"ID", "Date", "Keywords", "Papers", "Recipients", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, r := range runs {
		keywords := strings.Join(r.Keywords, ", ")
		if len(keywords) > 40 {
			keywords = keywords[:37] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-10s  %-40s  %-6d  %-10d  %s\n",
			r.ID, r.Date, keywords, r.Papers, r.Recipients, r.Status)
	}
}
