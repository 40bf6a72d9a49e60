// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a local SQLite ledger of upload attempts so users
// can see which documents were confirmed, rejected, or failed in transit.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/glooble/internal/upload"
)

const defaultListLimit = 20

// timeFormat is fixed-width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// OutcomeSucceeded is stored for confirmed uploads; failures store their kind.
const OutcomeSucceeded = "succeeded"

// Entry is one recorded upload attempt.
type Entry struct {
	ID        string    `json:"id" yaml:"id"`
	URL       string    `json:"url" yaml:"url"`
	Title     string    `json:"title" yaml:"title"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
	Outcome   string    `json:"outcome" yaml:"outcome"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Journal manages the upload ledger database.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal at path, creating parent directories
// and the schema as needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS uploads (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			url TEXT NOT NULL,
			title TEXT,
			source TEXT,
			outcome TEXT NOT NULL,
			reason TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := j.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores an upload outcome. It implements upload.Recorder.
func (j *Journal) Record(ctx context.Context, o upload.Outcome, at time.Time) error {
	outcome := OutcomeSucceeded
	if !o.Succeeded {
		outcome = string(o.Kind)
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO uploads (id, url, title, source, outcome, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), o.Article.URL, o.Article.Title, o.Source,
		outcome, o.Reason, at.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("recording upload of %s: %w", o.Article.URL, err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// uses the default of 20.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, url, title, source, outcome, reason, created_at
		 FROM uploads ORDER BY created_at DESC, seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var title, source, reason sql.NullString
		var created string
		if err := rows.Scan(&e.ID, &e.URL, &title, &source, &e.Outcome, &reason, &created); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		e.Title, e.Source, e.Reason = title.String, source.String, reason.String
		if e.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("parsing created_at %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
