package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/amishk599/draftin/internal/model"

	_ "modernc.org/sqlite"
)

var (
	_ model.KVStore    = (*SQLiteStore)(nil)
	_ model.DraftStore = (*SQLiteStore)(nil)
)

// SQLiteStore persists settings and generated drafts in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the settings and drafts tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS drafts (
			id         TEXT PRIMARY KEY,
			kind       TEXT NOT NULL,
			job_title  TEXT NOT NULL,
			job_url    TEXT NOT NULL,
			prompt     TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value stored under key. ok is false if the key is unset.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	if err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}

// SaveDraft records a generated draft.
func (s *SQLiteStore) SaveDraft(d model.Draft) error {
	_, err := s.db.Exec(
		"INSERT INTO drafts (id, kind, job_title, job_url, prompt, content, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		d.ID, string(d.Kind), d.JobTitle, d.JobURL, d.Prompt, d.Content, d.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving draft %s: %w", d.ID, err)
	}
	return nil
}

// ListDrafts returns up to limit drafts, newest first. limit <= 0 means all.
func (s *SQLiteStore) ListDrafts(limit int) ([]model.Draft, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.Query(
		"SELECT id, kind, job_title, job_url, prompt, content, created_at FROM drafts ORDER BY created_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var drafts []model.Draft
	for rows.Next() {
		var d model.Draft
		var kind string
		if err := rows.Scan(&d.ID, &kind, &d.JobTitle, &d.JobURL, &d.Prompt, &d.Content, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning draft: %w", err)
		}
		d.Kind = model.DraftKind(kind)
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	return drafts, nil
}

// Cleanup deletes drafts older than the given duration and returns how many
// were removed.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := s.db.Exec("DELETE FROM drafts WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up drafts older than %v: %w", olderThan, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted drafts: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
