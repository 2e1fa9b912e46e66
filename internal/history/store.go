// Package history stores the recent-usage trail of chosen appearances.
// The engine only ever reads it; recording a use after image generation
// succeeds is the caller's responsibility, which keeps retries from
// double-counting.
package history

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion

// #region types

// UsageEntry records one fulfilled selection.
type UsageEntry struct {
	AppearanceID string
	Timestamp    time.Time
	Scene        string
}

// #endregion

// #region store

// Store persists usage entries in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates the usage_history table if needed and returns a store.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS usage_history (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		subject_id    TEXT NOT NULL,
		appearance_id TEXT NOT NULL,
		scene         TEXT NOT NULL,
		used_at       TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("history: init: %w", err)
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_usage_history_subject
		ON usage_history(subject_id, used_at)`)
	if err != nil {
		return fmt.Errorf("history: index: %w", err)
	}
	return nil
}

// #endregion

// #region record

// Record appends one usage entry. Called by the fulfilment side, never by
// the selection engine.
func (s *Store) Record(subjectID string, entry UsageEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO usage_history (subject_id, appearance_id, scene, used_at)
		 VALUES (?, ?, ?, ?)`,
		subjectID, entry.AppearanceID, entry.Scene,
		entry.Timestamp.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("history: record: %w", err)
	}
	return nil
}

// #endregion

// #region list

// List returns up to limit entries for the subject, most recent last.
func (s *Store) List(subjectID string, limit int) ([]UsageEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT appearance_id, scene, used_at FROM usage_history
		 WHERE subject_id = ?
		 ORDER BY used_at DESC LIMIT ?`,
		subjectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var entries []UsageEntry
	for rows.Next() {
		var e UsageEntry
		var usedAt string
		if err := rows.Scan(&e.AppearanceID, &e.Scene, &usedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Timestamp, _ = time.Parse(time.RFC3339Nano, usedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}

	// Rows came newest first; callers expect most recent last.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// #endregion
