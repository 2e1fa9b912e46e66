// Package audit keeps an append-only record of every selection decision.
// Rows are written best-effort after a selection completes and are never
// read back by the engine itself.
package audit

// #region imports
import (
	"database/sql"
	"fmt"
	"time"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS selection_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id      TEXT NOT NULL,
	subject_id      TEXT NOT NULL,
	appearance_id   TEXT NOT NULL,
	from_lock       INTEGER NOT NULL,
	past_reference  INTEGER NOT NULL,
	bypass_reason   TEXT,
	classification  TEXT,
	top_scores      TEXT,
	created_at      TEXT NOT NULL
);
`

// #endregion

// #region entry

// Entry is one selection decision row.
type Entry struct {
	RequestID      string
	SubjectID      string
	AppearanceID   string
	FromLock       bool
	PastReference  bool
	BypassReason   string
	Classification string // JSON snapshot of the temporal classification
	TopScores      string // JSON of the leading scored candidates
	CreatedAt      time.Time
}

// #endregion

// #region log

// Log persists selection decisions.
type Log struct {
	db *sql.DB
}

// NewLog creates the selection_log table if needed.
func NewLog(db *sql.DB) (*Log, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("audit: migrate: %w", err)
	}
	return &Log{db: db}, nil
}

// Write appends one entry.
func (l *Log) Write(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := l.db.Exec(
		`INSERT INTO selection_log
		 (request_id, subject_id, appearance_id, from_lock, past_reference,
		  bypass_reason, classification, top_scores, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.SubjectID, e.AppearanceID,
		boolInt(e.FromLock), boolInt(e.PastReference),
		nullIfEmpty(e.BypassReason), nullIfEmpty(e.Classification),
		nullIfEmpty(e.TopScores), e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("audit: write: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (l *Log) Recent(subjectID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.Query(
		`SELECT request_id, subject_id, appearance_id, from_lock, past_reference,
		        COALESCE(bypass_reason, ''), COALESCE(classification, ''),
		        COALESCE(top_scores, ''), created_at
		 FROM selection_log WHERE subject_id = ?
		 ORDER BY id DESC LIMIT ?`,
		subjectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fromLock, pastRef int
		var createdAt string
		if err := rows.Scan(&e.RequestID, &e.SubjectID, &e.AppearanceID,
			&fromLock, &pastRef, &e.BypassReason, &e.Classification,
			&e.TopScores, &createdAt); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		e.FromLock = fromLock == 1
		e.PastReference = pastRef == 1
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion

// #region helpers

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion
