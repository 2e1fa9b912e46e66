// Package lockstore keeps the per-subject consistency lock in SQLite.
// Writes are atomic per subject: a single-row active pointer is upserted
// inside the same transaction that records the new lock, so concurrent
// writers supersede rather than duplicate.
package lockstore

// #region imports
import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/lumabot/selfie-engine/internal/catalog"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS lock_records (
	lock_id       TEXT PRIMARY KEY,
	subject_id    TEXT NOT NULL,
	appearance_id TEXT NOT NULL,
	hairstyle     TEXT NOT NULL,
	reason        TEXT NOT NULL,
	locked_at     TEXT NOT NULL,
	expires_at    TEXT NOT NULL,
	valid         INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_lock_records_subject
ON lock_records(subject_id, locked_at);

CREATE TABLE IF NOT EXISTS active_locks (
	subject_id TEXT PRIMARY KEY,
	lock_id    TEXT NOT NULL,
	FOREIGN KEY (lock_id) REFERENCES lock_records(lock_id)
);
`

// #endregion

// #region errors

// ErrUnknownAppearance is returned when a lock names an appearance the
// catalog does not contain.
var ErrUnknownAppearance = errors.New("lockstore: unknown appearance id")

// #endregion

// #region store

// Store manages consistency locks in SQLite.
type Store struct {
	db  *sql.DB
	cat *catalog.Catalog
	now func() time.Time
}

// Open opens (or creates) the lock database at path and runs migrations.
// The catalog validates appearance ids on write.
func Open(path string, cat *catalog.Catalog) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("lockstore: open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("lockstore: pragma: %w", err)
	}
	return NewStore(db, cat)
}

// NewStore wraps an existing connection, running migrations.
func NewStore(db *sql.DB, cat *catalog.Catalog) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("lockstore: migrate: %w", err)
	}
	return &Store{db: db, cat: cat, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for sibling stores sharing the file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion

// #region get

// Get returns the subject's lock, or nil when no valid, unexpired lock
// exists.
func (s *Store) Get(subjectID string) (*ConsistencyLock, error) {
	row := s.db.QueryRow(
		`SELECT r.lock_id, r.subject_id, r.appearance_id, r.hairstyle,
		        r.reason, r.locked_at, r.expires_at, r.valid
		 FROM active_locks a
		 JOIN lock_records r ON r.lock_id = a.lock_id
		 WHERE a.subject_id = ?`, subjectID,
	)

	var l ConsistencyLock
	var lockedAt, expiresAt string
	var valid int
	err := row.Scan(&l.LockID, &l.SubjectID, &l.AppearanceID, &l.Hairstyle,
		&l.Reason, &lockedAt, &expiresAt, &valid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lockstore: get %s: %w", subjectID, err)
	}

	l.Valid = valid == 1
	l.LockedAt, _ = time.Parse(time.RFC3339Nano, lockedAt)
	l.ExpiresAt, _ = time.Parse(time.RFC3339Nano, expiresAt)

	if !l.Valid || l.Expired(s.now()) {
		return nil, nil
	}
	return &l, nil
}

// #endregion

// #region set

// Set creates or atomically replaces the subject's lock. The superseded
// record is marked invalid but kept for audit.
func (s *Store) Set(subjectID, appearanceID string, hairstyle catalog.Hairstyle, reason LockReason, ttl time.Duration) (*ConsistencyLock, error) {
	if s.cat != nil {
		if _, ok := s.cat.ByID(appearanceID); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAppearance, appearanceID)
		}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := s.now().UTC()
	l := ConsistencyLock{
		LockID:       uuid.New().String(),
		SubjectID:    subjectID,
		AppearanceID: appearanceID,
		Hairstyle:    hairstyle,
		Reason:       reason,
		LockedAt:     now,
		ExpiresAt:    now.Add(ttl),
		Valid:        true,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("lockstore: begin tx: %w", err)
	}
	defer tx.Rollback()

	// Invalidate whatever the active pointer references now.
	_, err = tx.Exec(
		`UPDATE lock_records SET valid = 0
		 WHERE lock_id IN (SELECT lock_id FROM active_locks WHERE subject_id = ?)`,
		subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("lockstore: supersede: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO lock_records
		 (lock_id, subject_id, appearance_id, hairstyle, reason, locked_at, expires_at, valid)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		l.LockID, l.SubjectID, l.AppearanceID, string(l.Hairstyle), string(l.Reason),
		l.LockedAt.Format(time.RFC3339Nano), l.ExpiresAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("lockstore: insert lock: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_locks (subject_id, lock_id) VALUES (?, ?)
		 ON CONFLICT(subject_id) DO UPDATE SET lock_id = excluded.lock_id`,
		subjectID, l.LockID,
	)
	if err != nil {
		return nil, fmt.Errorf("lockstore: set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("lockstore: commit: %w", err)
	}
	return &l, nil
}

// #endregion

// #region invalidate

// Invalidate marks the subject's current lock inactive. The historical
// row stays for debugging; there is nothing to do when no lock exists.
func (s *Store) Invalidate(subjectID string) error {
	_, err := s.db.Exec(
		`UPDATE lock_records SET valid = 0
		 WHERE lock_id IN (SELECT lock_id FROM active_locks WHERE subject_id = ?)`,
		subjectID,
	)
	if err != nil {
		return fmt.Errorf("lockstore: invalidate %s: %w", subjectID, err)
	}
	return nil
}

// #endregion

// #region history

// History lists the subject's lock records, newest first, including
// superseded and invalidated ones.
func (s *Store) History(subjectID string, limit int) ([]ConsistencyLock, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT lock_id, subject_id, appearance_id, hairstyle, reason,
		        locked_at, expires_at, valid
		 FROM lock_records WHERE subject_id = ?
		 ORDER BY locked_at DESC LIMIT ?`,
		subjectID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("lockstore: history: %w", err)
	}
	defer rows.Close()

	var locks []ConsistencyLock
	for rows.Next() {
		var l ConsistencyLock
		var lockedAt, expiresAt string
		var valid int
		if err := rows.Scan(&l.LockID, &l.SubjectID, &l.AppearanceID, &l.Hairstyle,
			&l.Reason, &lockedAt, &expiresAt, &valid); err != nil {
			return nil, fmt.Errorf("lockstore: scan: %w", err)
		}
		l.Valid = valid == 1
		l.LockedAt, _ = time.Parse(time.RFC3339Nano, lockedAt)
		l.ExpiresAt, _ = time.Parse(time.RFC3339Nano, expiresAt)
		locks = append(locks, l)
	}
	return locks, rows.Err()
}

// #endregion
