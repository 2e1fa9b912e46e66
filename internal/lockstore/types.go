package lockstore

// #region imports
import (
	"time"

	"github.com/lumabot/selfie-engine/internal/catalog"
)

// #endregion

// #region lock-reason

// LockReason records why a consistency lock was created.
type LockReason string

const (
	ReasonSessionStart  LockReason = "session-start"
	ReasonFirstOfPeriod LockReason = "first-request-of-period"
	ReasonExplicitNow   LockReason = "explicit-now-request"
)

// #endregion

// #region lock

// DefaultTTL is how long a lock pins the current look.
const DefaultTTL = 24 * time.Hour

// ConsistencyLock pins a subject to one appearance until it expires or a
// past-reference request bypasses it. At most one valid lock exists per
// subject.
type ConsistencyLock struct {
	LockID       string
	SubjectID    string
	AppearanceID string
	Hairstyle    catalog.Hairstyle
	Reason       LockReason
	LockedAt     time.Time
	ExpiresAt    time.Time
	Valid        bool
}

// Expired reports whether the lock's expiry has passed at now.
func (l ConsistencyLock) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// #endregion
