package lockstore

// #region imports
import (
	"time"

	"github.com/lumabot/selfie-engine/internal/classify"
)

// #endregion

// #region bypass-rule

// BypassReason explains why a lock was or was not honored.
type BypassReason string

const (
	BypassNone          BypassReason = "lock_honored"
	BypassNoLock        BypassReason = "no_valid_lock"
	BypassPastReference BypassReason = "past_reference"
	BypassExpired       BypassReason = "lock_expired"
)

// ShouldBypass is the pure unlock decision: a present lock is ignored for
// the current request iff the request refers to the past or the lock has
// expired. This is what lets "a selfie from last week" skip an active
// lock while "a selfie right now" with a 10-hour-old lock still honors
// it. No I/O.
func ShouldBypass(lock *ConsistencyLock, tc classify.TemporalClassification, now time.Time) (bool, BypassReason) {
	if lock == nil || !lock.Valid {
		return true, BypassNoLock
	}
	if tc.IsOldPhoto {
		return true, BypassPastReference
	}
	if lock.Expired(now) {
		return true, BypassExpired
	}
	return false, BypassNone
}

// #endregion
