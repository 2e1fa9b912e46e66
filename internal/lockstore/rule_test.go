package lockstore

import (
	"testing"
	"time"

	"github.com/lumabot/selfie-engine/internal/classify"
)

func TestShouldBypass(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	live := &ConsistencyLock{
		AppearanceID: "curly_casual",
		LockedAt:     now.Add(-time.Hour),
		ExpiresAt:    now.Add(time.Hour),
		Valid:        true,
	}
	expired := &ConsistencyLock{
		AppearanceID: "curly_casual",
		LockedAt:     now.Add(-48 * time.Hour),
		ExpiresAt:    now.Add(-24 * time.Hour),
		Valid:        true,
	}
	invalid := &ConsistencyLock{AppearanceID: "curly_casual", Valid: false}

	present := classify.TemporalClassification{IsOldPhoto: false, Timeframe: classify.FrameNow}
	past := classify.TemporalClassification{IsOldPhoto: true, Timeframe: classify.FrameLastWeek}

	cases := []struct {
		name       string
		lock       *ConsistencyLock
		tc         classify.TemporalClassification
		wantBypass bool
		wantReason BypassReason
	}{
		{"live lock honored", live, present, false, BypassNone},
		{"no lock", nil, present, true, BypassNoLock},
		{"invalid lock", invalid, present, true, BypassNoLock},
		{"past reference skips live lock", live, past, true, BypassPastReference},
		{"expired lock", expired, present, true, BypassExpired},
		{"past reference wins over expiry", expired, past, true, BypassPastReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bypass, reason := ShouldBypass(tc.lock, tc.tc, now)
			if bypass != tc.wantBypass {
				t.Fatalf("bypass = %v, want %v", bypass, tc.wantBypass)
			}
			if reason != tc.wantReason {
				t.Fatalf("reason = %s, want %s", reason, tc.wantReason)
			}
		})
	}
}
