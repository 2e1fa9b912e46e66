package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/lumabot/selfie-engine/internal/audit"
	"github.com/lumabot/selfie-engine/internal/capability"
	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/classify"
	"github.com/lumabot/selfie-engine/internal/enhancer"
	"github.com/lumabot/selfie-engine/internal/history"
	"github.com/lumabot/selfie-engine/internal/lockstore"
	"github.com/lumabot/selfie-engine/internal/scoring"
)

// #region fixtures

type fixture struct {
	eng   *Engine
	locks *lockstore.Store
	hist  *history.Store
	log   *audit.Log
}

func newFixture(t *testing.T, backend capability.Client) *fixture {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// One connection so every store sees the same in-memory database.
	db.SetMaxOpenConns(1)

	cat := catalog.Default()
	locks, err := lockstore.NewStore(db, cat)
	require.NoError(t, err)
	hist, err := history.NewStore(db)
	require.NoError(t, err)
	auditLog, err := audit.NewLog(db)
	require.NoError(t, err)

	var enh *enhancer.Enhancer
	if backend != nil {
		enh = enhancer.New(backend, 0, nil)
	}
	eng, err := New(Deps{
		Catalog:    cat,
		Classifier: classify.New(backend, nil),
		Enhancer:   enh,
		Locks:      locks,
		History:    hist,
		Audit:      auditLog,
	}, DefaultConfig())
	require.NoError(t, err)

	return &fixture{eng: eng, locks: locks, hist: hist, log: auditLog}
}

func gymScene() SceneContext {
	return SceneContext{
		Scene:     "gym",
		Mood:      "playful",
		Season:    catalog.SeasonSummer,
		TimeOfDay: catalog.TimeMorning,
	}
}

// #endregion

// #region constructor

func TestNewValidation(t *testing.T) {
	_, err := New(Deps{Classifier: classify.New(nil, nil)}, DefaultConfig())
	assert.Error(t, err, "empty catalog is fatal")

	_, err = New(Deps{Catalog: catalog.Default()}, DefaultConfig())
	assert.Error(t, err, "missing classifier is fatal")
}

// #endregion

// #region selection

func TestFreshSelectionWritesLock(t *testing.T) {
	f := newFixture(t, capability.ErrClient{})

	result, err := f.eng.SelectAppearance(context.Background(), "subj", "send a selfie", nil, gymScene())
	require.NoError(t, err)

	assert.Equal(t, "messy_bun_casual", result.AppearanceID)
	assert.False(t, result.FromLock)
	assert.False(t, result.PastReference)
	assert.Equal(t, lockstore.BypassNoLock, result.BypassReason)
	assert.True(t, result.LockWritten)
	assert.Equal(t, lockstore.ReasonFirstOfPeriod, result.LockReason)
	require.NotEmpty(t, result.Candidates)
	assert.NotEmpty(t, result.Candidates[0].Contributions, "per-factor attribution must survive")

	lock, err := f.locks.Get("subj")
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.Equal(t, "messy_bun_casual", lock.AppearanceID)
	assert.Equal(t, catalog.HairMessyBun, lock.Hairstyle)
}

func TestLockHonoredSkipsScoring(t *testing.T) {
	f := newFixture(t, capability.ErrClient{})
	ctx := context.Background()

	_, err := f.eng.SelectAppearance(ctx, "subj", "send a selfie", nil, gymScene())
	require.NoError(t, err)

	// A completely different scene still returns the pinned appearance.
	result, err := f.eng.SelectAppearance(ctx, "subj", "another one", nil, SceneContext{
		Scene:     "restaurant",
		Mood:      "confident",
		Season:    catalog.SeasonSummer,
		TimeOfDay: catalog.TimeEvening,
	})
	require.NoError(t, err)

	assert.True(t, result.FromLock)
	assert.Equal(t, "messy_bun_casual", result.AppearanceID)
	assert.Equal(t, lockstore.BypassNone, result.BypassReason)
	assert.Empty(t, result.Candidates, "the lock-honored path never scores")
	assert.False(t, result.LockWritten)
}

func TestPastReferenceBypassesLock(t *testing.T) {
	f := newFixture(t, capability.ErrClient{})
	ctx := context.Background()

	first, err := f.locks.Set("subj", "straight_dressed", catalog.HairStraight, lockstore.ReasonSessionStart, time.Hour)
	require.NoError(t, err)

	result, err := f.eng.SelectAppearance(ctx, "subj", "one from last week at the gym", nil, gymScene())
	require.NoError(t, err)

	assert.True(t, result.PastReference)
	assert.False(t, result.FromLock)
	assert.Equal(t, lockstore.BypassPastReference, result.BypassReason)
	assert.Equal(t, "messy_bun_casual", result.AppearanceID, "fresh scoring ran")
	assert.False(t, result.LockWritten, "past references never touch the lock")

	// The original lock is untouched.
	lock, err := f.locks.Get("subj")
	require.NoError(t, err)
	require.NotNil(t, lock)
	assert.Equal(t, first.LockID, lock.LockID)
}

func TestRepetitionPenaltyFlowsThrough(t *testing.T) {
	f := newFixture(t, capability.ErrClient{})

	err := f.hist.Record("subj", history.UsageEntry{
		AppearanceID: "messy_bun_casual",
		Scene:        "coffee",
		Timestamp:    time.Now().UTC().Add(-30 * time.Minute),
	})
	require.NoError(t, err)

	result, err := f.eng.SelectAppearance(context.Background(), "subj", "selfie!", nil, gymScene())
	require.NoError(t, err)

	// The cross-scene repeat penalty (-40) pushes messy_bun_casual below
	// ponytail_athletic.
	assert.Equal(t, "ponytail_athletic", result.AppearanceID)
	var found bool
	for _, c := range result.Candidates {
		if c.Appearance.ID != "messy_bun_casual" {
			continue
		}
		for _, contrib := range c.Contributions {
			if contrib.Factor == scoring.FactorRepetition {
				found = true
				assert.InDelta(t, scoring.DefaultRepeatUnder6h, contrib.Delta, 1e-9)
			}
		}
	}
	assert.True(t, found, "the penalty must appear in the attribution")
}

func TestEnhancerHintsShiftSelection(t *testing.T) {
	backend := &capability.Scripted{
		Responses: map[capability.PromptKind]json.RawMessage{
			capability.KindContext: json.RawMessage(
				`{"formality": "athletic", "hairstyle": "ponytail", "confidence": 0.9}`),
		},
	}
	f := newFixture(t, backend)

	result, err := f.eng.SelectAppearance(context.Background(), "subj", "selfie!", nil, gymScene())
	require.NoError(t, err)

	// +35×0.9 and +30×0.9 lift ponytail_athletic over messy_bun_casual.
	assert.Equal(t, "ponytail_athletic", result.AppearanceID)
}

func TestFormalEventFlag(t *testing.T) {
	f := newFixture(t, capability.ErrClient{})

	scene := SceneContext{
		Scene:     "downtown",
		Season:    catalog.SeasonFall,
		TimeOfDay: catalog.TimeEvening,
		Events: []enhancer.CalendarEvent{
			{Title: "charity dinner", Start: time.Now().Add(time.Hour), Formal: true},
		},
	}
	result, err := f.eng.SelectAppearance(context.Background(), "subj", "selfie!", nil, scene)
	require.NoError(t, err)

	var found bool
	for _, c := range result.Candidates {
		if c.Appearance.ID != "straight_dressed" {
			continue
		}
		for _, contrib := range c.Contributions {
			if contrib.Factor == scoring.FactorNearbyFormalEvent {
				found = true
			}
		}
	}
	assert.True(t, found, "an imminent formal event must reach the scorer")
}

// #endregion

// #region degradation

type failingLocks struct{}

func (failingLocks) Get(string) (*lockstore.ConsistencyLock, error) {
	return nil, errors.New("disk on fire")
}

func (failingLocks) Set(string, string, catalog.Hairstyle, lockstore.LockReason, time.Duration) (*lockstore.ConsistencyLock, error) {
	return nil, errors.New("disk on fire")
}

func (failingLocks) Invalidate(string) error { return errors.New("disk on fire") }

func TestLockStoreFailureDegrades(t *testing.T) {
	eng, err := New(Deps{
		Catalog:    catalog.Default(),
		Classifier: classify.New(capability.ErrClient{}, nil),
		Locks:      failingLocks{},
	}, DefaultConfig())
	require.NoError(t, err)

	result, err := eng.SelectAppearance(context.Background(), "subj", "selfie!", nil, gymScene())
	require.NoError(t, err, "a broken lock store must not fail selection")
	assert.Equal(t, "messy_bun_casual", result.AppearanceID)
	assert.False(t, result.LockWritten)
}

func TestAuditTrailWritten(t *testing.T) {
	f := newFixture(t, capability.ErrClient{})

	_, err := f.eng.SelectAppearance(context.Background(), "subj", "selfie!", nil, gymScene())
	require.NoError(t, err)

	entries, err := f.log.Recent("subj", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "messy_bun_casual", entries[0].AppearanceID)
	assert.NotEmpty(t, entries[0].Classification)
	assert.NotEmpty(t, entries[0].TopScores)
}

// #endregion
