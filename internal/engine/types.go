package engine

// #region imports
import (
	"time"

	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/classify"
	"github.com/lumabot/selfie-engine/internal/enhancer"
	"github.com/lumabot/selfie-engine/internal/history"
	"github.com/lumabot/selfie-engine/internal/lockstore"
	"github.com/lumabot/selfie-engine/internal/scoring"
)

// #endregion

// #region interfaces

// LockStore is the keyed, atomically-updatable lock contract. Read and
// write failures never fail a selection; the engine degrades to the
// unlocked path.
type LockStore interface {
	Get(subjectID string) (*lockstore.ConsistencyLock, error)
	Set(subjectID, appearanceID string, hairstyle catalog.Hairstyle, reason lockstore.LockReason, ttl time.Duration) (*lockstore.ConsistencyLock, error)
	Invalidate(subjectID string) error
}

// HistoryReader lists recent usage, most recent last. Read-only from the
// engine's perspective.
type HistoryReader interface {
	List(subjectID string, limit int) ([]history.UsageEntry, error)
}

// #endregion

// #region scene-context

// SceneContext is the ambient input the caller assembles per request.
// Season and TimeOfDay are derived from the clock when left empty.
type SceneContext struct {
	Scene      string
	Mood       string
	OutfitHint string
	Presence   []string
	Events     []enhancer.CalendarEvent
	Season     catalog.Season
	TimeOfDay  catalog.TimeOfDay
}

// #endregion

// #region selection-result

// SelectionResult is the engine's answer for one request. Candidates
// carry per-factor contributions so consumers can audit the decision.
type SelectionResult struct {
	RequestID      string
	AppearanceID   string
	Appearance     catalog.ReferenceAppearance
	FromLock       bool
	PastReference  bool
	BypassReason   lockstore.BypassReason
	Classification classify.TemporalClassification
	Candidates     []scoring.ScoredCandidate // ranked, empty when FromLock
	LockWritten    bool
	LockReason     lockstore.LockReason // set when LockWritten
}

// #endregion
