// Package replay runs recorded selection scenarios against a real engine
// with the deterministic fallback classifier, so policy changes can be
// checked against known-good outcomes.
package replay

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumabot/selfie-engine/internal/scoring"
)

// #endregion

// #region fixture-types

// Fixture is the top-level JSON structure for a replay scenario.
type Fixture struct {
	Description string           `json:"description"`
	SubjectID   string           `json:"subject_id"`
	Weights     *scoring.Weights `json:"weights,omitempty"` // nil = defaults
	Lock        *FixtureLock     `json:"lock,omitempty"`
	History     []FixtureUsage   `json:"history,omitempty"`
	Requests    []FixtureRequest `json:"requests"`
}

// FixtureLock pre-seeds a consistency lock before the first request.
type FixtureLock struct {
	AppearanceID string `json:"appearance_id"`
	TTLMinutes   int    `json:"ttl_minutes"`
}

// FixtureUsage pre-seeds one usage-history entry, aged relative to the
// run's start.
type FixtureUsage struct {
	AppearanceID string `json:"appearance_id"`
	Scene        string `json:"scene"`
	AgeMinutes   int    `json:"age_minutes"`
}

// FixtureRequest is one selection request plus its expected outcome.
type FixtureRequest struct {
	ID          string        `json:"id"`
	RequestText string        `json:"request_text"`
	RecentTurns []string      `json:"recent_turns,omitempty"`
	Scene       FixtureScene  `json:"scene"`
	Expect      FixtureExpect `json:"expect"`
}

// FixtureScene mirrors engine.SceneContext with JSON tags. Season and
// time of day must be explicit so runs do not depend on the wall clock.
type FixtureScene struct {
	Scene      string   `json:"scene"`
	Mood       string   `json:"mood,omitempty"`
	OutfitHint string   `json:"outfit_hint,omitempty"`
	Presence   []string `json:"presence,omitempty"`
	Season     string   `json:"season"`
	TimeOfDay  string   `json:"time_of_day"`
}

// FixtureExpect captures the expected selection outcome. An empty
// appearance id means "any".
type FixtureExpect struct {
	AppearanceID  string `json:"appearance_id,omitempty"`
	FromLock      bool   `json:"from_lock"`
	PastReference bool   `json:"past_reference"`
	LockWritten   bool   `json:"lock_written"`
}

// #endregion

// #region loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("replay: parse fixture %s: %w", path, err)
	}
	if f.SubjectID == "" {
		f.SubjectID = "replay-subject"
	}
	if len(f.Requests) == 0 {
		return nil, fmt.Errorf("replay: fixture %s has no requests", path)
	}
	return &f, nil
}

// #endregion
