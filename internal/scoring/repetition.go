package scoring

// #region imports
import (
	"fmt"
	"strings"
	"time"

	"github.com/lumabot/selfie-engine/internal/history"
)

// #endregion

// #region constants

const (
	sameSceneExemptWindow = time.Hour
	repeatTier1           = 6 * time.Hour
	repeatTier2           = 24 * time.Hour
	repeatTier3           = 72 * time.Hour
)

// #endregion

// #region filter

// RepetitionFilter discourages picking the same appearance too soon.
// Only the single most recent use of a candidate counts, and repeated use
// inside the same ongoing scene is exempt: staying in one look through a
// coffee-shop conversation is the realistic behavior.
type RepetitionFilter struct {
	weights Weights
}

// NewRepetitionFilter creates a filter with the given weights.
func NewRepetitionFilter(weights Weights) *RepetitionFilter {
	return &RepetitionFilter{weights: weights}
}

// Apply adjusts scores in place for recently used candidates. entries is
// ordered most recent last; only the trailing MaxHistory entries are
// considered.
func (f *RepetitionFilter) Apply(scored []ScoredCandidate, entries []history.UsageEntry, scene string, now time.Time) {
	if len(entries) > MaxHistory {
		entries = entries[len(entries)-MaxHistory:]
	}
	if len(entries) == 0 {
		return
	}

	for i := range scored {
		sc := &scored[i]
		last, ok := mostRecentUse(entries, sc.Appearance.ID)
		if !ok {
			continue
		}
		age := now.Sub(last.Timestamp)

		if sameScene(last.Scene, scene) && age < sameSceneExemptWindow {
			sc.add(FactorRepetitionExempt,
				fmt.Sprintf("same scene %s ago", age.Round(time.Minute)), 0)
			continue
		}

		penalty := f.penaltyFor(age)
		if penalty != 0 {
			sc.add(FactorRepetition,
				fmt.Sprintf("used %s ago", age.Round(time.Minute)), penalty)
		}
	}
}

// #endregion

// #region penalty

// penaltyFor maps recency of last use onto the step penalty table.
func (f *RepetitionFilter) penaltyFor(age time.Duration) float64 {
	switch {
	case age < repeatTier1:
		return f.weights.RepeatUnder6h
	case age < repeatTier2:
		return f.weights.RepeatUnder24h
	case age < repeatTier3:
		return f.weights.RepeatUnder72h
	}
	return 0
}

// #endregion

// #region helpers

// mostRecentUse scans from the tail since entries are ordered most recent
// last.
func mostRecentUse(entries []history.UsageEntry, appearanceID string) (history.UsageEntry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].AppearanceID == appearanceID {
			return entries[i], true
		}
	}
	return history.UsageEntry{}, false
}

func sameScene(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// #endregion
