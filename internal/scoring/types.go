package scoring

// #region imports
import (
	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/history"
)

// #endregion

// #region reason-tags

// Factor tags name each score contribution for the audit trail.
const (
	FactorBase              = "base_frequency"
	FactorSceneSuitable     = "scene_suitable"
	FactorSceneUnsuitable   = "scene_unsuitable"
	FactorMood              = "mood_affinity"
	FactorTimeOfDay         = "time_of_day"
	FactorSeason            = "season"
	FactorOutfitHint        = "outfit_hint"
	FactorPresence          = "ambient_presence"
	FactorNearbyFormalEvent = "nearby_formal_event"
	FactorEnhancerOutfit    = "enhancer_outfit"
	FactorEnhancerHair      = "enhancer_hairstyle"
	FactorRepetition        = "repetition"
	FactorRepetitionExempt  = "repetition_exempt"
)

// #endregion

// #region selection-context

// SelectionContext is the per-request input to the scorer. Assembled
// fresh per call; the history slice is read-only to the engine.
type SelectionContext struct {
	Scene             string
	Mood              string
	OutfitHint        string
	Season            catalog.Season
	TimeOfDay         catalog.TimeOfDay
	NearbyFormalEvent bool
	Presence          []string
	History           []history.UsageEntry // most recent last, at most MaxHistory
}

// MaxHistory bounds the recent-usage window the filter considers.
const MaxHistory = 10

// #endregion

// #region scored-candidate

// Contribution is one factor's share of a candidate's score.
type Contribution struct {
	Factor string
	Detail string
	Delta  float64
}

// ScoredCandidate pairs an appearance with its score and the full
// per-factor breakdown that produced it.
type ScoredCandidate struct {
	Appearance    catalog.ReferenceAppearance
	Score         float64
	Contributions []Contribution

	catalogIndex int // declaration order, final tie-break
}

func (sc *ScoredCandidate) add(factor, detail string, delta float64) {
	sc.Score += delta
	sc.Contributions = append(sc.Contributions, Contribution{
		Factor: factor,
		Detail: detail,
		Delta:  delta,
	})
}

// #endregion
