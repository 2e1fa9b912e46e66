// Package scoring ranks candidate appearances with a fully transparent
// additive score. Every adjustment is recorded as a named contribution so
// the selection result can explain itself; nothing here ever removes a
// candidate from consideration.
package scoring

// #region imports
import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/enhancer"
)

// #endregion

// #region hint-keywords

var formalHintWords = []string{
	"formal", "dress up", "dressed up", "fancy", "elegant", "classy", "nice outfit",
}

var casualHintWords = []string{
	"casual", "comfy", "comfortable", "chill", "laid back", "relaxed", "low key",
}

// #endregion

// #region presence-rules

// presenceRule maps ambient-presence phrasing to a matching appearance
// trait with a fixed bonus.
type presenceRule struct {
	keywords  []string
	formality catalog.Formality // empty = rule targets hairstyle
	hairstyle catalog.Hairstyle // empty = rule targets formality
	bonus     float64
	label     string
}

var presenceRules = []presenceRule{
	{
		keywords:  []string{"gym", "workout", "working out", "training", "lifting"},
		formality: catalog.FormalityAthletic,
		bonus:     30,
		label:     "working out",
	},
	{
		keywords:  []string{"run", "jog", "yoga", "stretch"},
		formality: catalog.FormalityAthletic,
		bonus:     25,
		label:     "exercising",
	},
	{
		keywords:  []string{"couch", "movie", "netflix", "blanket", "home all day"},
		formality: catalog.FormalityCozy,
		bonus:     25,
		label:     "staying in",
	},
	{
		keywords:  []string{"party", "club", "dinner date", "cocktail"},
		formality: catalog.FormalityDressedUp,
		bonus:     30,
		label:     "going out",
	},
	{
		keywords:  []string{"pool", "swim", "beach volleyball"},
		hairstyle: catalog.HairPonytail,
		bonus:     25,
		label:     "at the water",
	},
}

// #endregion

// #region scorer

// Scorer computes candidate scores for a selection context.
type Scorer struct {
	weights Weights
	log     *slog.Logger
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights Weights, log *slog.Logger) *Scorer {
	if log == nil {
		log = slog.Default()
	}
	return &Scorer{weights: weights, log: log}
}

// #endregion

// #region score

// Score evaluates every candidate against the context and optional
// enhancer hints. All factors are additive, so application order never
// changes the result. The returned slice preserves catalog order; call
// Rank to sort it.
func (s *Scorer) Score(candidates []catalog.ReferenceAppearance, sel SelectionContext, hints enhancer.Hints) []ScoredCandidate {
	w := s.weights
	scored := make([]ScoredCandidate, len(candidates))

	for i, a := range candidates {
		sc := ScoredCandidate{Appearance: a, catalogIndex: i}

		sc.add(FactorBase, fmt.Sprintf("base frequency %.2f", a.BaseFrequency), a.BaseFrequency*w.BaseScale)

		// Suitable and unsuitable matches are independent: a scene
		// mentioning two keywords may trigger both.
		if a.SuitableFor(sel.Scene) {
			sc.add(FactorSceneSuitable, "scene matches suitable set", w.SceneSuitable)
		}
		if a.UnsuitableFor(sel.Scene) {
			sc.add(FactorSceneUnsuitable, "scene matches unsuitable set", w.SceneUnsuitable)
		}

		if sel.Mood != "" {
			if aff, ok := a.MoodAffinity[strings.ToLower(sel.Mood)]; ok {
				sc.add(FactorMood, fmt.Sprintf("mood %q affinity %.2f", sel.Mood, aff), aff*w.MoodScale)
			}
		}

		// Time-of-day always applies; a missing period counts as zero.
		tod := a.TimeAffinity[sel.TimeOfDay]
		sc.add(FactorTimeOfDay, fmt.Sprintf("%s affinity %.2f", sel.TimeOfDay, tod), tod*w.TimeOfDayScale)

		if a.InSeason(sel.Season) {
			sc.add(FactorSeason, fmt.Sprintf("in season %s", sel.Season), w.SeasonMatch)
		} else {
			sc.add(FactorSeason, fmt.Sprintf("out of season %s", sel.Season), w.SeasonMismatch)
		}

		s.applyOutfitHint(&sc, sel.OutfitHint)
		s.applyPresence(&sc, sel.Presence)

		if sel.NearbyFormalEvent && a.Formality == catalog.FormalityDressedUp {
			sc.add(FactorNearbyFormalEvent, "formal event within 2h", w.NearbyFormalEvent)
		}

		s.applyHints(&sc, hints)

		scored[i] = sc
	}

	return scored
}

// #endregion

// #region outfit-hint

func (s *Scorer) applyOutfitHint(sc *ScoredCandidate, hint string) {
	if hint == "" {
		return
	}
	lower := strings.ToLower(hint)
	if containsAny(lower, formalHintWords) && sc.Appearance.Formality == catalog.FormalityDressedUp {
		sc.add(FactorOutfitHint, "hint implies formal", s.weights.OutfitHintFormal)
	}
	if containsAny(lower, casualHintWords) && sc.Appearance.Formality == catalog.FormalityCasual {
		sc.add(FactorOutfitHint, "hint implies casual", s.weights.OutfitHintCasual)
	}
}

// #endregion

// #region presence

func (s *Scorer) applyPresence(sc *ScoredCandidate, presence []string) {
	if len(presence) == 0 {
		return
	}
	combined := strings.ToLower(strings.Join(presence, " "))
	for _, rule := range presenceRules {
		if !containsAny(combined, rule.keywords) {
			continue
		}
		match := (rule.formality != "" && sc.Appearance.Formality == rule.formality) ||
			(rule.hairstyle != "" && sc.Appearance.Hairstyle == rule.hairstyle)
		if match {
			sc.add(FactorPresence, "presence implies "+rule.label, rule.bonus)
			return // one presence bonus per candidate
		}
	}
}

// #endregion

// #region enhancer-hints

func (s *Scorer) applyHints(sc *ScoredCandidate, hints enhancer.Hints) {
	if hints.Confidence <= 0 {
		return
	}
	if hints.Formality != catalog.FormalityUnknown && hints.Formality == sc.Appearance.Formality {
		sc.add(FactorEnhancerOutfit,
			fmt.Sprintf("inferred %s at %.2f", hints.Formality, hints.Confidence),
			s.weights.EnhancerOutfitScale*hints.Confidence)
	}
	if hints.Hairstyle != catalog.HairAny && hints.Hairstyle == sc.Appearance.Hairstyle {
		sc.add(FactorEnhancerHair,
			fmt.Sprintf("inferred %s at %.2f", hints.Hairstyle, hints.Confidence),
			s.weights.EnhancerHairScale*hints.Confidence)
	}
}

// #endregion

// #region rank

// Rank sorts candidates by score descending. Ties fall back to catalog
// declaration order so results stay deterministic.
func Rank(scored []ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].catalogIndex < scored[j].catalogIndex
	})
}

// #endregion

// #region helpers

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// #endregion
