// Package enhancer turns ambient context (scene, presence, calendar) into
// soft appearance hints. It is an enhancement layer only: on failure or
// low confidence its hints are absent and contribute nothing, and it never
// eliminates a candidate.
package enhancer

// #region imports
import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/lumabot/selfie-engine/internal/capability"
	"github.com/lumabot/selfie-engine/internal/catalog"
)

// #endregion

// #region types

// CalendarEvent is a nearby calendar entry fed to the enhancer.
type CalendarEvent struct {
	Title  string    `json:"title"`
	Start  time.Time `json:"start"`
	Formal bool      `json:"formal"`
}

// Input bundles the ambient context for one request.
type Input struct {
	Scene    string          `json:"scene"`
	Presence []string        `json:"presence,omitempty"`
	Events   []CalendarEvent `json:"events,omitempty"`
}

// Hints is the soft inference result. A zero-confidence Hints carries no
// signal and the scorer applies no adjustment for it.
type Hints struct {
	Formality  catalog.Formality
	Hairstyle  catalog.Hairstyle
	Activity   string
	Confidence float64
}

// None returns the absent-hints value.
func None() Hints {
	return Hints{
		Formality:  catalog.FormalityUnknown,
		Hairstyle:  catalog.HairAny,
		Confidence: 0,
	}
}

// DefaultConfidenceThreshold gates whether hints count at all.
const DefaultConfidenceThreshold = 0.7

// #endregion

// #region enhancer

// Enhancer delegates hint inference to the classification capability.
type Enhancer struct {
	backend   capability.Client
	threshold float64
	log       *slog.Logger
}

// New creates an enhancer. backend may be nil; Produce then always
// returns None.
func New(backend capability.Client, threshold float64, log *slog.Logger) *Enhancer {
	if threshold <= 0 {
		threshold = DefaultConfidenceThreshold
	}
	if log == nil {
		log = slog.Default()
	}
	return &Enhancer{backend: backend, threshold: threshold, log: log}
}

// Threshold returns the confidence gate in effect.
func (e *Enhancer) Threshold() float64 {
	return e.threshold
}

// #endregion

// #region produce

// hintOutput mirrors the context prompt's JSON contract.
type hintOutput struct {
	Formality  string  `json:"formality"`
	Hairstyle  string  `json:"hairstyle"`
	Activity   string  `json:"activity"`
	Confidence float64 `json:"confidence"`
}

// Produce infers hints from ambient context. Failures and sub-threshold
// results degrade to None; the scorer must be correct without this
// component.
func (e *Enhancer) Produce(ctx context.Context, input Input) Hints {
	if e.backend == nil {
		return None()
	}

	raw, err := e.backend.Classify(ctx, capability.KindContext, input)
	if err != nil {
		e.log.Debug("enhancer degraded to no hints", "err", err)
		return None()
	}

	var out hintOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		e.log.Warn("enhancer output malformed", "err", err)
		return None()
	}
	if out.Confidence < e.threshold {
		return None()
	}

	h := Hints{
		Formality:  catalog.Formality(out.Formality),
		Hairstyle:  catalog.Hairstyle(out.Hairstyle),
		Activity:   out.Activity,
		Confidence: out.Confidence,
	}
	if !validFormality(h.Formality) {
		h.Formality = catalog.FormalityUnknown
	}
	if !validHairstyle(h.Hairstyle) {
		h.Hairstyle = catalog.HairAny
	}
	if h.Confidence > 1 {
		h.Confidence = 1
	}
	return h
}

// #endregion

// #region validation

func validFormality(f catalog.Formality) bool {
	switch f {
	case catalog.FormalityCasual, catalog.FormalityDressedUp, catalog.FormalityAthletic, catalog.FormalityCozy, catalog.FormalityUnknown:
		return true
	}
	return false
}

func validHairstyle(h catalog.Hairstyle) bool {
	switch h {
	case catalog.HairCurly, catalog.HairStraight, catalog.HairMessyBun, catalog.HairPonytail, catalog.HairWaves, catalog.HairAny:
		return true
	}
	return false
}

// #endregion
