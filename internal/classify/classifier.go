// Package classify decides whether a selfie request refers to the present
// moment or to a past photo. The primary path delegates to the external
// classification capability; a keyword fallback keeps the answer
// deterministic when that capability fails.
package classify

// #region imports
import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/lumabot/selfie-engine/internal/capability"
)

// #endregion

// #region past-patterns

// pastPatterns are the fixed fallback markers for a past-photo reference.
var pastPatterns = []string{
	"from last",
	"from yesterday",
	"yesterday",
	"the other day",
	"remember when",
	"back when",
	"a while ago",
	"last week",
	"last month",
	"that time we",
	"old photo",
	"old picture",
	"throwback",
	"from before",
}

const (
	fallbackPastConfidence    = 0.5
	fallbackPresentConfidence = 0.6
)

// #endregion

// #region classifier

// Classifier produces TemporalClassifications.
type Classifier struct {
	backend capability.Client
	log     *slog.Logger
	now     func() time.Time
}

// New creates a classifier. backend may be nil; every request then takes the
// fallback path.
func New(backend capability.Client, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{backend: backend, log: log, now: time.Now}
}

// #endregion

// #region classify

// capabilityOutput mirrors the temporal prompt's JSON contract.
type capabilityOutput struct {
	IsOldPhoto bool     `json:"is_old_photo"`
	Timeframe  string   `json:"timeframe"`
	Confidence float64  `json:"confidence"`
	Signals    []string `json:"signals"`
}

// capabilityInput is the structured prompt payload.
type capabilityInput struct {
	Scene       string   `json:"scene"`
	RequestText string   `json:"request_text"`
	RecentTurns []string `json:"recent_turns,omitempty"`
}

// Classify runs the capability path and degrades silently to Fallback on
// any error. It never fails.
func (c *Classifier) Classify(ctx context.Context, scene, requestText string, recentTurns []string) TemporalClassification {
	if c.backend == nil {
		return c.withReferenceDate(Fallback(scene, requestText, recentTurns))
	}

	raw, err := c.backend.Classify(ctx, capability.KindTemporal, capabilityInput{
		Scene:       scene,
		RequestText: requestText,
		RecentTurns: recentTurns,
	})
	if err != nil {
		c.log.Warn("temporal classification degraded to fallback", "err", err)
		return c.withReferenceDate(Fallback(scene, requestText, recentTurns))
	}

	var out capabilityOutput
	if err := json.Unmarshal(raw, &out); err != nil || !validFrame(Timeframe(out.Timeframe)) {
		c.log.Warn("temporal classification output malformed", "err", err, "timeframe", out.Timeframe)
		return c.withReferenceDate(Fallback(scene, requestText, recentTurns))
	}

	return c.withReferenceDate(TemporalClassification{
		IsOldPhoto: out.IsOldPhoto,
		Timeframe:  Timeframe(out.Timeframe),
		Confidence: clamp01(out.Confidence),
		Signals:    out.Signals,
	})
}

// #endregion

// #region fallback

// Fallback scans the combined text for past-reference patterns. Pure and
// deterministic: identical inputs always yield identical classifications.
func Fallback(scene, requestText string, recentTurns []string) TemporalClassification {
	combined := strings.ToLower(requestText + " " + scene)
	for _, turn := range recentTurns {
		combined += " " + strings.ToLower(turn)
	}

	var matched []string
	for _, p := range pastPatterns {
		if strings.Contains(combined, p) {
			matched = append(matched, p)
		}
	}

	if len(matched) > 0 {
		return TemporalClassification{
			IsOldPhoto: true,
			Timeframe:  FrameVaguePast,
			Confidence: fallbackPastConfidence,
			Signals:    matched,
			Fallback:   true,
		}
	}
	return TemporalClassification{
		IsOldPhoto: false,
		Timeframe:  FrameNow,
		Confidence: fallbackPresentConfidence,
		Fallback:   true,
	}
}

// #endregion

// #region helpers

// withReferenceDate maps the age bucket to a concrete date via the fixed
// offset table.
func (c *Classifier) withReferenceDate(tc TemporalClassification) TemporalClassification {
	if off, ok := frameOffsets[tc.Timeframe]; ok {
		ref := c.now().Add(off)
		tc.ReferenceDate = &ref
	}
	return tc
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
