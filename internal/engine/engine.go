// Package engine sequences one selection request: temporal classification,
// lock lookup, scoring, repetition filtering, and lock write-back. It is
// the only writer of consistency-lock state; everything else it touches is
// read-only per request.
package engine

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lumabot/selfie-engine/internal/audit"
	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/classify"
	"github.com/lumabot/selfie-engine/internal/enhancer"
	"github.com/lumabot/selfie-engine/internal/history"
	"github.com/lumabot/selfie-engine/internal/lockstore"
	"github.com/lumabot/selfie-engine/internal/scoring"
)

// #endregion

// #region engine

// Engine is the selection orchestrator.
type Engine struct {
	cat        *catalog.Catalog
	classifier *classify.Classifier
	enh        *enhancer.Enhancer
	scorer     *scoring.Scorer
	repetition *scoring.RepetitionFilter
	locks      LockStore
	hist       HistoryReader
	auditLog   *audit.Log
	cfg        Config
	log        *slog.Logger
	now        func() time.Time
}

// Deps bundles the engine's collaborators. Locks, History and Audit are
// optional; the engine degrades without them. Catalog is mandatory.
type Deps struct {
	Catalog    *catalog.Catalog
	Classifier *classify.Classifier
	Enhancer   *enhancer.Enhancer
	Locks      LockStore
	History    HistoryReader
	Audit      *audit.Log
	Logger     *slog.Logger
}

// New wires an engine. An empty catalog is a fatal configuration error.
func New(deps Deps, cfg Config) (*Engine, error) {
	if deps.Catalog == nil || deps.Catalog.Len() == 0 {
		return nil, errors.New("engine: empty catalog")
	}
	if deps.Classifier == nil {
		return nil, errors.New("engine: classifier required")
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = lockstore.DefaultTTL
	}
	if cfg.HistoryLimit <= 0 || cfg.HistoryLimit > scoring.MaxHistory {
		cfg.HistoryLimit = scoring.MaxHistory
	}

	return &Engine{
		cat:        deps.Catalog,
		classifier: deps.Classifier,
		enh:        deps.Enhancer,
		scorer:     scoring.NewScorer(cfg.Weights, log),
		repetition: scoring.NewRepetitionFilter(cfg.Weights),
		locks:      deps.Locks,
		hist:       deps.History,
		auditLog:   deps.Audit,
		cfg:        cfg,
		log:        log,
		now:        time.Now,
	}, nil
}

// #endregion

// #region select

// SelectAppearance decides which reference appearance a request should
// use. Side-effecting only with respect to the lock store; it never
// writes usage history.
func (e *Engine) SelectAppearance(ctx context.Context, subjectID, requestText string, recentTurns []string, scene SceneContext) (SelectionResult, error) {
	now := e.now()
	result := SelectionResult{RequestID: uuid.New().String()}

	if scene.Season == "" {
		scene.Season = seasonOf(now)
	}
	if scene.TimeOfDay == "" {
		scene.TimeOfDay = periodOf(now)
	}

	// Classification, enhancement, lock and history reads are independent
	// until scoring, so they run concurrently. None of them can fail the
	// request: each degrades on error.
	var (
		tc      classify.TemporalClassification
		hints   = enhancer.None()
		lock    *lockstore.ConsistencyLock
		entries []history.UsageEntry
	)
	var g errgroup.Group
	g.Go(func() error {
		tc = e.classifier.Classify(ctx, scene.Scene, requestText, recentTurns)
		return nil
	})
	if e.enh != nil {
		g.Go(func() error {
			hints = e.enh.Produce(ctx, enhancer.Input{
				Scene:    scene.Scene,
				Presence: scene.Presence,
				Events:   scene.Events,
			})
			return nil
		})
	}
	if e.locks != nil {
		g.Go(func() error {
			var err error
			lock, err = e.locks.Get(subjectID)
			if err != nil {
				e.log.Warn("lock read failed, proceeding unlocked", "subject", subjectID, "err", err)
				lock = nil
			}
			return nil
		})
	}
	if e.hist != nil {
		g.Go(func() error {
			var err error
			entries, err = e.hist.List(subjectID, e.cfg.HistoryLimit)
			if err != nil {
				e.log.Warn("history read failed, scoring without it", "subject", subjectID, "err", err)
				entries = nil
			}
			return nil
		})
	}
	g.Wait()

	result.Classification = tc
	result.PastReference = tc.IsOldPhoto

	// Lock honored: return the pinned appearance, no scoring at all.
	bypass, reason := lockstore.ShouldBypass(lock, tc, now)
	result.BypassReason = reason
	if !bypass {
		if a, ok := e.cat.ByID(lock.AppearanceID); ok {
			result.FromLock = true
			result.AppearanceID = a.ID
			result.Appearance = a
			e.log.Debug("lock honored", "subject", subjectID, "appearance", a.ID)
			e.writeAudit(subjectID, result)
			return result, nil
		}
		// Lock points at an appearance the catalog no longer has; fall
		// through to fresh scoring.
		e.log.Warn("lock references unknown appearance", "subject", subjectID, "appearance", lock.AppearanceID)
		lock = nil
		result.BypassReason = lockstore.BypassNoLock
	}

	// Fresh scoring path.
	sel := scoring.SelectionContext{
		Scene:             scene.Scene,
		Mood:              scene.Mood,
		OutfitHint:        scene.OutfitHint,
		Season:            scene.Season,
		TimeOfDay:         scene.TimeOfDay,
		NearbyFormalEvent: hasNearbyFormalEvent(scene.Events, now),
		Presence:          scene.Presence,
		History:           entries,
	}
	scored := e.scorer.Score(e.cat.Appearances(), sel, hints)
	e.repetition.Apply(scored, entries, scene.Scene, now)
	scoring.Rank(scored)

	if len(scored) == 0 {
		// Cannot happen: scoring never removes candidates and New rejects
		// an empty catalog.
		return result, fmt.Errorf("engine: no candidates for subject %s", subjectID)
	}

	top := scored[0]
	result.AppearanceID = top.Appearance.ID
	result.Appearance = top.Appearance
	result.Candidates = scored

	e.log.Info("appearance selected",
		"subject", subjectID,
		"appearance", top.Appearance.ID,
		"score", top.Score,
		"past_reference", tc.IsOldPhoto,
	)

	// Write-back: only present-moment requests with no surviving lock pin
	// a new look. Past references never touch the lock.
	if !tc.IsOldPhoto && lock == nil && e.locks != nil {
		if _, err := e.locks.Set(subjectID, top.Appearance.ID, top.Appearance.Hairstyle, lockstore.ReasonFirstOfPeriod, e.cfg.LockTTL); err != nil {
			e.log.Warn("lock write-back failed", "subject", subjectID, "err", err)
		} else {
			result.LockWritten = true
			result.LockReason = lockstore.ReasonFirstOfPeriod
		}
	}

	e.writeAudit(subjectID, result)
	return result, nil
}

// #endregion

// #region formal-event

func hasNearbyFormalEvent(events []enhancer.CalendarEvent, now time.Time) bool {
	for _, ev := range events {
		if !ev.Formal {
			continue
		}
		until := ev.Start.Sub(now)
		if until >= 0 && until <= nearbyFormalEventWindow {
			return true
		}
	}
	return false
}

// #endregion

// #region audit

// topScoreEntry is the compact audit snapshot of one candidate.
type topScoreEntry struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// writeAudit records the decision best-effort; failures are logged and
// swallowed.
func (e *Engine) writeAudit(subjectID string, r SelectionResult) {
	if e.auditLog == nil {
		return
	}

	classJSON, _ := json.Marshal(r.Classification)
	var top []topScoreEntry
	for i, c := range r.Candidates {
		if i == 3 {
			break
		}
		top = append(top, topScoreEntry{ID: c.Appearance.ID, Score: c.Score})
	}
	topJSON, _ := json.Marshal(top)

	err := e.auditLog.Write(audit.Entry{
		RequestID:      r.RequestID,
		SubjectID:      subjectID,
		AppearanceID:   r.AppearanceID,
		FromLock:       r.FromLock,
		PastReference:  r.PastReference,
		BypassReason:   string(r.BypassReason),
		Classification: string(classJSON),
		TopScores:      string(topJSON),
	})
	if err != nil {
		e.log.Warn("audit write failed", "err", err)
	}
}

// #endregion
