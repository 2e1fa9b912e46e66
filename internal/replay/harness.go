package replay

// #region imports
import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lumabot/selfie-engine/internal/capability"
	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/classify"
	"github.com/lumabot/selfie-engine/internal/engine"
	"github.com/lumabot/selfie-engine/internal/history"
	"github.com/lumabot/selfie-engine/internal/lockstore"
	_ "modernc.org/sqlite"
)

// #endregion

// #region result

// Result is the outcome of one replayed request.
type Result struct {
	RequestID  string
	Passed     bool
	Mismatches []string
	Got        engine.SelectionResult
}

// #endregion

// #region harness

// Harness replays a fixture through a fully wired engine backed by an
// in-memory database and an always-failing capability, so every run
// takes the deterministic fallback path.
type Harness struct {
	cat *catalog.Catalog
	log *slog.Logger
}

// NewHarness creates a harness over the built-in catalog.
func NewHarness(log *slog.Logger) *Harness {
	if log == nil {
		log = slog.Default()
	}
	return &Harness{cat: catalog.Default(), log: log}
}

// #endregion

// #region run

// Run replays every request in the fixture in order, comparing outcomes
// against expectations.
func (h *Harness) Run(ctx context.Context, f *Fixture) ([]Result, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("replay: open db: %w", err)
	}
	defer db.Close()
	// Each pooled connection would get its own private in-memory database.
	db.SetMaxOpenConns(1)

	locks, err := lockstore.NewStore(db, h.cat)
	if err != nil {
		return nil, err
	}
	hist, err := history.NewStore(db)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, u := range f.History {
		err := hist.Record(f.SubjectID, history.UsageEntry{
			AppearanceID: u.AppearanceID,
			Scene:        u.Scene,
			Timestamp:    now.Add(-time.Duration(u.AgeMinutes) * time.Minute),
		})
		if err != nil {
			return nil, err
		}
	}
	if f.Lock != nil {
		a, ok := h.cat.ByID(f.Lock.AppearanceID)
		if !ok {
			return nil, fmt.Errorf("replay: lock references unknown appearance %q", f.Lock.AppearanceID)
		}
		ttl := time.Duration(f.Lock.TTLMinutes) * time.Minute
		if _, err := locks.Set(f.SubjectID, a.ID, a.Hairstyle, lockstore.ReasonSessionStart, ttl); err != nil {
			return nil, err
		}
	}

	cfg := engine.DefaultConfig()
	if f.Weights != nil {
		cfg.Weights = *f.Weights
	}
	eng, err := engine.New(engine.Deps{
		Catalog:    h.cat,
		Classifier: classify.New(capability.ErrClient{}, h.log),
		Locks:      locks,
		History:    hist,
		Logger:     h.log,
	}, cfg)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(f.Requests))
	for _, req := range f.Requests {
		got, err := eng.SelectAppearance(ctx, f.SubjectID, req.RequestText, req.RecentTurns, engine.SceneContext{
			Scene:      req.Scene.Scene,
			Mood:       req.Scene.Mood,
			OutfitHint: req.Scene.OutfitHint,
			Presence:   req.Scene.Presence,
			Season:     catalog.Season(req.Scene.Season),
			TimeOfDay:  catalog.TimeOfDay(req.Scene.TimeOfDay),
		})
		if err != nil {
			return nil, fmt.Errorf("replay: request %s: %w", req.ID, err)
		}
		results = append(results, compare(req, got))
	}
	return results, nil
}

// #endregion

// #region compare

func compare(req FixtureRequest, got engine.SelectionResult) Result {
	var mismatches []string
	exp := req.Expect

	if exp.AppearanceID != "" && got.AppearanceID != exp.AppearanceID {
		mismatches = append(mismatches,
			fmt.Sprintf("appearance: want %s, got %s", exp.AppearanceID, got.AppearanceID))
	}
	if got.FromLock != exp.FromLock {
		mismatches = append(mismatches,
			fmt.Sprintf("from_lock: want %v, got %v", exp.FromLock, got.FromLock))
	}
	if got.PastReference != exp.PastReference {
		mismatches = append(mismatches,
			fmt.Sprintf("past_reference: want %v, got %v", exp.PastReference, got.PastReference))
	}
	if got.LockWritten != exp.LockWritten {
		mismatches = append(mismatches,
			fmt.Sprintf("lock_written: want %v, got %v", exp.LockWritten, got.LockWritten))
	}

	return Result{
		RequestID:  req.ID,
		Passed:     len(mismatches) == 0,
		Mismatches: mismatches,
		Got:        got,
	}
}

// Summary renders results as one line per request.
func Summary(results []Result) string {
	var b strings.Builder
	for _, r := range results {
		if r.Passed {
			fmt.Fprintf(&b, "PASS %s → %s\n", r.RequestID, r.Got.AppearanceID)
			continue
		}
		fmt.Fprintf(&b, "FAIL %s → %s (%s)\n", r.RequestID, r.Got.AppearanceID,
			strings.Join(r.Mismatches, "; "))
	}
	return b.String()
}

// #endregion
