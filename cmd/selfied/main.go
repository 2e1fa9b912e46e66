package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lumabot/selfie-engine/internal/audit"
	"github.com/lumabot/selfie-engine/internal/capability"
	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/classify"
	"github.com/lumabot/selfie-engine/internal/engine"
	"github.com/lumabot/selfie-engine/internal/enhancer"
	"github.com/lumabot/selfie-engine/internal/history"
	"github.com/lumabot/selfie-engine/internal/lockstore"
)

// #region main
func main() {
	dbPath := envOr("SELFIE_DB", "selfie_engine.db")
	subjectID := envOr("SELFIE_SUBJECT", "default")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cat, err := loadCatalog()
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	cfg := engine.DefaultConfig()
	if path := os.Getenv("SELFIE_CONFIG"); path != "" {
		cfg, err = engine.LoadConfig(path)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	locks, err := lockstore.Open(dbPath, cat)
	if err != nil {
		log.Fatalf("failed to open lock store: %v", err)
	}
	defer locks.Close()

	hist, err := history.NewStore(locks.DB())
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	auditLog, err := audit.NewLog(locks.DB())
	if err != nil {
		log.Fatalf("failed to open audit log: %v", err)
	}

	// Without an API key every request takes the deterministic fallback.
	var backend capability.Client
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		client, err := capability.NewOpenAIClient(capability.Config{
			APIKey:  key,
			BaseURL: os.Getenv("SELFIE_API_BASE"),
			Model:   os.Getenv("SELFIE_MODEL"),
		}, logger)
		if err != nil {
			log.Fatalf("failed to build capability client: %v", err)
		}
		backend = capability.Cached(client, cfg.CapabilityCache)
	}

	eng, err := engine.New(engine.Deps{
		Catalog:    cat,
		Classifier: classify.New(backend, logger),
		Enhancer:   enhancer.New(backend, cfg.EnhancerThreshold, logger),
		Locks:      locks,
		History:    hist,
		Audit:      auditLog,
		Logger:     logger,
	}, cfg)
	if err != nil {
		log.Fatalf("failed to build engine: %v", err)
	}

	fmt.Println("Selfie engine ready.")
	fmt.Printf("  DB: %s | Subject: %s | Candidates: %d\n", dbPath, subjectID, cat.Len())
	fmt.Println("Set context with scene=/mood=/outfit=/presence=, then type a request.")
	fmt.Println("Commands: lock, unlock, history, quit")

	runLoop(eng, locks, hist, subjectID)
}
// #endregion main

// #region repl

func runLoop(eng *engine.Engine, locks *lockstore.Store, hist *history.Store, subjectID string) {
	scene := engine.SceneContext{Scene: "home"}
	var recentTurns []string

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "quit" || line == "exit":
			return
		case line == "lock":
			printLock(locks, subjectID)
			continue
		case line == "unlock":
			if err := locks.Invalidate(subjectID); err != nil {
				log.Printf("unlock error: %v", err)
			} else {
				fmt.Println("lock invalidated")
			}
			continue
		case line == "history":
			printHistory(hist, subjectID)
			continue
		case strings.HasPrefix(line, "scene="):
			scene.Scene = strings.TrimPrefix(line, "scene=")
			continue
		case strings.HasPrefix(line, "mood="):
			scene.Mood = strings.TrimPrefix(line, "mood=")
			continue
		case strings.HasPrefix(line, "outfit="):
			scene.OutfitHint = strings.TrimPrefix(line, "outfit=")
			continue
		case strings.HasPrefix(line, "presence="):
			scene.Presence = strings.Fields(strings.TrimPrefix(line, "presence="))
			continue
		}

		result, err := eng.SelectAppearance(context.Background(), subjectID, line, recentTurns, scene)
		if err != nil {
			log.Printf("selection error: %v", err)
			continue
		}
		printResult(result)

		// Selection never writes usage history itself; the caller decides
		// whether the selfie was actually sent.
		if err := hist.Record(subjectID, history.UsageEntry{
			AppearanceID: result.AppearanceID,
			Timestamp:    time.Now().UTC(),
			Scene:        scene.Scene,
		}); err != nil {
			log.Printf("history error: %v", err)
		}

		recentTurns = append(recentTurns, line)
		if len(recentTurns) > 5 {
			recentTurns = recentTurns[len(recentTurns)-5:]
		}
	}
}

// #endregion repl

// #region output

func printResult(r engine.SelectionResult) {
	source := "scored"
	if r.FromLock {
		source = "locked"
	}
	fmt.Printf("\n→ %s  (%s, hairstyle=%s, formality=%s)\n",
		r.AppearanceID, source, r.Appearance.Hairstyle, r.Appearance.Formality)
	if r.PastReference {
		fmt.Printf("  past reference: %s (confidence %.2f)\n",
			r.Classification.Timeframe, r.Classification.Confidence)
	}
	if r.LockWritten {
		fmt.Printf("  lock written (%s)\n", r.LockReason)
	}
	for _, c := range r.Candidates {
		fmt.Printf("  %-20s %7.1f\n", c.Appearance.ID, c.Score)
		for _, contrib := range c.Contributions {
			if contrib.Delta == 0 {
				continue
			}
			fmt.Printf("      %+7.1f  %s (%s)\n", contrib.Delta, contrib.Factor, contrib.Detail)
		}
	}
	fmt.Println()
}

func printLock(locks *lockstore.Store, subjectID string) {
	lock, err := locks.Get(subjectID)
	if err != nil {
		log.Printf("lock read error: %v", err)
		return
	}
	if lock == nil {
		fmt.Println("no valid lock")
		return
	}
	fmt.Printf("lock %s → %s (%s), expires %s\n",
		lock.LockID, lock.AppearanceID, lock.Reason,
		lock.ExpiresAt.Format("2006-01-02 15:04:05"))
}

func printHistory(hist *history.Store, subjectID string) {
	entries, err := hist.List(subjectID, 10)
	if err != nil {
		log.Printf("history read error: %v", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("no usage history")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %s  %-20s %s\n",
			e.Timestamp.Format("2006-01-02 15:04"), e.AppearanceID, e.Scene)
	}
}

// #endregion output

// #region helpers
func loadCatalog() (*catalog.Catalog, error) {
	if path := os.Getenv("SELFIE_CATALOG"); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
// #endregion helpers
