package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lumabot/selfie-engine/internal/audit"
	"github.com/lumabot/selfie-engine/internal/catalog"
	"github.com/lumabot/selfie-engine/internal/history"
	"github.com/lumabot/selfie-engine/internal/lockstore"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to selfie_engine.db")
	subject := flag.String("subject", "default", "subject to inspect")
	last := flag.Int("last", 20, "show N most recent entries per section")
	catalogPath := flag.String("catalog", "", "catalog YAML (defaults to built-in set)")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/selfie_engine.db [--subject id] [--last N] [--json]")
		os.Exit(2)
	}

	cat := catalog.Default()
	if *catalogPath != "" {
		var err error
		cat, err = catalog.Load(*catalogPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
			os.Exit(1)
		}
	}

	locks, err := lockstore.Open(*dbPath, cat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer locks.Close()

	if err := run(locks, *subject, *last, *jsonOut); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region report

type report struct {
	Subject     string                      `json:"subject"`
	ActiveLock  *lockstore.ConsistencyLock  `json:"active_lock"`
	LockHistory []lockstore.ConsistencyLock `json:"lock_history"`
	Usage       []history.UsageEntry        `json:"usage"`
	Selections  []audit.Entry               `json:"selections"`
}

func run(locks *lockstore.Store, subject string, last int, jsonOut bool) error {
	hist, err := history.NewStore(locks.DB())
	if err != nil {
		return err
	}
	auditLog, err := audit.NewLog(locks.DB())
	if err != nil {
		return err
	}

	r := report{Subject: subject}
	if r.ActiveLock, err = locks.Get(subject); err != nil {
		return err
	}
	if r.LockHistory, err = locks.History(subject, last); err != nil {
		return err
	}
	if r.Usage, err = hist.List(subject, last); err != nil {
		return err
	}
	if r.Selections, err = auditLog.Recent(subject, last); err != nil {
		return err
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	printReport(r)
	return nil
}

// #endregion report

// #region text-output

func printReport(r report) {
	fmt.Printf("Subject: %s\n\n", r.Subject)

	fmt.Println("Active lock:")
	if r.ActiveLock == nil {
		fmt.Println("  (none)")
	} else {
		l := r.ActiveLock
		fmt.Printf("  %s → %s  reason=%s  locked=%s  expires=%s\n",
			l.LockID[:8], l.AppearanceID, l.Reason, ts(l.LockedAt), ts(l.ExpiresAt))
	}

	fmt.Println("\nLock history:")
	if len(r.LockHistory) == 0 {
		fmt.Println("  (none)")
	}
	for _, l := range r.LockHistory {
		state := "superseded"
		if l.Valid {
			state = "valid"
		}
		fmt.Printf("  %s  %-20s %-24s %-10s %s\n",
			ts(l.LockedAt), l.AppearanceID, l.Reason, state, l.LockID[:8])
	}

	fmt.Println("\nUsage history (most recent last):")
	if len(r.Usage) == 0 {
		fmt.Println("  (none)")
	}
	for _, u := range r.Usage {
		fmt.Printf("  %s  %-20s %s\n", ts(u.Timestamp), u.AppearanceID, u.Scene)
	}

	fmt.Println("\nRecent selections:")
	if len(r.Selections) == 0 {
		fmt.Println("  (none)")
	}
	for _, s := range r.Selections {
		source := "scored"
		if s.FromLock {
			source = "locked"
		}
		past := ""
		if s.PastReference {
			past = "  past-ref"
		}
		fmt.Printf("  %s  %-20s %-7s %-16s%s\n",
			ts(s.CreatedAt), s.AppearanceID, source, s.BypassReason, past)
	}
}

func ts(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// #endregion text-output
