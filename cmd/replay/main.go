package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lumabot/selfie-engine/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to a fixture JSON file or a directory of them")
	verbose := flag.Bool("v", false, "print every mismatch detail")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixtures/")
		os.Exit(2)
	}

	paths, err := collect(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	logLevel := slog.LevelError
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	harness := replay.NewHarness(logger)

	failed := 0
	for _, path := range paths {
		f, err := replay.LoadFixture(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		fmt.Printf("%s — %s\n", filepath.Base(path), f.Description)

		results, err := harness.Run(context.Background(), f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		fmt.Print(replay.Summary(results))
		for _, r := range results {
			if !r.Passed {
				failed++
			}
		}
	}

	if failed > 0 {
		fmt.Printf("\n%d request(s) failed\n", failed)
		os.Exit(1)
	}
}

// #endregion main

// #region collect

func collect(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no fixture files in %s", path)
	}
	sort.Strings(matches)
	return matches, nil
}

// #endregion collect
