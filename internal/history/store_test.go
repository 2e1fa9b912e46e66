package history

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)
	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestRecordAndList(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"curly_casual", "waves_cozy", "curly_casual"} {
		err := s.Record("subj", UsageEntry{
			AppearanceID: id,
			Scene:        "home",
			Timestamp:    base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := s.List("subj", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Most recent last.
	if entries[0].AppearanceID != "curly_casual" || !entries[0].Timestamp.Equal(base) {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[2].AppearanceID != "curly_casual" || !entries[2].Timestamp.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("unexpected last entry: %+v", entries[2])
	}
}

func TestListLimitKeepsNewest(t *testing.T) {
	s := tempStore(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err := s.Record("subj", UsageEntry{
			AppearanceID: "curly_casual",
			Scene:        "home",
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := s.List("subj", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[1].Timestamp.Equal(base.Add(4 * time.Minute)) {
		t.Fatalf("limit should keep the newest entries, got %+v", entries)
	}
}

func TestListIsolatesSubjects(t *testing.T) {
	s := tempStore(t)
	if err := s.Record("alpha", UsageEntry{AppearanceID: "a", Scene: "park"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := s.List("beta", 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries for other subject, got %d", len(entries))
	}
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	s := tempStore(t)
	if err := s.Record("subj", UsageEntry{AppearanceID: "a", Scene: "park"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, err := s.List("subj", 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Timestamp.IsZero() {
		t.Fatalf("expected a defaulted timestamp, got %+v", entries)
	}
}
