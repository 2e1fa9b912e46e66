package catalog

import (
	"errors"
	"testing"
)

func validAppearance(id string) ReferenceAppearance {
	return ReferenceAppearance{
		ID:             id,
		Hairstyle:      HairCurly,
		Formality:      FormalityCasual,
		BaseFrequency:  0.5,
		SuitableScenes: []string{"coffee", "park"},
		MoodAffinity:   map[string]float64{"playful": 0.7},
		TimeAffinity:   map[TimeOfDay]float64{TimeMorning: 0.8},
	}
}

func TestNewValid(t *testing.T) {
	c, err := New([]ReferenceAppearance{validAppearance("a"), validAppearance("b")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 appearances, got %d", c.Len())
	}
	if _, ok := c.ByID("a"); !ok {
		t.Fatal("expected lookup of a to succeed")
	}
	if _, ok := c.ByID("missing"); ok {
		t.Fatal("expected lookup of missing id to fail")
	}
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ReferenceAppearance)
	}{
		{"empty id", func(a *ReferenceAppearance) { a.ID = "  " }},
		{"wildcard hairstyle", func(a *ReferenceAppearance) { a.Hairstyle = HairAny }},
		{"empty formality", func(a *ReferenceAppearance) { a.Formality = "" }},
		{"unknown formality", func(a *ReferenceAppearance) { a.Formality = FormalityUnknown }},
		{"base frequency high", func(a *ReferenceAppearance) { a.BaseFrequency = 1.2 }},
		{"base frequency negative", func(a *ReferenceAppearance) { a.BaseFrequency = -0.1 }},
		{"mood affinity high", func(a *ReferenceAppearance) { a.MoodAffinity["playful"] = 1.5 }},
		{"time affinity negative", func(a *ReferenceAppearance) { a.TimeAffinity[TimeMorning] = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAppearance("a")
			tc.mutate(&a)
			if _, err := New([]ReferenceAppearance{a}); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNewRejectsDuplicateID(t *testing.T) {
	_, err := New([]ReferenceAppearance{validAppearance("a"), validAppearance("a")})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestSceneKeywordMatch(t *testing.T) {
	a := validAppearance("a")
	a.UnsuitableScenes = []string{"gala", "gym"}

	cases := []struct {
		scene      string
		suitable   bool
		unsuitable bool
	}{
		{"coffee", true, false},
		{"coffee shop downtown", true, false}, // substring match
		{"Coffee Shop", true, false},          // case-insensitive
		{"gym", false, true},
		{"charity gala in the park", true, true}, // both sets can match
		{"office", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		if got := a.SuitableFor(tc.scene); got != tc.suitable {
			t.Errorf("SuitableFor(%q) = %v, want %v", tc.scene, got, tc.suitable)
		}
		if got := a.UnsuitableFor(tc.scene); got != tc.unsuitable {
			t.Errorf("UnsuitableFor(%q) = %v, want %v", tc.scene, got, tc.unsuitable)
		}
	}
}

func TestInSeason(t *testing.T) {
	a := validAppearance("a")
	a.SuitableSeasons = []Season{SeasonSpring, SeasonSummer}
	if !a.InSeason(SeasonSummer) {
		t.Fatal("expected summer to be in season")
	}
	if a.InSeason(SeasonWinter) {
		t.Fatal("expected winter to be out of season")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() != 5 {
		t.Fatalf("expected 5 built-in appearances, got %d", c.Len())
	}
	for _, id := range []string{"curly_casual", "messy_bun_casual", "straight_dressed", "ponytail_athletic", "waves_cozy"} {
		if _, ok := c.ByID(id); !ok {
			t.Fatalf("built-in set missing %s", id)
		}
	}
}
