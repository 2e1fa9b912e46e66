package catalog

// #region imports
import (
	"errors"
	"fmt"
	"strings"
)

// #endregion

// #region errors

var (
	// ErrEmptyCatalog is returned when the catalog has no appearances.
	ErrEmptyCatalog = errors.New("catalog: no appearances configured")
)

// #endregion

// #region catalog

// Catalog is the validated, read-only set of candidate appearances.
// Declaration order is preserved and serves as the final tie-break.
type Catalog struct {
	appearances []ReferenceAppearance
	byID        map[string]int
}

// New validates the given appearances and builds a Catalog.
// Duplicate ids or out-of-range affinities are configuration errors
// and must be treated as fatal by the caller.
func New(appearances []ReferenceAppearance) (*Catalog, error) {
	if len(appearances) == 0 {
		return nil, ErrEmptyCatalog
	}

	byID := make(map[string]int, len(appearances))
	for i, a := range appearances {
		if strings.TrimSpace(a.ID) == "" {
			return nil, fmt.Errorf("catalog: appearance %d has empty id", i)
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate appearance id %q", a.ID)
		}
		if err := validateAppearance(a); err != nil {
			return nil, fmt.Errorf("catalog: appearance %q: %w", a.ID, err)
		}
		byID[a.ID] = i
	}

	return &Catalog{appearances: appearances, byID: byID}, nil
}

// Appearances returns the full candidate set in declaration order.
// Callers must not mutate the returned slice.
func (c *Catalog) Appearances() []ReferenceAppearance {
	return c.appearances
}

// ByID looks up an appearance by identifier.
func (c *Catalog) ByID(id string) (ReferenceAppearance, bool) {
	i, ok := c.byID[id]
	if !ok {
		return ReferenceAppearance{}, false
	}
	return c.appearances[i], true
}

// Len returns the number of appearances.
func (c *Catalog) Len() int {
	return len(c.appearances)
}

// #endregion

// #region validation

func validateAppearance(a ReferenceAppearance) error {
	if a.Hairstyle == "" || a.Hairstyle == HairAny {
		return fmt.Errorf("invalid hairstyle %q", a.Hairstyle)
	}
	if a.Formality == "" || a.Formality == FormalityUnknown {
		return fmt.Errorf("invalid formality %q", a.Formality)
	}
	if a.BaseFrequency < 0 || a.BaseFrequency > 1 {
		return fmt.Errorf("base_frequency %.3f out of [0,1]", a.BaseFrequency)
	}
	for mood, v := range a.MoodAffinity {
		if v < 0 || v > 1 {
			return fmt.Errorf("mood affinity %q = %.3f out of [0,1]", mood, v)
		}
	}
	for period, v := range a.TimeAffinity {
		if v < 0 || v > 1 {
			return fmt.Errorf("time affinity %q = %.3f out of [0,1]", period, v)
		}
	}
	return nil
}

// #endregion

// #region keyword-match

// keywordMatch reports whether the scene text contains any of the
// keywords, case-insensitively. A keyword matches as a substring so
// "coffee shop" matches the keyword "coffee".
func keywordMatch(keywords []string, scene string) bool {
	lower := strings.ToLower(strings.TrimSpace(scene))
	if lower == "" {
		return false
	}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// #endregion
