package replay

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixturesPass(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "expected bundled fixtures")

	h := NewHarness(nil)
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			f, err := LoadFixture(path)
			require.NoError(t, err)

			results, err := h.Run(context.Background(), f)
			require.NoError(t, err)
			require.Len(t, results, len(f.Requests))
			for _, r := range results {
				assert.True(t, r.Passed, "request %s: %v", r.RequestID, r.Mismatches)
			}
		})
	}
}

func TestRunDetectsMismatch(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "gym_playful.json"))
	require.NoError(t, err)
	f.Requests[0].Expect.AppearanceID = "straight_dressed"

	h := NewHarness(nil)
	results, err := h.Run(context.Background(), f)
	require.NoError(t, err)

	assert.False(t, results[0].Passed)
	assert.NotEmpty(t, results[0].Mismatches)
	assert.Contains(t, Summary(results), "FAIL")
}

func TestLoadFixtureValidation(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"description": "nothing"}`), 0o644))
	_, err := LoadFixture(empty)
	assert.Error(t, err, "a fixture without requests is useless")

	garbled := filepath.Join(dir, "garbled.json")
	require.NoError(t, os.WriteFile(garbled, []byte(`{`), 0o644))
	_, err = LoadFixture(garbled)
	assert.Error(t, err)

	_, err = LoadFixture(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestLoadFixtureDefaultsSubject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	doc := `{"requests": [{"id": "r1", "request_text": "hi", "scene": {"scene": "home", "season": "summer", "time_of_day": "morning"}, "expect": {}}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	f, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, "replay-subject", f.SubjectID)
}
