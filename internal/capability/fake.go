package capability

// #region imports
import (
	"context"
	"encoding/json"
)

// #endregion

// #region error-client

// ErrClient always fails, forcing consumers onto their fallback path.
// Used by tests and by cmd/replay for deterministic runs.
type ErrClient struct{}

// Classify always returns ErrUnavailable.
func (ErrClient) Classify(context.Context, PromptKind, any) (json.RawMessage, error) {
	return nil, ErrUnavailable
}

// #endregion

// #region scripted-client

// Scripted returns a canned response per prompt kind. Unscripted kinds
// fail with ErrUnavailable.
type Scripted struct {
	Responses map[PromptKind]json.RawMessage
	Calls     map[PromptKind]int // incremented per call when non-nil
}

// Classify returns the scripted response for kind.
func (s *Scripted) Classify(_ context.Context, kind PromptKind, _ any) (json.RawMessage, error) {
	if s.Calls != nil {
		s.Calls[kind]++
	}
	out, ok := s.Responses[kind]
	if !ok {
		return nil, ErrUnavailable
	}
	return out, nil
}

// #endregion
