// Package capability wraps the external natural-language classification
// service behind a narrow interface. The engine never depends on the
// concrete backend; every consumer must hold a deterministic fallback for
// when Classify returns an error.
package capability

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// #endregion

// #region prompt-kind

// PromptKind selects which structured prompt template a call uses.
type PromptKind string

const (
	// KindTemporal asks whether a request refers to a current or past photo.
	KindTemporal PromptKind = "temporal"
	// KindContext asks for soft outfit/hairstyle hints from ambient context.
	KindContext PromptKind = "context"
)

// #endregion

// #region client

// ErrUnavailable is returned when the backend cannot be reached in time.
var ErrUnavailable = errors.New("capability: backend unavailable")

// Client is the classification capability. Input is marshaled to JSON and
// embedded in the prompt; the returned bytes are a single JSON object in
// the shape the prompt kind requested.
type Client interface {
	Classify(ctx context.Context, kind PromptKind, input any) (json.RawMessage, error)
}

// #endregion

// #region config

// Config holds backend tuning for the OpenAI-compatible client.
type Config struct {
	APIKey  string
	BaseURL string        // empty = provider default
	Model   string        // e.g. "gpt-4o-mini"
	Timeout time.Duration // per-call bound; exceeded calls degrade to fallback
}

// DefaultConfig returns the standard capability configuration.
func DefaultConfig() Config {
	return Config{
		Model:   "gpt-4o-mini",
		Timeout: 500 * time.Millisecond,
	}
}

// #endregion
