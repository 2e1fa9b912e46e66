package capability

// #region imports
import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// #endregion

// #region cached-client

// CachedClient memoizes successful Classify results for a short TTL,
// keyed by a hash of the prompt kind and input. It absorbs near-identical
// duplicate calls without re-invoking the backend. Errors are never
// cached.
type CachedClient struct {
	inner Client
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	out     json.RawMessage
	expires time.Time
}

// Cached wraps inner with a TTL memo cache. A zero ttl disables caching.
func Cached(inner Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// #endregion

// #region classify

// Classify returns a cached result when present, otherwise delegates.
func (c *CachedClient) Classify(ctx context.Context, kind PromptKind, input any) (json.RawMessage, error) {
	if c.ttl <= 0 {
		return c.inner.Classify(ctx, kind, input)
	}

	key, err := cacheKey(kind, input)
	if err != nil {
		return c.inner.Classify(ctx, kind, input)
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		c.mu.Unlock()
		return e.out, nil
	}
	c.mu.Unlock()

	out, err := c.inner.Classify(ctx, kind, input)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{out: out, expires: c.now().Add(c.ttl)}
	// Drop expired entries opportunistically so the map stays bounded.
	for k, e := range c.entries {
		if !c.now().Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()

	return out, nil
}

func cacheKey(kind PromptKind, input any) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(append([]byte(kind), payload...))
	return fmt.Sprintf("%x", sum), nil
}

// #endregion
