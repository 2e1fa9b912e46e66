package engine

// #region imports
import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lumabot/selfie-engine/internal/enhancer"
	"github.com/lumabot/selfie-engine/internal/lockstore"
	"github.com/lumabot/selfie-engine/internal/scoring"
)

// #endregion

// #region config

// Config holds the tunable engine policy. Scoring weights are policy
// defaults, not invariants; override them here rather than in code.
type Config struct {
	LockTTL           time.Duration   `yaml:"lock_ttl"`
	HistoryLimit      int             `yaml:"history_limit"`
	EnhancerThreshold float64         `yaml:"enhancer_threshold"`
	CapabilityCache   time.Duration   `yaml:"capability_cache"`
	Weights           scoring.Weights `yaml:"weights"`
}

// DefaultConfig returns the standard engine policy.
func DefaultConfig() Config {
	return Config{
		LockTTL:           lockstore.DefaultTTL,
		HistoryLimit:      scoring.MaxHistory,
		EnhancerThreshold: enhancer.DefaultConfidenceThreshold,
		CapabilityCache:   30 * time.Second,
		Weights:           scoring.DefaultWeights(),
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("engine: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("engine: parse config %s: %w", path, err)
	}
	if cfg.HistoryLimit > scoring.MaxHistory {
		cfg.HistoryLimit = scoring.MaxHistory
	}
	return cfg, nil
}

// #endregion
