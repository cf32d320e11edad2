package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if REPLAY_CONFIG is set
//  3. env (prefix REPLAY_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("REPLAY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: REPLAY_ADDR, REPLAY_CORPUS_DIR, ...
	// Map env keys like REPLAY_CORPUS_DIR -> corpus_dir (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("REPLAY_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "replay_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CorpusDir == "":
		return fmt.Errorf("%w: corpus_dir must not be empty", ErrInvalidConfig)
	case c.DTWRadius < 1:
		return fmt.Errorf("%w: dtw_radius must be at least 1", ErrInvalidConfig)
	case c.MaxDistance <= 0:
		return fmt.Errorf("%w: max_distance must be positive", ErrInvalidConfig)
	case c.TopN <= 0:
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	case c.HybridCandidates <= 0:
		return fmt.Errorf("%w: hybrid_candidates must be positive", ErrInvalidConfig)
	case c.HybridDTWWeight < 0 || c.HybridLexicalWeight < 0:
		return fmt.Errorf("%w: hybrid weights must not be negative", ErrInvalidConfig)
	case c.MinDocFreq < 1:
		return fmt.Errorf("%w: min_doc_freq must be at least 1", ErrInvalidConfig)
	case c.MaxDocRatio <= 0 || c.MaxDocRatio > 1:
		return fmt.Errorf("%w: max_doc_ratio must be in (0, 1]", ErrInvalidConfig)
	}
	return nil
}
