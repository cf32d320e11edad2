// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep defaults in New and let Load layer file and env values on top.
// - External errors must be wrapped via this package's sentinel errors.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CorpusDir points at the directory holding per-match corpus files.
	CorpusDir string `koanf:"corpus_dir"`

	// NearBallRadius is the distance (pitch units) within which a player
	// counts as near the ball when extracting features.
	NearBallRadius float64 `koanf:"near_ball_radius"`

	// DTWRadius controls the search window of the approximate aligner.
	DTWRadius int `koanf:"dtw_radius"`

	// MaxDistance is the per-step distance treated as total dissimilarity
	// when normalizing alignment cost into a similarity score.
	MaxDistance float64 `koanf:"max_distance"`

	// TopN is the default number of results returned per search.
	TopN int `koanf:"top_n"`

	// HybridCandidates sets how many candidates each hybrid branch collects
	// before the weighted merge.
	HybridCandidates int `koanf:"hybrid_candidates"`

	// HybridDTWWeight and HybridLexicalWeight blend the two hybrid branches.
	HybridDTWWeight     float64 `koanf:"hybrid_dtw_weight"`
	HybridLexicalWeight float64 `koanf:"hybrid_lexical_weight"`

	// MinDocFreq drops tokens seen in fewer documents than this.
	MinDocFreq int `koanf:"min_doc_freq"`

	// MaxDocRatio drops tokens seen in more than this fraction of documents.
	MaxDocRatio float64 `koanf:"max_doc_ratio"`

	// FeatureWeights maps cost component names (ball, type, formation,
	// pass, shot, pressure) to their weights in the event distance.
	FeatureWeights map[string]float64 `koanf:"feature_weights"`

	// UsePassType, UseShotType and UsePressureType toggle the optional
	// sub-type components of the event distance.
	UsePassType     bool `koanf:"use_pass_type"`
	UseShotType     bool `koanf:"use_shot_type"`
	UsePressureType bool `koanf:"use_pressure_type"`

	// ScanWorkers bounds the concurrency of corpus scans.
	ScanWorkers int `koanf:"scan_workers"`

	// BuildOnStart triggers a corpus index build during startup instead of
	// on the first query.
	BuildOnStart bool `koanf:"build_on_start"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		CorpusDir:           "./corpus",
		NearBallRadius:      15,
		DTWRadius:           1,
		MaxDistance:         150,
		TopN:                10,
		HybridCandidates:    50,
		HybridDTWWeight:     0.6,
		HybridLexicalWeight: 0.4,
		MinDocFreq:          2,
		MaxDocRatio:         0.95,
		FeatureWeights: map[string]float64{
			"ball":      1.0,
			"type":      1.0,
			"formation": 1.0,
			"pass":      0.5,
			"shot":      0.5,
			"pressure":  0.3,
		},
		UsePassType:     false,
		UseShotType:     false,
		UsePressureType: false,
		ScanWorkers:     runtime.NumCPU(),
		BuildOnStart:    true,
	}
	return c
}
