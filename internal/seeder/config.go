// Package seeder generates a synthetic possession corpus in the raw feed
// shape the repository ingests, and can verify a running service against
// it: every seeded chain, queried back, must return itself first.
package seeder

import (
	"runtime"
	"time"
)

// Default generation parameters.
const (
	defaultMatches   = 8
	defaultSequences = 12
	defaultEvents    = 6
	defaultTimeout   = 30 * time.Second
	defaultBaseURL   = "http://localhost:9080"

	// minChainLength keeps every chain alignable: a single event is a
	// degenerate chain the aligner treats as near-empty.
	minChainLength = 2
)

// Config holds generation and verification parameters for one seeding run.
type Config struct {
	Dir       string        // output directory for corpus files
	Matches   int           // number of matches to generate
	Sequences int           // possession chains per match
	Events    int           // events per chain (upper bound; chains vary)
	BaseURL   string        // base URL of a running service, for -verify
	Verify    bool          // query each seeded chain back and check reflexivity
	Workers   int           // concurrent generation and verification workers
	Timeout   time.Duration // HTTP request timeout during verification
	Verbose   bool          // per-chain verification logging
}

// setDefaults fills zero values with usable defaults.
func (c *Config) setDefaults() {
	if c.Dir == "" {
		c.Dir = "./corpus"
	}
	if c.Matches <= 0 {
		c.Matches = defaultMatches
	}
	if c.Sequences <= 0 {
		c.Sequences = defaultSequences
	}
	if c.Events < minChainLength {
		c.Events = defaultEvents
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
}

// Stats holds the outcome of one seeding run.
type Stats struct {
	MatchesWritten   int
	SequencesWritten int
	EventsWritten    int
	GoalsWritten     int

	ChecksRun    int
	ChecksPassed int
	ChecksFailed int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
