package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/replay/internal/seeder"
	"github.com/okian/replay/pkg/logger"
)

// Default configuration constants.
const (
	defaultMatches   = 8
	defaultSequences = 12
	defaultEvents    = 6
	defaultTimeout   = 30 * time.Second
	runTimeout       = 10 * time.Minute
)

func main() {
	var (
		dir       = flag.String("dir", "./corpus", "Output directory for corpus files")
		matches   = flag.Int("matches", defaultMatches, "Number of matches to generate")
		sequences = flag.Int("sequences", defaultSequences, "Possession chains per match")
		events    = flag.Int("events", defaultEvents, "Events per chain (upper bound)")
		baseURL   = flag.String("base-url", "http://localhost:9080", "Base URL of a running service")
		verify    = flag.Bool("verify", false, "Query every seeded chain back and check it ranks first")
		workers   = flag.Int("workers", runtime.NumCPU(), "Concurrent generation and verification workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout during verification")
		verbose   = flag.Bool("v", false, "Log every verified chain")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := seeder.Config{
		Dir:       *dir,
		Matches:   *matches,
		Sequences: *sequences,
		Events:    *events,
		BaseURL:   *baseURL,
		Verify:    *verify,
		Workers:   *workers,
		Timeout:   *timeout,
		Verbose:   *verbose,
	}

	if _, err := seeder.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
