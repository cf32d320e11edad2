package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/replay/pkg/logger"
)

// File naming mirrors what the repository layer looks for when it scans
// a corpus directory.
const (
	metadataSuffix = "_metadata.json"
	eventsSuffix   = "_events.json"
	rostersSuffix  = "_rosters.json"

	dirPerm  = 0o750
	filePerm = 0o600
)

// Verification tuning.
const (
	// reflexiveMinScore is the lowest acceptable similarity for a chain
	// queried against itself. Hybrid scoring of an identical chain lands
	// at 1.0 up to float rounding.
	reflexiveMinScore = 0.99

	// probeQueueFactor sizes the probe queue relative to the worker count
	// so producers rarely block.
	probeQueueFactor = 4
)

// Run generates a synthetic corpus, writes it under cfg.Dir, and, when
// cfg.Verify is set, checks a running service finds every seeded chain.
func Run(ctx context.Context, cfg Config) (*Stats, error) {
	cfg.setDefaults()
	log := logger.Get()

	stats := &Stats{StartTime: time.Now()}

	matches, err := generateMatches(ctx, &cfg, stats)
	if err != nil {
		return stats, err
	}

	if err := writeCorpus(ctx, &cfg, matches); err != nil {
		return stats, err
	}
	log.Info(ctx, "corpus written",
		logger.String("dir", cfg.Dir),
		logger.Int("matches", stats.MatchesWritten),
		logger.Int("sequences", stats.SequencesWritten),
		logger.Int("events", stats.EventsWritten),
		logger.Int("goals", stats.GoalsWritten))

	if cfg.Verify {
		if err := verifyCorpus(ctx, &cfg, matches, stats); err != nil {
			stats.EndTime = time.Now()
			stats.Duration = stats.EndTime.Sub(stats.StartTime)
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "seeding complete",
		logger.Int("matches", stats.MatchesWritten),
		logger.Int("checksRun", stats.ChecksRun),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

// writeCorpus persists each match as the three-file set the repository
// scans for. Metadata goes out as a single-element array, matching the
// provider feed shape.
func writeCorpus(ctx context.Context, cfg *Config, matches []Match) error {
	if err := os.MkdirAll(cfg.Dir, dirPerm); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}
	for i := range matches {
		select {
		case <-ctx.Done():
			return fmt.Errorf("write cancelled: %w", ctx.Err())
		default:
		}
		if err := writeMatch(cfg.Dir, &matches[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeMatch(dir string, m *Match) error {
	if err := writeJSONFile(dir, m.ID+metadataSuffix, []metadataRecord{m.Metadata}); err != nil {
		return err
	}
	if err := writeJSONFile(dir, m.ID+eventsSuffix, m.Events); err != nil {
		return err
	}
	return writeJSONFile(dir, m.ID+rostersSuffix, m.Rosters)
}

func writeJSONFile(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// verifyCorpus asks a running service to re-scan the corpus, fetches the
// chains back per match, and queries each chain against the index. A
// healthy index returns the chain itself as the top hit with similarity
// at or near 1.
func verifyCorpus(ctx context.Context, cfg *Config, matches []Match, stats *Stats) error {
	log := logger.Get()
	client := newProbeClient(cfg.BaseURL, cfg.Timeout)

	if err := client.checkHealth(ctx); err != nil {
		return fmt.Errorf("%w: service at %s not reachable: %v", ErrVerificationFailed, cfg.BaseURL, err)
	}
	if err := client.reindex(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	var probes []chainProbe
	var countMismatches int
	for i := range matches {
		got, err := client.plays(ctx, matches[i].ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
		if len(got) != cfg.Sequences {
			countMismatches++
			log.Warn(ctx, "seeded chain count mismatch",
				logger.String("matchId", matches[i].ID),
				logger.Int("want", cfg.Sequences),
				logger.Int("got", len(got)))
		}
		probes = append(probes, got...)
	}

	var run, passed, failed atomic.Int64
	queue := make(chan chainProbe, cfg.Workers*probeQueueFactor)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case probe, ok := <-queue:
					if !ok {
						return
					}
					run.Add(1)
					if err := verifyChain(ctx, client, probe); err != nil {
						failed.Add(1)
						log.Warn(ctx, "chain failed verification",
							logger.String("matchId", probe.matchID),
							logger.Int("sequenceId", probe.sequenceID),
							logger.Error(err))
						continue
					}
					passed.Add(1)
					if cfg.Verbose {
						log.Info(ctx, "chain verified",
							logger.String("matchId", probe.matchID),
							logger.Int("sequenceId", probe.sequenceID))
					}
				}
			}
		}()
	}

feed:
	for _, p := range probes {
		select {
		case <-ctx.Done():
			break feed
		case queue <- p:
		}
	}
	close(queue)
	wg.Wait()

	stats.ChecksRun = int(run.Load()) + len(matches)
	stats.ChecksPassed = int(passed.Load()) + len(matches) - countMismatches
	stats.ChecksFailed = int(failed.Load()) + countMismatches

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: cancelled: %v", ErrVerificationFailed, ctxErr)
	}
	if stats.ChecksFailed > 0 {
		return fmt.Errorf("%w: %d of %d checks failed", ErrVerificationFailed, stats.ChecksFailed, stats.ChecksRun)
	}
	log.Info(ctx, "corpus verified",
		logger.Int("chains", int(run.Load())),
		logger.Int("passed", int(passed.Load())))
	return nil
}

// verifyChain queries one chain back against the index and checks the
// top hit is the chain itself.
func verifyChain(ctx context.Context, client *probeClient, probe chainProbe) error {
	hits, err := client.searchSequence(ctx, probe.events, 1)
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		return ErrNoResults
	}
	top := hits[0]
	if top.MatchID != probe.matchID || top.SequenceID != probe.sequenceID {
		return fmt.Errorf("%w: got %s/%d", ErrWrongTopHit, top.MatchID, top.SequenceID)
	}
	if top.Similarity < reflexiveMinScore {
		return fmt.Errorf("%w: %.4f < %.2f", ErrLowSimilarity, top.Similarity, reflexiveMinScore)
	}
	return nil
}
