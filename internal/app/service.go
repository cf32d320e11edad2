// Package service provides the core business service that implements
// the dependencies required by the HTTP API: corpus reads, snapshot
// lookups, similarity search, and cost model tuning.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/replay/internal/adapters/index"
	"github.com/okian/replay/internal/adapters/repository"
	"github.com/okian/replay/internal/adapters/scan"
	"github.com/okian/replay/internal/adapters/search"
	"github.com/okian/replay/internal/domain/align"
	"github.com/okian/replay/internal/domain/cost"
	"github.com/okian/replay/internal/domain/dedupe"
	"github.com/okian/replay/internal/domain/feature"
	"github.com/okian/replay/internal/domain/lexical"
	"github.com/okian/replay/internal/domain/model"
	"github.com/okian/replay/pkg/logger"
)

// Service assembles the corpus store, index, scan pool, and searcher.
// Components are constructed in Start so options can arrive in any order.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	index    *index.Index
	pool     *scan.Pool
	searcher *search.Searcher

	// Configuration
	corpusDir        string
	nearBallRadius   float64
	dtwRadius        int
	maxDistance      float64
	topN             int
	hybridCandidates int
	hybridDTW        float64
	hybridLexical    float64
	minDocFreq       int
	maxDocRatio      float64
	featureWeights   map[string]float64
	optionalFeatures map[string]bool
	scanWorkers      int
	buildOnStart     bool

	// State
	started   bool
	startedAt time.Time

	// Logging
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCorpusDir points the service at the directory of match files.
func WithCorpusDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.corpusDir = dir
		}
	}
}

// WithStore replaces the file-backed corpus store. Used by tests and by
// callers that load the corpus from somewhere other than a directory.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithNearBallRadius sets the distance within which a tracked player
// counts as part of the formation around the ball.
func WithNearBallRadius(radius float64) Option {
	return func(s *Service) {
		if radius > 0 {
			s.nearBallRadius = radius
		}
	}
}

// WithDTWRadius sets the alignment window radius.
func WithDTWRadius(radius int) Option {
	return func(s *Service) {
		if radius > 0 {
			s.dtwRadius = radius
		}
	}
}

// WithMaxDistance sets the per-step distance treated as total
// dissimilarity when normalizing alignment cost into a similarity.
func WithMaxDistance(d float64) Option {
	return func(s *Service) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithTopN sets the default number of results per search.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithHybridCandidates sets how many candidates each hybrid branch
// nominates before the weighted merge.
func WithHybridCandidates(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.hybridCandidates = n
		}
	}
}

// WithHybridWeights sets the blend weights of the hybrid ranking.
func WithHybridWeights(dtw, lexical float64) Option {
	return func(s *Service) {
		if dtw < 0 || lexical < 0 || dtw+lexical <= 0 {
			return
		}
		s.hybridDTW = dtw
		s.hybridLexical = lexical
	}
}

// WithDocFreqBounds sets the document frequency window for fitted terms.
func WithDocFreqBounds(minFreq int, maxRatio float64) Option {
	return func(s *Service) {
		if minFreq >= 1 {
			s.minDocFreq = minFreq
		}
		if maxRatio > 0 && maxRatio <= 1 {
			s.maxDocRatio = maxRatio
		}
	}
}

// WithFeatureWeights seeds the event distance weights. Unknown names and
// invalid values are skipped by the cost model.
func WithFeatureWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.featureWeights = weights
	}
}

// WithOptionalFeatures seeds the optional sub-cost toggles.
func WithOptionalFeatures(features map[string]bool) Option {
	return func(s *Service) {
		s.optionalFeatures = features
	}
}

// WithScanWorkers bounds the concurrency of corpus alignment scans.
func WithScanWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.scanWorkers = n
		}
	}
}

// WithBuildOnStart controls whether Start builds the corpus index or
// leaves it to the first query.
func WithBuildOnStart(build bool) Option {
	return func(s *Service) {
		s.buildOnStart = build
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		corpusDir:        "./corpus",
		nearBallRadius:   feature.DefaultNearBallRadius,
		dtwRadius:        align.DefaultRadius,
		maxDistance:      search.DefaultMaxDistance,
		topN:             search.DefaultTopN,
		hybridCandidates: search.DefaultHybridCandidates,
		hybridDTW:        search.DefaultHybridDTW,
		hybridLexical:    search.DefaultHybridLexical,
		minDocFreq:       lexical.DefaultMinDocFreq,
		maxDocRatio:      lexical.DefaultMaxDocRatio,
		scanWorkers:      runtime.NumCPU(),
		buildOnStart:     true,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components and, unless disabled, builds
// the corpus index so the first query does not pay the load.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	s.log.Info(ctx, "starting replay search service...")

	if s.store == nil {
		store, err := repository.NewFileStore(s.corpusDir,
			repository.WithLogger(s.log),
		)
		if err != nil {
			return fmt.Errorf("corpus store: %w", err)
		}
		s.store = store
	}

	extractor := feature.New(feature.WithNearBallRadius(s.nearBallRadius))
	s.index = index.New(s.store,
		index.WithLogger(s.log),
		index.WithExtractor(extractor),
		index.WithDeduper(dedupe.NewInMemoryDeduper()),
		index.WithMinDocFreq(s.minDocFreq),
		index.WithMaxDocRatio(s.maxDocRatio),
	)

	pool, err := scan.New(s.scanWorkers)
	if err != nil {
		return fmt.Errorf("scan pool: %w", err)
	}
	s.pool = pool

	s.searcher = search.New(s.index, s.pool,
		search.WithLogger(s.log),
		search.WithExtractor(extractor),
		search.WithCostModel(cost.New(
			cost.WithWeights(s.featureWeights),
			cost.WithOptionalFeatures(s.optionalFeatures),
		)),
		search.WithRadius(s.dtwRadius),
		search.WithMaxDistance(s.maxDistance),
		search.WithTopN(s.topN),
		search.WithHybridCandidates(s.hybridCandidates),
		search.WithHybridWeights(s.hybridDTW, s.hybridLexical),
	)

	if s.buildOnStart {
		// Warm up in the background so the server accepts requests right
		// away; early queries join the same singleflighted build. A failed
		// build parks the index built-but-empty and the service serves
		// empty results until a reindex.
		go func() {
			if _, err := s.index.Build(ctx); err != nil {
				s.log.Warn(ctx, "corpus build failed at startup",
					logger.Error(err))
			}
		}()
	}

	s.started = true
	s.startedAt = time.Now()
	s.log.Info(ctx, "replay search service started",
		logger.String("corpusDir", s.corpusDir),
		logger.Int("scanWorkers", s.pool.Cap()),
		logger.Int("dtwRadius", s.dtwRadius),
		logger.Int("topN", s.topN),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.log.Info(context.Background(), "stopping replay search service...")

	if s.pool != nil {
		s.pool.Release()
	}

	s.started = false
	s.log.Info(context.Background(), "replay search service stopped")
}

// Matches returns header metadata for every match in the corpus.
func (s *Service) Matches(ctx context.Context) ([]model.MatchInfo, error) {
	return s.store.Matches(ctx)
}

// Metadata returns header metadata for one match.
func (s *Service) Metadata(ctx context.Context, matchID string) (model.MatchInfo, error) {
	return s.store.Metadata(ctx, matchID)
}

// Goals returns the goals of one match with their build-up context.
func (s *Service) Goals(ctx context.Context, matchID string) ([]model.Goal, error) {
	return s.store.Goals(ctx, matchID)
}

// Plays returns the possession sequences of one match.
func (s *Service) Plays(ctx context.Context, matchID string) ([]model.Sequence, error) {
	return s.store.Sequences(ctx, matchID)
}

// Sequence returns one indexed possession chain by key.
func (s *Service) Sequence(ctx context.Context, key model.Key) (model.Sequence, error) {
	entry, err := s.index.Sequence(ctx, key)
	if err != nil {
		return model.Sequence{}, err
	}
	return entry.Sequence, nil
}

// Event returns one corpus event by key.
func (s *Service) Event(ctx context.Context, key model.EventKey) (model.Event, error) {
	return s.index.Event(ctx, key)
}

// SimilarEvents ranks corpus events against the query event.
func (s *Service) SimilarEvents(ctx context.Context, query model.Event, exclude *model.EventKey, topN int) ([]search.EventResult, error) {
	return s.searcher.SimilarEvents(ctx, query, exclude, topN)
}

// SimilarSequencesAligned ranks corpus chains by alignment distance.
func (s *Service) SimilarSequencesAligned(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]search.AlignedResult, error) {
	return s.searcher.SimilarSequencesAligned(ctx, query, exclude, topN)
}

// SimilarSequencesLexical ranks corpus chains by lexical similarity.
func (s *Service) SimilarSequencesLexical(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]search.SequenceResult, error) {
	return s.searcher.SimilarSequencesLexical(ctx, query, exclude, topN)
}

// SimilarSequencesHybrid ranks corpus chains by the blended score.
func (s *Service) SimilarSequencesHybrid(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]search.HybridResult, error) {
	return s.searcher.SimilarSequencesHybrid(ctx, query, exclude, topN)
}

// SetWeight adjusts one event distance weight on the live cost model.
// Returns false for unknown names or invalid values.
func (s *Service) SetWeight(name string, weight float64) bool {
	return s.searcher.SetWeight(name, weight)
}

// Weight reports one event distance weight of the live cost model.
func (s *Service) Weight(name string) (float64, bool) {
	return s.searcher.Weight(name)
}

// SetOptionalFeature toggles one optional sub-cost on the live cost model.
func (s *Service) SetOptionalFeature(name string, enabled bool) bool {
	return s.searcher.SetOptionalFeature(name, enabled)
}

// OptionalFeature reports one optional sub-cost toggle.
func (s *Service) OptionalFeature(name string) (bool, bool) {
	return s.searcher.OptionalFeature(name)
}

// Reindex drops the cached corpus and rebuilds the index from disk.
// Searches running during the rebuild keep the snapshot they started with.
func (s *Service) Reindex(ctx context.Context) error {
	if fs, ok := s.store.(*repository.FileStore); ok {
		fs.Invalidate()
	}
	s.index.Reset(ctx)
	_, err := s.index.Build(ctx)
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"status":       "ok",
		"started":      s.started,
		"corpus_dir":   s.corpusDir,
		"scan_workers": s.scanWorkers,
	}

	if !s.started {
		return stats
	}

	stats["uptime_seconds"] = int64(time.Since(s.startedAt).Seconds())
	stats["scan_pool_capacity"] = s.pool.Cap()
	stats["scan_pool_running"] = s.pool.Running()

	if snap := s.index.Snapshot(); snap != nil {
		st := snap.Stats()
		stats["index_built"] = true
		stats["matches"] = st.Matches
		stats["sequences"] = st.Sequences
		stats["events"] = st.Events
		stats["event_vocabulary"] = st.EventVocabulary
		stats["sequence_vocabulary"] = st.SequenceVocabulary
	} else {
		stats["index_built"] = false
	}

	return stats
}
