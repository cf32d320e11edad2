// Package search ranks corpus possession chains and events against a
// query using alignment distance, lexical similarity, or a blend of both.
package search

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/okian/replay/internal/adapters/index"
	"github.com/okian/replay/internal/adapters/scan"
	"github.com/okian/replay/internal/domain/align"
	"github.com/okian/replay/internal/domain/cost"
	"github.com/okian/replay/internal/domain/feature"
	"github.com/okian/replay/internal/domain/lexical"
	"github.com/okian/replay/internal/domain/model"
	"github.com/okian/replay/internal/domain/scoring"
	"github.com/okian/replay/internal/domain/token"
	"github.com/okian/replay/pkg/logger"
	"github.com/okian/replay/pkg/metrics"
)

// Default search configuration. Normalization and blend defaults come
// from the scoring package so tuning stays in one place.
const (
	DefaultTopN             = 10
	DefaultMaxDistance      = scoring.DefaultMaxStepDistance
	DefaultHybridCandidates = 50
	DefaultHybridDTW        = scoring.DefaultAlignedWeight
	DefaultHybridLexical    = scoring.DefaultLexicalWeight
)

// Method labels used on metrics and the HTTP surface.
const (
	MethodEvent   = "event"
	MethodAligned = "dtw"
	MethodLexical = "tfidf"
	MethodHybrid  = "hybrid"
)

// Searcher runs similarity queries over the built corpus snapshot.
// Alignment fanouts share one scan pool; the cost model is swapped
// atomically so weight changes never tear a running search.
type Searcher struct {
	index     *index.Index
	pool      *scan.Pool
	extractor *feature.Extractor
	log       logger.Logger

	model  atomic.Pointer[cost.Model]
	fusion *scoring.Fusion

	radius           int
	maxDistance      float64
	topN             int
	hybridCandidates int
	hybridDTW        float64
	hybridLexical    float64
}

// New creates a searcher over the given index and scan pool. The query
// extractor must match the one the index was built with or distances skew.
func New(idx *index.Index, pool *scan.Pool, opts ...Option) *Searcher {
	s := &Searcher{
		index:            idx,
		pool:             pool,
		extractor:        feature.New(),
		log:              logger.Get(),
		radius:           align.DefaultRadius,
		maxDistance:      DefaultMaxDistance,
		topN:             DefaultTopN,
		hybridCandidates: DefaultHybridCandidates,
		hybridDTW:        DefaultHybridDTW,
		hybridLexical:    DefaultHybridLexical,
	}
	s.model.Store(cost.New())
	for _, opt := range opts {
		opt(s)
	}
	s.fusion = scoring.New(
		scoring.WithMaxStepDistance(s.maxDistance),
		scoring.WithWeights(s.hybridDTW, s.hybridLexical),
	)
	return s
}

// SetWeight atomically replaces the cost model with one carrying the new
// weight. Returns false for unknown names or invalid values.
func (s *Searcher) SetWeight(name string, weight float64) bool {
	for {
		current := s.model.Load()
		next := current.Clone()
		if !next.SetWeight(name, weight) {
			return false
		}
		if s.model.CompareAndSwap(current, next) {
			return true
		}
	}
}

// Weight reports a feature weight of the active cost model.
func (s *Searcher) Weight(name string) (float64, bool) {
	return s.model.Load().Weight(name)
}

// SetOptionalFeature toggles an optional sub-cost on the active model.
func (s *Searcher) SetOptionalFeature(name string, enabled bool) bool {
	for {
		current := s.model.Load()
		next := current.Clone()
		if !next.SetOptionalFeature(name, enabled) {
			return false
		}
		if s.model.CompareAndSwap(current, next) {
			return true
		}
	}
}

// OptionalFeature reports an optional sub-cost toggle of the active model.
func (s *Searcher) OptionalFeature(name string) (bool, bool) {
	return s.model.Load().OptionalFeature(name)
}

// SimilarEvents ranks corpus events against a single query event by
// lexical similarity over event tokens.
func (s *Searcher) SimilarEvents(ctx context.Context, query model.Event, exclude *model.EventKey, topN int) ([]EventResult, error) {
	start := time.Now()
	metrics.RecordSearch(MethodEvent)

	results, err := s.events(ctx, query, exclude, topN)
	metrics.RecordSearchLatency(MethodEvent, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSearchError(MethodEvent)
		return nil, err
	}
	metrics.RecordSearchResultCount(MethodEvent, len(results))
	return results, nil
}

// SimilarSequencesAligned ranks every corpus sequence by alignment
// distance to the query, ascending.
func (s *Searcher) SimilarSequencesAligned(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]AlignedResult, error) {
	start := time.Now()
	metrics.RecordSearch(MethodAligned)

	results, err := s.aligned(ctx, query, exclude, topN)
	metrics.RecordSearchLatency(MethodAligned, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSearchError(MethodAligned)
		return nil, err
	}
	metrics.RecordSearchResultCount(MethodAligned, len(results))
	return results, nil
}

// SimilarSequencesLexical ranks corpus sequences by cosine similarity
// over sequence tokens.
func (s *Searcher) SimilarSequencesLexical(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]SequenceResult, error) {
	start := time.Now()
	metrics.RecordSearch(MethodLexical)

	results, err := s.lexicalSequences(ctx, query, exclude, topN)
	metrics.RecordSearchLatency(MethodLexical, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSearchError(MethodLexical)
		return nil, err
	}
	metrics.RecordSearchResultCount(MethodLexical, len(results))
	return results, nil
}

// SimilarSequencesHybrid blends both rankings: each branch nominates its
// top candidates, scores merge per key with a missing branch contributing
// exactly zero, and the blend sorts descending.
func (s *Searcher) SimilarSequencesHybrid(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]HybridResult, error) {
	start := time.Now()
	metrics.RecordSearch(MethodHybrid)

	results, err := s.hybrid(ctx, query, exclude, topN)
	metrics.RecordSearchLatency(MethodHybrid, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordSearchError(MethodHybrid)
		return nil, err
	}
	metrics.RecordSearchResultCount(MethodHybrid, len(results))
	return results, nil
}

func (s *Searcher) events(ctx context.Context, query model.Event, exclude *model.EventKey, topN int) ([]EventResult, error) {
	snap, err := s.index.Build(ctx)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.topN
	}

	queryVec, err := snap.Events.Transform(token.Event(query))
	if err != nil {
		return nil, err
	}

	// One extra candidate absorbs the query's own row when excluded.
	matches, err := snap.Events.TopN(queryVec, topN+1, lexical.MinScore)
	if err != nil {
		return nil, err
	}

	results := make([]EventResult, 0, topN)
	for _, m := range matches {
		key := snap.EventKeys[m.Row]
		if exclude != nil && key == *exclude {
			continue
		}
		ev, ok := snap.LookupEvent(key)
		if !ok {
			continue
		}
		results = append(results, EventResult{
			EventKey:   key,
			Event:      ev.KeyPlayersOnly(),
			Similarity: m.Score,
		})
		if len(results) == topN {
			break
		}
	}
	return results, nil
}

func (s *Searcher) aligned(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]AlignedResult, error) {
	snap, err := s.index.Build(ctx)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.topN
	}
	if len(query) == 0 {
		return []AlignedResult{}, nil
	}

	features := s.extractor.Sequence(query)
	m := s.model.Load()
	aligner := align.New(m.EventDistance, align.WithRadius(s.radius))

	type scanResult struct {
		distance float64
		path     model.Path
	}
	scans := make([]scanResult, len(snap.Entries))
	err = s.pool.Each(ctx, len(snap.Entries), func(_ context.Context, i int) {
		d, p := aligner.Align(features, snap.Entries[i].Features)
		scans[i] = scanResult{distance: d, path: p}
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordAlignments(len(snap.Entries))
	s.log.Debug(ctx, "alignment scan complete",
		logger.Int("corpus", len(snap.Entries)),
		logger.Int("query_events", len(features)))

	order := make([]int, len(snap.Entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := scans[order[a]].distance, scans[order[b]].distance
		if da != db {
			return da < db
		}
		return lessKey(snap.Entries[order[a]].Key, snap.Entries[order[b]].Key)
	})

	results := make([]AlignedResult, 0, topN)
	for _, i := range order {
		entry := snap.Entries[i]
		if exclude != nil && entry.Key == *exclude {
			continue
		}
		results = append(results, AlignedResult{
			SequenceResult: sequenceResult(entry, s.fusion.AlignmentSimilarity(scans[i].distance, len(features), len(entry.Features))),
			Distance:       scans[i].distance,
			Path:           scans[i].path,
		})
		if len(results) == topN {
			break
		}
	}
	return results, nil
}

func (s *Searcher) lexicalSequences(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]SequenceResult, error) {
	snap, err := s.index.Build(ctx)
	if err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = s.topN
	}
	if len(query) == 0 {
		return []SequenceResult{}, nil
	}

	queryVec, err := snap.Sequences.Transform(token.Sequence(query))
	if err != nil {
		return nil, err
	}

	matches, err := snap.Sequences.TopN(queryVec, topN+1, lexical.MinScore)
	if err != nil {
		return nil, err
	}

	results := make([]SequenceResult, 0, topN)
	for _, m := range matches {
		entry := snap.Entries[m.Row]
		if exclude != nil && entry.Key == *exclude {
			continue
		}
		results = append(results, sequenceResult(entry, m.Score))
		if len(results) == topN {
			break
		}
	}
	return results, nil
}

func (s *Searcher) hybrid(ctx context.Context, query []model.Event, exclude *model.Key, topN int) ([]HybridResult, error) {
	if topN <= 0 {
		topN = s.topN
	}

	aligned, err := s.aligned(ctx, query, exclude, s.hybridCandidates)
	if err != nil {
		return nil, err
	}
	lexicals, err := s.lexicalSequences(ctx, query, exclude, s.hybridCandidates)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		base    SequenceResult
		dtw     float64
		lexical float64
		path    model.Path
		hasDTW  bool
	}
	byKey := make(map[model.Key]*candidate, len(aligned)+len(lexicals))
	order := make([]model.Key, 0, len(aligned)+len(lexicals))

	for _, r := range aligned {
		byKey[r.Key] = &candidate{base: r.SequenceResult, dtw: r.Similarity, path: r.Path, hasDTW: true}
		order = append(order, r.Key)
	}
	for _, r := range lexicals {
		if c, ok := byKey[r.Key]; ok {
			c.lexical = r.Similarity
			continue
		}
		byKey[r.Key] = &candidate{base: r, lexical: r.Similarity}
		order = append(order, r.Key)
	}

	results := make([]HybridResult, 0, len(order))
	for _, key := range order {
		c := byKey[key]
		hr := HybridResult{
			SequenceResult:    c.base,
			DTWSimilarity:     c.dtw,
			LexicalSimilarity: c.lexical,
		}
		hr.Similarity = s.fusion.Blend(c.dtw, c.lexical)
		if c.hasDTW {
			hr.Path = c.path
		}
		results = append(results, hr)
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Similarity != results[b].Similarity {
			return results[a].Similarity > results[b].Similarity
		}
		return lessKey(results[a].Key, results[b].Key)
	})
	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

func sequenceResult(entry index.Entry, similarity float64) SequenceResult {
	events := make([]model.Event, len(entry.Sequence.Events))
	for i, ev := range entry.Sequence.Events {
		events[i] = ev.KeyPlayersOnly()
	}
	return SequenceResult{
		Key:           entry.Key,
		TeamID:        entry.Sequence.TeamID,
		Time:          entry.Sequence.Time,
		SetpieceLabel: entry.Sequence.SetpieceLabel,
		EventCount:    len(events),
		Events:        events,
		Similarity:    similarity,
	}
}

func lessKey(a, b model.Key) bool {
	if a.MatchID != b.MatchID {
		return a.MatchID < b.MatchID
	}
	return a.SequenceID < b.SequenceID
}
