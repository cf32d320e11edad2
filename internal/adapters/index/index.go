// Package index builds and serves the immutable corpus snapshot that
// searches run against.
package index

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/okian/replay/internal/adapters/repository"
	"github.com/okian/replay/internal/domain/dedupe"
	"github.com/okian/replay/internal/domain/feature"
	"github.com/okian/replay/internal/domain/lexical"
	"github.com/okian/replay/internal/domain/model"
	"github.com/okian/replay/internal/domain/token"
	"github.com/okian/replay/pkg/logger"
	"github.com/okian/replay/pkg/metrics"
)

// Entry is one indexed possession chain with everything a search needs:
// the sequence itself, its extracted feature records, and its token text.
type Entry struct {
	Key        model.Key
	Sequence   model.Sequence
	Features   []model.FeatureRecord
	Text       string
	EventTexts []string
}

// Snapshot is the immutable result of one corpus build. Vectorizer row i
// corresponds to Entries[i] for sequences and EventKeys[i] for events.
type Snapshot struct {
	Entries    []Entry
	EventKeys  []model.EventKey
	Events     *lexical.Vectorizer
	Sequences  *lexical.Vectorizer
	MatchCount int

	byKey map[model.Key]int
}

// Lookup returns the indexed entry for a sequence key.
func (s *Snapshot) Lookup(key model.Key) (Entry, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// LookupEvent returns one event addressed by sequence key and position.
func (s *Snapshot) LookupEvent(key model.EventKey) (model.Event, bool) {
	entry, ok := s.Lookup(key.Key)
	if !ok || key.EventIndex < 0 || key.EventIndex >= len(entry.Sequence.Events) {
		return model.Event{}, false
	}
	return entry.Sequence.Events[key.EventIndex], true
}

// Stats summarizes a snapshot for operational surfaces.
type Stats struct {
	Matches            int `json:"matches"`
	Sequences          int `json:"sequences"`
	Events             int `json:"events"`
	EventVocabulary    int `json:"eventVocabulary"`
	SequenceVocabulary int `json:"sequenceVocabulary"`
}

// Stats reports the snapshot's corpus and vocabulary sizes.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Matches:            s.MatchCount,
		Sequences:          len(s.Entries),
		Events:             len(s.EventKeys),
		EventVocabulary:    s.Events.VocabSize(),
		SequenceVocabulary: s.Sequences.VocabSize(),
	}
}

// Index owns the corpus snapshot lifecycle: build once, serve lock-free,
// reset on demand. A failed build parks the index in a built-but-empty
// state so searches degrade to empty results instead of re-failing.
type Index struct {
	store       repository.Store
	extractor   *feature.Extractor
	log         logger.Logger
	dedup       dedupe.Deduper
	minDocFreq  int
	maxDocRatio float64

	group    singleflight.Group
	snapshot atomic.Pointer[Snapshot]
}

// New creates an index over the given corpus store.
func New(store repository.Store, opts ...Option) *Index {
	idx := &Index{
		store:       store,
		extractor:   feature.New(),
		log:         logger.Get(),
		dedup:       dedupe.NewInMemoryDeduper(),
		minDocFreq:  lexical.DefaultMinDocFreq,
		maxDocRatio: lexical.DefaultMaxDocRatio,
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Build returns the corpus snapshot, building it on first call.
// Concurrent and repeated triggers collapse into one execution; every
// in-flight caller observes the same result or the same error. After a
// failure the index stays built-but-empty until Reset.
func (i *Index) Build(ctx context.Context) (*Snapshot, error) {
	if snap := i.snapshot.Load(); snap != nil {
		return snap, nil
	}

	v, err, _ := i.group.Do("build", func() (interface{}, error) {
		if snap := i.snapshot.Load(); snap != nil {
			return snap, nil
		}

		snap, err := i.build(ctx)
		if err != nil {
			metrics.RecordIndexBuildError()
			i.log.Error(ctx, "corpus build failed, serving empty index", logger.Error(err))
			i.snapshot.Store(emptySnapshot(i.minDocFreq, i.maxDocRatio))
			return nil, err
		}
		i.snapshot.Store(snap)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Snapshot returns the current snapshot without triggering a build.
func (i *Index) Snapshot() *Snapshot {
	return i.snapshot.Load()
}

// Reset discards the snapshot. The next Build re-reads the corpus.
func (i *Index) Reset(ctx context.Context) {
	i.snapshot.Store(nil)
	metrics.RecordIndexReset()
	i.log.Info(ctx, "index reset")
}

// Sequence returns the indexed entry for a key, building if needed.
func (i *Index) Sequence(ctx context.Context, key model.Key) (Entry, error) {
	snap, err := i.Build(ctx)
	if err != nil {
		return Entry{}, err
	}
	entry, ok := snap.Lookup(key)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrSequenceNotFound, key)
	}
	return entry, nil
}

// Event returns one corpus event by key, building if needed.
func (i *Index) Event(ctx context.Context, key model.EventKey) (model.Event, error) {
	snap, err := i.Build(ctx)
	if err != nil {
		return model.Event{}, err
	}
	ev, ok := snap.LookupEvent(key)
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, key)
	}
	return ev, nil
}

// matchSlice is the extraction result of one match, kept in match order
// so builds are deterministic regardless of goroutine scheduling.
type matchSlice struct {
	entries []Entry
}

func (i *Index) build(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	metrics.RecordIndexBuild()

	infos, err := i.store.Matches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}

	slices := make([]matchSlice, len(infos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for n, info := range infos {
		g.Go(func() error {
			sequences, err := i.store.Sequences(gctx, info.ID)
			if err != nil {
				return fmt.Errorf("load match %s: %w", info.ID, err)
			}
			entries := make([]Entry, 0, len(sequences))
			for _, seq := range sequences {
				eventTexts := make([]string, len(seq.Events))
				for e, ev := range seq.Events {
					eventTexts[e] = token.Event(ev)
				}
				entries = append(entries, Entry{
					Key:        model.Key{MatchID: seq.MatchID, SequenceID: seq.SequenceID},
					Sequence:   seq,
					Features:   i.extractor.Sequence(seq.Events),
					Text:       token.Sequence(seq.Events),
					EventTexts: eventTexts,
				})
			}
			slices[n] = matchSlice{entries: entries}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// The store contract does not promise key uniqueness across matches;
	// a duplicate would silently desynchronize vectorizer rows from
	// entries. First occurrence wins, in match order.
	i.dedup.Reset()
	var entries []Entry
	for _, slice := range slices {
		for _, entry := range slice.entries {
			if i.dedup.SeenAndRecord(ctx, entry.Key) {
				i.log.Warn(ctx, "duplicate sequence key, dropping",
					logger.String("key", entry.Key.String()))
				continue
			}
			entries = append(entries, entry)
		}
	}

	byKey := make(map[model.Key]int, len(entries))
	sequenceTexts := make([]string, len(entries))
	var eventKeys []model.EventKey
	var eventTexts []string
	for n, entry := range entries {
		byKey[entry.Key] = n
		sequenceTexts[n] = entry.Text
		for e := range entry.Sequence.Events {
			eventKeys = append(eventKeys, model.EventKey{Key: entry.Key, EventIndex: e})
			eventTexts = append(eventTexts, entry.EventTexts[e])
		}
	}

	events := lexical.New(lexical.WithMinDocFreq(i.minDocFreq), lexical.WithMaxDocRatio(i.maxDocRatio))
	events.Fit(eventTexts)
	sequences := lexical.New(lexical.WithMinDocFreq(i.minDocFreq), lexical.WithMaxDocRatio(i.maxDocRatio))
	sequences.Fit(sequenceTexts)

	snap := &Snapshot{
		Entries:    entries,
		EventKeys:  eventKeys,
		Events:     events,
		Sequences:  sequences,
		MatchCount: len(infos),
		byKey:      byKey,
	}

	elapsed := time.Since(start).Milliseconds()
	metrics.RecordIndexBuildDuration(float64(elapsed))
	metrics.UpdateIndexBuildLastUnix(time.Now().Unix())
	metrics.UpdateCorpusMatches(snap.MatchCount)
	metrics.UpdateCorpusSequences(len(snap.Entries))
	metrics.UpdateCorpusEvents(len(snap.EventKeys))
	metrics.UpdateEventVocabulary(events.VocabSize())
	metrics.UpdateSequenceVocabulary(sequences.VocabSize())

	i.log.Info(ctx, "corpus index built",
		logger.Int("matches", snap.MatchCount),
		logger.Int("sequences", len(snap.Entries)),
		logger.Int("events", len(snap.EventKeys)),
		logger.Int("eventVocabulary", events.VocabSize()),
		logger.Int("sequenceVocabulary", sequences.VocabSize()),
		logger.Int64("durationMs", elapsed))
	return snap, nil
}

// emptySnapshot is the built-but-empty state stored after a failed build.
// Vectorizers are fitted over nothing so lookups and searches stay valid.
func emptySnapshot(minDocFreq int, maxDocRatio float64) *Snapshot {
	events := lexical.New(lexical.WithMinDocFreq(minDocFreq), lexical.WithMaxDocRatio(maxDocRatio))
	events.Fit(nil)
	sequences := lexical.New(lexical.WithMinDocFreq(minDocFreq), lexical.WithMaxDocRatio(maxDocRatio))
	sequences.Fit(nil)
	return &Snapshot{
		Events:    events,
		Sequences: sequences,
		byKey:     map[model.Key]int{},
	}
}
