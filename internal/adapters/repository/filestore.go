package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/replay/internal/domain/model"
	"github.com/okian/replay/pkg/logger"
	"github.com/okian/replay/pkg/metrics"
)

// Corpus file naming. Every match contributes three files sharing the
// match id as stem.
const (
	metadataSuffix = "_metadata.json"
	eventsSuffix   = "_events.json"
	rostersSuffix  = "_rosters.json"
)

// FileStore serves corpus matches from a directory of JSON files. Parsed
// matches are cached for the life of the process; the corpus directory is
// treated as immutable while the service runs, so there is no eviction.
// A missing or unreadable match degrades to a warning on corpus-wide
// reads and an error on direct reads.
type FileStore struct {
	dir   string
	log   logger.Logger
	group singleflight.Group

	mu     sync.RWMutex
	ids    []string
	cache  map[string]*matchData
	listed bool
}

// matchData is one fully parsed match.
type matchData struct {
	info      model.MatchInfo
	sequences []model.Sequence
	goals     []model.Goal
}

// NewFileStore creates a corpus store over dir.
func NewFileStore(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, ErrNoCorpusDir
	}
	s := &FileStore{
		dir:   dir,
		log:   logger.Get(),
		cache: make(map[string]*matchData),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Matches returns header metadata for every readable match, sorted by
// date ascending. Matches whose files cannot be parsed are skipped.
func (s *FileStore) Matches(ctx context.Context) ([]model.MatchInfo, error) {
	ids, err := s.matchIDs(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]model.MatchInfo, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		md, err := s.match(ctx, id)
		if err != nil {
			s.log.Warn(ctx, "skipping unreadable match",
				logger.String("matchID", id),
				logger.Error(err))
			continue
		}
		infos = append(infos, md.info)
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].Date < infos[j].Date
	})
	return infos, nil
}

// Metadata returns header metadata for one match.
func (s *FileStore) Metadata(ctx context.Context, matchID string) (model.MatchInfo, error) {
	md, err := s.match(ctx, matchID)
	if err != nil {
		return model.MatchInfo{}, err
	}
	return md.info, nil
}

// Sequences returns the possession sequences of one match.
func (s *FileStore) Sequences(ctx context.Context, matchID string) ([]model.Sequence, error) {
	md, err := s.match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return md.sequences, nil
}

// Goals returns the goals of one match with their build-up context.
func (s *FileStore) Goals(ctx context.Context, matchID string) ([]model.Goal, error) {
	md, err := s.match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return md.goals, nil
}

// Invalidate drops the cached corpus so the next read re-scans the
// directory.
func (s *FileStore) Invalidate() {
	s.mu.Lock()
	s.ids = nil
	s.listed = false
	s.cache = make(map[string]*matchData)
	s.mu.Unlock()
}

// matchIDs lists the corpus once and caches the sorted id set. A corpus
// directory that does not exist yet reads as empty rather than failing,
// so a service can come up before its first seed.
func (s *FileStore) matchIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	if s.listed {
		ids := s.ids
		s.mu.RUnlock()
		return ids, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listed {
		return s.ids, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn(ctx, "corpus directory missing, serving empty corpus",
				logger.String("dir", s.dir))
			s.ids = nil
			s.listed = true
			return nil, nil
		}
		return nil, fmt.Errorf("list corpus %s: %w", s.dir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, metadataSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, metadataSuffix))
	}
	sort.Strings(ids)

	s.ids = ids
	s.listed = true
	return ids, nil
}

// match returns the parsed match, loading and caching it on first use.
// Concurrent loads of the same id collapse into one parse.
func (s *FileStore) match(ctx context.Context, matchID string) (*matchData, error) {
	s.mu.RLock()
	md, ok := s.cache[matchID]
	s.mu.RUnlock()
	if ok {
		return md, nil
	}

	v, err, _ := s.group.Do(matchID, func() (interface{}, error) {
		s.mu.RLock()
		md, ok := s.cache[matchID]
		s.mu.RUnlock()
		if ok {
			return md, nil
		}

		md, err := s.load(ctx, matchID)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.cache[matchID] = md
		s.mu.Unlock()
		return md, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*matchData), nil
}

// load parses one match from its three corpus files. Metadata is
// required; events and rosters degrade to empty with a warning so one
// bad file cannot hide the rest of the match.
func (s *FileStore) load(ctx context.Context, matchID string) (*matchData, error) {
	start := time.Now()

	metaBytes, err := os.ReadFile(filepath.Join(s.dir, matchID+metadataSuffix))
	if err != nil {
		metrics.RecordMatchLoadError()
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("read metadata %s: %w", matchID, err)
	}
	meta, err := decodeMetadata(metaBytes)
	if err != nil {
		metrics.RecordMatchLoadError()
		return nil, fmt.Errorf("match %s: %w", matchID, err)
	}

	roster := s.loadRoster(ctx, matchID)
	raws := s.loadEvents(ctx, matchID)

	events := normalizeEvents(raws, roster)
	sequences := groupSequences(matchID, events)

	md := &matchData{
		info:      matchInfo(matchID, meta),
		sequences: sequences,
		goals:     findGoals(raws, roster),
	}

	metrics.RecordMatchLoaded()
	metrics.RecordMatchLoadLatency(float64(time.Since(start).Milliseconds()))
	s.log.Debug(ctx, "loaded match",
		logger.String("matchID", matchID),
		logger.Int("sequences", len(sequences)),
		logger.Int("goals", len(md.goals)))
	return md, nil
}

// loadEvents reads the raw event feed. Missing or corrupt feeds degrade
// to an empty match so metadata stays listable.
func (s *FileStore) loadEvents(ctx context.Context, matchID string) []rawEvent {
	data, err := os.ReadFile(filepath.Join(s.dir, matchID+eventsSuffix))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn(ctx, "unreadable event feed",
				logger.String("matchID", matchID),
				logger.Error(err))
		}
		return nil
	}
	var raws []rawEvent
	if err := json.Unmarshal(data, &raws); err != nil {
		s.log.Warn(ctx, "corrupt event feed",
			logger.String("matchID", matchID),
			logger.Error(err))
		return nil
	}
	return raws
}

// loadRoster reads the player name map. Rosters only back-fill display
// names, so any failure degrades to an empty map.
func (s *FileStore) loadRoster(ctx context.Context, matchID string) map[string]string {
	data, err := os.ReadFile(filepath.Join(s.dir, matchID+rostersSuffix))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn(ctx, "unreadable roster",
				logger.String("matchID", matchID),
				logger.Error(err))
		}
		return nil
	}
	roster, err := decodeRoster(data)
	if err != nil {
		s.log.Warn(ctx, "corrupt roster",
			logger.String("matchID", matchID),
			logger.Error(err))
		return nil
	}
	return roster
}
