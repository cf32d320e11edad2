package search

import (
	"github.com/okian/replay/internal/domain/cost"
	"github.com/okian/replay/internal/domain/feature"
	"github.com/okian/replay/pkg/logger"
)

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger used for search diagnostics.
func WithLogger(log logger.Logger) Option {
	return func(s *Searcher) {
		if log != nil {
			s.log = log
		}
	}
}

// WithExtractor sets the query feature extractor.
func WithExtractor(ex *feature.Extractor) Option {
	return func(s *Searcher) {
		if ex != nil {
			s.extractor = ex
		}
	}
}

// WithCostModel seeds the event distance model.
func WithCostModel(m *cost.Model) Option {
	return func(s *Searcher) {
		if m != nil {
			s.model.Store(m)
		}
	}
}

// WithRadius sets the alignment window radius.
func WithRadius(radius int) Option {
	return func(s *Searcher) {
		if radius > 0 {
			s.radius = radius
		}
	}
}

// WithMaxDistance sets the per-step distance bound used to map alignment
// distance onto a similarity score.
func WithMaxDistance(d float64) Option {
	return func(s *Searcher) {
		if d > 0 {
			s.maxDistance = d
		}
	}
}

// WithTopN sets the default result count when a request does not name one.
func WithTopN(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithHybridCandidates sets how many candidates each branch nominates
// before blending.
func WithHybridCandidates(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.hybridCandidates = n
		}
	}
}

// WithHybridWeights sets the blend weights for the alignment and lexical
// branches. Both must be non-negative and sum to a positive value.
func WithHybridWeights(dtw, lexical float64) Option {
	return func(s *Searcher) {
		if dtw < 0 || lexical < 0 || dtw+lexical <= 0 {
			return
		}
		s.hybridDTW = dtw
		s.hybridLexical = lexical
	}
}
