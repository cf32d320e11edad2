package index

import (
	"github.com/okian/replay/internal/domain/dedupe"
	"github.com/okian/replay/internal/domain/feature"
	"github.com/okian/replay/pkg/logger"
)

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithLogger sets a custom logger for the index.
func WithLogger(l logger.Logger) Option {
	return func(i *Index) {
		if l != nil {
			i.log = l
		}
	}
}

// WithDeduper sets the guard that drops duplicate sequence keys during
// builds.
func WithDeduper(d dedupe.Deduper) Option {
	return func(i *Index) {
		if d != nil {
			i.dedup = d
		}
	}
}

// WithExtractor sets the feature extractor used during builds.
func WithExtractor(e *feature.Extractor) Option {
	return func(i *Index) {
		if e != nil {
			i.extractor = e
		}
	}
}

// WithMinDocFreq sets the minimum document frequency for fitted terms.
func WithMinDocFreq(freq int) Option {
	return func(i *Index) {
		if freq >= 1 {
			i.minDocFreq = freq
		}
	}
}

// WithMaxDocRatio sets the maximum document ratio for fitted terms.
func WithMaxDocRatio(ratio float64) Option {
	return func(i *Index) {
		if ratio > 0 && ratio <= 1 {
			i.maxDocRatio = ratio
		}
	}
}
