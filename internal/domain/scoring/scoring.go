// Package scoring converts raw comparison measures into similarity
// scores in [0, 1] and blends the alignment and lexical branches of a
// hybrid ranking into one figure.
package scoring

import "math"

// Default fusion configuration. MaxStepDistance is the per-step warp
// distance treated as total dissimilarity; the weights follow the
// alignment-favoring blend the ranker ships with.
const (
	DefaultMaxStepDistance = 150.0
	DefaultAlignedWeight   = 0.6
	DefaultLexicalWeight   = 0.4
)

// Option applies a configuration option to the Fusion.
type Option func(*Fusion)

// WithMaxStepDistance sets the per-step distance bound used to map warp
// distance onto a similarity. Non-positive values keep the default.
func WithMaxStepDistance(d float64) Option {
	return func(f *Fusion) {
		if d > 0 {
			f.maxStepDistance = d
		}
	}
}

// WithWeights sets the blend weights of the alignment and lexical
// branches. Both must be non-negative and sum to a positive value.
func WithWeights(aligned, lexical float64) Option {
	return func(f *Fusion) {
		if aligned < 0 || lexical < 0 || aligned+lexical <= 0 {
			return
		}
		f.alignedWeight = aligned
		f.lexicalWeight = lexical
	}
}

// Fusion normalizes alignment distances and blends branch scores. It is
// immutable after construction and safe for concurrent use.
type Fusion struct {
	maxStepDistance float64
	alignedWeight   float64
	lexicalWeight   float64
}

// New creates a Fusion with the default normalization bound and weights.
func New(opts ...Option) *Fusion {
	f := &Fusion{
		maxStepDistance: DefaultMaxStepDistance,
		alignedWeight:   DefaultAlignedWeight,
		lexicalWeight:   DefaultLexicalWeight,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Weights reports the configured blend weights.
func (f *Fusion) Weights() (aligned, lexical float64) {
	return f.alignedWeight, f.lexicalWeight
}

// AlignmentSimilarity converts the warp distance between sequences of
// length n and m into a score in [0, 1]. The distance is first averaged
// over the longer sequence, then normalized by the per-step bound; an
// infinite distance, as reported for an empty side, scores zero.
func (f *Fusion) AlignmentSimilarity(distance float64, n, m int) float64 {
	pathLen := n
	if m > n {
		pathLen = m
	}
	normalized := distance
	if pathLen > 0 {
		normalized = distance / float64(pathLen)
	}
	return math.Max(0, 1-normalized/f.maxStepDistance)
}

// Blend merges the two branch scores by the configured weights. A branch
// that never saw the candidate contributes exactly zero, so a chain found
// by a single branch is never inflated past what that branch gave it.
func (f *Fusion) Blend(aligned, lexical float64) float64 {
	return f.alignedWeight*aligned + f.lexicalWeight*lexical
}
