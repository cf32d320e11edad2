// Package lexical implements a TF-IDF vectorizer over whitespace-separated
// token documents and cosine scoring against the fitted corpus.
package lexical

import (
	"math"
	"sort"
	"strings"
)

// Vocabulary filter defaults. Terms must appear in at least MinDocFreq
// documents and in at most MaxDocRatio of all documents.
const (
	DefaultMinDocFreq  = 2
	DefaultMaxDocRatio = 0.95
)

// MinScore is the floor below which cosine scores are treated as noise.
const MinScore = 0.01

// Vector is a sparse document row. Indices are vocabulary columns in
// ascending order with their TF-IDF values alongside. Rows produced by the
// vectorizer are L2 normalized, so a dot product is a cosine similarity.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the sparse dot product of two vectors.
func (v Vector) Dot(w Vector) float64 {
	var sum float64
	for i, j := 0, 0; i < len(v.Indices) && j < len(w.Indices); {
		switch {
		case v.Indices[i] < w.Indices[j]:
			i++
		case v.Indices[i] > w.Indices[j]:
			j++
		default:
			sum += v.Values[i] * w.Values[j]
			i++
			j++
		}
	}
	return sum
}

// Match pairs a fitted document row with its cosine score.
type Match struct {
	Row   int
	Score float64
}

// Option applies a configuration option to the Vectorizer.
type Option func(*Vectorizer)

// WithMinDocFreq sets the minimum document frequency. Values below one keep
// the default.
func WithMinDocFreq(freq int) Option {
	return func(v *Vectorizer) {
		if freq >= 1 {
			v.minDocFreq = freq
		}
	}
}

// WithMaxDocRatio sets the maximum document frequency ratio. Values outside
// (0, 1] keep the default.
func WithMaxDocRatio(ratio float64) Option {
	return func(v *Vectorizer) {
		if ratio > 0 && ratio <= 1 {
			v.maxDocRatio = ratio
		}
	}
}

// Vectorizer learns a vocabulary and inverse document frequencies from a
// document corpus, then embeds documents into the fitted term space. Fit
// must complete before Transform or TopN; after that the vectorizer is
// immutable and safe for concurrent use.
type Vectorizer struct {
	minDocFreq  int
	maxDocRatio float64

	fitted bool
	vocab  map[string]int
	idf    []float64
	rows   []Vector
}

// New creates a Vectorizer with configuration options.
func New(opts ...Option) *Vectorizer {
	v := &Vectorizer{
		minDocFreq:  DefaultMinDocFreq,
		maxDocRatio: DefaultMaxDocRatio,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Fit learns the vocabulary from docs and embeds every document. Terms
// outside the document frequency bounds are dropped. A corpus whose entire
// vocabulary is filtered away still fits; every later score is then zero.
func (v *Vectorizer) Fit(docs []string) {
	n := len(docs)

	// Document frequency per term, each document counted once.
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range strings.Fields(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	maxDocCount := v.maxDocRatio * float64(n)
	kept := make([]string, 0, len(df))
	for term, count := range df {
		if count < v.minDocFreq || float64(count) > maxDocCount {
			continue
		}
		kept = append(kept, term)
	}
	sort.Strings(kept)

	v.vocab = make(map[string]int, len(kept))
	v.idf = make([]float64, len(kept))
	for col, term := range kept {
		v.vocab[term] = col
		v.idf[col] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	v.rows = make([]Vector, n)
	for i, doc := range docs {
		v.rows[i] = v.embed(doc)
	}
	v.fitted = true
}

// Transform embeds a document into the fitted term space. Unseen terms are
// dropped; the vocabulary never grows after Fit.
func (v *Vectorizer) Transform(doc string) (Vector, error) {
	if !v.fitted {
		return Vector{}, ErrNotFitted
	}
	return v.embed(doc), nil
}

// TopN scores every fitted row against the query by cosine similarity and
// returns up to n matches with score >= minScore, best first. Ties keep
// ascending row order so results are deterministic.
func (v *Vectorizer) TopN(query Vector, n int, minScore float64) ([]Match, error) {
	if !v.fitted {
		return nil, ErrNotFitted
	}
	if n <= 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(v.rows))
	for row, vec := range v.rows {
		score := query.Dot(vec)
		if score < minScore {
			continue
		}
		matches = append(matches, Match{Row: row, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > n {
		matches = matches[:n]
	}
	return matches, nil
}

// Row returns the fitted vector for a document row.
func (v *Vectorizer) Row(i int) (Vector, bool) {
	if !v.fitted || i < 0 || i >= len(v.rows) {
		return Vector{}, false
	}
	return v.rows[i], true
}

// DocCount returns the number of fitted documents.
func (v *Vectorizer) DocCount() int {
	return len(v.rows)
}

// VocabSize returns the number of terms that survived the frequency filter.
func (v *Vectorizer) VocabSize() int {
	return len(v.vocab)
}

// embed counts kept terms, applies idf and L2-normalizes the row. A row
// without any kept term stays empty.
func (v *Vectorizer) embed(doc string) Vector {
	counts := make(map[int]int)
	for _, term := range strings.Fields(doc) {
		if col, ok := v.vocab[term]; ok {
			counts[col]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Indices = append(vec.Indices, col)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, col := range vec.Indices {
		val := float64(counts[col]) * v.idf[col]
		vec.Values = append(vec.Values, val)
		norm += val * val
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}

	return vec
}
