// Package align computes approximate dynamic time warping alignments
// between feature sequences. The FastDTW scheme recursively coarsens both
// sequences, solves the small problem exactly, and refines the solution
// inside a narrow window projected back onto the finer grid.
package align

import (
	"math"

	"github.com/okian/replay/internal/domain/model"
)

// DefaultRadius widens the refinement window around the projected coarse
// path. Larger values trade speed for accuracy.
const DefaultRadius = 1

// CostFunc scores the pairing of two feature records. Lower is closer.
type CostFunc func(a, b model.FeatureRecord) float64

// Option applies a configuration option to the Aligner.
type Option func(*Aligner)

// WithRadius sets the refinement window radius. Values below 1 keep the
// default: a zero-width band around a degenerate coarse path cannot reach
// the goal cell on odd-length inputs.
func WithRadius(radius int) Option {
	return func(a *Aligner) {
		if radius >= 1 {
			a.radius = radius
		}
	}
}

// Aligner aligns pairs of feature sequences. It is stateless beyond its
// configuration and safe for concurrent use.
type Aligner struct {
	radius int
	cost   CostFunc
}

// New creates an Aligner around the given cost function.
func New(cost CostFunc, opts ...Option) *Aligner {
	a := &Aligner{
		radius: DefaultRadius,
		cost:   cost,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Radius returns the configured refinement window radius.
func (a *Aligner) Radius() int {
	return a.radius
}

// Align returns the accumulated warp distance between x and y and the warp
// path over their indices. The path starts at (0,0), ends at
// (len(x)-1, len(y)-1) and advances each index by at most one per step.
// Either side empty yields +Inf and an empty path.
func (a *Aligner) Align(x, y []model.FeatureRecord) (float64, model.Path) {
	if len(x) == 0 || len(y) == 0 {
		return math.Inf(1), model.Path{}
	}

	return a.approximate(x, y, identity(len(x)), identity(len(y)))
}

// cell addresses one pairing in the alignment grid.
type cell struct {
	i, j int
}

// node carries the best accumulated cost into a cell and the cell it came
// from, for path reconstruction.
type node struct {
	cost float64
	prev cell
}

// approximate runs one FastDTW level. xi and yi are views into the original
// sequences: xi[i] is the record index represented by coarse position i.
func (a *Aligner) approximate(x, y []model.FeatureRecord, xi, yi []int) (float64, model.Path) {
	minSize := a.radius + 2
	if len(xi) < minSize || len(yi) < minSize {
		return a.dynamic(x, y, xi, yi, nil)
	}

	_, coarsePath := a.approximate(x, y, reduceByHalf(xi), reduceByHalf(yi))
	window := expandWindow(coarsePath, len(xi), len(yi), a.radius)
	return a.dynamic(x, y, xi, yi, window)
}

// dynamic solves the alignment by dynamic programming restricted to the
// window. A nil window means the full grid. Window cells must arrive in
// row-major order so dependencies are computed first.
func (a *Aligner) dynamic(x, y []model.FeatureRecord, xi, yi []int, window []cell) (float64, model.Path) {
	n, m := len(xi), len(yi)
	if window == nil {
		window = make([]cell, 0, n*m)
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				window = append(window, cell{i, j})
			}
		}
	}

	// Accumulated costs are keyed one past the grid so row and column
	// zero act as virtual borders.
	acc := make(map[cell]node, len(window)+1)
	acc[cell{0, 0}] = node{}
	costAt := func(c cell) float64 {
		if nd, ok := acc[c]; ok {
			return nd.cost
		}
		return math.Inf(1)
	}

	for _, w := range window {
		i, j := w.i+1, w.j+1
		dt := a.cost(x[xi[w.i]], y[yi[w.j]])

		best := node{cost: costAt(cell{i - 1, j}) + dt, prev: cell{i - 1, j}}
		if c := costAt(cell{i, j - 1}) + dt; c < best.cost {
			best = node{cost: c, prev: cell{i, j - 1}}
		}
		if c := costAt(cell{i - 1, j - 1}) + dt; c < best.cost {
			best = node{cost: c, prev: cell{i - 1, j - 1}}
		}
		acc[cell{i, j}] = best
	}

	goal := cell{n, m}
	total := costAt(goal)

	path := make(model.Path, 0, n+m)
	for c := goal; c != (cell{}); c = acc[c].prev {
		path = append(path, model.PathStep{I: c.i - 1, J: c.j - 1})
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return total, path
}

// identity builds the trivial view where position i represents record i.
func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// reduceByHalf merges adjacent view positions, keeping the representative
// record between each pair. An odd tail position is dropped.
func reduceByHalf(idx []int) []int {
	half := make([]int, 0, len(idx)/2)
	for i := 0; i+1 < len(idx); i += 2 {
		half = append(half, (idx[i]+idx[i+1])/2)
	}
	return half
}

// expandWindow inflates the coarse path by the radius, projects each coarse
// cell onto its four finer cells, and returns the covered cells row by row.
// Only the first contiguous run per row is kept, matching the narrow-band
// shape the refinement step expects.
func expandWindow(path model.Path, nx, ny, radius int) []cell {
	marked := make(map[cell]struct{}, len(path)*4*(2*radius+1)*(2*radius+1))
	for _, s := range path {
		for di := -radius; di <= radius; di++ {
			for dj := -radius; dj <= radius; dj++ {
				i, j := s.I+di, s.J+dj
				marked[cell{2 * i, 2 * j}] = struct{}{}
				marked[cell{2 * i, 2*j + 1}] = struct{}{}
				marked[cell{2*i + 1, 2 * j}] = struct{}{}
				marked[cell{2*i + 1, 2*j + 1}] = struct{}{}
			}
		}
	}

	window := make([]cell, 0, len(marked))
	startJ := 0
	for i := 0; i < nx; i++ {
		rowStart := -1
		for j := startJ; j < ny; j++ {
			if _, ok := marked[cell{i, j}]; ok {
				window = append(window, cell{i, j})
				if rowStart < 0 {
					rowStart = j
				}
			} else if rowStart >= 0 {
				break
			}
		}
		if rowStart >= 0 {
			startJ = rowStart
		}
	}

	return window
}
