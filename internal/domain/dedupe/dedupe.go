// Package dedupe defines the interface for corpus key idempotency tracking.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/replay/internal/domain/model"
)

// Deduper records seen sequence keys so the same possession chain cannot
// register twice during a snapshot build.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key model.Key) bool

	// Unrecord removes a key from the seen set. This should only be used
	// when a sequence was recorded but later failed to enter the index.
	Unrecord(ctx context.Context, key model.Key)

	// Reset clears the seen set for a full corpus rebuild.
	Reset()

	Size() int64
}

// inMemoryDeduper implements Deduper over a plain key set. Corpus key
// cardinality is bounded by the corpus itself, so no eviction is needed;
// evicting would readmit duplicates.
type inMemoryDeduper struct {
	mu   sync.RWMutex
	seen map[model.Key]struct{}
	size atomic.Int64

	initialCapacity int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[model.Key]struct{}, d.initialCapacity)

	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key model.Key) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}

	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Unrecord removes a key from the seen set, allowing it to be recorded again.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key model.Key) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		delete(d.seen, key)
		d.size.Add(-1)
	}
}

// Reset clears every recorded key.
func (d *inMemoryDeduper) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen = make(map[model.Key]struct{}, d.initialCapacity)
	d.size.Store(0)
}

// Size returns the current number of recorded keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
