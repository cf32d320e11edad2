package dedupe

// Option applies a configuration option to the InMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithInitialCapacity pre-sizes the key set for large corpora. Non-positive
// values are ignored.
func WithInitialCapacity(capacity int) Option {
	return func(d *inMemoryDeduper) {
		if capacity > 0 {
			d.initialCapacity = capacity
		}
	}
}
