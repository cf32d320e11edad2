// Package scan runs corpus-wide comparison fanouts on a bounded worker
// pool shared by all searches.
package scan

import (
	"context"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/okian/replay/pkg/metrics"
)

// Pool is a fixed-size worker pool for CPU-bound alignment work. One pool
// serves every concurrent search so corpus scans cannot oversubscribe the
// host.
type Pool struct {
	inner *ants.Pool
}

// New creates a pool with the given worker count. Zero or negative sizes
// fall back to the CPU count.
func New(size int) (*Pool, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	inner, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	metrics.UpdateScanPoolCapacity(size)
	return &Pool{inner: inner}, nil
}

// Each runs fn for every index in [0, n) across the pool and waits for
// completion. Indexes are disjoint, so fn may write to its own result
// slot without locking. Cancellation stops new work; indexes already
// running finish, and the context error is returned.
func (p *Pool) Each(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	var wg sync.WaitGroup
	var submitErr error

	for i := 0; i < n && submitErr == nil; i++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			metrics.RecordScanTask()
			if ctx.Err() != nil {
				return
			}
			fn(ctx, i)
		}
		if err := p.inner.Submit(task); err != nil {
			wg.Done()
			submitErr = err
		}
	}

	metrics.UpdateScanPoolRunning(p.inner.Running())
	wg.Wait()

	if submitErr != nil {
		return submitErr
	}
	return ctx.Err()
}

// Running reports the number of workers currently executing tasks.
func (p *Pool) Running() int {
	return p.inner.Running()
}

// Cap reports the pool capacity.
func (p *Pool) Cap() int {
	return p.inner.Cap()
}

// Release stops the pool. The pool must not be used afterwards.
func (p *Pool) Release() {
	p.inner.Release()
}
