package executor

import (
	"context"

	"github.com/vuon9/workdiff/internal/models"
)

// Future carries the eventual outcome of one submitted task. It is resolved
// at most once by the pool; a pool shutdown abandons unresolved futures and
// callers release themselves through the context passed to Wait.
type Future struct {
	done   chan struct{}
	result models.ComparisonResult
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Wait blocks until the task settles or ctx fires, whichever comes first.
func (f *Future) Wait(ctx context.Context) (models.ComparisonResult, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return models.ComparisonResult{}, ctx.Err()
	}
}

func (f *Future) resolve(result models.ComparisonResult) {
	f.result = result
	close(f.done)
}

func (f *Future) fail(err error) {
	f.err = err
	close(f.done)
}
