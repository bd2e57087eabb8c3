// Package memo provides a memoized fetch: the first call performs the
// fetch, later calls return the remembered result without refetching.
package memo

import (
	"context"
	"sync"
)

// Value caches the result of a single fetch. The fetch runs at most once
// per reset, even when it fails: a failed check is remembered as done so
// callers do not hammer the backend, mirroring a check that should
// happen once per login.
type Value[T any] struct {
	mu    sync.Mutex
	fetch func(ctx context.Context) (T, error)
	done  bool
	value T
	err   error
}

// New wraps fetch in a memoized value.
func New[T any](fetch func(ctx context.Context) (T, error)) *Value[T] {
	return &Value[T]{fetch: fetch}
}

// Get returns the memoized result, fetching on the first call.
func (v *Value[T]) Get(ctx context.Context) (T, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.done {
		return v.value, v.err
	}
	v.value, v.err = v.fetch(ctx)
	v.done = true
	return v.value, v.err
}

// Done reports whether the fetch has run.
func (v *Value[T]) Done() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}

// Invalidate forgets the memoized result; the next Get fetches again.
// Used when the identity behind the cached answer changes.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.done = false
	v.value = zero
	v.err = nil
}
