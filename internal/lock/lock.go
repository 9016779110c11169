// Package lock serializes booking admission.
package lock

import (
	"context"
	"errors"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker grants exclusive access to key until the returned release func is
// called. Acquire blocks until the lock is held or ctx is done.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Local is an in-process Locker. A single mutex guards every key, which is
// what admission needs: conflicts are checked against the whole store.
type Local struct {
	sem chan struct{}
}

func NewLocal() *Local {
	return &Local{sem: make(chan struct{}, 1)}
}

func (l *Local) Acquire(ctx context.Context, _ string) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
