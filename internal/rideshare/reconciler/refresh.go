package reconciler

import (
	"context"
	"sync/atomic"
)

// RefreshGate lets one refresh run at a time. It is independent from Guard: a
// pending submission never blocks a refresh.
type RefreshGate struct {
	running atomic.Bool
}

// Try runs fn unless a refresh is already running, in which case the call is
// ignored and ran is false.
func (r *RefreshGate) Try(ctx context.Context, fn func(context.Context) error) (ran bool, err error) {
	if !r.running.CompareAndSwap(false, true) {
		return false, nil
	}
	defer r.running.Store(false)
	return true, fn(ctx)
}

func (r *RefreshGate) Running() bool {
	return r.running.Load()
}
