package reconciler

import (
	"context"
	"sync"
)

// GuardRegistry keeps one Guard and one RefreshGate per key, so one user's
// pending booking never blocks another's. An entry only lives while an action
// or a refresh holds it; the last release evicts it.
type GuardRegistry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	guard   Guard
	refresh RefreshGate
	holders int
}

func NewGuardRegistry() *GuardRegistry {
	return &GuardRegistry{entries: make(map[string]*registryEntry)}
}

// Acquire marks kind as pending for key. See Guard.Acquire.
func (r *GuardRegistry) Acquire(key string, kind ActionKind, actionID string) (release func(), err error) {
	e := r.hold(key)
	done, err := e.guard.Acquire(kind, actionID)
	if err != nil {
		r.drop(key, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			done()
			r.drop(key, e)
		})
	}, nil
}

// Run executes fn while key holds kind.
func (r *GuardRegistry) Run(ctx context.Context, key string, kind ActionKind, actionID string, fn func(context.Context) error) error {
	release, err := r.Acquire(key, kind, actionID)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// Pending reports the action in flight for key and kind without creating an
// entry.
func (r *GuardRegistry) Pending(key string, kind ActionKind) (string, bool) {
	r.mu.Lock()
	e, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return "", false
	}
	return e.guard.Pending(kind)
}

// TryRefresh runs fn through the RefreshGate of key. See RefreshGate.Try.
func (r *GuardRegistry) TryRefresh(ctx context.Context, key string, fn func(context.Context) error) (ran bool, err error) {
	e := r.hold(key)
	defer r.drop(key, e)
	return e.refresh.Try(ctx, fn)
}

// Len is the number of keys with something in flight.
func (r *GuardRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *GuardRegistry) hold(key string) *registryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		e = &registryEntry{}
		r.entries[key] = e
	}
	e.holders++
	return e
}

func (r *GuardRegistry) drop(key string, e *registryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.holders--
	if e.holders == 0 && r.entries[key] == e {
		delete(r.entries, key)
	}
}
