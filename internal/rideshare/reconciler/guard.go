package reconciler

import (
	"context"
	"errors"
	"sync"
)

// ActionKind groups actions that must not overlap. Each kind is guarded on its
// own, so a pending booking never blocks a pending post.
type ActionKind string

const (
	ActionSearch        ActionKind = "search"
	ActionPost          ActionKind = "post"
	ActionBook          ActionKind = "book"
	ActionCancelRide    ActionKind = "cancel_ride"
	ActionCancelBooking ActionKind = "cancel_booking"
	ActionAddVehicle    ActionKind = "add_vehicle"
	ActionDeleteVehicle ActionKind = "delete_vehicle"
	ActionAuth          ActionKind = "auth"
)

// ErrActionInFlight is returned when an action of the same kind is still
// pending. The refused call had no effect.
var ErrActionInFlight = errors.New("action already in flight")

// Guard holds at most one pending action per kind. The zero value is ready to
// use.
type Guard struct {
	mu      sync.Mutex
	pending map[ActionKind]string
}

func NewGuard() *Guard {
	return &Guard{pending: make(map[ActionKind]string)}
}

// Acquire marks kind as pending with actionID. It returns a release func that
// must be called exactly once, or ErrActionInFlight if kind is already
// pending. Releasing more than once is harmless.
func (g *Guard) Acquire(kind ActionKind, actionID string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		g.pending = make(map[ActionKind]string)
	}
	if _, busy := g.pending[kind]; busy {
		return nil, ErrActionInFlight
	}
	g.pending[kind] = actionID

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, kind)
			g.mu.Unlock()
		})
	}, nil
}

// Pending reports the id of the action in flight for kind, if any.
func (g *Guard) Pending(kind ActionKind) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok := g.pending[kind]
	return id, ok
}

// Run executes fn while holding kind. The kind is released on every exit path,
// including a panic in fn.
func (g *Guard) Run(ctx context.Context, kind ActionKind, actionID string, fn func(context.Context) error) error {
	release, err := g.Acquire(kind, actionID)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}
