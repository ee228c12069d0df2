package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-rideshare-bff/internal/observability"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/domain"
	"github.com/mateusmacedo/go-rideshare-bff/internal/rideshare/reconciler"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

// Dependencies is what every handler of the slice is built from.
type Dependencies struct {
	Gateway     domain.Gateway
	Guards      *reconciler.GuardRegistry
	Events      ActivityBus
	IDGenerator pkgDomain.IDGenerator[string]
	Logger      pkgApp.AppLogger
	Now         func() time.Time
	// RecentLimit caps the recent posted rides; zero uses the reconciler default.
	RecentLimit int
}

type base struct {
	deps Dependencies
}

func newBase(deps Dependencies) base {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = pkgApp.NopLogger{}
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = uuid.NewString
	}
	if deps.Guards == nil {
		deps.Guards = reconciler.NewGuardRegistry()
	}
	return base{deps: deps}
}

// guarded runs fn while actor holds kind. A refusal is logged and counted.
func (b base) guarded(ctx context.Context, actor domain.Actor, kind reconciler.ActionKind, actionID string, fn func(context.Context) error) error {
	err := b.deps.Guards.Run(ctx, actor.Token, kind, actionID, fn)
	if errors.Is(err, reconciler.ErrActionInFlight) {
		observability.ActionsRefusedTotal.WithLabelValues(string(kind)).Inc()
		pkgApp.LogInfo(ctx, b.deps.Logger, "action refused, one already in flight", map[string]interface{}{
			"action":    kind,
			"action_id": actionID,
			"user_id":   actor.UserID,
		})
	}
	return err
}

// invalid records a rejected input and hands the error back.
func (b base) invalid(ctx context.Context, err error, fields map[string]interface{}) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		observability.ValidationFailuresTotal.WithLabelValues(string(verr.Kind)).Inc()
	}
	pkgApp.LogDebug(ctx, b.deps.Logger, "request rejected", mergeFields(fields, map[string]interface{}{"reason": err.Error()}))
	return err
}

// publish announces a write the API accepted. The write already happened, so
// a failure to publish is logged and not returned.
func (b base) publish(ctx context.Context, action string, actor domain.Actor, subjectID string) {
	if b.deps.Events == nil {
		return
	}
	event := NewActivityEvent(action, actor.UserID, subjectID, b.deps.Now())
	if err := b.deps.Events.Publish(ctx, event); err != nil {
		pkgApp.LogWarn(ctx, b.deps.Logger, "activity event not published", err, map[string]interface{}{
			"event_name": action,
			"subject_id": subjectID,
		})
	}
}

func (b base) checkContext(ctx context.Context) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, b.deps.Logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}
	return nil
}

// remoteMessage is what the user is told about a failed read.
func remoteMessage(err error, fallback string) string {
	var remote *domain.RemoteError
	if errors.As(err, &remote) && remote.Message != "" {
		return remote.Message
	}
	return fallback
}

func mergeFields(a, b map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
