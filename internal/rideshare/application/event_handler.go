package application

import (
	"context"

	"github.com/mateusmacedo/go-rideshare-bff/internal/observability"
	pkgApp "github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

type activityEventHandler struct {
	logger pkgApp.AppLogger
}

func (h *activityEventHandler) Handle(ctx context.Context, event pkgDomain.Event[ActivityData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "context cancelled", ctx.Err(), nil)
		return ctx.Err()
	}

	data := event.Payload()
	observability.ActivityTotal.WithLabelValues(data.Action).Inc()
	pkgApp.LogInfo(ctx, h.logger, "activity recorded", map[string]interface{}{
		"action":      data.Action,
		"user_id":     data.UserID,
		"subject_id":  data.SubjectID,
		"occurred_at": data.OccurredAt,
	})
	return nil
}

func NewActivityEventHandler(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[ActivityData], ActivityData] {
	return &activityEventHandler{logger: logger}
}
