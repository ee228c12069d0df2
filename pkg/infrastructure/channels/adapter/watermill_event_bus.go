package adapter

import (
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	"github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
	watermillAdapter "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure/watermill/adapter"
)

// NewGoChannelEventBus runs the watermill event bus over an in-memory gochannel
// pub/sub. Useful in a single process when the events only feed local handlers.
func NewGoChannelEventBus[E domain.Event[D], D any](logger application.AppLogger) *watermillAdapter.WatermillEventBus[E, D] {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermillAdapter.NewWatermillLoggerAdapter(logger))

	return watermillAdapter.NewWatermillEventBus[E, D](pubSub, pubSub, logger)
}
