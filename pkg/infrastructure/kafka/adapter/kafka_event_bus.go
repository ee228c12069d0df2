package adapter

import (
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"

	"github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	"github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
	watermillAdapter "github.com/mateusmacedo/go-rideshare-bff/pkg/infrastructure/watermill/adapter"
)

// NewKafkaEventBus runs the watermill event bus over kafka. Topics are created on
// first subscription with a single partition.
func NewKafkaEventBus[E domain.Event[D], D any](brokers []string, consumerGroup, clientID string, logger application.AppLogger) (*watermillAdapter.WatermillEventBus[E, D], error) {
	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(logger)
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: marshaler,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}

	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = clientID

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               brokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         consumerGroup,
		OverwriteSaramaConfig: saramaConfig,
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("kafka subscriber: %w", err)
	}

	return watermillAdapter.NewWatermillEventBus[E, D](publisher, subscriber, logger), nil
}
