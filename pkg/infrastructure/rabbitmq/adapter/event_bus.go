package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mateusmacedo/go-rideshare-bff/pkg/application"
	"github.com/mateusmacedo/go-rideshare-bff/pkg/domain"
)

const publishTimeout = 5 * time.Second

// RabbitMQEventBus publishes events on a topic exchange with the event name as
// routing key. Handlers of one event name consume a durable queue named
// "<consumerGroup>.<event name>", so instances sharing consumerGroup split the
// work. A message whose handler fails is dropped, not requeued.
type RabbitMQEventBus[E domain.Event[D], D any] struct {
	exchange      string
	consumerGroup string
	logger        application.AppLogger

	conn     *amqp.Connection
	pubMu    sync.Mutex
	pubChan  *amqp.Channel
	confirms chan amqp.Confirmation

	mu        sync.RWMutex
	handlers  map[string][]application.EventHandler[E, D]
	consumers []*amqp.Channel

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRabbitMQEventBus dials url and declares exchange. Publishes wait for the
// broker's confirm.
func NewRabbitMQEventBus[E domain.Event[D], D any](url, exchange, consumerGroup string, logger application.AppLogger) (*RabbitMQEventBus[E, D], error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq enable confirms: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RabbitMQEventBus[E, D]{
		exchange:      exchange,
		consumerGroup: consumerGroup,
		logger:        logger,
		conn:          conn,
		pubChan:       ch,
		confirms:      ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		handlers:      make(map[string][]application.EventHandler[E, D]),
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// RegisterHandler starts consuming the event's queue the first time a handler
// is registered for it.
func (bus *RabbitMQEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	first := len(bus.handlers[eventName]) == 0
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	bus.mu.Unlock()

	if first {
		if err := bus.consume(eventName); err != nil {
			application.LogError(bus.ctx, bus.logger, "error subscribing to event", err, map[string]interface{}{
				"event_name": eventName,
				"exchange":   bus.exchange,
			})
		}
	}
}

func (bus *RabbitMQEventBus[E, D]) consume(eventName string) error {
	ch, err := bus.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	if err := ch.Qos(8, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set qos: %w", err)
	}

	queue := bus.consumerGroup + "." + eventName
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.QueueBind(queue, eventName, bus.exchange, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume %s: %w", queue, err)
	}

	bus.mu.Lock()
	bus.consumers = append(bus.consumers, ch)
	bus.mu.Unlock()

	bus.wg.Add(1)
	go func() {
		defer bus.wg.Done()
		for d := range deliveries {
			bus.deliver(eventName, d)
		}
	}()
	return nil
}

func (bus *RabbitMQEventBus[E, D]) deliver(eventName string, d amqp.Delivery) {
	var payload D
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		application.LogError(bus.ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
			"message_id": d.MessageId,
		})
		_ = d.Nack(false, false)
		return
	}

	typedEvent, ok := interface{}(&deliveredEvent[D]{eventName: eventName, payload: payload}).(E)
	if !ok {
		application.LogError(bus.ctx, bus.logger, "error asserting event type", nil, map[string]interface{}{
			"event_name": eventName,
		})
		_ = d.Nack(false, false)
		return
	}

	bus.mu.RLock()
	handlers := append([]application.EventHandler[E, D](nil), bus.handlers[eventName]...)
	bus.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		ctx, cancel := context.WithTimeout(bus.ctx, 30*time.Second)
		errs = append(errs, handler.Handle(ctx, typedEvent))
		cancel()
	}
	if err := errors.Join(errs...); err != nil {
		application.LogError(bus.ctx, bus.logger, "error handling event", err, map[string]interface{}{
			"event_name": eventName,
			"message_id": d.MessageId,
		})
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (bus *RabbitMQEventBus[E, D]) Publish(ctx context.Context, event E) error {
	eventName := event.EventName()

	body, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	bus.pubMu.Lock()
	defer bus.pubMu.Unlock()

	msg := amqp.Publishing{
		MessageId:    uuid.NewString(),
		Type:         eventName,
		Timestamp:    time.Now().UTC(),
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	}
	if err := bus.pubChan.PublishWithContext(ctx, bus.exchange, eventName, false, false, msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	select {
	case confirm, ok := <-bus.confirms:
		if !ok || !confirm.Ack {
			err := fmt.Errorf("rabbitmq: publish of %s not acknowledged", eventName)
			application.LogError(ctx, bus.logger, "error publishing event", err, nil)
			return err
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	application.LogDebug(ctx, bus.logger, "event published", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.MessageId,
	})
	return nil
}

// Close stops consuming, waits for in-flight deliveries and closes the
// connection.
func (bus *RabbitMQEventBus[E, D]) Close() error {
	bus.cancel()

	bus.mu.Lock()
	consumers := bus.consumers
	bus.consumers = nil
	bus.mu.Unlock()

	var errs []error
	for _, ch := range consumers {
		errs = append(errs, ch.Close())
	}
	bus.wg.Wait()

	bus.pubMu.Lock()
	errs = append(errs, bus.pubChan.Close())
	bus.pubMu.Unlock()

	errs = append(errs, bus.conn.Close())
	return errors.Join(errs...)
}

type deliveredEvent[D any] struct {
	eventName string
	payload   D
}

func (e *deliveredEvent[D]) EventName() string {
	return e.eventName
}

func (e *deliveredEvent[D]) Payload() D {
	return e.payload
}
