package service

import (
	"context"

	"session-insight-be/internal/pkg/logger"
	"session-insight-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventForwarder exports events beyond the process (NATS JetStream).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	log        logger.ILogger
}

// NewConsumerService builds the in-process event consumer. forwarder may
// be nil when no external bus is configured.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		log:        log,
	}
}

// Consume subscribes and processes messages until ctx is done or the
// subscriber is closed.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.log.Error("EVENTS", "Failed to decode event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	details := map[string]interface{}{"type": event.EventType()}
	for k, v := range event.Payload() {
		details[k] = v
	}
	cs.log.Info("EVENTS", "Retention event", details)

	if cs.forwarder != nil {
		// Export is best effort; a Nack here would spin on the in-process bus.
		if err := cs.forwarder.Publish(ctx, event); err != nil {
			cs.log.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
				"type":  event.EventType(),
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
