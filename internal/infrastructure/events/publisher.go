package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/messaging"
	"github.com/murmurchat/murmur/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// Publisher performs fire-and-forget publishes of domain events. It is
// best-effort by design: a disconnected broker degrades the API server to
// "no notifications", it never takes it down.
type Publisher struct {
	rabbitmq *messaging.RabbitMQ
	logger   *zap.SugaredLogger
}

func NewPublisher(rabbitmq *messaging.RabbitMQ, logger *zap.SugaredLogger) *Publisher {
	return &Publisher{
		rabbitmq: rabbitmq,
		logger:   logger,
	}
}

// Connect establishes the broker connection and declares the exchange.
// Callers log the returned error as a warning and carry on.
func (p *Publisher) Connect(uri string) error {
	return p.rabbitmq.Connect(uri)
}

func (p *Publisher) IsConnected() bool {
	return p.rabbitmq.IsConnected()
}

func (p *Publisher) Close() {
	p.rabbitmq.Close()
}

// PublishUserRegistered emits user.registered after a successful signup.
func (p *Publisher) PublishUserRegistered(ctx context.Context, e contracts.UserRegistered) error {
	payload := struct {
		EventType string `json:"event_type"`
		EventID   string `json:"event_id"`
		Timestamp string `json:"timestamp"`
		contracts.UserRegistered
	}{
		EventType:      contracts.EventUserRegistered,
		EventID:        uuid.NewString(),
		Timestamp:      nowRFC3339(),
		UserRegistered: e,
	}
	return p.publish(ctx, contracts.EventUserRegistered, payload)
}

// PublishMessageCreated emits message.created after a message is stored.
func (p *Publisher) PublishMessageCreated(ctx context.Context, e contracts.MessageCreated) error {
	payload := struct {
		EventType string `json:"event_type"`
		EventID   string `json:"event_id"`
		contracts.MessageCreated
	}{
		EventType:      contracts.EventMessageCreated,
		EventID:        uuid.NewString(),
		MessageCreated: e,
	}
	return p.publish(ctx, contracts.EventMessageCreated, payload)
}

// PublishUserJoinedRoom emits user.joined_room after a membership insert.
func (p *Publisher) PublishUserJoinedRoom(ctx context.Context, e contracts.UserJoinedRoom) error {
	payload := struct {
		EventType string `json:"event_type"`
		EventID   string `json:"event_id"`
		contracts.UserJoinedRoom
	}{
		EventType:      contracts.EventUserJoinedRoom,
		EventID:        uuid.NewString(),
		UserJoinedRoom: e,
	}
	return p.publish(ctx, contracts.EventUserJoinedRoom, payload)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	if !p.rabbitmq.IsConnected() {
		metrics.EventsPublished.WithLabelValues(routingKey, "dropped").Inc()
		p.logger.Warnw("RabbitMQ not connected, event dropped", "routing_key", routingKey)
		return fmt.Errorf("not connected to RabbitMQ")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", routingKey, err)
	}

	if err := p.rabbitmq.Publish(ctx, routingKey, body); err != nil {
		metrics.EventsPublished.WithLabelValues(routingKey, "error").Inc()
		p.logger.Warnw("failed to publish event", "routing_key", routingKey, "error", err)
		return err
	}

	metrics.EventsPublished.WithLabelValues(routingKey, "ok").Inc()
	p.logger.Debugw("published event", "routing_key", routingKey, "bytes", len(body))
	return nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
