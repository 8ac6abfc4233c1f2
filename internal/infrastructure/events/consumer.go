package events

import (
	"time"

	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/messaging"
	"github.com/murmurchat/murmur/internal/infrastructure/metrics"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// defaultReceiveTimeout bounds each wait for a delivery. Hitting it is
// normal operation; it exists for liveness logging, not error detection.
const defaultReceiveTimeout = 5 * time.Second

// Handler receives each decoded event. Implementations must contain their
// own failures; the consume loop treats Handle as infallible.
type Handler interface {
	Handle(evt contracts.Event)
}

// Consumer owns the full broker lifecycle for the notification queue:
// connect, declare, bind, consume, and the blocking receive loop.
type Consumer struct {
	rabbitmq       *messaging.RabbitMQ
	handler        Handler
	logger         *zap.SugaredLogger
	deliveries     <-chan amqp.Delivery
	receiveTimeout time.Duration
}

func NewConsumer(rabbitmq *messaging.RabbitMQ, handler Handler, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{
		rabbitmq:       rabbitmq,
		handler:        handler,
		logger:         logger,
		receiveTimeout: defaultReceiveTimeout,
	}
}

// Connect runs the whole handshake: connection, channel, exchange, queue,
// one bind per routing key, then the consume request. Any single failure
// aborts the sequence; there is no retry of the initial handshake.
func (c *Consumer) Connect(uri string) error {
	if err := c.rabbitmq.Connect(uri); err != nil {
		return err
	}

	if err := c.rabbitmq.DeclareAndBindQueue(contracts.NotificationQueue, contracts.RoutingKeys()); err != nil {
		return err
	}
	for _, key := range contracts.RoutingKeys() {
		c.logger.Infow("bound routing key", "queue", contracts.NotificationQueue, "routing_key", key)
	}

	deliveries, err := c.rabbitmq.Consume(contracts.NotificationQueue)
	if err != nil {
		return err
	}

	c.deliveries = deliveries
	c.logger.Infow("notification consumer ready", "queue", contracts.NotificationQueue)
	return nil
}

func (c *Consumer) IsConnected() bool {
	return c.rabbitmq.IsConnected()
}

func (c *Consumer) Close() {
	c.rabbitmq.Close()
}

// Run blocks forever processing deliveries one at a time. Messages are
// auto-acked at hand-off, so a delivery is gone from the queue whether or
// not processing succeeds. The loop ends only when the broker closes the
// delivery channel; per-event failures never escape it.
func (c *Consumer) Run() error {
	for {
		select {
		case d, ok := <-c.deliveries:
			if !ok {
				c.logger.Errorw("delivery channel closed by broker, stopping consumer")
				return ErrConsumerClosed
			}
			c.processEvent(d.RoutingKey, d.Body)

		case <-time.After(c.receiveTimeout):
			c.logger.Infow("no messages, waiting", "timeout", c.receiveTimeout)
		}
	}
}

// processEvent decodes and dispatches one message. Every failure mode is
// converted to a log line plus a skip right here.
func (c *Consumer) processEvent(routingKey string, body []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorw("panic while processing event", "routing_key", routingKey, "panic", r)
		}
	}()

	evt, err := contracts.Parse(routingKey, body)
	if err != nil {
		metrics.EventsConsumed.WithLabelValues(routingKey, "parse_error").Inc()
		c.logger.Errorw("failed to parse event payload",
			"routing_key", routingKey,
			"payload", string(body),
			"error", err,
		)
		return
	}

	if _, unknown := evt.(contracts.Unknown); unknown {
		metrics.EventsConsumed.WithLabelValues(routingKey, "unknown").Inc()
		c.logger.Infow("unknown event type, skipping notification", "routing_key", routingKey)
		return
	}

	metrics.EventsConsumed.WithLabelValues(routingKey, "ok").Inc()
	c.handler.Handle(evt)
}
