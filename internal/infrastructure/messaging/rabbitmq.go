package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQ owns one connection and one channel. Channels are not safe for
// unsynchronized concurrent use, so every channel operation goes through mu.
type RabbitMQ struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	state State
}

// URI builds an AMQP connection string from broker settings.
func URI(host string, port uint16, user, password string) string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)
}

func New() *RabbitMQ {
	return &RabbitMQ{state: StateDisconnected}
}

// transition is the only place state changes. Callers hold mu.
func (r *RabbitMQ) transition(to State) error {
	if !r.state.canBecome(to) {
		return fmt.Errorf("invalid broker state transition %s -> %s", r.state, to)
	}
	r.state = to
	return nil
}

// State reports the current connection state.
func (r *RabbitMQ) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// IsConnected reports whether the channel is usable for publish or consume.
func (r *RabbitMQ) IsConnected() bool {
	s := r.State()
	return s == StateBound || s == StateConsuming
}

// Connect dials the broker, opens the channel, and declares the durable
// topic exchange. Any step failing tears down what was opened and moves the
// state to Failed.
func (r *RabbitMQ) Connect(uri string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.transition(StateConnecting); err != nil {
		return err
	}

	conn, err := amqp.Dial(uri)
	if err != nil {
		r.state = StateFailed
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		r.state = StateFailed
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		contracts.Exchange, // name
		"topic",            // type
		true,               // durable
		false,              // auto-delete
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		r.state = StateFailed
		return fmt.Errorf("failed to declare exchange %s: %w", contracts.Exchange, err)
	}

	r.conn = conn
	r.ch = ch
	return r.transition(StateBound)
}

// DeclareAndBindQueue declares a durable, non-exclusive queue and binds it
// to the exchange once per routing key.
func (r *RabbitMQ) DeclareAndBindQueue(queueName string, routingKeys []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateBound {
		return fmt.Errorf("cannot declare queue in state %s", r.state)
	}

	q, err := r.ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		r.state = StateFailed
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	for _, key := range routingKeys {
		if err := r.ch.QueueBind(
			q.Name,             // queue name
			key,                // routing key
			contracts.Exchange, // exchange
			false,
			nil,
		); err != nil {
			r.state = StateFailed
			return fmt.Errorf("failed to bind queue %s to %s: %w", queueName, key, err)
		}
	}

	return nil
}

// Consume starts auto-ack delivery from the queue. The broker removes each
// message at hand-off, not after processing.
func (r *RabbitMQ) Consume(queueName string) (<-chan amqp.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateBound {
		return nil, fmt.Errorf("cannot consume in state %s", r.state)
	}

	deliveries, err := r.ch.Consume(
		queueName, // queue
		"",        // consumer tag
		true,      // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		r.state = StateFailed
		return nil, fmt.Errorf("failed to start consuming from %s: %w", queueName, err)
	}

	if err := r.transition(StateConsuming); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Publish sends one persistent JSON message to the exchange. No retry, no
// confirm; the single round trip is the whole contract.
func (r *RabbitMQ) Publish(ctx context.Context, routingKey string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateBound && r.state != StateConsuming {
		return fmt.Errorf("cannot publish in state %s", r.state)
	}

	return r.ch.PublishWithContext(ctx,
		contracts.Exchange, // exchange
		routingKey,         // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
}

// Close releases the channel and connection. Safe to call in any state.
func (r *RabbitMQ) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil {
		r.ch.Close()
		r.ch = nil
	}
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
	r.state = StateDisconnected
}
