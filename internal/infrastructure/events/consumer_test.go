package events

import (
	"testing"
	"time"

	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/messaging"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureHandler struct {
	events []contracts.Event
}

func (h *captureHandler) Handle(evt contracts.Event) {
	h.events = append(h.events, evt)
}

type panicHandler struct{}

func (panicHandler) Handle(contracts.Event) { panic("boom") }

func newTestConsumer(h Handler) *Consumer {
	return NewConsumer(messaging.New(), h, zap.NewNop().Sugar())
}

func TestProcessEventDispatchesKnownEvents(t *testing.T) {
	h := &captureHandler{}
	c := newTestConsumer(h)

	c.processEvent(contracts.EventUserRegistered,
		[]byte(`{"user_id":1,"username":"alice","email":"a@b.com"}`))

	require.Len(t, h.events, 1)
	e, ok := h.events[0].(contracts.UserRegistered)
	require.True(t, ok)
	assert.Equal(t, "alice", e.Username)
}

func TestProcessEventDropsMalformedPayload(t *testing.T) {
	h := &captureHandler{}
	c := newTestConsumer(h)

	c.processEvent(contracts.EventMessageCreated, []byte(`{broken`))

	assert.Empty(t, h.events)
}

func TestProcessEventSkipsUnknownRoutingKey(t *testing.T) {
	h := &captureHandler{}
	c := newTestConsumer(h)

	c.processEvent("room.archived", []byte(`{}`))

	assert.Empty(t, h.events)
}

func TestProcessEventContainsHandlerPanic(t *testing.T) {
	c := newTestConsumer(panicHandler{})

	assert.NotPanics(t, func() {
		c.processEvent(contracts.EventUserRegistered, []byte(`{"username":"x","email":"x@y.z"}`))
	})
}

func TestRunProcessesDeliveriesInOrder(t *testing.T) {
	h := &captureHandler{}
	c := newTestConsumer(h)

	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{
		RoutingKey: contracts.EventUserRegistered,
		Body:       []byte(`{"user_id":1,"username":"a","email":"a@x.io"}`),
	}
	deliveries <- amqp.Delivery{
		RoutingKey: contracts.EventMessageCreated,
		Body:       []byte(`{"message_id":2,"sender_email":"b@x.io"}`),
	}
	deliveries <- amqp.Delivery{
		RoutingKey: contracts.EventUserJoinedRoom,
		Body:       []byte(`{"room_id":3,"user_email":"c@x.io"}`),
	}
	close(deliveries)

	c.deliveries = deliveries
	c.receiveTimeout = 50 * time.Millisecond

	err := c.Run()
	assert.ErrorIs(t, err, ErrConsumerClosed)

	require.Len(t, h.events, 3)
	assert.Equal(t, contracts.EventUserRegistered, h.events[0].RoutingKey())
	assert.Equal(t, contracts.EventMessageCreated, h.events[1].RoutingKey())
	assert.Equal(t, contracts.EventUserJoinedRoom, h.events[2].RoutingKey())
}

func TestRunSurvivesReceiveTimeout(t *testing.T) {
	h := &captureHandler{}
	c := newTestConsumer(h)

	deliveries := make(chan amqp.Delivery, 1)
	c.deliveries = deliveries
	c.receiveTimeout = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	// let a few timeouts elapse, then deliver and close
	time.Sleep(35 * time.Millisecond)
	deliveries <- amqp.Delivery{
		RoutingKey: contracts.EventUserRegistered,
		Body:       []byte(`{"username":"late","email":"l@x.io"}`),
	}
	close(deliveries)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrConsumerClosed)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after channel close")
	}

	require.Len(t, h.events, 1)
	e := h.events[0].(contracts.UserRegistered)
	assert.Equal(t, "late", e.Username)
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	c := newTestConsumer(&captureHandler{})

	deliveries := make(chan amqp.Delivery)
	close(deliveries)
	c.deliveries = deliveries
	c.receiveTimeout = time.Second

	err := c.Run()
	assert.ErrorIs(t, err, ErrConsumerClosed)
}
