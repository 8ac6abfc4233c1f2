package notification

import (
	"fmt"
	"testing"

	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	sent []Notification
	err  error
}

func (m *recordingMailer) IsConfigured() bool { return true }

func (m *recordingMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, Notification{To: to, Subject: subject, Body: body})
	return nil
}

func newTestDispatcher(mailer Mailer, testRecipient string) *Dispatcher {
	return NewDispatcher(mailer, zap.NewNop().Sugar(), testRecipient)
}

func TestRenderWelcome(t *testing.T) {
	d := newTestDispatcher(&recordingMailer{}, "")

	n, err := d.Render(contracts.UserRegistered{
		UserID:   7,
		Username: "alice",
		Email:    "a@b.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", n.To)
	assert.Equal(t, "Welcome to Murmur, alice!", n.Subject)
	assert.Contains(t, n.Body, "Hello alice!")
	assert.Contains(t, n.Body, "(ID: 7)")
	assert.Contains(t, n.Body, "Your email: a@b.com")
}

func TestRenderMessage(t *testing.T) {
	d := newTestDispatcher(&recordingMailer{}, "")

	n, err := d.Render(contracts.MessageCreated{
		MessageID:      99,
		RoomID:         3,
		SenderUsername: "bob",
		SenderEmail:    "bob@x.io",
		RoomName:       "general",
		Content:        "hi there",
		MessageType:    "text",
		Timestamp:      "2026-01-02T15:04:05Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "bob@x.io", n.To)
	assert.Equal(t, `New message in "general"`, n.Subject)
	assert.Contains(t, n.Body, "Room: general (ID: 3)")
	assert.Contains(t, n.Body, "From: bob")
	assert.Contains(t, n.Body, `"hi there"`)
	assert.Contains(t, n.Body, "Message ID: 99")
	assert.Contains(t, n.Body, "Timestamp: 2026-01-02T15:04:05Z")
}

func TestRenderRoomJoin(t *testing.T) {
	d := newTestDispatcher(&recordingMailer{}, "")

	n, err := d.Render(contracts.UserJoinedRoom{
		RoomID:    5,
		UserID:    11,
		RoomName:  "devs",
		Username:  "carol",
		UserEmail: "carol@x.io",
		Role:      "admin",
	})
	require.NoError(t, err)

	assert.Equal(t, "carol@x.io", n.To)
	assert.Equal(t, `You've been added to "devs"!`, n.Subject)
	assert.Contains(t, n.Body, "Hello carol!")
	assert.Contains(t, n.Body, "Your Role: admin")
	assert.Contains(t, n.Body, "User ID: 11")
}

func TestRenderIsDeterministic(t *testing.T) {
	d := newTestDispatcher(&recordingMailer{}, "")
	evt := contracts.MessageCreated{
		MessageID:   1,
		RoomID:      2,
		SenderEmail: "x@y.z",
		RoomName:    "r",
		Content:     "c",
	}

	first, err := d.Render(evt)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := d.Render(evt)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTestRecipientOverridesMessageCreatedOnly(t *testing.T) {
	d := newTestDispatcher(&recordingMailer{}, "qa@x.com")

	n, err := d.Render(contracts.MessageCreated{SenderEmail: "real@x.io", RoomName: "r"})
	require.NoError(t, err)
	assert.Equal(t, "qa@x.com", n.To)

	n, err = d.Render(contracts.UserRegistered{Username: "u", Email: "real@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "real@x.io", n.To)

	n, err = d.Render(contracts.UserJoinedRoom{Username: "u", UserEmail: "real@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "real@x.io", n.To)
}

func TestInvalidRecipientSkipsTransport(t *testing.T) {
	mailer := &recordingMailer{}
	d := newTestDispatcher(mailer, "")

	events := []contracts.Event{
		contracts.UserRegistered{Username: "u", Email: "not-an-address"},
		contracts.MessageCreated{SenderEmail: "", RoomName: "r"},
		contracts.UserJoinedRoom{Username: "u", UserEmail: "missing-at"},
	}

	for _, evt := range events {
		_, err := d.Render(evt)
		assert.ErrorIs(t, err, ErrNoRecipient)

		d.Handle(evt)
	}

	assert.Empty(t, mailer.sent, "no event with a bad address may reach the transport")
}

func TestHandleContainsTransportErrors(t *testing.T) {
	d := newTestDispatcher(&recordingMailer{err: fmt.Errorf("connection refused")}, "")

	assert.NotPanics(t, func() {
		d.Handle(contracts.UserRegistered{Username: "u", Email: "u@x.io"})
	})
}

func TestHandleDelivers(t *testing.T) {
	mailer := &recordingMailer{}
	d := newTestDispatcher(mailer, "")

	d.Handle(contracts.UserRegistered{UserID: 1, Username: "dana", Email: "dana@x.io"})

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "dana@x.io", mailer.sent[0].To)
	assert.Equal(t, "Welcome to Murmur, dana!", mailer.sent[0].Subject)
}
