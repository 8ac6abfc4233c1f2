package notification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// ErrNoRecipient marks an event whose resolved delivery address is missing
// or malformed. It is a skip signal, not a failure.
var ErrNoRecipient = errors.New("no valid recipient address")

// Notification is one rendered email ready for the transport.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher routes decoded events to their render function and hands the
// result to the mail transport. Rendering is a pure function of the
// payload; identical payloads always produce identical output.
type Dispatcher struct {
	mailer Mailer
	logger *zap.SugaredLogger

	// testRecipient, when set, replaces the computed recipient for
	// message.created so an operator can redirect traffic to one mailbox.
	testRecipient string
}

func NewDispatcher(mailer Mailer, logger *zap.SugaredLogger, testRecipient string) *Dispatcher {
	return &Dispatcher{
		mailer:        mailer,
		logger:        logger,
		testRecipient: testRecipient,
	}
}

// Handle renders and delivers one event. Every failure is contained here:
// a skip or transport error becomes a log line and the loop moves on.
func (d *Dispatcher) Handle(evt contracts.Event) {
	n, err := d.Render(evt)
	if err != nil {
		metrics.NotificationsSkipped.WithLabelValues(evt.RoutingKey(), "no_recipient").Inc()
		d.logger.Warnw("skipping notification", "routing_key", evt.RoutingKey(), "reason", err)
		return
	}

	if err := d.mailer.Send(n.To, n.Subject, n.Body); err != nil {
		d.logger.Errorw("failed to send notification", "routing_key", evt.RoutingKey(), "to", n.To, "error", err)
		return
	}

	d.logger.Infow("notification delivered", "routing_key", evt.RoutingKey(), "to", n.To)
}

// Render produces the (recipient, subject, body) tuple for an event, or
// ErrNoRecipient when the resolved address has no "@" delimiter.
func (d *Dispatcher) Render(evt contracts.Event) (Notification, error) {
	switch e := evt.(type) {
	case contracts.UserRegistered:
		return d.renderWelcome(e)
	case contracts.MessageCreated:
		return d.renderMessage(e)
	case contracts.UserJoinedRoom:
		return d.renderRoomJoin(e)
	}
	return Notification{}, fmt.Errorf("no handler for event type %q", evt.RoutingKey())
}

func (d *Dispatcher) renderWelcome(e contracts.UserRegistered) (Notification, error) {
	if !validAddress(e.Email) {
		return Notification{}, fmt.Errorf("%w: %q", ErrNoRecipient, e.Email)
	}

	subject := fmt.Sprintf("Welcome to Murmur, %s!", e.Username)
	body := fmt.Sprintf(
		"Hello %s!\n\n"+
			"Your account (ID: %d) has been successfully created.\n\n"+
			"---\n"+
			"Your email: %s",
		e.Username, e.UserID, e.Email,
	)

	return Notification{To: e.Email, Subject: subject, Body: body}, nil
}

func (d *Dispatcher) renderMessage(e contracts.MessageCreated) (Notification, error) {
	recipient := e.SenderEmail
	if d.testRecipient != "" {
		recipient = d.testRecipient
	}
	if !validAddress(recipient) {
		return Notification{}, fmt.Errorf("%w: %q", ErrNoRecipient, recipient)
	}

	subject := fmt.Sprintf("New message in %q", e.RoomName)
	body := fmt.Sprintf(
		"Hello!\n\n"+
			"You have a new message in one of your chat rooms.\n\n"+
			"Room: %s (ID: %d)\n"+
			"From: %s\n"+
			"Message Type: %s\n\n"+
			"Message:\n"+
			"-------------------------------------\n"+
			"%q\n"+
			"-------------------------------------\n\n"+
			"---\n"+
			"Message ID: %d\n"+
			"Timestamp: %s",
		e.RoomName, e.RoomID, e.SenderUsername, e.MessageType, e.Content, e.MessageID, e.Timestamp,
	)

	return Notification{To: recipient, Subject: subject, Body: body}, nil
}

func (d *Dispatcher) renderRoomJoin(e contracts.UserJoinedRoom) (Notification, error) {
	if !validAddress(e.UserEmail) {
		return Notification{}, fmt.Errorf("%w: %q", ErrNoRecipient, e.UserEmail)
	}

	subject := fmt.Sprintf("You've been added to %q!", e.RoomName)
	body := fmt.Sprintf(
		"Hello %s!\n\n"+
			"You have been added to a new chat room.\n\n"+
			"Room Details:\n"+
			"-------------------------------------\n"+
			"Name: %s\n"+
			"Room ID: %d\n"+
			"Your Role: %s\n"+
			"-------------------------------------\n\n"+
			"---\n"+
			"User ID: %d\n"+
			"Email: %s",
		e.Username, e.RoomName, e.RoomID, e.Role, e.UserID, e.UserEmail,
	)

	return Notification{To: e.UserEmail, Subject: subject, Body: body}, nil
}

func validAddress(addr string) bool {
	return strings.Contains(addr, "@")
}
