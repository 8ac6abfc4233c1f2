package contracts

import (
	"encoding/json"
	"fmt"
)

// Broker topology shared by the API server and the notifier.
const (
	Exchange          = "chat_events"
	NotificationQueue = "notification_queue"
)

// Routing keys - the closed set of event types this system publishes.
const (
	EventUserRegistered = "user.registered"
	EventMessageCreated = "message.created"
	EventUserJoinedRoom = "user.joined_room"
)

// RoutingKeys returns every routing key the notification queue binds to.
// Bindings are exact-match strings, not topic patterns.
func RoutingKeys() []string {
	return []string{EventUserRegistered, EventMessageCreated, EventUserJoinedRoom}
}

// Event is a decoded domain event. Exactly one concrete variant exists per
// routing key; anything else decodes to Unknown so unrecognized traffic is
// handled once instead of at every call site.
type Event interface {
	RoutingKey() string
}

// UserRegistered is published after a successful registration.
type UserRegistered struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (UserRegistered) RoutingKey() string { return EventUserRegistered }

// MessageCreated is published after a message is stored in a room.
type MessageCreated struct {
	MessageID      int64  `json:"message_id"`
	RoomID         int64  `json:"room_id"`
	UserID         int64  `json:"user_id"`
	SenderUsername string `json:"sender_username"`
	SenderEmail    string `json:"sender_email"`
	RoomName       string `json:"room_name"`
	Content        string `json:"content"`
	MessageType    string `json:"message_type"`
	Timestamp      string `json:"timestamp"`
}

func (MessageCreated) RoutingKey() string { return EventMessageCreated }

// UserJoinedRoom is published after a user is added to a room.
type UserJoinedRoom struct {
	RoomID    int64  `json:"room_id"`
	UserID    int64  `json:"user_id"`
	RoomName  string `json:"room_name"`
	Username  string `json:"username"`
	UserEmail string `json:"user_email"`
	Role      string `json:"role"`
}

func (UserJoinedRoom) RoutingKey() string { return EventUserJoinedRoom }

// Unknown is valid broker traffic this consumer does not handle.
type Unknown struct {
	Key  string
	Body []byte
}

func (u Unknown) RoutingKey() string { return u.Key }

// Defaults for optional payload fields, applied at decode time.
const (
	DefaultUsername    = "User"
	DefaultSender      = "Unknown User"
	DefaultRoomName    = "Unknown Room"
	DefaultMessageType = "text"
	DefaultTimestamp   = "N/A"
	DefaultRole        = "member"
)

// Parse decodes a raw message body into the variant selected by routingKey.
// A routing key outside the closed set yields Unknown with a nil error; a
// malformed body yields an error the caller is expected to log and drop.
func Parse(routingKey string, body []byte) (Event, error) {
	switch routingKey {
	case EventUserRegistered:
		var e UserRegistered
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", routingKey, err)
		}
		if e.Username == "" {
			e.Username = DefaultUsername
		}
		return e, nil

	case EventMessageCreated:
		var e MessageCreated
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", routingKey, err)
		}
		if e.SenderUsername == "" {
			e.SenderUsername = DefaultSender
		}
		if e.RoomName == "" {
			e.RoomName = DefaultRoomName
		}
		if e.MessageType == "" {
			e.MessageType = DefaultMessageType
		}
		if e.Timestamp == "" {
			e.Timestamp = DefaultTimestamp
		}
		return e, nil

	case EventUserJoinedRoom:
		var e UserJoinedRoom
		if err := json.Unmarshal(body, &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", routingKey, err)
		}
		if e.RoomName == "" {
			e.RoomName = DefaultRoomName
		}
		if e.Username == "" {
			e.Username = DefaultUsername
		}
		if e.Role == "" {
			e.Role = DefaultRole
		}
		return e, nil
	}

	return Unknown{Key: routingKey, Body: body}, nil
}
