package domain

import (
	"context"
	"errors"
	"time"
)

var ErrMessageNotFound = errors.New("message not found")

// Recognized message types.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeFile  = "file"
)

type Message struct {
	ID          int64      `json:"id"`
	RoomID      int64      `json:"room_id"`
	UserID      int64      `json:"user_id"`
	Content     string     `json:"content"`
	MessageType string     `json:"message_type"`
	CreatedAt   time.Time  `json:"created_at"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
	IsDeleted   bool       `json:"is_deleted"`
}

type MessageRepository interface {
	Create(ctx context.Context, roomID, userID int64, content, messageType string) (*Message, error)
	Update(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	GetByRoom(ctx context.Context, roomID int64, limit, offset int) ([]Message, error)
}
