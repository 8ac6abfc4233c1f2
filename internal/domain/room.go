package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomAlreadyExists = errors.New("room already exists")
	ErrAlreadyMember     = errors.New("user is already a member of the room")
	ErrNotMember         = errors.New("user is not a member of the room")
)

// Roles a member can hold inside a room.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	IsPrivate   bool      `json:"is_private"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) (*Room, error)
	Update(ctx context.Context, id int64, name, description string) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Room, error)
	GetByName(ctx context.Context, name string) (*Room, error)
	GetAll(ctx context.Context) ([]Room, error)
	GetByUser(ctx context.Context, userID int64) ([]Room, error)

	AddMember(ctx context.Context, userID, roomID int64, role string) error
	RemoveMember(ctx context.Context, userID, roomID int64) error
	GetMembers(ctx context.Context, roomID int64) ([]User, error)
	IsMember(ctx context.Context, userID, roomID int64) (bool, error)
}
