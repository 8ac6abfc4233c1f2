package rooms

import "github.com/murmurchat/murmur/internal/domain"

type createRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   int64  `json:"created_by"`
	IsPrivate   bool   `json:"is_private"`
}

type updateRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addMemberRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role,omitempty"`
}

type roomResponse struct {
	Message string      `json:"message,omitempty"`
	Room    domain.Room `json:"room"`
}

type roomsResponse struct {
	Rooms []domain.Room `json:"rooms"`
	Count int           `json:"count"`
}

type membersResponse struct {
	Members []domain.User `json:"members"`
	Count   int           `json:"count"`
}
