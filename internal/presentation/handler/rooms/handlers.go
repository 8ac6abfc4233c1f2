package rooms

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/murmurchat/murmur/internal/domain"
	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/json"
	"github.com/murmurchat/murmur/internal/infrastructure/validate"
	"github.com/murmurchat/murmur/internal/presentation/utils"
)

// Publisher is the slice of the event publisher this handler needs.
type Publisher interface {
	PublishUserJoinedRoom(ctx context.Context, e contracts.UserJoinedRoom) error
}

type Handler struct {
	roomRepository domain.RoomRepository
	userRepository domain.UserRepository
	publisher      Publisher
}

func NewHandler(
	roomRepository domain.RoomRepository,
	userRepository domain.UserRepository,
	publisher Publisher,
) *Handler {
	return &Handler{
		roomRepository: roomRepository,
		userRepository: userRepository,
		publisher:      publisher,
	}
}

// CreateRoomHandler creates a room and enrolls the creator as its admin.
func (h *Handler) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validate.Field("name", validate.RoomName())(req.Name); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Field("description", validate.RoomDescription())(req.Description); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.CreatedBy <= 0 {
		json.WriteBadRequestError(w, "created_by must be a positive user ID")
		return
	}

	ctx := r.Context()
	if _, err := h.userRepository.GetByID(ctx, req.CreatedBy); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteNotFoundError(w, "Creating user not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	created, err := h.roomRepository.Create(ctx, &domain.Room{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRoomAlreadyExists) {
			json.WriteError(w, http.StatusConflict, err, "Room already exists")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if err := h.roomRepository.AddMember(ctx, req.CreatedBy, created.ID, domain.RoleAdmin); err != nil {
		log.Printf("Failed to enroll creator %d in room %d: %v", req.CreatedBy, created.ID, err)
	}

	json.Write(w, http.StatusCreated, roomResponse{
		Message: "Room created successfully",
		Room:    *created,
	})
}

func (h *Handler) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomRepository.GetAll(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}

	json.Write(w, http.StatusOK, roomsResponse{Rooms: rooms, Count: len(rooms)})
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	room, err := h.roomRepository.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			json.WriteNotFoundError(w, "Room not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, roomResponse{Room: *room})
}

func (h *Handler) GetUserRoomsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.ParseID(r, "userId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	rooms, err := h.roomRepository.GetByUser(r.Context(), userID)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if rooms == nil {
		rooms = []domain.Room{}
	}

	json.Write(w, http.StatusOK, roomsResponse{Rooms: rooms, Count: len(rooms)})
}

func (h *Handler) UpdateRoomHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req updateRoomRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Field("name", validate.RoomName())(req.Name); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Field("description", validate.RoomDescription())(req.Description); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.roomRepository.Update(r.Context(), id, req.Name, req.Description); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			json.WriteNotFoundError(w, "Room not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"message": "Room updated successfully"})
}

func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.roomRepository.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			json.WriteNotFoundError(w, "Room not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"message": "Room deleted successfully"})
}

func (h *Handler) GetMembersHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	members, err := h.roomRepository.GetMembers(r.Context(), id)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if members == nil {
		members = []domain.User{}
	}

	json.Write(w, http.StatusOK, membersResponse{Members: members, Count: len(members)})
}

// AddMemberHandler enrolls a user in a room and announces it on the event bus.
func (h *Handler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req addMemberRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.UserID <= 0 {
		json.WriteBadRequestError(w, "user_id must be a positive user ID")
		return
	}

	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	if err := validate.Field("role", validate.OneOf(domain.RoleMember, domain.RoleAdmin))(role); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	ctx := r.Context()
	room, err := h.roomRepository.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			json.WriteNotFoundError(w, "Room not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	user, err := h.userRepository.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteNotFoundError(w, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if err := h.roomRepository.AddMember(ctx, req.UserID, roomID, role); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			json.WriteError(w, http.StatusConflict, err, "User is already a member of this room")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if err := h.publisher.PublishUserJoinedRoom(ctx, contracts.UserJoinedRoom{
		RoomID:    room.ID,
		UserID:    user.ID,
		RoomName:  room.Name,
		Username:  user.Username,
		UserEmail: user.Email,
		Role:      role,
	}); err != nil {
		log.Printf("Error publishing user joined room: %v", err)
	}

	json.Write(w, http.StatusCreated, map[string]string{"message": "Member added successfully"})
}

func (h *Handler) RemoveMemberHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}
	userID, err := utils.ParseID(r, "userId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.roomRepository.RemoveMember(r.Context(), userID, roomID); err != nil {
		if errors.Is(err, domain.ErrNotMember) {
			json.WriteNotFoundError(w, "User is not a member of this room")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"message": "Member removed successfully"})
}
