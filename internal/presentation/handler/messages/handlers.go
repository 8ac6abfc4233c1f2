package messages

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/murmurchat/murmur/internal/domain"
	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/json"
	"github.com/murmurchat/murmur/internal/infrastructure/profanity"
	"github.com/murmurchat/murmur/internal/infrastructure/validate"
	"github.com/murmurchat/murmur/internal/presentation/utils"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Publisher is the slice of the event publisher this handler needs.
type Publisher interface {
	PublishMessageCreated(ctx context.Context, e contracts.MessageCreated) error
}

type Handler struct {
	messageRepository domain.MessageRepository
	roomRepository    domain.RoomRepository
	userRepository    domain.UserRepository
	publisher         Publisher
	filter            *profanity.Filter
}

func NewHandler(
	messageRepository domain.MessageRepository,
	roomRepository domain.RoomRepository,
	userRepository domain.UserRepository,
	publisher Publisher,
	filter *profanity.Filter,
) *Handler {
	return &Handler{
		messageRepository: messageRepository,
		roomRepository:    roomRepository,
		userRepository:    userRepository,
		publisher:         publisher,
		filter:            filter,
	}
}

// CreateMessageHandler stores a message from a room member and announces it
// on the event bus.
func (h *Handler) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req createMessageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.UserID <= 0 {
		json.WriteBadRequestError(w, "user_id must be a positive user ID")
		return
	}
	if err := validate.Field("content", validate.MessageContent())(req.Content); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = domain.MessageTypeText
	}
	if err := validate.Field("message_type", validate.MessageType())(messageType); err != nil {
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

	sender, err := h.userRepository.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteNotFoundError(w, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	member, err := h.roomRepository.IsMember(ctx, req.UserID, roomID)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if !member {
		json.WriteError(w, http.StatusForbidden, errors.New("forbidden"), "User is not a member of this room")
		return
	}

	content := req.Content
	if h.filter != nil && messageType == domain.MessageTypeText {
		content = h.filter.Mask(content)
	}

	created, err := h.messageRepository.Create(ctx, roomID, req.UserID, content, messageType)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	if err := h.publisher.PublishMessageCreated(ctx, contracts.MessageCreated{
		MessageID:      created.ID,
		RoomID:         room.ID,
		UserID:         sender.ID,
		SenderUsername: sender.Username,
		SenderEmail:    sender.Email,
		RoomName:       room.Name,
		Content:        created.Content,
		MessageType:    created.MessageType,
		Timestamp:      created.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("Error publishing message created: %v", err)
	}

	json.Write(w, http.StatusCreated, messageResponse{
		Message: "Message sent successfully",
		Data:    *created,
	})
}

// GetRoomMessagesHandler returns room history, newest first.
func (h *Handler) GetRoomMessagesHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := utils.ParseID(r, "roomId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	limit := utils.QueryInt(r, "limit", defaultHistoryLimit)
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := utils.QueryInt(r, "offset", 0)

	msgs, err := h.messageRepository.GetByRoom(r.Context(), roomID, limit, offset)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}

	json.Write(w, http.StatusOK, messagesResponse{
		Messages: msgs,
		Count:    len(msgs),
		Limit:    limit,
		Offset:   offset,
	})
}

func (h *Handler) GetMessageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "messageId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	msg, err := h.messageRepository.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			json.WriteNotFoundError(w, "Message not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, messageResponse{Data: *msg})
}

func (h *Handler) UpdateMessageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "messageId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req updateMessageRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Field("content", validate.MessageContent())(req.Content); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.messageRepository.Update(r.Context(), id, req.Content); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			json.WriteNotFoundError(w, "Message not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"message": "Message updated successfully"})
}

func (h *Handler) DeleteMessageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "messageId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.messageRepository.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			json.WriteNotFoundError(w, "Message not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}
