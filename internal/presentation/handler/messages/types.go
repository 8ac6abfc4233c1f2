package messages

import "github.com/murmurchat/murmur/internal/domain"

type createMessageRequest struct {
	UserID      int64  `json:"user_id"`
	Content     string `json:"content"`
	MessageType string `json:"message_type,omitempty"`
}

type updateMessageRequest struct {
	Content string `json:"content"`
}

type messageResponse struct {
	Message string         `json:"message,omitempty"`
	Data    domain.Message `json:"data"`
}

type messagesResponse struct {
	Messages []domain.Message `json:"messages"`
	Count    int              `json:"count"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}
