package users

import "github.com/murmurchat/murmur/internal/domain"

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateUserRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type userResponse struct {
	Message string      `json:"message,omitempty"`
	User    domain.User `json:"user"`
}

type usersResponse struct {
	Users []domain.User `json:"users"`
	Count int           `json:"count"`
}
