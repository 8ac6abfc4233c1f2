package users

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/murmurchat/murmur/internal/domain"
	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/json"
	"github.com/murmurchat/murmur/internal/infrastructure/security"
	"github.com/murmurchat/murmur/internal/infrastructure/validate"
	"github.com/murmurchat/murmur/internal/presentation/utils"
)

// Publisher is the slice of the event publisher this handler needs.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, e contracts.UserRegistered) error
}

type Handler struct {
	userRepository domain.UserRepository
	publisher      Publisher
}

func NewHandler(userRepository domain.UserRepository, publisher Publisher) *Handler {
	return &Handler{
		userRepository: userRepository,
		publisher:      publisher,
	}
}

// RegisterHandler creates an account and announces it on the event bus.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validate.Field("username", validate.Username())(req.Username); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Field("email", validate.Required(), validate.Email())(req.Email); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := validate.Field("password", validate.Password(8))(req.Password); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	ctx := r.Context()
	created, err := h.userRepository.Create(ctx, &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			json.WriteError(w, http.StatusConflict, err, "Username or email already exists")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if err := h.publisher.PublishUserRegistered(ctx, contracts.UserRegistered{
		UserID:   created.ID,
		Username: created.Username,
		Email:    created.Email,
	}); err != nil {
		log.Printf("Error publishing user registered: %v", err)
	}

	json.Write(w, http.StatusCreated, userResponse{
		Message: "User registered successfully",
		User:    *created,
	})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		json.WriteBadRequestError(w, "username and password are required")
		return
	}

	ctx := r.Context()
	user, err := h.userRepository.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteError(w, http.StatusUnauthorized, err, "Invalid username or password")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if !ok {
		json.WriteError(w, http.StatusUnauthorized, errors.New("unauthorized"), "Invalid username or password")
		return
	}

	if err := h.userRepository.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("Failed to update last login for user %d: %v", user.ID, err)
	}

	json.Write(w, http.StatusOK, userResponse{
		Message: "Login successful",
		User:    *user,
	})
}

func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "userId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	user, err := h.userRepository.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteNotFoundError(w, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, userResponse{User: *user})
}

func (h *Handler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepository.GetAll(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}

	json.Write(w, http.StatusOK, usersResponse{Users: users, Count: len(users)})
}

func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "userId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	var req updateUserRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.Email == "" && req.Password == "" {
		json.WriteBadRequestError(w, "nothing to update: provide email or password")
		return
	}

	ctx := r.Context()
	user, err := h.userRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteNotFoundError(w, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	if req.Email != "" {
		if err := validate.Field("email", validate.Email())(req.Email); err != nil {
			json.WriteValidationError(w, err)
			return
		}
		user.Email = req.Email
	}
	if req.Password != "" {
		if err := validate.Field("password", validate.Password(8))(req.Password); err != nil {
			json.WriteValidationError(w, err)
			return
		}
		hash, err := security.HashPassword(req.Password)
		if err != nil {
			json.WriteInternalError(w, err)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.userRepository.Update(ctx, user); err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, userResponse{
		Message: "User updated successfully",
		User:    *user,
	})
}

func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(r, "userId")
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.userRepository.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			json.WriteNotFoundError(w, "User not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
