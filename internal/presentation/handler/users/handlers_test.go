package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/murmurchat/murmur/internal/domain"
	"github.com/murmurchat/murmur/internal/infrastructure/contracts"
	"github.com/murmurchat/murmur/internal/infrastructure/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	u := *user
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	u.IsActive = true
	r.nextID++
	r.users[u.ID] = &u
	return &u, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakePublisher struct {
	registered []contracts.UserRegistered
}

func (p *fakePublisher) PublishUserRegistered(_ context.Context, e contracts.UserRegistered) error {
	p.registered = append(p.registered, e)
	return nil
}

func newTestRouter(repo domain.UserRepository, pub Publisher) http.Handler {
	h := NewHandler(repo, pub)
	r := chi.NewRouter()
	r.Post("/api/register", h.RegisterHandler)
	r.Post("/api/login", h.LoginHandler)
	r.Get("/api/users", h.ListUsersHandler)
	r.Get("/api/users/{userId}", h.GetUserHandler)
	r.Patch("/api/users/{userId}", h.UpdateUserHandler)
	r.Delete("/api/users/{userId}", h.DeleteUserHandler)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterCreatesUserAndPublishesEvent(t *testing.T) {
	repo := newFakeUserRepo()
	pub := &fakePublisher{}
	router := newTestRouter(repo, pub)

	rec := doJSON(t, router, http.MethodPost, "/api/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret12",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotZero(t, resp.User.ID)

	require.Len(t, pub.registered, 1)
	assert.Equal(t, resp.User.ID, pub.registered[0].UserID)
	assert.Equal(t, "alice", pub.registered[0].Username)
	assert.Equal(t, "alice@example.com", pub.registered[0].Email)

	stored := repo.users[resp.User.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret12", stored.PasswordHash, "password must be stored hashed")
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"short username", map[string]string{"username": "ab", "email": "a@b.com", "password": "secret12"}},
		{"bad email", map[string]string{"username": "alice", "email": "nope", "password": "secret12"}},
		{"weak password", map[string]string{"username": "alice", "email": "a@b.com", "password": "letters"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			pub := &fakePublisher{}
			router := newTestRouter(repo, pub)

			rec := doJSON(t, router, http.MethodPost, "/api/register", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, pub.registered, "invalid registration must not publish")
			assert.Empty(t, repo.users)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	router := newTestRouter(repo, &fakePublisher{})

	body := map[string]string{"username": "alice", "email": "a@b.com", "password": "secret12"}
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/register", body).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, router, http.MethodPost, "/api/register", body).Code)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	hash, err := security.HashPassword("secret12")
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), &domain.User{
		Username: "alice", Email: "a@b.com", PasswordHash: hash,
	})
	require.NoError(t, err)

	router := newTestRouter(repo, &fakePublisher{})

	rec := doJSON(t, router, http.MethodPost, "/api/login",
		map[string]string{"username": "alice", "password": "secret12"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login",
		map[string]string{"username": "alice", "password": "wrong-pw1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/login",
		map[string]string{"username": "ghost", "password": "secret12"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUser(t *testing.T) {
	repo := newFakeUserRepo()
	created, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@b.com"})
	require.NoError(t, err)

	router := newTestRouter(repo, &fakePublisher{})

	rec := doJSON(t, router, http.MethodGet, "/api/users/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.User.ID)

	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodGet, "/api/users/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/api/users/abc", nil).Code)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo()
	_, err := repo.Create(context.Background(), &domain.User{Username: "alice", Email: "a@b.com"})
	require.NoError(t, err)

	router := newTestRouter(repo, &fakePublisher{})

	assert.Equal(t, http.StatusOK, doJSON(t, router, http.MethodDelete, "/api/users/1", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, router, http.MethodDelete, "/api/users/1", nil).Code)
	assert.Empty(t, repo.users)
}
