package handlers

import (
	"net/http"

	"study-log-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest represents the request body for registering a nickname
type CreateUserRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateUser handles POST /api/v1/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, err, "create user")
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("name", user.Name).
		Msg("User created")

	respondJSON(w, map[string]any{"user": user}, http.StatusCreated)
}

// ListUsers handles GET /api/v1/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		respondServiceError(w, err, "list users")
		return
	}
	respondJSON(w, map[string]any{"users": users}, http.StatusOK)
}

// GetUserByName handles GET /api/v1/users/by-name/{name}
func (h *UserHandler) GetUserByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	user, err := h.userService.GetByName(r.Context(), name)
	if err != nil {
		respondServiceError(w, err, "get user")
		return
	}
	respondJSON(w, map[string]any{"user": user}, http.StatusOK)
}
