package api

import (
	"net/http"

	"github.com/phrazzld/users-api/internal/api/shared"
	"github.com/phrazzld/users-api/internal/service"
)

// UserHandler handles the /api/users endpoints
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService) *UserHandler {
	if userService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userService cannot be nil")
	}
	return &UserHandler{userService: userService}
}

// CreateUser handles POST /api/users requests
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.userService.CreateUser(r.Context(), service.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusCreated, userToResponse(user))
}

// ListUsers handles GET /api/users requests
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, usersToResponse(users))
}

// GetUser handles GET /api/users/{id} requests
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(r.Context(), pathID(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, userToResponse(user))
}

// UpdateUser handles PUT /api/users/{id} requests
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := decodeBody(w, r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), pathID(r), service.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, userToResponse(user))
}

// DeleteUser handles DELETE /api/users/{id} requests
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), pathID(r)); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
