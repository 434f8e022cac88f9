// Package http provides the HTTP REST API for the user service.
package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/auth-platform/user-service/internal/user"
)

// Handler provides HTTP handlers for user operations.
type Handler struct {
	service *user.Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *user.Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest represents a user creation request body.
type CreateRequest struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Password string `json:"password"`
}

// UpdateRequest represents a partial user update request body.
type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Surname  *string `json:"surname,omitempty"`
	Password *string `json:"password,omitempty"`
}

// UserResponse represents a single user. The password is never serialized.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListResponse represents a paginated user list.
type ListResponse struct {
	Users   []UserResponse `json:"users"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Message string `json:"message"`
}

// List handles GET /api/v1/users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		WriteBadRequest(w, r, "page must be an integer")
		return
	}
	perPage, err := queryInt(r, "per_page", user.DefaultPerPage)
	if err != nil {
		WriteBadRequest(w, r, "per_page must be an integer")
		return
	}

	result, err := h.service.List(r.Context(), user.PageRequest{Page: page, PerPage: perPage})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	users := make([]UserResponse, 0, len(result.Users))
	for _, u := range result.Users {
		users = append(users, toUserResponse(&u))
	}

	writeJSON(w, http.StatusOK, ListResponse{
		Users:   users,
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
	})
}

// Get handles GET /api/v1/users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		if user.IsNotFound(err) {
			WriteNotFound(w, r, fmt.Sprintf("User with id %d not found", id))
			return
		}
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Create handles POST /api/v1/users
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, r, "invalid request body")
		return
	}

	u, err := h.service.Create(r.Context(), user.CreateInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Password: req.Password,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// Update handles PUT /api/v1/users/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, r, "invalid request body")
		return
	}

	u, err := h.service.Update(r.Context(), id, user.UpdateInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Password: req.Password,
	})
	if err != nil {
		if user.IsNotFound(err) {
			WriteNotFound(w, r, fmt.Sprintf("User with id %d not found", id))
			return
		}
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Delete handles DELETE /api/v1/users/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if user.IsNotFound(err) {
			WriteNotFound(w, r, fmt.Sprintf("User with id %d not found", id))
			return
		}
		WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: fmt.Sprintf("User with id %d has been deleted", id),
	})
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, r, "id must be an integer")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Error intentionally ignored - response already committed
}
