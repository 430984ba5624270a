package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Kedjuprecious/medibot-app/internal/metrics"
	"github.com/Kedjuprecious/medibot-app/internal/store"
)

// CreateUserRequest represents the account provisioning request body.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// CreateUserResponse represents the account provisioning response.
type CreateUserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CreateUser handles account provisioning after sign-up.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if !isValidEmail(req.Email) {
		h.Error(w, http.StatusBadRequest, "invalid email format")
		return
	}

	username := sanitizeName(req.Username)
	role := req.Role
	if role == "" {
		role = "patient"
	}
	if role != "patient" && role != "doctor" {
		h.Error(w, http.StatusBadRequest, "role must be patient or doctor")
		return
	}

	if _, err := h.db.CreateUser(r.Context(), req.Email, username, role); err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	metrics.UsersCreated.Inc()
	h.JSON(w, http.StatusOK, CreateUserResponse{
		Success: true,
		Message: "user created successfully",
	})
}

// GetUser handles account lookup by email.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		h.Error(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNoRows) {
			h.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	h.JSON(w, http.StatusOK, user)
}
