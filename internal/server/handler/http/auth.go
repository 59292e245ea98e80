// Package http provides HTTP handlers for the vocabulary service,
// including registration, login, vocabulary management, search,
// statistics, and push notification endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mshiraki/tangocho/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a new user and issues a session for it.
	Register(ctx context.Context, login string) (*models.Session, error)
	// Login issues a session for an existing user.
	Login(ctx context.Context, login string) (*models.Session, error)
	// Logout revokes the given session token.
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for user registration and login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// RegisterRequest represents the JSON payload for registration and login.
type RegisterRequest struct {
	// Login is the username to register or sign in as.
	Login string `json:"login"`
}

// Register handles POST /api/register requests.
// It expects a JSON body with a non-empty "login" field, creates
// the user, and returns a session token the client presents as a
// bearer token on subsequent requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.AuthService.Register(r.Context(), req.Login)
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			http.Error(w, "user already exists", http.StatusConflict)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Login handles POST /api/login requests.
// It expects a JSON body with a non-empty "login" field and
// returns a fresh session token for the existing user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Login)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Logout handles POST /api/logout requests.
// It revokes the bearer token the request was authenticated with.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return
	}

	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeJSON encodes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// bearerToken extracts the token from the Authorization header, or
// returns an empty string.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return ""
	}
	return header[len(prefix):]
}
