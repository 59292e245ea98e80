package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mshiraki/tangocho/internal/middleware"
)

// NotificationService defines the interface for push subscription
// management required by the NotificationHandler.
type NotificationService interface {
	// Subscribe stores or replaces the user's push subscription.
	Subscribe(ctx context.Context, userLogin, endpoint, p256dh, auth string) error
	// Unsubscribe removes the user's push subscription.
	Unsubscribe(ctx context.Context, userLogin string) error
}

// NotificationHandler handles HTTP requests for push notification
// subscriptions.
type NotificationHandler struct {
	NotificationService NotificationService
}

// SubscribeRequest represents the JSON payload of a browser push
// subscription, as produced by PushManager.subscribe.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256DH string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// Subscribe handles POST /api/notifications/subscribe requests.
// Each user holds at most one subscription, so subscribing again
// replaces the previous one.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.NotificationService.Subscribe(r.Context(), user, req.Endpoint, req.Keys.P256DH, req.Keys.Auth); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Unsubscribe handles DELETE /api/notifications/subscribe requests.
func (h *NotificationHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	if err := h.NotificationService.Unsubscribe(r.Context(), user); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
