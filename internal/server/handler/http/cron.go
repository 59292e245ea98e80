package http

import (
	"context"
	"net/http"
)

// ReminderSender defines the interface for dispatching due-word
// reminders, required by the CronHandler.
type ReminderSender interface {
	// SendDueReminders pushes a reminder to every subscriber with
	// due words and reports how many sends succeeded and failed.
	SendDueReminders(ctx context.Context) (sent, failed int, err error)
}

// CronHandler handles the external cron trigger for push reminders.
// The endpoint bypasses session auth and is guarded by a shared
// secret instead, so a hosted cron service can call it.
type CronHandler struct {
	ReminderSender ReminderSender
	// Secret is the expected bearer token. When empty the endpoint
	// is disabled.
	Secret string
}

// Send handles GET /api/cron/send-notifications requests.
// It requires "Authorization: Bearer <secret>" and triggers one
// reminder sweep over all push subscriptions.
func (h *CronHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.Secret == "" || bearerToken(r) != h.Secret {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sent, failed, err := h.ReminderSender.SendDueReminders(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"sent": sent, "failed": failed})
}
