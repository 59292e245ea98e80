package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mshiraki/tangocho/internal/middleware"
	"github.com/mshiraki/tangocho/internal/models"
)

// VocabularyService defines the interface for vocabulary operations
// required by the VocabularyHandler.
type VocabularyService interface {
	// Save stores an analyzed word as a new vocabulary entry for the user.
	Save(ctx context.Context, userLogin string, result models.SearchResult) (*models.VocabularyEntry, error)
	// List returns all of the user's entries, newest first.
	List(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error)
	// Delete removes one of the user's entries.
	Delete(ctx context.Context, userLogin, id string) error
	// Review applies a review outcome to an entry and reschedules it.
	Review(ctx context.Context, userLogin, id string, remembered bool) (*models.VocabularyEntry, error)
	// Unmaster returns a mastered entry to the learning queue.
	Unmaster(ctx context.Context, userLogin, id string) (*models.VocabularyEntry, error)
	// DueEntries returns the entries currently due for review.
	DueEntries(ctx context.Context, userLogin string) ([]models.VocabularyEntry, error)
	// DueCount returns the number of entries currently due for review.
	DueCount(ctx context.Context, userLogin string) (int, error)
	// Stats aggregates the user's learning progress.
	Stats(ctx context.Context, userLogin string) (*models.StudyStats, error)
	// ReviewHistory returns per-day review counts for the last days.
	ReviewHistory(ctx context.Context, userLogin string, days int) ([]models.DailyReviews, error)
}

// VocabularyHandler handles HTTP requests for vocabulary entries,
// review scheduling, and study statistics.
type VocabularyHandler struct {
	VocabularyService VocabularyService
}

// Create handles POST /api/vocabulary requests.
// It decodes an analyzed word from the body and saves it as a new
// entry owned by the authenticated user.
func (h *VocabularyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	var req models.SearchResult
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Word == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entry, err := h.VocabularyService.Save(r.Context(), user, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

// List handles GET /api/vocabulary requests.
func (h *VocabularyHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	entries, err := h.VocabularyService.List(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []models.VocabularyEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

// Delete handles DELETE /api/vocabulary/{id} requests.
func (h *VocabularyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.VocabularyService.Delete(r.Context(), user, id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReviewRequest represents the JSON payload for a review outcome.
type ReviewRequest struct {
	// Remembered reports whether the user recalled the word.
	Remembered bool `json:"remembered"`
}

// Review handles POST /api/vocabulary/{id}/review requests.
// It applies the review outcome to the entry's schedule and returns
// the updated entry.
func (h *VocabularyHandler) Review(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	entry, err := h.VocabularyService.Review(r.Context(), user, id, req.Remembered)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Unmaster handles POST /api/vocabulary/{id}/unmaster requests.
// It returns a mastered entry to the learning queue, due today.
func (h *VocabularyHandler) Unmaster(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	entry, err := h.VocabularyService.Unmaster(r.Context(), user, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Due handles GET /api/vocabulary/due requests.
// It returns the entries currently due for review, never-reviewed
// first, then by scheduled time.
func (h *VocabularyHandler) Due(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	entries, err := h.VocabularyService.DueEntries(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []models.VocabularyEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}

// DueCount handles GET /api/vocabulary/due/count requests.
func (h *VocabularyHandler) DueCount(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	count, err := h.VocabularyService.DueCount(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Stats handles GET /api/stats requests.
func (h *VocabularyHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	stats, err := h.VocabularyService.Stats(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// historyDays is the review history window returned by the API.
const historyDays = 7

// History handles GET /api/stats/history requests.
func (h *VocabularyHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserIDFromContext(r.Context())

	history, err := h.VocabularyService.ReviewHistory(r.Context(), user, historyDays)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if history == nil {
		history = []models.DailyReviews{}
	}

	writeJSON(w, http.StatusOK, history)
}

// writeServiceError maps service-layer errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrUnauthenticated):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
