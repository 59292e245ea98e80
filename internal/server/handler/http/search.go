package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mshiraki/tangocho/internal/models"
)

// SearchService defines the interface for word analysis required
// by the SearchHandler.
type SearchService interface {
	// Search analyzes a free-form query and returns structured word data.
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// SearchHandler handles HTTP requests for dictionary search.
type SearchHandler struct {
	SearchService SearchService
}

// SearchRequest represents the JSON payload for a search query.
type SearchRequest struct {
	// Query is the word, phrase, or question to analyze.
	Query string `json:"query"`
}

// Search handles POST /api/search requests.
// It forwards the query to the language model and returns the
// analyzed words. An empty query yields an empty result set.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	results, err := h.SearchService.Search(r.Context(), req.Query)
	if err != nil {
		http.Error(w, "search failed", http.StatusBadGateway)
		return
	}
	if results == nil {
		results = []models.SearchResult{}
	}

	writeJSON(w, http.StatusOK, results)
}
