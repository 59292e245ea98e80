package service

import (
	"context"
	"strings"

	"github.com/mshiraki/tangocho/internal/llm"
	"github.com/mshiraki/tangocho/internal/models"
)

// SearchService implements word analysis by delegating to an injected
// llm.Provider.
type SearchService struct {
	// provider performs the actual text analysis.
	provider llm.Provider
}

// NewSearchService constructs a SearchService using the provided
// provider.
func NewSearchService(provider llm.Provider) *SearchService {
	return &SearchService{provider: provider}
}

// Search analyzes the query and returns vocabulary items ready to be
// saved. An empty query yields an empty result, not an error.
func (s *SearchService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return s.provider.Analyze(ctx, query)
}
