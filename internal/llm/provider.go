// Package llm provides the word-analysis providers backing the search
// feature. A provider takes an English word, phrase, or sentence and
// returns analyzed vocabulary items ready to be saved.
package llm

import (
	"context"

	"github.com/mshiraki/tangocho/internal/models"
)

// Provider is the interface implemented by all word-analysis backends
// (Gemini, mock). The provider is selected once at startup and injected
// into the search service; there is no process-global instance.
type Provider interface {
	// Name returns the provider identifier for logging.
	Name() string
	// Analyze inspects the query and returns one analyzed item for a
	// single word, or the most useful keywords for a sentence.
	Analyze(ctx context.Context, query string) ([]models.SearchResult, error)
}
