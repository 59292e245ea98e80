package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/mshiraki/tangocho/internal/models"
)

// Mock is a word-analysis provider that fabricates deterministic results
// without calling any external API. It is used in development and tests.
type Mock struct{}

// NewMock creates a Mock provider.
func NewMock() *Mock { return &Mock{} }

// Name returns the provider identifier.
func (m *Mock) Name() string { return "mock" }

// Analyze returns canned results derived from the query: a single word
// echoes back one item, a sentence yields its first two words as
// keywords.
func (m *Mock) Analyze(_ context.Context, query string) ([]models.SearchResult, error) {
	fields := strings.Fields(strings.TrimSpace(query))
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty query")
	}

	// Three or more words are treated as a sentence, as the real
	// provider's prompt does.
	if len(fields) >= 3 {
		keywords := fields[:2]
		results := make([]models.SearchResult, 0, len(keywords))
		for _, word := range keywords {
			word = strings.Trim(word, ".,!?")
			results = append(results, models.SearchResult{
				Word:      word,
				Phonetic:  "/mɒk/",
				Meaning:   fmt.Sprintf("【モック】「%s」の意味（テスト用）", word),
				Example:   query,
				ExampleJP: fmt.Sprintf("【モック】%sの日本語訳", query),
			})
		}
		return results, nil
	}

	word := strings.ToLower(strings.TrimSpace(query))
	return []models.SearchResult{
		{
			Word:      word,
			Phonetic:  "/ˈmɒk.ɪŋ/",
			Meaning:   fmt.Sprintf("【モック】「%s」の意味です（テスト用モックデータ）", word),
			Example:   fmt.Sprintf("This is a mock example sentence for %q.", word),
			ExampleJP: fmt.Sprintf("これは「%s」のモック例文です。", word),
		},
	}, nil
}
