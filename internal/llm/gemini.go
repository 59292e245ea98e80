package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mshiraki/tangocho/internal/models"
)

// defaultGeminiURL is the generateContent endpoint template; the model
// name is interpolated at request time.
const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// Gemini is a word-analysis provider backed by the Gemini REST API in
// JSON response mode.
type Gemini struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGemini creates a Gemini provider with the given API key and model.
// Returns an error if the key is empty.
func NewGemini(apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	return &Gemini{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name returns the provider identifier.
func (g *Gemini) Name() string { return "gemini" }

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

// geminiResponse is the subset of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// analyzedItem is the JSON shape the prompt instructs the model to emit.
type analyzedItem struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic"`
	Meaning   string `json:"meaning"`
	Example   string `json:"example"`
	ExampleJP string `json:"example_jp"`
}

// Analyze sends the query to Gemini and parses the structured result.
func (g *Gemini) Analyze(ctx context.Context, query string) ([]models.SearchResult, error) {
	request := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(query)}}},
		},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("gemini API error: %s", response.Error.Message)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	text := response.Candidates[0].Content.Parts[0].Text
	return parseItems(text)
}

// buildPrompt produces the analysis prompt. A single word is defined
// directly; a sentence yields its most useful keywords.
func buildPrompt(query string) string {
	return fmt.Sprintf(`You are an English teacher. The user has provided the following input: "%s".

INSTRUCTIONS:
1. If the input is a **single word/phrase**, define it directly.
2. If the input is a **sentence or paragraph**, identify 1 to 3 most difficult/important keywords (vocabulary) from it.

For each item, provide the details in a STRICT JSON ARRAY format:
[
  {
    "word": "The word/phrase",
    "phonetic": "IPA pronunciation",
    "meaning": "Clear definition in JAPANESE (日本語)",
    "example": "If input was a long text, USE THE INPUT SENTENCE HERE. If input was a single word, create a new example.",
    "example_jp": "Japanese translation of the example"
  }
]

Do not include any markdown formatting. Just the raw JSON array.`, query)
}

// parseItems decodes the model output, tolerating stray markdown fences
// and a bare object in place of a one-element array.
func parseItems(text string) ([]models.SearchResult, error) {
	clean := strings.TrimSpace(text)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var items []analyzedItem
	if err := json.Unmarshal([]byte(clean), &items); err != nil {
		var single analyzedItem
		if err2 := json.Unmarshal([]byte(clean), &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse analysis response: %w", err)
		}
		items = []analyzedItem{single}
	}

	results := make([]models.SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, models.SearchResult{
			Word:      item.Word,
			Phonetic:  item.Phonetic,
			Meaning:   item.Meaning,
			Example:   item.Example,
			ExampleJP: item.ExampleJP,
		})
	}
	return results, nil
}
