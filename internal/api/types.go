package api

import (
	"time"

	"github.com/studyforge/studyforge/internal/llm"
)

// --- LLM configuration types ---

// SaveLLMConfigRequest is the request body for PUT /api/v1/llm-config.
type SaveLLMConfigRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key"`
}

// LLMConfigResponse describes the caller's stored configuration. The API key
// is always masked; plaintext never leaves the server.
type LLMConfigResponse struct {
	Configured   bool   `json:"configured"`
	Provider     string `json:"provider,omitempty"`
	Model        string `json:"model,omitempty"`
	APIKeyMasked string `json:"api_key_masked,omitempty"`
}

// TestConnectionRequest is the request body for POST /api/v1/llm-config/test.
// All fields optional: omitted fields fall back to the stored configuration.
type TestConnectionRequest struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
}

// TestConnectionResponse reports a successful connection test.
type TestConnectionResponse struct {
	OK       bool   `json:"ok"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// --- Generation types ---

// GenerateRequest is the request body for POST /api/v1/flashcards/generate.
type GenerateRequest struct {
	Content string      `json:"content"`
	Options llm.Options `json:"options"`
}

// ExtractImageTextRequest is the request body for POST /api/v1/images/extract-text.
type ExtractImageTextRequest struct {
	Image string `json:"image"`
}

// ExtractImageTextResponse carries the text recovered from an image.
type ExtractImageTextResponse struct {
	Text string `json:"text"`
}

// --- Deck types ---

// CreateDeckRequest is the request body for POST /api/v1/decks.
type CreateDeckRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// SaveCardsRequest is the request body for POST /api/v1/decks/{id}/cards.
type SaveCardsRequest struct {
	Cards []CardPayload `json:"cards"`
}

// CardPayload is one flashcard to store.
type CardPayload struct {
	Front       string   `json:"front"`
	Back        string   `json:"back"`
	Tags        []string `json:"tags,omitempty"`
	SourceQuote string   `json:"source_quote,omitempty"`
}

// SaveCardsResponse reports how many cards were stored.
type SaveCardsResponse struct {
	Saved int `json:"saved"`
}

// DeckResponse is the JSON representation of a deck, including derived
// study progress.
type DeckResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CardCount   int       `json:"card_count"`
	Progress    float64   `json:"progress"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckListResponse is the response for GET /api/v1/decks.
type DeckListResponse struct {
	Decks []DeckResponse `json:"decks"`
}

// --- Token types ---

// CreateTokenRequest is the request body for POST /api/v1/tokens.
type CreateTokenRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenResponse is the JSON representation of an API token. The plaintext
// token appears only in the creation response.
type TokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Token      string     `json:"token,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenListResponse is the response for GET /api/v1/tokens.
type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}
