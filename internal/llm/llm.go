// Package llm normalizes the OpenAI and Anthropic APIs behind a single
// adapter contract: connection testing, flashcard generation with structured
// output, and image text extraction.
package llm

import (
	"context"
	"time"
)

// Provider identifies an external LLM vendor.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ProviderModels lists the models each provider supports. Configurations are
// validated against this set at write time.
var ProviderModels = map[Provider][]string{
	ProviderOpenAI:    {"gpt-4o", "gpt-4.1", "gpt-4o-mini"},
	ProviderAnthropic: {"claude-3.5-sonnet", "claude-3-opus"},
}

// SupportsModel reports whether model belongs to provider's supported set.
func SupportsModel(provider Provider, model string) bool {
	for _, m := range ProviderModels[provider] {
		if m == model {
			return true
		}
	}
	return false
}

// Difficulty selects the difficulty fragment of the generation prompt.
type Difficulty string

const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Style selects the card style fragment of the generation prompt.
type Style string

const (
	StyleQA      Style = "qa"
	StyleConcept Style = "concept"
)

// Options controls flashcard generation. Zero-value fields are filled from
// defaults by WithDefaults before an adapter is invoked.
type Options struct {
	Language   string     `json:"language,omitempty"`
	CardCount  int        `json:"cardCount,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Style      Style      `json:"style,omitempty"`
	FocusTypes []string   `json:"focusTypes,omitempty"`
}

// Defaults are the generation options applied when the caller omits a field.
// Deployments override them through configuration.
type Defaults struct {
	Language   string
	CardCount  int
	Difficulty Difficulty
	Style      Style
	FocusTypes []string
}

// WithDefaults returns a copy of o with empty fields replaced from d.
func (o Options) WithDefaults(d Defaults) Options {
	if o.Language == "" {
		o.Language = d.Language
	}
	if o.CardCount == 0 {
		o.CardCount = d.CardCount
	}
	if o.Difficulty == "" {
		o.Difficulty = d.Difficulty
	}
	if o.Style == "" {
		o.Style = d.Style
	}
	if len(o.FocusTypes) == 0 {
		o.FocusTypes = append([]string(nil), d.FocusTypes...)
	}
	return o
}

// Card is a single generated flashcard.
type Card struct {
	ID          string   `json:"id"`
	Front       string   `json:"front"`
	Back        string   `json:"back"`
	Tags        []string `json:"tags"`
	SourceQuote string   `json:"sourceQuote,omitempty"`
}

// Meta describes a generation run. CardCount always equals the number of
// cards in the result, and GeneratedAt is the local call time, not anything
// the vendor reports.
type Meta struct {
	Language    string    `json:"language"`
	CardCount   int       `json:"cardCount"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GenerationResult is the normalized output of GenerateFlashcards.
type GenerationResult struct {
	Cards []Card `json:"cards"`
	Meta  Meta   `json:"meta"`
}

// Adapter translates the uniform operations into one vendor's wire protocol.
// Every operation issues exactly one upstream call; failures surface
// immediately with no retries. Upstream 401/403 map to INVALID_KEY, 429 to
// RATE_LIMIT, any other non-2xx and all transport failures to
// PROVIDER_UNAVAILABLE.
type Adapter interface {
	// TestConnection makes one lightweight call to verify the key works
	// with the given model.
	TestConnection(ctx context.Context, apiKey, model string) error

	// GenerateFlashcards asks the model for a JSON-shaped answer and
	// normalizes it. Options must already have defaults applied.
	GenerateFlashcards(ctx context.Context, apiKey, model, content string, opts Options) (*GenerationResult, error)

	// ExtractImageText runs one multimodal call over a data-URI image and
	// returns the extracted text.
	ExtractImageText(ctx context.Context, apiKey, model, imageDataURI string) (string, error)
}
