package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAIAdapter implements Adapter against the OpenAI REST API.
type OpenAIAdapter struct {
	baseURL string
	client  *http.Client
}

// NewOpenAIAdapter creates an adapter. baseURL overrides the public endpoint
// (used by tests and OpenAI-compatible gateways); empty means the default.
func NewOpenAIAdapter(baseURL string, client *http.Client) *OpenAIAdapter {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAIAdapter{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openaiChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openaiMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *openaiFormat   `json:"response_format,omitempty"`
}

type openaiFormat struct {
	Type string `json:"type"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openaiImagePart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openaiImageURL `json:"image_url,omitempty"`
}

type openaiImageURL struct {
	URL string `json:"url"`
}

// TestConnection fetches the model list, the cheapest authenticated call
// OpenAI offers.
func (o *OpenAIAdapter) TestConnection(ctx context.Context, apiKey, model string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/v1/models", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return ErrProviderUnavailable(ProviderOpenAI,
			"Unable to connect to OpenAI. Please check your internet connection and try again.")
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return classifyVendorStatus(ProviderOpenAI, resp.StatusCode, body)
}

// GenerateFlashcards sends one chat completion asking for a json_object
// answer and normalizes the card payload.
func (o *OpenAIAdapter) GenerateFlashcards(ctx context.Context, apiKey, model, content string, opts Options) (*GenerationResult, error) {
	prompt, err := buildGenerationPrompt(content, opts)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	text, err := o.chat(ctx, apiKey, openaiChatRequest{
		Model: model,
		Messages: []openaiMessage{
			{Role: "system", Content: generationSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.7,
		ResponseFormat: &openaiFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, err
	}

	result, err := parseGeneration(text, strictJSONExtractor{}, model, opts)
	if err != nil {
		return nil, fmt.Errorf("generate flashcards: %w", err)
	}
	return result, nil
}

// ExtractImageText sends one multimodal completion with the fixed extraction
// instruction and the image as a data URI.
func (o *OpenAIAdapter) ExtractImageText(ctx context.Context, apiKey, model, imageDataURI string) (string, error) {
	text, err := o.chat(ctx, apiKey, openaiChatRequest{
		Model: model,
		Messages: []openaiMessage{{
			Role: "user",
			Content: []openaiImagePart{
				{Type: "text", Text: extractImagePrompt},
				{Type: "image_url", ImageURL: &openaiImageURL{URL: imageDataURI}},
			},
		}},
		MaxTokens: 4096,
	})
	if err != nil {
		return "", err
	}
	return checkExtractedText(text)
}

// chat posts a chat completion and returns the first choice's text.
func (o *OpenAIAdapter) chat(ctx context.Context, apiKey string, body openaiChatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", ErrProviderUnavailable(ProviderOpenAI,
			"Unable to connect to OpenAI. Please check your internet connection and try again.")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if err := classifyVendorStatus(ProviderOpenAI, resp.StatusCode, respBody); err != nil {
		return "", err
	}

	var apiResp openaiChatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from openai")
	}
	return apiResp.Choices[0].Message.Content, nil
}

// vendorError is the error envelope both vendors use for non-2xx responses.
type vendorError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// classifyVendorStatus maps an upstream HTTP status to the domain taxonomy.
// 403 counts as an invalid key: the key exists but lacks permissions, which
// is still a key problem from the user's point of view.
func classifyVendorStatus(provider Provider, status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		return ErrInvalidKey(fmt.Sprintf("Invalid %s API key", providerDisplayName(provider)))
	case status == http.StatusForbidden:
		return ErrInvalidKey(fmt.Sprintf(
			"API key lacks necessary permissions. Please check your %s account.",
			providerDisplayName(provider)))
	case status == http.StatusTooManyRequests:
		return ErrRateLimit(fmt.Sprintf(
			"%s rate limit exceeded. Please try again later.", providerDisplayName(provider)))
	default:
		// Only the vendor's own error.message is forwarded; raw payloads
		// never reach the user.
		var ve vendorError
		msg := http.StatusText(status)
		if json.Unmarshal(body, &ve) == nil && ve.Error.Message != "" {
			msg = ve.Error.Message
		}
		return ErrProviderUnavailable(provider,
			fmt.Sprintf("%s API error: %s", providerDisplayName(provider), msg))
	}
}

func providerDisplayName(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	default:
		return string(p)
	}
}
