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

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// anthropicModelIDs maps the friendly model ids users configure to the dated
// ids the Anthropic API expects. Unknown ids pass through unchanged.
var anthropicModelIDs = map[string]string{
	"claude-3.5-sonnet": "claude-3-5-sonnet-20241022",
	"claude-3-opus":     "claude-3-opus-20240229",
}

// AnthropicAdapter implements Adapter against the Anthropic REST API.
type AnthropicAdapter struct {
	baseURL string
	client  *http.Client
}

// NewAnthropicAdapter creates an adapter. baseURL overrides the public
// endpoint (used by tests); empty means the default.
func NewAnthropicAdapter(baseURL string, client *http.Client) *AnthropicAdapter {
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &AnthropicAdapter{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContentPart struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

// TestConnection sends a minimal 10-token message; Anthropic has no
// unauthenticated-cheap model-list endpoint, so this is the lightest call
// that actually exercises the key and model together.
func (a *AnthropicAdapter) TestConnection(ctx context.Context, apiKey, model string) error {
	_, err := a.messages(ctx, apiKey, anthropicRequest{
		Model:     a.modelID(model),
		MaxTokens: 10,
		Messages:  []anthropicMessage{{Role: "user", Content: "Hi"}},
	})
	return err
}

// GenerateFlashcards sends one messages call and scans the answer for the
// embedded JSON object; Claude tends to wrap the payload in prose.
func (a *AnthropicAdapter) GenerateFlashcards(ctx context.Context, apiKey, model, content string, opts Options) (*GenerationResult, error) {
	prompt, err := buildGenerationPrompt(content, opts)
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	text, err := a.messages(ctx, apiKey, anthropicRequest{
		Model:       a.modelID(model),
		MaxTokens:   4096,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	result, err := parseGeneration(text, embeddedJSONExtractor{}, model, opts)
	if err != nil {
		return nil, fmt.Errorf("generate flashcards: %w", err)
	}
	return result, nil
}

// ExtractImageText sends one multimodal messages call with the image as a
// base64 block plus the fixed extraction instruction.
func (a *AnthropicAdapter) ExtractImageText(ctx context.Context, apiKey, model, imageDataURI string) (string, error) {
	text, err := a.messages(ctx, apiKey, anthropicRequest{
		Model:     a.modelID(model),
		MaxTokens: 4096,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicContentPart{
				{Type: "image", Source: &anthropicImageSource{
					Type:      "base64",
					MediaType: mediaTypeFromDataURI(imageDataURI),
					Data:      stripDataURIPrefix(imageDataURI),
				}},
				{Type: "text", Text: extractImagePrompt},
			},
		}},
	})
	if err != nil {
		return "", err
	}
	return checkExtractedText(text)
}

// messages posts to /v1/messages and returns the first content block's text.
func (a *AnthropicAdapter) messages(ctx context.Context, apiKey string, body anthropicRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", ErrProviderUnavailable(ProviderAnthropic,
			"Unable to connect to Anthropic. Please check your internet connection and try again.")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if err := classifyVendorStatus(ProviderAnthropic, resp.StatusCode, respBody); err != nil {
		return "", err
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(apiResp.Content) == 0 || apiResp.Content[0].Text == "" {
		return "", fmt.Errorf("empty response from anthropic")
	}
	return apiResp.Content[0].Text, nil
}

func (a *AnthropicAdapter) modelID(model string) string {
	if id, ok := anthropicModelIDs[model]; ok {
		return id
	}
	return model
}

// mediaTypeFromDataURI sniffs the media type from a data URI prefix,
// defaulting to JPEG for bare base64 payloads.
func mediaTypeFromDataURI(uri string) string {
	switch {
	case strings.HasPrefix(uri, "data:image/png"):
		return "image/png"
	case strings.HasPrefix(uri, "data:image/jpeg"), strings.HasPrefix(uri, "data:image/jpg"):
		return "image/jpeg"
	case strings.HasPrefix(uri, "data:image/gif"):
		return "image/gif"
	case strings.HasPrefix(uri, "data:image/webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func stripDataURIPrefix(uri string) string {
	if i := strings.Index(uri, ";base64,"); i >= 0 && strings.HasPrefix(uri, "data:") {
		return uri[i+len(";base64,"):]
	}
	return uri
}
