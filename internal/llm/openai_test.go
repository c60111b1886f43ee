package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeOpenAI records requests and serves canned responses.
type fakeOpenAI struct {
	status   int
	body     string
	calls    int
	lastPath string
	lastAuth string
	lastBody map[string]any
}

func (f *fakeOpenAI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.calls++
		f.lastPath = r.URL.Path
		f.lastAuth = r.Header.Get("Authorization")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		}
		w.WriteHeader(f.status)
		fmt.Fprint(w, f.body)
	}
}

func chatCompletion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

func TestOpenAI_TestConnection(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode Code
	}{
		{"ok", http.StatusOK, `{"data": []}`, ""},
		{"invalid key", http.StatusUnauthorized, `{}`, CodeInvalidKey},
		{"forbidden", http.StatusForbidden, `{}`, CodeInvalidKey},
		{"rate limited", http.StatusTooManyRequests, `{}`, CodeRateLimit},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`, CodeProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOpenAI{status: tt.status, body: tt.body}
			srv := httptest.NewServer(fake.handler())
			defer srv.Close()

			adapter := NewOpenAIAdapter(srv.URL, nil)
			err := adapter.TestConnection(context.Background(), "sk-test", "gpt-4o-mini")

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				de, ok := AsDomain(err)
				if !ok || de.Code != tt.wantCode {
					t.Fatalf("err = %v, want code %s", err, tt.wantCode)
				}
			}
			if fake.calls != 1 {
				t.Errorf("upstream calls = %d, want 1", fake.calls)
			}
			if fake.lastPath != "/v1/models" {
				t.Errorf("path = %q, want /v1/models", fake.lastPath)
			}
			if fake.lastAuth != "Bearer sk-test" {
				t.Errorf("auth header = %q", fake.lastAuth)
			}
		})
	}
}

func TestOpenAI_TestConnection_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // refuse connections

	adapter := NewOpenAIAdapter(srv.URL, nil)
	err := adapter.TestConnection(context.Background(), "sk-test", "gpt-4o-mini")
	de, ok := AsDomain(err)
	if !ok || de.Code != CodeProviderUnavailable {
		t.Fatalf("err = %v, want PROVIDER_UNAVAILABLE", err)
	}
}

func TestOpenAI_GenerateFlashcards(t *testing.T) {
	cardsJSON := `{"cards": [{"front": "What is Go?", "back": "A language", "tags": ["go"]}]}`
	fake := &fakeOpenAI{status: http.StatusOK, body: chatCompletion(cardsJSON)}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	adapter := NewOpenAIAdapter(srv.URL, nil)
	opts := Options{Language: "en", CardCount: 10, Difficulty: DifficultyBasic, Style: StyleQA, FocusTypes: []string{"definitions"}}
	content := strings.Repeat("Go is a statically typed language. ", 5)

	result, err := adapter.GenerateFlashcards(context.Background(), "sk-test", "gpt-4o-mini", content, opts)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if fake.calls != 1 {
		t.Errorf("upstream calls = %d, want 1", fake.calls)
	}
	if fake.lastPath != "/v1/chat/completions" {
		t.Errorf("path = %q", fake.lastPath)
	}
	if result.Meta.Model != "gpt-4o-mini" {
		t.Errorf("meta.model = %q, want gpt-4o-mini", result.Meta.Model)
	}
	if result.Meta.CardCount != len(result.Cards) {
		t.Errorf("meta.cardCount = %d, cards = %d", result.Meta.CardCount, len(result.Cards))
	}
	for _, c := range result.Cards {
		if c.ID == "" {
			t.Error("card with empty id")
		}
	}

	// Request must ask for strict JSON output and carry the prompt.
	if rf, ok := fake.lastBody["response_format"].(map[string]any); !ok || rf["type"] != "json_object" {
		t.Errorf("response_format = %v, want json_object", fake.lastBody["response_format"])
	}
	msgs, _ := fake.lastBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2 (system + user)", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	promptText, _ := user["content"].(string)
	for _, want := range []string{"10 flashcards", "in en", "definitions", "basic"} {
		if !strings.Contains(promptText, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestOpenAI_GenerateFlashcards_ParseFailure(t *testing.T) {
	fake := &fakeOpenAI{status: http.StatusOK, body: chatCompletion("not json at all")}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	adapter := NewOpenAIAdapter(srv.URL, nil)
	_, err := adapter.GenerateFlashcards(context.Background(), "sk-test", "gpt-4o", "content", Options{Language: "en", CardCount: 5})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if _, ok := AsDomain(err); ok {
		t.Errorf("parse failure should not be a domain error, got %v", err)
	}
}

func TestOpenAI_ExtractImageText(t *testing.T) {
	fake := &fakeOpenAI{status: http.StatusOK, body: chatCompletion("Recognized paragraph of text from the image.")}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	adapter := NewOpenAIAdapter(srv.URL, nil)
	text, err := adapter.ExtractImageText(context.Background(), "sk-test", "gpt-4o", "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Recognized paragraph") {
		t.Errorf("text = %q", text)
	}
}

func TestOpenAI_ExtractImageText_Sentinel(t *testing.T) {
	fake := &fakeOpenAI{status: http.StatusOK, body: chatCompletion("NO_TEXT_FOUND")}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	adapter := NewOpenAIAdapter(srv.URL, nil)
	_, err := adapter.ExtractImageText(context.Background(), "sk-test", "gpt-4o", "data:image/png;base64,AAAA")
	de, ok := AsDomain(err)
	if !ok || de.Code != CodeValidation {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}
