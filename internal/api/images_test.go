package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studyforge/studyforge/internal/api"
	"github.com/studyforge/studyforge/internal/llm"
)

const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestExtractText_OK(t *testing.T) {
	stub := &stubAdapter{extractText: "Chapter 1: Cell Biology. The cell is the basic unit of life."}
	registry := llm.NewRegistry()
	registry.Register(llm.ProviderOpenAI, stub)

	env := newTestEnv(t, registry)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	seedConfig(t, env, user.ID, "openai", "gpt-4o", "sk-test-key-123456")

	req := httptest.NewRequest("POST", "/images/extract-text", jsonBody(t, api.ExtractImageTextRequest{Image: tinyPNG}))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if stub.extractCalls != 1 {
		t.Errorf("adapter called %d times, want 1", stub.extractCalls)
	}

	var resp api.ExtractImageTextResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Text == "" {
		t.Error("text should not be empty")
	}
}

func TestExtractText_MissingImage(t *testing.T) {
	stub := &stubAdapter{}
	registry := llm.NewRegistry()
	registry.Register(llm.ProviderOpenAI, stub)

	env := newTestEnv(t, registry)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	seedConfig(t, env, user.ID, "openai", "gpt-4o", "sk-test-key-123456")

	req := httptest.NewRequest("POST", "/images/extract-text", jsonBody(t, api.ExtractImageTextRequest{}))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if stub.extractCalls != 0 {
		t.Errorf("adapter called %d times, want 0", stub.extractCalls)
	}
}

func TestExtractText_NotADataURI(t *testing.T) {
	env := newTestEnv(t, nil)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	req := httptest.NewRequest("POST", "/images/extract-text", jsonBody(t, api.ExtractImageTextRequest{Image: "https://example.com/cat.png"}))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestExtractText_NotConfigured(t *testing.T) {
	env := newTestEnv(t, nil)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	req := httptest.NewRequest("POST", "/images/extract-text", jsonBody(t, api.ExtractImageTextRequest{Image: tinyPNG}))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Code string `json:"code"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Code != "LLM_NOT_CONFIGURED" {
		t.Errorf("code = %q, want LLM_NOT_CONFIGURED", body.Code)
	}
}

func TestExtractText_InsufficientTextFromAdapter(t *testing.T) {
	// Adapters surface near-empty OCR results as validation errors; the
	// handler passes them straight through to the error boundary.
	stub := &stubAdapter{extractErr: llm.Validationf("No text found in the image")}
	registry := llm.NewRegistry()
	registry.Register(llm.ProviderOpenAI, stub)

	env := newTestEnv(t, registry)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	seedConfig(t, env, user.ID, "openai", "gpt-4o", "sk-test-key-123456")

	req := httptest.NewRequest("POST", "/images/extract-text", jsonBody(t, api.ExtractImageTextRequest{Image: tinyPNG}))
	authRequest(req, token)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Code != "VALIDATION" {
		t.Errorf("code = %q, want VALIDATION", body.Code)
	}
	if body.Error == "" {
		t.Error("error message should not be empty")
	}
}
