package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/studyforge/studyforge/internal/auth"
	"github.com/studyforge/studyforge/internal/llm"
	"github.com/studyforge/studyforge/internal/metrics"
	"github.com/studyforge/studyforge/internal/secrets"
	"github.com/studyforge/studyforge/internal/store"
)

// llmConfigHandler manages per-user provider configuration. API keys are
// encrypted before they reach the store and only ever leave it masked.
type llmConfigHandler struct {
	configs  store.LLMConfigStoreIface
	vault    *secrets.Vault
	registry *llm.Registry
}

// Save validates and stores the caller's provider configuration.
// The key is verified against the vendor with one live connection test
// before being accepted.
//
//	@Summary	Save LLM provider configuration
//	@Tags		llm-config
//	@Accept		json
//	@Produce	json
//	@Param		body	body	SaveLLMConfigRequest	true	"configuration"
//	@Success	200	{object}	LLMConfigResponse
//	@Router		/llm-config [put]
func (h *llmConfigHandler) Save(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	var req SaveLLMConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return llm.Validationf("invalid request body")
	}

	provider := llm.Provider(req.Provider)
	if provider != llm.ProviderOpenAI && provider != llm.ProviderAnthropic {
		return llm.ErrInvalidProvider(provider)
	}
	if !llm.SupportsModel(provider, req.Model) {
		return llm.ErrModelNotSupported(req.Model, provider)
	}
	if req.APIKey == "" {
		return llm.Validationf("api_key is required")
	}

	adapter, err := h.registry.Resolve(provider)
	if err != nil {
		return err
	}
	if err := h.testConnection(r, adapter, provider, req.APIKey, req.Model); err != nil {
		return err
	}

	ciphertext, err := h.vault.Encrypt(req.APIKey)
	if err != nil {
		return err
	}
	if err := h.configs.Upsert(r.Context(), user.ID, req.Provider, req.Model, ciphertext); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, LLMConfigResponse{
		Configured:   true,
		Provider:     req.Provider,
		Model:        req.Model,
		APIKeyMasked: secrets.MaskAPIKey(req.APIKey),
	})
	return nil
}

// Get returns the caller's configuration, or configured=false when none
// is stored.
//
//	@Summary	Get LLM provider configuration
//	@Tags		llm-config
//	@Produce	json
//	@Success	200	{object}	LLMConfigResponse
//	@Router		/llm-config [get]
func (h *llmConfigHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	cfg, err := h.configs.Get(r.Context(), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, LLMConfigResponse{Configured: false})
		return nil
	}
	if err != nil {
		return err
	}

	apiKey, err := h.vault.Decrypt(cfg.APIKeyEnc)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, LLMConfigResponse{
		Configured:   true,
		Provider:     cfg.Provider,
		Model:        cfg.Model,
		APIKeyMasked: secrets.MaskAPIKey(apiKey),
	})
	return nil
}

// Delete removes the caller's configuration.
//
//	@Summary	Delete LLM provider configuration
//	@Tags		llm-config
//	@Success	204
//	@Router		/llm-config [delete]
func (h *llmConfigHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())
	if err := h.configs.Delete(r.Context(), user.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// TestConnection runs one lightweight upstream call against either the
// supplied credentials or the stored configuration.
//
//	@Summary	Test an LLM provider connection
//	@Tags		llm-config
//	@Accept		json
//	@Produce	json
//	@Param		body	body	TestConnectionRequest	false	"override credentials"
//	@Success	200	{object}	TestConnectionResponse
//	@Router		/llm-config/test [post]
func (h *llmConfigHandler) TestConnection(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	var req TestConnectionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return llm.Validationf("invalid request body")
		}
	}

	// Fall back to the stored configuration for any omitted field.
	if req.Provider == "" || req.Model == "" || req.APIKey == "" {
		cfg, err := h.configs.Get(r.Context(), user.ID)
		if errors.Is(err, store.ErrNotFound) {
			return llm.ErrNotConfigured()
		}
		if err != nil {
			return err
		}
		if req.Provider == "" {
			req.Provider = cfg.Provider
		}
		if req.Model == "" {
			req.Model = cfg.Model
		}
		if req.APIKey == "" {
			req.APIKey, err = h.vault.Decrypt(cfg.APIKeyEnc)
			if err != nil {
				return err
			}
		}
	}

	provider := llm.Provider(req.Provider)
	if !llm.SupportsModel(provider, req.Model) {
		return llm.ErrModelNotSupported(req.Model, provider)
	}

	adapter, err := h.registry.Resolve(provider)
	if err != nil {
		return err
	}
	if err := h.testConnection(r, adapter, provider, req.APIKey, req.Model); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, TestConnectionResponse{
		OK:       true,
		Provider: req.Provider,
		Model:    req.Model,
	})
	return nil
}

func (h *llmConfigHandler) testConnection(r *http.Request, adapter llm.Adapter, provider llm.Provider, apiKey, model string) error {
	start := time.Now()
	err := adapter.TestConnection(r.Context(), apiKey, model)
	metrics.ObserveLLMCall(string(provider), "test_connection", outcomeLabel(err), time.Since(start).Seconds())
	return err
}

// outcomeLabel folds an error into a low-cardinality metrics label.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if derr, ok := llm.AsDomain(err); ok {
		return string(derr.Code)
	}
	return "error"
}
