package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/studyforge/studyforge/internal/auth"
	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/llm"
	"github.com/studyforge/studyforge/internal/metrics"
	"github.com/studyforge/studyforge/internal/secrets"
	"github.com/studyforge/studyforge/internal/store"
)

// imagesHandler extracts text from uploaded images via the caller's
// configured provider.
type imagesHandler struct {
	configs  store.LLMConfigStoreIface
	vault    *secrets.Vault
	registry *llm.Registry
	gen      config.Generation
}

// ExtractText runs one multimodal call over a data-URI image and returns the
// recovered text. Images with no usable text fail with a validation error,
// never a silent empty success.
//
//	@Summary	Extract text from an image
//	@Tags		images
//	@Accept		json
//	@Produce	json
//	@Param		body	body	ExtractImageTextRequest	true	"data-URI image"
//	@Success	200	{object}	ExtractImageTextResponse
//	@Router		/images/extract-text [post]
func (h *imagesHandler) ExtractText(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	var req ExtractImageTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return llm.Validationf("invalid request body")
	}
	if req.Image == "" {
		return llm.Validationf("image is required")
	}
	if !strings.HasPrefix(req.Image, "data:image/") {
		return llm.Validationf("image must be a data URI")
	}
	// Base64 expands by 4/3, so the decoded payload is about three quarters
	// of the URI length.
	if len(req.Image)*3/4 > h.gen.MaxImageBytes {
		return llm.Validationf("image exceeds the %d byte limit", h.gen.MaxImageBytes)
	}

	cfg, err := h.configs.Get(r.Context(), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		return llm.ErrNotConfigured()
	}
	if err != nil {
		return err
	}

	adapter, err := h.registry.Resolve(llm.Provider(cfg.Provider))
	if err != nil {
		return err
	}
	apiKey, err := h.vault.Decrypt(cfg.APIKeyEnc)
	if err != nil {
		return err
	}

	start := time.Now()
	text, err := adapter.ExtractImageText(r.Context(), apiKey, cfg.Model, req.Image)
	metrics.ObserveLLMCall(cfg.Provider, "extract_image_text", outcomeLabel(err), time.Since(start).Seconds())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, ExtractImageTextResponse{Text: text})
	return nil
}
