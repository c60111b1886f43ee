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

// flashcardsHandler turns user content into flashcards through the caller's
// configured provider.
type flashcardsHandler struct {
	configs  store.LLMConfigStoreIface
	vault    *secrets.Vault
	registry *llm.Registry
	gen      config.Generation
}

// Generate produces flashcards from the submitted content. Input shape is
// validated before any collaborator is touched: invalid requests never reach
// the store or the vendor.
//
//	@Summary	Generate flashcards from content
//	@Tags		flashcards
//	@Accept		json
//	@Produce	json
//	@Param		body	body	GenerateRequest	true	"content and options"
//	@Success	200	{object}	llm.GenerationResult
//	@Router		/flashcards/generate [post]
func (h *flashcardsHandler) Generate(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return llm.Validationf("invalid request body")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return llm.Validationf("content is required")
	}
	words := len(strings.Fields(content))
	if words < h.gen.MinWords {
		return llm.Validationf("content must be at least %d words, got %d", h.gen.MinWords, words)
	}
	if words > h.gen.MaxWords {
		return llm.Validationf("content must be at most %d words, got %d", h.gen.MaxWords, words)
	}
	if req.Options.CardCount != 0 &&
		(req.Options.CardCount < h.gen.MinCards || req.Options.CardCount > h.gen.MaxCards) {
		return llm.Validationf("cardCount must be between %d and %d", h.gen.MinCards, h.gen.MaxCards)
	}

	opts := req.Options.WithDefaults(llm.Defaults{
		Language:   h.gen.DefaultLanguage,
		CardCount:  h.gen.DefaultCardCount,
		Difficulty: llm.Difficulty(h.gen.DefaultDifficulty),
		Style:      llm.Style(h.gen.DefaultStyle),
		FocusTypes: h.gen.DefaultFocusTypes,
	})

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
	result, err := adapter.GenerateFlashcards(r.Context(), apiKey, cfg.Model, content, opts)
	metrics.ObserveLLMCall(cfg.Provider, "generate", outcomeLabel(err), time.Since(start).Seconds())
	if err != nil {
		return err
	}
	metrics.CardsGeneratedTotal.Add(float64(len(result.Cards)))

	writeJSON(w, http.StatusOK, result)
	return nil
}
