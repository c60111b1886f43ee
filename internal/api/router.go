package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/studyforge/studyforge/docs/swagger"
	"github.com/studyforge/studyforge/internal/auth"
	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/llm"
	"github.com/studyforge/studyforge/internal/secrets"
	"github.com/studyforge/studyforge/internal/store"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers
	Authenticator  *auth.Authenticator
	ConfigStore    store.LLMConfigStoreIface
	DeckStore      store.DeckStoreIface
	TokenStore     auth.TokenStore
	Vault          *secrets.Vault
	Registry       *llm.Registry
	Generation     config.Generation
}

// NewRouter assembles the full chi router. Every /api/v1 route runs the
// standard pipeline: error boundary outermost, then authentication, then
// logging, then the handler.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(deps.SessionManager.LoadAndSave)

	// Auth routes (no auth required)
	r.Get("/auth/login", deps.AuthHandlers.Login)
	r.Get("/auth/callback", deps.AuthHandlers.Callback)
	r.Post("/auth/logout", deps.AuthHandlers.Logout)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	r.Mount("/api/v1", NewAPIRouter(deps))

	return r
}

// NewAPIRouter wires the /api/v1 sub-router. Session loading is the outer
// router's concern; callers embedding this router directly must wrap it in
// the session manager's LoadAndSave.
func NewAPIRouter(deps Deps) chi.Router {
	llmConfig := &llmConfigHandler{configs: deps.ConfigStore, vault: deps.Vault, registry: deps.Registry}
	flashcards := &flashcardsHandler{configs: deps.ConfigStore, vault: deps.Vault, registry: deps.Registry, gen: deps.Generation}
	images := &imagesHandler{configs: deps.ConfigStore, vault: deps.Vault, registry: deps.Registry, gen: deps.Generation}
	decks := &decksHandler{decks: deps.DeckStore}
	tokens := &tokensHandler{tokens: deps.TokenStore}

	pipe := func(h Handler) http.HandlerFunc {
		return Pipeline(h, ErrorBoundary, WithAuth(deps.Authenticator), WithLogging)
	}

	r := chi.NewRouter()

	r.Put("/llm-config", pipe(llmConfig.Save))
	r.Get("/llm-config", pipe(llmConfig.Get))
	r.Delete("/llm-config", pipe(llmConfig.Delete))
	r.Post("/llm-config/test", pipe(llmConfig.TestConnection))

	r.Post("/flashcards/generate", pipe(flashcards.Generate))
	r.Post("/images/extract-text", pipe(images.ExtractText))

	r.Post("/decks", pipe(decks.Create))
	r.Get("/decks", pipe(decks.List))
	r.Post("/decks/{id}/cards", pipe(decks.SaveCards))

	r.Get("/tokens", pipe(tokens.List))
	r.Post("/tokens", pipe(tokens.Create))
	r.Delete("/tokens/{id}", pipe(tokens.Revoke))

	return r
}
