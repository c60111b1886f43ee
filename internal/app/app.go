package app

import (
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/studyforge/studyforge/internal/api"
	"github.com/studyforge/studyforge/internal/auth"
	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/llm"
	"github.com/studyforge/studyforge/internal/secrets"
	"github.com/studyforge/studyforge/internal/store"
)

// App is the composition root: every service the HTTP surface needs, wired
// by hand with constructor injection. Stateless services are process-wide
// singletons; the provider registry is immutable after construction.
type App struct {
	Config   *config.Config
	DB       *sqlx.DB
	Vault    *Singleton[*secrets.Vault]
	Registry *Singleton[*llm.Registry]
	Users    *Singleton[*store.UserStore]
	Configs  *Singleton[*store.LLMConfigStore]
	Decks    *Singleton[*store.DeckStore]
	Tokens   *Singleton[*auth.SQLTokenStore]

	oidc *auth.Provider
}

// New builds the application graph. The OIDC provider performs discovery at
// startup, so construction needs a context and can fail.
func New(ctx context.Context, cfg *config.Config, db *sqlx.DB) (*App, error) {
	vault, err := secrets.NewVault(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	oidcProvider, err := auth.NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		DB:     db,
		oidc:   oidcProvider,
	}
	a.Vault = NewSingleton(func() *secrets.Vault { return vault })
	a.Registry = NewSingleton(func() *llm.Registry {
		r := llm.NewRegistry()
		r.Register(llm.ProviderOpenAI, llm.NewOpenAIAdapter(cfg.LLM.OpenAIBaseURL, nil))
		r.Register(llm.ProviderAnthropic, llm.NewAnthropicAdapter(cfg.LLM.AnthropicBaseURL, nil))
		return r
	})
	a.Users = NewSingleton(func() *store.UserStore { return store.NewUserStore(db) })
	a.Configs = NewSingleton(func() *store.LLMConfigStore { return store.NewLLMConfigStore(db) })
	a.Decks = NewSingleton(func() *store.DeckStore { return store.NewDeckStore(db) })
	a.Tokens = NewSingleton(func() *auth.SQLTokenStore { return auth.NewSQLTokenStore(db) })

	return a, nil
}

// Router assembles the HTTP router over the wired services.
func (a *App) Router() http.Handler {
	sm := auth.NewSessionManager(a.DB, a.Config.DB.Driver, a.Config.SessionLifetime, a.Config.InsecureCookies)
	authenticator := auth.NewAuthenticator(sm, a.Tokens.Get(), a.Users.Get())
	authHandlers := auth.NewHandlers(a.oidc, sm, a.Users.Get())

	return api.NewRouter(api.Deps{
		SessionManager: sm,
		AuthHandlers:   authHandlers,
		Authenticator:  authenticator,
		ConfigStore:    a.Configs.Get(),
		DeckStore:      a.Decks.Get(),
		TokenStore:     a.Tokens.Get(),
		Vault:          a.Vault.Get(),
		Registry:       a.Registry.Get(),
		Generation:     a.Config.Generation,
	})
}
