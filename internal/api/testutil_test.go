package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/studyforge/studyforge/internal/api"
	"github.com/studyforge/studyforge/internal/auth"
	"github.com/studyforge/studyforge/internal/config"
	"github.com/studyforge/studyforge/internal/llm"
	"github.com/studyforge/studyforge/internal/secrets"
	"github.com/studyforge/studyforge/internal/store"
	"github.com/studyforge/studyforge/internal/testutil"
)

// testVaultKey is a fixed base64 256-bit key for tests.
const testVaultKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router      http.Handler
	DB          *sqlx.DB
	UserStore   *store.UserStore
	ConfigStore *store.LLMConfigStore
	DeckStore   *store.DeckStore
	TokenStore  *auth.SQLTokenStore
	Vault       *secrets.Vault
	Registry    *llm.Registry
	Generation  config.Generation
}

func testGeneration() config.Generation {
	return config.Generation{
		MinWords:          20,
		MaxWords:          5000,
		MinCards:          5,
		MaxCards:          30,
		DefaultLanguage:   "en",
		DefaultCardCount:  10,
		DefaultDifficulty: "basic",
		DefaultStyle:      "qa",
		DefaultFocusTypes: []string{"definitions"},
		MaxImageBytes:     10 * 1024 * 1024,
	}
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires the API router with real stores and the given registry.
func newTestEnv(t *testing.T, registry *llm.Registry) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	us := store.NewUserStore(db)
	cs := store.NewLLMConfigStore(db)
	ds := store.NewDeckStore(db)
	ts := auth.NewSQLTokenStore(db)

	vault, err := secrets.NewVault(testVaultKey)
	if err != nil {
		t.Fatalf("new vault: %v", err)
	}

	if registry == nil {
		registry = llm.NewRegistry()
	}

	sm := auth.NewSessionManager(db, "sqlite3", time.Hour, true)
	authenticator := auth.NewAuthenticator(sm, ts, us)

	router := api.NewAPIRouter(api.Deps{
		SessionManager: sm,
		Authenticator:  authenticator,
		ConfigStore:    cs,
		DeckStore:      ds,
		TokenStore:     ts,
		Vault:          vault,
		Registry:       registry,
		Generation:     testGeneration(),
	})

	return &testEnv{
		Router:      sm.LoadAndSave(router),
		DB:          db,
		UserStore:   us,
		ConfigStore: cs,
		DeckStore:   ds,
		TokenStore:  ts,
		Vault:       vault,
		Registry:    registry,
		Generation:  testGeneration(),
	}
}

// seedUser creates a user and returns the user record.
func seedUser(t *testing.T, env *testEnv, email string) *store.User {
	t.Helper()
	u, err := env.UserStore.Upsert(context.Background(), "test", "sub-"+email, email, "Test User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedToken creates a real API token for a user and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil); err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// seedConfig stores an encrypted provider configuration for a user.
func seedConfig(t *testing.T, env *testEnv, userID, provider, model, apiKey string) {
	t.Helper()
	ciphertext, err := env.Vault.Encrypt(apiKey)
	if err != nil {
		t.Fatalf("encrypt key: %v", err)
	}
	if err := env.ConfigStore.Upsert(context.Background(), userID, provider, model, ciphertext); err != nil {
		t.Fatalf("seed config: %v", err)
	}
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

// stubAdapter is a controllable llm.Adapter for handler tests. Call counts
// expose whether a handler reached the vendor at all.
type stubAdapter struct {
	testErr     error
	generateRes *llm.GenerationResult
	generateErr error
	extractText string
	extractErr  error

	testCalls     int
	generateCalls int
	extractCalls  int
}

func (s *stubAdapter) TestConnection(ctx context.Context, apiKey, model string) error {
	s.testCalls++
	return s.testErr
}

func (s *stubAdapter) GenerateFlashcards(ctx context.Context, apiKey, model, content string, opts llm.Options) (*llm.GenerationResult, error) {
	s.generateCalls++
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return s.generateRes, nil
}

func (s *stubAdapter) ExtractImageText(ctx context.Context, apiKey, model, imageDataURI string) (string, error) {
	s.extractCalls++
	if s.extractErr != nil {
		return "", s.extractErr
	}
	return s.extractText, nil
}
