package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/studyforge/studyforge/internal/store"
	"github.com/studyforge/studyforge/internal/testutil"
)

func newConfigEnv(t *testing.T) (*store.LLMConfigStore, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	u, err := us.Upsert(context.Background(), "test", "sub1", "test@example.com", "Test User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return store.NewLLMConfigStore(db), u.ID
}

func TestLLMConfigStore_UpsertAndGet(t *testing.T) {
	cs, userID := newConfigEnv(t)
	ctx := context.Background()

	if err := cs.Upsert(ctx, userID, "openai", "gpt-4o", "ciphertext-1"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	cfg, err := cs.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-4o" {
		t.Errorf("got provider=%q model=%q", cfg.Provider, cfg.Model)
	}
	if cfg.APIKeyEnc != "ciphertext-1" {
		t.Errorf("api_key_enc = %q, want ciphertext-1", cfg.APIKeyEnc)
	}
}

func TestLLMConfigStore_UpsertReplaces(t *testing.T) {
	cs, userID := newConfigEnv(t)
	ctx := context.Background()

	if err := cs.Upsert(ctx, userID, "openai", "gpt-4o", "ciphertext-1"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := cs.Upsert(ctx, userID, "anthropic", "claude-3.5-sonnet", "ciphertext-2"); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}

	cfg, err := cs.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.APIKeyEnc != "ciphertext-2" {
		t.Errorf("api_key_enc = %q, want ciphertext-2", cfg.APIKeyEnc)
	}
}

func TestLLMConfigStore_GetMissing(t *testing.T) {
	cs, _ := newConfigEnv(t)
	_, err := cs.Get(context.Background(), "no-such-user")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLLMConfigStore_Delete(t *testing.T) {
	cs, userID := newConfigEnv(t)
	ctx := context.Background()

	if err := cs.Upsert(ctx, userID, "openai", "gpt-4o", "ciphertext"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := cs.Delete(ctx, userID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cs.Get(ctx, userID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}
	if err := cs.Delete(ctx, userID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}
