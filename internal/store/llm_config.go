package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// LLMConfig is a user's stored provider configuration. The API key is held
// only as ciphertext; it is decrypted transiently inside a request and never
// cached.
type LLMConfig struct {
	UserID    string    `db:"user_id"`
	Provider  string    `db:"provider"`
	Model     string    `db:"model"`
	APIKeyEnc string    `db:"api_key_enc"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type LLMConfigStore struct {
	db *sqlx.DB
}

func NewLLMConfigStore(db *sqlx.DB) *LLMConfigStore {
	return &LLMConfigStore{db: db}
}

func (s *LLMConfigStore) q(query string) string { return s.db.Rebind(query) }

// Upsert creates or replaces the configuration for userID.
func (s *LLMConfigStore) Upsert(ctx context.Context, userID, provider, model, apiKeyEnc string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO llm_configurations (user_id, provider, model, api_key_enc, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			provider = excluded.provider,
			model = excluded.model,
			api_key_enc = excluded.api_key_enc,
			updated_at = excluded.updated_at
	`), userID, provider, model, apiKeyEnc, now, now)
	return err
}

// Get returns the configuration for userID, or ErrNotFound.
func (s *LLMConfigStore) Get(ctx context.Context, userID string) (*LLMConfig, error) {
	var cfg LLMConfig
	err := s.db.GetContext(ctx, &cfg, s.q(`SELECT * FROM llm_configurations WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Delete removes the configuration for userID. Returns ErrNotFound when no
// configuration exists.
func (s *LLMConfigStore) Delete(ctx context.Context, userID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM llm_configurations WHERE user_id = ?`), userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
