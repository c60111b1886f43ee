package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// LLMConfigStoreIface exposes per-user LLM provider configuration storage.
// Handlers depend on this interface, never on the database directly.
type LLMConfigStoreIface interface {
	Upsert(ctx context.Context, userID, provider, model, apiKeyEnc string) error
	Get(ctx context.Context, userID string) (*LLMConfig, error)
	Delete(ctx context.Context, userID string) error
}

// DeckStoreIface exposes deck and flashcard persistence.
type DeckStoreIface interface {
	Create(ctx context.Context, deck *Deck) (*Deck, error)
	FindByUser(ctx context.Context, userID string) ([]*Deck, error)
	GetByID(ctx context.Context, id string) (*Deck, error)
	AddCards(ctx context.Context, deckID string, cards []CardInput) (int, error)
	CountCards(ctx context.Context, deckID string) (CardCounts, error)
}
