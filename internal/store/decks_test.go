package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/studyforge/studyforge/internal/store"
	"github.com/studyforge/studyforge/internal/testutil"
)

// newDeckEnv creates a deck store with a seeded user sharing the same DB.
func newDeckEnv(t *testing.T) (*store.DeckStore, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	u, err := us.Upsert(context.Background(), "test", "sub1", "test@example.com", "Test User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return store.NewDeckStore(db), u.ID
}

func TestNewDeck_Validation(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		title   string
		desc    string
		wantErr bool
	}{
		{"valid", "u1", "Biology 101", "Cell structure", false},
		{"empty title", "u1", "", "", true},
		{"whitespace title", "u1", "   ", "", true},
		{"title at limit", "u1", strings.Repeat("a", 100), "", false},
		{"title over limit", "u1", strings.Repeat("a", 101), "", true},
		{"description at limit", "u1", "ok", strings.Repeat("d", 500), false},
		{"description over limit", "u1", "ok", strings.Repeat("d", 501), true},
		{"missing user", "", "ok", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.NewDeck(tt.userID, tt.title, tt.desc, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDeck err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewDeck_DefaultsTags(t *testing.T) {
	d, err := store.NewDeck("u1", "Deck", "", nil)
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	if d.Tags == nil {
		t.Error("Tags should default to empty slice, got nil")
	}
	if d.ID == "" {
		t.Error("ID should be generated")
	}
}

func TestDeck_WithTitle(t *testing.T) {
	d, err := store.NewDeck("u1", "Original", "", nil)
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}

	updated, err := d.WithTitle("Renamed")
	if err != nil {
		t.Fatalf("WithTitle: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("updated title = %q, want %q", updated.Title, "Renamed")
	}
	if d.Title != "Original" {
		t.Errorf("original deck mutated: title = %q", d.Title)
	}

	if _, err := d.WithTitle(""); err == nil {
		t.Error("WithTitle(\"\") should fail validation")
	}
}

func TestDeckStore_CreateAndGet(t *testing.T) {
	ds, userID := newDeckEnv(t)
	ctx := context.Background()

	deck, err := store.NewDeck(userID, "Spanish Vocab", "Chapter 3", []string{"spanish", "vocab"})
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	if _, err := ds.Create(ctx, deck); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := ds.GetByID(ctx, deck.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Spanish Vocab" {
		t.Errorf("title = %q, want %q", got.Title, "Spanish Vocab")
	}
	if got.Description != "Chapter 3" {
		t.Errorf("description = %q, want %q", got.Description, "Chapter 3")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "spanish" {
		t.Errorf("tags = %v, want [spanish vocab]", got.Tags)
	}
}

func TestDeckStore_GetByID_NotFound(t *testing.T) {
	ds, _ := newDeckEnv(t)
	_, err := ds.GetByID(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeckStore_FindByUser(t *testing.T) {
	ds, userID := newDeckEnv(t)
	ctx := context.Background()

	for _, title := range []string{"First", "Second"} {
		d, err := store.NewDeck(userID, title, "", nil)
		if err != nil {
			t.Fatalf("NewDeck: %v", err)
		}
		if _, err := ds.Create(ctx, d); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	decks, err := ds.FindByUser(ctx, userID)
	if err != nil {
		t.Fatalf("FindByUser: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("got %d decks, want 2", len(decks))
	}

	other, err := ds.FindByUser(ctx, "someone-else")
	if err != nil {
		t.Fatalf("FindByUser other: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other user got %d decks, want 0", len(other))
	}
}

func TestDeckStore_AddCardsAndCount(t *testing.T) {
	ds, userID := newDeckEnv(t)
	ctx := context.Background()

	deck, err := store.NewDeck(userID, "History", "", nil)
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	if _, err := ds.Create(ctx, deck); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cards := []store.CardInput{
		{Front: "When did WWII end?", Back: "1945", Tags: []string{"dates"}},
		{Front: "Who was Churchill?", Back: "UK Prime Minister", SourceQuote: "Churchill led Britain."},
	}
	n, err := ds.AddCards(ctx, deck.ID, cards)
	if err != nil {
		t.Fatalf("AddCards: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted %d cards, want 2", n)
	}

	counts, err := ds.CountCards(ctx, deck.ID)
	if err != nil {
		t.Fatalf("CountCards: %v", err)
	}
	if counts.Total != 2 {
		t.Errorf("total = %d, want 2", counts.Total)
	}
	if counts.Studied != 0 {
		t.Errorf("studied = %d, want 0", counts.Studied)
	}
}

func TestDeckStore_AddCards_Empty(t *testing.T) {
	ds, userID := newDeckEnv(t)
	ctx := context.Background()

	deck, err := store.NewDeck(userID, "Empty", "", nil)
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	if _, err := ds.Create(ctx, deck); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := ds.AddCards(ctx, deck.ID, nil)
	if err != nil {
		t.Fatalf("AddCards: %v", err)
	}
	if n != 0 {
		t.Errorf("inserted %d cards, want 0", n)
	}
}

func TestDeckStore_CountCards_EmptyDeck(t *testing.T) {
	ds, userID := newDeckEnv(t)
	ctx := context.Background()

	deck, err := store.NewDeck(userID, "Blank", "", nil)
	if err != nil {
		t.Fatalf("NewDeck: %v", err)
	}
	if _, err := ds.Create(ctx, deck); err != nil {
		t.Fatalf("Create: %v", err)
	}

	counts, err := ds.CountCards(ctx, deck.ID)
	if err != nil {
		t.Fatalf("CountCards: %v", err)
	}
	if counts.Total != 0 || counts.Studied != 0 {
		t.Errorf("counts = %+v, want zeroes", counts)
	}
}
