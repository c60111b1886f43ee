package store_test

import (
	"context"
	"testing"

	"github.com/studyforge/studyforge/internal/store"
	"github.com/studyforge/studyforge/internal/testutil"
)

func TestUserStore_Upsert(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "google", "sub-123", "a@example.com", "Alice")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if u.ID == "" {
		t.Error("ID should be generated")
	}
	if u.Email != "a@example.com" {
		t.Errorf("email = %q", u.Email)
	}

	// Same (provider, subject) updates in place rather than creating a
	// second user.
	u2, err := us.Upsert(ctx, "google", "sub-123", "new@example.com", "Alice B")
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if u2.ID != u.ID {
		t.Errorf("upsert created new user: %q vs %q", u2.ID, u.ID)
	}
	if u2.Email != "new@example.com" {
		t.Errorf("email not updated: %q", u2.Email)
	}
}

func TestUserStore_GetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ctx := context.Background()

	u, err := us.Upsert(ctx, "google", "sub-xyz", "b@example.com", "Bob")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := us.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.DisplayName != "Bob" {
		t.Errorf("display name = %q, want Bob", got.DisplayName)
	}
}
