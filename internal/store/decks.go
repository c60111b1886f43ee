package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	maxDeckTitleLen       = 100
	maxDeckDescriptionLen = 500
)

// Deck is a validated value object. Updates go through WithTitle /
// WithDescription, which return a modified copy; a stored Deck is never
// mutated in place.
type Deck struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDeck validates and constructs a deck for userID.
func NewDeck(userID, title, description string, tags []string) (*Deck, error) {
	now := time.Now().UTC()
	d := &Deck{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deck) validate() error {
	if d.UserID == "" {
		return fmt.Errorf("deck must have a user id")
	}
	if d.Title == "" {
		return fmt.Errorf("deck title cannot be empty")
	}
	if len(d.Title) > maxDeckTitleLen {
		return fmt.Errorf("deck title must be at most %d characters", maxDeckTitleLen)
	}
	if len(d.Description) > maxDeckDescriptionLen {
		return fmt.Errorf("deck description must be at most %d characters", maxDeckDescriptionLen)
	}
	return nil
}

// WithTitle returns a copy of d with the new title, or an error when the
// title is invalid.
func (d *Deck) WithTitle(title string) (*Deck, error) {
	next := *d
	next.Title = strings.TrimSpace(title)
	next.UpdatedAt = time.Now().UTC()
	if err := next.validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

// WithDescription returns a copy of d with the new description.
func (d *Deck) WithDescription(description string) (*Deck, error) {
	next := *d
	next.Description = description
	next.UpdatedAt = time.Now().UTC()
	if err := next.validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

// CardInput is one flashcard to persist into a deck.
type CardInput struct {
	Front       string
	Back        string
	Tags        []string
	SourceQuote string
}

// CardCounts aggregates a deck's study progress.
type CardCounts struct {
	Total   int `db:"total"`
	Studied int `db:"studied"`
}

// deckRow is the wire shape of a decks row; tags are stored as a JSON array
// in a TEXT column so the schema stays portable across all three drivers.
type deckRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	Tags        string         `db:"tags"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *deckRow) toDeck() (*Deck, error) {
	var tags []string
	if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
		return nil, fmt.Errorf("decode deck tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return &Deck{
		ID:          r.ID,
		UserID:      r.UserID,
		Title:       r.Title,
		Description: r.Description.String,
		Tags:        tags,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

type DeckStore struct {
	db *sqlx.DB
}

func NewDeckStore(db *sqlx.DB) *DeckStore {
	return &DeckStore{db: db}
}

func (s *DeckStore) q(query string) string { return s.db.Rebind(query) }

// Create persists a validated deck and returns it.
func (s *DeckStore) Create(ctx context.Context, deck *Deck) (*Deck, error) {
	tags, err := json.Marshal(deck.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode deck tags: %w", err)
	}

	var description sql.NullString
	if deck.Description != "" {
		description = sql.NullString{String: deck.Description, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO decks (id, user_id, title, description, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), deck.ID, deck.UserID, deck.Title, description, string(tags), deck.CreatedAt, deck.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// FindByUser returns the user's decks, most recently updated first.
func (s *DeckStore) FindByUser(ctx context.Context, userID string) ([]*Deck, error) {
	var rows []*deckRow
	err := s.db.SelectContext(ctx, &rows, s.q(`
		SELECT * FROM decks WHERE user_id = ? ORDER BY updated_at DESC
	`), userID)
	if err != nil {
		return nil, err
	}

	decks := make([]*Deck, 0, len(rows))
	for _, r := range rows {
		d, err := r.toDeck()
		if err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	return decks, nil
}

// GetByID returns the deck with the given id, or ErrNotFound.
func (s *DeckStore) GetByID(ctx context.Context, id string) (*Deck, error) {
	var row deckRow
	err := s.db.GetContext(ctx, &row, s.q(`SELECT * FROM decks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDeck()
}

// AddCards bulk-inserts flashcards into a deck and bumps the deck's
// updated_at. Returns the number of cards inserted.
func (s *DeckStore) AddCards(ctx context.Context, deckID string, cards []CardInput) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, c := range cards {
		tags := c.Tags
		if tags == nil {
			tags = []string{}
		}
		encoded, err := json.Marshal(tags)
		if err != nil {
			return 0, fmt.Errorf("encode card tags: %w", err)
		}

		var quote sql.NullString
		if c.SourceQuote != "" {
			quote = sql.NullString{String: c.SourceQuote, Valid: true}
		}

		_, err = tx.ExecContext(ctx, s.q(`
			INSERT INTO flashcards (id, deck_id, front, back, tags, source_quote, studied, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`), uuid.New().String(), deckID, c.Front, c.Back, string(encoded), quote, false, now)
		if err != nil {
			return 0, err
		}
	}

	_, err = tx.ExecContext(ctx, s.q(`UPDATE decks SET updated_at = ? WHERE id = ?`), now, deckID)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(cards), nil
}

// CountCards returns the total and studied card counts for a deck.
func (s *DeckStore) CountCards(ctx context.Context, deckID string) (CardCounts, error) {
	var counts CardCounts
	err := s.db.GetContext(ctx, &counts, s.q(`
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN studied THEN 1 ELSE 0 END), 0) AS studied
		FROM flashcards WHERE deck_id = ?
	`), deckID)
	if err != nil {
		return CardCounts{}, err
	}
	return counts, nil
}
