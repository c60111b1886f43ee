package api

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/studyforge/studyforge/internal/auth"
	"github.com/studyforge/studyforge/internal/llm"
	"github.com/studyforge/studyforge/internal/metrics"
	"github.com/studyforge/studyforge/internal/store"
)

// decksHandler manages deck records and their saved flashcards.
type decksHandler struct {
	decks store.DeckStoreIface
}

// Create stores a new deck for the caller.
//
//	@Summary	Create a deck
//	@Tags		decks
//	@Accept		json
//	@Produce	json
//	@Param		body	body	CreateDeckRequest	true	"deck"
//	@Success	201	{object}	DeckResponse
//	@Router		/decks [post]
func (h *decksHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return llm.Validationf("invalid request body")
	}

	deck, err := store.NewDeck(user.ID, req.Title, req.Description, req.Tags)
	if err != nil {
		return llm.Validationf("%v", err)
	}
	if _, err := h.decks.Create(r.Context(), deck); err != nil {
		return err
	}
	metrics.DecksCreatedTotal.Inc()

	writeJSON(w, http.StatusCreated, deckResponse(deck, store.CardCounts{}))
	return nil
}

// List returns the caller's decks with per-deck study progress.
//
//	@Summary	List decks
//	@Tags		decks
//	@Produce	json
//	@Success	200	{object}	DeckListResponse
//	@Router		/decks [get]
func (h *decksHandler) List(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	decks, err := h.decks.FindByUser(r.Context(), user.ID)
	if err != nil {
		return err
	}

	resp := DeckListResponse{Decks: make([]DeckResponse, 0, len(decks))}
	for _, d := range decks {
		counts, err := h.decks.CountCards(r.Context(), d.ID)
		if err != nil {
			return err
		}
		resp.Decks = append(resp.Decks, deckResponse(d, counts))
	}

	writeJSON(w, http.StatusOK, resp)
	return nil
}

// SaveCards appends generated flashcards to one of the caller's decks.
//
//	@Summary	Save flashcards into a deck
//	@Tags		decks
//	@Accept		json
//	@Produce	json
//	@Param		id		path	string				true	"deck id"
//	@Param		body	body	SaveCardsRequest	true	"cards"
//	@Success	200	{object}	SaveCardsResponse
//	@Router		/decks/{id}/cards [post]
func (h *decksHandler) SaveCards(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	deck, err := h.decks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	// Decks of other users are indistinguishable from missing ones.
	if deck.UserID != user.ID {
		return store.ErrNotFound
	}

	var req SaveCardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return llm.Validationf("invalid request body")
	}
	if len(req.Cards) == 0 {
		return llm.Validationf("cards is required")
	}

	inputs := make([]store.CardInput, 0, len(req.Cards))
	for i, c := range req.Cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			return llm.Validationf("card %d must have front and back", i+1)
		}
		inputs = append(inputs, store.CardInput{
			Front:       c.Front,
			Back:        c.Back,
			Tags:        c.Tags,
			SourceQuote: c.SourceQuote,
		})
	}

	saved, err := h.decks.AddCards(r.Context(), deck.ID, inputs)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, SaveCardsResponse{Saved: saved})
	return nil
}

// deckResponse shapes a deck DTO. Progress is studied/total as a percentage
// rounded to two decimals; an empty deck has progress 0.
func deckResponse(d *store.Deck, counts store.CardCounts) DeckResponse {
	var progress float64
	if counts.Total > 0 {
		progress = math.Round(float64(counts.Studied)/float64(counts.Total)*100*100) / 100
	}
	return DeckResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Tags:        d.Tags,
		CardCount:   counts.Total,
		Progress:    progress,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
