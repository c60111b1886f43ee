package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studyforge/studyforge/internal/auth"
	"github.com/studyforge/studyforge/internal/llm"
)

// tokensHandler provides REST handlers for API token management.
type tokensHandler struct {
	tokens auth.TokenStore
}

// List returns the caller's tokens. token_hash never appears in responses.
//
//	@Summary	List API tokens
//	@Tags		tokens
//	@Produce	json
//	@Success	200	{object}	TokenListResponse
//	@Router		/tokens [get]
func (h *tokensHandler) List(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	records, err := h.tokens.ListByUser(r.Context(), user.ID)
	if err != nil {
		return err
	}

	resp := TokenListResponse{Tokens: make([]TokenResponse, 0, len(records))}
	for _, rec := range records {
		if rec.RevokedAt.Valid {
			continue
		}
		resp.Tokens = append(resp.Tokens, tokenResponse(rec, ""))
	}

	writeJSON(w, http.StatusOK, resp)
	return nil
}

// Create generates a new token and returns the plaintext once. It never
// appears in any subsequent response.
//
//	@Summary	Create an API token
//	@Tags		tokens
//	@Accept		json
//	@Produce	json
//	@Param		body	body	CreateTokenRequest	true	"token"
//	@Success	201	{object}	TokenResponse
//	@Router		/tokens [post]
func (h *tokensHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	var req CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return llm.Validationf("invalid request body")
	}
	if req.Name == "" {
		return llm.Validationf("name is required")
	}

	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		return err
	}
	rec, err := h.tokens.Create(r.Context(), user.ID, req.Name, hash, req.ExpiresAt)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, tokenResponse(rec, plaintext))
	return nil
}

// Revoke soft-deletes a token owned by the caller. Other users' tokens are
// reported as not found.
//
//	@Summary	Revoke an API token
//	@Tags		tokens
//	@Success	204
//	@Param		id	path	string	true	"token id"
//	@Router		/tokens/{id} [delete]
func (h *tokensHandler) Revoke(w http.ResponseWriter, r *http.Request) error {
	user := auth.UserFromContext(r.Context())

	if err := h.tokens.Revoke(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func tokenResponse(rec *auth.TokenRecord, plaintext string) TokenResponse {
	resp := TokenResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Token:     plaintext,
		CreatedAt: rec.CreatedAt,
	}
	if rec.LastUsedAt.Valid {
		t := rec.LastUsedAt.Time
		resp.LastUsedAt = &t
	}
	if rec.ExpiresAt.Valid {
		t := rec.ExpiresAt.Time
		resp.ExpiresAt = &t
	}
	return resp
}
