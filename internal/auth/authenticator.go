package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/studyforge/studyforge/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// ErrUnauthenticated is returned by Identify when the request carries no
// valid session or bearer token.
var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves the user behind an API request. Requests may carry
// either a session cookie (browser clients) or a Bearer API token (scripted
// clients); both resolve to the same *store.User.
type Authenticator struct {
	sessions *scs.SessionManager
	tokens   TokenStore
	users    *store.UserStore
}

func NewAuthenticator(sm *scs.SessionManager, ts TokenStore, us *store.UserStore) *Authenticator {
	return &Authenticator{sessions: sm, tokens: ts, users: us}
}

// Identify returns the authenticated user for the request, or
// ErrUnauthenticated. Bearer tokens take precedence when both are present.
func (a *Authenticator) Identify(r *http.Request) (*store.User, error) {
	if user, err := a.fromBearer(r); err == nil {
		return user, nil
	} else if !errors.Is(err, errNoBearer) {
		return nil, err
	}
	return a.fromSession(r)
}

var errNoBearer = errors.New("no bearer token")

func (a *Authenticator) fromBearer(r *http.Request) (*store.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, errNoBearer
	}
	plaintext := strings.TrimPrefix(header, "Bearer ")
	if plaintext == "" {
		return nil, ErrUnauthenticated
	}

	rec, err := a.tokens.GetByHash(r.Context(), HashToken(plaintext))
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if rec.RevokedAt.Valid {
		return nil, ErrUnauthenticated
	}
	if rec.ExpiresAt.Valid && rec.ExpiresAt.Time.Before(time.Now()) {
		return nil, ErrUnauthenticated
	}

	user, err := a.users.GetByID(r.Context(), rec.UserID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	// Update last_used_at asynchronously to avoid write overhead on every read.
	go a.tokens.UpdateLastUsed(context.Background(), rec.ID)

	return user, nil
}

func (a *Authenticator) fromSession(r *http.Request) (*store.User, error) {
	userID := a.sessions.GetString(r.Context(), SessionUserIDKey)
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	user, err := a.users.GetByID(r.Context(), userID)
	if err != nil {
		// Session references a deleted user.
		_ = a.sessions.Destroy(r.Context())
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *store.User) context.Context {
	return context.WithValue(ctx, UserContextKey, u)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}
