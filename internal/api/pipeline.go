package api

import (
	"log"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/studyforge/studyforge/internal/auth"
)

// Handler is a terminal API operation. Returning an error hands it to the
// error boundary, which owns error-to-response translation; a handler never
// writes an error response itself.
type Handler func(w http.ResponseWriter, r *http.Request) error

// Middleware wraps a Handler, returning a new Handler. A middleware may
// short-circuit by writing a response and returning nil, or pass an error
// outward by returning it.
type Middleware func(Handler) Handler

// Pipeline composes middleware around a terminal handler. The first
// middleware listed is outermost. The standard API composition is
// ErrorBoundary, then WithAuth, then WithLogging: the boundary must sit
// outside authentication so that auth failures and every downstream domain
// error reach the single translation point.
func Pipeline(h Handler, mws ...Middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		// The outermost middleware has already converted errors into
		// responses; anything left here is a programming error.
		if err := h(w, r); err != nil {
			log.Printf("unhandled pipeline error: %v", err)
		}
	}
}

// ErrorBoundary converts errors flowing out of inner handlers into JSON
// error responses. It is the only place in the API that maps errors to
// status codes.
func ErrorBoundary(next Handler) Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		err := next(w, r)
		if err == nil {
			return nil
		}
		status, code, msg := translate(err)
		if status == http.StatusInternalServerError {
			log.Printf("internal error on %s %s: %v", r.Method, r.URL.Path, err)
		}
		writeError(w, status, msg, code)
		return nil
	}
}

// WithAuth resolves the caller's identity and attaches it to the request
// context. Requests without a valid session or bearer token fail the whole
// pipeline with 401.
func WithAuth(a *auth.Authenticator) Middleware {
	return func(next Handler) Handler {
		return func(w http.ResponseWriter, r *http.Request) error {
			user, err := a.Identify(r)
			if err != nil {
				return errUnauthorized
			}
			return next(w, r.WithContext(auth.WithUser(r.Context(), user)))
		}
	}
}

// WithLogging times each request and records both outcomes exactly once.
// Errors are logged and re-raised, never absorbed; translation belongs to
// the error boundary.
func WithLogging(next Handler) Handler {
	return func(w http.ResponseWriter, r *http.Request) error {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		err := next(ww, r)
		elapsed := time.Since(start)
		if err != nil {
			log.Printf("%s %s error after %s: %v", r.Method, r.URL.Path, elapsed, err)
			return err
		}
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), elapsed)
		return nil
	}
}
