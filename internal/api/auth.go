package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/rowanvale/ticketd/internal/domain/session"
)

type sessionKey struct{}
type tokenKey struct{}

// SessionResolver resolves a bearer token to its session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(sessionKey{}).(*session.Session)
	return sess, ok
}

// TokenFromContext returns the raw bearer token, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}

// SessionMiddleware resolves the bearer token when present and stores
// the session in context. It never rejects: the login methods are
// served by the same endpoint, so per-method authentication happens in
// the handler.
func SessionMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), tokenKey{}, token)
			if sess, err := resolver.Resolve(ctx, token); err == nil {
				ctx = context.WithValue(ctx, sessionKey{}, sess)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
