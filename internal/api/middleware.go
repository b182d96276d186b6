/**
 * @description
 * HTTP middleware. The session middleware validates the Bearer token on every
 * protected route and stores the decoded session in the request context, so
 * handlers never parse tokens themselves.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - internal/auth: Token verification and the Session type.
 */

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/sumin-dev/Silver-Bank/internal/auth"
)

// sessionContextKey is a custom type for the context key to avoid collisions.
type sessionContextKey string

const sessionKey sessionContextKey = "session"

// SessionMiddleware validates the Authorization header and injects the
// decoded session into the request context.
func SessionMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			session, err := tokens.Verify(r.Context(), tokenString)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, *session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext retrieves the authenticated session from the request
// context. Handlers behind SessionMiddleware should use this to identify the
// caller.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	session, ok := ctx.Value(sessionKey).(auth.Session)
	return session, ok
}
