package api

import (
	"context"
	"net/http"

	"lovelace/backend/internal/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// IdentityFromContext returns the authenticated identity stored by the
// auth middleware, or "" when the request was not authenticated.
func IdentityFromContext(ctx context.Context) auth.Identity {
	identity, _ := ctx.Value(identityContextKey).(auth.Identity)
	return identity
}

// RequestWithIdentity returns a copy of the request carrying the
// identity. Used by the middleware and by handler tests.
func RequestWithIdentity(r *http.Request, identity auth.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityContextKey, identity))
}

// AuthMiddleware rejects requests whose credential does not resolve to an
// allowed identity. The credential is an opaque token in a configurable
// header; every rejection is a uniform 401 with no further detail.
type AuthMiddleware struct {
	authenticator *auth.Authenticator
	tokenHeader   string
}

func NewAuthMiddleware(authenticator *auth.Authenticator, tokenHeader string) *AuthMiddleware {
	return &AuthMiddleware{authenticator: authenticator, tokenHeader: tokenHeader}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(m.tokenHeader)
		_, identity, err := m.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			respondWithError(w, err)
			return
		}
		next.ServeHTTP(w, RequestWithIdentity(r, identity))
	})
}
