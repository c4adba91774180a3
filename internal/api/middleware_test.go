package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"lovelace/backend/internal/api"
	"lovelace/backend/internal/auth"
)

// stubVerifier resolves a single known token to a fixed email.
type stubVerifier struct {
	token string
	email string
}

func (v *stubVerifier) Verify(_ context.Context, token string) (string, error) {
	if token == v.token {
		return v.email, nil
	}
	return "", errors.New("no user found")
}

func setupAuthMiddleware(allowed []string) *api.AuthMiddleware {
	verifier := &stubVerifier{token: "good-token", email: "Justin.Edward.Hunter@gmail.com"}
	authenticator := auth.NewAuthenticator(verifier, allowed, false)
	return api.NewAuthMiddleware(authenticator, "X-Auth-Token")
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	allowed := []string{"justin.edward.hunter@gmail.com"}

	// The protected handler records the identity it saw.
	var seenIdentity auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenIdentity = api.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("Valid token passes with normalized identity", func(t *testing.T) {
		middleware := setupAuthMiddleware(allowed)
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		req.Header.Set("X-Auth-Token", "good-token")
		rr := httptest.NewRecorder()

		middleware.RequireAuth(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, auth.Identity("justin_edward_hunter@gmail_com"), seenIdentity)
	})

	t.Run("Missing token is a uniform 401", func(t *testing.T) {
		middleware := setupAuthMiddleware(allowed)
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		rr := httptest.NewRecorder()

		middleware.RequireAuth(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, rr.Body.String())
	})

	t.Run("Unknown token is a uniform 401", func(t *testing.T) {
		middleware := setupAuthMiddleware(allowed)
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		req.Header.Set("X-Auth-Token", "bad-token")
		rr := httptest.NewRecorder()

		middleware.RequireAuth(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, rr.Body.String())
	})

	t.Run("Email outside the allow list is a uniform 401", func(t *testing.T) {
		middleware := setupAuthMiddleware([]string{"someone.else@example.com"})
		req := httptest.NewRequest(http.MethodGet, "/chat", nil)
		req.Header.Set("X-Auth-Token", "good-token")
		rr := httptest.NewRecorder()

		middleware.RequireAuth(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"message":"Unauthorized"}`, rr.Body.String())
	})
}
