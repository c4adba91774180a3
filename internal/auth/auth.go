package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	app_errors "lovelace/backend/internal/errors"
)

// Identity is the stable, storage-scoped form of an authenticated caller.
// It is derived from the caller's email and used to namespace every
// transcript record. Identity is always passed explicitly into store and
// service calls; there is no ambient session state.
type Identity string

// NormalizeEmail converts an email address into its identity form:
// lowercased, with "." replaced by "_" so it is safe as a directory name
// and a key segment.
func NormalizeEmail(email string) Identity {
	return Identity(strings.ReplaceAll(strings.ToLower(email), ".", "_"))
}

// Verifier resolves an opaque credential token to the caller's email.
// Implementations must return app_errors.ErrUnauthorized (wrapped or
// bare) for any token that does not resolve to a user.
type Verifier interface {
	Verify(ctx context.Context, token string) (email string, err error)
}

// Authenticator combines a token verifier with the allow-list check and
// produces the final identity for a request.
type Authenticator struct {
	verifier   Verifier
	allowed    []string
	testBypass bool
}

func NewAuthenticator(verifier Verifier, allowedUsers []string, testBypass bool) *Authenticator {
	return &Authenticator{verifier: verifier, allowed: allowedUsers, testBypass: testBypass}
}

// Authenticate validates a token and returns the caller's email and
// identity. An empty token, a token the verifier rejects, or an email
// outside the allow-list all fail with ErrUnauthorized; callers must not
// distinguish between these cases in responses.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (string, Identity, error) {
	if token == "" {
		return "", "", app_errors.ErrUnauthorized
	}
	if a.testBypass && token == "TEST" {
		email := "test@email.com"
		return email, NormalizeEmail(email), nil
	}

	email, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", app_errors.ErrUnauthorized, "token verification failed")
	}
	if len(a.allowed) > 0 && !slices.Contains(a.allowed, strings.ToLower(email)) {
		return "", "", fmt.Errorf("%w: %s", app_errors.ErrUnauthorized, "not on the allow list")
	}
	return email, NormalizeEmail(email), nil
}

// remoteVerifier resolves tokens by calling the auth provider's user
// endpoint with the token as a bearer credential. The provider is an
// external collaborator; only its user-lookup interface is assumed here.
type remoteVerifier struct {
	client *http.Client
	url    string
}

func NewRemoteVerifier(url string) Verifier {
	return &remoteVerifier{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
}

func (v *remoteVerifier) Verify(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.url+"/auth/v1/user", nil)
	if err != nil {
		return "", fmt.Errorf("could not create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("auth provider returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var user struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("could not decode auth response: %w", err)
	}
	if user.Email == "" {
		return "", fmt.Errorf("no user found for token")
	}
	return user.Email, nil
}

// jwtVerifier validates HS256 tokens locally with a shared secret and
// reads the email claim. Useful for deployments where the credential
// issuer signs tokens directly instead of exposing a user endpoint.
type jwtVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) Verifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(_ context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("could not parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	email, _ := claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("token has no email claim")
	}
	return email, nil
}
