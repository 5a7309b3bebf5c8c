// Package auth resolves the caller's identity from a bearer token and carries
// it through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/empath/pkg/handlers"
)

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Identity is the authenticated caller. Token is the raw bearer token,
// forwarded to the backend on the caller's behalf.
type Identity struct {
	Subject string `json:"subject"`
	Token   string `json:"-"`
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored in ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Verifier turns a raw bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// TokenSource supplies a bearer token for work that does not originate from
// an inbound request, such as the terminal client.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// Resolve obtains a token from src and verifies it.
func Resolve(ctx context.Context, v Verifier, src TokenSource) (Identity, error) {
	token, err := src.Token(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("obtain token: %w", err)
	}
	return v.Verify(ctx, token)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewOIDCVerifier discovers the issuer's keys and verifies ID tokens issued
// for clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider %s: %w", issuer, err)
	}
	return &oidcVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return Identity{Subject: idToken.Subject, Token: token}, nil
}

// DevVerifier accepts any token, or none, as Subject.
type DevVerifier struct {
	Subject string
}

func (d DevVerifier) Verify(_ context.Context, token string) (Identity, error) {
	return Identity{Subject: d.Subject, Token: token}, nil
}

// NewVerifier builds the verifier cfg describes: OIDC when an issuer is
// configured, DevVerifier otherwise.
func NewVerifier(ctx context.Context, cfg *Config) (Verifier, error) {
	if !cfg.Enabled() {
		return DevVerifier{Subject: cfg.DevSubject}, nil
	}
	return NewOIDCVerifier(ctx, cfg.Issuer, cfg.ClientID)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// Middleware verifies the bearer token and stores the resulting Identity in
// the request context. A DevVerifier admits requests without a token.
func Middleware(v Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("middleware", "auth")
	_, dev := v.(DevVerifier)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" && !dev {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrMissingToken)
				return
			}

			id, err := v.Verify(r.Context(), token)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
