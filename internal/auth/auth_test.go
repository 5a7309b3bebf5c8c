package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/empath/internal/auth"
)

type fakeVerifier struct {
	valid map[string]string
}

func (f fakeVerifier) Verify(_ context.Context, token string) (auth.Identity, error) {
	sub, ok := f.valid[token]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return auth.Identity{Subject: sub, Token: token}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoSubject() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.Header().Set("X-Subject", id.Subject)
		w.Header().Set("X-Token", id.Token)
	})
}

func TestMiddleware(t *testing.T) {
	verifier := fakeVerifier{valid: map[string]string{"good": "user-1"}}

	tests := []struct {
		name        string
		verifier    auth.Verifier
		header      string
		wantStatus  int
		wantSubject string
	}{
		{"valid token", verifier, "Bearer good", http.StatusOK, "user-1"},
		{"invalid token", verifier, "Bearer bad", http.StatusUnauthorized, ""},
		{"missing token", verifier, "", http.StatusUnauthorized, ""},
		{"wrong scheme", verifier, "Basic good", http.StatusUnauthorized, ""},
		{"dev without token", auth.DevVerifier{Subject: "local"}, "", http.StatusOK, "local"},
		{"dev forwards token", auth.DevVerifier{Subject: "local"}, "Bearer anything", http.StatusOK, "local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := auth.Middleware(tt.verifier, discardLogger())(echoSubject())

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("X-Subject"); got != tt.wantSubject {
				t.Errorf("subject = %q, want %q", got, tt.wantSubject)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer  abc.def ")
	if got := auth.BearerToken(req); got != "abc.def" {
		t.Errorf("BearerToken = %q, want abc.def", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := auth.FromContext(context.Background()); ok {
		t.Error("empty context reported an identity")
	}

	ctx := auth.WithIdentity(context.Background(), auth.Identity{Subject: "s", Token: "t"})
	id, ok := auth.FromContext(ctx)
	if !ok || id.Subject != "s" || id.Token != "t" {
		t.Errorf("FromContext = %+v, %v", id, ok)
	}
}

func TestNewVerifierDevMode(t *testing.T) {
	cfg := &auth.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	v, err := auth.NewVerifier(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	id, err := v.Verify(context.Background(), "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.Subject != "local" {
		t.Errorf("subject = %q, want local", id.Subject)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     auth.Config
		wantErr bool
	}{
		{"dev mode", auth.Config{}, false},
		{"issuer with client", auth.Config{Issuer: "https://login.example.com", ClientID: "empath"}, false},
		{"issuer without client", auth.Config{Issuer: "https://login.example.com"}, true},
		{"bad issuer scheme", auth.Config{Issuer: "ftp://login.example.com", ClientID: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("TEST_AUTH_SUBJECT", "tester")

	cfg := &auth.Config{}
	if err := cfg.Finalize(&auth.Env{DevSubject: "TEST_AUTH_SUBJECT"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.DevSubject != "tester" {
		t.Errorf("DevSubject = %q, want tester", cfg.DevSubject)
	}
}


func TestResolve(t *testing.T) {
	id, err := auth.Resolve(context.Background(), auth.DevVerifier{Subject: "cli"}, auth.StaticToken("tok-9"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Subject != "cli" || id.Token != "tok-9" {
		t.Errorf("identity = %+v, want cli/tok-9", id)
	}
}
