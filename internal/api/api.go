// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/config"
	"github.com/JaimeStill/empath/internal/infrastructure"
	"github.com/JaimeStill/empath/pkg/middleware"
	"github.com/JaimeStill/empath/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Requests are tagged with an ID and logged, then pass through panic
// recovery, CORS, body size limiting, and bearer-token authentication
// before reaching a handler.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	if err := domain.Start(runtime.Lifecycle); err != nil {
		return nil, err
	}

	verifier, err := auth.NewVerifier(runtime.Lifecycle.Context(), &cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("auth init failed: %w", err)
	}
	if !cfg.Auth.Enabled() {
		runtime.Logger.Warn("token verification disabled", "subject", cfg.Auth.DevSubject)
	}

	mux := http.NewServeMux()
	if err := registerRoutes(mux, cfg, domain, runtime); err != nil {
		return nil, fmt.Errorf("route registration failed: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recover(runtime.Logger))
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(limitBody(runtime.MaxRequestSize))
	m.Use(auth.Middleware(verifier, runtime.Logger))

	return m, nil
}

func limitBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
