// Package module mounts self-contained HTTP handlers under single-segment
// path prefixes, each with its own middleware stack.
package module

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/JaimeStill/empath/pkg/middleware"
)

// Module serves requests under prefix by stripping the prefix and handing
// the request to its router. Middleware is added during setup, before the
// module serves requests.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System
	handler    http.Handler
}

// New creates a Module for a single-segment prefix such as "/api".
// Panics on an invalid prefix.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
		handler:    router,
	}
}

// Handler returns the router wrapped in the module's middleware.
func (m *Module) Handler() http.Handler {
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve dispatches req to the module with the prefix removed from its path.
// The caller's request is not modified.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	rest := strings.TrimPrefix(req.URL.Path, m.prefix)
	if rest == "" {
		rest = "/"
	}
	m.handler.ServeHTTP(w, withPath(req, rest))
}

// Use appends mw to the module's middleware. Middleware runs in the order
// it is added.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
	m.handler = m.middleware.Apply(m.router)
}

// withPath returns a shallow copy of req whose URL path is p.
func withPath(req *http.Request, p string) *http.Request {
	u := *req.URL
	u.Path = p
	u.RawPath = ""

	out := req.WithContext(req.Context())
	out.URL = &u
	return out
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "" || prefix == "/":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Contains(prefix[1:], "/") || path.Clean(prefix) != prefix:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
