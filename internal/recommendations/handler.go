package recommendations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/pkg/handlers"
	"github.com/JaimeStill/empath/pkg/routes"
)

// Handler provides HTTP endpoints for recommendations.
type Handler struct {
	sys    System
	cfg    *Config
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system, config, and logger.
func NewHandler(sys System, cfg *Config, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		cfg:    cfg,
		logger: logger.With("handler", "recommendations"),
	}
}

// Routes returns the route group definition for recommendation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/recommendations",
		Tags:    []string{"Recommendations"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Find, OpenAPI: findOp},
			{Method: "GET", Pattern: "/random", Handler: h.Random, OpenAPI: randomOp},
		},
	}
}

// Find returns recommendations for the emotion and types query parameters.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	label, ok := emotions.ParseLabel(r.URL.Query().Get("emotion"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidEmotion)
		return
	}

	types, err := ParseTypes(r.URL.Query().Get("types"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	items, err := h.sys.Find(r.Context(), id, Query{Emotion: label, Types: types})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"data": items})
}

// Random returns count recommendations, defaulting to the configured count.
func (h *Handler) Random(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())

	count := h.cfg.RandomCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxCount {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidCount)
			return
		}
		count = n
	}

	items, err := h.sys.Random(r.Context(), id, count)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"data": items})
}
