package entries

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/pkg/handlers"
	"github.com/JaimeStill/empath/pkg/pagination"
	"github.com/JaimeStill/empath/pkg/routes"
)

// Handler provides HTTP endpoints for emotion entries.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "entries"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for entry endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/emotions",
		Tags:    []string{"Entries"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/add", Handler: h.Add, OpenAPI: addOp},
			{Method: "GET", Pattern: "/history", Handler: h.History, OpenAPI: historyOp},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary, OpenAPI: summaryOp},
		},
	}
}

// Add records an entry for the caller and returns it wrapped in a data envelope.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	var cmd AddCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	e, err := h.sys.Append(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, map[string]any{"data": e})
}

// History returns a page of the caller's entries, newest first.
// Query parameters: start_date, end_date, emotion, page, page_size, search, sort.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.History(r.Context(), id, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Summary returns per-emotion counts and the dominant emotion for the caller.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return
	}

	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	s, err := h.sys.Summary(r.Context(), id, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}
