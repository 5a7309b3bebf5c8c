package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/pkg/handlers"
	"github.com/JaimeStill/empath/pkg/routes"
)

// Handler provides HTTP endpoints for conversations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler over sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "chat"),
	}
}

// Routes returns the route group for chat endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/chat",
		Tags:    []string{"Chat"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/conversations", Handler: h.Start, OpenAPI: startOp},
			{Method: "GET", Pattern: "/conversations/{id}", Handler: h.Find, OpenAPI: findOp},
			{Method: "POST", Pattern: "/conversations/{id}/messages", Handler: h.Submit, OpenAPI: submitOp},
		},
	}
}

type submitRequest struct {
	Content string `json:"content"`
}

// Start opens a new conversation.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	c, err := h.sys.Start(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c.View())
}

// Find returns a conversation transcript.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	cid, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid conversation id"))
		return
	}

	c, err := h.sys.Find(r.Context(), id, cid)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c.View())
}

// Submit sends a message and returns the resulting turn. A rejected message
// responds 422 with the turn so the client can show the validator's reason.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.identity(w, r)
	if !ok {
		return
	}

	cid, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid conversation id"))
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	turn, err := h.sys.Submit(r.Context(), id, cid, req.Content)
	switch {
	case errors.Is(err, ErrRejected) && turn != nil:
		handlers.RespondJSON(w, http.StatusUnprocessableEntity, turn)
	case err != nil:
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
	default:
		handlers.RespondJSON(w, http.StatusOK, turn)
	}
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrMissingToken)
		return auth.Identity{}, false
	}
	return id, true
}
