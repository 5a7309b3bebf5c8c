package classifier

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
	"github.com/JaimeStill/empath/pkg/handlers"
	"github.com/JaimeStill/empath/pkg/routes"
)

// Handler serves the analyze contract so the service can itself act as a
// classification backend.
type Handler struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewHandler creates a Handler over c.
func NewHandler(c Classifier, logger *slog.Logger) *Handler {
	return &Handler{
		classifier: c,
		logger:     logger.With("handler", "classifier"),
	}
}

// Routes returns the route group for classification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/emotions",
		Tags:    []string{"Classification"},
		Schemas: schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze, OpenAPI: analyzeOp},
		},
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// Analyze classifies the request text and writes the raw prediction.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	text, err := emotions.Validate(req.Text)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var token string
	if id, ok := auth.FromContext(r.Context()); ok {
		token = id.Token
	}

	raw, err := h.classifier.Classify(r.Context(), NewRequest(text), token)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// MapHTTPStatus maps classification failures to response statuses. Input,
// auth, rate-limit and warm-up failures round-trip to the same kind through a
// remote client; ModelWarmingUp responds 500 with an error body naming the
// model. Timeout (504) and availability failures (503) read back as
// server_error, since only 404 means service_unavailable to a client.
func MapHTTPStatus(err error) int {
	switch failures.KindOf(err) {
	case failures.InvalidInput, failures.EmptyInput, failures.TooLong:
		return http.StatusBadRequest
	case failures.Unauthorized:
		return http.StatusUnauthorized
	case failures.RateLimited:
		return http.StatusTooManyRequests
	case failures.Timeout:
		return http.StatusGatewayTimeout
	case failures.ServiceUnavailable, failures.NetworkUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
