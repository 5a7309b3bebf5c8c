package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
	"github.com/JaimeStill/empath/pkg/backend"
)

const analyzePath = "/emotions/analyze"

type errorBody struct {
	Error string `json:"error"`
}

// Remote classifies text through the backend's analyze endpoint.
type Remote struct {
	client  *backend.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewRemote creates a Remote classifier. A non-positive timeout uses Timeout.
func NewRemote(client *backend.Client, timeout time.Duration, logger *slog.Logger) *Remote {
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Remote{
		client:  client,
		timeout: timeout,
		logger:  logger.With("classifier", "remote"),
	}
}

func (r *Remote) Classify(ctx context.Context, req Request, token string) (emotions.Raw, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	resp, err := r.client.Do(
		ctx,
		http.MethodPost,
		analyzePath,
		nil,
		analyzeRequest{Text: req.Text},
		token,
	)
	if err != nil {
		failure := transportFailure(err)
		r.logger.WarnContext(ctx, "classification call failed",
			"kind", failure.Kind,
			"elapsed", time.Since(start),
			"error", err,
		)
		return nil, failure
	}

	if resp.Status != http.StatusOK {
		failure := statusFailure(resp)
		r.logger.WarnContext(ctx, "classification rejected by backend",
			"kind", failure.Kind,
			"status", resp.Status,
		)
		return nil, failure
	}

	r.logger.DebugContext(ctx, "classification received", "elapsed", time.Since(start))
	return emotions.Raw(resp.Body), nil
}

func transportFailure(err error) *failures.Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return failures.New(failures.Timeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failures.New(failures.Timeout, err)
	}

	return failures.New(failures.NetworkUnavailable, err)
}

func statusFailure(resp *backend.Response) *failures.Error {
	cause := fmt.Errorf("backend responded %d", resp.Status)

	switch {
	case resp.Status == http.StatusBadRequest:
		return failures.WithStatus(failures.InvalidInput, resp.Status, cause)
	case resp.Status == http.StatusUnauthorized:
		return failures.WithStatus(failures.Unauthorized, resp.Status, cause)
	case resp.Status == http.StatusNotFound:
		return failures.WithStatus(failures.ServiceUnavailable, resp.Status, cause)
	case resp.Status == http.StatusTooManyRequests:
		return failures.WithStatus(failures.RateLimited, resp.Status, cause)
	case resp.Status == http.StatusInternalServerError && warmingUp(resp.Body):
		return failures.WithStatus(failures.ModelWarmingUp, resp.Status, cause)
	default:
		return failures.WithStatus(failures.ServerError, resp.Status, cause)
	}
}

// warmingUp reports whether a 500 body says the model is still initializing,
// e.g. {"error": "model is loading"}.
func warmingUp(body []byte) bool {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(eb.Error), "model")
}
