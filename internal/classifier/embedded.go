package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
)

// Embedded classifies text in-process with the handle's lexicon model. The
// token is ignored.
type Embedded struct {
	handle  *ModelHandle
	timeout time.Duration
	logger  *slog.Logger
}

// NewEmbedded creates an Embedded classifier over handle. A non-positive
// timeout uses Timeout.
func NewEmbedded(handle *ModelHandle, timeout time.Duration, logger *slog.Logger) *Embedded {
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Embedded{
		handle:  handle,
		timeout: timeout,
		logger:  logger.With("classifier", "embedded"),
	}
}

// Handle returns the model handle backing the classifier.
func (e *Embedded) Handle() *ModelHandle {
	return e.handle
}

func (e *Embedded) Classify(ctx context.Context, req Request, _ string) (emotions.Raw, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	model, err := e.handle.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrModelLoading) {
			e.logger.InfoContext(ctx, "model still initializing")
			return nil, failures.New(failures.ModelWarmingUp, err)
		}
		return nil, failures.New(failures.ServiceUnavailable, err)
	}

	pred, err := model.Predict(ctx, req.Text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, failures.New(failures.Timeout, err)
		}
		return nil, failures.New(failures.ServerError, err)
	}

	data, err := json.Marshal(pred)
	if err != nil {
		return nil, failures.New(failures.ServerError, err)
	}

	e.logger.DebugContext(ctx, "classification predicted",
		"device", model.Device(),
		"emotion", pred.Emotion,
		"confidence", pred.Confidence,
	)
	return data, nil
}
