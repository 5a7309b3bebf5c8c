package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrModelLoading indicates the caller stopped waiting while the model was
// still initializing. Initialization continues in the background.
var ErrModelLoading = errors.New("model is loading")

// DefaultInitTimeout bounds one model initialization across both devices.
const DefaultInitTimeout = 2 * time.Minute

const initKey = "model"

// ModelHandle owns the process's model. The first caller triggers
// initialization on the accelerated device, falling back once to the
// fallback device; concurrent callers await the same attempt. The outcome,
// success or failure, is cached for the life of the handle.
type ModelHandle struct {
	source      LexiconSource
	accelerated Device
	fallback    Device
	initTimeout time.Duration
	logger      *slog.Logger

	group    singleflight.Group
	attempts atomic.Int32

	mu    sync.Mutex
	ready bool
	model Model
	err   error
}

// NewModelHandle creates an uninitialized handle. A non-positive initTimeout
// uses DefaultInitTimeout.
func NewModelHandle(
	source LexiconSource,
	accelerated, fallback Device,
	initTimeout time.Duration,
	logger *slog.Logger,
) *ModelHandle {
	if initTimeout <= 0 {
		initTimeout = DefaultInitTimeout
	}
	return &ModelHandle{
		source:      source,
		accelerated: accelerated,
		fallback:    fallback,
		initTimeout: initTimeout,
		logger:      logger.With("system", "model"),
	}
}

// Get returns the initialized model, starting initialization if needed.
// If ctx ends first, Get returns an error wrapping ErrModelLoading.
func (h *ModelHandle) Get(ctx context.Context) (Model, error) {
	if m, err, ok := h.cached(); ok {
		return m, err
	}

	ch := h.group.DoChan(initKey, func() (any, error) {
		if m, err, ok := h.cached(); ok {
			return m, err
		}

		initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.initTimeout)
		defer cancel()

		m, err := h.initialize(initCtx)

		h.mu.Lock()
		h.ready, h.model, h.err = true, m, err
		h.mu.Unlock()

		return m, err
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrModelLoading, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		m, _ := res.Val.(Model)
		return m, nil
	}
}

// Warm triggers initialization and waits for its outcome.
func (h *ModelHandle) Warm(ctx context.Context) error {
	_, err := h.Get(ctx)
	return err
}

// Device reports the device the model was loaded on, or "" before a
// successful initialization.
func (h *ModelHandle) Device() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.model == nil {
		return ""
	}
	return h.model.Device()
}

// Attempts reports how many device loads have been tried.
func (h *ModelHandle) Attempts() int {
	return int(h.attempts.Load())
}

func (h *ModelHandle) cached() (Model, error, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.model, h.err, h.ready
}

func (h *ModelHandle) initialize(ctx context.Context) (Model, error) {
	start := time.Now()

	lex, err := h.source.Load(ctx)
	if err != nil {
		h.logger.Error("lexicon load failed", "error", err)
		return nil, fmt.Errorf("load lexicon: %w", err)
	}

	h.attempts.Add(1)
	m, accErr := h.accelerated.Load(ctx, lex)
	if accErr == nil {
		h.logger.Info("model ready",
			"device", m.Device(),
			"lexicon", lex.Version,
			"elapsed", time.Since(start),
		)
		return m, nil
	}

	h.logger.Warn("accelerated device init failed, falling back",
		"device", h.accelerated.Name(),
		"fallback", h.fallback.Name(),
		"error", accErr,
	)

	h.attempts.Add(1)
	m, fbErr := h.fallback.Load(ctx, lex)
	if fbErr != nil {
		h.logger.Error("model init failed", "error", fbErr)
		return nil, fmt.Errorf("init model: %w", errors.Join(accErr, fbErr))
	}

	h.logger.Info("model ready",
		"device", m.Device(),
		"lexicon", lex.Version,
		"elapsed", time.Since(start),
	)
	return m, nil
}
