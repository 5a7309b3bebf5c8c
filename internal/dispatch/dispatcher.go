package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/entries"
	"github.com/JaimeStill/empath/internal/recommendations"
	"github.com/JaimeStill/empath/pkg/lifecycle"
)

// EntryStore records emotion entries.
type EntryStore interface {
	Append(ctx context.Context, id auth.Identity, cmd entries.AddCommand) (*entries.Entry, error)
}

// Catalog looks up recommendations.
type Catalog interface {
	Find(ctx context.Context, id auth.Identity, q recommendations.Query) ([]recommendations.Recommendation, error)
}

// Dispatcher applies Decide and runs its side effects in the background.
// Task failures are logged and never reach the caller.
type Dispatcher struct {
	entries EntryStore
	catalog Catalog
	timeout time.Duration
	logger  *slog.Logger

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// New creates a Dispatcher. A nil catalog disables recommendation prefetch.
func New(store EntryStore, catalog Catalog, cfg *Config, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		entries: store,
		catalog: catalog,
		timeout: cfg.TaskTimeoutDuration(),
		logger:  logger.With("system", "dispatch"),
	}
}

// Dispatch decides the outcome for result and schedules its side effects.
// The text becomes the entry's context. It never blocks on I/O.
func (d *Dispatcher) Dispatch(ctx context.Context, id auth.Identity, text string, result *emotions.Result) Decision {
	decision := Decide(result, nil)
	if result == nil {
		return decision
	}

	if decision.Persists() {
		cmd := entries.AddCommand{
			Emotion:   result.Emotion,
			Intensity: result.Confidence,
			Context:   text,
		}
		d.spawn(ctx, "persist", func(ctx context.Context) error {
			_, err := d.entries.Append(ctx, id, cmd)
			return err
		})
	}

	if decision.Recommends() && d.catalog != nil {
		q := recommendations.Query{Emotion: result.Emotion, Types: recommendations.DefaultTypes}
		d.spawn(ctx, "prefetch", func(ctx context.Context) error {
			_, err := d.catalog.Find(ctx, id, q)
			return err
		})
	}

	d.logger.DebugContext(ctx, "dispatched",
		"decision", decision,
		"emotion", result.Emotion,
		"confidence", result.Confidence,
	)
	return decision
}

// Wait blocks until every scheduled task has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Dropped reports how many tasks were refused after shutdown began.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Start registers a shutdown hook that stops accepting tasks and drains the
// in-flight ones.
func (d *Dispatcher) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		d.logger.Info("draining background tasks")
		d.wg.Wait()
		d.logger.Info("background tasks drained", "dropped", d.dropped.Load())
	})
	return nil
}

// spawn runs fn on a context detached from the caller's cancellation and
// bounded by the task timeout. The read lock orders wg.Go before the drain.
func (d *Dispatcher) spawn(parent context.Context, task string, fn func(context.Context) error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		d.logger.Warn("task dropped during shutdown", "task", task)
		return
	}

	d.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), d.timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			d.logger.Warn("background task failed", "task", task, "elapsed", time.Since(start), "error", err)
			return
		}
		d.logger.Debug("background task completed", "task", task, "elapsed", time.Since(start))
	})
}
