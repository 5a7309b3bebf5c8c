package classifier

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ErrDeviceUnsupported indicates a device cannot host the model in this process.
var ErrDeviceUnsupported = errors.New("device unsupported")

// Model scores text against a loaded lexicon.
type Model interface {
	Device() string
	Predict(ctx context.Context, text string) (Prediction, error)
}

// Device loads a lexicon into a Model.
type Device interface {
	Name() string
	Load(ctx context.Context, lex *Lexicon) (Model, error)
}

// ParallelDevice scores every label concurrently across Workers goroutines.
// It needs at least two workers.
type ParallelDevice struct {
	Workers int
}

func (d ParallelDevice) Name() string { return "parallel" }

func (d ParallelDevice) Load(ctx context.Context, lex *Lexicon) (Model, error) {
	if d.Workers < 2 {
		return nil, fmt.Errorf("%w: parallel device needs 2+ workers, have %d", ErrDeviceUnsupported, d.Workers)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &parallelModel{compiled: compile(lex), workers: d.Workers}, nil
}

// SerialDevice scores labels one after another on the calling goroutine.
type SerialDevice struct{}

func (SerialDevice) Name() string { return "serial" }

func (SerialDevice) Load(ctx context.Context, lex *Lexicon) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &serialModel{compiled: compile(lex)}, nil
}

type parallelModel struct {
	*compiled
	workers int
}

func (m *parallelModel) Device() string { return "parallel" }

func (m *parallelModel) Predict(ctx context.Context, text string) (Prediction, error) {
	tokens := tokenize(text)
	raw := make([]float64, len(m.labels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)

	for i := range m.labels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw[i] = m.score(i, tokens)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Prediction{}, err
	}

	return m.prediction(raw), nil
}

type serialModel struct {
	*compiled
}

func (m *serialModel) Device() string { return "serial" }

func (m *serialModel) Predict(ctx context.Context, text string) (Prediction, error) {
	tokens := tokenize(text)
	raw := make([]float64, len(m.labels))

	for i := range m.labels {
		if err := ctx.Err(); err != nil {
			return Prediction{}, err
		}
		raw[i] = m.score(i, tokens)
	}

	return m.prediction(raw), nil
}
