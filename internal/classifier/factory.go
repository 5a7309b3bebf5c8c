package classifier

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/empath/pkg/backend"
	"github.com/JaimeStill/empath/pkg/lifecycle"
)

// System is a configured classifier with lifecycle hooks.
type System interface {
	Classifier
	Handler() *Handler
	Start(lc *lifecycle.Coordinator) error
}

type remoteSystem struct {
	*Remote
	logger *slog.Logger
}

func (s *remoteSystem) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *remoteSystem) Start(*lifecycle.Coordinator) error {
	return nil
}

type embeddedSystem struct {
	*Embedded
	logger *slog.Logger
}

func (s *embeddedSystem) Handler() *Handler {
	return NewHandler(s, s.logger)
}

// Start warms the model in the background once the service starts so the
// first submission does not pay for initialization. Readiness fails until a
// device holds the model.
func (s *embeddedSystem) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		if err := s.handle.Warm(lc.Context()); err != nil {
			s.logger.Warn("model warm-up did not complete", "error", err)
		}
	})
	lc.AddCheck("model", func(context.Context) error {
		if s.handle.Device() == "" {
			return ErrModelLoading
		}
		return nil
	})
	return nil
}

// New builds the classifier selected by cfg.Mode. blobs may be nil; when it
// is set and cfg.LexiconKey names a blob, the embedded model loads its
// lexicon from storage instead of the built-in one.
func New(cfg *Config, client *backend.Client, blobs BlobReader, logger *slog.Logger) System {
	if cfg.Mode != ModeEmbedded {
		return &remoteSystem{
			Remote: NewRemote(client, cfg.TimeoutDuration(), logger),
			logger: logger,
		}
	}

	var source LexiconSource = BuiltinLexicon{}
	if blobs != nil && cfg.LexiconKey != "" {
		source = StoredLexicon{Store: blobs, Key: cfg.LexiconKey}
	}

	handle := NewModelHandle(
		source,
		ParallelDevice{Workers: cfg.Workers},
		SerialDevice{},
		cfg.InitTimeoutDuration(),
		logger,
	)

	return &embeddedSystem{
		Embedded: NewEmbedded(handle, cfg.TimeoutDuration(), logger),
		logger:   logger,
	}
}
