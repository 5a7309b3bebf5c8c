package api

import (
	"fmt"

	"github.com/JaimeStill/empath/internal/chat"
	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/config"
	"github.com/JaimeStill/empath/internal/dispatch"
	"github.com/JaimeStill/empath/internal/entries"
	"github.com/JaimeStill/empath/internal/recommendations"
	"github.com/JaimeStill/empath/internal/responses"
	"github.com/JaimeStill/empath/pkg/lifecycle"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Classifier      classifier.System
	Entries         entries.System
	Recommendations recommendations.System
	Dispatcher      *dispatch.Dispatcher
	Chat            chat.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	var entriesSystem entries.System
	if cfg.Entries.UsesDatabase() {
		entriesSystem = entries.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
		)
	} else {
		entriesSystem = entries.NewRemote(
			runtime.Backend,
			runtime.Logger,
			runtime.Pagination,
		)
	}

	recommendationsSystem := recommendations.NewRemote(
		runtime.Backend,
		&cfg.Recommendations,
		runtime.Logger,
	)
	if runtime.Cache != nil {
		recommendationsSystem = recommendations.NewCached(
			recommendationsSystem,
			recommendations.RedisStore{Client: runtime.Cache.Client()},
			&cfg.Recommendations,
			runtime.Logger,
		)
	}

	var blobs classifier.BlobReader
	if runtime.Storage != nil {
		blobs = runtime.Storage
	}

	classifierSystem := classifier.New(
		&cfg.Classifier,
		runtime.Backend,
		blobs,
		runtime.Logger,
	)

	dispatcher := dispatch.New(
		entriesSystem,
		recommendationsSystem,
		&cfg.Dispatch,
		runtime.Logger,
	)

	pipeline := chat.NewPipeline(
		classifierSystem,
		dispatcher,
		responses.NewSelector(nil),
		runtime.Logger,
	)

	return &Domain{
		Classifier:      classifierSystem,
		Entries:         entriesSystem,
		Recommendations: recommendationsSystem,
		Dispatcher:      dispatcher,
		Chat:            chat.New(pipeline, &cfg.Chat, runtime.Logger),
	}
}

// Start registers domain lifecycle hooks: model warm-up and draining of
// background dispatch tasks.
func (d *Domain) Start(lc *lifecycle.Coordinator) error {
	if err := d.Classifier.Start(lc); err != nil {
		return fmt.Errorf("classifier start failed: %w", err)
	}
	if err := d.Dispatcher.Start(lc); err != nil {
		return fmt.Errorf("dispatcher start failed: %w", err)
	}
	return nil
}
