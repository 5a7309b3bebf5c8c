package api

import (
	"github.com/JaimeStill/empath/internal/config"
	"github.com/JaimeStill/empath/internal/infrastructure"
	"github.com/JaimeStill/empath/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination     pagination.Config
	MaxRequestSize int64
	MaxListSize    int32
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Backend:   infra.Backend,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Cache:     infra.Cache,
		},
		Pagination:     cfg.API.Pagination,
		MaxRequestSize: cfg.API.MaxRequestSizeBytes(),
		MaxListSize:    cfg.Storage.MaxListSize,
	}
}
