// Package cache provides a Redis client with lifecycle coordination.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/empath/pkg/lifecycle"
)

// System manages the Redis client and lifecycle coordination.
type System interface {
	// Client returns the underlying Redis client.
	Client() *redis.Client
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type cache struct {
	client      *redis.Client
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a cache system from the given configuration.
// It builds the client but does not connect until Start is called.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}

	return &cache{
		client:      redis.NewClient(opts),
		logger:      logger.With("system", "cache"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

// Options converts cfg into client options. A redis:// or rediss:// Addr is
// parsed as a URL; Password and DB override the URL's values when set.
func Options(cfg *Config) (*redis.Options, error) {
	var opts *redis.Options

	if strings.HasPrefix(cfg.Addr, "redis://") || strings.HasPrefix(cfg.Addr, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.Addr}
	}

	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	if d := cfg.ConnTimeoutDuration(); d > 0 {
		opts.DialTimeout = d
	}

	return opts, nil
}

func (c *cache) Client() *redis.Client {
	return c.client
}

func (c *cache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")

	lc.OnStartup(func() {
		pingCtx, cancel := context.WithTimeout(lc.Context(), c.connTimeout)
		defer cancel()

		if err := c.client.Ping(pingCtx).Err(); err != nil {
			c.logger.Error("cache ping failed", "error", err)
			return
		}

		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.logger.Info("closing cache connection")

		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}

		c.logger.Info("cache connection closed")
	})

	lc.AddCheck("cache", func(ctx context.Context) error {
		return c.client.Ping(ctx).Err()
	})

	return nil
}
