package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/empath/internal/auth"
)

// KeyPrefix namespaces recommendation cache keys.
const KeyPrefix = "empath:recommendations"

// Store is the byte cache backing Cached.
type Store interface {
	// Get returns ErrCacheMiss when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore adapts a Redis client to Store.
type RedisStore struct {
	Client *redis.Client
}

func (s RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (s RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

// Cached serves Find from a Store, filling it from the inner system on miss.
// Random always passes through. Cache failures degrade to the inner system.
type Cached struct {
	inner  System
	store  Store
	ttl    time.Duration
	cfg    *Config
	logger *slog.Logger
}

// NewCached wraps inner with a read-through cache.
func NewCached(inner System, store Store, cfg *Config, logger *slog.Logger) *Cached {
	return &Cached{
		inner:  inner,
		store:  store,
		ttl:    cfg.CacheTTLDuration(),
		cfg:    cfg,
		logger: logger.With("system", "recommendations", "layer", "cache"),
	}
}

// Key returns the cache key for q: empath:recommendations:<emotion>:<types>.
func Key(q Query) string {
	types := q.TypesParam()
	if types == "" {
		types = "all"
	}
	return fmt.Sprintf("%s:%s:%s", KeyPrefix, q.Emotion, types)
}

func (c *Cached) Handler() *Handler {
	return NewHandler(c, c.cfg, c.logger)
}

func (c *Cached) Find(ctx context.Context, id auth.Identity, q Query) ([]Recommendation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := Key(q)

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var items []Recommendation
		if err := json.Unmarshal(data, &items); err == nil {
			c.logger.DebugContext(ctx, "cache hit", "key", key)
			return items, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt cache entry", "key", key)
	case !errors.Is(err, ErrCacheMiss):
		c.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	items, err := c.inner.Find(ctx, id, q)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
		}
	}

	return items, nil
}

func (c *Cached) Random(ctx context.Context, id auth.Identity, count int) ([]Recommendation, error) {
	return c.inner.Random(ctx, id, count)
}
