package recommendations

import (
	"fmt"
	"time"

	"github.com/JaimeStill/empath/pkg/envvar"
)

// MaxCount bounds the random endpoint's count parameter.
const MaxCount = 50

// Config holds catalog caching and defaults.
type Config struct {
	CacheEnabled bool   `toml:"cache_enabled"`
	CacheTTL     string `toml:"cache_ttl"`
	RandomCount  int    `toml:"random_count"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CacheEnabled string
	CacheTTL     string
	RandomCount  string
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. CacheEnabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.CacheEnabled = overlay.CacheEnabled
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
	if overlay.RandomCount != 0 {
		c.RandomCount = overlay.RandomCount
	}
}

func (c *Config) loadDefaults() {
	if c.CacheTTL == "" {
		c.CacheTTL = "15m"
	}
	if c.RandomCount == 0 {
		c.RandomCount = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.Bool(&c.CacheEnabled, env.CacheEnabled)
	envvar.String(&c.CacheTTL, env.CacheTTL)
	envvar.Int(&c.RandomCount, env.RandomCount)
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("cache_ttl must be positive")
	}
	if c.RandomCount < 1 || c.RandomCount > MaxCount {
		return fmt.Errorf("random_count must be between 1 and %d", MaxCount)
	}
	return nil
}
