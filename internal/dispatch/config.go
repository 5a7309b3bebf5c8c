package dispatch

import (
	"fmt"
	"time"

	"github.com/JaimeStill/empath/pkg/envvar"
)

// Config holds background task settings.
type Config struct {
	TaskTimeout string `toml:"task_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	TaskTimeout string
}

// TaskTimeoutDuration returns TaskTimeout as a time.Duration.
func (c *Config) TaskTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.TaskTimeout)
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

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.TaskTimeout != "" {
		c.TaskTimeout = overlay.TaskTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.TaskTimeout == "" {
		c.TaskTimeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.TaskTimeout, env.TaskTimeout)
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.TaskTimeout)
	if err != nil {
		return fmt.Errorf("invalid task_timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("task_timeout must be positive")
	}
	return nil
}
