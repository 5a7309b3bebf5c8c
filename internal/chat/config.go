package chat

import (
	"fmt"

	"github.com/JaimeStill/empath/pkg/envvar"
)

// Config controls the in-memory conversation registry.
type Config struct {
	MaxConversations int `toml:"max_conversations"`
}

// Env holds environment variable names for chat configuration.
type Env struct {
	MaxConversations string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overlays non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxConversations != 0 {
		c.MaxConversations = overlay.MaxConversations
	}
}

func (c *Config) loadDefaults() {
	if c.MaxConversations == 0 {
		c.MaxConversations = 1000
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.Int(&c.MaxConversations, env.MaxConversations)
}

func (c *Config) validate() error {
	if c.MaxConversations < 1 {
		return fmt.Errorf("max_conversations must be positive")
	}
	return nil
}
