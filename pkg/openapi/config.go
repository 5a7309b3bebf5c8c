package openapi

import "github.com/JaimeStill/empath/pkg/envvar"

// Config holds OpenAPI metadata for the generated API description.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Empath API"
	}
	if c.Description == "" {
		c.Description = "Emotion classification and confidence-gated dispatch for a wellness chat client."
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Title, env.Title)
	envvar.String(&c.Description, env.Description)
}
