package entries

import (
	"fmt"

	"github.com/JaimeStill/empath/pkg/envvar"
)

// Entry store backends.
const (
	StoreRemote   = "remote"
	StorePostgres = "postgres"
)

// Config selects where entries are kept.
type Config struct {
	Store string `toml:"store"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Store string
}

// UsesDatabase reports whether the configured store needs a database connection.
func (c *Config) UsesDatabase() bool {
	return c.Store == StorePostgres
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.Store == "" {
		c.Store = StoreRemote
	}
	if env != nil {
		envvar.String(&c.Store, env.Store)
	}
	switch c.Store {
	case StoreRemote, StorePostgres:
		return nil
	}
	return fmt.Errorf("invalid store %q: must be %s or %s", c.Store, StoreRemote, StorePostgres)
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Store != "" {
		c.Store = overlay.Store
	}
}
