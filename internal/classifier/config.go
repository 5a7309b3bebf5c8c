package classifier

import (
	"fmt"
	"runtime"
	"time"

	"github.com/JaimeStill/empath/pkg/envvar"
)

// Classification modes.
const (
	ModeRemote   = "remote"
	ModeEmbedded = "embedded"
)

// Config selects and tunes the classifier.
type Config struct {
	Mode        string `toml:"mode"`
	Timeout     string `toml:"timeout"`
	InitTimeout string `toml:"init_timeout"`
	Workers     int    `toml:"workers"`
	LexiconKey  string `toml:"lexicon_key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Mode        string
	Timeout     string
	InitTimeout string
	Workers     string
	LexiconKey  string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// InitTimeoutDuration returns InitTimeout as a time.Duration.
func (c *Config) InitTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.InitTimeout)
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
	if overlay.Mode != "" {
		c.Mode = overlay.Mode
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.InitTimeout != "" {
		c.InitTimeout = overlay.InitTimeout
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.LexiconKey != "" {
		c.LexiconKey = overlay.LexiconKey
	}
}

func (c *Config) loadDefaults() {
	if c.Mode == "" {
		c.Mode = ModeRemote
	}
	if c.Timeout == "" {
		c.Timeout = Timeout.String()
	}
	if c.InitTimeout == "" {
		c.InitTimeout = DefaultInitTimeout.String()
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Mode, env.Mode)
	envvar.String(&c.Timeout, env.Timeout)
	envvar.String(&c.InitTimeout, env.InitTimeout)
	envvar.Int(&c.Workers, env.Workers)
	envvar.String(&c.LexiconKey, env.LexiconKey)
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeRemote, ModeEmbedded:
	default:
		return fmt.Errorf("invalid mode %q: must be %s or %s", c.Mode, ModeRemote, ModeEmbedded)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if d, err := time.ParseDuration(c.InitTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid init_timeout: %q", c.InitTimeout)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
