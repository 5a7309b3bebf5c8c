package auth

import (
	"fmt"
	"net/url"

	"github.com/JaimeStill/empath/pkg/envvar"
)

// Config holds bearer-token verification settings. An empty Issuer disables
// verification: requests run as DevSubject and any bearer token is forwarded
// to the backend unchecked.
type Config struct {
	Issuer     string `toml:"issuer"`
	ClientID   string `toml:"client_id"`
	DevSubject string `toml:"dev_subject"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Issuer     string
	ClientID   string
	DevSubject string
}

// Enabled reports whether tokens are verified against an OIDC issuer.
func (c *Config) Enabled() bool {
	return c.Issuer != ""
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
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.DevSubject != "" {
		c.DevSubject = overlay.DevSubject
	}
}

func (c *Config) loadDefaults() {
	if c.DevSubject == "" {
		c.DevSubject = "local"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Issuer, env.Issuer)
	envvar.String(&c.ClientID, env.ClientID)
	envvar.String(&c.DevSubject, env.DevSubject)
}

func (c *Config) validate() error {
	if !c.Enabled() {
		return nil
	}
	u, err := url.Parse(c.Issuer)
	if err != nil || u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("invalid issuer: %q", c.Issuer)
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when issuer is set")
	}
	return nil
}
