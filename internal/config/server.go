package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/JaimeStill/empath/pkg/envvar"
)

const (
	EnvServerHost              = "EMPATH_SERVER_HOST"
	EnvServerPort              = "EMPATH_SERVER_PORT"
	EnvServerReadTimeout       = "EMPATH_SERVER_READ_TIMEOUT"
	EnvServerReadHeaderTimeout = "EMPATH_SERVER_READ_HEADER_TIMEOUT"
	EnvServerWriteTimeout      = "EMPATH_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout       = "EMPATH_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout   = "EMPATH_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters. Timeouts are Go duration
// strings. WriteTimeout bounds a whole chat turn, so it should exceed the
// classifier timeout.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadTimeout       string `toml:"read_timeout"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts returns the parsed listener timeouts. Finalize guarantees they parse.
func (c *ServerConfig) Timeouts() ServerTimeouts {
	return ServerTimeouts{
		Read:       duration(c.ReadTimeout),
		ReadHeader: duration(c.ReadHeaderTimeout),
		Write:      duration(c.WriteTimeout),
		Idle:       duration(c.IdleTimeout),
		Shutdown:   duration(c.ShutdownTimeout),
	}
}

// ServerTimeouts are the parsed durations of a ServerConfig.
type ServerTimeouts struct {
	Read       time.Duration
	ReadHeader time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for dst, src := range c.durations(overlay) {
		if *src != "" {
			*dst = *src
		}
	}
}

// durations pairs each duration field of c with the same field of other.
func (c *ServerConfig) durations(other *ServerConfig) map[*string]*string {
	return map[*string]*string{
		&c.ReadTimeout:       &other.ReadTimeout,
		&c.ReadHeaderTimeout: &other.ReadHeaderTimeout,
		&c.WriteTimeout:      &other.WriteTimeout,
		&c.IdleTimeout:       &other.IdleTimeout,
		&c.ShutdownTimeout:   &other.ShutdownTimeout,
	}
}

func (c *ServerConfig) loadDefaults() {
	defaults := ServerConfig{
		Host:              "0.0.0.0",
		Port:              8080,
		ReadTimeout:       "30s",
		ReadHeaderTimeout: "10s",
		WriteTimeout:      "1m",
		IdleTimeout:       "2m",
		ShutdownTimeout:   "30s",
	}
	defaults.Merge(c)
	*c = defaults
}

func (c *ServerConfig) loadEnv() {
	envvar.String(&c.Host, EnvServerHost)
	envvar.Int(&c.Port, EnvServerPort)
	envvar.String(&c.ReadTimeout, EnvServerReadTimeout)
	envvar.String(&c.ReadHeaderTimeout, EnvServerReadHeaderTimeout)
	envvar.String(&c.WriteTimeout, EnvServerWriteTimeout)
	envvar.String(&c.IdleTimeout, EnvServerIdleTimeout)
	envvar.String(&c.ShutdownTimeout, EnvServerShutdownTimeout)
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"read_timeout", c.ReadTimeout},
		{"read_header_timeout", c.ReadHeaderTimeout},
		{"write_timeout", c.WriteTimeout},
		{"idle_timeout", c.IdleTimeout},
		{"shutdown_timeout", c.ShutdownTimeout},
	}
	for _, f := range fields {
		d, err := time.ParseDuration(f.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", f.name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", f.name)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
