// Package config loads the service configuration from config.toml, an
// optional environment overlay, and EMPATH_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/chat"
	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/dispatch"
	"github.com/JaimeStill/empath/internal/entries"
	"github.com/JaimeStill/empath/internal/recommendations"
	"github.com/JaimeStill/empath/pkg/backend"
	"github.com/JaimeStill/empath/pkg/cache"
	"github.com/JaimeStill/empath/pkg/database"
	"github.com/JaimeStill/empath/pkg/envvar"
	"github.com/JaimeStill/empath/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvEmpathEnv             = "EMPATH_ENV"
	EnvEmpathShutdownTimeout = "EMPATH_SHUTDOWN_TIMEOUT"
	EnvEmpathVersion         = "EMPATH_VERSION"
	EnvEmpathLogLevel        = "EMPATH_LOG_LEVEL"
	EnvEmpathLogFormat       = "EMPATH_LOG_FORMAT"
)

var databaseEnv = &database.Env{
	Host:            "EMPATH_DB_HOST",
	Port:            "EMPATH_DB_PORT",
	Name:            "EMPATH_DB_NAME",
	User:            "EMPATH_DB_USER",
	Password:        "EMPATH_DB_PASSWORD",
	SSLMode:         "EMPATH_DB_SSL_MODE",
	MaxOpenConns:    "EMPATH_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "EMPATH_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "EMPATH_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "EMPATH_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "EMPATH_STORAGE_CONTAINER_NAME",
	ConnectionString: "EMPATH_STORAGE_CONNECTION_STRING",
	AccountURL:       "EMPATH_STORAGE_ACCOUNT_URL",
	MaxListSize:      "EMPATH_STORAGE_MAX_LIST_SIZE",
}

var cacheEnv = &cache.Env{
	Addr:        "EMPATH_CACHE_ADDR",
	Password:    "EMPATH_CACHE_PASSWORD",
	DB:          "EMPATH_CACHE_DB",
	ConnTimeout: "EMPATH_CACHE_CONN_TIMEOUT",
}

var authEnv = &auth.Env{
	Issuer:     "EMPATH_AUTH_ISSUER",
	ClientID:   "EMPATH_AUTH_CLIENT_ID",
	DevSubject: "EMPATH_AUTH_DEV_SUBJECT",
}

var backendEnv = &backend.Env{
	BaseURL:        "EMPATH_API_URL",
	RequestTimeout: "EMPATH_API_REQUEST_TIMEOUT",
}

var classifierEnv = &classifier.Env{
	Mode:        "EMPATH_CLASSIFIER_MODE",
	Timeout:     "EMPATH_CLASSIFIER_TIMEOUT",
	InitTimeout: "EMPATH_CLASSIFIER_INIT_TIMEOUT",
	Workers:     "EMPATH_CLASSIFIER_WORKERS",
	LexiconKey:  "EMPATH_CLASSIFIER_LEXICON_KEY",
}

var dispatchEnv = &dispatch.Env{
	TaskTimeout: "EMPATH_DISPATCH_TASK_TIMEOUT",
}

var chatEnv = &chat.Env{
	MaxConversations: "EMPATH_CHAT_MAX_CONVERSATIONS",
}

var entriesEnv = &entries.Env{
	Store: "EMPATH_ENTRIES_STORE",
}

var recommendationsEnv = &recommendations.Env{
	CacheEnabled: "EMPATH_RECOMMENDATIONS_CACHE_ENABLED",
	CacheTTL:     "EMPATH_RECOMMENDATIONS_CACHE_TTL",
	RandomCount:  "EMPATH_RECOMMENDATIONS_RANDOM_COUNT",
}

// Config is the root configuration for the empath service.
type Config struct {
	Server          ServerConfig           `toml:"server"`
	Database        database.Config        `toml:"database"`
	Storage         storage.Config         `toml:"storage"`
	Cache           cache.Config           `toml:"cache"`
	API             APIConfig              `toml:"api"`
	Auth            auth.Config            `toml:"auth"`
	Backend         backend.Config         `toml:"backend"`
	Classifier      classifier.Config      `toml:"classifier"`
	Dispatch        dispatch.Config        `toml:"dispatch"`
	Chat            chat.Config            `toml:"chat"`
	Entries         entries.Config         `toml:"entries"`
	Recommendations recommendations.Config `toml:"recommendations"`
	ShutdownTimeout string                 `toml:"shutdown_timeout"`
	Version         string                 `toml:"version"`
	LogLevel        string                 `toml:"log_level"`
	LogFormat       string                 `toml:"log_format"`
}

// Env returns the EMPATH_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env, ok := envvar.Lookup(EnvEmpathEnv); ok {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.LogFormat != "" {
		c.LogFormat = overlay.LogFormat
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.API.Merge(&overlay.API)
	c.Auth.Merge(&overlay.Auth)
	c.Backend.Merge(&overlay.Backend)
	c.Classifier.Merge(&overlay.Classifier)
	c.Dispatch.Merge(&overlay.Dispatch)
	c.Chat.Merge(&overlay.Chat)
	c.Entries.Merge(&overlay.Entries)
	c.Recommendations.Merge(&overlay.Recommendations)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"cache", func() error { return c.Cache.Finalize(cacheEnv) }},
		{"api", c.API.Finalize},
		{"auth", func() error { return c.Auth.Finalize(authEnv) }},
		{"backend", func() error { return c.Backend.Finalize(backendEnv) }},
		{"classifier", func() error { return c.Classifier.Finalize(classifierEnv) }},
		{"dispatch", func() error { return c.Dispatch.Finalize(dispatchEnv) }},
		{"chat", func() error { return c.Chat.Finalize(chatEnv) }},
		{"entries", func() error { return c.Entries.Finalize(entriesEnv) }},
		{"recommendations", func() error { return c.Recommendations.Finalize(recommendationsEnv) }},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

func (c *Config) loadEnv() {
	envvar.String(&c.ShutdownTimeout, EnvEmpathShutdownTimeout)
	envvar.String(&c.Version, EnvEmpathVersion)
	envvar.String(&c.LogLevel, EnvEmpathLogLevel)
	envvar.String(&c.LogFormat, EnvEmpathLogFormat)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env, ok := envvar.Lookup(EnvEmpathEnv); ok {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
