package config

import (
	"fmt"

	"github.com/JaimeStill/empath/pkg/envvar"
	"github.com/JaimeStill/empath/pkg/formatting"
	"github.com/JaimeStill/empath/pkg/middleware"
	"github.com/JaimeStill/empath/pkg/openapi"
	"github.com/JaimeStill/empath/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "EMPATH_CORS_ENABLED",
	Origins:          "EMPATH_CORS_ORIGINS",
	AllowedMethods:   "EMPATH_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "EMPATH_CORS_ALLOWED_HEADERS",
	AllowCredentials: "EMPATH_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "EMPATH_CORS_MAX_AGE",
}

var paginationEnv = &pagination.Env{
	DefaultPageSize: "EMPATH_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "EMPATH_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.Env{
	Title:       "EMPATH_OPENAPI_TITLE",
	Description: "EMPATH_OPENAPI_DESCRIPTION",
}

// DefaultMaxRequestSize bounds request bodies when max_request_size is unset
// or unparseable.
const DefaultMaxRequestSize = 1024 * 1024

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxRequestSize string                `toml:"max_request_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxRequestSizeBytes returns MaxRequestSize in bytes.
func (c *APIConfig) MaxRequestSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxRequestSize)
	if err != nil || size <= 0 {
		return DefaultMaxRequestSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxRequestSize != "" {
		c.MaxRequestSize = overlay.MaxRequestSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxRequestSize == "" {
		c.MaxRequestSize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	envvar.String(&c.BasePath, "EMPATH_API_BASE_PATH")
	envvar.String(&c.MaxRequestSize, "EMPATH_API_MAX_REQUEST_SIZE")
}
