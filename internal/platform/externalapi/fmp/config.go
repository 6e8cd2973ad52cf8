// Package fmp provides a client for the Financial Modeling Prep company profile API.
package fmp

import (
	"time"

	"portfolio_backend/internal/platform/config"
)

// Config holds configuration for the FMP API client.
type Config struct {
	APIKey    string        // API key for authentication
	BaseURL   string        // Base URL for the API (e.g., "https://financialmodelingprep.com")
	Timeout   time.Duration // HTTP request timeout
	RateLimit int           // Requests allowed per minute
}

// FromAppConfig maps the application's FMP section.
func FromAppConfig(c config.FMPConfig) Config {
	return Config{
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		Timeout:   c.Timeout,
		RateLimit: c.RateLimit,
	}
}

// Enabled reports whether lookups can be made.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
