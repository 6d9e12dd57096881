// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

import (
	"os"
	"strconv"
	"time"
)

const (
	// defaultBaseURL is used when TWELVE_DATA_BASE_URL is not set.
	defaultBaseURL = "https://api.twelvedata.com"
	// defaultTimeout is used when TWELVE_DATA_TIMEOUT_SECONDS is not set.
	defaultTimeout = 10 * time.Second
)

// Config holds configuration for the Twelve Data API client.
type Config struct {
	TwelveDataAPIKey string        // API key for authentication
	BaseURL          string        // Base URL for the API
	Timeout          time.Duration // HTTP request timeout
}

// LoadConfig loads Twelve Data configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		TwelveDataAPIKey: os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:          os.Getenv("TWELVE_DATA_BASE_URL"),
		Timeout:          defaultTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if v := os.Getenv("TWELVE_DATA_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}
