// Package alphavantage provides a client for the Alpha Vantage stock market API.
package alphavantage

import (
	"os"
	"time"
)

// DefaultBaseURL is the public Alpha Vantage endpoint.
const DefaultBaseURL = "https://www.alphavantage.co"

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey  string        `yaml:"api_key"`  // API key for authentication
	BaseURL string        `yaml:"base_url"` // Base URL for the API (e.g., "https://www.alphavantage.co")
	Timeout time.Duration `yaml:"timeout"`  // HTTP request timeout
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL: os.Getenv("ALPHA_VANTAGE_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg
}
