package orclient

import (
	"log/slog"
	"time"
)

// Config holds configuration for the OpenRouter client.
type Config struct {
	APIKey   string        // OpenRouter API key
	BaseURL  string        // Base URL for the OpenRouter API
	Logger   *slog.Logger  // Logger for debugging
	Timeout  time.Duration // HTTP timeout for non-streaming requests
	SiteURL  string        // Sent as HTTP-Referer for ranking
	SiteName string        // Sent as X-Title for ranking
}
