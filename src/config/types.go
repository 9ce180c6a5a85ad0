package config

import (
	"time"

	"github.com/zbx9000/zenchat/src/orclient"
)

// Config is the full application configuration.
type Config struct {
	API  APIConfig  `json:"api"`
	Chat ChatConfig `json:"chat"`
	UI   UIConfig   `json:"ui"`
	Log  LogConfig  `json:"log"`
}

// APIConfig holds provider connection settings.
type APIConfig struct {
	APIKey   string        `json:"api_key"`
	BaseURL  string        `json:"base_url" validate:"omitempty,url"`
	SiteURL  string        `json:"site_url" validate:"omitempty,url"`
	SiteName string        `json:"site_name"`
	Timeout  time.Duration `json:"timeout"`
}

// ChatConfig holds defaults applied to new conversations.
type ChatConfig struct {
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens    int     `json:"max_tokens" validate:"gte=0"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	Theme  string `json:"theme" validate:"omitempty,theme"`
	NoAnsi bool   `json:"no_ansi"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `json:"level" validate:"omitempty,log_level"`
	Format string `json:"format" validate:"omitempty,log_format"`
}

// DefaultConfig returns the configuration used before any file or
// environment override is applied.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: orclient.DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
		Chat: ChatConfig{
			Model:       orclient.DefaultModel,
			Temperature: 0.7,
			MaxTokens:   2048,
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
