package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Loader handles loading and merging configuration from its sources:
// built-in defaults, then the user config file, then environment variables.
type Loader struct {
	path      string
	validator *Validator
}

// NewLoader creates a loader reading the given config file path. An empty
// path uses the default user config location.
func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &Loader{
		path:      path,
		validator: NewValidator(),
	}
}

// Load loads configuration from all sources and merges them. A missing
// config file is not an error; defaults and environment apply.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if cfg, err := l.loadFile(l.path); err == nil {
		config = l.mergeConfigs(config, cfg)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config from %s: %w", l.path, err)
	}

	l.applyEnvironmentOverrides(config)

	if err := l.validator.Validate(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func (l *Loader) loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return &config, nil
}

// mergeConfigs merges two configurations with the second taking precedence.
func (l *Loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.API.APIKey != "" {
		result.API.APIKey = override.API.APIKey
	}
	if override.API.BaseURL != "" {
		result.API.BaseURL = override.API.BaseURL
	}
	if override.API.SiteURL != "" {
		result.API.SiteURL = override.API.SiteURL
	}
	if override.API.SiteName != "" {
		result.API.SiteName = override.API.SiteName
	}
	if override.API.Timeout != 0 {
		result.API.Timeout = override.API.Timeout
	}

	if override.Chat.Model != "" {
		result.Chat.Model = override.Chat.Model
	}
	if override.Chat.SystemPrompt != "" {
		result.Chat.SystemPrompt = override.Chat.SystemPrompt
	}
	if override.Chat.Temperature != 0 {
		result.Chat.Temperature = override.Chat.Temperature
	}
	if override.Chat.MaxTokens != 0 {
		result.Chat.MaxTokens = override.Chat.MaxTokens
	}

	if override.UI.Theme != "" {
		result.UI.Theme = override.UI.Theme
	}
	result.UI.NoAnsi = result.UI.NoAnsi || override.UI.NoAnsi

	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		result.Log.Format = override.Log.Format
	}

	return &result
}

// applyEnvironmentOverrides applies environment variable overrides.
func (l *Loader) applyEnvironmentOverrides(config *Config) {
	if apiKey := os.Getenv("ZENCHAT_API_KEY"); apiKey != "" {
		config.API.APIKey = apiKey
	}
	// OPENROUTER_API_KEY works too, for compatibility with other tooling.
	if config.API.APIKey == "" {
		if apiKey := os.Getenv("OPENROUTER_API_KEY"); apiKey != "" {
			config.API.APIKey = apiKey
		}
	}

	if baseURL := os.Getenv("ZENCHAT_BASE_URL"); baseURL != "" {
		config.API.BaseURL = baseURL
	}
	if model := os.Getenv("ZENCHAT_MODEL"); model != "" {
		config.Chat.Model = model
	}
	if level := os.Getenv("ZENCHAT_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	if timeout := os.Getenv("ZENCHAT_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			config.API.Timeout = time.Duration(secs) * time.Second
		}
	}
}
