package main

import (
	"github.com/zbx9000/zenchat/src/app"
	"github.com/zbx9000/zenchat/src/chat"
	"github.com/zbx9000/zenchat/src/config"
)

// initApp loads configuration, applies CLI flag overrides, and wires the
// application services.
func initApp(cli *CLI) (*app.App, error) {
	cfg, err := config.NewLoader(cli.Config).Load()
	if err != nil {
		return nil, err
	}

	if cli.APIKey != "" {
		cfg.API.APIKey = cli.APIKey
	}
	if cli.BaseURL != "" {
		cfg.API.BaseURL = cli.BaseURL
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}

	noColor := cli.NoColor || cfg.UI.NoAnsi
	applyTheme(cfg.UI.Theme)

	return app.New(app.Options{
		Config: cfg,
		Logger: createLogger(cfg.Log.Level, cfg.Log.Format, noColor),
	})
}

// resolveSystemPrompt maps a preset name to its prompt text; anything else
// is treated as a custom prompt, and empty stays empty.
func resolveSystemPrompt(value string) string {
	if value == "" {
		return ""
	}
	for _, name := range chat.SystemPromptNames() {
		if value == name {
			return chat.SystemPrompt(name)
		}
	}
	return value
}
