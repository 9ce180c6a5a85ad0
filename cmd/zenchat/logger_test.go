package main

import (
	"log/slog"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"bogus", slog.LevelWarn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), "level %q", tt.in)
	}
}

func TestCreateLoggerFormatSelection(t *testing.T) {
	_, isJSON := createLogger("info", "json", false).Handler().(*slog.JSONHandler)
	assert.True(t, isJSON)

	_, isJSON = createLogger("info", "text", true).Handler().(*slog.JSONHandler)
	assert.False(t, isJSON)

	_, isJSON = createLogger("info", "", false).Handler().(*slog.JSONHandler)
	assert.False(t, isJSON)
}

func TestApplyThemeLight(t *testing.T) {
	origUser, origAssistant, origMuted, origError := userStyle, assistantStyle, mutedStyle, errorStyle
	t.Cleanup(func() {
		userStyle, assistantStyle, mutedStyle, errorStyle = origUser, origAssistant, origMuted, origError
	})

	applyTheme("light")
	assert.Equal(t, lipgloss.Color("#005faf"), userStyle.GetForeground())
	assert.Equal(t, lipgloss.Color("#6c6c6c"), mutedStyle.GetForeground())

	// Unknown themes leave the palette alone.
	before := assistantStyle.GetForeground()
	applyTheme("solarized")
	assert.Equal(t, before, assistantStyle.GetForeground())
}
