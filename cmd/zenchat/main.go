package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// CLI represents the main CLI structure
type CLI struct {
	APIKey   string `env:"OPENROUTER_API_KEY" help:"OpenRouter API key"`
	BaseURL  string `help:"Custom API base URL"`
	Config   string `help:"Config file path" type:"path"`
	LogLevel string `default:"warn" help:"Log level"`
	NoColor  bool   `help:"Disable colored output"`

	Chat          ChatCmd          `cmd:"" default:"withargs" help:"Send a message and stream the reply"`
	Models        ModelsCmd        `cmd:"" help:"Model catalog"`
	Usage         UsageCmd         `cmd:"" help:"Show account usage"`
	Conversations ConversationsCmd `cmd:"" help:"Manage stored conversations"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("zenchat"),
		kong.Description("Streaming chat client for OpenRouter"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}
