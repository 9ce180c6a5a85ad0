package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alecthomas/kong"
)

// UsageCmd shows account usage as reported by the provider
type UsageCmd struct{}

// Run executes the usage command
func (c *UsageCmd) Run(ctx *kong.Context, cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	raw, err := a.Client.GetUsage(context.Background())
	if err != nil {
		return fmt.Errorf("failed to fetch usage: %w", err)
	}

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
