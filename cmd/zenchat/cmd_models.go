package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/zbx9000/zenchat/src/orclient"
)

// ModelsCmd shows the model catalog
type ModelsCmd struct {
	Remote bool   `help:"Query the live models endpoint instead of the curated list"`
	Format string `help:"Output format (table, json)" default:"table"`
}

// Run executes the models command
func (c *ModelsCmd) Run(ctx *kong.Context, cli *CLI) error {
	if c.Remote {
		return c.runRemote(cli)
	}

	switch c.Format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(orclient.DefaultModels)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "ID\tName\tProvider\tMax Tokens\tFree")
		fmt.Fprintln(w, "---\t----\t--------\t----------\t----")
		for _, model := range orclient.DefaultModels {
			free := ""
			if model.IsFree {
				free = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				model.ID, model.Name, model.Provider, model.MaxTokens, free)
		}
		return nil
	default:
		return fmt.Errorf("invalid format: %s", c.Format)
	}
}

func (c *ModelsCmd) runRemote(cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	raw, err := a.Client.ListModels(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
