package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/zbx9000/zenchat/src/archive"
	"github.com/zbx9000/zenchat/src/store"
)

// ConversationsCmd manages stored conversations
type ConversationsCmd struct {
	List   ConversationsListCmd   `cmd:"" default:"1" help:"List conversations"`
	Delete ConversationsDeleteCmd `cmd:"" help:"Delete a conversation"`
	Clear  ConversationsClearCmd  `cmd:"" help:"Delete all conversations"`
	Export ConversationsExportCmd `cmd:"" help:"Export a conversation to JSON"`
	Import ConversationsImportCmd `cmd:"" help:"Import conversations from a JSON file"`
	Search ConversationsSearchCmd `cmd:"" help:"Search message history"`
}

// ConversationsListCmd lists stored conversations
type ConversationsListCmd struct{}

// Run executes the conversations list command
func (c *ConversationsListCmd) Run(ctx *kong.Context, cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	conversations := a.Store.Conversations()
	if len(conversations) == 0 {
		fmt.Println(mutedStyle.Render("no conversations"))
		return nil
	}

	current := a.Store.CurrentConversationID()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tTitle\tModel\tMessages\tUpdated")
	fmt.Fprintln(w, "---\t-----\t-----\t--------\t-------")
	for _, conv := range conversations {
		marker := ""
		if conv.ID == current {
			marker = " *"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%d\t%s\n",
			conv.ID, marker, conv.Title, conv.Model, len(conv.Messages),
			conv.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// ConversationsDeleteCmd deletes one conversation
type ConversationsDeleteCmd struct {
	ID string `arg:"" help:"Conversation id"`
}

// Run executes the conversations delete command
func (c *ConversationsDeleteCmd) Run(ctx *kong.Context, cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, ok := a.Store.Conversation(c.ID); !ok {
		return fmt.Errorf("conversation %s not found", c.ID)
	}
	a.Store.DeleteConversation(c.ID)

	if a.Archive != nil {
		if err := archive.DeleteConversation(context.Background(), a.Archive.DB(), c.ID); err != nil {
			a.Logger.Warn("failed to delete conversation from archive", "id", c.ID, "error", err)
		}
	}

	fmt.Printf("deleted %s\n", c.ID)
	return nil
}

// ConversationsClearCmd deletes every conversation
type ConversationsClearCmd struct {
	Force bool `help:"Skip confirmation"`
}

// Run executes the conversations clear command
func (c *ConversationsClearCmd) Run(ctx *kong.Context, cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	count := len(a.Store.Conversations())
	if count == 0 {
		fmt.Println(mutedStyle.Render("no conversations"))
		return nil
	}

	if !c.Force {
		fmt.Printf("delete all %d conversations? [y/N] ", count)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("aborted")
			return nil
		}
	}

	a.Store.ClearConversations()
	if a.Archive != nil {
		if err := archive.Clear(context.Background(), a.Archive.DB()); err != nil {
			a.Logger.Warn("failed to clear archive", "error", err)
		}
	}

	fmt.Printf("deleted %d conversations\n", count)
	return nil
}

// ConversationsExportCmd exports one conversation to a JSON file
type ConversationsExportCmd struct {
	ID     string `arg:"" help:"Conversation id"`
	Output string `short:"o" help:"Output path (defaults to a name derived from the title)"`
}

// Run executes the conversations export command
func (c *ConversationsExportCmd) Run(ctx *kong.Context, cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	artifact, ok := a.Store.ExportConversation(c.ID)
	if !ok {
		return fmt.Errorf("conversation %s not found", c.ID)
	}

	path := c.Output
	if path == "" {
		path = artifact.Filename
	}
	if err := os.WriteFile(path, artifact.Data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	fmt.Printf("exported to %s\n", path)
	return nil
}

// ConversationsImportCmd imports conversations from an exported JSON file
type ConversationsImportCmd struct {
	File          string `arg:"" help:"Path to an exported conversation file" type:"existingfile"`
	RegenerateIDs bool   `help:"Assign fresh ids to imported conversations and messages"`
}

// Run executes the conversations import command
func (c *ConversationsImportCmd) Run(ctx *kong.Context, cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}

	conversations, err := store.ParseConversations(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(c.File), err)
	}

	a.Store.ImportConversations(conversations, c.RegenerateIDs)
	if err := a.SyncArchive(context.Background()); err != nil {
		a.Logger.Warn("failed to sync archive", "error", err)
	}

	fmt.Printf("imported %d conversations\n", len(conversations))
	return nil
}

// ConversationsSearchCmd searches archived message history
type ConversationsSearchCmd struct {
	Query string `arg:"" help:"Text to search for"`
	Limit int    `default:"20" help:"Maximum number of results"`
}

// Run executes the conversations search command
func (c *ConversationsSearchCmd) Run(ctx *kong.Context, cli *CLI) error {
	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Archive == nil {
		return fmt.Errorf("archive is disabled")
	}
	if err := a.SyncArchive(context.Background()); err != nil {
		return fmt.Errorf("failed to sync archive: %w", err)
	}

	hits, err := archive.SearchMessages(context.Background(), a.Archive.DB(), c.Query, c.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(hits) == 0 {
		fmt.Println(mutedStyle.Render("no matches"))
		return nil
	}

	for _, hit := range hits {
		fmt.Printf("%s %s\n", titleStyle.Render(hit.ConversationTitle), mutedStyle.Render(hit.ConversationID))
		fmt.Printf("  [%s] %s\n", hit.Role, truncate(hit.Content, 120))
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
