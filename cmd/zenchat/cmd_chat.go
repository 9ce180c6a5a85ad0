package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/zbx9000/zenchat/src/store"
)

// ChatCmd sends one message on a conversation and streams the reply to the
// terminal. Interrupting with ctrl-c keeps whatever arrived.
type ChatCmd struct {
	Message      []string `arg:"" optional:"" help:"Message to send"`
	Conversation string   `short:"c" help:"Conversation id to continue"`
	New          bool     `help:"Start a new conversation"`
	Title        string   `help:"Title for a new conversation"`
	Model        string   `short:"m" help:"Model to use for this conversation"`
	System       string   `help:"System prompt preset name or custom prompt text"`
}

// Run executes the chat command
func (c *ChatCmd) Run(ctx *kong.Context, cli *CLI) error {
	message := strings.TrimSpace(strings.Join(c.Message, " "))
	if message == "" {
		return fmt.Errorf("no message provided")
	}

	a, err := initApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	convID := c.Conversation
	if convID == "" && !c.New {
		convID = a.Store.CurrentConversationID()
	}
	if convID == "" {
		convID = a.NewConversation(c.Title, resolveSystemPrompt(c.System), c.Model)
	} else {
		a.Store.SetCurrentConversation(convID)
		if c.Model != "" {
			a.Store.UpdateConversation(convID, store.ConversationPatch{Model: &c.Model})
		}
	}

	fmt.Printf("%s %s\n", userStyle.Render("you:"), message)
	fmt.Printf("%s ", assistantStyle.Render("assistant:"))

	a.Orchestrator.OnDelta = func(fragment string) {
		fmt.Print(fragment)
	}

	result, err := a.Orchestrator.SendMessage(sigCtx, convID, message)
	fmt.Println()
	if err != nil {
		return err
	}

	if sigCtx.Err() != nil {
		fmt.Println(mutedStyle.Render("(interrupted)"))
	} else if result.Usage != nil {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("%d tokens, finish: %s", result.Usage.TotalTokens, result.FinishReason)))
	}

	if err := a.SyncArchive(context.Background()); err != nil {
		a.Logger.Warn("failed to sync archive", "error", err)
	}
	return nil
}
