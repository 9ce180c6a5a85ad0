// Package chat sequences a chat turn end to end: it records the user
// message, opens a streaming completion, folds deltas into the store as they
// arrive, and finalizes the assistant message with completion metadata.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/zbx9000/zenchat/src/chatsdk"
	"github.com/zbx9000/zenchat/src/store"
)

// CompletionClient is the transport surface the orchestrator needs.
// *orclient.Client satisfies it.
type CompletionClient interface {
	CreateChatCompletionStream(ctx context.Context, req *chatsdk.ChatCompletionRequest) (chatsdk.StreamInterface, error)
}

// Orchestrator drives completions against a conversation store.
type Orchestrator struct {
	client CompletionClient
	store  *store.Store
	logger *slog.Logger

	// OnDelta, when set, is called with each content fragment after it has
	// been folded into the store. It runs on the streaming goroutine.
	OnDelta func(fragment string)
}

func New(client CompletionClient, st *store.Store, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		client: client,
		store:  st,
		logger: logger.With("component", "orchestrator"),
	}
}

// Result summarizes a finished (or truncated) turn.
type Result struct {
	MessageID    string
	FinishReason string
	Usage        *chatsdk.Usage
}

// ErrConversationNotFound is returned when SendMessage targets an id the
// store does not hold.
var ErrConversationNotFound = errors.New("conversation not found")

// SendMessage runs one full turn on the given conversation: the user content
// is appended, a streaming assistant message is opened, deltas are folded in
// as they arrive, and the message is finalized with metadata.
//
// Canceling ctx mid-stream is not an error: the assistant message keeps
// whatever content arrived and is finalized normally. Transport or protocol
// failures set the store's error field and leave the partial content in
// place, with the streaming flag cleared.
func (o *Orchestrator) SendMessage(ctx context.Context, conversationID, content string) (*Result, error) {
	start := time.Now()

	conv, ok := o.store.Conversation(conversationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}

	o.store.ClearError()
	o.store.SetLoading(true)
	defer o.store.SetLoading(false)

	o.store.AddMessage(conversationID, store.NewMessage{Role: chatsdk.RoleUser, Content: content})
	if conv.Title == store.DefaultTitle {
		title := store.TitleFromContent(content)
		o.store.UpdateConversation(conversationID, store.ConversationPatch{Title: &title})
	}

	assistantID := o.store.BeginStreamingMessage(conversationID)

	req, err := o.buildRequest(conversationID, assistantID)
	if err != nil {
		o.finalize(conversationID, assistantID, nil)
		o.store.SetError(err.Error())
		return nil, err
	}

	stream, err := o.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		o.logger.Error("failed to open completion stream", "conversation_id", conversationID, "error", err)
		o.finalize(conversationID, assistantID, nil)
		o.store.SetError(err.Error())
		return nil, err
	}
	defer stream.Close()

	var (
		finishReason string
		usage        *chatsdk.Usage
		model        = req.Model
	)

	for {
		chunk, err := stream.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				// Caller aborted; the partial message stands.
				o.logger.Debug("stream aborted", "conversation_id", conversationID)
				break
			}
			o.logger.Error("stream failed", "conversation_id", conversationID, "error", err)
			o.finalize(conversationID, assistantID, nil)
			o.store.SetError(err.Error())
			return nil, err
		}

		if fragment := chunk.Content(); fragment != "" {
			o.store.AppendMessageContent(conversationID, assistantID, fragment)
			if o.OnDelta != nil {
				o.OnDelta(fragment)
			}
		}
		if fr := chunk.FinishReason(); fr != "" {
			finishReason = fr
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
		if chunk.Model != "" {
			model = chunk.Model
		}
	}

	meta := &store.MessageMetadata{
		Model:          model,
		ProcessingTime: time.Since(start).Milliseconds(),
		FinishReason:   finishReason,
	}
	if usage != nil {
		meta.TokensUsed = usage.TotalTokens
	}
	o.finalize(conversationID, assistantID, meta)

	return &Result{MessageID: assistantID, FinishReason: finishReason, Usage: usage}, nil
}

// buildRequest assembles the completion request from the conversation's
// history, skipping the still-streaming placeholder.
func (o *Orchestrator) buildRequest(conversationID, assistantID string) (*chatsdk.ChatCompletionRequest, error) {
	conv, ok := o.store.Conversation(conversationID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}

	prompt := conv.SystemPrompt
	if prompt == "" {
		prompt = SystemPrompt("default")
	}

	messages := make([]*chatsdk.Message, 0, len(conv.Messages)+1)
	messages = append(messages, &chatsdk.Message{Role: chatsdk.RoleSystem, Content: prompt})
	for _, m := range conv.Messages {
		if m.ID == assistantID || m.IsStreaming {
			continue
		}
		messages = append(messages, &chatsdk.Message{Role: m.Role, Content: m.Content})
	}

	return chatsdk.NewChatCompletionRequest(conv.Model, messages, conv.Settings.Options()), nil
}

// finalize clears the streaming flag exactly once and attaches metadata when
// the turn produced any.
func (o *Orchestrator) finalize(conversationID, assistantID string, meta *store.MessageMetadata) {
	streaming := false
	o.store.UpdateMessage(conversationID, assistantID, store.MessagePatch{
		IsStreaming: &streaming,
		Metadata:    meta,
	})
}
