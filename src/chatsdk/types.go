// Package chatsdk provides the wire types and streaming primitives for
// chat completion providers that speak the OpenAI-style completions protocol.
package chatsdk

import "encoding/json"

// Message roles accepted by the completions endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Default sampling options applied when a request leaves them unset.
const (
	DefaultTemperature      = 0.7
	DefaultMaxTokens        = 2048
	DefaultTopP             = 1.0
	DefaultFrequencyPenalty = 0.0
	DefaultPresencePenalty  = 0.0
)

// CompletionOptions holds the recognized sampling options. Nil fields take
// the provider defaults when the request is built.
type CompletionOptions struct {
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	FrequencyPenalty *float64
	PresencePenalty  *float64
}

// ChatCompletionRequest represents a request to the chat completions endpoint.
type ChatCompletionRequest struct {
	Model            string     `json:"model"`
	Messages         []*Message `json:"messages"`
	Temperature      float64    `json:"temperature"`
	MaxTokens        int        `json:"max_tokens"`
	TopP             float64    `json:"top_p"`
	FrequencyPenalty float64    `json:"frequency_penalty"`
	PresencePenalty  float64    `json:"presence_penalty"`
	Stream           bool       `json:"stream"`
}

// NewChatCompletionRequest builds a request for the given model and messages,
// filling any unset options with the defaults.
func NewChatCompletionRequest(model string, messages []*Message, opts *CompletionOptions) *ChatCompletionRequest {
	req := &ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      DefaultTemperature,
		MaxTokens:        DefaultMaxTokens,
		TopP:             DefaultTopP,
		FrequencyPenalty: DefaultFrequencyPenalty,
		PresencePenalty:  DefaultPresencePenalty,
	}
	if opts == nil {
		return req
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.MaxTokens != nil {
		req.MaxTokens = *opts.MaxTokens
	}
	if opts.TopP != nil {
		req.TopP = *opts.TopP
	}
	if opts.FrequencyPenalty != nil {
		req.FrequencyPenalty = *opts.FrequencyPenalty
	}
	if opts.PresencePenalty != nil {
		req.PresencePenalty = *opts.PresencePenalty
	}
	return req
}

// ChatCompletionResponse represents a non-streaming response from the chat
// completions endpoint.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message,omitempty"`
	Delta        *Message `json:"delta,omitempty"` // streaming only
	FinishReason string   `json:"finish_reason,omitempty"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk represents a single delta in a streaming response.
type StreamChunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}

// Content returns the content fragment of the first choice's delta.
func (c *StreamChunk) Content() string {
	if len(c.Choices) > 0 && c.Choices[0].Delta != nil {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// FinishReason returns the finish reason of the first choice, if any.
func (c *StreamChunk) FinishReason() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].FinishReason
	}
	return ""
}

// Error represents an API error payload.
type Error struct {
	Message string          `json:"message"`
	Type    string          `json:"type,omitempty"`
	Code    json.RawMessage `json:"code,omitempty"`
}

// ErrorResponse wraps an error from the API.
type ErrorResponse struct {
	Error Error `json:"error"`
}

// StreamInterface defines the interface for reading streaming responses.
// Read returns io.EOF when the stream is complete. Close releases the
// underlying resource and is safe to call more than once.
type StreamInterface interface {
	Read() (*StreamChunk, error)
	Close() error
}
