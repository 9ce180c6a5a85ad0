package store

import (
	"strings"
	"time"

	"github.com/zbx9000/zenchat/src/chatsdk"
	"github.com/zbx9000/zenchat/src/orclient"
)

// Message is one turn in a conversation. Content grows monotonically while
// IsStreaming is set; Metadata is written once, after completion.
type Message struct {
	ID          string           `json:"id"`
	Role        string           `json:"role"`
	Content     string           `json:"content"`
	Timestamp   time.Time        `json:"timestamp"`
	IsStreaming bool             `json:"isStreaming,omitempty"`
	Metadata    *MessageMetadata `json:"metadata,omitempty"`
}

// MessageMetadata carries completion statistics for an assistant message.
type MessageMetadata struct {
	Model          string `json:"model,omitempty"`
	TokensUsed     int    `json:"tokensUsed,omitempty"`
	ProcessingTime int64  `json:"processingTime,omitempty"` // milliseconds
	FinishReason   string `json:"finishReason,omitempty"`
}

// Settings holds a conversation's sampling settings. Values are forwarded to
// the provider as-is; range enforcement is the provider's concern.
type Settings struct {
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"maxTokens"`
	TopP             float64 `json:"topP"`
	FrequencyPenalty float64 `json:"frequencyPenalty"`
	PresencePenalty  float64 `json:"presencePenalty"`
}

// DefaultSettings returns the settings a new conversation starts with.
func DefaultSettings() Settings {
	return Settings{
		Temperature:      chatsdk.DefaultTemperature,
		MaxTokens:        chatsdk.DefaultMaxTokens,
		TopP:             chatsdk.DefaultTopP,
		FrequencyPenalty: chatsdk.DefaultFrequencyPenalty,
		PresencePenalty:  chatsdk.DefaultPresencePenalty,
	}
}

// Options converts the settings into completion options.
func (s Settings) Options() *chatsdk.CompletionOptions {
	return &chatsdk.CompletionOptions{
		Temperature:      &s.Temperature,
		MaxTokens:        &s.MaxTokens,
		TopP:             &s.TopP,
		FrequencyPenalty: &s.FrequencyPenalty,
		PresencePenalty:  &s.PresencePenalty,
	}
}

// Conversation owns an ordered sequence of messages.
type Conversation struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Messages     []*Message `json:"messages"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	Model        string     `json:"model"`
	SystemPrompt string     `json:"systemPrompt,omitempty"`
	Settings     Settings   `json:"settings"`
}

// DefaultTitle is the placeholder title of a conversation created without one.
const DefaultTitle = "New Conversation"

// TitleFromContent derives a conversation title from the first user message:
// whitespace collapsed, truncated on a rune boundary.
func TitleFromContent(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	runes := []rune(title)
	if len(runes) > 50 {
		title = string(runes[:47]) + "..."
	}
	if title == "" {
		return DefaultTitle
	}
	return title
}

// Preferences is the global, single-instance record of display and behavior
// toggles. It has no relation to conversations and survives restarts.
type Preferences struct {
	Theme             string `json:"theme"`
	SoundEnabled      bool   `json:"soundEnabled"`
	AnimationsEnabled bool   `json:"animationsEnabled"`
	CompactMode       bool   `json:"compactMode"`
	FontSize          string `json:"fontSize"`
	Language          string `json:"language"`
	AutoSave          bool   `json:"autoSave"`
}

// DefaultPreferences returns the preferences used before any are persisted.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:             "dark",
		SoundEnabled:      true,
		AnimationsEnabled: true,
		CompactMode:       false,
		FontSize:          "medium",
		Language:          "en",
		AutoSave:          true,
	}
}

// PreferencesPatch carries partial preference updates; nil fields are left
// unchanged.
type PreferencesPatch struct {
	Theme             *string
	SoundEnabled      *bool
	AnimationsEnabled *bool
	CompactMode       *bool
	FontSize          *string
	Language          *string
	AutoSave          *bool
}

// ConversationPatch carries partial conversation updates; nil fields are
// left unchanged.
type ConversationPatch struct {
	Title        *string
	Model        *string
	SystemPrompt *string
	Settings     *Settings
}

// MessagePatch carries partial message updates; nil fields are left
// unchanged.
type MessagePatch struct {
	Content     *string
	IsStreaming *bool
	Metadata    *MessageMetadata
}

// NewMessage is the caller-supplied part of a message; identity and
// timestamp are generated by the store.
type NewMessage struct {
	Role     string
	Content  string
	Metadata *MessageMetadata
}

func defaultModel() string {
	return orclient.DefaultModel
}

func (c *Conversation) clone() *Conversation {
	out := *c
	out.Messages = make([]*Message, len(c.Messages))
	for i, m := range c.Messages {
		msg := *m
		if m.Metadata != nil {
			meta := *m.Metadata
			msg.Metadata = &meta
		}
		out.Messages[i] = &msg
	}
	return &out
}

func (c *Conversation) message(id string) *Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}
