package archive

import "time"

type Conversation struct {
	ID           string    `json:"id" db:"id"`
	Title        string    `json:"title" db:"title"`
	Model        string    `json:"model" db:"model"`
	SystemPrompt string    `json:"system_prompt" db:"system_prompt"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Message struct {
	ID             string    `json:"id" db:"id"`
	ConversationID string    `json:"conversation_id" db:"conversation_id"`
	Role           string    `json:"role" db:"role"`
	Content        string    `json:"content" db:"content"`
	Model          string    `json:"model" db:"model"`
	TokensUsed     int64     `json:"tokens_used" db:"tokens_used"`
	FinishReason   string    `json:"finish_reason" db:"finish_reason"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// SearchHit is one message matching a search query, joined with the title of
// the conversation it belongs to.
type SearchHit struct {
	ConversationID    string    `json:"conversation_id" db:"conversation_id"`
	ConversationTitle string    `json:"conversation_title" db:"conversation_title"`
	MessageID         string    `json:"message_id" db:"message_id"`
	Role              string    `json:"role" db:"role"`
	Content           string    `json:"content" db:"content"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
