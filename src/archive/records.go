package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// Execer is an interface for executing SQL statements
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SyncConversation upserts a conversation row and replaces its message rows.
// Messages are replaced wholesale rather than diffed: the caller hands over
// the full current list and the archive mirrors it.
func (d *DB) SyncConversation(ctx context.Context, conv *Conversation, messages []*Message) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `INSERT INTO conversations (id, title, model, system_prompt, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, model = excluded.model,
			system_prompt = excluded.system_prompt, updated_at = excluded.updated_at`
	if _, err := tx.ExecContext(ctx, upsert, conv.ID, conv.Title, conv.Model, conv.SystemPrompt, conv.CreatedAt, conv.UpdatedAt); err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	insert := `INSERT INTO messages (id, conversation_id, role, content, model, tokens_used, finish_reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	for _, m := range messages {
		if _, err := tx.ExecContext(ctx, insert, m.ID, conv.ID, m.Role, m.Content, m.Model, m.TokensUsed, m.FinishReason, m.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}

	return tx.Commit()
}

// GetConversationByID retrieves a conversation by its ID. Returns nil when
// the id is absent.
func GetConversationByID(ctx context.Context, db sqlscan.Querier, conversationID string) (*Conversation, error) {
	query := `SELECT id, title, model, system_prompt, created_at, updated_at FROM conversations WHERE id = ?`
	var conv Conversation
	err := sqlscan.Get(ctx, db, &conv, query, conversationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

// ListConversations retrieves all conversations, most recently updated first.
func ListConversations(ctx context.Context, db sqlscan.Querier) ([]Conversation, error) {
	query := `SELECT id, title, model, system_prompt, created_at, updated_at FROM conversations ORDER BY updated_at DESC`
	var conversations []Conversation
	if err := sqlscan.Select(ctx, db, &conversations, query); err != nil {
		return nil, err
	}
	return conversations, nil
}

// GetMessagesByConversationID retrieves all messages for a conversation
// ordered by creation time.
func GetMessagesByConversationID(ctx context.Context, db sqlscan.Querier, conversationID string) ([]Message, error) {
	query := `SELECT id, conversation_id, role, content, model, tokens_used, finish_reason, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at`
	var messages []Message
	if err := sqlscan.Select(ctx, db, &messages, query, conversationID); err != nil {
		return nil, err
	}
	return messages, nil
}

// SearchMessages finds messages whose content contains the query string,
// case-insensitively, newest first.
func SearchMessages(ctx context.Context, db sqlscan.Querier, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	stmt := `SELECT m.conversation_id, c.title AS conversation_title, m.id AS message_id,
			m.role, m.content, m.created_at
		FROM messages m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE m.content LIKE '%' || ? || '%'
		ORDER BY m.created_at DESC
		LIMIT ?`
	var hits []SearchHit
	if err := sqlscan.Select(ctx, db, &hits, stmt, query, limit); err != nil {
		return nil, err
	}
	return hits, nil
}

// DeleteConversation removes a conversation and its messages.
func DeleteConversation(ctx context.Context, db Execer, conversationID string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Clear removes every conversation and message from the archive.
func Clear(ctx context.Context, db Execer) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM conversations`); err != nil {
		return fmt.Errorf("failed to clear conversations: %w", err)
	}
	return nil
}
