// Package store owns the conversation state: the ordered set of
// conversations, the current-conversation reference, the preferences
// singleton, and the transient loading and error fields. Every mutation is
// observed as an indivisible state transition, and after every mutation a
// projection of the state is written to the configured persister.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zbx9000/zenchat/src/chatsdk"
)

// Store is the single source of truth for conversations and messages.
// Construct it with New, share by reference, and Flush on shutdown.
type Store struct {
	mu            sync.Mutex
	conversations []*Conversation
	currentID     string // "" means no current conversation
	loading       bool
	lastErr       string
	prefs         Preferences

	persister Persister
	logger    *slog.Logger
}

// New creates a store backed by the given persister and hydrates it from the
// persisted projection when one exists. A nil persister keeps the store
// memory-only.
func New(persister Persister, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if persister == nil {
		persister = NullPersister{}
	}

	s := &Store{
		persister: persister,
		logger:    logger.With("component", "conversation_store"),
		prefs:     DefaultPreferences(),
	}

	snapshot, err := persister.Load()
	if err != nil {
		// The in-memory store stays authoritative; a broken snapshot is
		// logged and replaced on the next mutation.
		s.logger.Warn("failed to load persisted state", "error", err)
		return s
	}
	if snapshot != nil {
		s.conversations = snapshot.Conversations
		s.currentID = snapshot.CurrentConversationID
		if snapshot.Preferences != nil {
			s.prefs = *snapshot.Preferences
		}
	}
	return s
}

// CreateConversation inserts a new conversation at the front of the list,
// makes it current, and returns its id. An empty title gets the placeholder.
func (s *Store) CreateConversation(title, systemPrompt string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if title == "" {
		title = DefaultTitle
	}
	now := time.Now()
	conv := &Conversation{
		ID:           uuid.New().String(),
		Title:        title,
		Messages:     []*Message{},
		CreatedAt:    now,
		UpdatedAt:    now,
		Model:        defaultModel(),
		SystemPrompt: systemPrompt,
		Settings:     DefaultSettings(),
	}

	s.conversations = append([]*Conversation{conv}, s.conversations...)
	s.currentID = conv.ID
	s.persistLocked()
	return conv.ID
}

// DeleteConversation removes the conversation. If it was current, current
// becomes unset; it never falls back to another conversation.
func (s *Store) DeleteConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.conversations[:0]
	removed := false
	for _, conv := range s.conversations {
		if conv.ID == id {
			removed = true
			continue
		}
		kept = append(kept, conv)
	}
	if !removed {
		return
	}
	s.conversations = kept
	if s.currentID == id {
		s.currentID = ""
	}
	s.persistLocked()
}

// UpdateConversation merges the patch into the conversation and bumps its
// updatedAt. No-op if the id is absent.
func (s *Store) UpdateConversation(id string, patch ConversationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return
	}
	if patch.Title != nil {
		conv.Title = *patch.Title
	}
	if patch.Model != nil {
		conv.Model = *patch.Model
	}
	if patch.SystemPrompt != nil {
		conv.SystemPrompt = *patch.SystemPrompt
	}
	if patch.Settings != nil {
		conv.Settings = *patch.Settings
	}
	s.bumpLocked(conv)
	s.persistLocked()
}

// SetCurrentConversation sets the current conversation id unconditionally,
// even to an id not present in the store. Validating existence is the
// caller's responsibility; the weak-reference invariant is maintained on the
// delete path instead.
func (s *Store) SetCurrentConversation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID = id
	s.persistLocked()
}

// CurrentConversationID returns the current conversation id, or "" when none
// is set.
func (s *Store) CurrentConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Conversation returns a copy of the conversation with the given id.
func (s *Store) Conversation(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(id)
	if conv == nil {
		return nil, false
	}
	return conv.clone(), true
}

// Conversations returns a copy of all conversations, most recently created
// first.
func (s *Store) Conversations() []*Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[i] = conv.clone()
	}
	return out
}

// AddMessage generates identity and timestamp for the message, appends it to
// the conversation, bumps updatedAt, and returns the new message id. Returns
// "" if the conversation is absent.
func (s *Store) AddMessage(conversationID string, msg NewMessage) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return ""
	}

	m := &Message{
		ID:        uuid.New().String(),
		Role:      msg.Role,
		Content:   msg.Content,
		Timestamp: time.Now(),
		Metadata:  msg.Metadata,
	}
	conv.Messages = append(conv.Messages, m)
	s.bumpLocked(conv)
	s.persistLocked()
	return m.ID
}

// BeginStreamingMessage appends an empty assistant placeholder message with
// the streaming flag set and returns its id.
func (s *Store) BeginStreamingMessage(conversationID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return ""
	}

	m := &Message{
		ID:          uuid.New().String(),
		Role:        chatsdk.RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
	conv.Messages = append(conv.Messages, m)
	s.bumpLocked(conv)
	s.persistLocked()
	return m.ID
}

// AppendMessageContent appends a content fragment to the message. This is
// the only mutation allowed on a streaming message's content, which keeps it
// append-only. No-op if either id is absent.
func (s *Store) AppendMessageContent(conversationID, messageID, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return
	}
	m := conv.message(messageID)
	if m == nil {
		return
	}
	m.Content += fragment
	s.bumpLocked(conv)
	s.persistLocked()
}

// UpdateMessage merges the patch into the message in place and bumps the
// conversation's updatedAt. No-op if either id is absent.
func (s *Store) UpdateMessage(conversationID, messageID string, patch MessagePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return
	}
	m := conv.message(messageID)
	if m == nil {
		return
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.IsStreaming != nil {
		m.IsStreaming = *patch.IsStreaming
	}
	if patch.Metadata != nil {
		m.Metadata = patch.Metadata
	}
	s.bumpLocked(conv)
	s.persistLocked()
}

// DeleteMessage removes the message and bumps the conversation's updatedAt.
func (s *Store) DeleteMessage(conversationID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.findLocked(conversationID)
	if conv == nil {
		return
	}
	kept := conv.Messages[:0]
	removed := false
	for _, m := range conv.Messages {
		if m.ID == messageID {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	if !removed {
		return
	}
	conv.Messages = kept
	s.bumpLocked(conv)
	s.persistLocked()
}

// ClearConversations empties the list and unsets the current id.
// Irreversible.
func (s *Store) ClearConversations() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = nil
	s.currentID = ""
	s.persistLocked()
}

// SetLoading sets the transient loading flag. Not persisted.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading returns the transient loading flag.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetError records the last error message. Not persisted.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

// ClearError clears the last error.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// Err returns the last recorded error message, or "" when none is set.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Preferences returns the current preferences.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// UpdatePreferences merges the patch into the preferences singleton.
func (s *Store) UpdatePreferences(patch PreferencesPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Theme != nil {
		s.prefs.Theme = *patch.Theme
	}
	if patch.SoundEnabled != nil {
		s.prefs.SoundEnabled = *patch.SoundEnabled
	}
	if patch.AnimationsEnabled != nil {
		s.prefs.AnimationsEnabled = *patch.AnimationsEnabled
	}
	if patch.CompactMode != nil {
		s.prefs.CompactMode = *patch.CompactMode
	}
	if patch.FontSize != nil {
		s.prefs.FontSize = *patch.FontSize
	}
	if patch.Language != nil {
		s.prefs.Language = *patch.Language
	}
	if patch.AutoSave != nil {
		s.prefs.AutoSave = *patch.AutoSave
	}
	s.persistLocked()
}

// Flush writes the current projection to the persister.
func (s *Store) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked()
}

func (s *Store) findLocked(id string) *Conversation {
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// bumpLocked advances the conversation's updatedAt, keeping it
// non-decreasing.
func (s *Store) bumpLocked(conv *Conversation) {
	now := time.Now()
	if now.After(conv.UpdatedAt) {
		conv.UpdatedAt = now
	}
}

// persistLocked writes the projection. Persistence failures are logged and
// swallowed; the in-memory state remains authoritative for the session.
func (s *Store) persistLocked() {
	prefs := s.prefs
	snapshot := &Snapshot{
		Conversations:         make([]*Conversation, len(s.conversations)),
		CurrentConversationID: s.currentID,
		Preferences:           &prefs,
	}
	for i, conv := range s.conversations {
		snapshot.Conversations[i] = conv.clone()
	}

	if err := s.persister.Save(snapshot); err != nil {
		s.logger.Warn("failed to persist state", "error", err)
	}
}
