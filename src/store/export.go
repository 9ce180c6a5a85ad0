package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Artifact is an exported conversation: a pretty-printed JSON document and
// the filename it should be saved under.
type Artifact struct {
	Filename string
	Data     []byte
}

// ExportConversation serializes one conversation, messages included, into a
// portable JSON artifact. The filename is derived from the title with
// whitespace replaced and the current date appended. Returns false if the id
// is absent.
func (s *Store) ExportConversation(id string) (*Artifact, bool) {
	conv, ok := s.Conversation(id)
	if !ok {
		return nil, false
	}

	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		s.logger.Warn("failed to serialize conversation for export", "id", id, "error", err)
		return nil, false
	}

	name := strings.Join(strings.Fields(conv.Title), "_")
	if name == "" {
		name = "conversation"
	}
	filename := fmt.Sprintf("%s_%s.json", name, time.Now().Format("2006-01-02"))

	return &Artifact{Filename: filename, Data: data}, true
}

// ImportConversations prepends the given conversations to the existing list.
// Plain import preserves ids verbatim and performs no de-duplication, so
// duplicate ids are possible and are not reconciled. With regenerateIDs set,
// the imported copies get fresh conversation and message ids.
func (s *Store) ImportConversations(conversations []*Conversation, regenerateIDs bool) {
	if len(conversations) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	imported := make([]*Conversation, len(conversations))
	for i, conv := range conversations {
		c := conv.clone()
		if regenerateIDs {
			c.ID = uuid.New().String()
			for _, m := range c.Messages {
				m.ID = uuid.New().String()
			}
		}
		imported[i] = c
	}

	s.conversations = append(imported, s.conversations...)
	s.persistLocked()
}

// ParseConversations decodes an exported artifact: either a single
// conversation object or an array of them.
func ParseConversations(data []byte) ([]*Conversation, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []*Conversation
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse conversations: %w", err)
		}
		return list, nil
	}

	var one Conversation
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("failed to parse conversation: %w", err)
	}
	return []*Conversation{&one}, nil
}
