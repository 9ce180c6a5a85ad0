package store

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersisterRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewFilePersister(fs, "/state/store.json")

	s := New(p, nil)
	id := s.CreateConversation("persisted", "")
	s.AddMessage(id, NewMessage{Role: "user", Content: "hello"})
	theme := "light"
	s.UpdatePreferences(PreferencesPatch{Theme: &theme})

	reloaded := New(p, nil)
	assert.Equal(t, id, reloaded.CurrentConversationID())
	conv, ok := reloaded.Conversation(id)
	require.True(t, ok)
	assert.Equal(t, "persisted", conv.Title)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "hello", conv.Messages[0].Content)
	assert.Equal(t, "light", reloaded.Preferences().Theme)
}

func TestFilePersisterMissingFile(t *testing.T) {
	p := NewFilePersister(afero.NewMemMapFs(), "/nowhere/store.json")
	snapshot, err := p.Load()
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestFilePersisterToleratesUnknownFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	raw := `{
		"conversations": [],
		"currentConversationId": "abc",
		"preferences": {"theme": "light", "futureToggle": true},
		"schemaVersion": 9
	}`
	require.NoError(t, afero.WriteFile(fs, "/state/store.json", []byte(raw), 0o644))

	p := NewFilePersister(fs, "/state/store.json")
	snapshot, err := p.Load()
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "abc", snapshot.CurrentConversationID)
	require.NotNil(t, snapshot.Preferences)
	assert.Equal(t, "light", snapshot.Preferences.Theme)
}

func TestFilePersisterCorruptFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/state/store.json", []byte("{not json"), 0o644))

	p := NewFilePersister(fs, "/state/store.json")
	_, err := p.Load()
	assert.Error(t, err)

	// A store hydrated from a corrupt snapshot starts empty instead of
	// failing, and the next mutation overwrites the bad file.
	s := New(p, nil)
	assert.Empty(t, s.Conversations())
	s.CreateConversation("fresh", "")

	snapshot, err := p.Load()
	require.NoError(t, err)
	require.Len(t, snapshot.Conversations, 1)
	assert.Equal(t, "fresh", snapshot.Conversations[0].Title)
}
