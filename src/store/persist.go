package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

// Snapshot is the projection of store state selected for durable
// persistence. Unknown fields in a persisted snapshot are ignored on load so
// the schema can evolve additively.
type Snapshot struct {
	Conversations         []*Conversation `json:"conversations"`
	CurrentConversationID string          `json:"currentConversationId,omitempty"`
	Preferences           *Preferences    `json:"preferences,omitempty"`
}

// Persister saves and loads the persisted projection.
type Persister interface {
	Save(snapshot *Snapshot) error
	// Load returns nil, nil when no snapshot has been persisted yet.
	Load() (*Snapshot, error)
}

// NullPersister discards saves and loads nothing.
type NullPersister struct{}

func (NullPersister) Save(*Snapshot) error     { return nil }
func (NullPersister) Load() (*Snapshot, error) { return nil, nil }

// FilePersister stores the snapshot as a single JSON document. Writes go to
// a temporary file first and are moved into place, so a crash mid-write
// leaves the previous snapshot intact.
type FilePersister struct {
	fs   afero.Fs
	path string
}

// DefaultStatePath returns the snapshot location under the XDG state
// directory.
func DefaultStatePath() string {
	return filepath.Join(xdg.StateHome, "zenchat", "store.json")
}

// NewFilePersister creates a persister writing to path on the given
// filesystem.
func NewFilePersister(fs afero.Fs, path string) *FilePersister {
	return &FilePersister{fs: fs, path: path}
}

// Save writes the snapshot.
func (p *FilePersister) Save(snapshot *Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := p.path + ".tmp"
	if err := afero.WriteFile(p.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := p.fs.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot, tolerating unknown fields.
func (p *FilePersister) Load() (*Snapshot, error) {
	data, err := afero.ReadFile(p.fs, p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snapshot, nil
}
