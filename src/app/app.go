// Package app wires the application services together: configuration,
// transport client, conversation store, archive, and orchestrator.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/zbx9000/zenchat/src/archive"
	"github.com/zbx9000/zenchat/src/chat"
	"github.com/zbx9000/zenchat/src/config"
	"github.com/zbx9000/zenchat/src/orclient"
	"github.com/zbx9000/zenchat/src/store"
)

// App holds all initialized services.
type App struct {
	Client       *orclient.Client
	Store        *store.Store
	Archive      *archive.DB
	Orchestrator *chat.Orchestrator
	Config       *config.Config
	Logger       *slog.Logger
}

// Options controls service initialization.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// StatePath overrides where the conversation snapshot is written.
	StatePath string
	// ArchivePath overrides where the sqlite archive lives. Set to "-" to
	// disable the archive entirely.
	ArchivePath string
}

// New creates an App with all services initialized.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if cfg.API.APIKey == "" {
		return nil, orclient.ErrNoAPIKey
	}

	client := orclient.NewClient(orclient.Config{
		APIKey:   cfg.API.APIKey,
		BaseURL:  cfg.API.BaseURL,
		SiteURL:  cfg.API.SiteURL,
		SiteName: cfg.API.SiteName,
		Timeout:  cfg.API.Timeout,
		Logger:   logger,
	})

	statePath := opts.StatePath
	if statePath == "" {
		statePath = store.DefaultStatePath()
	}
	persister := store.NewFilePersister(afero.NewOsFs(), statePath)
	st := store.New(persister, logger)

	var arc *archive.DB
	if opts.ArchivePath != "-" {
		archivePath := opts.ArchivePath
		if archivePath == "" {
			archivePath = config.DefaultArchivePath()
		}
		if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
		var err error
		arc, err = archive.Open(archivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
	}

	return &App{
		Client:       client,
		Store:        st,
		Archive:      arc,
		Orchestrator: chat.New(client, st, logger),
		Config:       cfg,
		Logger:       logger,
	}, nil
}

// NewConversation creates a conversation seeded with the configured chat
// defaults. Non-empty arguments win over configuration.
func (a *App) NewConversation(title, systemPrompt, model string) string {
	if systemPrompt == "" {
		systemPrompt = a.Config.Chat.SystemPrompt
	}
	id := a.Store.CreateConversation(title, systemPrompt)

	if model == "" {
		model = a.Config.Chat.Model
	}
	patch := store.ConversationPatch{}
	if model != "" {
		patch.Model = &model
	}
	settings := store.DefaultSettings()
	if a.Config.Chat.Temperature != 0 {
		settings.Temperature = a.Config.Chat.Temperature
	}
	if a.Config.Chat.MaxTokens != 0 {
		settings.MaxTokens = a.Config.Chat.MaxTokens
	}
	patch.Settings = &settings
	a.Store.UpdateConversation(id, patch)
	return id
}

// SyncArchive mirrors the store's conversations into the sqlite archive.
// A nil archive makes this a no-op.
func (a *App) SyncArchive(ctx context.Context) error {
	if a.Archive == nil {
		return nil
	}
	for _, conv := range a.Store.Conversations() {
		rec := &archive.Conversation{
			ID:           conv.ID,
			Title:        conv.Title,
			Model:        conv.Model,
			SystemPrompt: conv.SystemPrompt,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
		}
		messages := make([]*archive.Message, 0, len(conv.Messages))
		for _, m := range conv.Messages {
			rec := &archive.Message{
				ID:        m.ID,
				Role:      m.Role,
				Content:   m.Content,
				CreatedAt: m.Timestamp,
			}
			if m.Metadata != nil {
				rec.Model = m.Metadata.Model
				rec.TokensUsed = int64(m.Metadata.TokensUsed)
				rec.FinishReason = m.Metadata.FinishReason
			}
			messages = append(messages, rec)
		}
		if err := a.Archive.SyncConversation(ctx, rec, messages); err != nil {
			return fmt.Errorf("failed to archive conversation %s: %w", conv.ID, err)
		}
	}
	return nil
}

// Close flushes the store and releases all resources.
func (a *App) Close() error {
	a.Store.Flush()
	if a.Archive != nil {
		return a.Archive.Close()
	}
	return nil
}
