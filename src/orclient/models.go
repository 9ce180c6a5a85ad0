package orclient

import (
	"context"
	"encoding/json"
)

// ModelInfo describes one entry of the built-in model catalog.
type ModelInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Provider     string   `json:"provider"`
	Description  string   `json:"description"`
	MaxTokens    int      `json:"maxTokens"`
	IsFree       bool     `json:"isFree"`
	Capabilities []string `json:"capabilities"`
}

// DefaultModel is the model used when a conversation does not select one.
const DefaultModel = "meta-llama/llama-3.2-3b-instruct:free"

// DefaultModels is the built-in catalog of free models offered when the
// remote models endpoint is unavailable or the caller wants a curated list.
var DefaultModels = []ModelInfo{
	{
		ID:           "meta-llama/llama-3.2-3b-instruct:free",
		Name:         "Llama 3.2 3B Instruct",
		Provider:     "Meta",
		Description:  "Fast and efficient instruction-following model",
		MaxTokens:    131072,
		IsFree:       true,
		Capabilities: []string{"chat", "instruct"},
	},
	{
		ID:           "meta-llama/llama-3.2-1b-instruct:free",
		Name:         "Llama 3.2 1B Instruct",
		Provider:     "Meta",
		Description:  "Lightweight instruction-following model",
		MaxTokens:    131072,
		IsFree:       true,
		Capabilities: []string{"chat", "instruct"},
	},
	{
		ID:           "microsoft/phi-3-mini-128k-instruct:free",
		Name:         "Phi-3 Mini 128K",
		Provider:     "Microsoft",
		Description:  "Compact yet powerful instruction model",
		MaxTokens:    128000,
		IsFree:       true,
		Capabilities: []string{"chat", "instruct"},
	},
	{
		ID:           "huggingface/zephyr-7b-beta:free",
		Name:         "Zephyr 7B Beta",
		Provider:     "Hugging Face",
		Description:  "Fine-tuned for helpful conversations",
		MaxTokens:    32768,
		IsFree:       true,
		Capabilities: []string{"chat", "assistant"},
	},
}

// ListModels returns the remote model catalog as opaque JSON.
func (c *Client) ListModels(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/models")
}
