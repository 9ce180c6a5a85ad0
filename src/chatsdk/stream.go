package chatsdk

import (
	"errors"
	"io"
	"strings"
)

// StreamCallback is a function called for each chunk in a stream.
type StreamCallback func(chunk *StreamChunk) error

// StreamToCallback reads a stream and calls the callback for each chunk.
// The stream is closed on every exit path.
func StreamToCallback(stream StreamInterface, callback StreamCallback) error {
	defer stream.Close()

	for {
		chunk, err := stream.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if chunk == nil {
			return nil
		}
		if err := callback(chunk); err != nil {
			return err
		}
	}
}

// CollectStreamContent reads a stream and collects all content into a single string.
func CollectStreamContent(stream StreamInterface) (string, error) {
	var content strings.Builder

	err := StreamToCallback(stream, func(chunk *StreamChunk) error {
		content.WriteString(chunk.Content())
		return nil
	})

	return content.String(), err
}

// StreamResult represents a result from a streaming operation.
type StreamResult struct {
	Chunk *StreamChunk
	Error error
}

// StreamToChannel converts a StreamInterface to a Go channel.
func StreamToChannel(stream StreamInterface) <-chan StreamResult {
	ch := make(chan StreamResult, 1)

	go func() {
		defer close(ch)
		defer stream.Close()

		for {
			chunk, err := stream.Read()
			if err != nil {
				if !errors.Is(err, io.EOF) {
					ch <- StreamResult{Error: err}
				}
				return
			}
			if chunk == nil {
				return
			}
			ch <- StreamResult{Chunk: chunk}
		}
	}()

	return ch
}

// StreamAggregator accumulates streaming chunks into a final response.
type StreamAggregator struct {
	ID      string
	Created int64
	Model   string
	Content strings.Builder

	FinishReason string
	Usage        *Usage
}

// NewStreamAggregator creates a new stream aggregator.
func NewStreamAggregator() *StreamAggregator {
	return &StreamAggregator{}
}

// AddChunk folds one chunk into the aggregated state.
func (a *StreamAggregator) AddChunk(chunk *StreamChunk) {
	if a.ID == "" {
		a.ID = chunk.ID
	}
	if a.Created == 0 {
		a.Created = chunk.Created
	}
	if a.Model == "" {
		a.Model = chunk.Model
	}

	a.Content.WriteString(chunk.Content())

	if reason := chunk.FinishReason(); reason != "" {
		a.FinishReason = reason
	}
	if chunk.Usage != nil {
		a.Usage = chunk.Usage
	}
}

// ToResponse converts the aggregated stream into a ChatCompletionResponse.
func (a *StreamAggregator) ToResponse() *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:      a.ID,
		Object:  "chat.completion",
		Created: a.Created,
		Model:   a.Model,
		Choices: []Choice{
			{
				Index: 0,
				Message: &Message{
					Role:    RoleAssistant,
					Content: a.Content.String(),
				},
				FinishReason: a.FinishReason,
			},
		},
		Usage: a.Usage,
	}
}

// AggregateStream reads a stream to completion and returns the aggregated response.
func AggregateStream(stream StreamInterface) (*ChatCompletionResponse, error) {
	aggregator := NewStreamAggregator()

	err := StreamToCallback(stream, func(chunk *StreamChunk) error {
		aggregator.AddChunk(chunk)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return aggregator.ToResponse(), nil
}
