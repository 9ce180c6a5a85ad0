package chatsdk

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStream replays a fixed sequence of chunks, then an optional error.
type fakeStream struct {
	chunks []*StreamChunk
	err    error
	pos    int
	closed int
}

func (f *fakeStream) Read() (*StreamChunk, error) {
	if f.pos >= len(f.chunks) {
		if f.err != nil {
			return nil, f.err
		}
		return nil, io.EOF
	}
	c := f.chunks[f.pos]
	f.pos++
	return c, nil
}

func (f *fakeStream) Close() error {
	f.closed++
	return nil
}

func textChunk(content string) *StreamChunk {
	return &StreamChunk{Choices: []Choice{{Delta: &Message{Content: content}}}}
}

func TestCollectStreamContent(t *testing.T) {
	stream := &fakeStream{chunks: []*StreamChunk{
		textChunk("Hel"), textChunk("lo"), textChunk(" world"),
	}}

	content, err := CollectStreamContent(stream)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", content)
	assert.Equal(t, 1, stream.closed)
}

func TestStreamToCallbackPropagatesError(t *testing.T) {
	readErr := errors.New("connection reset")
	stream := &fakeStream{chunks: []*StreamChunk{textChunk("partial")}, err: readErr}

	var seen []string
	err := StreamToCallback(stream, func(c *StreamChunk) error {
		seen = append(seen, c.Content())
		return nil
	})

	assert.ErrorIs(t, err, readErr)
	assert.Equal(t, []string{"partial"}, seen)
	assert.Equal(t, 1, stream.closed)
}

func TestStreamToChannel(t *testing.T) {
	stream := &fakeStream{chunks: []*StreamChunk{textChunk("a"), textChunk("b")}}

	var got []string
	for result := range StreamToChannel(stream) {
		require.NoError(t, result.Error)
		got = append(got, result.Chunk.Content())
	}

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, stream.closed)
}

func TestStreamAggregator(t *testing.T) {
	final := textChunk("!")
	final.Choices[0].FinishReason = "stop"
	final.Usage = &Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 3}
	final.Model = "meta-llama/llama-3.2-3b-instruct:free"

	agg := NewStreamAggregator()
	agg.AddChunk(textChunk("hi"))
	agg.AddChunk(final)

	resp := agg.ToResponse()
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "hi!", resp.Choices[0].Message.Content)
	assert.Equal(t, RoleAssistant, resp.Choices[0].Message.Role)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, "meta-llama/llama-3.2-3b-instruct:free", resp.Model)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 3, resp.Usage.TotalTokens)
}

func TestNewChatCompletionRequestDefaults(t *testing.T) {
	req := NewChatCompletionRequest("m", nil, nil)
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 2048, req.MaxTokens)
	assert.Equal(t, 1.0, req.TopP)
	assert.Equal(t, 0.0, req.FrequencyPenalty)
	assert.Equal(t, 0.0, req.PresencePenalty)

	temp := 0.2
	maxTokens := 64
	req = NewChatCompletionRequest("m", nil, &CompletionOptions{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	assert.Equal(t, 0.2, req.Temperature)
	assert.Equal(t, 64, req.MaxTokens)
	assert.Equal(t, 1.0, req.TopP)
}
