package orclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zbx9000/zenchat/src/chatsdk"
)

func sseHandler(t *testing.T, lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		var req chatsdk.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			io.WriteString(w, line+"\n")
			flusher.Flush()
		}
	}
}

func TestCreateChatCompletionStream(t *testing.T) {
	server := httptest.NewServer(sseHandler(t,
		`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
		`data: {"choices":[{"delta":{"content":"lo"}}]}`,
		`: keep-alive`,
		`data: {"choices":[{"delta":{"content":" world"},"finish_reason":"stop"}],"usage":{"total_tokens":5}}`,
		`data: [DONE]`,
	))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	stream, err := client.CreateChatCompletionStream(context.Background(), testRequest("hi"))
	require.NoError(t, err)

	content, err := chatsdk.CollectStreamContent(stream)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", content)
}

func TestCreateChatCompletionStreamMalformedFrame(t *testing.T) {
	server := httptest.NewServer(sseHandler(t,
		`data: {not json}`,
		`data: {"choices":[{"delta":{"content":"still here"}}]}`,
		`data: [DONE]`,
	))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	stream, err := client.CreateChatCompletionStream(context.Background(), testRequest("hi"))
	require.NoError(t, err)

	content, err := chatsdk.CollectStreamContent(stream)
	require.NoError(t, err)
	assert.Equal(t, "still here", content)
}

func TestCreateChatCompletionStreamErrorBeforeDeltas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL})
	_, err := client.CreateChatCompletionStream(context.Background(), testRequest("hi"))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid api key", apiErr.Message)
}

// countingBody wraps a reader and counts Close calls.
type countingBody struct {
	io.Reader
	closes atomic.Int32
}

func (b *countingBody) Close() error {
	b.closes.Add(1)
	return nil
}

func TestBodyStreamClosesExactlyOnce(t *testing.T) {
	t.Run("sentinel then reads past end", func(t *testing.T) {
		body := &countingBody{Reader: strings.NewReader(
			"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\ndata: [DONE]\n")}
		stream := newBodyStream(body, nil)

		_, err := stream.Read()
		require.NoError(t, err)
		_, err = stream.Read()
		assert.ErrorIs(t, err, io.EOF)
		_, err = stream.Read()
		assert.ErrorIs(t, err, io.EOF)
		require.NoError(t, stream.Close())

		assert.Equal(t, int32(1), body.closes.Load())
	})

	t.Run("exhaustion without sentinel", func(t *testing.T) {
		body := &countingBody{Reader: strings.NewReader(
			"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\ndata: {\"trunc")}
		stream := newBodyStream(body, nil)

		chunk, err := stream.Read()
		require.NoError(t, err)
		assert.Equal(t, "a", chunk.Content())

		_, err = stream.Read()
		assert.ErrorIs(t, err, io.EOF)
		stream.Close()
		stream.Close()

		assert.Equal(t, int32(1), body.closes.Load())
	})

	t.Run("consumer abort after first delta", func(t *testing.T) {
		body := &countingBody{Reader: strings.NewReader(
			"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
				"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n")}
		stream := newBodyStream(body, nil)

		chunk, err := stream.Read()
		require.NoError(t, err)
		assert.Equal(t, "Hel", chunk.Content())

		require.NoError(t, stream.Close())
		assert.Equal(t, int32(1), body.closes.Load())

		// A closed stream refuses further reads even though a delta was
		// still queued.
		_, err = stream.Read()
		assert.ErrorIs(t, err, ErrStreamClosed)
	})

	t.Run("read failure mid-stream", func(t *testing.T) {
		body := &countingBody{Reader: io.MultiReader(
			strings.NewReader("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n"),
			&failingReader{},
		)}
		stream := newBodyStream(body, nil)

		_, err := stream.Read()
		require.NoError(t, err)

		_, err = stream.Read()
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, int32(1), body.closes.Load())
	})
}

type failingReader struct{}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}
