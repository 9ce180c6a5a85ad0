package orclient

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/zbx9000/zenchat/src/chatsdk"
)

// bodyStream adapts an HTTP response body into a pull-based delta stream by
// feeding its bytes through the chatsdk decoder.
type bodyStream struct {
	body   io.ReadCloser
	dec    *chatsdk.Decoder
	queue  []*chatsdk.StreamChunk
	buf    []byte
	closed bool

	// The body is released exactly once, on every exit path: sentinel,
	// exhaustion, read failure, or consumer close.
	closeOnce sync.Once
	closeErr  error
}

func newBodyStream(body io.ReadCloser, logger *slog.Logger) *bodyStream {
	return &bodyStream{
		body: body,
		dec:  chatsdk.NewDecoder(logger),
		buf:  make([]byte, 4096),
	}
}

// Read returns the next parsed delta, io.EOF when the stream has ended, or
// ErrStreamClosed after a consumer Close.
func (s *bodyStream) Read() (*chatsdk.StreamChunk, error) {
	if s.closed {
		return nil, ErrStreamClosed
	}
	for {
		if len(s.queue) > 0 {
			chunk := s.queue[0]
			s.queue = s.queue[1:]
			return chunk, nil
		}

		// Once the sentinel has been seen no further input is read.
		if s.dec.Done() {
			s.release()
			return nil, io.EOF
		}

		n, err := s.body.Read(s.buf)
		if n > 0 {
			s.queue = append(s.queue, s.dec.Push(s.buf[:n])...)
		}
		if err != nil {
			if err == io.EOF {
				s.dec.Finish()
				continue
			}
			s.release()
			return nil, &TransportError{Op: "stream read", Err: err}
		}
	}
}

// Close terminates the stream. Closing mid-stream is an abort: the deltas
// already returned stand, and the body is released.
func (s *bodyStream) Close() error {
	s.closed = true
	s.dec.Abort()
	s.release()
	return s.closeErr
}

func (s *bodyStream) release() {
	s.closeOnce.Do(func() {
		if err := s.body.Close(); err != nil {
			s.closeErr = fmt.Errorf("failed to close stream body: %w", err)
		}
	})
}
