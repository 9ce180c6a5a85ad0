package chatsdk

import (
	"encoding/json"
	"log/slog"
	"strings"
)

// DecoderState tracks where the decoder is in the stream's lifecycle.
type DecoderState int

const (
	// StateAwaitingData means the decoder is still consuming chunks.
	StateAwaitingData DecoderState = iota
	// StateDone means the [DONE] sentinel was seen or the source was
	// exhausted; no further input is consumed.
	StateDone
	// StateAborted means the consumer terminated the stream early.
	StateAborted
)

const dataPrefix = "data: "

// doneSentinel is the literal end-of-stream marker in the wire protocol.
const doneSentinel = "[DONE]"

// Decoder reconstructs newline-delimited event frames from a chunked byte
// stream and parses each frame's payload into a StreamChunk. The network may
// split content arbitrarily across chunk boundaries, including mid-line; the
// decoder carries the trailing partial line over to the next push, so the
// sequence of parsed chunks is independent of how the bytes were split.
//
// A malformed payload is dropped with a debug diagnostic and decoding
// continues: one bad frame must not abort an otherwise healthy stream.
type Decoder struct {
	buf    string
	state  DecoderState
	logger *slog.Logger
}

// NewDecoder creates a decoder in the awaiting-data state.
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger.With("component", "stream_decoder")}
}

// State returns the decoder's current state.
func (d *Decoder) State() DecoderState {
	return d.state
}

// Done reports whether the decoder has finished, cleanly or by abort.
func (d *Decoder) Done() bool {
	return d.state != StateAwaitingData
}

// Push feeds one chunk of bytes into the decoder and returns the chunks
// parsed from the complete lines it contained. Input pushed after the
// decoder has finished is discarded.
func (d *Decoder) Push(p []byte) []*StreamChunk {
	if d.state != StateAwaitingData {
		return nil
	}
	d.buf += string(p)

	var out []*StreamChunk
	for {
		idx := strings.IndexByte(d.buf, '\n')
		if idx < 0 {
			return out
		}
		line := d.buf[:idx]
		d.buf = d.buf[idx+1:]

		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, dataPrefix) {
			// Heartbeats, comments, and other fields are ignored.
			continue
		}

		payload := strings.TrimSpace(line[len(dataPrefix):])
		if payload == doneSentinel {
			d.state = StateDone
			d.buf = ""
			return out
		}

		var chunk StreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			d.logger.Debug("dropping malformed stream frame", "error", err, "payload", payload)
			continue
		}
		out = append(out, &chunk)
	}
}

// Finish marks the chunk source as exhausted. An unterminated partial line
// still in the buffer is discarded; exhaustion without a sentinel is a clean
// end, not an error.
func (d *Decoder) Finish() {
	if d.state == StateAwaitingData {
		d.state = StateDone
		d.buf = ""
	}
}

// Abort marks the stream as terminated by the consumer.
func (d *Decoder) Abort() {
	if d.state == StateAwaitingData {
		d.state = StateAborted
		d.buf = ""
	}
}
