package chatsdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pushAll(d *Decoder, chunks ...string) []*StreamChunk {
	var out []*StreamChunk
	for _, c := range chunks {
		out = append(out, d.Push([]byte(c))...)
	}
	return out
}

func contents(chunks []*StreamChunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Content())
	}
	return out
}

func TestDecoderChunkBoundaryIndependence(t *testing.T) {
	const stream = "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n" +
		"data: [DONE]\n"

	want := []string{"Hel", "lo", " world"}

	// Every possible single split point must yield the identical sequence.
	for i := 0; i <= len(stream); i++ {
		d := NewDecoder(nil)
		got := pushAll(d, stream[:i], stream[i:])
		assert.Equal(t, want, contents(got), "split at byte %d", i)
		assert.Equal(t, StateDone, d.State(), "split at byte %d", i)
	}

	// Byte-at-a-time delivery.
	d := NewDecoder(nil)
	var got []*StreamChunk
	for i := 0; i < len(stream); i++ {
		got = append(got, d.Push([]byte{stream[i]})...)
	}
	assert.Equal(t, want, contents(got))
	assert.Equal(t, StateDone, d.State())
}

func TestDecoderDoneSentinelEndsSequence(t *testing.T) {
	d := NewDecoder(nil)

	got := pushAll(d,
		"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n",
		"data: [DONE]\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"after\"}}]}\n",
	)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Content())
	assert.Equal(t, StateDone, d.State())
	assert.True(t, d.Done())
}

func TestDecoderSkipsMalformedFrame(t *testing.T) {
	d := NewDecoder(nil)

	got := pushAll(d,
		"data: {not json}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n",
	)

	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Content())
	assert.Equal(t, StateAwaitingData, d.State())
}

func TestDecoderIgnoresInsignificantLines(t *testing.T) {
	d := NewDecoder(nil)

	got := pushAll(d,
		"\n",
		": heartbeat\n",
		"event: ping\n",
		"   \n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"x\"}}]}\n",
	)

	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Content())
}

func TestDecoderFinishDiscardsPartialLine(t *testing.T) {
	d := NewDecoder(nil)

	got := d.Push([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\ndata: {\"choi"))
	require.Len(t, got, 1)

	d.Finish()
	assert.Equal(t, StateDone, d.State())
	assert.Empty(t, d.Push([]byte("ces\":[]}\n")))
}

func TestDecoderAbort(t *testing.T) {
	d := NewDecoder(nil)
	d.Push([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n"))

	d.Abort()
	assert.Equal(t, StateAborted, d.State())
	assert.True(t, d.Done())
	assert.Empty(t, d.Push([]byte("data: {\"choices\":[]}\n")))

	// Finish after abort must not overwrite the aborted state.
	d.Finish()
	assert.Equal(t, StateAborted, d.State())
}

func TestDecoderFinalChunkMetadata(t *testing.T) {
	d := NewDecoder(nil)

	got := pushAll(d,
		"data: {\"choices\":[{\"delta\":{\"content\":\"hi\"},\"finish_reason\":\"stop\"}],\"usage\":{\"prompt_tokens\":3,\"completion_tokens\":5,\"total_tokens\":8}}\n",
		"data: [DONE]\n",
	)

	require.Len(t, got, 1)
	assert.Equal(t, "stop", got[0].FinishReason())
	require.NotNil(t, got[0].Usage)
	assert.Equal(t, 8, got[0].Usage.TotalTokens)
}
