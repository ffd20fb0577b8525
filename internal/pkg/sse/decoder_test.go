package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedSplitAcrossChunkBoundary(t *testing.T) {
	d := NewDecoder()

	frames := d.Feed([]byte(`data: {"choices":[{"delta":{"content":"he`))
	assert.Empty(t, frames)

	frames = d.Feed([]byte("llo\"}}]}\n"))
	require.Len(t, frames, 1)
	assert.False(t, frames[0].Done)
	assert.JSONEq(t, `{"choices":[{"delta":{"content":"hello"}}]}`, string(frames[0].Data))
}

func TestFeedMultipleLinesInOneChunk(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("data: {\"a\":1}\ndata: {\"b\":2}\ndata: [DONE]\n"))
	require.Len(t, frames, 3)
	assert.Equal(t, `{"a":1}`, frames[0].Raw)
	assert.Equal(t, `{"b":2}`, frames[1].Raw)
	assert.True(t, frames[2].Done)
}

func TestCommentAndBlankLinesProduceNoFrames(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte(": keep-alive\n\n\r\n"))
	assert.Empty(t, frames)
	// Buffer must be untouched: a following well-formed frame decodes alone.
	frames = d.Feed([]byte("data: {\"x\":true}\n"))
	require.Len(t, frames, 1)
	assert.Equal(t, `{"x":true}`, frames[0].Raw)
}

func TestCarriageReturnStripped(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("data: [DONE]\r\n"))
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Done)
}

func TestNonDataLinesIgnored(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("event: message\nid: 42\ndata: {\"ok\":1}\n"))
	require.Len(t, frames, 1)
	assert.Equal(t, `{"ok":1}`, frames[0].Raw)
}

func TestMalformedPayloadRebufferedThenRecovered(t *testing.T) {
	d := NewDecoder()

	// A newline landed inside the frame; the truncated payload must be
	// pushed back rather than dropped.
	frames := d.Feed([]byte("data: {\"choices\":[{\"delta\"\n"))
	assert.Empty(t, frames)

	// The decoder cannot repair a payload that was split by a newline; the
	// retried parse fails again and the line stays buffered until Flush.
	frames = d.Flush()
	assert.Empty(t, frames)
}

func TestFlushDropsUnparseablePayload(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte("data: {\"incomplete\":"))
	frames := d.Flush()
	assert.Empty(t, frames)
}

func TestFlushHandlesTrailingCompleteLine(t *testing.T) {
	d := NewDecoder()
	d.Feed([]byte(`data: {"tail":true}`))
	frames := d.Flush()
	require.Len(t, frames, 1)
	assert.Equal(t, `{"tail":true}`, frames[0].Raw)
}

func TestMultiByteRuneStraddlesChunks(t *testing.T) {
	d := NewDecoder()
	payload := []byte("data: {\"content\":\"héllo\"}\n")
	// The é is two bytes; split in the middle of it.
	cut := 0
	for i, b := range payload {
		if b >= 0x80 {
			cut = i + 1
			break
		}
	}
	frames := d.Feed(payload[:cut])
	assert.Empty(t, frames)
	frames = d.Feed(payload[cut:])
	require.Len(t, frames, 1)
	assert.JSONEq(t, `{"content":"héllo"}`, string(frames[0].Data))
}

func TestDecoderNeverDuplicatesFrames(t *testing.T) {
	d := NewDecoder()
	var got []Frame
	for _, b := range []byte("data: {\"n\":1}\ndata: {\"n\":2}\n") {
		got = append(got, d.Feed([]byte{b})...)
	}
	got = append(got, d.Flush()...)
	require.Len(t, got, 2)
	assert.Equal(t, `{"n":1}`, got[0].Raw)
	assert.Equal(t, `{"n":2}`, got[1].Raw)
}
