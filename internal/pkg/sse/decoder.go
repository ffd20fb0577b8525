// Package sse implements incremental decoding of SSE-style streamed
// responses ("data: {...}" lines terminated by "data: [DONE]") as emitted
// by OpenAI-compatible chat completion endpoints.
package sse

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

const doneSentinel = "[DONE]"

// Frame is one decoded data unit from a stream. Comment and blank lines
// never produce frames; only payload and terminator lines do.
type Frame struct {
	Done bool            // true for the "[DONE]" terminator
	Raw  string          // raw payload text after the "data: " prefix
	Data json.RawMessage // validated JSON payload, nil for terminator frames
}

// Decoder converts raw byte chunks, arriving at arbitrary boundaries, into
// an ordered sequence of Frames. It carries both incomplete lines and
// incomplete multi-byte UTF-8 sequences across Feed calls, and never fails:
// malformed input degrades by skipping or re-buffering.
type Decoder struct {
	pending []byte // trailing bytes that may end mid-rune
	buf     string // decoded text not yet terminated by a newline
}

// NewDecoder returns a Decoder ready for the first chunk.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the internal buffer and returns all frames that
// became complete. A payload line that fails to parse as JSON is pushed
// back (with its newline) onto the head of the buffer so that the next
// Feed can retry once more bytes arrive; processing stops at that point
// to preserve frame order.
func (d *Decoder) Feed(chunk []byte) []Frame {
	d.pending = append(d.pending, chunk...)
	complete, rest := splitCompleteRunes(d.pending)
	d.buf += string(complete)
	d.pending = rest

	var frames []Frame
	for {
		idx := strings.IndexByte(d.buf, '\n')
		if idx < 0 {
			return frames
		}
		line := d.buf[:idx]
		d.buf = d.buf[idx+1:]

		frame, ok, retry := classifyLine(line)
		if retry {
			// Possibly a JSON payload split across chunks; re-buffer once
			// and wait for more bytes.
			d.buf = line + "\n" + d.buf
			return frames
		}
		if ok {
			frames = append(frames, frame)
		}
	}
}

// Flush processes any remaining buffered content as final, possibly
// incomplete lines. Unparseable payloads at this point are unrecoverable
// and silently dropped.
func (d *Decoder) Flush() []Frame {
	d.buf += string(d.pending)
	d.pending = nil
	remainder := d.buf
	d.buf = ""

	var frames []Frame
	for _, line := range strings.Split(remainder, "\n") {
		if frame, ok, _ := classifyLine(line); ok {
			frames = append(frames, frame)
		}
	}
	return frames
}

// classifyLine inspects one complete line. ok reports whether a frame was
// produced; retry requests a push-back for a payload that is not yet valid
// JSON.
func classifyLine(line string) (frame Frame, ok bool, retry bool) {
	line = strings.TrimSuffix(line, "\r")
	if strings.HasPrefix(line, ":") || strings.TrimSpace(line) == "" {
		return Frame{}, false, false
	}
	if !strings.HasPrefix(line, "data: ") {
		return Frame{}, false, false
	}

	payload := strings.TrimSpace(line[len("data: "):])
	if payload == "" {
		return Frame{}, false, false
	}
	if payload == doneSentinel {
		return Frame{Done: true}, true, false
	}
	if !json.Valid([]byte(payload)) {
		return Frame{}, false, true
	}
	return Frame{Raw: payload, Data: json.RawMessage(payload)}, true, false
}

// splitCompleteRunes splits b so that complete never ends in the middle of
// a multi-byte UTF-8 sequence; rest holds the trailing partial rune, if any.
func splitCompleteRunes(b []byte) (complete, rest []byte) {
	for i := len(b) - 1; i >= 0 && len(b)-i < utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if utf8.FullRune(b[i:]) {
			return b, nil
		}
		return b[:i], b[i:]
	}
	return b, nil
}
