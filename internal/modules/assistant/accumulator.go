package assistant

import (
	"sync"

	"github.com/trendscope/core/internal/pkg/llm"
)

// Accumulator folds streamed token deltas into the trailing assistant
// message of a conversation. Once the stream terminator is observed the
// conversation is sealed and stray deltas are ignored until the next user
// message reopens it.
type Accumulator struct {
	mu       sync.Mutex
	messages []llm.Message
	sealed   bool
}

func NewAccumulator() *Accumulator { return &Accumulator{} }

// AppendUser adds a user message and reopens the conversation for deltas.
func (a *Accumulator) AppendUser(content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, llm.Message{Role: "user", Content: content})
	a.sealed = false
}

// ApplyDelta appends delta to the trailing assistant message, creating it
// when the conversation ends with a user message. Deltas arriving after
// Seal are dropped.
func (a *Accumulator) ApplyDelta(delta string) {
	if delta == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sealed {
		return
	}
	if n := len(a.messages); n > 0 && a.messages[n-1].Role == "assistant" {
		last := a.messages[n-1]
		last.Content += delta
		a.messages[n-1] = last
		return
	}
	a.messages = append(a.messages, llm.Message{Role: "assistant", Content: delta})
}

// Seal marks the in-progress assistant message complete.
func (a *Accumulator) Seal() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sealed = true
}

// Snapshot returns a copy of the conversation.
func (a *Accumulator) Snapshot() []llm.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]llm.Message, len(a.messages))
	copy(out, a.messages)
	return out
}

// Clear drops the whole conversation.
func (a *Accumulator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = nil
	a.sealed = false
}
