package llm

import "fmt"

// TransportError reports a failed upstream request: a non-2xx status, an
// absent body, or a network-level failure. Message carries the
// server-provided error text when one was present.
type TransportError struct {
	Status  int
	Message string
}

func (e *TransportError) Error() string {
	if e.Message == "" {
		return "stream unavailable"
	}
	if e.Status > 0 {
		return fmt.Sprintf("upstream error (%d): %s", e.Status, e.Message)
	}
	return e.Message
}

// UserMessage returns the text suitable for surfacing to a client.
func (e *TransportError) UserMessage() string {
	if e.Message == "" {
		return "stream unavailable"
	}
	return e.Message
}

// ParseError reports a structured-generation response that could not be
// parsed as JSON. Unlike stream frames, which degrade silently, this is
// fatal for the calling operation.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "invalid JSON response from AI: " + e.Err.Error()
	}
	return "invalid JSON response from AI"
}

func (e *ParseError) Unwrap() error { return e.Err }
