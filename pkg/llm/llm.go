// Package llm provides clients for hosted and local chat models behind a
// single interface. A Client sends a role-tagged message list and returns
// either a complete response or a channel of stream events.
package llm

import (
	"context"

	"github.com/weftlabs/weft/pkg/chats"
)

// TokenUsage reports prompt and completion token counts as returned by the
// provider.
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is the result of a completed model call.
type Response struct {
	Content string
	Usage   TokenUsage
}

type StreamEventType string

const (
	// StreamEventContent carries one content delta.
	StreamEventContent StreamEventType = "content"
	// StreamEventComplete is the final event; Content holds the full
	// response text and Usage the total counts.
	StreamEventComplete StreamEventType = "complete"
	// StreamEventError terminates the stream; Content holds the error text.
	StreamEventError StreamEventType = "error"
)

// StreamEvent is one event on a model response stream. A stream yields zero
// or more content events followed by exactly one complete or error event.
type StreamEvent struct {
	Type    StreamEventType
	Content string
	Usage   TokenUsage
}

// Client is a chat model. Implementations are safe for concurrent use.
type Client interface {
	// Call sends messages and blocks until the full response is available.
	Call(ctx context.Context, messages []chats.Message, opts ...CallOption) (*Response, error)
	// Stream sends messages and returns a channel of response events. The
	// channel is closed after the terminal event.
	Stream(ctx context.Context, messages []chats.Message, opts ...CallOption) <-chan StreamEvent
}
