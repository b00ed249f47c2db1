package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Options carries generation parameters shared by all providers.
type Options struct {
	Temperature float64
	MaxTokens   int
	System      string // optional system prompt, prepended provider-appropriately
}

// StreamChunk is one event from a provider stream. A stream is any number of
// delta chunks followed by exactly one terminal chunk (Done or Err), after
// which the channel is closed.
type StreamChunk struct {
	Delta string
	Done  bool
	Err   error
}

// StreamingProvider is the narrow capability every provider adapter
// satisfies. SDK-specific shapes stay behind this contract.
type StreamingProvider interface {
	// Stream opens a generation call and returns a channel of chunks.
	// A non-nil error means the call could not be opened at all.
	Stream(ctx context.Context, model string, history []Message, opts Options) (<-chan StreamChunk, error)
}

// ClientConfig is what a resolved provider adapter is constructed from.
// APIKey is a short-lived plaintext credential: it lives inside the adapter
// for one turn and must never be logged or persisted.
type ClientConfig struct {
	APIKey  string
	BaseURL string
}
