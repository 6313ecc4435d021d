// Package chat implements the support chat session controller for the Buy
// Xtra storefront. A controller owns exactly one remote conversational
// session and one message log, dispatches user messages, and folds streamed
// assistant output back into the log.
package chat

import "context"

// SessionConfig describes the remote conversation to create. The system
// prompt is fixed for the lifetime of the session.
type SessionConfig struct {
	Model        string
	SystemPrompt string
}

// StreamClient creates remote conversational sessions. The production
// implementation is GeminiClient; tests use MockClient.
type StreamClient interface {
	StartSession(ctx context.Context, cfg SessionConfig) (Session, error)
}

// Session is an opaque handle to a remote conversational context. The
// remote side retains the conversation history; callers only submit the
// next user message.
type Session interface {
	// SendMessageStream submits user text and calls onChunk once per piece
	// of assistant text, in arrival order, from a single goroutine. It
	// returns after the stream ends; a non-nil error means the stream
	// failed and no further chunks will be delivered. Chunks cannot be
	// replayed.
	SendMessageStream(ctx context.Context, text string, onChunk func(string)) error
}
