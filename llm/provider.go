// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion (content blocks, tool calls)
// - Provider-specific error handling

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Chat sends one decision-step request. When the request carries tool
	// definitions, the reply message may contain tool-call blocks.
	Chat(ctx context.Context, req Request) (Reply, error)

	// StreamChat streams a plain-text completion, sending chunks to the
	// provided channel. Tool definitions are ignored by streaming.
	StreamChat(ctx context.Context, req Request, chunks chan<- string) (*TokenUsage, error)
}
