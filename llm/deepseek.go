// DeepSeek Provider implementation using go-openai library.
//
// DeepSeek exposes an OpenAI-compatible API; the provider delegates to the
// OpenAI implementation with a different base URL and reports its own name.

package llm

import (
	"context"
)

const deepseekBaseURL = "https://api.deepseek.com/v1"

// DeepSeekProvider implements the Provider interface for DeepSeek.
type DeepSeekProvider struct {
	inner *OpenAIProvider
}

// NewDeepSeekProvider creates a new DeepSeek provider.
func NewDeepSeekProvider(apiKey, model string, maxTokens uint32, temperature float32) *DeepSeekProvider {
	return &DeepSeekProvider{
		inner: newOpenAICompatProvider(apiKey, deepseekBaseURL, model, maxTokens, temperature),
	}
}

// Name returns the provider name.
func (p *DeepSeekProvider) Name() string {
	return "deepseek"
}

// Model returns the current model.
func (p *DeepSeekProvider) Model() string {
	return p.inner.Model()
}

// Chat sends a decision-step request.
func (p *DeepSeekProvider) Chat(ctx context.Context, req Request) (Reply, error) {
	return p.inner.Chat(ctx, req)
}

// StreamChat streams a plain-text completion.
func (p *DeepSeekProvider) StreamChat(ctx context.Context, req Request, chunks chan<- string) (*TokenUsage, error) {
	return p.inner.StreamChat(ctx, req, chunks)
}

// Verify DeepSeekProvider implements Provider
var _ Provider = (*DeepSeekProvider)(nil)
