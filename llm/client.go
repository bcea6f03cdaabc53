// Client - simple wrapper around providers.

package llm

import (
	"context"

	"github.com/sharkdev/cidinha/model"
)

// Client wraps a Provider with convenience calls.
type Client struct {
	provider Provider
}

// NewClient creates a new LLM client from a provider.
func NewClient(provider Provider) *Client {
	return &Client{provider: provider}
}

// Chat sends a decision-step request and returns the full reply.
func (c *Client) Chat(ctx context.Context, req Request) (Reply, error) {
	return c.provider.Chat(ctx, req)
}

// Generate runs a single-prompt completion and returns the text content.
// Used by tools that compose answers from retrieved context.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	reply, err := c.provider.Chat(ctx, Request{
		Messages: []model.Message{model.UserText(prompt)},
	})
	if err != nil {
		return "", err
	}
	return reply.Message.Text(), nil
}

// StreamChat streams a plain-text completion.
func (c *Client) StreamChat(ctx context.Context, req Request, chunks chan<- string) (*TokenUsage, error) {
	return c.provider.StreamChat(ctx, req, chunks)
}

// Provider returns the underlying provider.
func (c *Client) Provider() Provider {
	return c.provider
}
