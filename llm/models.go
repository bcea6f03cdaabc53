// Package llm provides shared data models for LLM providers.
package llm

import (
	"github.com/sharkdev/cidinha/model"
)

// ToolDefinition describes a callable tool to the model.
// Parameters is a JSON-Schema object ({"type": "object", ...}).
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Request is one decision-step request to a provider.
type Request struct {
	// System is the system prompt, delivered through the provider's native
	// system channel rather than as a conversation message.
	System string
	// Messages is the conversation so far, in order.
	Messages []model.Message
	// Tools the model may call this step. Empty means plain chat.
	Tools []ToolDefinition
}

// Reply is the provider's answer to one Request.
type Reply struct {
	// Message is an assistant message whose content preserves the
	// provider's block order: text and tool-call blocks as emitted.
	Message model.Message
	Usage   *TokenUsage
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

// Add accumulates another usage sample.
func (u *TokenUsage) Add(other *TokenUsage) {
	if other == nil {
		return
	}
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}
