// Package model provides domain types shared across packages.
//
// A conversation is an ordered sequence of Messages; each Message carries an
// ordered sequence of ContentBlocks. Block order is meaningful (text before
// attachments, attachments before identity context) and is preserved end to
// end through providers and the orchestrator.
package model

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a message.
type Role int

const (
	// RoleUser is a message authored by the human user.
	RoleUser Role = iota
	// RoleAssistant is a message authored by the language model.
	RoleAssistant
	// RoleToolResult carries the output of a tool execution back to the model.
	RoleToolResult
)

// String returns the wire-level role name.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	case RoleToolResult:
		return "tool"
	default:
		return "unknown"
	}
}

// ParseRole parses a role from its string form (case-insensitive).
// Returns false for roles the conversation does not recognize; callers
// drop such records rather than erroring (lenient-history policy).
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, true
	case "assistant":
		return RoleAssistant, true
	default:
		return 0, false
	}
}

// ContentBlock is one ordered unit of message content.
// Exactly one implementation exists per block kind.
type ContentBlock interface {
	blockKind() string
}

// TextBlock is plain text content.
type TextBlock struct {
	Text string
}

func (TextBlock) blockKind() string { return "text" }

// ImageBlock is inline image content (attachment bytes plus MIME type).
type ImageBlock struct {
	Data []byte
	MIME string
}

func (ImageBlock) blockKind() string { return "image" }

// ToolCallBlock is a model-issued request to execute a named tool.
// ID correlates the eventual tool result with this request on providers
// that require it; Arguments is the raw JSON argument object.
type ToolCallBlock struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

func (ToolCallBlock) blockKind() string { return "tool_call" }

// Message is one entry in a conversation.
type Message struct {
	Role    Role
	Content []ContentBlock

	// ToolName is set on RoleToolResult messages and names the tool that
	// produced the content. Invariant: never empty for tool results.
	ToolName string
	// ToolCallID correlates a tool result with the originating ToolCallBlock.
	ToolCallID string
}

// UserText builds a user message with a single text block.
func UserText(text string) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{TextBlock{Text: text}}}
}

// AssistantText builds an assistant message with a single text block.
func AssistantText(text string) Message {
	return Message{Role: RoleAssistant, Content: []ContentBlock{TextBlock{Text: text}}}
}

// ToolResult builds a tool-result message for the named tool.
func ToolResult(toolName, callID, output string) Message {
	return Message{
		Role:       RoleToolResult,
		Content:    []ContentBlock{TextBlock{Text: output}},
		ToolName:   toolName,
		ToolCallID: callID,
	}
}

// ToolCalls returns the tool-call blocks of the message, in order.
func (m Message) ToolCalls() []ToolCallBlock {
	var calls []ToolCallBlock
	for _, b := range m.Content {
		if tc, ok := b.(ToolCallBlock); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// HasToolCalls reports whether the message requests any tool execution.
func (m Message) HasToolCalls() bool {
	for _, b := range m.Content {
		if _, ok := b.(ToolCallBlock); ok {
			return true
		}
	}
	return false
}

// Text concatenates the text blocks of the message, joined by newlines.
// Non-text blocks are ignored.
func (m Message) Text() string {
	var parts []string
	for _, b := range m.Content {
		if tb, ok := b.(TextBlock); ok {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n")
}
