// OpenAI Provider implementation using go-openai library.
//
// Information Hiding:
// - API endpoint and authentication
// - Request/response format for OpenAI Chat Completions API
// - Content-block and tool-call conversion

package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sharkdev/cidinha/model"
)

// OpenAIProvider implements the Provider interface for OpenAI.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(apiKey, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	return &OpenAIProvider{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// newOpenAICompatProvider creates a provider against an OpenAI-compatible API.
func newOpenAICompatProvider(apiKey, baseURL, model string, maxTokens uint32, temperature float32) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		maxTokens:   int(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Model returns the current model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Chat sends a decision-step request.
func (p *OpenAIProvider) Chat(ctx context.Context, req Request) (Reply, error) {
	oaiReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(req),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
	}
	if len(req.Tools) > 0 {
		oaiReq.Tools = convertToOpenAITools(req.Tools)
	}

	resp, err := p.client.CreateChatCompletion(ctx, oaiReq)
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion failed: %w", err)
	}

	reply := Reply{Message: model.Message{Role: model.RoleAssistant}}
	if len(resp.Choices) > 0 {
		msg := resp.Choices[0].Message
		if msg.Content != "" {
			reply.Message.Content = append(reply.Message.Content, model.TextBlock{Text: msg.Content})
		}
		for _, tc := range msg.ToolCalls {
			reply.Message.Content = append(reply.Message.Content, model.ToolCallBlock{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: []byte(tc.Function.Arguments),
			})
		}
	}

	reply.Usage = &TokenUsage{
		PromptTokens:     uint32(resp.Usage.PromptTokens),
		CompletionTokens: uint32(resp.Usage.CompletionTokens),
		TotalTokens:      uint32(resp.Usage.TotalTokens),
	}

	return reply, nil
}

// StreamChat streams a plain-text completion.
func (p *OpenAIProvider) StreamChat(ctx context.Context, req Request, chunks chan<- string) (*TokenUsage, error) {
	oaiReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    convertToOpenAIMessages(req),
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		Stream:      true,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	}

	stream, err := p.client.CreateChatCompletionStream(ctx, oaiReq)
	if err != nil {
		return nil, fmt.Errorf("stream creation failed: %w", err)
	}
	defer stream.Close()

	var usage *TokenUsage
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return usage, fmt.Errorf("stream error: %w", err)
		}

		if resp.Usage != nil {
			usage = &TokenUsage{
				PromptTokens:     uint32(resp.Usage.PromptTokens),
				CompletionTokens: uint32(resp.Usage.CompletionTokens),
				TotalTokens:      uint32(resp.Usage.TotalTokens),
			}
		}

		if len(resp.Choices) > 0 && resp.Choices[0].Delta.Content != "" {
			select {
			case chunks <- resp.Choices[0].Delta.Content:
			case <-ctx.Done():
				return usage, ctx.Err()
			}
		}
	}

	return usage, nil
}

// convertToOpenAIMessages converts domain messages to OpenAI format.
func convertToOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	var result []openai.ChatCompletionMessage

	if req.System != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case model.RoleUser:
			result = append(result, convertOpenAIUserMessage(msg))
		case model.RoleAssistant:
			oaiMsg := openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: msg.Text(),
			}
			for _, tc := range msg.ToolCalls() {
				oaiMsg.ToolCalls = append(oaiMsg.ToolCalls, openai.ToolCall{
					ID:   tc.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				})
			}
			result = append(result, oaiMsg)
		case model.RoleToolResult:
			result = append(result, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    msg.Text(),
				ToolCallID: msg.ToolCallID,
			})
		}
	}

	return result
}

// convertOpenAIUserMessage builds a user message, using multi-part content
// when the message carries inline images.
func convertOpenAIUserMessage(msg model.Message) openai.ChatCompletionMessage {
	hasImage := false
	for _, b := range msg.Content {
		if _, ok := b.(model.ImageBlock); ok {
			hasImage = true
			break
		}
	}

	if !hasImage {
		return openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: msg.Text(),
		}
	}

	var parts []openai.ChatMessagePart
	for _, b := range msg.Content {
		switch block := b.(type) {
		case model.TextBlock:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: block.Text,
			})
		case model.ImageBlock:
			encoded := base64.StdEncoding.EncodeToString(block.Data)
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", block.MIME, encoded),
				},
			})
		}
	}

	return openai.ChatCompletionMessage{
		Role:         openai.ChatMessageRoleUser,
		MultiContent: parts,
	}
}

// convertToOpenAITools converts tool definitions to OpenAI format.
func convertToOpenAITools(tools []ToolDefinition) []openai.Tool {
	result := make([]openai.Tool, len(tools))
	for i, t := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return result
}

// Verify OpenAIProvider implements Provider
var _ Provider = (*OpenAIProvider)(nil)
