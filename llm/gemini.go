// Google Gemini Provider implementation using official google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication and client creation
// - Request/response format for Gemini API
// - Function-call and inline-data conversion
// - System instruction handling via config

package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/sharkdev/cidinha/model"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	initErr     error // Stores client initialization error for deferred reporting
}

// NewGeminiProvider creates a new Gemini provider.
// If client initialization fails, the error is stored and returned on first use.
func NewGeminiProvider(apiKey, model string, maxTokens uint32, temperature float32) *GeminiProvider {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return &GeminiProvider{
			model:       model,
			maxTokens:   int32(maxTokens),
			temperature: temperature,
			initErr:     fmt.Errorf("failed to initialize Gemini client: %w", err),
		}
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		maxTokens:   int32(maxTokens),
		temperature: temperature,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the current model.
func (p *GeminiProvider) Model() string {
	return p.model
}

func (p *GeminiProvider) ready() error {
	if p.initErr != nil {
		return p.initErr
	}
	if p.client == nil {
		return fmt.Errorf("gemini client not initialized")
	}
	return nil
}

// Chat sends a decision-step request.
func (p *GeminiProvider) Chat(ctx context.Context, req Request) (Reply, error) {
	if err := p.ready(); err != nil {
		return Reply{}, err
	}

	contents := convertToGeminiContents(req.Messages)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.temperature),
		MaxOutputTokens: p.maxTokens,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if len(req.Tools) > 0 {
		config.Tools = convertToGeminiTools(req.Tools)
	}

	response, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return Reply{}, fmt.Errorf("chat completion failed: %w", err)
	}

	reply := Reply{Message: model.Message{Role: model.RoleAssistant}}
	if len(response.Candidates) > 0 && response.Candidates[0].Content != nil {
		for _, part := range response.Candidates[0].Content.Parts {
			if part.Text != "" {
				reply.Message.Content = append(reply.Message.Content, model.TextBlock{Text: part.Text})
			}
			if part.FunctionCall != nil {
				argsJSON, _ := json.Marshal(part.FunctionCall.Args)
				reply.Message.Content = append(reply.Message.Content, model.ToolCallBlock{
					ID:        part.FunctionCall.Name, // Gemini correlates by name
					Name:      part.FunctionCall.Name,
					Arguments: argsJSON,
				})
			}
		}
	}

	if response.UsageMetadata != nil {
		reply.Usage = &TokenUsage{
			PromptTokens:     uint32(response.UsageMetadata.PromptTokenCount),
			CompletionTokens: uint32(response.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      uint32(response.UsageMetadata.TotalTokenCount),
		}
	}

	return reply, nil
}

// StreamChat streams a plain-text completion.
func (p *GeminiProvider) StreamChat(ctx context.Context, req Request, chunks chan<- string) (*TokenUsage, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	contents := convertToGeminiContents(req.Messages)

	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(p.temperature),
		MaxOutputTokens: p.maxTokens,
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	var usage *TokenUsage
	for response, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, config) {
		if err != nil {
			return usage, fmt.Errorf("stream error: %w", err)
		}

		if response.UsageMetadata != nil {
			usage = &TokenUsage{
				PromptTokens:     uint32(response.UsageMetadata.PromptTokenCount),
				CompletionTokens: uint32(response.UsageMetadata.CandidatesTokenCount),
				TotalTokens:      uint32(response.UsageMetadata.TotalTokenCount),
			}
		}

		text := response.Text()
		if text != "" {
			select {
			case chunks <- text:
			case <-ctx.Done():
				return usage, ctx.Err()
			}
		}
	}

	return usage, nil
}

// convertToGeminiContents converts domain messages to Gemini format.
func convertToGeminiContents(messages []model.Message) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleUser:
			content := &genai.Content{Role: genai.RoleUser}
			for _, b := range msg.Content {
				switch block := b.(type) {
				case model.TextBlock:
					content.Parts = append(content.Parts, &genai.Part{Text: block.Text})
				case model.ImageBlock:
					content.Parts = append(content.Parts, &genai.Part{
						InlineData: &genai.Blob{MIMEType: block.MIME, Data: block.Data},
					})
				}
			}
			contents = append(contents, content)
		case model.RoleAssistant:
			content := &genai.Content{Role: genai.RoleModel}
			for _, b := range msg.Content {
				switch block := b.(type) {
				case model.TextBlock:
					if block.Text != "" {
						content.Parts = append(content.Parts, &genai.Part{Text: block.Text})
					}
				case model.ToolCallBlock:
					var args map[string]any
					_ = json.Unmarshal(block.Arguments, &args)
					content.Parts = append(content.Parts, &genai.Part{
						FunctionCall: &genai.FunctionCall{
							Name: block.Name,
							Args: args,
						},
					})
				}
			}
			contents = append(contents, content)
		case model.RoleToolResult:
			var result map[string]any
			_ = json.Unmarshal([]byte(msg.Text()), &result)
			if result == nil {
				result = map[string]any{"result": msg.Text()}
			}
			contents = append(contents, &genai.Content{
				Role: genai.RoleUser, // Gemini expects tool results as user
				Parts: []*genai.Part{{
					FunctionResponse: &genai.FunctionResponse{
						Name:     msg.ToolName,
						Response: result,
					},
				}},
			})
		}
	}

	return contents
}

// convertToGeminiTools converts tool definitions to Gemini format.
func convertToGeminiTools(tools []ToolDefinition) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	var declarations []*genai.FunctionDeclaration
	for _, t := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  convertToGeminiSchema(t.Parameters),
		})
	}

	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// convertToGeminiSchema converts a JSON-Schema parameter object to Gemini format.
func convertToGeminiSchema(params map[string]interface{}) *genai.Schema {
	schema := &genai.Schema{Type: genai.TypeObject}
	if params == nil {
		return schema
	}

	if t, ok := params["type"].(string); ok {
		schema.Type = mapToGeminiType(t)
	}

	switch req := params["required"].(type) {
	case []string:
		schema.Required = req
	case []interface{}:
		for _, r := range req {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}

	if props, ok := params["properties"].(map[string]interface{}); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if prop, ok := raw.(map[string]interface{}); ok {
				schema.Properties[name] = convertToGeminiProperty(prop)
			}
		}
	}

	return schema
}

// convertToGeminiProperty converts a single property schema, adding the
// 'items' field Gemini requires on arrays.
func convertToGeminiProperty(prop map[string]interface{}) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeString}
	if t, ok := prop["type"].(string); ok {
		s.Type = mapToGeminiType(t)
	}
	if d, ok := prop["description"].(string); ok {
		s.Description = d
	}
	if s.Type == genai.TypeArray {
		s.Items = &genai.Schema{Type: genai.TypeString}
		if items, ok := prop["items"].(map[string]interface{}); ok {
			s.Items = convertToGeminiProperty(items)
		}
	}
	if s.Type == genai.TypeObject {
		if nested, ok := prop["properties"].(map[string]interface{}); ok {
			s.Properties = make(map[string]*genai.Schema, len(nested))
			for name, raw := range nested {
				if p, ok := raw.(map[string]interface{}); ok {
					s.Properties[name] = convertToGeminiProperty(p)
				}
			}
		}
	}
	return s
}

func mapToGeminiType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// Verify GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)
