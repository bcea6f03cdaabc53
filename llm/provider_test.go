package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/sharkdev/cidinha/model"
)

// fakeProvider returns a fixed reply.
type fakeProvider struct {
	reply Reply
	last  Request
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-1" }

func (f *fakeProvider) Chat(ctx context.Context, req Request) (Reply, error) {
	f.last = req
	return f.reply, nil
}

func (f *fakeProvider) StreamChat(ctx context.Context, req Request, chunks chan<- string) (*TokenUsage, error) {
	return nil, nil
}

func TestClientGenerate(t *testing.T) {
	provider := &fakeProvider{reply: Reply{Message: model.AssistantText("resposta gerada")}}
	client := NewClient(provider)

	got, err := client.Generate(context.Background(), "resuma isso")
	if err != nil {
		t.Fatal(err)
	}
	if got != "resposta gerada" {
		t.Errorf("generate = %q", got)
	}
	if len(provider.last.Messages) != 1 || provider.last.Messages[0].Text() != "resuma isso" {
		t.Errorf("request = %+v", provider.last)
	}
}

func TestConvertToOpenAIMessages(t *testing.T) {
	req := Request{
		System: "você é a cidinha",
		Messages: []model.Message{
			model.UserText("oi"),
			{Role: model.RoleAssistant, Content: []model.ContentBlock{
				model.ToolCallBlock{ID: "c1", Name: "PesquisaWeb", Arguments: json.RawMessage(`{"query":"go"}`)},
			}},
			model.ToolResult("PesquisaWeb", "c1", "dez resultados"),
		},
	}

	msgs := convertToOpenAIMessages(req)
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	if msgs[0].Role != openai.ChatMessageRoleSystem || msgs[0].Content != "você é a cidinha" {
		t.Errorf("system = %+v", msgs[0])
	}
	if msgs[1].Role != openai.ChatMessageRoleUser {
		t.Errorf("user role = %q", msgs[1].Role)
	}
	if len(msgs[2].ToolCalls) != 1 || msgs[2].ToolCalls[0].Function.Name != "PesquisaWeb" {
		t.Errorf("assistant tool calls = %+v", msgs[2].ToolCalls)
	}
	if msgs[3].Role != openai.ChatMessageRoleTool || msgs[3].ToolCallID != "c1" {
		t.Errorf("tool result = %+v", msgs[3])
	}
}

func TestConvertOpenAIUserMessageWithImage(t *testing.T) {
	msg := model.Message{Role: model.RoleUser, Content: []model.ContentBlock{
		model.TextBlock{Text: "olha"},
		model.ImageBlock{Data: []byte{0x89, 0x50}, MIME: "image/png"},
	}}

	converted := convertOpenAIUserMessage(msg)
	if len(converted.MultiContent) != 2 {
		t.Fatalf("got %d parts, want 2", len(converted.MultiContent))
	}
	image := converted.MultiContent[1]
	if image.Type != openai.ChatMessagePartTypeImageURL {
		t.Errorf("part type = %q", image.Type)
	}
	if !strings.HasPrefix(image.ImageURL.URL, "data:image/png;base64,") {
		t.Errorf("image URL = %q", image.ImageURL.URL)
	}
}

func TestConvertToAnthropicMessagesToolResult(t *testing.T) {
	msgs := convertToAnthropicMessages([]model.Message{
		model.UserText("oi"),
		model.AssistantText("vou verificar"),
		model.ToolResult("ConsultarAgenda", "c9", "agenda livre"),
	})
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	// Anthropic carries tool results as user-role messages.
	if msgs[2].Role != anthropic.MessageParamRoleUser {
		t.Errorf("tool result role = %q", msgs[2].Role)
	}
}

func TestConvertToGeminiContents(t *testing.T) {
	contents := convertToGeminiContents([]model.Message{
		model.UserText("oi"),
		{Role: model.RoleAssistant, Content: []model.ContentBlock{
			model.ToolCallBlock{Name: "LerNoticias", Arguments: json.RawMessage(`{"pais":"br"}`)},
		}},
		model.ToolResult("LerNoticias", "LerNoticias", "manchetes do dia"),
	})

	if len(contents) != 3 {
		t.Fatalf("got %d contents, want 3", len(contents))
	}
	if contents[0].Role != genai.RoleUser {
		t.Errorf("user role = %q", contents[0].Role)
	}
	if contents[1].Role != genai.RoleModel {
		t.Errorf("assistant role = %q", contents[1].Role)
	}
	if contents[1].Parts[0].FunctionCall == nil || contents[1].Parts[0].FunctionCall.Name != "LerNoticias" {
		t.Errorf("function call = %+v", contents[1].Parts[0])
	}
	fr := contents[2].Parts[0].FunctionResponse
	if fr == nil || fr.Name != "LerNoticias" {
		t.Fatalf("function response = %+v", contents[2].Parts[0])
	}
	if fr.Response["result"] != "manchetes do dia" {
		t.Errorf("response payload = %+v", fr.Response)
	}
}

func TestConvertToGeminiSchemaArrayItems(t *testing.T) {
	schema := convertToGeminiSchema(map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"temas": map[string]interface{}{
				"type":        "array",
				"description": "assuntos",
			},
		},
		"required": []string{"temas"},
	})

	if schema.Type != genai.TypeObject {
		t.Errorf("type = %v", schema.Type)
	}
	temas, ok := schema.Properties["temas"]
	if !ok {
		t.Fatal("temas property missing")
	}
	if temas.Type != genai.TypeArray || temas.Items == nil {
		t.Errorf("array property must carry items, got %+v", temas)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "temas" {
		t.Errorf("required = %v", schema.Required)
	}
}
