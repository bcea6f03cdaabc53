package model

import (
	"encoding/json"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{"USER", RoleUser, true},
		{" assistant ", RoleAssistant, true},
		{"tool", 0, false},
		{"system", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParseRole(%q) = %v, %v", tc.in, got, ok)
		}
	}
}

func TestRoleString(t *testing.T) {
	if RoleUser.String() != "user" || RoleAssistant.String() != "assistant" || RoleToolResult.String() != "tool" {
		t.Error("unexpected role names")
	}
}

func TestToolResultMessage(t *testing.T) {
	msg := ToolResult("ConsultarAgenda", "call-1", "sem compromissos")
	if msg.Role != RoleToolResult {
		t.Errorf("role = %v", msg.Role)
	}
	if msg.ToolName != "ConsultarAgenda" || msg.ToolCallID != "call-1" {
		t.Errorf("tool fields = %q, %q", msg.ToolName, msg.ToolCallID)
	}
	if msg.Text() != "sem compromissos" {
		t.Errorf("text = %q", msg.Text())
	}
}

func TestToolCallsPreserveOrder(t *testing.T) {
	msg := Message{Role: RoleAssistant, Content: []ContentBlock{
		TextBlock{Text: "vou verificar"},
		ToolCallBlock{ID: "a", Name: "ConsultarAgenda", Arguments: json.RawMessage(`{}`)},
		ToolCallBlock{ID: "b", Name: "ConsultarEmail", Arguments: json.RawMessage(`{}`)},
	}}

	if !msg.HasToolCalls() {
		t.Fatal("HasToolCalls = false")
	}
	calls := msg.ToolCalls()
	if len(calls) != 2 || calls[0].ID != "a" || calls[1].ID != "b" {
		t.Errorf("calls = %+v", calls)
	}
}

func TestTextSkipsNonTextBlocks(t *testing.T) {
	msg := Message{Role: RoleUser, Content: []ContentBlock{
		TextBlock{Text: "olha essa foto"},
		ImageBlock{Data: []byte{1, 2, 3}, MIME: "image/png"},
		TextBlock{Text: "o que acha?"},
	}}
	if msg.Text() != "olha essa foto\no que acha?" {
		t.Errorf("text = %q", msg.Text())
	}
}

func TestTextEmptyMessage(t *testing.T) {
	if (Message{Role: RoleAssistant}).Text() != "" {
		t.Error("empty message must produce empty text")
	}
	if (Message{Role: RoleAssistant}).HasToolCalls() {
		t.Error("empty message must not report tool calls")
	}
}
