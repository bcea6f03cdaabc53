package agent

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/sharkdev/cidinha/model"
)

func TestNormalizeResponse(t *testing.T) {
	pendingCall := model.Message{Role: model.RoleAssistant, Content: []model.ContentBlock{
		model.ToolCallBlock{ID: "1", Name: "PesquisaWeb", Arguments: json.RawMessage(`{}`)},
	}}

	cases := []struct {
		name  string
		final model.Message
		state State
		want  string
	}{
		{"done with text", model.AssistantText("Aqui está."), StateDone, "Aqui está."},
		{"done without text", model.Message{Role: model.RoleAssistant}, StateDone, MsgDone},
		{"loop ended mid-decision", model.AssistantText("pensando"), StateDeciding, MsgProcessing},
		{"loop ended mid-action", pendingCall, StateActing, MsgProcessing},
		{"done but call still pending", pendingCall, StateDone, MsgProcessing},
	}
	for _, tc := range cases {
		if got := normalizeResponse(tc.final, tc.state); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestBuildSystemPromptTemporalContext(t *testing.T) {
	config := DefaultConfig()
	config.Clock = func() time.Time {
		return time.Date(2026, time.August, 29, 14, 30, 0, 0, time.UTC)
	}
	config.Contacts = []string{"Renan: renan@sharkdev.com.br"}

	prompt := buildSystemPrompt(config)
	if !strings.Contains(prompt, "Hoje: sábado, 29/08/2026 (14:30)") {
		t.Errorf("temporal anchor missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Renan: renan@sharkdev.com.br") {
		t.Errorf("contacts missing:\n%s", prompt)
	}
	for _, tool := range []string{"ConsultarAgenda", "CriarEvento", "ConsultarEmail", "EnviarEmail", "LerNoticias", "PesquisaWeb", "DuvidasRPG", "AjudaShark", "AjudaProgramacao"} {
		if !strings.Contains(prompt, tool) {
			t.Errorf("tool %s not mentioned in selection rules", tool)
		}
	}
}

func TestBuildSystemPromptOverride(t *testing.T) {
	config := DefaultConfig()
	config.SystemPrompt = "Você é um robô de testes."
	if got := buildSystemPrompt(config); got != "Você é um robô de testes." {
		t.Errorf("override ignored: %q", got)
	}
}
