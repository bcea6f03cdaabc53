package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sharkdev/cidinha/auth"
)

func TestCheckEmailWithoutCredential(t *testing.T) {
	tool := NewCheckEmailTool().WithCredential(nil)
	result := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if result.Output != MsgNotLoggedIn {
		t.Errorf("output = %q", result.Output)
	}
}

func TestCheckEmailListsMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/users/me/messages"):
			q := r.URL.Query().Get("q")
			if !strings.Contains(q, "is:unread") || !strings.Contains(q, "after:2026/08/01") {
				t.Errorf("query = %q", q)
			}
			w.Write([]byte(`{"messages": [{"id": "m1"}]}`))
		case strings.Contains(r.URL.Path, "/users/me/messages/m1"):
			w.Write([]byte(`{
				"snippet": "Segue o relatório em anexo",
				"payload": {"headers": [
					{"name": "From", "value": "joao@sharkdev.com.br"},
					{"name": "Subject", "value": "Relatório mensal"}
				]}
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	tool := NewCheckEmailTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	args := json.RawMessage(`{"query": "is:unread", "data_inicio": "2026/08/01"}`)
	result := tool.Execute(context.Background(), args)

	if !strings.Contains(result.Output, "De: joao@sharkdev.com.br") {
		t.Errorf("missing sender: %q", result.Output)
	}
	if !strings.Contains(result.Output, "Assunto: Relatório mensal") {
		t.Errorf("missing subject: %q", result.Output)
	}
	if !strings.Contains(result.Output, "Corpo: Segue o relatório em anexo...") {
		t.Errorf("missing snippet: %q", result.Output)
	}
}

func TestCheckEmailNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	tool := NewCheckEmailTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	result := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if result.Output != "Nenhum e-mail encontrado." {
		t.Errorf("output = %q", result.Output)
	}
}

func TestSendEmailSuccess(t *testing.T) {
	var payload struct {
		Raw string `json:"raw"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/users/me/messages/send") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		w.Write([]byte(`{"id": "sent1"}`))
	}))
	defer server.Close()

	tool := NewSendEmailTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	args := json.RawMessage(`{"to": "maria@sharkdev.com.br", "subject": "Oi", "body": "Tudo bem?"}`)
	result := tool.Execute(context.Background(), args)

	if result.Output != "Email enviado com sucesso." {
		t.Errorf("output = %q", result.Output)
	}

	decoded, err := base64.URLEncoding.DecodeString(payload.Raw)
	if err != nil {
		t.Fatalf("raw payload is not base64url: %v", err)
	}
	message := string(decoded)
	if !strings.Contains(message, "To: maria@sharkdev.com.br") {
		t.Errorf("missing recipient header: %q", message)
	}
	if !strings.Contains(message, "Subject: Oi") {
		t.Errorf("missing subject header: %q", message)
	}
	if !strings.HasSuffix(message, "Tudo bem?") {
		t.Errorf("missing body: %q", message)
	}
}

func TestSendEmailEncodesAccentedSubject(t *testing.T) {
	var payload struct {
		Raw string `json:"raw"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		w.Write([]byte(`{"id": "sent2"}`))
	}))
	defer server.Close()

	tool := NewSendEmailTool().
		WithEndpoint(server.URL, server.Client()).
		WithCredential(&auth.Credential{AccessToken: "tok"})

	args := json.RawMessage(`{"to": "joao@sharkdev.com.br", "subject": "Reunião de alinhamento", "body": "Segue a pauta."}`)
	if result := tool.Execute(context.Background(), args); result.Failed() {
		t.Fatalf("send failed: %q", result.Output)
	}

	decoded, err := base64.URLEncoding.DecodeString(payload.Raw)
	if err != nil {
		t.Fatalf("raw payload is not base64url: %v", err)
	}
	message := string(decoded)

	want := "Subject: " + mime.QEncoding.Encode("utf-8", "Reunião de alinhamento")
	if !strings.Contains(message, want) {
		t.Errorf("subject header not RFC 2047 encoded: %q", message)
	}
	subjectLine := message[strings.Index(message, "Subject: "):]
	subjectLine = subjectLine[:strings.Index(subjectLine, "\r\n")]
	if strings.ContainsFunc(subjectLine, func(r rune) bool { return r > 127 }) {
		t.Errorf("subject header carries raw non-ASCII: %q", subjectLine)
	}
}

func TestSendEmailMissingRecipient(t *testing.T) {
	tool := NewSendEmailTool().WithCredential(&auth.Credential{AccessToken: "tok"})
	result := tool.Execute(context.Background(), json.RawMessage(`{"subject": "x"}`))
	if !result.Failed() {
		t.Error("missing recipient should be a marked failure")
	}
}
