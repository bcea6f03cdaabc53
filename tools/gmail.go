// Gmail tools: read and send mail.
//
// Information Hiding:
// - Gmail REST endpoints and message payload shapes
// - RFC 822 assembly and base64url encoding for sends
// - Credential checks

package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sharkdev/cidinha/auth"
)

const defaultMailResults = 5

// =========================
// ConsultarEmail
// =========================

// CheckEmailTool lists recent messages matching a Gmail query.
type CheckEmailTool struct {
	cred    *auth.Credential
	baseURL string
	client  *http.Client
}

// NewCheckEmailTool creates the mail lookup tool.
func NewCheckEmailTool() *CheckEmailTool {
	return &CheckEmailTool{baseURL: gmailAPIBase}
}

// WithEndpoint overrides the API endpoint and HTTP client, for tests.
func (t *CheckEmailTool) WithEndpoint(baseURL string, client *http.Client) *CheckEmailTool {
	t.baseURL = baseURL
	t.client = client
	return t
}

// WithCredential returns a turn-scoped copy bound to the credential.
func (t *CheckEmailTool) WithCredential(cred *auth.Credential) Tool {
	bound := *t
	bound.cred = cred
	return &bound
}

// Metadata returns tool metadata.
func (t *CheckEmailTool) Metadata() Metadata {
	return Metadata{
		Name:        "ConsultarEmail",
		Description: "Consultar emails.",
		Parameters: []Parameter{
			{Name: "max_results", ParamType: "integer", Description: "Quantidade máxima de e-mails (padrão 5)"},
			{Name: "query", ParamType: "string", Description: "Filtro de busca do Gmail (ex: 'is:unread')"},
			{Name: "data_inicio", ParamType: "string", Description: "Data inicial no formato YYYY/MM/DD"},
			{Name: "data_fim", ParamType: "string", Description: "Data final no formato YYYY/MM/DD"},
		},
		Terminal: false,
	}
}

type checkEmailArgs struct {
	MaxResults int    `json:"max_results"`
	Query      string `json:"query"`
	DataInicio string `json:"data_inicio"`
	DataFim    string `json:"data_fim"`
}

type messageList struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type messageDetail struct {
	Snippet string `json:"snippet"`
	Payload struct {
		Headers []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"headers"`
	} `json:"payload"`
}

func (d messageDetail) header(name string) string {
	for _, h := range d.Payload.Headers {
		if h.Name == name {
			return h.Value
		}
	}
	return ""
}

// Execute lists matching messages with sender, subject and a snippet.
func (t *CheckEmailTool) Execute(ctx context.Context, args json.RawMessage) Result {
	if !hasCredential(t.cred) {
		return SuccessResult(MsgNotLoggedIn)
	}

	var in checkEmailArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao ler emails: argumentos inválidos (%v)", err))
	}
	if in.MaxResults <= 0 {
		in.MaxResults = defaultMailResults
	}

	var filters []string
	if in.Query != "" {
		filters = append(filters, in.Query)
	}
	if in.DataInicio != "" {
		filters = append(filters, "after:"+in.DataInicio)
	}
	if in.DataFim != "" {
		filters = append(filters, "before:"+in.DataFim)
	}

	query := url.Values{}
	query.Set("q", strings.Join(filters, " "))
	query.Set("maxResults", strconv.Itoa(in.MaxResults))
	endpoint := fmt.Sprintf("%s/users/me/messages?%s", t.baseURL, query.Encode())

	client := googleClient(ctx, t.cred, t.client)
	var list messageList
	if err := getJSON(ctx, client, endpoint, &list); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao ler emails: %v", err))
	}
	if len(list.Messages) == 0 {
		return SuccessResult("Nenhum e-mail encontrado.")
	}

	var entries []string
	for _, msg := range list.Messages {
		detailURL := fmt.Sprintf("%s/users/me/messages/%s?format=metadata", t.baseURL, msg.ID)
		var detail messageDetail
		if err := getJSON(ctx, client, detailURL, &detail); err != nil {
			return SuccessResult(fmt.Sprintf("Erro ao ler emails: %v", err))
		}

		sender := detail.header("From")
		if sender == "" {
			sender = "Desconhecido"
		}
		subject := detail.header("Subject")
		if subject == "" {
			subject = "Sem assunto"
		}
		entries = append(entries, fmt.Sprintf("De: %s\nAssunto: %s\nCorpo: %s...",
			sender, subject, detail.Snippet))
	}

	return SuccessResult(strings.Join(entries, "\n\n---\n\n"))
}

// =========================
// EnviarEmail
// =========================

// SendEmailTool sends a plain-text mail from the user's account.
type SendEmailTool struct {
	cred    *auth.Credential
	baseURL string
	client  *http.Client
}

// NewSendEmailTool creates the mail send tool.
func NewSendEmailTool() *SendEmailTool {
	return &SendEmailTool{baseURL: gmailAPIBase}
}

// WithEndpoint overrides the API endpoint and HTTP client, for tests.
func (t *SendEmailTool) WithEndpoint(baseURL string, client *http.Client) *SendEmailTool {
	t.baseURL = baseURL
	t.client = client
	return t
}

// WithCredential returns a turn-scoped copy bound to the credential.
func (t *SendEmailTool) WithCredential(cred *auth.Credential) Tool {
	bound := *t
	bound.cred = cred
	return &bound
}

// Metadata returns tool metadata.
func (t *SendEmailTool) Metadata() Metadata {
	return Metadata{
		Name:        "EnviarEmail",
		Description: "Enviar email.",
		Parameters: []Parameter{
			{Name: "to", ParamType: "string", Description: "Destinatário", Required: true},
			{Name: "subject", ParamType: "string", Description: "Assunto", Required: true},
			{Name: "body", ParamType: "string", Description: "Corpo do e-mail", Required: true},
		},
		Terminal: false,
	}
}

type sendEmailArgs struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Execute sends the message through the Gmail API.
func (t *SendEmailTool) Execute(ctx context.Context, args json.RawMessage) Result {
	if !hasCredential(t.cred) {
		return SuccessResult(MsgNotLoggedIn)
	}

	var in sendEmailArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao enviar email: argumentos inválidos (%v)", err))
	}
	if in.To == "" {
		return SuccessResult("Erro ao enviar email: destinatário não informado.")
	}

	// Non-ASCII subjects need RFC 2047 encoding; ASCII passes through.
	subject := mime.QEncoding.Encode("utf-8", in.Subject)
	rfc822 := fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s",
		in.To, subject, in.Body)
	raw := base64.URLEncoding.EncodeToString([]byte(rfc822))

	endpoint := fmt.Sprintf("%s/users/me/messages/send", t.baseURL)
	payload := map[string]string{"raw": raw}

	client := googleClient(ctx, t.cred, t.client)
	if err := postJSON(ctx, client, endpoint, payload, nil); err != nil {
		return SuccessResult(fmt.Sprintf("Erro ao enviar email: %v", err))
	}

	return SuccessResult("Email enviado com sucesso.")
}

var (
	_ CredentialTool = (*CheckEmailTool)(nil)
	_ CredentialTool = (*SendEmailTool)(nil)
)
