// Package tools provides the tool system for the assistant.
//
// Information Hiding:
// - Tool execution details hidden behind interface
// - Tool parameters and schemas hidden in implementations
// - Registry implementation details hidden from consumers
// - Error handling internalized per tool
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sharkdev/cidinha/auth"
)

// ErrUnknownTool is returned when a requested tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// MsgLogin is shown when a calendar tool runs without a credential.
const MsgLogin = "Pra te mostrar sua agenda eu preciso que você esteja logado no Google Calendar.\n" +
	"Por favor, faça o seguinte:\n" +
	"1. Vá até a barra lateral do painel onde você está usando a Cidinha.\n" +
	"2. Clique para conectar / fazer login no Google Calendar com a sua conta.\n" +
	"Depois de logar, me manda de novo: 'Minha agenda' ou o período que você quer."

// MsgNotLoggedIn is shown when a mail tool runs without a credential.
const MsgNotLoggedIn = "Usuário não logado."

// failureMarkers are substrings that mark a tool output as a failure even
// though the tool returned text normally. A marked result sends control back
// to the model so it can retry with adjusted arguments instead of surfacing
// the raw failure.
var failureMarkers = []string{
	"erro técnico",
	"erro ao",
	"não foi possível",
	"falha ao",
}

// IsFailureText reports whether a tool output signals an internal failure.
func IsFailureText(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range failureMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Parameter defines a parameter schema for a tool.
type Parameter struct {
	Name        string      `json:"name"`
	ParamType   string      `json:"param_type"`
	Description string      `json:"description"`
	Required    bool        `json:"required"`
	Properties  []Parameter `json:"properties,omitempty"` // For object parameters
}

// Metadata describes what a tool does and how to use it.
// Terminal tools end the turn on success: their output goes straight to the
// user without a further model round.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Terminal    bool        `json:"terminal"`
}

// String returns a string representation of the tool metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s: %s", m.Name, m.Description)
}

// Schema returns the parameters as a JSON-Schema object for model tool
// definitions.
func (m Metadata) Schema() map[string]interface{} {
	properties := make(map[string]interface{}, len(m.Parameters))
	var required []string
	for _, p := range m.Parameters {
		properties[p.Name] = p.schema()
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func (p Parameter) schema() map[string]interface{} {
	s := map[string]interface{}{
		"type":        p.ParamType,
		"description": p.Description,
	}
	if p.ParamType == "object" && len(p.Properties) > 0 {
		nested := make(map[string]interface{}, len(p.Properties))
		for _, sub := range p.Properties {
			nested[sub.Name] = sub.schema()
		}
		s["properties"] = nested
	}
	if p.ParamType == "array" {
		s["items"] = map[string]interface{}{"type": "string"}
	}
	return s
}

// Result represents the result of a tool execution.
// Expected domain failures ride as text in Output so the model can react;
// Err is reserved for infrastructure problems (bad arguments, cancellation).
type Result struct {
	Output string `json:"output"`
	Err    error  `json:"-"`
}

// Success returns true if the tool execution produced usable output.
func (r Result) Success() bool {
	return r.Err == nil
}

// Text returns the result as text suitable for a tool-result message.
func (r Result) Text() string {
	if r.Err != nil {
		return fmt.Sprintf("Erro técnico: %v", r.Err)
	}
	return r.Output
}

// Failed reports whether the result should be treated as a failure, either
// because Err is set or because the output carries a failure marker.
func (r Result) Failed() bool {
	return r.Err != nil || IsFailureText(r.Output)
}

// SuccessResult creates a successful tool result.
func SuccessResult(output string) Result {
	return Result{Output: output}
}

// FailureResult creates a failed tool result.
func FailureResult(err error) Result {
	return Result{Err: err}
}

// FailureResultf creates a failed tool result with a formatted error message.
func FailureResultf(format string, args ...interface{}) Result {
	return Result{Err: fmt.Errorf(format, args...)}
}

// Tool is the interface that all tools must implement.
//
// Execute never panics and never returns a Go error for expected domain
// failures; those come back as descriptive output text.
type Tool interface {
	// Metadata returns tool metadata (name, description, parameters, terminal flag).
	Metadata() Metadata

	// Execute runs the tool with given arguments.
	Execute(ctx context.Context, args json.RawMessage) Result
}

// CredentialTool is a tool that needs a per-turn delegated credential.
// WithCredential returns a turn-scoped copy; the shared registered instance
// never retains the credential.
type CredentialTool interface {
	Tool
	WithCredential(cred *auth.Credential) Tool
}
