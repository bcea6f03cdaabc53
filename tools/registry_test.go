package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sharkdev/cidinha/auth"
)

// fakeTool is a minimal tool for registry tests.
type fakeTool struct {
	name string
}

func (f *fakeTool) Metadata() Metadata {
	return Metadata{Name: f.name, Description: "fake"}
}

func (f *fakeTool) Execute(ctx context.Context, args json.RawMessage) Result {
	return SuccessResult("ok")
}

// fakeCredTool records the credential it was bound with.
type fakeCredTool struct {
	fakeTool
	cred *auth.Credential
}

func (f *fakeCredTool) WithCredential(cred *auth.Credential) Tool {
	bound := *f
	bound.cred = cred
	return &bound
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&fakeTool{name: "A"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := registry.Register(&fakeTool{name: "A"}); err == nil {
		t.Error("expected error registering duplicate tool name")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"Zeta", "Alfa", "Meio"} {
		if err := registry.Register(&fakeTool{name: name}); err != nil {
			t.Fatal(err)
		}
	}

	names := registry.Names()
	want := []string{"Alfa", "Meio", "Zeta"}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], name)
		}
	}
}

func TestTurnRegistryResolveUnknown(t *testing.T) {
	registry := NewRegistry()
	turn := registry.ForTurn(nil)

	_, err := turn.Resolve("Inexistente")
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", err)
	}
}

func TestTurnRegistryBindsCredential(t *testing.T) {
	registry := NewRegistry()
	shared := &fakeCredTool{fakeTool: fakeTool{name: "ConsultaX"}}
	if err := registry.Register(shared); err != nil {
		t.Fatal(err)
	}

	cred := &auth.Credential{AccessToken: "token-da-sessao"}
	turn := registry.ForTurn(cred)

	resolved, err := turn.Resolve("ConsultaX")
	if err != nil {
		t.Fatal(err)
	}
	bound, ok := resolved.(*fakeCredTool)
	if !ok {
		t.Fatalf("resolved tool has type %T", resolved)
	}
	if bound.cred != cred {
		t.Error("turn credential not bound to resolved tool")
	}

	// The shared registered instance must never retain the credential.
	if shared.cred != nil {
		t.Error("credential leaked into shared tool instance")
	}

	// A later turn without a credential must not see the old one.
	later, err := registry.ForTurn(nil).Resolve("ConsultaX")
	if err != nil {
		t.Fatal(err)
	}
	if later.(*fakeCredTool).cred != nil {
		t.Error("credential retained across turns")
	}
}

func TestTurnRegistryPassesThroughPlainTools(t *testing.T) {
	registry := NewRegistry()
	plain := &fakeTool{name: "Simples"}
	if err := registry.Register(plain); err != nil {
		t.Fatal(err)
	}

	resolved, err := registry.ForTurn(&auth.Credential{AccessToken: "x"}).Resolve("Simples")
	if err != nil {
		t.Fatal(err)
	}
	if resolved != Tool(plain) {
		t.Error("plain tool should resolve to the shared instance")
	}
}
