// Tool registration and per-turn credential binding.
//
// Information Hiding:
// - Tool storage and lookup implementation hidden
// - Credential binding scope hidden behind TurnRegistry

package tools

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sharkdev/cidinha/auth"
)

// Registry manages available tools with dynamic registration.
// The registry is process-wide and shared across sessions; it never holds
// credentials. Use ForTurn to obtain a turn-scoped resolver bound to one
// session's credential.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a new tool to the registry.
// Returns error if a tool with the same name already exists.
func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Metadata().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool '%s' already registered", name)
	}
	r.tools[name] = tool
	return nil
}

// Get returns a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// Has checks if a tool exists in the registry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.tools[name]
	return exists
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for all registered tools, sorted by name.
func (r *Registry) List() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	metadata := make([]Metadata, 0, len(r.tools))
	for _, tool := range r.tools {
		metadata = append(metadata, tool.Metadata())
	}
	sort.Slice(metadata, func(i, j int) bool {
		return metadata[i].Name < metadata[j].Name
	})
	return metadata
}

// ForTurn returns a resolver bound to the given session credential for the
// duration of one turn. The credential may be nil: credential-requiring
// tools then answer with login guidance instead of calling out.
func (r *Registry) ForTurn(cred *auth.Credential) *TurnRegistry {
	return &TurnRegistry{base: r, cred: cred}
}

// TurnRegistry resolves tools for a single turn, injecting the turn's
// credential into tools that need one. It must not outlive the turn.
type TurnRegistry struct {
	base *Registry
	cred *auth.Credential
}

// Resolve returns the named tool, bound to the turn credential when the tool
// requires one. Unknown names return ErrUnknownTool.
func (t *TurnRegistry) Resolve(name string) (Tool, error) {
	tool, ok := t.base.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool '%s': %w", name, ErrUnknownTool)
	}
	if ct, ok := tool.(CredentialTool); ok {
		return ct.WithCredential(t.cred), nil
	}
	return tool, nil
}

// List returns metadata for all registered tools.
func (t *TurnRegistry) List() []Metadata {
	return t.base.List()
}
