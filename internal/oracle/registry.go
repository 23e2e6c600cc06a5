package oracle

import (
	"fmt"
	"sort"
	"strings"

	"AdverseScreener/internal/ports"
)

// Registry keeps a mapping from provider identifiers to configured backends.
type Registry struct {
	models map[string]ports.ChatModel
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: map[string]ports.ChatModel{}}
}

// Register adds or replaces a backend under its provider name.
func (r *Registry) Register(model ports.ChatModel) {
	if model == nil {
		return
	}
	if r.models == nil {
		r.models = map[string]ports.ChatModel{}
	}
	r.models[strings.ToLower(model.Provider())] = model
}

// Resolve returns the backend for provider or an error if it is absent.
func (r *Registry) Resolve(provider string) (ports.ChatModel, error) {
	if model, ok := r.models[strings.ToLower(strings.TrimSpace(provider))]; ok {
		return model, nil
	}
	return nil, fmt.Errorf("llm provider %q is not registered (available: %s)", provider, strings.Join(r.Providers(), ", "))
}

// Providers lists registered provider names in sorted order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
