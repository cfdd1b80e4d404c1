// Package tool keeps the fixed registry of lookup tools the reasoning
// service may invoke, and the executor that runs a round's batch of requests
// concurrently.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dayweave/dayweave/pkg/model"
)

// Tool is one named, schema-typed lookup capability. Execute returns the
// serialized result payload handed back to the reasoning service.
type Tool interface {
	Name() string
	Description() string
	Schema() model.JSONSchema
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Registry maps tool names to implementations. The set is fixed at process
// start and read-only afterwards; lookups during a run take no locks beyond
// the registry's own.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register inserts a tool when its name is not in use.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool is nil")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Get fetches a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.tools[name]
	return t, exists
}

// Definitions produces the tool declarations sent to the reasoning service,
// in registration order.
func (r *Registry) Definitions() []model.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]model.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, model.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema(),
		})
	}
	return defs
}

// errorPayload serializes a failure so it stays visible to the reasoning
// service instead of aborting the round. The model may retry with corrected
// arguments on its next turn.
func errorPayload(err error) string {
	data, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		return `{"error":"tool execution failed"}`
	}
	return string(data)
}
