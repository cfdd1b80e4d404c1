package model

import "context"

// Provider is the reasoning-service client. One Complete call is one round:
// it submits the full conversation plus the fixed tool declarations and
// returns the assistant's next turn.
//
// Implementations are read-only process-wide singletons; all per-run state
// lives in the message slice owned by the caller.
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message, tools []ToolDefinition) (Message, error)
}

// ToolDefinition declares one tool to the reasoning service: a name, a
// natural-language description, and a JSON-schema parameter declaration.
// The set is fixed at process start.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"input_schema"`
}

// JSONSchema captures the subset of JSON Schema needed for tool parameters.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one schema field.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}
