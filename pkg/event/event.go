// Package event defines the ordered progress events emitted during a planning
// run and the SSE writer that relays them to an HTTP client.
package event

import (
	"github.com/dayweave/dayweave/pkg/plan"
)

// Type discriminates the event union.
type Type string

const (
	// TypeAgentStep announces a phase of the run, e.g. intent parsing or a
	// tool lookup about to start.
	TypeAgentStep Type = "agent_step"
	// TypeToolResult reports one completed tool invocation.
	TypeToolResult Type = "tool_result"
	// TypeFinalPlans carries the terminal plan list. Nothing follows it.
	TypeFinalPlans Type = "final_plans"
	// TypeError carries a terminal failure. Nothing follows it.
	TypeError Type = "error"
)

// Event is a tagged variant. Exactly the fields for its Type are populated;
// events are append-only and never revised after emission.
type Event struct {
	Type    Type        `json:"type"`
	Label   string      `json:"label,omitempty"`
	Tool    string      `json:"tool,omitempty"`
	Count   int         `json:"count,omitempty"`
	Plans   []plan.Plan `json:"plans,omitempty"`
	Message string      `json:"message,omitempty"`
}

// AgentStep builds a progress announcement.
func AgentStep(label string) Event {
	return Event{Type: TypeAgentStep, Label: label}
}

// ToolResult reports a completed tool call with its item count.
func ToolResult(tool string, count int) Event {
	return Event{Type: TypeToolResult, Tool: tool, Count: count}
}

// FinalPlans builds the successful terminal event.
func FinalPlans(plans []plan.Plan) Event {
	return Event{Type: TypeFinalPlans, Plans: plans}
}

// Error builds the failure terminal event.
func Error(message string) Event {
	return Event{Type: TypeError, Message: message}
}

// Terminal reports whether no further events may follow e.
func (e Event) Terminal() bool {
	return e.Type == TypeFinalPlans || e.Type == TypeError
}
