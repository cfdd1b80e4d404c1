// Package model defines the boundary to the reasoning service: conversation
// messages, tool invocation requests, and the provider interface that turns a
// conversation into either a terminal text response or a set of tool calls.
package model

// Message represents a single conversational turn exchanged with the model.
type Message struct {
	Role        string
	Content     string
	ToolCalls   []ToolCall
	ToolOutputs []ToolOutput
}

// ToolCall captures a tool invocation requested by an assistant message. The
// ID is assigned by the reasoning service and is unique within a round.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolOutput carries the serialized result of one tool call back to the
// model, keyed by the originating request ID.
type ToolOutput struct {
	ID      string
	Name    string
	Content string
}

// UserMessage builds a plain user turn.
func UserMessage(text string) Message {
	return Message{Role: "user", Content: text}
}

// ToolResultMessage packs a batch of tool outputs into the single user turn
// that closes a round.
func ToolResultMessage(outputs []ToolOutput) Message {
	return Message{Role: "user", ToolOutputs: outputs}
}

// HasToolCalls reports whether the message requests any tool executions. A
// response without tool calls is a terminal turn.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
