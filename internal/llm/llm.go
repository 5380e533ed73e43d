// Package llm defines the model contracts the orchestrator depends on.
// Concrete providers live in internal/adapters; tests use scripted fakes.
package llm

import "context"

// Message roles in a model dialogue.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	Ref  string                 `json:"ref,omitempty"`
	Name string                 `json:"name"`
	Args map[string]interface{} `json:"args"`
}

// Message is one turn in a model dialogue. Assistant messages may carry tool
// calls; tool messages carry the JSON-encoded response to a prior call.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallRef links a tool-role message back to the call it answers.
	ToolCallRef string `json:"tool_call_ref,omitempty"`
	// ToolName names the tool a tool-role message responds for.
	ToolName string `json:"tool_name,omitempty"`
}

// ParamSchema describes a single tool parameter.
type ParamSchema struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ToolSpec describes a tool exposed to a tool-calling model.
type ToolSpec struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]ParamSchema `json:"parameters"`
	Required    []string               `json:"required,omitempty"`
}

// ToolCallingModel is a chat model that can request tool invocations.
// Generate returns the model's next message; when the message carries tool
// calls the caller executes them and continues the dialogue.
type ToolCallingModel interface {
	Generate(ctx context.Context, system string, messages []Message, tools []ToolSpec) (*Message, error)
}

// TextModel produces a plain text completion for a dialogue.
type TextModel interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// PlannedCall is one meta-operation extracted by a structured planner model.
type PlannedCall struct {
	Operation string                 `json:"operation"`
	Params    map[string]interface{} `json:"params"`
}

// StructuredPlannerModel extracts a full list of meta-operation calls in a
// single model turn instead of an iterative dialogue.
type StructuredPlannerModel interface {
	PlanCalls(ctx context.Context, system, user string) ([]PlannedCall, error)
}
