// Package adapters bridges external model providers to the narrow model
// interfaces the planner and synthesizer consume.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/agenticpal/agenticpal/internal/llm"
)

// GenkitModel adapts a Genkit instance to the tool-calling, text, and
// structured planner model interfaces. Tool requests are returned to the
// caller rather than executed by Genkit, so the planning loop stays in
// charge of dispatch.
type GenkitModel struct {
	g         *genkit.Genkit
	modelName string
}

// GenkitOption configures the adapter.
type GenkitOption func(*GenkitModel)

// WithModelName overrides the instance's default model for every call.
func WithModelName(name string) GenkitOption {
	return func(m *GenkitModel) {
		m.modelName = name
	}
}

// NewGenkitModel creates an adapter over an initialized Genkit instance.
func NewGenkitModel(g *genkit.Genkit, opts ...GenkitOption) *GenkitModel {
	m := &GenkitModel{g: g}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Generate runs one tool-calling turn and maps the response back, including
// any tool requests the model emitted.
func (m *GenkitModel) Generate(ctx context.Context, system string, messages []llm.Message, tools []llm.ToolSpec) (*llm.Message, error) {
	genOpts := []ai.GenerateOption{
		ai.WithSystem(system),
		ai.WithMessages(toGenkitMessages(messages)...),
		ai.WithTools(m.toolRefs(tools)...),
		ai.WithReturnToolRequests(true),
	}
	if m.modelName != "" {
		genOpts = append(genOpts, ai.WithModelName(m.modelName))
	}

	resp, err := genkit.Generate(ctx, m.g, genOpts...)
	if err != nil {
		return nil, fmt.Errorf("genkit generate: %w", err)
	}
	return fromGenkitMessage(resp), nil
}

// Complete runs a plain text turn.
func (m *GenkitModel) Complete(ctx context.Context, system string, messages []llm.Message) (string, error) {
	genOpts := []ai.GenerateOption{
		ai.WithSystem(system),
		ai.WithMessages(toGenkitMessages(messages)...),
	}
	if m.modelName != "" {
		genOpts = append(genOpts, ai.WithModelName(m.modelName))
	}

	resp, err := genkit.Generate(ctx, m.g, genOpts...)
	if err != nil {
		return "", fmt.Errorf("genkit generate: %w", err)
	}
	return resp.Text(), nil
}

// PlanCalls runs a single-shot turn and parses the JSON call list from the
// model's text output.
func (m *GenkitModel) PlanCalls(ctx context.Context, system string, user string) ([]llm.PlannedCall, error) {
	text, err := m.Complete(ctx, system, []llm.Message{{Role: llm.RoleUser, Content: user}})
	if err != nil {
		return nil, err
	}

	var calls []llm.PlannedCall
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &calls); err != nil {
		return nil, fmt.Errorf("decode planned calls: %w", err)
	}
	return calls, nil
}

// toolRefs resolves or lazily defines Genkit tools for the given specs. The
// tool functions never run because tool requests are returned to the caller;
// the definitions exist so the model sees names, descriptions, and
// parameters.
func (m *GenkitModel) toolRefs(tools []llm.ToolSpec) []ai.ToolRef {
	refs := make([]ai.ToolRef, 0, len(tools))
	for _, spec := range tools {
		if existing := genkit.LookupTool(m.g, spec.Name); existing != nil {
			refs = append(refs, existing)
			continue
		}
		tool := genkit.DefineTool(m.g, spec.Name, describeSpec(spec),
			func(ctx *ai.ToolContext, input map[string]any) (any, error) {
				return nil, fmt.Errorf("tool requests are dispatched by the planner")
			})
		refs = append(refs, tool)
	}
	return refs
}

// describeSpec folds parameter documentation into the tool description so
// the model sees argument names and types even with a loose input schema.
func describeSpec(spec llm.ToolSpec) string {
	if len(spec.Parameters) == 0 {
		return spec.Description
	}

	required := make(map[string]bool, len(spec.Required))
	for _, name := range spec.Required {
		required[name] = true
	}

	var b strings.Builder
	b.WriteString(spec.Description)
	b.WriteString("\nParameters:")
	for name, param := range spec.Parameters {
		fmt.Fprintf(&b, "\n- %s (%s", name, param.Type)
		if required[name] {
			b.WriteString(", required")
		}
		fmt.Fprintf(&b, "): %s", param.Description)
	}
	return b.String()
}

func toGenkitMessages(messages []llm.Message) []*ai.Message {
	out := make([]*ai.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleTool:
			var output any
			if err := json.Unmarshal([]byte(msg.Content), &output); err != nil {
				output = msg.Content
			}
			out = append(out, ai.NewMessage(ai.RoleTool, nil, ai.NewToolResponsePart(&ai.ToolResponse{
				Ref:    msg.ToolCallRef,
				Name:   msg.ToolName,
				Output: output,
			})))
		case llm.RoleAssistant:
			parts := make([]*ai.Part, 0, len(msg.ToolCalls)+1)
			if msg.Content != "" {
				parts = append(parts, ai.NewTextPart(msg.Content))
			}
			for _, call := range msg.ToolCalls {
				parts = append(parts, ai.NewToolRequestPart(&ai.ToolRequest{
					Ref:   call.Ref,
					Name:  call.Name,
					Input: call.Args,
				}))
			}
			out = append(out, ai.NewMessage(ai.RoleModel, nil, parts...))
		default:
			out = append(out, ai.NewUserTextMessage(msg.Content))
		}
	}
	return out
}

func fromGenkitMessage(resp *ai.ModelResponse) *llm.Message {
	msg := &llm.Message{Role: llm.RoleAssistant}
	if resp.Message == nil {
		return msg
	}

	var text strings.Builder
	for _, part := range resp.Message.Content {
		switch {
		case part.IsToolRequest():
			msg.ToolCalls = append(msg.ToolCalls, llm.ToolCall{
				Ref:  part.ToolRequest.Ref,
				Name: part.ToolRequest.Name,
				Args: coerceArgs(part.ToolRequest.Input),
			})
		case part.IsText():
			text.WriteString(part.Text)
		}
	}
	msg.Content = text.String()
	return msg
}

// coerceArgs normalizes a tool request input into the argument map the
// dispatcher expects.
func coerceArgs(input any) map[string]any {
	switch v := input.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		return v
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return map[string]any{}
		}
		args := map[string]any{}
		if err := json.Unmarshal(raw, &args); err != nil {
			return map[string]any{}
		}
		return args
	}
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models wrap around JSON output despite instructions.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
