package planner

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/dates"
	"github.com/agenticpal/agenticpal/internal/llm"
	"github.com/agenticpal/agenticpal/internal/services"
	"github.com/agenticpal/agenticpal/internal/tools"
)

// scriptedModel replays a fixed sequence of responses and records the
// messages it was given.
type scriptedModel struct {
	responses []llm.Message
	turn      int
	seen      [][]llm.Message
	err       error
}

func (m *scriptedModel) Generate(_ context.Context, _ string, messages []llm.Message, _ []llm.ToolSpec) (*llm.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	copied := make([]llm.Message, len(messages))
	copy(copied, messages)
	m.seen = append(m.seen, copied)

	if m.turn >= len(m.responses) {
		return &llm.Message{Role: llm.RoleAssistant, Content: "done"}, nil
	}
	resp := m.responses[m.turn]
	m.turn++
	return &resp, nil
}

func testFacadeFactory(t *testing.T) FacadeFactory {
	t.Helper()
	catalog, err := tools.NewCatalog(tools.DefaultDefinitions())
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	resolver, err := dates.NewResolver("UTC")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	bindings := tools.NewProductivityBindings(
		services.NewMemoryCalendar(),
		services.NewMemoryTasks(),
		services.NewMemoryMail(),
		resolver,
	)
	invoker, err := tools.NewInvoker(catalog, bindings)
	if err != nil {
		t.Fatalf("NewInvoker failed: %v", err)
	}
	return func() *tools.Facade {
		return tools.NewFacade(catalog, invoker)
	}
}

func toolCall(ref, name string, args map[string]interface{}) llm.Message {
	return llm.Message{
		Role:      llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{{Ref: ref, Name: name, Args: args}},
	}
}

func TestLoop_DiscoverThenInvoke(t *testing.T) {
	model := &scriptedModel{responses: []llm.Message{
		toolCall("c1", tools.MetaDiscover, map[string]interface{}{
			"categories": []interface{}{"tasks"},
		}),
		toolCall("c2", tools.MetaInvoke, map[string]interface{}{
			"tool_name":  "list_tasks",
			"parameters": map[string]interface{}{},
		}),
	}}
	p := NewLoop(model, testFacadeFactory(t))

	output, err := p.PlanActions(context.Background(), "what's on my list?", nil)
	if err != nil {
		t.Fatalf("PlanActions failed: %v", err)
	}

	if len(output.Plan.Actions) != 1 || output.Plan.Actions[0].Tool != "list_tasks" {
		t.Fatalf("expected one list_tasks action, got %+v", output.Plan.Actions)
	}
	if _, ok := output.Results["a1"]; !ok {
		t.Error("read action executed during planning should carry a result")
	}
	if len(output.DiscoveredTools) == 0 {
		t.Error("discovery should record tool names")
	}
	if output.Plan.RequiresConfirmation {
		t.Error("read-only plan must not require confirmation")
	}
}

func TestLoop_DestructiveInvocationIsPending(t *testing.T) {
	model := &scriptedModel{responses: []llm.Message{
		toolCall("c1", tools.MetaInvoke, map[string]interface{}{
			"tool_name":  "delete_task",
			"parameters": map[string]interface{}{"task_id": "t-1"},
		}),
	}}
	p := NewLoop(model, testFacadeFactory(t))

	output, err := p.PlanActions(context.Background(), "delete my dentist task", nil)
	if err != nil {
		t.Fatalf("PlanActions failed: %v", err)
	}
	if !output.Plan.RequiresConfirmation {
		t.Error("destructive plan must require confirmation")
	}
	if len(output.Results) != 0 {
		t.Error("destructive action must not execute during planning")
	}

	// The model saw the pending envelope as the tool response.
	last := model.seen[1]
	toolMsg := last[len(last)-1]
	if toolMsg.Role != llm.RoleTool {
		t.Fatalf("expected tool message, got role %s", toolMsg.Role)
	}
	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(toolMsg.Content), &envelope); err != nil {
		t.Fatalf("tool message is not JSON: %v", err)
	}
	if envelope["status"] != "pending_confirmation" {
		t.Errorf("expected pending_confirmation envelope, got %v", envelope)
	}
}

func TestLoop_UnknownMetaToolIsFedBack(t *testing.T) {
	model := &scriptedModel{responses: []llm.Message{
		toolCall("c1", "fetch_weather", nil),
	}}
	p := NewLoop(model, testFacadeFactory(t))

	if _, err := p.PlanActions(context.Background(), "weather?", nil); err != nil {
		t.Fatalf("PlanActions failed: %v", err)
	}

	last := model.seen[1]
	toolMsg := last[len(last)-1]
	if !strings.Contains(toolMsg.Content, "Unknown meta-tool: fetch_weather") {
		t.Errorf("model should see the unknown meta-tool error, got %q", toolMsg.Content)
	}
}

func TestLoop_IterationCapDegradesToPartialPlan(t *testing.T) {
	// The model calls tools forever; the loop must stop at the cap and
	// return whatever accumulated.
	endless := make([]llm.Message, 20)
	for i := range endless {
		endless[i] = toolCall("c", tools.MetaInvoke, map[string]interface{}{
			"tool_name":  "list_tasks",
			"parameters": map[string]interface{}{},
		})
	}
	model := &scriptedModel{responses: endless}
	p := NewLoop(model, testFacadeFactory(t), WithMaxIterations(3))

	output, err := p.PlanActions(context.Background(), "busy work", nil)
	if err != nil {
		t.Fatalf("PlanActions failed: %v", err)
	}
	if model.turn != 3 {
		t.Errorf("expected exactly 3 model turns, got %d", model.turn)
	}
	if len(output.Plan.Actions) != 3 {
		t.Errorf("expected 3 accumulated actions, got %d", len(output.Plan.Actions))
	}
}

func TestLoop_ModelErrorIsPlanGenerationError(t *testing.T) {
	model := &scriptedModel{err: context.DeadlineExceeded}
	p := NewLoop(model, testFacadeFactory(t))

	_, err := p.PlanActions(context.Background(), "hello", nil)
	if err == nil {
		t.Fatal("expected plan generation error")
	}
	ae, ok := err.(*agenticpal.AgentError)
	if !ok || ae.Code != agenticpal.ErrCodePlanGeneration {
		t.Errorf("expected PLAN_GENERATION_ERROR, got %v", err)
	}
}

func TestLoop_HistoryWindow(t *testing.T) {
	model := &scriptedModel{}
	p := NewLoop(model, testFacadeFactory(t), WithHistoryWindow(2))

	history := []agenticpal.HistoryTurn{
		{Role: agenticpal.RoleUser, Content: "one"},
		{Role: agenticpal.RoleAssistant, Content: "two"},
		{Role: agenticpal.RoleUser, Content: "three"},
		{Role: agenticpal.RoleAssistant, Content: "four"},
	}
	if _, err := p.PlanActions(context.Background(), "now", nil); err != nil {
		t.Fatalf("PlanActions failed: %v", err)
	}
	model.seen = nil
	if _, err := p.PlanActions(context.Background(), "now", history); err != nil {
		t.Fatalf("PlanActions failed: %v", err)
	}

	first := model.seen[0]
	// 2 history turns + the current message.
	if len(first) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(first))
	}
	if first[0].Content != "three" || first[1].Content != "four" {
		t.Errorf("history window should keep the most recent turns, got %+v", first[:2])
	}
}

func TestStructured_ReplaysCalls(t *testing.T) {
	model := &structuredScript{calls: []llm.PlannedCall{
		{Operation: tools.MetaInvoke, Params: map[string]interface{}{
			"tool_name":  "list_tasks",
			"parameters": map[string]interface{}{},
		}},
		{Operation: tools.MetaInvoke, Params: map[string]interface{}{
			"tool_name":  "delete_task",
			"parameters": map[string]interface{}{"task_id": "t-1"},
		}},
	}}
	p := NewStructured(model, testFacadeFactory(t))

	output, err := p.PlanActions(context.Background(), "clean up my tasks", nil)
	if err != nil {
		t.Fatalf("PlanActions failed: %v", err)
	}
	if len(output.Plan.Actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(output.Plan.Actions))
	}
	if !output.Plan.RequiresConfirmation {
		t.Error("plan with a delete must require confirmation")
	}
}

type structuredScript struct {
	calls []llm.PlannedCall
	err   error
}

func (m *structuredScript) PlanCalls(_ context.Context, _ string, _ string) ([]llm.PlannedCall, error) {
	return m.calls, m.err
}
