package executor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agenticpal/agenticpal"
)

func twoActionPlan() *agenticpal.Plan {
	return &agenticpal.Plan{Actions: []agenticpal.Action{
		{ID: "a1", Tool: "list_tasks"},
		{ID: "a2", Tool: "list_unread_emails"},
	}}
}

func TestParallel_AllActionsGetResults(t *testing.T) {
	invoke := func(_ context.Context, tool string, _ map[string]interface{}) agenticpal.Result {
		return agenticpal.Result{Success: true, Message: tool}
	}
	e := NewParallel(invoke, WithMaxWorkers(2))

	results, err := e.Execute(context.Background(), twoActionPlan(), nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results["a1"].Message != "list_tasks" || results["a2"].Message != "list_unread_emails" {
		t.Errorf("results routed to wrong actions: %+v", results)
	}
}

func TestParallel_SkipsCompletedActions(t *testing.T) {
	var mu sync.Mutex
	invoked := map[string]int{}
	invoke := func(_ context.Context, tool string, _ map[string]interface{}) agenticpal.Result {
		mu.Lock()
		invoked[tool]++
		mu.Unlock()
		return agenticpal.Result{Success: true}
	}
	e := NewParallel(invoke)

	prior := map[string]agenticpal.Result{
		"a1": {Success: true, Message: "from planning"},
	}
	results, err := e.Execute(context.Background(), twoActionPlan(), prior)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if invoked["list_tasks"] != 0 {
		t.Error("action with a prior result must not re-run")
	}
	if invoked["list_unread_emails"] != 1 {
		t.Errorf("pending action should run once, ran %d times", invoked["list_unread_emails"])
	}
	if results["a1"].Message != "from planning" {
		t.Error("prior result must be preserved")
	}
}

func TestParallel_FaultIsolation(t *testing.T) {
	invoke := func(_ context.Context, tool string, _ map[string]interface{}) agenticpal.Result {
		if tool == "list_tasks" {
			panic("boom")
		}
		return agenticpal.Result{Success: true}
	}
	e := NewParallel(invoke)

	results, err := e.Execute(context.Background(), twoActionPlan(), nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if results["a1"].Success {
		t.Error("panicking action must produce a failed result")
	}
	if !results["a2"].Success {
		t.Error("sibling action must be unaffected by the panic")
	}
}

func TestParallel_Timeout(t *testing.T) {
	invoke := func(ctx context.Context, tool string, _ map[string]interface{}) agenticpal.Result {
		if tool == "list_tasks" {
			time.Sleep(200 * time.Millisecond)
		}
		return agenticpal.Result{Success: true}
	}
	e := NewParallel(invoke, WithActionTimeout(20*time.Millisecond))

	results, err := e.Execute(context.Background(), twoActionPlan(), nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	slow := results["a1"]
	if slow.Success {
		t.Error("slow action should time out")
	}
	if slow.Error == nil || slow.Error.Kind != agenticpal.ErrKindTimeout {
		t.Errorf("expected timeout error, got %+v", slow.Error)
	}
	if slow.Message != "The operation took too long to complete." {
		t.Errorf("unexpected timeout message %q", slow.Message)
	}
	if !results["a2"].Success {
		t.Error("fast sibling must still succeed")
	}

	metrics := e.GetMetrics()
	if metrics.ActionsTimedOut != 1 {
		t.Errorf("expected 1 timed out action in metrics, got %d", metrics.ActionsTimedOut)
	}
}

func TestParallel_EmptyPlan(t *testing.T) {
	invoke := func(context.Context, string, map[string]interface{}) agenticpal.Result {
		t.Error("invoke must not be called for an empty plan")
		return agenticpal.Result{}
	}
	e := NewParallel(invoke)

	results, err := e.Execute(context.Background(), &agenticpal.Plan{}, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %v", results)
	}
}
