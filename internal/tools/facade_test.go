package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/dates"
	"github.com/agenticpal/agenticpal/internal/services"
)

func testFacade(t *testing.T) *Facade {
	t.Helper()
	catalog := testCatalog(t)
	resolver, err := dates.NewResolver("UTC")
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	bindings := NewProductivityBindings(
		services.NewMemoryCalendar(),
		services.NewMemoryTasks(),
		services.NewMemoryMail(),
		resolver,
	)
	invoker, err := NewInvoker(catalog, bindings)
	if err != nil {
		t.Fatalf("NewInvoker failed: %v", err)
	}
	return NewFacade(catalog, invoker)
}

func TestFacade_UnknownMetaTool(t *testing.T) {
	f := testFacade(t)
	out, ok := f.Dispatch(context.Background(), "launch_rocket", nil).(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %T", out)
	}
	if out["error"] != "Unknown meta-tool: launch_rocket" {
		t.Errorf("unexpected error message %v", out["error"])
	}
}

func TestFacade_DiscoverRecordsToolNames(t *testing.T) {
	f := testFacade(t)
	out, ok := f.Dispatch(context.Background(), MetaDiscover, map[string]interface{}{
		"categories": []interface{}{"tasks"},
	}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected map result, got %T", out)
	}
	if out["count"].(int) != 7 {
		t.Errorf("expected 7 task tools, got %v", out["count"])
	}
	if hint, _ := out["hint"].(string); !strings.Contains(hint, "get_tool_schema") {
		t.Errorf("unexpected hint %q", hint)
	}

	_, _, discovered := f.Snapshot()
	if len(discovered) != 7 {
		t.Errorf("expected 7 discovered tools, got %v", discovered)
	}
}

func TestFacade_DescribeUnknownTool(t *testing.T) {
	f := testFacade(t)
	out, ok := f.Dispatch(context.Background(), MetaDescribe, map[string]interface{}{
		"tool_name": "launch_rocket",
	}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %T", out)
	}
	if out["error"] != "Unknown tool: launch_rocket" {
		t.Errorf("unexpected error %v", out["error"])
	}
	if out["hint"] != "Use discover_tools to find available tools" {
		t.Errorf("unexpected hint %v", out["hint"])
	}
}

func TestFacade_InvokeReadExecutesImmediately(t *testing.T) {
	f := testFacade(t)
	out, ok := f.Dispatch(context.Background(), MetaInvoke, map[string]interface{}{
		"tool_name":  "list_tasks",
		"parameters": map[string]interface{}{},
	}).(agenticpal.Result)
	if !ok {
		t.Fatalf("expected Result, got %T", out)
	}
	if !out.Success {
		t.Errorf("list_tasks should succeed, got %+v", out)
	}

	plan, results, _ := f.Snapshot()
	if len(plan.Actions) != 1 || plan.Actions[0].ID != "a1" {
		t.Fatalf("expected recorded action a1, got %+v", plan.Actions)
	}
	if _, ok := results["a1"]; !ok {
		t.Error("read result should be stored under its action id")
	}
	if plan.RequiresConfirmation {
		t.Error("read-only plan must not require confirmation")
	}
}

func TestFacade_InvokeDestructiveIsStashed(t *testing.T) {
	f := testFacade(t)
	out, ok := f.Dispatch(context.Background(), MetaInvoke, map[string]interface{}{
		"tool_name":  "delete_task",
		"parameters": map[string]interface{}{"task_id": "t-1"},
	}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected pending envelope, got %T", out)
	}
	if out["status"] != "pending_confirmation" {
		t.Errorf("expected pending_confirmation status, got %v", out["status"])
	}
	if out["message"] != "This will delete task. Please confirm." {
		t.Errorf("unexpected message %v", out["message"])
	}

	plan, results, _ := f.Snapshot()
	if !plan.RequiresConfirmation {
		t.Error("plan with a destructive action must require confirmation")
	}
	if len(plan.Actions) != 1 || !plan.Actions[0].PendingConfirmation {
		t.Fatalf("expected one pending action, got %+v", plan.Actions)
	}
	if len(results) != 0 {
		t.Error("destructive action must not execute during planning")
	}
}

func TestFacade_InvokeWithDependencyIsDeferred(t *testing.T) {
	f := testFacade(t)
	f.Dispatch(context.Background(), MetaInvoke, map[string]interface{}{
		"tool_name":  "search_emails",
		"parameters": map[string]interface{}{"query": "invoice"},
	})
	out, ok := f.Dispatch(context.Background(), MetaInvoke, map[string]interface{}{
		"tool_name":  "get_email_details",
		"parameters": map[string]interface{}{"message_id": "a1"},
		"depends_on": []interface{}{"a1"},
	}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected deferred envelope, got %T", out)
	}
	if out["status"] != "deferred" {
		t.Errorf("expected deferred status, got %v", out["status"])
	}

	plan, results, _ := f.Snapshot()
	if len(plan.Actions) != 2 {
		t.Fatalf("expected 2 recorded actions, got %d", len(plan.Actions))
	}
	if got := plan.Actions[1].DependsOn; len(got) != 1 || got[0] != "a1" {
		t.Errorf("expected dependency on a1, got %v", got)
	}
	if _, ok := results["a2"]; ok {
		t.Error("deferred action must not have a result yet")
	}
}

func TestFacade_SequentialActionIDs(t *testing.T) {
	f := testFacade(t)
	ctx := context.Background()
	f.Dispatch(ctx, MetaInvoke, map[string]interface{}{"tool_name": "list_tasks"})
	f.Dispatch(ctx, MetaInvoke, map[string]interface{}{"tool_name": "list_unread_emails"})
	f.Dispatch(ctx, MetaInvoke, map[string]interface{}{"tool_name": "get_task_lists"})

	plan, _, _ := f.Snapshot()
	want := []string{"a1", "a2", "a3"}
	for i, a := range plan.Actions {
		if a.ID != want[i] {
			t.Errorf("action %d id = %s, want %s", i, a.ID, want[i])
		}
	}
}
