package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/agenticpal/agenticpal"
)

func TestInvoker_UnknownTool(t *testing.T) {
	catalog := testCatalog(t)
	inv, err := NewInvoker(catalog, nil)
	if err != nil {
		t.Fatalf("NewInvoker failed: %v", err)
	}

	res := inv.Invoke(context.Background(), "launch_rocket", nil)
	if res.Success {
		t.Error("unknown tool must fail")
	}
	if res.Error == nil || res.Error.Kind != agenticpal.ErrKindUnknownTool {
		t.Errorf("expected unknown_tool error, got %+v", res.Error)
	}
	if res.Message != "Unknown tool: launch_rocket" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestInvoker_RejectsBindingForUnknownTool(t *testing.T) {
	catalog := testCatalog(t)
	bindings := map[string]ToolFunc{
		"launch_rocket": func(context.Context, map[string]interface{}) agenticpal.Result {
			return agenticpal.Result{Success: true}
		},
	}
	if _, err := NewInvoker(catalog, bindings); err == nil {
		t.Fatal("expected error for binding to unknown tool")
	}
}

func TestInvoker_MissingRequiredParameter(t *testing.T) {
	catalog := testCatalog(t)
	inv, _ := NewInvoker(catalog, nil)

	res := inv.Invoke(context.Background(), "delete_task", map[string]interface{}{})
	if res.Success || res.Error == nil || res.Error.Kind != agenticpal.ErrKindValidation {
		t.Fatalf("expected validation failure, got %+v", res)
	}
	if !strings.Contains(res.Message, "task_id") {
		t.Errorf("message should name the missing parameter, got %q", res.Message)
	}
}

func TestInvoker_IntegerBounds(t *testing.T) {
	catalog := testCatalog(t)
	called := false
	bindings := map[string]ToolFunc{
		"list_tasks": func(_ context.Context, args map[string]interface{}) agenticpal.Result {
			called = true
			return agenticpal.Result{Success: true}
		},
	}
	inv, _ := NewInvoker(catalog, bindings)

	res := inv.Invoke(context.Background(), "list_tasks", map[string]interface{}{
		"max_results": float64(10000),
	})
	if res.Success {
		t.Error("out-of-bounds integer must fail validation")
	}
	if called {
		t.Error("binding must not run on validation failure")
	}

	res = inv.Invoke(context.Background(), "list_tasks", map[string]interface{}{
		"max_results": float64(10),
	})
	if !res.Success {
		t.Errorf("whole float should coerce to int, got %+v", res)
	}
}

func TestInvoker_AppliesDefaults(t *testing.T) {
	catalog := testCatalog(t)
	var gotArgs map[string]interface{}
	bindings := map[string]ToolFunc{
		"summarize_weekly_emails": func(_ context.Context, args map[string]interface{}) agenticpal.Result {
			gotArgs = args
			return agenticpal.Result{Success: true}
		},
	}
	inv, _ := NewInvoker(catalog, bindings)

	if res := inv.Invoke(context.Background(), "summarize_weekly_emails", nil); !res.Success {
		t.Fatalf("invoke failed: %+v", res)
	}
	if gotArgs["days"] != 7 {
		t.Errorf("expected default days=7, got %v", gotArgs["days"])
	}
}

func TestInvoker_DropsUnknownArguments(t *testing.T) {
	catalog := testCatalog(t)
	var gotArgs map[string]interface{}
	bindings := map[string]ToolFunc{
		"list_tasks": func(_ context.Context, args map[string]interface{}) agenticpal.Result {
			gotArgs = args
			return agenticpal.Result{Success: true}
		},
	}
	inv, _ := NewInvoker(catalog, bindings)

	inv.Invoke(context.Background(), "list_tasks", map[string]interface{}{
		"bogus": "value",
	})
	if _, ok := gotArgs["bogus"]; ok {
		t.Error("unknown argument should be dropped")
	}
}

func TestInvoker_RecoversFromPanic(t *testing.T) {
	catalog := testCatalog(t)
	bindings := map[string]ToolFunc{
		"list_tasks": func(context.Context, map[string]interface{}) agenticpal.Result {
			panic("boom")
		},
	}
	inv, _ := NewInvoker(catalog, bindings)

	res := inv.Invoke(context.Background(), "list_tasks", nil)
	if res.Success {
		t.Error("panicking binding must produce a failed result")
	}
	if res.Error == nil || res.Error.Kind != agenticpal.ErrKindExecution {
		t.Errorf("expected execution error, got %+v", res.Error)
	}
}

func TestInvoker_MissingBinding(t *testing.T) {
	catalog := testCatalog(t)
	inv, _ := NewInvoker(catalog, map[string]ToolFunc{})

	res := inv.Invoke(context.Background(), "list_tasks", nil)
	if res.Success || res.Error == nil || res.Error.Kind != agenticpal.ErrKindExecution {
		t.Fatalf("expected execution failure for missing binding, got %+v", res)
	}
}
