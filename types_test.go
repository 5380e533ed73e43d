package agenticpal

import "testing"

func TestPlanValidate(t *testing.T) {
	plan := &Plan{Actions: []Action{
		{ID: "a1", Tool: "search_emails"},
		{ID: "a2", Tool: "get_email_details", DependsOn: []string{"a1"}},
	}}
	if err := plan.Validate(); err != nil {
		t.Fatalf("expected valid plan, got %v", err)
	}
}

func TestPlanValidate_EmptyID(t *testing.T) {
	plan := &Plan{Actions: []Action{{Tool: "list_tasks"}}}
	err := plan.Validate()
	if err == nil {
		t.Fatal("expected error for empty action id")
	}
	assertErrorCode(t, err, ErrCodePlanStructure)
}

func TestPlanValidate_DuplicateID(t *testing.T) {
	plan := &Plan{Actions: []Action{
		{ID: "a1", Tool: "list_tasks"},
		{ID: "a1", Tool: "list_tasks"},
	}}
	if err := plan.Validate(); err == nil {
		t.Fatal("expected error for duplicate action id")
	}
}

func TestPlanValidate_UnknownDependency(t *testing.T) {
	plan := &Plan{Actions: []Action{
		{ID: "a1", Tool: "get_email_details", DependsOn: []string{"a9"}},
	}}
	if err := plan.Validate(); err == nil {
		t.Fatal("expected error for unknown dependency")
	}
}

func TestPlanValidate_Cycle(t *testing.T) {
	plan := &Plan{Actions: []Action{
		{ID: "a1", Tool: "list_tasks", DependsOn: []string{"a2"}},
		{ID: "a2", Tool: "list_tasks", DependsOn: []string{"a1"}},
	}}
	err := plan.Validate()
	if err == nil {
		t.Fatal("expected error for dependency cycle")
	}
	assertErrorCode(t, err, ErrCodePlanStructure)
}

func TestPlanPendingActions(t *testing.T) {
	plan := &Plan{Actions: []Action{
		{ID: "a1", Tool: "search_emails"},
		{ID: "a2", Tool: "delete_task", PendingConfirmation: true},
	}}
	pending := plan.PendingActions()
	if len(pending) != 1 || pending[0].ID != "a2" {
		t.Fatalf("expected pending action a2, got %v", pending)
	}
}

func TestResultValue(t *testing.T) {
	withData := Result{Success: true, Data: map[string]interface{}{"task_id": "t1"}}
	data, ok := withData.Value().(map[string]interface{})
	if !ok || data["task_id"] != "t1" {
		t.Fatalf("expected data map, got %v", withData.Value())
	}

	withoutData := Result{Success: true, Message: "done"}
	if _, ok := withoutData.Value().(Result); !ok {
		t.Fatalf("expected whole result, got %T", withoutData.Value())
	}
}

func TestFailedResult(t *testing.T) {
	r := FailedResult(ErrKindNotFound, "no task found")
	if r.Success {
		t.Error("failed result must not be successful")
	}
	if r.Error == nil || r.Error.Kind != ErrKindNotFound {
		t.Errorf("expected not_found error, got %v", r.Error)
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	ae, ok := err.(*AgentError)
	if !ok {
		t.Fatalf("expected *AgentError, got %T", err)
	}
	if ae.Code != code {
		t.Errorf("expected code %s, got %s", code, ae.Code)
	}
}
