package agenticpal

import (
	"strings"
	"testing"
)

func TestParseConfirmation(t *testing.T) {
	cases := []struct {
		reply string
		want  ConfirmationDecision
	}{
		{"yes", DecisionConfirmed},
		{"y", DecisionConfirmed},
		{"confirm", DecisionConfirmed},
		{"ok", DecisionConfirmed},
		{"proceed", DecisionConfirmed},
		{"  YES  ", DecisionConfirmed},
		{"no", DecisionCancelled},
		{"n", DecisionCancelled},
		{"cancel", DecisionCancelled},
		{"abort", DecisionCancelled},
		{"No", DecisionCancelled},
		{"edit", DecisionEdit},
		{"EDIT", DecisionEdit},
		{"maybe", DecisionUnclear},
		{"", DecisionUnclear},
		{"yes please", DecisionUnclear},
	}

	for _, tc := range cases {
		if got := ParseConfirmation(tc.reply); got != tc.want {
			t.Errorf("ParseConfirmation(%q) = %v, want %v", tc.reply, got, tc.want)
		}
	}
}

func TestRenderConfirmationPrompt(t *testing.T) {
	label := func(tool string) (string, bool) {
		if tool == "delete_calendar_event" {
			return "calendar event", true
		}
		return "", false
	}
	pending := []Action{
		{ID: "a1", Tool: "delete_calendar_event", Args: map[string]interface{}{"event_id": "ev-42"}, PendingConfirmation: true},
	}

	prompt := RenderConfirmationPrompt(pending, label)
	if !strings.Contains(prompt, "**Confirmation Required**") {
		t.Errorf("prompt missing header: %q", prompt)
	}
	if !strings.Contains(prompt, "- Delete calendar event (ID: ev-42)") {
		t.Errorf("prompt missing action line: %q", prompt)
	}
	if !strings.Contains(prompt, "Reply **yes** to confirm, **no** to cancel, or **edit** to modify.") {
		t.Errorf("prompt missing instructions: %q", prompt)
	}
}

func TestRenderConfirmationPrompt_UnknownLabel(t *testing.T) {
	pending := []Action{
		{ID: "a1", Tool: "delete_task", Args: map[string]interface{}{"task_id": "t-7"}, PendingConfirmation: true},
	}
	prompt := RenderConfirmationPrompt(pending, nil)
	if !strings.Contains(prompt, "- Delete item (ID: t-7)") {
		t.Errorf("expected fallback item label, got %q", prompt)
	}
}
