package agenticpal

import "testing"

func TestRoute(t *testing.T) {
	cases := []struct {
		name string
		plan *Plan
		want ExecutionMode
	}{
		{
			name: "independent actions run in parallel",
			plan: &Plan{Actions: []Action{
				{ID: "a1", Tool: "list_tasks"},
				{ID: "a2", Tool: "list_calendar_events"},
			}},
			want: ModeParallel,
		},
		{
			name: "dependency edge forces sequential",
			plan: &Plan{Actions: []Action{
				{ID: "a1", Tool: "search_emails"},
				{ID: "a2", Tool: "get_email_details", DependsOn: []string{"a1"}},
			}},
			want: ModeSequential,
		},
		{
			name: "confirmation wins over dependencies",
			plan: &Plan{
				Actions: []Action{
					{ID: "a1", Tool: "search_calendar_events"},
					{ID: "a2", Tool: "delete_calendar_event", DependsOn: []string{"a1"}, PendingConfirmation: true},
				},
				RequiresConfirmation: true,
			},
			want: ModeConfirm,
		},
		{
			name: "empty plan runs in parallel",
			plan: &Plan{},
			want: ModeParallel,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Route(tc.plan); got != tc.want {
				t.Errorf("Route() = %v, want %v", got, tc.want)
			}
		})
	}
}
