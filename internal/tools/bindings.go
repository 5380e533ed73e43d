package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/dates"
	"github.com/agenticpal/agenticpal/internal/services"
)

// NewProductivityBindings binds the built-in catalog to the calendar, tasks,
// and mail capabilities. Date and time arguments arrive as text and are
// resolved here; a date the resolver cannot understand becomes a failed
// Result asking the user to rephrase, never an error.
func NewProductivityBindings(
	cal services.Calendar,
	tasks services.Tasks,
	mail services.Mail,
	resolver *dates.Resolver,
) map[string]ToolFunc {
	return map[string]ToolFunc{
		// Calendar
		"add_calendar_event": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			start, res := resolveDateArg(resolver, args, "start_time")
			if res != nil {
				return *res
			}

			input := services.EventInput{
				Summary:     strArg(args, "summary"),
				Start:       start.Time,
				AllDay:      start.AllDay,
				Description: strArg(args, "description"),
				Location:    strArg(args, "location"),
				Attendees:   sliceArg(args, "attendees"),
			}
			if !start.AllDay {
				if endText := strArg(args, "end_time"); endText != "" {
					end, res := resolveDateArg(resolver, args, "end_time")
					if res != nil {
						return *res
					}
					input.End = end.Time
				} else {
					input.End = dates.EndTime(start.Time, strArg(args, "duration"))
				}
			}
			return cal.AddEvent(ctx, input)
		},
		"delete_calendar_event": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return cal.DeleteEvent(ctx, strArg(args, "event_id"))
		},
		"search_calendar_events": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return cal.SearchEvents(ctx, strArg(args, "query"), intArg(args, "max_results"))
		},
		"list_calendar_events": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			days := intArg(args, "days")
			if days <= 0 {
				days = 7
			}
			now := time.Now()
			return cal.ListEvents(ctx, now, now.AddDate(0, 0, days), intArg(args, "max_results"))
		},
		"update_calendar_event": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			patch := services.EventPatch{
				Summary:     strPtrArg(args, "summary"),
				Description: strPtrArg(args, "description"),
				Location:    strPtrArg(args, "location"),
			}
			if strArg(args, "start_time") != "" {
				start, res := resolveDateArg(resolver, args, "start_time")
				if res != nil {
					return *res
				}
				patch.Start = &start.Time
			}
			if strArg(args, "end_time") != "" {
				end, res := resolveDateArg(resolver, args, "end_time")
				if res != nil {
					return *res
				}
				patch.End = &end.Time
			}
			return cal.UpdateEvent(ctx, strArg(args, "event_id"), patch)
		},

		// Tasks
		"create_task": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			input := services.TaskInput{
				Title:  strArg(args, "title"),
				Notes:  strArg(args, "notes"),
				ListID: strArg(args, "list_id"),
			}
			if strArg(args, "due") != "" {
				due, res := resolveDateArg(resolver, args, "due")
				if res != nil {
					return *res
				}
				input.Due = &due.Time
			}
			return tasks.CreateTask(ctx, input)
		},
		"list_tasks": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return tasks.ListTasks(ctx, strArg(args, "list_id"), boolArg(args, "show_completed"), intArg(args, "max_results"))
		},
		"mark_task_complete": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return tasks.CompleteTask(ctx, strArg(args, "task_id"))
		},
		"mark_task_incomplete": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return tasks.ReopenTask(ctx, strArg(args, "task_id"))
		},
		"delete_task": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return tasks.DeleteTask(ctx, strArg(args, "task_id"))
		},
		"update_task": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			patch := services.TaskPatch{
				Title: strPtrArg(args, "title"),
				Notes: strPtrArg(args, "notes"),
			}
			if strArg(args, "due") != "" {
				due, res := resolveDateArg(resolver, args, "due")
				if res != nil {
					return *res
				}
				patch.Due = &due.Time
			}
			return tasks.UpdateTask(ctx, strArg(args, "task_id"), patch)
		},
		"get_task_lists": func(ctx context.Context, _ map[string]interface{}) agenticpal.Result {
			return tasks.TaskLists(ctx)
		},

		// Email
		"read_emails": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return mail.ReadMessages(ctx, strArg(args, "query"), intArg(args, "max_results"))
		},
		"get_email_details": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return mail.GetMessage(ctx, strArg(args, "message_id"))
		},
		"summarize_weekly_emails": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return mail.WeeklySummary(ctx, intArg(args, "days"), intArg(args, "max_results"))
		},
		"search_emails": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return mail.SearchMessages(ctx, strArg(args, "query"), intArg(args, "max_results"))
		},
		"list_unread_emails": func(ctx context.Context, args map[string]interface{}) agenticpal.Result {
			return mail.ListUnread(ctx, intArg(args, "max_results"))
		},
	}
}

// resolveDateArg resolves a date-typed argument. On failure it returns a
// date_parse failed Result asking the user to clarify.
func resolveDateArg(resolver *dates.Resolver, args map[string]interface{}, key string) (dates.Resolved, *agenticpal.Result) {
	text := strArg(args, key)
	resolved, err := resolver.Resolve(text)
	if err != nil {
		failed := agenticpal.FailedResult(agenticpal.ErrKindDateParse,
			fmt.Sprintf("I couldn't understand the date '%s'. Could you rephrase it, for example 'tomorrow at 3pm'?", text))
		return dates.Resolved{}, &failed
	}
	return resolved, nil
}

func strArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func strPtrArg(args map[string]interface{}, key string) *string {
	if s, ok := args[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func intArg(args map[string]interface{}, key string) int {
	n, _ := args[key].(int)
	return n
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func sliceArg(args map[string]interface{}, key string) []string {
	list, _ := args[key].([]string)
	return list
}
