// Package services defines the capability surfaces the tool catalog binds
// to: calendar, tasks, and mail. Every operation returns the uniform Result
// envelope so failures stay inside the data flow instead of becoming Go
// errors. The in-memory implementations back the default wiring and tests.
package services

import (
	"context"
	"time"

	"github.com/agenticpal/agenticpal"
)

// EventInput carries the fields for creating a calendar event.
type EventInput struct {
	Summary     string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Description string
	Location    string
	Attendees   []string
}

// EventPatch carries partial updates for an event. Nil fields are untouched.
type EventPatch struct {
	Summary     *string
	Start       *time.Time
	End         *time.Time
	Description *string
	Location    *string
}

// Calendar manages scheduled events.
type Calendar interface {
	AddEvent(ctx context.Context, input EventInput) agenticpal.Result
	DeleteEvent(ctx context.Context, eventID string) agenticpal.Result
	SearchEvents(ctx context.Context, query string, maxResults int) agenticpal.Result
	ListEvents(ctx context.Context, from, to time.Time, maxResults int) agenticpal.Result
	UpdateEvent(ctx context.Context, eventID string, patch EventPatch) agenticpal.Result
}

// TaskInput carries the fields for creating a task.
type TaskInput struct {
	Title  string
	Notes  string
	Due    *time.Time
	ListID string
}

// TaskPatch carries partial updates for a task. Nil fields are untouched.
type TaskPatch struct {
	Title *string
	Notes *string
	Due   *time.Time
}

// Tasks manages to-do items grouped into lists.
type Tasks interface {
	CreateTask(ctx context.Context, input TaskInput) agenticpal.Result
	ListTasks(ctx context.Context, listID string, showCompleted bool, maxResults int) agenticpal.Result
	CompleteTask(ctx context.Context, taskID string) agenticpal.Result
	ReopenTask(ctx context.Context, taskID string) agenticpal.Result
	DeleteTask(ctx context.Context, taskID string) agenticpal.Result
	UpdateTask(ctx context.Context, taskID string, patch TaskPatch) agenticpal.Result
	TaskLists(ctx context.Context) agenticpal.Result
}

// Mail provides read-only access to a mailbox.
type Mail interface {
	ReadMessages(ctx context.Context, query string, maxResults int) agenticpal.Result
	GetMessage(ctx context.Context, messageID string) agenticpal.Result
	WeeklySummary(ctx context.Context, days, maxResults int) agenticpal.Result
	SearchMessages(ctx context.Context, query string, maxResults int) agenticpal.Result
	ListUnread(ctx context.Context, maxResults int) agenticpal.Result
}

func okResult(message string, data map[string]interface{}) agenticpal.Result {
	return agenticpal.Result{Success: true, Message: message, Data: data}
}

func clampMax(maxResults, fallback, ceiling int) int {
	if maxResults <= 0 {
		return fallback
	}
	if maxResults > ceiling {
		return ceiling
	}
	return maxResults
}
