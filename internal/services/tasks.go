package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agenticpal/agenticpal"
)

// DefaultTaskList is the list tasks land in when none is specified.
const DefaultTaskList = "@default"

type task struct {
	ID        string
	Title     string
	Notes     string
	Due       *time.Time
	ListID    string
	Completed bool
	Created   time.Time
}

func (t task) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":        t.ID,
		"title":     t.Title,
		"list_id":   t.ListID,
		"completed": t.Completed,
	}
	if t.Notes != "" {
		m["notes"] = t.Notes
	}
	if t.Due != nil {
		m["due"] = t.Due.Format(time.RFC3339)
	}
	return m
}

// MemoryTasks is a mutex-protected in-memory Tasks store.
type MemoryTasks struct {
	mu    sync.RWMutex
	tasks map[string]task
	lists map[string]string // list id -> title
}

// NewMemoryTasks creates a task store with the default list.
func NewMemoryTasks() *MemoryTasks {
	return &MemoryTasks{
		tasks: make(map[string]task),
		lists: map[string]string{DefaultTaskList: "My Tasks"},
	}
}

// CreateTask adds a task to a list, creating the list entry on first use.
func (s *MemoryTasks) CreateTask(_ context.Context, input TaskInput) agenticpal.Result {
	if strings.TrimSpace(input.Title) == "" {
		return agenticpal.FailedResult(agenticpal.ErrKindValidation, "Task title cannot be empty.")
	}
	listID := input.ListID
	if listID == "" {
		listID = DefaultTaskList
	}

	t := task{
		ID:      uuid.New().String(),
		Title:   input.Title,
		Notes:   input.Notes,
		Due:     input.Due,
		ListID:  listID,
		Created: time.Now(),
	}

	s.mu.Lock()
	if _, ok := s.lists[listID]; !ok {
		s.lists[listID] = listID
	}
	s.tasks[t.ID] = t
	s.mu.Unlock()

	return okResult(
		fmt.Sprintf("Task '%s' created.", t.Title),
		map[string]interface{}{"task_id": t.ID, "task": t.toMap()},
	)
}

// ListTasks returns tasks in a list, earliest due date first, undated last.
func (s *MemoryTasks) ListTasks(_ context.Context, listID string, showCompleted bool, maxResults int) agenticpal.Result {
	maxResults = clampMax(maxResults, 20, 100)
	if listID == "" {
		listID = DefaultTaskList
	}

	s.mu.RLock()
	var matches []task
	for _, t := range s.tasks {
		if t.ListID != listID {
			continue
		}
		if t.Completed && !showCompleted {
			continue
		}
		matches = append(matches, t)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		switch {
		case a.Due == nil && b.Due == nil:
			return a.Created.Before(b.Created)
		case a.Due == nil:
			return false
		case b.Due == nil:
			return true
		default:
			return a.Due.Before(*b.Due)
		}
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	list := make([]interface{}, 0, len(matches))
	for _, t := range matches {
		list = append(list, t.toMap())
	}
	return okResult(
		fmt.Sprintf("Found %d task(s).", len(list)),
		map[string]interface{}{"tasks": list, "count": len(list)},
	)
}

// CompleteTask marks a task done.
func (s *MemoryTasks) CompleteTask(_ context.Context, taskID string) agenticpal.Result {
	return s.setCompleted(taskID, true)
}

// ReopenTask marks a completed task as needing action again.
func (s *MemoryTasks) ReopenTask(_ context.Context, taskID string) agenticpal.Result {
	return s.setCompleted(taskID, false)
}

func (s *MemoryTasks) setCompleted(taskID string, done bool) agenticpal.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindNotFound,
			fmt.Sprintf("No task found with ID '%s'. Try listing tasks first.", taskID))
	}
	t.Completed = done
	s.tasks[taskID] = t

	verb := "marked complete"
	if !done {
		verb = "marked incomplete"
	}
	return okResult(
		fmt.Sprintf("Task '%s' %s.", t.Title, verb),
		map[string]interface{}{"task_id": taskID, "task": t.toMap()},
	)
}

// DeleteTask removes a task by id.
func (s *MemoryTasks) DeleteTask(_ context.Context, taskID string) agenticpal.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindNotFound,
			fmt.Sprintf("No task found with ID '%s'. Try listing tasks first.", taskID))
	}
	delete(s.tasks, taskID)
	return okResult(
		fmt.Sprintf("Task '%s' deleted.", t.Title),
		map[string]interface{}{"task_id": taskID},
	)
}

// UpdateTask applies a partial update to a task.
func (s *MemoryTasks) UpdateTask(_ context.Context, taskID string, patch TaskPatch) agenticpal.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[taskID]
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindNotFound,
			fmt.Sprintf("No task found with ID '%s'. Try listing tasks first.", taskID))
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Notes != nil {
		t.Notes = *patch.Notes
	}
	if patch.Due != nil {
		t.Due = patch.Due
	}
	s.tasks[taskID] = t

	return okResult(
		fmt.Sprintf("Task '%s' updated.", t.Title),
		map[string]interface{}{"task_id": taskID, "task": t.toMap()},
	)
}

// TaskLists returns the known task lists.
func (s *MemoryTasks) TaskLists(_ context.Context) agenticpal.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]interface{}, 0, len(s.lists))
	ids := make([]string, 0, len(s.lists))
	for id := range s.lists {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		list = append(list, map[string]interface{}{"id": id, "title": s.lists[id]})
	}
	return okResult(
		fmt.Sprintf("Found %d task list(s).", len(list)),
		map[string]interface{}{"task_lists": list, "count": len(list)},
	)
}
