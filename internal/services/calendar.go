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

// event is the stored form of a calendar entry.
type event struct {
	ID          string
	Summary     string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Description string
	Location    string
	Attendees   []string
}

func (e event) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":      e.ID,
		"summary": e.Summary,
		"all_day": e.AllDay,
	}
	if e.AllDay {
		m["start"] = e.Start.Format("2006-01-02")
		m["end"] = e.End.Format("2006-01-02")
	} else {
		m["start"] = e.Start.Format(time.RFC3339)
		m["end"] = e.End.Format(time.RFC3339)
	}
	if e.Description != "" {
		m["description"] = e.Description
	}
	if e.Location != "" {
		m["location"] = e.Location
	}
	if len(e.Attendees) > 0 {
		m["attendees"] = e.Attendees
	}
	return m
}

// MemoryCalendar is a mutex-protected in-memory Calendar.
type MemoryCalendar struct {
	mu     sync.RWMutex
	events map[string]event
}

// NewMemoryCalendar creates an empty in-memory calendar.
func NewMemoryCalendar() *MemoryCalendar {
	return &MemoryCalendar{events: make(map[string]event)}
}

// AddEvent creates an event. All-day events with a zero end span one day.
func (c *MemoryCalendar) AddEvent(_ context.Context, input EventInput) agenticpal.Result {
	if strings.TrimSpace(input.Summary) == "" {
		return agenticpal.FailedResult(agenticpal.ErrKindValidation, "Event summary cannot be empty.")
	}

	end := input.End
	if end.IsZero() {
		if input.AllDay {
			end = input.Start.AddDate(0, 0, 1)
		} else {
			end = input.Start.Add(time.Hour)
		}
	}

	ev := event{
		ID:          uuid.New().String(),
		Summary:     input.Summary,
		Start:       input.Start,
		End:         end,
		AllDay:      input.AllDay,
		Description: input.Description,
		Location:    input.Location,
		Attendees:   input.Attendees,
	}

	c.mu.Lock()
	c.events[ev.ID] = ev
	c.mu.Unlock()

	when := ev.Start.Format("Mon Jan 2, 2006 at 3:04 PM")
	if ev.AllDay {
		when = ev.Start.Format("Mon Jan 2, 2006") + " (all day)"
	}
	return okResult(
		fmt.Sprintf("Event '%s' created for %s.", ev.Summary, when),
		map[string]interface{}{"event_id": ev.ID, "event": ev.toMap()},
	)
}

// DeleteEvent removes an event by id.
func (c *MemoryCalendar) DeleteEvent(_ context.Context, eventID string) agenticpal.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	ev, ok := c.events[eventID]
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindNotFound,
			fmt.Sprintf("No event found with ID '%s'. Try searching for the event first.", eventID))
	}
	delete(c.events, eventID)
	return okResult(
		fmt.Sprintf("Event '%s' deleted.", ev.Summary),
		map[string]interface{}{"event_id": eventID},
	)
}

// SearchEvents returns events whose summary, description, or location
// contains the query, case-insensitively, soonest first.
func (c *MemoryCalendar) SearchEvents(_ context.Context, query string, maxResults int) agenticpal.Result {
	maxResults = clampMax(maxResults, 10, 50)
	needle := strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	var matches []event
	for _, ev := range c.events {
		haystack := strings.ToLower(ev.Summary + " " + ev.Description + " " + ev.Location)
		if needle == "" || strings.Contains(haystack, needle) {
			matches = append(matches, ev)
		}
	}
	c.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Start.Before(matches[j].Start) })
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	list := make([]interface{}, 0, len(matches))
	for _, ev := range matches {
		list = append(list, ev.toMap())
	}
	return okResult(
		fmt.Sprintf("Found %d event(s) matching '%s'.", len(list), query),
		map[string]interface{}{"events": list, "count": len(list)},
	)
}

// ListEvents returns events overlapping the [from, to) window, soonest
// first. A zero `to` means no upper bound.
func (c *MemoryCalendar) ListEvents(_ context.Context, from, to time.Time, maxResults int) agenticpal.Result {
	maxResults = clampMax(maxResults, 10, 50)

	c.mu.RLock()
	var matches []event
	for _, ev := range c.events {
		if ev.End.Before(from) {
			continue
		}
		if !to.IsZero() && !ev.Start.Before(to) {
			continue
		}
		matches = append(matches, ev)
	}
	c.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Start.Before(matches[j].Start) })
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	list := make([]interface{}, 0, len(matches))
	for _, ev := range matches {
		list = append(list, ev.toMap())
	}
	return okResult(
		fmt.Sprintf("Found %d upcoming event(s).", len(list)),
		map[string]interface{}{"events": list, "count": len(list)},
	)
}

// UpdateEvent applies a partial update to an event.
func (c *MemoryCalendar) UpdateEvent(_ context.Context, eventID string, patch EventPatch) agenticpal.Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	ev, ok := c.events[eventID]
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindNotFound,
			fmt.Sprintf("No event found with ID '%s'. Try searching for the event first.", eventID))
	}
	if patch.Summary != nil {
		ev.Summary = *patch.Summary
	}
	if patch.Start != nil {
		ev.Start = *patch.Start
	}
	if patch.End != nil {
		ev.End = *patch.End
	}
	if patch.Description != nil {
		ev.Description = *patch.Description
	}
	if patch.Location != nil {
		ev.Location = *patch.Location
	}
	c.events[eventID] = ev

	return okResult(
		fmt.Sprintf("Event '%s' updated.", ev.Summary),
		map[string]interface{}{"event_id": eventID, "event": ev.toMap()},
	)
}
