package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/agenticpal/agenticpal"
)

type mailMessage struct {
	ID       string
	From     string
	Subject  string
	Snippet  string
	Body     string
	Received time.Time
	Unread   bool
}

func (m mailMessage) toSummaryMap() map[string]interface{} {
	return map[string]interface{}{
		"id":       m.ID,
		"from":     m.From,
		"subject":  m.Subject,
		"snippet":  m.Snippet,
		"received": m.Received.Format(time.RFC3339),
		"unread":   m.Unread,
	}
}

func (m mailMessage) toDetailMap() map[string]interface{} {
	d := m.toSummaryMap()
	d["body"] = m.Body
	return d
}

// MemoryMail is a read-only in-memory mailbox.
type MemoryMail struct {
	mu       sync.RWMutex
	messages map[string]mailMessage
}

// NewMemoryMail creates an empty mailbox.
func NewMemoryMail() *MemoryMail {
	return &MemoryMail{messages: make(map[string]mailMessage)}
}

// Seed inserts a message, mainly for demos and tests.
func (s *MemoryMail) Seed(id, from, subject, body string, received time.Time, unread bool) {
	snippet := body
	if len(snippet) > 120 {
		snippet = snippet[:120] + "..."
	}
	s.mu.Lock()
	s.messages[id] = mailMessage{
		ID: id, From: from, Subject: subject, Snippet: snippet,
		Body: body, Received: received, Unread: unread,
	}
	s.mu.Unlock()
}

func (s *MemoryMail) match(query string, since time.Time, unreadOnly bool) []mailMessage {
	needle := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	var matches []mailMessage
	for _, m := range s.messages {
		if unreadOnly && !m.Unread {
			continue
		}
		if !since.IsZero() && m.Received.Before(since) {
			continue
		}
		haystack := strings.ToLower(m.From + " " + m.Subject + " " + m.Body)
		if needle != "" && !strings.Contains(haystack, needle) {
			continue
		}
		matches = append(matches, m)
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Received.After(matches[j].Received) })
	return matches
}

func summaryList(matches []mailMessage, maxResults int) []interface{} {
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	list := make([]interface{}, 0, len(matches))
	for _, m := range matches {
		list = append(list, m.toSummaryMap())
	}
	return list
}

// ReadMessages returns recent messages matching an optional query.
func (s *MemoryMail) ReadMessages(_ context.Context, query string, maxResults int) agenticpal.Result {
	maxResults = clampMax(maxResults, 10, 50)
	list := summaryList(s.match(query, time.Time{}, false), maxResults)
	return okResult(
		fmt.Sprintf("Found %d message(s).", len(list)),
		map[string]interface{}{"messages": list, "count": len(list)},
	)
}

// GetMessage returns the full body of one message.
func (s *MemoryMail) GetMessage(_ context.Context, messageID string) agenticpal.Result {
	s.mu.RLock()
	m, ok := s.messages[messageID]
	s.mu.RUnlock()
	if !ok {
		return agenticpal.FailedResult(agenticpal.ErrKindNotFound,
			fmt.Sprintf("No email found with ID '%s'. Try searching your inbox first.", messageID))
	}
	return okResult(
		fmt.Sprintf("Email '%s' retrieved.", m.Subject),
		map[string]interface{}{"message": m.toDetailMap()},
	)
}

// WeeklySummary returns the messages received in the last `days` days so the
// synthesizer can summarize them. Days defaults to 7.
func (s *MemoryMail) WeeklySummary(_ context.Context, days, maxResults int) agenticpal.Result {
	if days <= 0 {
		days = 7
	}
	maxResults = clampMax(maxResults, 25, 100)
	since := time.Now().AddDate(0, 0, -days)
	list := summaryList(s.match("", since, false), maxResults)
	return okResult(
		fmt.Sprintf("Found %d message(s) from the last %d day(s).", len(list), days),
		map[string]interface{}{"messages": list, "count": len(list), "days": days},
	)
}

// SearchMessages searches the mailbox by sender, subject, or body.
func (s *MemoryMail) SearchMessages(_ context.Context, query string, maxResults int) agenticpal.Result {
	maxResults = clampMax(maxResults, 10, 50)
	list := summaryList(s.match(query, time.Time{}, false), maxResults)
	return okResult(
		fmt.Sprintf("Found %d message(s) matching '%s'.", len(list), query),
		map[string]interface{}{"messages": list, "count": len(list)},
	)
}

// ListUnread returns unread messages, newest first.
func (s *MemoryMail) ListUnread(_ context.Context, maxResults int) agenticpal.Result {
	maxResults = clampMax(maxResults, 10, 50)
	list := summaryList(s.match("", time.Time{}, true), maxResults)
	return okResult(
		fmt.Sprintf("You have %d unread message(s).", len(list)),
		map[string]interface{}{"messages": list, "count": len(list)},
	)
}
