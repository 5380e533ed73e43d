// Package eventbus carries the turn lifecycle events the orchestrator emits:
// planning, routing, the confirmation gate, per-action execution, and
// synthesis. Subscribers (metrics, logging) observe turns without being wired
// into the state machine.
package eventbus

import (
	"context"
	"time"
)

// EventType identifies what happened.
type EventType string

const (
	// Turn lifecycle.
	EventTurnStarted   EventType = "turn_started"
	EventTurnSuspended EventType = "turn_suspended"
	EventTurnResumed   EventType = "turn_resumed"
	EventTurnCompleted EventType = "turn_completed"
	EventTurnFailed    EventType = "turn_failed"

	// Planning.
	EventPlanningStarted EventType = "planning_started"
	EventPlanningSuccess EventType = "planning_success"
	EventPlanningFailure EventType = "planning_failure"

	// Routing.
	EventRouteSelected EventType = "route_selected"

	// Confirmation gate.
	EventConfirmationRequested     EventType = "confirmation_requested"
	EventConfirmationApproved      EventType = "confirmation_approved"
	EventConfirmationCancelled     EventType = "confirmation_cancelled"
	EventConfirmationClarification EventType = "confirmation_clarification"

	// Per-action execution.
	EventActionStarted   EventType = "action_started"
	EventActionSucceeded EventType = "action_succeeded"
	EventActionFailed    EventType = "action_failed"
	EventActionTimedOut  EventType = "action_timed_out"

	// Plan execution.
	EventExecutionStarted  EventType = "execution_started"
	EventExecutionFinished EventType = "execution_finished"
	EventExecutionFailure  EventType = "execution_failure"

	// Response synthesis.
	EventSynthesisStarted EventType = "synthesis_started"
	EventSynthesisSuccess EventType = "synthesis_success"
	EventSynthesisFailure EventType = "synthesis_failure"

	// System.
	EventSystemError   EventType = "system_error"
	EventSystemWarning EventType = "system_warning"
	EventSystemInfo    EventType = "system_info"
)

// EventHandler consumes one event. A non-nil error triggers the bus's retry
// policy for that handler only.
type EventHandler func(context.Context, Event) error

// Event is one observation of the orchestrator.
type Event interface {
	Type() EventType
	// Payload is the primary subject of the event, e.g. the plan for a
	// planning event or the response text for a synthesis event.
	Payload() interface{}
	// Metadata carries secondary fields such as thread_id or duration_ms.
	Metadata() map[string]interface{}
	// Timestamp is when the event occurred, in Unix nanoseconds.
	Timestamp() int64
	// Source names the component that emitted the event.
	Source() string
}

// EventBus dispatches events to subscribed handlers.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe registers a handler for the given types and returns a
	// subscription id for Unsubscribe.
	Subscribe(eventTypes []EventType, handler EventHandler) (string, error)
	SubscribeAll(handler EventHandler) (string, error)
	Unsubscribe(subscriptionID string) error
	Close() error
}

// BaseEvent is the plain Event implementation the orchestrator publishes.
type BaseEvent struct {
	eventType EventType
	payload   interface{}
	metadata  map[string]interface{}
	timestamp int64
	source    string
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, payload interface{}, source string, metadata map[string]interface{}) *BaseEvent {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &BaseEvent{
		eventType: eventType,
		payload:   payload,
		metadata:  metadata,
		timestamp: time.Now().UnixNano(),
		source:    source,
	}
}

func (e *BaseEvent) Type() EventType                  { return e.eventType }
func (e *BaseEvent) Payload() interface{}             { return e.payload }
func (e *BaseEvent) Metadata() map[string]interface{} { return e.metadata }
func (e *BaseEvent) Timestamp() int64                 { return e.timestamp }
func (e *BaseEvent) Source() string                   { return e.source }
