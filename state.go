package agenticpal

import (
	"context"
	"fmt"
	"time"

	"github.com/agenticpal/agenticpal/internal/eventbus"
)

// Node identifies a stage of the turn orchestration graph.
type Node string

const (
	// NodePlan runs the planner dialogue against the tool catalog.
	NodePlan Node = "plan"
	// NodeRoute picks the execution mode for the planned actions.
	NodeRoute Node = "route"
	// NodeConfirm is the confirmation gate. It is the only suspend point:
	// the turn checkpoints here and waits for the user's reply.
	NodeConfirm Node = "confirm"
	// NodeExecuteParallel runs independent actions concurrently.
	NodeExecuteParallel Node = "execute_parallel"
	// NodeExecuteSequential runs actions in dependency order.
	NodeExecuteSequential Node = "execute_sequential"
	// NodeSynthesize produces the final natural-language response.
	NodeSynthesize Node = "synthesize"
	// NodeComplete is the terminal state.
	NodeComplete Node = "complete"
	// NodeCancelled is the terminal state for context cancellation.
	NodeCancelled Node = "cancelled"
)

// TurnState carries everything one conversational turn accumulates as it
// moves through the graph. It is the unit of checkpointing: a suspended turn
// is serialized as-is and restored verbatim on resume.
type TurnState struct {
	ThreadID    string        `json:"thread_id"`
	UserMessage string        `json:"user_message"`
	History     []HistoryTurn `json:"history,omitempty"`

	Plan    *Plan             `json:"plan,omitempty"`
	Results map[string]Result `json:"results,omitempty"`

	ExecutionMode ExecutionMode `json:"execution_mode,omitempty"`

	// Confirmation gate fields. UserConfirmation is empty until the user
	// replies; ConfirmationMessage is what the gate asked (or its canned
	// cancellation/clarification reply). Cancelled is set when the user
	// rejects the pending actions.
	UserConfirmation    string `json:"user_confirmation,omitempty"`
	ConfirmationMessage string `json:"confirmation_message,omitempty"`
	Cancelled           bool   `json:"cancelled,omitempty"`

	DiscoveredTools []string `json:"discovered_tools,omitempty"`

	FinalResponse string `json:"final_response,omitempty"`

	// ErrorMessage carries a turn-level failure (plan generation, structural
	// defect) toward the synthesizer's error branch.
	ErrorMessage string `json:"error_message,omitempty"`
	ErrorStage   string `json:"error_stage,omitempty"`

	Node      Node `json:"node"`
	Suspended bool `json:"suspended,omitempty"`

	StartTime      time.Time          `json:"start_time"`
	EndTime        time.Time          `json:"end_time,omitempty"`
	NodeStartTimes map[Node]time.Time `json:"-"`

	lastErr error
}

// NewTurnState creates the state for a fresh turn.
func NewTurnState(threadID, message string, history []HistoryTurn) *TurnState {
	return &TurnState{
		ThreadID:       threadID,
		UserMessage:    message,
		History:        history,
		Results:        make(map[string]Result),
		Node:           NodePlan,
		StartTime:      time.Now(),
		NodeStartTimes: make(map[Node]time.Time),
	}
}

// IsTerminal reports whether the turn has reached a terminal node.
func (ts *TurnState) IsTerminal() bool {
	return ts.Node == NodeComplete || ts.Node == NodeCancelled
}

// SetError records a turn-level failure. The error is carried in the state so
// the synthesizer can apologize for it; the turn itself keeps moving.
func (ts *TurnState) SetError(err error, stage string) {
	ts.lastErr = err
	ts.ErrorStage = stage
	if err != nil {
		ts.ErrorMessage = err.Error()
	}
}

// SetCancelled moves the turn to the cancelled terminal node.
func (ts *TurnState) SetCancelled(err error, stage string) {
	ts.lastErr = err
	ts.ErrorStage = stage
	if err != nil {
		ts.ErrorMessage = err.Error()
	}
	ts.Node = NodeCancelled
	ts.markNode(NodeCancelled)
}

// Complete marks the turn finished.
func (ts *TurnState) Complete() {
	ts.Node = NodeComplete
	ts.EndTime = time.Now()
	ts.markNode(NodeComplete)
}

// SetResult records one action's outcome. Results are append-only: the first
// write for an action id wins, so a resumed turn never overwrites what the
// planner or a previous node already produced.
func (ts *TurnState) SetResult(actionID string, result Result) {
	if ts.Results == nil {
		ts.Results = make(map[string]Result)
	}
	if _, exists := ts.Results[actionID]; exists {
		return
	}
	ts.Results[actionID] = result
}

// TotalDuration returns how long the turn has been running.
func (ts *TurnState) TotalDuration() time.Duration {
	if !ts.EndTime.IsZero() {
		return ts.EndTime.Sub(ts.StartTime)
	}
	return time.Since(ts.StartTime)
}

func (ts *TurnState) markNode(n Node) {
	if ts.NodeStartTimes == nil {
		ts.NodeStartTimes = make(map[Node]time.Time)
	}
	ts.NodeStartTimes[n] = time.Now()
}

// Transition advances the turn from its current node and returns the next
// node. A transition that needs external input sets ts.Suspended instead of
// returning a next node to run.
type Transition func(ctx context.Context, eventBus eventbus.EventBus, ts *TurnState) (Node, error)

// StateMachine drives a turn through the orchestration graph. Nodes in the
// suspend set may halt the run mid-graph; the caller checkpoints the state
// and re-enters the machine at the same node once input arrives.
type StateMachine struct {
	transitions   map[Node]Transition
	suspendPoints map[Node]bool
	eventBus      eventbus.EventBus
}

// NewStateMachine creates a state machine publishing on the given bus.
func NewStateMachine(eventBus eventbus.EventBus) *StateMachine {
	return &StateMachine{
		transitions:   make(map[Node]Transition),
		suspendPoints: make(map[Node]bool),
		eventBus:      eventBus,
	}
}

// RegisterTransition registers the transition function for a node.
func (sm *StateMachine) RegisterTransition(node Node, transition Transition) {
	sm.transitions[node] = transition
}

// RegisterSuspendPoint marks a node as allowed to suspend the run.
func (sm *StateMachine) RegisterSuspendPoint(node Node) {
	sm.suspendPoints[node] = true
}

// Run advances the turn until it reaches a terminal node or suspends at a
// registered suspend point. It returns whether the turn is suspended.
func (sm *StateMachine) Run(ctx context.Context, ts *TurnState) (suspended bool, err error) {
	ts.Suspended = false

	for !ts.IsTerminal() {
		select {
		case <-ctx.Done():
			cancelErr := ctx.Err()
			ts.SetCancelled(cancelErr, string(ts.Node))
			return false, cancelErr
		default:
		}

		transition, exists := sm.transitions[ts.Node]
		if !exists {
			err := NewInternalError(string(ts.Node), fmt.Sprintf("no transition defined for node '%s'", ts.Node), nil)
			ts.SetCancelled(err, string(ts.Node))
			return false, err
		}

		next, err := transition(ctx, sm.eventBus, ts)
		if err != nil {
			if err == context.Canceled || err == context.DeadlineExceeded {
				ts.SetCancelled(err, string(ts.Node))
				return false, err
			}
			// Transitions surface recoverable failures through
			// ts.SetError and steer to synthesis themselves. An error
			// returned here is a defect in the machine wiring.
			ts.SetCancelled(err, string(ts.Node))
			return false, err
		}

		if ts.Suspended {
			if !sm.suspendPoints[ts.Node] {
				err := NewInternalError(string(ts.Node), fmt.Sprintf("node '%s' suspended but is not a suspend point", ts.Node), nil)
				ts.SetCancelled(err, string(ts.Node))
				return false, err
			}
			return true, nil
		}

		if !ts.IsTerminal() {
			ts.Node = next
			ts.markNode(next)
		}
	}

	return false, nil
}
