package agenticpal

import "context"

// PlanOutput is what one planning pass produces: the plan, the results of
// read actions already executed during planning, and the tool names the
// planner discovered along the way.
type PlanOutput struct {
	Plan            *Plan
	Results         map[string]Result
	DiscoveredTools []string
}

// Planner turns a user message into a plan of tool invocations.
type Planner interface {
	PlanActions(ctx context.Context, message string, history []HistoryTurn) (*PlanOutput, error)
}

// SynthesisInput carries everything the synthesizer may draw on for the
// final response.
type SynthesisInput struct {
	UserMessage string
	History     []HistoryTurn

	Actions []Action
	Results map[string]Result

	ConfirmationPending bool
	ConfirmationMessage string
	Cancelled           bool

	ErrorMessage string
}

// Synthesizer renders the turn's final natural-language response.
type Synthesizer interface {
	Synthesize(ctx context.Context, input SynthesisInput) (string, error)
}

// Executor runs a plan's not-yet-executed actions and returns the merged
// result set.
type Executor interface {
	Execute(ctx context.Context, plan *Plan, prior map[string]Result) (map[string]Result, error)
}

// Checkpointer persists suspended turns keyed by thread id.
type Checkpointer interface {
	Put(ctx context.Context, threadID string, state *TurnState) error
	// Get returns a NO_PENDING_TURN error when nothing is checkpointed for
	// the thread.
	Get(ctx context.Context, threadID string) (*TurnState, error)
	Delete(ctx context.Context, threadID string) error
}
