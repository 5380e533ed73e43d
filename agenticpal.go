// Package agenticpal provides the core runtime for a conversational
// productivity assistant: an LLM planner that turns messages into tool
// invocation plans, executors that run them, a confirmation gate in front of
// destructive actions, and a synthesizer that renders the final reply.
package agenticpal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agenticpal/agenticpal/internal/eventbus"
)

// Agent is the main entry point into the runtime. It drives one state
// machine per turn and checkpoints turns that suspend at the confirmation
// gate so a later reply can resume them.
type Agent struct {
	planner     Planner
	synthesizer Synthesizer
	parallel    Executor
	sequential  Executor

	checkpointer Checkpointer
	labeler      DestructiveLabeler

	eventBus     eventbus.EventBus
	ownsEventBus bool

	config Config
}

// Config holds the configuration options for the Agent runtime.
type Config struct {
	// Event bus configuration, used when no bus is supplied.
	EnableEventBus      bool
	EventBusBufferSize  int
	EventBusWorkerCount int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableEventBus:      true,
		EventBusBufferSize:  100,
		EventBusWorkerCount: 5,
	}
}

// Option is a function that configures an Agent instance.
type Option func(*Agent)

// WithConfig sets the runtime configuration.
func WithConfig(config Config) Option {
	return func(a *Agent) {
		a.config = config
	}
}

// WithPlanner sets the planner component.
func WithPlanner(planner Planner) Option {
	return func(a *Agent) {
		a.planner = planner
	}
}

// WithSynthesizer sets the synthesizer component.
func WithSynthesizer(synthesizer Synthesizer) Option {
	return func(a *Agent) {
		a.synthesizer = synthesizer
	}
}

// WithParallelExecutor sets the executor for plans without dependencies.
func WithParallelExecutor(executor Executor) Option {
	return func(a *Agent) {
		a.parallel = executor
	}
}

// WithSequentialExecutor sets the executor for plans with dependencies.
func WithSequentialExecutor(executor Executor) Option {
	return func(a *Agent) {
		a.sequential = executor
	}
}

// WithCheckpointer sets the store for suspended turns.
func WithCheckpointer(checkpointer Checkpointer) Option {
	return func(a *Agent) {
		a.checkpointer = checkpointer
	}
}

// WithDestructiveLabeler sets the labeler used in confirmation prompts.
func WithDestructiveLabeler(labeler DestructiveLabeler) Option {
	return func(a *Agent) {
		a.labeler = labeler
	}
}

// New creates a new Agent with the provided options.
func New(options ...Option) (*Agent, error) {
	a := &Agent{
		config: DefaultConfig(),
	}

	for _, option := range options {
		option(a)
	}

	if a.planner == nil {
		return nil, NewConfigurationError("planner is required", nil)
	}
	if a.synthesizer == nil {
		return nil, NewConfigurationError("synthesizer is required", nil)
	}
	if a.parallel == nil {
		return nil, NewConfigurationError("parallel executor is required", nil)
	}
	if a.sequential == nil {
		return nil, NewConfigurationError("sequential executor is required", nil)
	}
	if a.checkpointer == nil {
		return nil, NewConfigurationError("checkpointer is required", nil)
	}

	if a.config.EnableEventBus && a.eventBus == nil {
		a.eventBus = eventbus.NewChannelEventBus(
			eventbus.WithBufferSize(a.config.EventBusBufferSize),
			eventbus.WithWorkerCount(a.config.EventBusWorkerCount),
		)
		a.ownsEventBus = true
	}

	return a, nil
}

// Close releases resources the agent owns.
func (a *Agent) Close() error {
	if a.ownsEventBus && a.eventBus != nil {
		return a.eventBus.Close()
	}
	return nil
}

// EventBus exposes the bus so callers can subscribe to turn events.
func (a *Agent) EventBus() eventbus.EventBus {
	return a.eventBus
}

// TurnResult is the outcome of handling one user message or confirmation
// reply.
type TurnResult struct {
	// ThreadID identifies the conversation, generated when the caller did
	// not supply one.
	ThreadID string
	// Response is the assistant's reply: either the turn's final answer or
	// the confirmation prompt when the turn is awaiting input.
	Response string
	// AwaitingConfirmation reports that the turn is suspended and the next
	// call for this thread should be SubmitConfirmation.
	AwaitingConfirmation bool
}

// HandleMessage runs one conversational turn end to end. If the plan
// contains destructive actions the turn suspends at the confirmation gate,
// is checkpointed, and the returned result carries the confirmation prompt.
func (a *Agent) HandleMessage(ctx context.Context, threadID string, message string, history []HistoryTurn) (*TurnResult, error) {
	if threadID == "" {
		threadID = uuid.New().String()
	}

	a.publish(ctx, eventbus.EventTurnStarted, message, map[string]interface{}{
		"thread_id": threadID,
	})

	// A new message supersedes any turn still waiting for confirmation on
	// this thread.
	_ = a.checkpointer.Delete(ctx, threadID)

	ts := NewTurnState(threadID, message, history)
	return a.run(ctx, ts)
}

// SubmitConfirmation resumes a suspended turn with the user's reply. It
// returns a NO_PENDING_TURN error when nothing is awaiting confirmation for
// the thread; use IsNoPendingTurn to detect that case.
func (a *Agent) SubmitConfirmation(ctx context.Context, threadID string, reply string) (*TurnResult, error) {
	ts, err := a.checkpointer.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}

	a.publish(ctx, eventbus.EventTurnResumed, reply, map[string]interface{}{
		"thread_id": threadID,
	})

	ts.UserConfirmation = reply
	return a.run(ctx, ts)
}

func (a *Agent) run(ctx context.Context, ts *TurnState) (*TurnResult, error) {
	sm := a.newStateMachine()

	suspended, err := sm.Run(ctx, ts)
	if err != nil {
		a.publish(context.Background(), eventbus.EventTurnFailed, ts.UserMessage, map[string]interface{}{
			"thread_id":   ts.ThreadID,
			"error":       err.Error(),
			"error_stage": ts.ErrorStage,
		})
		return nil, err
	}

	if suspended {
		if err := a.checkpointer.Put(ctx, ts.ThreadID, ts); err != nil {
			return nil, err
		}
		a.publish(ctx, eventbus.EventTurnSuspended, ts.ConfirmationMessage, map[string]interface{}{
			"thread_id": ts.ThreadID,
		})
		return &TurnResult{
			ThreadID:             ts.ThreadID,
			Response:             ts.ConfirmationMessage,
			AwaitingConfirmation: true,
		}, nil
	}

	// A completed turn must not leave a checkpoint behind: replaying the
	// confirmation for this thread has to miss.
	_ = a.checkpointer.Delete(ctx, ts.ThreadID)

	a.publish(ctx, eventbus.EventTurnCompleted, ts.FinalResponse, map[string]interface{}{
		"thread_id":   ts.ThreadID,
		"duration_ms": ts.TotalDuration().Milliseconds(),
	})
	return &TurnResult{
		ThreadID: ts.ThreadID,
		Response: ts.FinalResponse,
	}, nil
}

func (a *Agent) newStateMachine() *StateMachine {
	components := Components{
		Planner:            a.planner,
		Synthesizer:        a.synthesizer,
		ParallelExecutor:   a.parallel,
		SequentialExecutor: a.sequential,
		Labeler:            a.labeler,
	}
	return NewTurnStateMachine(components, a.eventBus)
}

func (a *Agent) publish(ctx context.Context, eventType eventbus.EventType, payload interface{}, metadata map[string]interface{}) {
	if a.eventBus == nil {
		return
	}
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	metadata["timestamp"] = time.Now().Format(time.RFC3339)
	a.eventBus.Publish(ctx, eventbus.NewEvent(eventType, payload, "Agent", metadata))
}
