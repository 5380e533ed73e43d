// Package executor runs planned actions, either concurrently for
// independent plans or in dependency order for chained ones. Executors never
// overwrite a result that already exists: actions the planner executed
// during the planning dialogue keep their original outcome.
package executor

import (
	"context"
	"time"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/eventbus"
)

// InvokeFunc executes one tool invocation. The capability invoker provides
// the production implementation; tests supply fakes.
type InvokeFunc func(ctx context.Context, tool string, args map[string]interface{}) agenticpal.Result

// Defaults shared by the executors.
const (
	DefaultMaxWorkers    = 5
	DefaultActionTimeout = 30 * time.Second
)

type config struct {
	maxWorkers    int
	actionTimeout time.Duration
	eventBus      eventbus.EventBus
}

// Option configures an executor.
type Option func(*config)

// WithMaxWorkers bounds the parallel executor's worker pool.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithActionTimeout bounds how long a single action may run.
func WithActionTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.actionTimeout = d
		}
	}
}

// WithEventBus publishes per-action lifecycle events on the given bus.
func WithEventBus(eb eventbus.EventBus) Option {
	return func(c *config) {
		c.eventBus = eb
	}
}

func newConfig(opts []Option) config {
	c := config{
		maxWorkers:    DefaultMaxWorkers,
		actionTimeout: DefaultActionTimeout,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) publish(ctx context.Context, eventType eventbus.EventType, actionID, tool string) {
	if c.eventBus == nil {
		return
	}
	_ = c.eventBus.Publish(ctx, eventbus.NewEvent(eventType, map[string]interface{}{
		"action_id": actionID,
		"tool":      tool,
	}, "executor", nil))
}

// pendingActions returns the actions that do not yet have a result.
func pendingActions(plan *agenticpal.Plan, results map[string]agenticpal.Result) []agenticpal.Action {
	var pending []agenticpal.Action
	for _, a := range plan.Actions {
		if _, done := results[a.ID]; !done {
			pending = append(pending, a)
		}
	}
	return pending
}

func copyResults(in map[string]agenticpal.Result) map[string]agenticpal.Result {
	out := make(map[string]agenticpal.Result, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
