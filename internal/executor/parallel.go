package executor

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/eventbus"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

// Parallel executes independent actions concurrently on a bounded worker
// pool. Each action gets its own timeout; a slow or failing action never
// affects its siblings, and every submitted action ends up with a Result.
type Parallel struct {
	invoke  InvokeFunc
	cfg     config
	metrics Metrics
}

// NewParallel creates a parallel executor. Defaults: 5 workers, 30 second
// per-action timeout.
func NewParallel(invoke InvokeFunc, opts ...Option) *Parallel {
	return &Parallel{invoke: invoke, cfg: newConfig(opts)}
}

// Execute runs every action that does not already have a result and returns
// the merged result set. It never returns an error: all failure modes are
// expressed as failed Results keyed by action id.
func (e *Parallel) Execute(ctx context.Context, plan *agenticpal.Plan, prior map[string]agenticpal.Result) (map[string]agenticpal.Result, error) {
	results := copyResults(prior)
	pending := pendingActions(plan, results)
	if len(pending) == 0 {
		return results, nil
	}

	var mu sync.Mutex
	workers := pool.New().WithMaxGoroutines(e.cfg.maxWorkers)

	for _, action := range pending {
		action := action
		workers.Go(func() {
			result := e.runAction(ctx, action)
			mu.Lock()
			results[action.ID] = result
			mu.Unlock()
		})
	}
	workers.Wait()

	return results, nil
}

// runAction invokes one action under its timeout. The invocation runs in its
// own goroutine so a binding that ignores context cancellation still cannot
// hold up the turn past the deadline.
func (e *Parallel) runAction(ctx context.Context, action agenticpal.Action) agenticpal.Result {
	e.cfg.publish(ctx, eventbus.EventActionStarted, action.ID, action.Tool)
	started := time.Now()

	actionCtx, cancel := context.WithTimeout(ctx, e.cfg.actionTimeout)
	defer cancel()

	done := make(chan agenticpal.Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Str("action_id", action.ID).
					Str("tool", action.Tool).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("action panicked")
				done <- agenticpal.FailedResult(agenticpal.ErrKindExecution, "Tool execution failed unexpectedly.")
			}
		}()
		done <- e.invoke(actionCtx, action.Tool, action.Args)
	}()

	var result agenticpal.Result
	select {
	case result = <-done:
	case <-actionCtx.Done():
		result = agenticpal.Result{
			Success: false,
			Message: "The operation took too long to complete.",
			Error:   &agenticpal.ResultError{Kind: agenticpal.ErrKindTimeout, Message: "Tool execution timed out"},
		}
	}

	elapsed := time.Since(started)
	e.metrics.record(elapsed, result)
	switch {
	case result.Success:
		e.cfg.publish(ctx, eventbus.EventActionSucceeded, action.ID, action.Tool)
	case result.Error != nil && result.Error.Kind == agenticpal.ErrKindTimeout:
		e.cfg.publish(ctx, eventbus.EventActionTimedOut, action.ID, action.Tool)
	default:
		e.cfg.publish(ctx, eventbus.EventActionFailed, action.ID, action.Tool)
	}
	logger.Debug().
		Str("action_id", action.ID).
		Str("tool", action.Tool).
		Bool("success", result.Success).
		Dur("elapsed", elapsed).
		Msg("action finished")
	return result
}

// GetMetrics returns a copy of the execution metrics.
func (e *Parallel) GetMetrics() Metrics {
	return e.metrics.Copy()
}
