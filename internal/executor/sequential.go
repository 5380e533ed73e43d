package executor

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/eventbus"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

// FromResultKey is the argument key that merges a dependency's data map
// into the action's arguments.
const FromResultKey = "from_result"

// Sequential executes actions in topological order, substituting dependency
// results into arguments before each invocation. A failed action does not
// halt the sequence; its dependents run against whatever it produced.
type Sequential struct {
	invoke  InvokeFunc
	cfg     config
	metrics Metrics
}

// NewSequential creates a sequential executor.
func NewSequential(invoke InvokeFunc, opts ...Option) *Sequential {
	return &Sequential{invoke: invoke, cfg: newConfig(opts)}
}

// Execute runs the plan's actions in dependency order. A dependency cycle is
// a structural plan error: no action executes and the error is returned.
func (e *Sequential) Execute(ctx context.Context, plan *agenticpal.Plan, prior map[string]agenticpal.Result) (map[string]agenticpal.Result, error) {
	order, err := topoOrder(plan)
	if err != nil {
		return nil, err
	}

	results := copyResults(prior)
	for _, action := range order {
		if _, done := results[action.ID]; done {
			continue
		}
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}
		results[action.ID] = e.runAction(ctx, action, results)
	}
	return results, nil
}

func (e *Sequential) runAction(ctx context.Context, action agenticpal.Action, results map[string]agenticpal.Result) (result agenticpal.Result) {
	e.cfg.publish(ctx, eventbus.EventActionStarted, action.ID, action.Tool)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("action_id", action.ID).
				Str("tool", action.Tool).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("action panicked")
			result = agenticpal.FailedResult(agenticpal.ErrKindExecution, "Tool execution failed unexpectedly.")
		}
		e.metrics.record(time.Since(started), result)
		if result.Success {
			e.cfg.publish(ctx, eventbus.EventActionSucceeded, action.ID, action.Tool)
		} else {
			e.cfg.publish(ctx, eventbus.EventActionFailed, action.ID, action.Tool)
		}
	}()

	args, err := resolveArgs(action, results)
	if err != nil {
		return agenticpal.FailedResult(agenticpal.ErrKindExecution, err.Error())
	}
	return e.invoke(ctx, action.Tool, args)
}

// GetMetrics returns a copy of the execution metrics.
func (e *Sequential) GetMetrics() Metrics {
	return e.metrics.Copy()
}

// topoOrder orders the plan's actions with Kahn's algorithm. Ties break in
// plan order (FIFO), so the same plan always executes in the same sequence.
func topoOrder(plan *agenticpal.Plan) ([]agenticpal.Action, error) {
	position := make(map[string]int, len(plan.Actions))
	indegree := make(map[string]int, len(plan.Actions))
	dependents := make(map[string][]string, len(plan.Actions))

	for i, a := range plan.Actions {
		position[a.ID] = i
		indegree[a.ID] = len(a.DependsOn)
	}
	for _, a := range plan.Actions {
		for _, dep := range a.DependsOn {
			if _, known := position[dep]; !known {
				return nil, agenticpal.NewPlanStructureError(
					fmt.Sprintf("action '%s' depends on unknown action '%s'", a.ID, dep), nil)
			}
			dependents[dep] = append(dependents[dep], a.ID)
		}
	}

	var queue []string
	for _, a := range plan.Actions {
		if indegree[a.ID] == 0 {
			queue = append(queue, a.ID)
		}
	}

	ordered := make([]agenticpal.Action, 0, len(plan.Actions))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		action, _ := plan.Action(id)
		ordered = append(ordered, *action)

		// Dependents unlock in plan order so the FIFO tie-break holds.
		next := dependents[id]
		for _, depID := range next {
			indegree[depID]--
			if indegree[depID] == 0 {
				queue = insertByPosition(queue, depID, position)
			}
		}
	}

	if len(ordered) != len(plan.Actions) {
		return nil, agenticpal.NewPlanStructureError("dependency cycle detected in plan", nil)
	}
	return ordered, nil
}

func insertByPosition(queue []string, id string, position map[string]int) []string {
	for i, existing := range queue {
		if position[id] < position[existing] {
			queue = append(queue[:i], append([]string{id}, queue[i:]...)...)
			return queue
		}
	}
	return append(queue, id)
}

// resolveArgs substitutes dependency results into an action's arguments:
//
//   - a string value equal to a completed action's id is replaced by that
//     action's result payload (its data map, or the whole result when the
//     data map is absent);
//   - the special "from_result" key names an action whose data map is merged
//     into the arguments, then the key itself is dropped;
//   - a string value with the "expr:" prefix is evaluated as an expression
//     over the result set.
func resolveArgs(action agenticpal.Action, results map[string]agenticpal.Result) (map[string]interface{}, error) {
	resolved := make(map[string]interface{}, len(action.Args))

	// Merge from_result first so explicitly provided arguments always win.
	if value, ok := action.Args[FromResultKey]; ok {
		ref, ok := value.(string)
		if !ok {
			return nil, agenticpal.NewArgResolutionError("execution", action.ID, FromResultKey,
				fmt.Errorf("from_result must name an action id"))
		}
		source, ok := results[ref]
		if !ok {
			return nil, agenticpal.NewArgResolutionError("execution", action.ID, FromResultKey,
				fmt.Errorf("no result recorded for action '%s'", ref))
		}
		for k, v := range source.Data {
			resolved[k] = v
		}
	}

	for key, value := range action.Args {
		if key == FromResultKey {
			continue
		}

		str, isString := value.(string)
		if !isString {
			resolved[key] = value
			continue
		}

		if strings.HasPrefix(str, ExprPrefix) {
			evaluated, err := Evaluate(strings.TrimPrefix(str, ExprPrefix), results)
			if err != nil {
				return nil, agenticpal.NewArgResolutionError("execution", action.ID, key, err)
			}
			resolved[key] = evaluated
			continue
		}

		if source, ok := results[str]; ok {
			resolved[key] = source.Value()
			continue
		}

		resolved[key] = str
	}

	return resolved, nil
}
