package agenticpal

import (
	"context"

	"github.com/agenticpal/agenticpal/internal/eventbus"
)

// Components holds references to the pieces the turn transitions need.
type Components struct {
	Planner     Planner
	Synthesizer Synthesizer

	// ParallelExecutor runs plans without dependencies; SequentialExecutor
	// runs plans in dependency order.
	ParallelExecutor   Executor
	SequentialExecutor Executor

	// Labeler names the item kind a destructive tool removes, for the
	// confirmation prompt.
	Labeler DestructiveLabeler
}

// NewTurnStateMachine builds the state machine for one conversational turn:
// plan, route, the confirmation gate, execution, and synthesis.
func NewTurnStateMachine(components Components, eventBus eventbus.EventBus) *StateMachine {
	sm := NewStateMachine(eventBus)

	sm.RegisterTransition(NodePlan, createPlanTransition(components))
	sm.RegisterTransition(NodeRoute, createRouteTransition())
	sm.RegisterTransition(NodeConfirm, createConfirmTransition(components))
	sm.RegisterTransition(NodeExecuteParallel, createExecuteTransition(components.ParallelExecutor, "execute_parallel"))
	sm.RegisterTransition(NodeExecuteSequential, createExecuteTransition(components.SequentialExecutor, "execute_sequential"))
	sm.RegisterTransition(NodeSynthesize, createSynthesizeTransition(components))

	sm.RegisterSuspendPoint(NodeConfirm)

	return sm
}

func publishEvent(ctx context.Context, eb eventbus.EventBus, eventType eventbus.EventType, payload interface{}, source string, metadata map[string]interface{}) {
	if eb == nil {
		return
	}
	eb.Publish(ctx, eventbus.NewEvent(eventType, payload, source, metadata))
}

// createPlanTransition runs the planner. Planning failures do not abort the
// turn; they steer to synthesis so the user still gets a response.
func createPlanTransition(components Components) Transition {
	return func(ctx context.Context, eb eventbus.EventBus, ts *TurnState) (Node, error) {
		publishEvent(ctx, eb, eventbus.EventPlanningStarted, ts.UserMessage, "StateMachine.Plan", map[string]interface{}{
			"thread_id": ts.ThreadID,
		})

		output, err := components.Planner.PlanActions(ctx, ts.UserMessage, ts.History)
		if err != nil {
			publishEvent(ctx, eb, eventbus.EventPlanningFailure, err.Error(), "StateMachine.Plan", map[string]interface{}{
				"thread_id": ts.ThreadID,
			})
			ts.SetError(err, "plan")
			return NodeSynthesize, nil
		}

		ts.Plan = output.Plan
		ts.DiscoveredTools = output.DiscoveredTools
		for actionID, result := range output.Results {
			ts.SetResult(actionID, result)
		}

		if err := ts.Plan.Validate(); err != nil {
			publishEvent(ctx, eb, eventbus.EventPlanningFailure, err.Error(), "StateMachine.Plan", map[string]interface{}{
				"thread_id": ts.ThreadID,
			})
			ts.SetError(err, "plan")
			return NodeSynthesize, nil
		}

		publishEvent(ctx, eb, eventbus.EventPlanningSuccess, ts.Plan, "StateMachine.Plan", map[string]interface{}{
			"thread_id":    ts.ThreadID,
			"action_count": len(ts.Plan.Actions),
		})
		return NodeRoute, nil
	}
}

// createRouteTransition picks the execution mode for the planned actions.
// The confirmation gate takes precedence over everything else.
func createRouteTransition() Transition {
	return func(ctx context.Context, eb eventbus.EventBus, ts *TurnState) (Node, error) {
		mode := Route(ts.Plan)
		ts.ExecutionMode = mode

		publishEvent(ctx, eb, eventbus.EventRouteSelected, string(mode), "StateMachine.Route", map[string]interface{}{
			"thread_id": ts.ThreadID,
		})

		switch mode {
		case ModeConfirm:
			return NodeConfirm, nil
		case ModeSequential:
			return NodeExecuteSequential, nil
		default:
			return NodeExecuteParallel, nil
		}
	}
}

// createConfirmTransition is the gate in front of destructive actions. On
// first entry it renders the prompt and suspends; on resume it interprets the
// reply and either releases the pending actions, cancels them, or asks again.
func createConfirmTransition(components Components) Transition {
	return func(ctx context.Context, eb eventbus.EventBus, ts *TurnState) (Node, error) {
		if ts.UserConfirmation == "" {
			ts.ConfirmationMessage = RenderConfirmationPrompt(ts.Plan.PendingActions(), components.Labeler)
			ts.Suspended = true
			publishEvent(ctx, eb, eventbus.EventConfirmationRequested, ts.ConfirmationMessage, "StateMachine.Confirm", map[string]interface{}{
				"thread_id":     ts.ThreadID,
				"pending_count": len(ts.Plan.PendingActions()),
			})
			return NodeConfirm, nil
		}

		decision := ParseConfirmation(ts.UserConfirmation)
		switch decision {
		case DecisionConfirmed:
			publishEvent(ctx, eb, eventbus.EventConfirmationApproved, ts.UserConfirmation, "StateMachine.Confirm", map[string]interface{}{
				"thread_id": ts.ThreadID,
			})
			for i := range ts.Plan.Actions {
				ts.Plan.Actions[i].PendingConfirmation = false
			}
			ts.ConfirmationMessage = ""
			if ts.Plan.HasDependencies() {
				return NodeExecuteSequential, nil
			}
			return NodeExecuteParallel, nil

		case DecisionCancelled:
			publishEvent(ctx, eb, eventbus.EventConfirmationCancelled, ts.UserConfirmation, "StateMachine.Confirm", map[string]interface{}{
				"thread_id": ts.ThreadID,
			})
			ts.Plan.Actions = withoutPendingDestructive(ts.Plan.Actions)
			ts.Cancelled = true
			ts.ConfirmationMessage = MsgOperationCancelled
			return NodeSynthesize, nil

		case DecisionEdit:
			ts.ConfirmationMessage = MsgEditRequested
		default:
			ts.ConfirmationMessage = MsgConfirmationUnclear
		}

		// Edit and unclear replies re-suspend the gate until the user
		// answers with a recognized token.
		publishEvent(ctx, eb, eventbus.EventConfirmationClarification, ts.UserConfirmation, "StateMachine.Confirm", map[string]interface{}{
			"thread_id": ts.ThreadID,
			"decision":  string(decision),
		})
		ts.UserConfirmation = ""
		ts.Suspended = true
		return NodeConfirm, nil
	}
}

func withoutPendingDestructive(actions []Action) []Action {
	kept := actions[:0]
	for _, a := range actions {
		if !a.PendingConfirmation {
			kept = append(kept, a)
		}
	}
	return kept
}

// createExecuteTransition runs the plan's remaining actions with the given
// executor and merges their results into the turn. Per-action failures live
// inside the results; only structural defects surface as turn errors.
func createExecuteTransition(exec Executor, stage string) Transition {
	return func(ctx context.Context, eb eventbus.EventBus, ts *TurnState) (Node, error) {
		results, err := exec.Execute(ctx, ts.Plan, ts.Results)
		for actionID, result := range results {
			ts.SetResult(actionID, result)
		}
		if err != nil {
			publishEvent(ctx, eb, eventbus.EventExecutionFailure, err.Error(), "StateMachine.Execute", map[string]interface{}{
				"thread_id": ts.ThreadID,
				"stage":     stage,
			})
			ts.SetError(err, stage)
		}
		return NodeSynthesize, nil
	}
}

// createSynthesizeTransition produces the final response and completes the
// turn. A synthesis failure still completes with an apology so the user is
// never left without an answer.
func createSynthesizeTransition(components Components) Transition {
	return func(ctx context.Context, eb eventbus.EventBus, ts *TurnState) (Node, error) {
		publishEvent(ctx, eb, eventbus.EventSynthesisStarted, ts.UserMessage, "StateMachine.Synthesize", map[string]interface{}{
			"thread_id":    ts.ThreadID,
			"result_count": len(ts.Results),
		})

		input := SynthesisInput{
			UserMessage:         ts.UserMessage,
			History:             ts.History,
			Results:             ts.Results,
			ConfirmationMessage: ts.ConfirmationMessage,
			Cancelled:           ts.Cancelled,
			ErrorMessage:        ts.ErrorMessage,
		}
		if ts.Plan != nil {
			input.Actions = ts.Plan.Actions
		}

		response, err := components.Synthesizer.Synthesize(ctx, input)
		if err != nil {
			publishEvent(ctx, eb, eventbus.EventSynthesisFailure, err.Error(), "StateMachine.Synthesize", map[string]interface{}{
				"thread_id": ts.ThreadID,
			})
			ts.SetError(err, "synthesize")
			response = "I ran into a problem while preparing your response. Please try again."
		} else {
			publishEvent(ctx, eb, eventbus.EventSynthesisSuccess, response, "StateMachine.Synthesize", map[string]interface{}{
				"thread_id": ts.ThreadID,
			})
		}

		ts.FinalResponse = response
		ts.Complete()
		return NodeComplete, nil
	}
}
