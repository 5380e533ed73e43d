// Package planner drives the model dialogue that turns a user message into
// a plan of tool invocations. The model only ever sees the three
// meta-operations of the discovery facade; everything it invokes is recorded
// on the facade as plan actions.
package planner

import (
	"context"
	"encoding/json"
	"time"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/llm"
	"github.com/agenticpal/agenticpal/internal/prompt"
	"github.com/agenticpal/agenticpal/internal/tools"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

// Defaults for the planning dialogue.
const (
	DefaultMaxIterations = 10
	DefaultHistoryWindow = 5
)

// FacadeFactory builds a fresh discovery facade for one planning pass.
// Facades accumulate recorded actions, so they must never be shared across
// turns.
type FacadeFactory func() *tools.Facade

// Loop is the iterative tool-calling planner: it converses with the model,
// dispatching every meta-operation call through the facade, until the model
// stops calling tools or the iteration cap is reached. Hitting the cap
// degrades to whatever plan has accumulated; it is not an error.
type Loop struct {
	model         llm.ToolCallingModel
	newFacade     FacadeFactory
	maxIterations int
	historyWindow int
	now           func() time.Time
}

// LoopOption configures the loop planner.
type LoopOption func(*Loop)

// WithMaxIterations caps the number of model turns in one planning pass.
func WithMaxIterations(n int) LoopOption {
	return func(p *Loop) {
		if n > 0 {
			p.maxIterations = n
		}
	}
}

// WithHistoryWindow bounds how many prior turns the model sees.
func WithHistoryWindow(n int) LoopOption {
	return func(p *Loop) {
		if n > 0 {
			p.historyWindow = n
		}
	}
}

// WithClock overrides the time source used in the system prompt.
func WithClock(now func() time.Time) LoopOption {
	return func(p *Loop) {
		if now != nil {
			p.now = now
		}
	}
}

// NewLoop creates an iterative planner.
func NewLoop(model llm.ToolCallingModel, newFacade FacadeFactory, opts ...LoopOption) *Loop {
	p := &Loop{
		model:         model,
		newFacade:     newFacade,
		maxIterations: DefaultMaxIterations,
		historyWindow: DefaultHistoryWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanActions runs the planning dialogue for one user message.
func (p *Loop) PlanActions(ctx context.Context, message string, history []agenticpal.HistoryTurn) (*agenticpal.PlanOutput, error) {
	facade := p.newFacade()
	system := prompt.Planner(p.now())
	specs := tools.Specs()

	messages := dialogueMessages(history, p.historyWindow, message)

	for iteration := 0; iteration < p.maxIterations; iteration++ {
		response, err := p.model.Generate(ctx, system, messages, specs)
		if err != nil {
			return nil, agenticpal.NewPlanGenerationError(err)
		}

		if len(response.ToolCalls) == 0 {
			break
		}
		messages = append(messages, *response)

		for _, call := range response.ToolCalls {
			result := facade.Dispatch(ctx, call.Name, call.Args)
			encoded, err := json.Marshal(result)
			if err != nil {
				encoded = []byte(`{"error": "result could not be encoded"}`)
			}
			messages = append(messages, llm.Message{
				Role:        llm.RoleTool,
				Content:     string(encoded),
				ToolCallRef: call.Ref,
				ToolName:    call.Name,
			})
		}
	}

	return snapshotOutput(facade), nil
}

func dialogueMessages(history []agenticpal.HistoryTurn, window int, message string) []llm.Message {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	messages := make([]llm.Message, 0, len(history)+1)
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == agenticpal.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	return append(messages, llm.Message{Role: llm.RoleUser, Content: message})
}

func snapshotOutput(facade *tools.Facade) *agenticpal.PlanOutput {
	plan, results, discovered := facade.Snapshot()
	logger.Debug().
		Int("actions", len(plan.Actions)).
		Int("results", len(results)).
		Bool("requires_confirmation", plan.RequiresConfirmation).
		Msg("planning pass finished")
	return &agenticpal.PlanOutput{
		Plan:            plan,
		Results:         results,
		DiscoveredTools: discovered,
	}
}
