package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/llm"
	"github.com/agenticpal/agenticpal/internal/prompt"
)

// Structured is the single-shot planner: instead of a tool-calling dialogue,
// the model emits a typed list of meta-operation calls in one turn, and the
// planner replays them through the same facade dispatch. Useful with models
// that handle structured output better than native tool calling.
type Structured struct {
	model         llm.StructuredPlannerModel
	newFacade     FacadeFactory
	historyWindow int
	now           func() time.Time
}

// StructuredOption configures the structured planner.
type StructuredOption func(*Structured)

// WithStructuredHistoryWindow bounds how many prior turns the model sees.
func WithStructuredHistoryWindow(n int) StructuredOption {
	return func(p *Structured) {
		if n > 0 {
			p.historyWindow = n
		}
	}
}

// WithStructuredClock overrides the time source used in the system prompt.
func WithStructuredClock(now func() time.Time) StructuredOption {
	return func(p *Structured) {
		if now != nil {
			p.now = now
		}
	}
}

// NewStructured creates a single-shot planner.
func NewStructured(model llm.StructuredPlannerModel, newFacade FacadeFactory, opts ...StructuredOption) *Structured {
	p := &Structured{
		model:         model,
		newFacade:     newFacade,
		historyWindow: DefaultHistoryWindow,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PlanActions extracts the meta-calls in one model turn and replays them.
func (p *Structured) PlanActions(ctx context.Context, message string, history []agenticpal.HistoryTurn) (*agenticpal.PlanOutput, error) {
	facade := p.newFacade()
	system := prompt.StructuredPlanner(p.now())

	calls, err := p.model.PlanCalls(ctx, system, renderRequest(history, p.historyWindow, message))
	if err != nil {
		return nil, agenticpal.NewPlanGenerationError(err)
	}

	for _, call := range calls {
		facade.Dispatch(ctx, call.Operation, call.Params)
	}

	return snapshotOutput(facade), nil
}

// renderRequest flattens the bounded history and the current message into
// the single user turn the structured model receives.
func renderRequest(history []agenticpal.HistoryTurn, window int, message string) string {
	if len(history) > window {
		history = history[len(history)-window:]
	}
	var b strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString("Current request: ")
	b.WriteString(message)
	return b.String()
}
