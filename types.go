package agenticpal

import "fmt"

// ResultErrorKind classifies a failed Result.
type ResultErrorKind string

const (
	// ErrKindValidation indicates the arguments failed schema validation.
	ErrKindValidation ResultErrorKind = "validation"
	// ErrKindUnknownTool indicates the tool name is not in the catalog.
	ErrKindUnknownTool ResultErrorKind = "unknown_tool"
	// ErrKindTimeout indicates the invocation exceeded its time budget.
	ErrKindTimeout ResultErrorKind = "timeout"
	// ErrKindNotFound indicates the target entity does not exist.
	ErrKindNotFound ResultErrorKind = "not_found"
	// ErrKindDateParse indicates a date or time string could not be resolved.
	ErrKindDateParse ResultErrorKind = "date_parse"
	// ErrKindExecution covers all other tool execution failures.
	ErrKindExecution ResultErrorKind = "execution"
)

// ResultError carries a classified failure inside a Result.
type ResultError struct {
	Kind    ResultErrorKind `json:"kind"`
	Message string          `json:"message"`
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Result is the uniform envelope every capability invocation produces.
// A Result is never absent for an executed action: failures, timeouts and
// validation errors are all expressed here rather than as Go errors.
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ResultError           `json:"error,omitempty"`
}

// FailedResult builds a failed Result with a classified error.
func FailedResult(kind ResultErrorKind, message string) Result {
	return Result{
		Success: false,
		Message: message,
		Error:   &ResultError{Kind: kind, Message: message},
	}
}

// Value returns the payload dependent actions should consume: the data map
// when present, otherwise the whole result.
func (r Result) Value() interface{} {
	if r.Data != nil {
		return r.Data
	}
	return r
}

// Action is a single planned tool invocation.
type Action struct {
	ID                  string                 `json:"id"`
	Tool                string                 `json:"tool"`
	Args                map[string]interface{} `json:"args"`
	DependsOn           []string               `json:"depends_on,omitempty"`
	PendingConfirmation bool                   `json:"pending_confirmation,omitempty"`
}

// Plan is the ordered list of actions produced by the planner for one turn.
type Plan struct {
	Actions              []Action `json:"actions"`
	RequiresConfirmation bool     `json:"requires_confirmation,omitempty"`
}

// Action returns the action with the given id, if any.
func (p *Plan) Action(id string) (*Action, bool) {
	for i := range p.Actions {
		if p.Actions[i].ID == id {
			return &p.Actions[i], true
		}
	}
	return nil, false
}

// HasDependencies reports whether any action declares a depends_on edge.
func (p *Plan) HasDependencies() bool {
	for i := range p.Actions {
		if len(p.Actions[i].DependsOn) > 0 {
			return true
		}
	}
	return false
}

// PendingActions returns the actions awaiting user confirmation.
func (p *Plan) PendingActions() []Action {
	var pending []Action
	for _, a := range p.Actions {
		if a.PendingConfirmation {
			pending = append(pending, a)
		}
	}
	return pending
}

// Validate checks the structural integrity of the plan: unique ids,
// dependency references that resolve, and an acyclic dependency graph.
// It returns a PLAN_STRUCTURE_ERROR on the first defect found.
func (p *Plan) Validate() error {
	seen := make(map[string]bool, len(p.Actions))
	for _, a := range p.Actions {
		if a.ID == "" {
			return NewPlanStructureError("plan contains an action with an empty id", nil)
		}
		if seen[a.ID] {
			return NewPlanStructureError(fmt.Sprintf("duplicate action id '%s'", a.ID), nil)
		}
		seen[a.ID] = true
	}
	for _, a := range p.Actions {
		for _, dep := range a.DependsOn {
			if !seen[dep] {
				return NewPlanStructureError(fmt.Sprintf("action '%s' depends on unknown action '%s'", a.ID, dep), nil)
			}
		}
	}
	if cycle := p.findCycle(); cycle != "" {
		return NewPlanStructureError(fmt.Sprintf("dependency cycle involving action '%s'", cycle), nil)
	}
	return nil
}

// findCycle runs a colored depth-first search over the dependency graph and
// returns the id of an action on a cycle, or "" when the graph is acyclic.
func (p *Plan) findCycle() string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(p.Actions))
	deps := make(map[string][]string, len(p.Actions))
	for _, a := range p.Actions {
		deps[a.ID] = a.DependsOn
	}

	var visit func(id string) string
	visit = func(id string) string {
		color[id] = gray
		for _, dep := range deps[id] {
			switch color[dep] {
			case gray:
				return dep
			case white:
				if hit := visit(dep); hit != "" {
					return hit
				}
			}
		}
		color[id] = black
		return ""
	}

	for _, a := range p.Actions {
		if color[a.ID] == white {
			if hit := visit(a.ID); hit != "" {
				return hit
			}
		}
	}
	return ""
}

// HistoryTurn is one prior message in the conversation, oldest first.
type HistoryTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
