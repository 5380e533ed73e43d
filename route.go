package agenticpal

// ExecutionMode selects how a plan's actions are carried out.
type ExecutionMode string

const (
	// ModeConfirm suspends the turn until the user approves the plan's
	// destructive actions.
	ModeConfirm ExecutionMode = "confirm"
	// ModeSequential executes actions in dependency order.
	ModeSequential ExecutionMode = "sequential"
	// ModeParallel executes independent actions concurrently.
	ModeParallel ExecutionMode = "parallel"
)

// Route decides the execution mode for a plan. Confirmation takes precedence
// over everything: a plan that needs user approval is never executed first.
// Next, any dependency edge forces sequential execution. Independent plans
// run in parallel.
func Route(plan *Plan) ExecutionMode {
	if plan.RequiresConfirmation {
		return ModeConfirm
	}
	if plan.HasDependencies() {
		return ModeSequential
	}
	return ModeParallel
}
