package agenticpal

import "fmt"

// Error codes for specific failure types
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeToolNotFound   = "TOOL_NOT_FOUND"
	ErrCodeToolExecution  = "TOOL_EXECUTION_ERROR"
	ErrCodeArgResolution  = "ARGUMENT_RESOLUTION_ERROR"
	ErrCodePlanGeneration = "PLAN_GENERATION_ERROR"
	ErrCodePlanStructure  = "PLAN_STRUCTURE_ERROR"
	ErrCodeSynthesis      = "SYNTHESIS_ERROR"
	ErrCodeConfiguration  = "CONFIGURATION_ERROR"
	ErrCodeCancelled      = "EXECUTION_CANCELLED"
	ErrCodeTimeout        = "EXECUTION_TIMEOUT"
	ErrCodeCheckpoint     = "CHECKPOINT_ERROR"
	ErrCodeNoPendingTurn  = "NO_PENDING_TURN"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// AgentError is a custom error type for orchestrator specific errors.
type AgentError struct {
	Code    string // A machine-readable error code (e.g., ErrCodeToolNotFound)
	Message string // A human-readable message
	Stage   string // The stage where the error occurred (e.g., "planning", "execution")
	Cause   error  // The underlying error, if any
}

// Error implements the error interface.
func (e *AgentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Stage, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Stage, e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error, allowing for error chaining.
func (e *AgentError) Unwrap() error {
	return e.Cause
}

// NewError creates a new AgentError.
func NewError(code, stage, message string, cause error) *AgentError {
	return &AgentError{
		Code:    code,
		Message: message,
		Stage:   stage,
		Cause:   cause,
	}
}

// Specific error constructors

func NewValidationError(stage, message string, cause error) *AgentError {
	return NewError(ErrCodeValidation, stage, message, cause)
}

func NewToolNotFoundError(stage, toolName string) *AgentError {
	return NewError(ErrCodeToolNotFound, stage, fmt.Sprintf("tool '%s' not found", toolName), nil)
}

func NewToolExecutionError(stage, toolName string, cause error) *AgentError {
	return NewError(ErrCodeToolExecution, stage, fmt.Sprintf("execution failed for tool '%s'", toolName), cause)
}

func NewArgResolutionError(stage, actionID, argName string, cause error) *AgentError {
	msg := fmt.Sprintf("failed to resolve argument '%s' for action '%s'", argName, actionID)
	return NewError(ErrCodeArgResolution, stage, msg, cause)
}

func NewPlanGenerationError(cause error) *AgentError {
	return NewError(ErrCodePlanGeneration, "planning", "failed to generate action plan", cause)
}

func NewPlanStructureError(message string, cause error) *AgentError {
	return NewError(ErrCodePlanStructure, "routing", message, cause)
}

func NewSynthesisError(cause error) *AgentError {
	return NewError(ErrCodeSynthesis, "synthesis", "failed to synthesize final response", cause)
}

func NewConfigurationError(message string, cause error) *AgentError {
	return NewError(ErrCodeConfiguration, "initialization", message, cause)
}

func NewCancelledError(stage string, cause error) *AgentError {
	msg := "execution cancelled"
	if cause != nil && cause.Error() != "" && cause.Error() != "context canceled" {
		msg = fmt.Sprintf("execution cancelled: %v", cause)
	}
	return NewError(ErrCodeCancelled, stage, msg, cause)
}

func NewTimeoutError(stage string, cause error) *AgentError {
	return NewError(ErrCodeTimeout, stage, "execution timed out", cause)
}

func NewCheckpointError(operation string, cause error) *AgentError {
	return NewError(ErrCodeCheckpoint, "checkpoint", fmt.Sprintf("checkpoint operation '%s' failed", operation), cause)
}

// NewNoPendingTurnError signals a confirmation reply arriving for a thread
// that has no suspended turn, typically a replay of an already consumed
// confirmation.
func NewNoPendingTurnError(threadID string) *AgentError {
	return NewError(ErrCodeNoPendingTurn, "confirmation", fmt.Sprintf("no pending confirmation for thread '%s'", threadID), nil)
}

func NewInternalError(stage, message string, cause error) *AgentError {
	return NewError(ErrCodeInternal, stage, message, cause)
}

// IsNoPendingTurn reports whether err is a NO_PENDING_TURN AgentError.
func IsNoPendingTurn(err error) bool {
	ae, ok := err.(*AgentError)
	return ok && ae.Code == ErrCodeNoPendingTurn
}
