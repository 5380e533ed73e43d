// Package synthesizer turns a completed turn into the final natural-language
// reply. It applies a strict precedence: a pending confirmation echoes the
// gate's question, a turn-level error gets an apology, a turn with no
// actions gets a conversational reply, and everything else is a structured
// summary of the tool results rendered by the model.
package synthesizer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/internal/llm"
	"github.com/agenticpal/agenticpal/internal/prompt"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

// Synthesizer renders final responses through a text model.
type Synthesizer struct {
	model llm.TextModel
}

// New creates a synthesizer over a text model.
func New(model llm.TextModel) *Synthesizer {
	return &Synthesizer{model: model}
}

// actionOutcome is the per-action summary handed to the model.
type actionOutcome struct {
	Tool    string                  `json:"tool"`
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Result  agenticpal.Result       `json:"result"`
	Error   *agenticpal.ResultError `json:"error,omitempty"`
}

// Synthesize produces the turn's final response. Model failures degrade to a
// plain fallback rather than failing the turn.
func (s *Synthesizer) Synthesize(ctx context.Context, input agenticpal.SynthesisInput) (string, error) {
	// Precedence 1: a suspended confirmation echoes the gate's question.
	if input.ConfirmationPending && input.ConfirmationMessage != "" {
		return input.ConfirmationMessage, nil
	}

	// Precedence 2: turn-level errors apologize and invite a retry.
	if input.ErrorMessage != "" {
		return fmt.Sprintf("I encountered an error: %s. Please try again.", input.ErrorMessage), nil
	}

	// A cancelled turn with nothing else to report acknowledges the
	// cancellation directly.
	if input.Cancelled && len(input.Actions) == 0 {
		return agenticpal.MsgOperationCancelled + " Nothing was deleted.", nil
	}

	// Precedence 3: no actions means the turn was conversational.
	if len(input.Actions) == 0 {
		return s.conversational(ctx, input)
	}

	// Precedence 4: structured summary of the results.
	return s.summarize(ctx, input)
}

func (s *Synthesizer) conversational(ctx context.Context, input agenticpal.SynthesisInput) (string, error) {
	messages := historyMessages(input.History)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input.UserMessage})

	reply, err := s.model.Complete(ctx, prompt.Conversational, messages)
	if err != nil {
		logger.Warn().Err(err).Msg("conversational synthesis failed, using fallback")
		return "I'm here to help! What would you like me to do?", nil
	}
	return reply, nil
}

func (s *Synthesizer) summarize(ctx context.Context, input agenticpal.SynthesisInput) (string, error) {
	outcomes := make([]actionOutcome, 0, len(input.Actions))
	for _, a := range input.Actions {
		r := input.Results[a.ID]
		outcomes = append(outcomes, actionOutcome{
			Tool:    a.Tool,
			Success: r.Success,
			Message: r.Message,
			Result:  r,
			Error:   r.Error,
		})
	}

	encoded, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return "", agenticpal.NewSynthesisError(err)
	}

	cancelledNote := ""
	if input.Cancelled {
		cancelledNote = "\nThe user cancelled the destructive part of this request; mention that it was not performed.\n"
	}

	user := fmt.Sprintf(`User's original request: %s

Tool execution results:
%s
%s
Generate a natural, helpful response summarizing what was done.
If any tools failed, explain the error and suggest alternatives.
Format lists and data nicely for readability.`, input.UserMessage, encoded, cancelledNote)

	reply, err := s.model.Complete(ctx, prompt.Synthesizer, []llm.Message{{Role: llm.RoleUser, Content: user}})
	if err != nil {
		logger.Warn().Err(err).Msg("result synthesis failed, using fallback")
		return fallbackSummary(outcomes), nil
	}
	return reply, nil
}

// fallbackSummary is the degraded response when the model is unavailable.
func fallbackSummary(outcomes []actionOutcome) string {
	succeeded, failed := 0, 0
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		} else {
			failed++
		}
	}
	if failed == 0 {
		return fmt.Sprintf("Done. I completed %d action(s) for you.", succeeded)
	}
	return fmt.Sprintf("I completed %d action(s), but %d failed. Please try again or rephrase the failed part.", succeeded, failed)
}

func historyMessages(history []agenticpal.HistoryTurn) []llm.Message {
	messages := make([]llm.Message, 0, len(history))
	for _, turn := range history {
		role := llm.RoleUser
		if turn.Role == agenticpal.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: turn.Content})
	}
	return messages
}
