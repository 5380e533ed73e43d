package agenticpal

import (
	"fmt"
	"strings"
)

// ConfirmationDecision is the interpreted meaning of a user's reply to a
// confirmation prompt.
type ConfirmationDecision string

const (
	// DecisionConfirmed approves the pending destructive actions.
	DecisionConfirmed ConfirmationDecision = "confirmed"
	// DecisionCancelled rejects the pending destructive actions.
	DecisionCancelled ConfirmationDecision = "cancelled"
	// DecisionEdit asks to modify the pending actions before deciding.
	DecisionEdit ConfirmationDecision = "edit"
	// DecisionUnclear means the reply matched no known token.
	DecisionUnclear ConfirmationDecision = "unclear"
)

var (
	affirmativeTokens = map[string]bool{
		"yes": true, "y": true, "confirm": true, "ok": true, "proceed": true,
	}
	negativeTokens = map[string]bool{
		"no": true, "n": true, "cancel": true, "abort": true,
	}
)

// ParseConfirmation interprets a raw user reply against the confirmation
// token tables. Matching is case-insensitive and ignores surrounding
// whitespace; anything outside the tables is unclear, never a default
// approval.
func ParseConfirmation(reply string) ConfirmationDecision {
	token := strings.ToLower(strings.TrimSpace(reply))
	switch {
	case affirmativeTokens[token]:
		return DecisionConfirmed
	case negativeTokens[token]:
		return DecisionCancelled
	case token == "edit":
		return DecisionEdit
	default:
		return DecisionUnclear
	}
}

// DestructiveLabeler reports whether a tool is destructive and, when it is,
// what kind of item it removes (for example "calendar event" or "task").
type DestructiveLabeler func(tool string) (label string, destructive bool)

// identifierArgs are checked in order when naming the target of a
// destructive action in the confirmation prompt.
var identifierArgs = []string{"event_id", "task_id", "id"}

// RenderConfirmationPrompt builds the message shown to the user when a plan
// contains destructive actions. Each pending action is listed with the item
// kind and the identifier it targets.
func RenderConfirmationPrompt(pending []Action, label DestructiveLabeler) string {
	var b strings.Builder
	b.WriteString("**Confirmation Required**\n\n")
	b.WriteString("The following actions will permanently modify your data:\n\n")
	for _, a := range pending {
		kind := "item"
		if label != nil {
			if l, ok := label(a.Tool); ok && l != "" {
				kind = l
			}
		}
		id := actionTargetID(a)
		if id != "" {
			fmt.Fprintf(&b, "- Delete %s (ID: %s)\n", kind, id)
		} else {
			fmt.Fprintf(&b, "- Delete %s\n", kind)
		}
	}
	b.WriteString("\nReply **yes** to confirm, **no** to cancel, or **edit** to modify.")
	return b.String()
}

func actionTargetID(a Action) string {
	for _, key := range identifierArgs {
		if v, ok := a.Args[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}

// Canned gate replies. The clarification loop re-suspends the turn with one
// of these until the user answers with a recognized token.
const (
	MsgOperationCancelled  = "Operation cancelled."
	MsgEditRequested       = "Please specify what you'd like to change."
	MsgConfirmationUnclear = "Please reply **yes** to confirm or **no** to cancel."
)
