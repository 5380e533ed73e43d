// Package history stores the rolling conversation transcript per thread.
// The planner and synthesizer only ever see a bounded window of recent
// turns, so stores cap what they retain.
package history

import (
	"context"

	"github.com/agenticpal/agenticpal"
)

// DefaultMaxTurns caps how many turns a store retains per thread.
const DefaultMaxTurns = 20

// Store keeps per-thread conversation history.
type Store interface {
	// Append records a turn at the end of the thread's history.
	Append(ctx context.Context, threadID string, turn agenticpal.HistoryTurn) error
	// Recent returns up to n most recent turns in chronological order.
	Recent(ctx context.Context, threadID string, n int) ([]agenticpal.HistoryTurn, error)
	// Clear drops the thread's history.
	Clear(ctx context.Context, threadID string) error
}
