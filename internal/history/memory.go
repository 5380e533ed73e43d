package history

import (
	"context"
	"sync"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/agenticpal/agenticpal"
)

// Memory is a mutex-protected in-memory Store.
type Memory struct {
	store    map[string][]agenticpal.HistoryTurn
	mutex    sync.RWMutex
	maxTurns int
}

// NewMemory creates an in-memory store. A non-positive cap uses the default.
func NewMemory(maxTurns int) *Memory {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Memory{
		store:    make(map[string][]agenticpal.HistoryTurn),
		maxTurns: maxTurns,
	}
}

// Append records a turn, evicting the oldest once the cap is reached.
func (s *Memory) Append(ctx context.Context, threadID string, turn agenticpal.HistoryTurn) error {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	turns := append(s.store[threadID], turn)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.store[threadID] = turns
	return nil
}

// Recent returns up to n most recent turns in chronological order.
func (s *Memory) Recent(ctx context.Context, threadID string, n int) ([]agenticpal.HistoryTurn, error) {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	turns := s.store[threadID]
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]agenticpal.HistoryTurn, len(turns))
	copy(out, turns)
	return out, nil
}

// Clear drops the thread's history.
func (s *Memory) Clear(ctx context.Context, threadID string) error {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.store, threadID)
	return nil
}
