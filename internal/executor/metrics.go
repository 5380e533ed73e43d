package executor

import (
	"sync"
	"time"

	"github.com/agenticpal/agenticpal"
)

// Metrics tracks statistics about plan execution.
type Metrics struct {
	ActionsExecuted    int
	ActionsSucceeded   int
	ActionsFailed      int
	ActionsTimedOut    int
	TotalDuration      time.Duration
	LongestActionTime  time.Duration
	ShortestActionTime time.Duration

	mu sync.Mutex // Protects metrics updates
}

func (m *Metrics) record(elapsed time.Duration, result agenticpal.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ActionsExecuted++
	if result.Success {
		m.ActionsSucceeded++
	} else {
		m.ActionsFailed++
		if result.Error != nil && result.Error.Kind == agenticpal.ErrKindTimeout {
			m.ActionsTimedOut++
		}
	}
	m.TotalDuration += elapsed
	if elapsed > m.LongestActionTime {
		m.LongestActionTime = elapsed
	}
	if m.ShortestActionTime == 0 || elapsed < m.ShortestActionTime {
		m.ShortestActionTime = elapsed
	}
}

// Copy returns a snapshot without the mutex.
func (m *Metrics) Copy() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Metrics{
		ActionsExecuted:    m.ActionsExecuted,
		ActionsSucceeded:   m.ActionsSucceeded,
		ActionsFailed:      m.ActionsFailed,
		ActionsTimedOut:    m.ActionsTimedOut,
		TotalDuration:      m.TotalDuration,
		LongestActionTime:  m.LongestActionTime,
		ShortestActionTime: m.ShortestActionTime,
	}
}
