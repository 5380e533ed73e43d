// Package checkpoint persists suspended turns keyed by thread id so a
// confirmation reply can resume exactly where the turn stopped. Stores are
// interchangeable: in-memory for tests and single-process runs, file-backed
// for local durability, Redis for shared deployments.
package checkpoint

import (
	"context"
	"sync"
	"time"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

// DefaultTTL bounds how long a suspended turn waits for its confirmation.
const DefaultTTL = 24 * time.Hour

// Memory is a mutex-protected in-memory Checkpointer with TTL expiry.
type Memory struct {
	store map[string]memoryItem
	mutex sync.RWMutex
	ttl   time.Duration
}

type memoryItem struct {
	state      *agenticpal.TurnState
	expiration int64
}

// NewMemory creates an in-memory store. A non-positive TTL uses the default.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Memory{
		store: make(map[string]memoryItem),
		ttl:   ttl,
	}
	// Background cleanup for threads that never answered.
	go c.cleanupLoop(10 * time.Minute)
	return c
}

// Put stores the suspended turn for a thread, replacing any previous one.
func (c *Memory) Put(ctx context.Context, threadID string, state *agenticpal.TurnState) error {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.store[threadID] = memoryItem{
		state:      state,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}
	return nil
}

// Get retrieves a suspended turn. Expired entries count as absent.
func (c *Memory) Get(ctx context.Context, threadID string) (*agenticpal.TurnState, error) {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return nil, err
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, found := c.store[threadID]
	if !found {
		return nil, agenticpal.NewNoPendingTurnError(threadID)
	}
	if time.Now().UnixNano() > item.expiration {
		logger.Debug().Str("thread_id", threadID).Msg("checkpoint expired")
		return nil, agenticpal.NewNoPendingTurnError(threadID)
	}
	return item.state, nil
}

// Delete removes a thread's checkpoint. Deleting an absent entry is a no-op.
func (c *Memory) Delete(ctx context.Context, threadID string) error {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.store, threadID)
	return nil
}

func (c *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now().UnixNano()
		for key, item := range c.store {
			if now > item.expiration {
				delete(c.store, key)
			}
		}
		c.mutex.Unlock()
	}
}
