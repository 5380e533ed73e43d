package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agenticpal/agenticpal"
)

// Redis is a Checkpointer backed by Redis, for deployments where the
// confirmation reply may land on a different process than the one that
// suspended the turn.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store. A non-positive TTL uses the
// default.
func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func checkpointKey(threadID string) string {
	return fmt.Sprintf("agenticpal:checkpoint:%s", threadID)
}

// Put stores the suspended turn for a thread with the configured TTL.
func (c *Redis) Put(ctx context.Context, threadID string, state *agenticpal.TurnState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return agenticpal.NewCheckpointError("put", err)
	}
	if err := c.client.Set(ctx, checkpointKey(threadID), payload, c.ttl).Err(); err != nil {
		return agenticpal.NewCheckpointError("put", err)
	}
	return nil
}

// Get retrieves a suspended turn.
func (c *Redis) Get(ctx context.Context, threadID string) (*agenticpal.TurnState, error) {
	payload, err := c.client.Get(ctx, checkpointKey(threadID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, agenticpal.NewNoPendingTurnError(threadID)
	}
	if err != nil {
		return nil, agenticpal.NewCheckpointError("get", err)
	}

	var state agenticpal.TurnState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, agenticpal.NewCheckpointError("get", err)
	}
	return &state, nil
}

// Delete removes a thread's checkpoint. Deleting an absent key is a no-op.
func (c *Redis) Delete(ctx context.Context, threadID string) error {
	if err := c.client.Del(ctx, checkpointKey(threadID)).Err(); err != nil {
		return agenticpal.NewCheckpointError("delete", err)
	}
	return nil
}
