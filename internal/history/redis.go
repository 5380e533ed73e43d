package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agenticpal/agenticpal"
)

// DefaultTTL is how long an idle thread's history survives.
const DefaultTTL = 7 * 24 * time.Hour

// Redis is a Store backed by a Redis list per thread, trimmed to the cap on
// every append.
type Redis struct {
	client   redis.Cmdable
	maxTurns int
	ttl      time.Duration
}

// NewRedis creates a Redis-backed store. Non-positive cap or TTL use the
// defaults.
func NewRedis(client redis.Cmdable, maxTurns int, ttl time.Duration) *Redis {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, maxTurns: maxTurns, ttl: ttl}
}

func historyKey(threadID string) string {
	return fmt.Sprintf("agenticpal:history:%s", threadID)
}

// Append records a turn, trims to the cap, and refreshes the idle TTL.
func (s *Redis) Append(ctx context.Context, threadID string, turn agenticpal.HistoryTurn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal history turn: %w", err)
	}

	key := historyKey(threadID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, payload)
	pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to n most recent turns in chronological order.
func (s *Redis) Recent(ctx context.Context, threadID string, n int) ([]agenticpal.HistoryTurn, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	raw, err := s.client.LRange(ctx, historyKey(threadID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	turns := make([]agenticpal.HistoryTurn, 0, len(raw))
	for _, item := range raw {
		var turn agenticpal.HistoryTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("decode history turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear drops the thread's history.
func (s *Redis) Clear(ctx context.Context, threadID string) error {
	if err := s.client.Del(ctx, historyKey(threadID)).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
