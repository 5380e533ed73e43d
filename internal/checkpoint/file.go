package checkpoint

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/agenticpal/agenticpal"
	"github.com/agenticpal/agenticpal/pkg/logger"
)

// File is a file-backed Checkpointer. The whole store is kept in memory and
// flushed to a JSON file on every write, which is plenty for a
// single-process deployment that wants suspended turns to survive restarts.
type File struct {
	store    map[string]fileItem
	mutex    sync.RWMutex
	ttl      time.Duration
	filePath string
}

type fileItem struct {
	State      *agenticpal.TurnState `json:"state"`
	Expiration int64                 `json:"expiration"`
}

// NewFile creates a file-backed store, loading any previously persisted
// checkpoints.
func NewFile(ttl time.Duration, filePath string) *File {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &File{
		store:    make(map[string]fileItem),
		ttl:      ttl,
		filePath: filePath,
	}
	c.loadFromFile()
	go c.cleanupLoop(10 * time.Minute)
	return c
}

func (c *File) loadFromFile() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	file, err := os.Open(c.filePath)
	if err != nil {
		return
	}
	defer file.Close()
	if err := json.NewDecoder(file).Decode(&c.store); err != nil {
		logger.Warn().Err(err).Str("path", c.filePath).Msg("could not load checkpoint file")
	}
}

// saveToFile persists the store. Callers must hold at least a read lock.
func (c *File) saveToFile() {
	file, err := os.Create(c.filePath)
	if err != nil {
		logger.Error().Err(err).Str("path", c.filePath).Msg("could not persist checkpoints")
		return
	}
	defer file.Close()
	if err := json.NewEncoder(file).Encode(c.store); err != nil {
		logger.Error().Err(err).Str("path", c.filePath).Msg("could not encode checkpoints")
	}
}

// Put stores the suspended turn for a thread and flushes to disk.
func (c *File) Put(ctx context.Context, threadID string, state *agenticpal.TurnState) error {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.store[threadID] = fileItem{
		State:      state,
		Expiration: time.Now().Add(c.ttl).UnixNano(),
	}
	c.saveToFile()
	return nil
}

// Get retrieves a suspended turn. Expired entries count as absent.
func (c *File) Get(ctx context.Context, threadID string) (*agenticpal.TurnState, error) {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return nil, err
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, found := c.store[threadID]
	if !found || time.Now().UnixNano() > item.Expiration {
		return nil, agenticpal.NewNoPendingTurnError(threadID)
	}
	return item.State, nil
}

// Delete removes a thread's checkpoint and flushes to disk.
func (c *File) Delete(ctx context.Context, threadID string) error {
	if err := errbuilder.WrapIfContextDone(ctx, nil); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.store, threadID)
	c.saveToFile()
	return nil
}

func (c *File) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now().UnixNano()
		for key, item := range c.store {
			if now > item.Expiration {
				delete(c.store, key)
			}
		}
		c.saveToFile()
		c.mutex.Unlock()
	}
}
