package eventbus

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agenticpal/agenticpal/pkg/logger"
)

// Defaults for the channel bus.
const (
	DefaultBufferSize    = 100
	DefaultWorkerCount   = 5
	DefaultMaxRetries    = 3
	DefaultRetryInterval = 100 * time.Millisecond
)

var errBusClosed = errors.New("event bus is closed")

// ChannelEventBus is an EventBus over a buffered channel drained by a worker
// pool. Handlers run on the workers, never on the publisher's goroutine, so
// a slow subscriber cannot stall a turn.
type ChannelEventBus struct {
	mutex          sync.RWMutex
	subscribers    map[EventType]map[string]EventHandler
	allSubscribers map[string]EventHandler
	closed         bool

	eventChan chan queuedEvent
	done      chan struct{}
	wg        sync.WaitGroup

	bufferSize    int
	workerCount   int
	maxRetries    int
	retryInterval time.Duration
}

// queuedEvent keeps the publisher's context with the event so delivery can
// be skipped once the originating turn is cancelled.
type queuedEvent struct {
	ctx   context.Context
	event Event
}

// ChannelEventBusOption configures the channel bus.
type ChannelEventBusOption func(*ChannelEventBus)

// WithBufferSize sets the publish channel capacity.
func WithBufferSize(size int) ChannelEventBusOption {
	return func(eb *ChannelEventBus) {
		if size > 0 {
			eb.bufferSize = size
		}
	}
}

// WithWorkerCount sets how many goroutines drain the channel.
func WithWorkerCount(count int) ChannelEventBusOption {
	return func(eb *ChannelEventBus) {
		if count > 0 {
			eb.workerCount = count
		}
	}
}

// WithRetries configures per-handler retry behavior.
func WithRetries(maxRetries int, retryInterval time.Duration) ChannelEventBusOption {
	return func(eb *ChannelEventBus) {
		eb.maxRetries = maxRetries
		eb.retryInterval = retryInterval
	}
}

// NewChannelEventBus creates a bus and starts its workers.
func NewChannelEventBus(options ...ChannelEventBusOption) *ChannelEventBus {
	eb := &ChannelEventBus{
		subscribers:    make(map[EventType]map[string]EventHandler),
		allSubscribers: make(map[string]EventHandler),
		done:           make(chan struct{}),
		bufferSize:     DefaultBufferSize,
		workerCount:    DefaultWorkerCount,
		maxRetries:     DefaultMaxRetries,
		retryInterval:  DefaultRetryInterval,
	}
	for _, option := range options {
		option(eb)
	}
	eb.eventChan = make(chan queuedEvent, eb.bufferSize)

	for i := 0; i < eb.workerCount; i++ {
		eb.wg.Add(1)
		go eb.drain()
	}
	return eb
}

// Publish queues an event for delivery. It blocks only when the buffer is
// full, and then gives up if the context or the bus is done first.
func (eb *ChannelEventBus) Publish(ctx context.Context, event Event) error {
	if eb.isClosed() {
		return errBusClosed
	}

	item := queuedEvent{ctx: ctx, event: event}
	select {
	case eb.eventChan <- item:
		return nil
	default:
	}

	select {
	case eb.eventChan <- item:
		return nil
	case <-eb.done:
		return errBusClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe registers a handler for the given event types and returns its
// subscription id.
func (eb *ChannelEventBus) Subscribe(eventTypes []EventType, handler EventHandler) (string, error) {
	if handler == nil {
		return "", errors.New("handler cannot be nil")
	}
	if len(eventTypes) == 0 {
		return "", errors.New("at least one event type is required")
	}

	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	if eb.closed {
		return "", errBusClosed
	}

	id := uuid.New().String()
	for _, eventType := range eventTypes {
		if eb.subscribers[eventType] == nil {
			eb.subscribers[eventType] = make(map[string]EventHandler)
		}
		eb.subscribers[eventType][id] = handler
	}
	return id, nil
}

// SubscribeAll registers a handler that receives every event.
func (eb *ChannelEventBus) SubscribeAll(handler EventHandler) (string, error) {
	if handler == nil {
		return "", errors.New("handler cannot be nil")
	}

	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	if eb.closed {
		return "", errBusClosed
	}

	id := uuid.New().String()
	eb.allSubscribers[id] = handler
	return id, nil
}

// Unsubscribe removes a subscription. Unknown ids are a no-op.
func (eb *ChannelEventBus) Unsubscribe(subscriptionID string) error {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	delete(eb.allSubscribers, subscriptionID)
	for _, handlers := range eb.subscribers {
		delete(handlers, subscriptionID)
	}
	return nil
}

// Close stops the workers and refuses further publishes. Events still queued
// when Close is called are dropped.
func (eb *ChannelEventBus) Close() error {
	eb.mutex.Lock()
	if eb.closed {
		eb.mutex.Unlock()
		return nil
	}
	eb.closed = true
	eb.mutex.Unlock()

	close(eb.done)
	eb.wg.Wait()
	return nil
}

func (eb *ChannelEventBus) isClosed() bool {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()
	return eb.closed
}

func (eb *ChannelEventBus) drain() {
	defer eb.wg.Done()
	for {
		select {
		case <-eb.done:
			return
		case item := <-eb.eventChan:
			eb.deliver(item)
		}
	}
}

func (eb *ChannelEventBus) deliver(item queuedEvent) {
	if item.ctx.Err() != nil {
		return
	}

	// Snapshot the handlers so subscribers can be added or removed from
	// inside a handler without deadlocking.
	eb.mutex.RLock()
	handlers := make([]EventHandler, 0, len(eb.subscribers[item.event.Type()])+len(eb.allSubscribers))
	for _, h := range eb.subscribers[item.event.Type()] {
		handlers = append(handlers, h)
	}
	for _, h := range eb.allSubscribers {
		handlers = append(handlers, h)
	}
	eb.mutex.RUnlock()

	for _, handler := range handlers {
		eb.invoke(item.ctx, item.event, handler)
	}
}

// invoke runs one handler, retrying transient failures. A handler that keeps
// failing is logged and skipped; other handlers still run.
func (eb *ChannelEventBus) invoke(ctx context.Context, event Event, handler EventHandler) {
	var err error
	for attempt := 0; attempt <= eb.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}
		if err = handler(ctx, event); err == nil {
			return
		}
		if attempt == eb.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(eb.retryInterval):
		}
	}

	logger.Warn().
		Str("event_type", string(event.Type())).
		Int("retries", eb.maxRetries).
		Err(err).
		Msg("event handler kept failing")
}
