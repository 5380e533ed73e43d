package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func newTestBus() *ChannelEventBus {
	return NewChannelEventBus(
		WithBufferSize(4),
		WithWorkerCount(1),
		WithRetries(1, 5*time.Millisecond),
	)
}

func TestChannelEventBus_DeliversToTypeSubscriber(t *testing.T) {
	eb := newTestBus()
	defer eb.Close()

	received := make(chan EventType, 1)
	_, err := eb.Subscribe([]EventType{EventActionSucceeded}, func(_ context.Context, event Event) error {
		received <- event.Type()
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := eb.Publish(context.Background(), NewEvent(EventActionSucceeded, nil, "test", nil)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case typ := <-received:
		if typ != EventActionSucceeded {
			t.Errorf("got event type %q", typ)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestChannelEventBus_DoesNotDeliverOtherTypes(t *testing.T) {
	eb := newTestBus()
	defer eb.Close()

	var calls atomic.Int32
	eb.Subscribe([]EventType{EventActionFailed}, func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})

	eb.Publish(context.Background(), NewEvent(EventActionSucceeded, nil, "test", nil))
	time.Sleep(30 * time.Millisecond)

	if calls.Load() != 0 {
		t.Error("handler received an event type it did not subscribe to")
	}
}

func TestChannelEventBus_SubscribeAll(t *testing.T) {
	eb := newTestBus()
	defer eb.Close()

	received := make(chan EventType, 2)
	eb.SubscribeAll(func(_ context.Context, event Event) error {
		received <- event.Type()
		return nil
	})

	eb.Publish(context.Background(), NewEvent(EventTurnStarted, nil, "test", nil))
	eb.Publish(context.Background(), NewEvent(EventTurnCompleted, nil, "test", nil))

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatalf("missing event %d", i)
		}
	}
}

func TestChannelEventBus_RetriesFailingHandler(t *testing.T) {
	eb := NewChannelEventBus(
		WithBufferSize(1),
		WithWorkerCount(1),
		WithRetries(2, 5*time.Millisecond),
	)
	defer eb.Close()

	var calls atomic.Int32
	done := make(chan struct{})
	eb.Subscribe([]EventType{EventActionFailed}, func(context.Context, Event) error {
		if calls.Add(1) < 2 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})

	if err := eb.Publish(context.Background(), NewEvent(EventActionFailed, nil, "test", nil)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("handler was not retried, calls=%d", calls.Load())
	}
}

func TestChannelEventBus_Unsubscribe(t *testing.T) {
	eb := newTestBus()
	defer eb.Close()

	var calls atomic.Int32
	id, err := eb.Subscribe([]EventType{EventActionStarted}, func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := eb.Unsubscribe(id); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	eb.Publish(context.Background(), NewEvent(EventActionStarted, nil, "test", nil))
	time.Sleep(30 * time.Millisecond)

	if calls.Load() != 0 {
		t.Error("unsubscribed handler still ran")
	}
}

func TestChannelEventBus_SkipsCancelledContext(t *testing.T) {
	eb := newTestBus()
	defer eb.Close()

	var calls atomic.Int32
	eb.Subscribe([]EventType{EventActionStarted}, func(context.Context, Event) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// The buffer has room, so the publish itself still succeeds.
	if err := eb.Publish(ctx, NewEvent(EventActionStarted, nil, "test", nil)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if calls.Load() != 0 {
		t.Error("event from a cancelled turn must not be delivered")
	}
}

func TestChannelEventBus_PublishAfterClose(t *testing.T) {
	eb := newTestBus()
	eb.Close()

	if err := eb.Publish(context.Background(), NewEvent(EventTurnStarted, nil, "test", nil)); err == nil {
		t.Error("publishing on a closed bus must fail")
	}
	if err := eb.Close(); err != nil {
		t.Errorf("Close must be idempotent, got %v", err)
	}
}
