package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agenticpal/agenticpal/internal/eventbus"
)

// serverMetrics exposes turn and action counters fed from the event bus.
type serverMetrics struct {
	registry *prometheus.Registry

	turns        *prometheus.CounterVec
	actions      *prometheus.CounterVec
	turnDuration prometheus.Histogram
}

func newMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenticpal_turns_total",
			Help: "Conversational turns by final status.",
		}, []string{"status"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenticpal_actions_total",
			Help: "Tool actions by outcome.",
		}, []string{"outcome"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agenticpal_turn_duration_seconds",
			Help:    "End-to-end duration of completed turns.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
	m.registry.MustRegister(m.turns, m.actions, m.turnDuration)
	return m
}

// observe subscribes the metrics to the runtime's event bus.
func (m *serverMetrics) observe(bus eventbus.EventBus) error {
	_, err := bus.Subscribe([]eventbus.EventType{
		eventbus.EventTurnCompleted,
		eventbus.EventTurnSuspended,
		eventbus.EventTurnFailed,
		eventbus.EventActionSucceeded,
		eventbus.EventActionFailed,
		eventbus.EventActionTimedOut,
	}, m.handle)
	return err
}

func (m *serverMetrics) handle(_ context.Context, event eventbus.Event) error {
	switch event.Type() {
	case eventbus.EventTurnCompleted:
		m.turns.WithLabelValues("completed").Inc()
		if ms, ok := event.Metadata()["duration_ms"].(int64); ok {
			m.turnDuration.Observe(float64(ms) / 1000)
		}
	case eventbus.EventTurnSuspended:
		m.turns.WithLabelValues("suspended").Inc()
	case eventbus.EventTurnFailed:
		m.turns.WithLabelValues("failed").Inc()
	case eventbus.EventActionSucceeded:
		m.actions.WithLabelValues("succeeded").Inc()
	case eventbus.EventActionFailed:
		m.actions.WithLabelValues("failed").Inc()
	case eventbus.EventActionTimedOut:
		m.actions.WithLabelValues("timed_out").Inc()
	}
	return nil
}
