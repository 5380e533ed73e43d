package agenticpal

import "github.com/agenticpal/agenticpal/internal/eventbus"

// WithEventBus sets the event bus component. The agent does not close a bus
// it did not create.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(a *Agent) {
		a.eventBus = bus
	}
}
