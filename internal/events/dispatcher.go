package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler consumes a dispatched event.
type Handler func(ctx context.Context, event Event)

// Dispatcher is a synchronous in-process event bus. Handlers run inline
// on the dispatching goroutine and must not block for long.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[EventName][]Handler
	logger   *zap.Logger
}

// NewDispatcher builds an empty dispatcher.
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[EventName][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the given event name.
func (d *Dispatcher) Subscribe(name EventName, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
}

// Dispatch delivers the event to every subscribed handler. Panics in
// handlers are recovered so an observer cannot break the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := d.handlers[event.Name()]
	d.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("event handler panicked",
						zap.String("event", string(event.Name())),
						zap.Any("panic", r))
				}
			}()
			handler(ctx, event)
		}()
	}
}
