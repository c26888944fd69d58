package webhook

import (
	"context"
	"sync"
)

// Dispatcher routes webhooks to the handler registered for their entity
// type.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]EntityHandler
}

func NewDispatcher(handlers ...EntityHandler) *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]EntityHandler)}
	for _, h := range handlers {
		d.Register(h)
	}
	return d
}

// Register adds h, replacing any handler of the same entity type.
func (d *Dispatcher) Register(h EntityHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[h.Entity()] = h
}

// Dispatch handles w. Entity types without a handler are acknowledged as
// not implemented.
func (d *Dispatcher) Dispatch(ctx context.Context, w *Webhook) (Result, error) {
	d.mu.RLock()
	h, found := d.handlers[w.Type.EntityType]
	d.mu.RUnlock()

	if !found {
		return NotImplemented(w.Type), nil
	}
	return h.Handle(ctx, w)
}
