package codec

import "github.com/EuroplacerUk/hermes-sdk/message"

// Handler processes one decoded envelope of the Kind it was registered for.
type Handler func(env Envelope) error

// Dispatcher routes decoded envelopes to exactly one handler per Kind, per
// spec.md §4.2's subscription model: L3 registers a handler per message
// variant it understands, and an unregistered variant falls through to
// OnUnhandled rather than being silently dropped.
type Dispatcher struct {
	handlers  map[message.Kind]Handler
	unhandled Handler
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[message.Kind]Handler)}
}

// On registers h as the handler for k, replacing any prior registration.
func (d *Dispatcher) On(k message.Kind, h Handler) {
	d.handlers[k] = h
}

// OnUnhandled registers the fallback invoked for a Kind with no handler.
func (d *Dispatcher) OnUnhandled(h Handler) {
	d.unhandled = h
}

// Dispatch runs the handler registered for env.Message.Kind(), or the
// unhandled fallback if none was registered.
func (d *Dispatcher) Dispatch(env Envelope) error {
	if h, ok := d.handlers[env.Message.Kind()]; ok {
		return h(env)
	}
	if d.unhandled != nil {
		return d.unhandled(env)
	}
	return nil
}
