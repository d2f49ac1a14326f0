package emitter

import "github.com/google/uuid"

// OnAny registers a wildcard handler. It runs after the key-specific handlers
// of every Emit and receives the emitted key alongside the payload.
// If keys are provided, only those keys are observed (whitelist).
// Returns ErrNilHandler if handler is nil.
func (e *Emitter[K, P]) OnAny(handler WildcardHandler[K, P], keys ...K) (*Subscription[K, P], error) {
	return e.registerAny(handler, false, keys)
}

// OnceAny registers a wildcard handler that is removed after its first
// invocation.
func (e *Emitter[K, P]) OnceAny(handler WildcardHandler[K, P], keys ...K) (*Subscription[K, P], error) {
	return e.registerAny(handler, true, keys)
}

func (e *Emitter[K, P]) registerAny(handler WildcardHandler[K, P], once bool, keys []K) (*Subscription[K, P], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := &Subscription[K, P]{
		id:       uuid.New(),
		wildcard: true,
		onAny:    handler,
		once:     once,
		emitter:  e,
	}
	if len(keys) > 0 {
		sub.filter = make(map[K]struct{}, len(keys))
		for _, k := range keys {
			sub.filter[k] = struct{}{}
		}
	}

	e.mu.Lock()
	e.wildcards = append(e.wildcards, sub)
	e.mu.Unlock()

	e.metrics.subscribed(1)
	e.log.Debug().
		Stringer("subscription", sub.id).
		Int("filter", len(keys)).
		Bool("once", once).
		Msg("wildcard handler registered")

	return sub, nil
}

// OffAny removes every wildcard handler and returns how many were removed.
func (e *Emitter[K, P]) OffAny() int {
	e.mu.Lock()
	n := len(e.wildcards)
	e.wildcards = nil
	e.mu.Unlock()

	if n > 0 {
		e.metrics.subscribed(-n)
		e.log.Debug().Int("removed", n).Msg("wildcard handlers removed")
	}
	return n
}
