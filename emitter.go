package emitter

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Emitter is a synchronous publish/subscribe hub keyed by K carrying payloads
// of type P. The zero value is not usable; construct with New.
type Emitter[K comparable, P any] struct {
	registry     map[K][]*Subscription[K, P]
	wildcards    []*Subscription[K, P]
	mu           sync.RWMutex
	emits        atomic.Uint64
	log          zerolog.Logger
	isolate      bool
	panicHandler PanicHandler
	metrics      *Metrics
}

// New creates an Emitter with optional configuration.
// Without options, dispatch is fail-fast and nothing is logged.
func New[K comparable, P any](opts ...Option) *Emitter[K, P] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Emitter[K, P]{
		registry:     make(map[K][]*Subscription[K, P]),
		log:          s.logger,
		isolate:      s.isolate,
		panicHandler: s.panicHandler,
		metrics:      s.metrics,
	}
}

// On registers handler for key. Handlers for the same key run in the order
// they were registered. Returns ErrNilHandler if handler is nil.
func (e *Emitter[K, P]) On(key K, handler Handler[P]) (*Subscription[K, P], error) {
	return e.register(key, handler, false)
}

// Once registers handler for key and removes it after its first invocation.
func (e *Emitter[K, P]) Once(key K, handler Handler[P]) (*Subscription[K, P], error) {
	return e.register(key, handler, true)
}

func (e *Emitter[K, P]) register(key K, handler Handler[P], once bool) (*Subscription[K, P], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := &Subscription[K, P]{
		id:      uuid.New(),
		key:     key,
		handler: handler,
		once:    once,
		emitter: e,
	}

	e.mu.Lock()
	e.registry[key] = append(e.registry[key], sub)
	e.mu.Unlock()

	e.metrics.subscribed(1)
	e.log.Debug().
		Str("key", label(key)).
		Stringer("subscription", sub.id).
		Bool("once", once).
		Msg("handler registered")

	return sub, nil
}

// Off removes sub. Reports whether it was registered; removing a
// subscription twice, or one owned by another emitter, is a no-op.
func (e *Emitter[K, P]) Off(sub *Subscription[K, P]) bool {
	if sub == nil || sub.emitter != e {
		return false
	}

	e.mu.Lock()
	var removed bool
	if sub.wildcard {
		e.wildcards, removed = without(e.wildcards, sub)
	} else {
		var list []*Subscription[K, P]
		list, removed = without(e.registry[sub.key], sub)
		if len(list) == 0 {
			delete(e.registry, sub.key)
		} else {
			e.registry[sub.key] = list
		}
	}
	e.mu.Unlock()

	if removed {
		e.metrics.subscribed(-1)
		e.log.Debug().
			Stringer("subscription", sub.id).
			Bool("wildcard", sub.wildcard).
			Msg("handler removed")
	}
	return removed
}

// OffAll removes every handler registered for key and returns how many were
// removed. Wildcard handlers are left in place; see OffAny.
func (e *Emitter[K, P]) OffAll(key K) int {
	e.mu.Lock()
	n := len(e.registry[key])
	delete(e.registry, key)
	e.mu.Unlock()

	if n > 0 {
		e.metrics.subscribed(-n)
		e.log.Debug().Str("key", label(key)).Int("removed", n).Msg("handlers removed")
	}
	return n
}

// Clear removes every subscription, wildcards included.
func (e *Emitter[K, P]) Clear() {
	e.mu.Lock()
	n := len(e.wildcards)
	for _, list := range e.registry {
		n += len(list)
	}
	e.registry = make(map[K][]*Subscription[K, P])
	e.wildcards = nil
	e.mu.Unlock()

	e.metrics.subscribed(-n)
	e.log.Debug().Int("removed", n).Msg("emitter cleared")
}

// Stats returns a snapshot of the registry.
func (e *Emitter[K, P]) Stats() Stats[K] {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := Stats[K]{
		ListenerCounts: make(map[K]int, len(e.registry)),
		Wildcards:      len(e.wildcards),
		Emits:          e.emits.Load(),
	}
	for key, list := range e.registry {
		stats.ListenerCounts[key] = len(list)
	}
	return stats
}

// without removes sub from list, preserving the order of the rest.
// Must be called while holding the write lock.
func without[K comparable, P any](list []*Subscription[K, P], sub *Subscription[K, P]) ([]*Subscription[K, P], bool) {
	i := slices.Index(list, sub)
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}
