package emitter

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
)

// Subscription represents one registered handler.
// Registering the same function twice yields two independent subscriptions.
// Call Close() to unregister it.
type Subscription[K comparable, P any] struct {
	id       uuid.UUID
	key      K
	wildcard bool
	filter   map[K]struct{} // wildcard only; nil = every key
	handler  Handler[P]
	onAny    WildcardHandler[K, P]
	once     bool
	fired    atomic.Bool
	emitter  *Emitter[K, P]
}

// ID returns the unique identifier of this subscription.
func (s *Subscription[K, P]) ID() uuid.UUID { return s.id }

// Key returns the key the handler was registered under.
// Wildcard subscriptions return the zero key.
func (s *Subscription[K, P]) Key() K { return s.key }

// Wildcard reports whether this is a wildcard subscription.
func (s *Subscription[K, P]) Wildcard() bool { return s.wildcard }

// Close removes this subscription from its emitter.
// Reports whether it was still registered. Closing a nil subscription is a
// no-op.
func (s *Subscription[K, P]) Close() bool {
	if s == nil {
		return false
	}
	return s.emitter.Off(s)
}

func (s *Subscription[K, P]) matches(key K) bool {
	if s.filter == nil {
		return true
	}
	_, ok := s.filter[key]
	return ok
}

// fire claims a one-shot subscription for a single dispatch and unregisters
// it. Returns false if another dispatch already claimed it.
func (s *Subscription[K, P]) fire() bool {
	if !s.fired.CompareAndSwap(false, true) {
		return false
	}
	s.emitter.Off(s)
	return true
}

func (s *Subscription[K, P]) call(ctx context.Context, key K, payload P) error {
	if s.wildcard {
		return s.onAny(ctx, key, payload)
	}
	return s.handler(ctx, payload)
}

func (s *Subscription[K, P]) wrap(key K, err error) error {
	return &HandlerError{
		Key:          key,
		Subscription: s.id,
		Wildcard:     s.wildcard,
		Err:          err,
	}
}
