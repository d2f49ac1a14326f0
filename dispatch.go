package emitter

import (
	"context"
	"errors"
	"slices"
	"time"
)

// Emit dispatches payload to every handler registered for key, in
// registration order, then to every matching wildcard handler.
//
// Handlers run on the calling goroutine against a snapshot of the registry
// taken before the first one is invoked. By default the first handler error
// stops the dispatch and is returned as a *HandlerError, and a handler panic
// propagates to the caller. With WithIsolation every handler runs and the
// failures are returned joined.
//
// A context that is already done prevents dispatch and its error is returned.
func (e *Emitter[K, P]) Emit(ctx context.Context, key K, payload P) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Copy both lists while holding the lock; handlers may mutate the registry.
	e.mu.RLock()
	handlers := slices.Clone(e.registry[key])
	wildcards := make([]*Subscription[K, P], 0, len(e.wildcards))
	for _, sub := range e.wildcards {
		if sub.matches(key) {
			wildcards = append(wildcards, sub)
		}
	}
	e.mu.RUnlock()

	e.emits.Add(1)
	e.metrics.emitted(key)
	defer e.metrics.observe(key, time.Now())

	var errs []error
	for _, list := range [][]*Subscription[K, P]{handlers, wildcards} {
		for _, sub := range list {
			if err := e.invoke(ctx, sub, key, payload); err != nil {
				if !e.isolate {
					return err
				}
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// invoke runs a single handler. In isolation mode a panic is recovered and
// returned as a *HandlerError wrapping *PanicError; otherwise it keeps
// unwinding after being counted.
func (e *Emitter[K, P]) invoke(ctx context.Context, sub *Subscription[K, P], key K, payload P) (err error) {
	if sub.once && !sub.fire() {
		return nil
	}
	e.metrics.invoked(key)

	returned := false
	defer func() {
		if returned {
			return
		}
		e.metrics.failed(key)
		if !e.isolate {
			return
		}
		r := recover()
		if r == nil {
			return
		}
		if e.panicHandler != nil {
			e.panicHandler(key, r)
		}
		err = sub.wrap(key, &PanicError{Recovered: r})
		e.log.Warn().
			Str("key", label(key)).
			Stringer("subscription", sub.id).
			Interface("recovered", r).
			Msg("handler panicked")
	}()

	herr := sub.call(ctx, key, payload)
	returned = true
	if herr == nil {
		return nil
	}

	e.metrics.failed(key)
	if e.isolate {
		e.log.Warn().
			Err(herr).
			Str("key", label(key)).
			Stringer("subscription", sub.id).
			Msg("handler failed")
	}
	return sub.wrap(key, herr)
}
