// Package emitter provides a typed, synchronous publish/subscribe hub for Go.
//
// An Emitter keeps an ordered list of handlers per key. Emit invokes every
// handler registered for the key, in registration order, followed by every
// wildcard handler. Dispatch happens on the caller's goroutine and iterates a
// snapshot of the registry taken when Emit starts, so handlers may register or
// remove subscriptions without affecting the dispatch in progress.
//
// Quick example:
//
//	bus := emitter.New[string, int]()
//	sub, _ := bus.On("save", func(ctx context.Context, id int) error {
//	    return persist(ctx, id)
//	})
//	defer sub.Close()
//
//	if err := bus.Emit(ctx, "save", 1); err != nil {
//	    // first failing handler, wrapped in *emitter.HandlerError
//	}
//
// Emitters are plain values: create one per feature (or one shared bus at the
// top of the program) and pass it to whatever needs it. Clear drops every
// subscription when the owning scope goes away.
package emitter

import "context"

// Signal is the conventional key type for a shared, heterogeneous bus.
type Signal string

// Handler receives the payload of an event emitted for the key it was
// registered under. Returning an error stops the dispatch unless the emitter
// runs in isolation mode.
type Handler[P any] func(ctx context.Context, payload P) error

// WildcardHandler receives every emitted event it matches, together with the
// key it was emitted under.
type WildcardHandler[K comparable, P any] func(ctx context.Context, key K, payload P) error

// Stats provides a point-in-time view of an Emitter's registry.
type Stats[K comparable] struct {
	// ListenerCounts maps each key to the number of registered handlers.
	ListenerCounts map[K]int

	// Wildcards is the number of registered wildcard handlers.
	Wildcards int

	// Emits is the number of Emit calls that reached dispatch.
	Emits uint64
}
