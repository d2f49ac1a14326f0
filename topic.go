package emitter

import (
	"context"
	"fmt"
	"reflect"
)

// Bus is an Emitter keyed by Signal with untyped payloads, shared by features
// that publish different payload types. Use Topic to keep each signal typed.
type Bus = Emitter[Signal, any]

// NewBus creates a Bus with optional configuration.
func NewBus(opts ...Option) *Bus {
	return New[Signal, any](opts...)
}

// Topic binds a Signal to the payload type T carried on a Bus.
//
// Example:
//
//	type MenuSelect struct{ Key string }
//	menuSelected := emitter.NewTopic[MenuSelect]("menu.select")
//
//	menuSelected.On(bus, func(ctx context.Context, m MenuSelect) error {
//	    return nil
//	})
//	menuSelected.Emit(ctx, bus, MenuSelect{Key: "devices"})
type Topic[T any] struct {
	signal Signal
}

// NewTopic creates a Topic for signal.
func NewTopic[T any](signal Signal) Topic[T] {
	return Topic[T]{signal: signal}
}

// Signal returns the signal this topic is emitted under.
func (t Topic[T]) Signal() Signal { return t.signal }

// On registers a typed handler on bus.
// A payload that is not a T fails the handler with ErrPayloadType.
func (t Topic[T]) On(bus *Bus, handler Handler[T]) (*Subscription[Signal, any], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	return bus.On(t.signal, t.adapt(handler))
}

// Once registers a typed one-shot handler on bus.
func (t Topic[T]) Once(bus *Bus, handler Handler[T]) (*Subscription[Signal, any], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	return bus.Once(t.signal, t.adapt(handler))
}

// Emit dispatches payload on bus under this topic's signal.
func (t Topic[T]) Emit(ctx context.Context, bus *Bus, payload T) error {
	return bus.Emit(ctx, t.signal, payload)
}

// From extracts a typed payload, typically inside a wildcard handler.
// Returns the zero value and false if payload is not a T. A nil payload is
// accepted only when T is an interface type.
func (t Topic[T]) From(payload any) (T, bool) {
	if payload == nil {
		var zero T
		return zero, any(zero) == nil
	}
	v, ok := payload.(T)
	return v, ok
}

func (t Topic[T]) adapt(handler Handler[T]) Handler[any] {
	return func(ctx context.Context, payload any) error {
		v, ok := t.From(payload)
		if !ok {
			return fmt.Errorf("%w: %s expects %v, got %T", ErrPayloadType, t.signal, reflect.TypeFor[T](), payload)
		}
		return handler(ctx, v)
	}
}
