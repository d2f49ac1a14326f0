package emitter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNilHandler is returned when a nil handler is registered.
	ErrNilHandler = errors.New("emitter: handler is nil")

	// ErrPayloadType is returned by Topic handlers that receive a payload of
	// the wrong dynamic type.
	ErrPayloadType = errors.New("emitter: unexpected payload type")
)

// HandlerError wraps the error returned by a handler during Emit.
type HandlerError struct {
	// Key holds the emitter's key (a K) the event was emitted under.
	Key          any
	Subscription uuid.UUID
	Wildcard     bool
	Err          error
}

func (e *HandlerError) Error() string {
	if e.Wildcard {
		return fmt.Sprintf("wildcard handler %s failed on %v: %v", e.Subscription, e.Key, e.Err)
	}
	return fmt.Sprintf("handler %s failed on %v: %v", e.Subscription, e.Key, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// PanicError carries a value recovered from a handler in isolation mode.
type PanicError struct {
	Recovered any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Recovered)
}

// Unwrap exposes the recovered value when the handler panicked with an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
