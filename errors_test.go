package emitter

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHandlerErrorMessage(t *testing.T) {
	id := uuid.New()
	cause := errors.New("disk full")

	herr := &HandlerError{Key: "save", Subscription: id, Err: cause}
	assert.Equal(t, "handler "+id.String()+" failed on save: disk full", herr.Error())
	assert.ErrorIs(t, herr, cause)

	herr.Wildcard = true
	assert.Equal(t, "wildcard handler "+id.String()+" failed on save: disk full", herr.Error())
}

func TestHandlerErrorKeepsKeyType(t *testing.T) {
	herr := &HandlerError{Key: Signal("menu.open"), Err: errors.New("x")}

	key, ok := herr.Key.(Signal)
	assert.True(t, ok)
	assert.Equal(t, Signal("menu.open"), key)
}

func TestPanicError(t *testing.T) {
	perr := &PanicError{Recovered: "kaboom"}
	assert.Equal(t, "handler panicked: kaboom", perr.Error())
	assert.NoError(t, perr.Unwrap())

	cause := errors.New("cause")
	perr = &PanicError{Recovered: cause}
	assert.Equal(t, "handler panicked: cause", perr.Error())
	assert.ErrorIs(t, perr, cause)
}

func TestSentinelErrors(t *testing.T) {
	assert.NotErrorIs(t, ErrNilHandler, ErrPayloadType)
	assert.Contains(t, ErrNilHandler.Error(), "emitter:")
	assert.Contains(t, ErrPayloadType.Error(), "emitter:")
}
