package emitter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wildcardCall struct {
	key     string
	payload int
}

func TestOnAnyReceivesEveryKey(t *testing.T) {
	e := New[string, int]()
	var calls []wildcardCall

	_, err := e.OnAny(func(_ context.Context, key string, p int) error {
		calls = append(calls, wildcardCall{key, p})
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, e.Emit(context.Background(), "save", 1))
	require.NoError(t, e.Emit(context.Background(), "load", 2))
	require.NoError(t, e.Emit(context.Background(), "never-registered", 3))

	assert.Equal(t, []wildcardCall{{"save", 1}, {"load", 2}, {"never-registered", 3}}, calls)
}

func TestOnAnyWhitelist(t *testing.T) {
	e := New[string, int]()
	var keys []string

	_, err := e.OnAny(func(_ context.Context, key string, _ int) error {
		keys = append(keys, key)
		return nil
	}, "save", "delete")
	require.NoError(t, err)

	for _, key := range []string{"save", "load", "delete", "update"} {
		require.NoError(t, e.Emit(context.Background(), key, 0))
	}
	assert.Equal(t, []string{"save", "delete"}, keys)
}

func TestOnAnyOrder(t *testing.T) {
	e := New[string, int]()
	var order []string

	for _, name := range []string{"w1", "w2", "w3"} {
		_, _ = e.OnAny(func(context.Context, string, int) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, e.Emit(context.Background(), "save", 0))
	assert.Equal(t, []string{"w1", "w2", "w3"}, order)
}

func TestOnAnyNilHandler(t *testing.T) {
	e := New[string, int]()

	sub, err := e.OnAny(nil)
	assert.ErrorIs(t, err, ErrNilHandler)
	assert.Nil(t, sub)

	sub, err = e.OnceAny(nil, "save")
	assert.ErrorIs(t, err, ErrNilHandler)
	assert.Nil(t, sub)

	assert.Zero(t, e.Stats().Wildcards)
}

func TestOffWildcard(t *testing.T) {
	e := New[string, int]()
	var order []string

	w1, _ := e.OnAny(func(context.Context, string, int) error {
		order = append(order, "w1")
		return nil
	})
	_, _ = e.OnAny(func(context.Context, string, int) error {
		order = append(order, "w2")
		return nil
	})

	assert.True(t, w1.Close())
	assert.False(t, w1.Close())

	require.NoError(t, e.Emit(context.Background(), "save", 0))
	assert.Equal(t, []string{"w2"}, order)
}

func TestOffAny(t *testing.T) {
	e := New[string, int]()
	var ran []string

	_, _ = e.On("save", func(context.Context, int) error {
		ran = append(ran, "specific")
		return nil
	})
	for i := 0; i < 3; i++ {
		_, _ = e.OnAny(func(context.Context, string, int) error {
			ran = append(ran, "wildcard")
			return nil
		})
	}

	assert.Equal(t, 3, e.OffAny())
	assert.Equal(t, 0, e.OffAny())

	require.NoError(t, e.Emit(context.Background(), "save", 0))
	assert.Equal(t, []string{"specific"}, ran)
	assert.Equal(t, 1, e.Stats().ListenerCounts["save"])
}

func TestOnceAny(t *testing.T) {
	e := New[string, int]()
	var keys []string

	sub, err := e.OnceAny(func(_ context.Context, key string, _ int) error {
		keys = append(keys, key)
		return nil
	}, "load")
	require.NoError(t, err)

	// Filtered out: does not consume the one-shot.
	require.NoError(t, e.Emit(context.Background(), "save", 0))
	require.NoError(t, e.Emit(context.Background(), "load", 0))
	require.NoError(t, e.Emit(context.Background(), "load", 0))

	assert.Equal(t, []string{"load"}, keys)
	assert.False(t, sub.Close())
	assert.Zero(t, e.Stats().Wildcards)
}
