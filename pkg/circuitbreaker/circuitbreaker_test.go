package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestOpensAfterConsecutiveFailures(t *testing.T) {
	var transitions []string
	cb := New(Config{
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		FailureThreshold: 2,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	require.ErrorIs(t, cb.Execute(context.Background(), func() error { return errBoom }), errBoom)
	require.ErrorIs(t, cb.Execute(context.Background(), func() error { return errBoom }), errBoom)

	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
	assert.Equal(t, StateOpen, cb.State())
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestIsSuccessfulErrorsDoNotTrip(t *testing.T) {
	errExpected := errors.New("expected")
	cb := New(Config{
		Timeout:          time.Minute,
		FailureThreshold: 1,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errExpected)
		},
	})

	for range 3 {
		require.ErrorIs(t, cb.Execute(context.Background(), func() error { return errExpected }), errExpected)
	}

	assert.Equal(t, StateClosed, cb.State())
}

func TestCancelledContextSkipsCall(t *testing.T) {
	cb := New(Config{FailureThreshold: 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
