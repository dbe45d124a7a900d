package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/library-borrow/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

var (
	successfulService = func() error { return nil }
	errService        = errors.New("service error")
	failingService    = func() error { return errService }
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		calls     []func() error
		wantState circuit_breaker.Status
	}{
		{
			name:      "stays closed on success",
			calls:     []func() error{successfulService, successfulService, successfulService},
			wantState: circuit_breaker.Closed,
		},
		{
			name:      "stays closed below threshold",
			calls:     []func() error{failingService, successfulService, successfulService, successfulService},
			wantState: circuit_breaker.Closed,
		},
		{
			name:      "opens at threshold",
			calls:     []func() error{failingService, successfulService, failingService},
			wantState: circuit_breaker.Open,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cb := circuit_breaker.New(4, time.Hour, 0.5, 1)
			for _, call := range tt.calls {
				_ = cb.Call(call)
			}
			require.Equal(t, tt.wantState, cb.State())
		})
	}
}

func Test_circuitBreaker_OpenRejects(t *testing.T) {
	t.Parallel()
	cb := circuit_breaker.New(2, time.Hour, 0.5, 1)
	require.ErrorIs(t, cb.Call(failingService), errService)

	called := false
	err := cb.Call(func() error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	require.False(t, called)

	cb.Reset()
	require.Equal(t, circuit_breaker.Closed, cb.State())
	require.NoError(t, cb.Call(successfulService))
}

func Test_circuitBreaker_HalfOpen(t *testing.T) {
	t.Parallel()
	const cooldown = 20 * time.Millisecond

	t.Run("recovers", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(2, cooldown, 0.5, 2)
		_ = cb.Call(failingService)
		require.Equal(t, circuit_breaker.Open, cb.State())

		time.Sleep(2 * cooldown)
		require.NoError(t, cb.Call(successfulService))
		require.Equal(t, circuit_breaker.HalfOpen, cb.State())
		require.NoError(t, cb.Call(successfulService))
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})

	t.Run("probe failure reopens", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(2, cooldown, 0.5, 2)
		_ = cb.Call(failingService)

		time.Sleep(2 * cooldown)
		require.ErrorIs(t, cb.Call(failingService), errService)
		require.Equal(t, circuit_breaker.Open, cb.State())
		require.ErrorIs(t, cb.Call(successfulService), circuit_breaker.ErrOpenCB)
	})
}
