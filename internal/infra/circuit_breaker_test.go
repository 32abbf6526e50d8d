package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSMTP = errors.New("smtp: connection refused")

func failing() error    { return errSMTP }
func succeeding() error { return nil }

// newTestBreaker returns a breaker with a controllable clock.
func newTestBreaker(failureLimit int, cooldown time.Duration) (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(failureLimit, cooldown)
	now := time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return now }
	return cb, &now
}

func TestCircuitBreakerTripsAfterLimit(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(failing), errSMTP)
	}

	// Fast-fail while cooling down: fn is not invoked.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerProbeClosesAfterCooldown(t *testing.T) {
	cb, now := newTestBreaker(1, time.Minute)

	require.Error(t, cb.Execute(failing))
	require.ErrorIs(t, cb.Execute(succeeding), ErrCircuitOpen)

	*now = now.Add(61 * time.Second)
	require.NoError(t, cb.Execute(succeeding))

	// Closed again: calls flow normally.
	assert.NoError(t, cb.Execute(succeeding))
}

func TestCircuitBreakerFailedProbeRestartsCooldown(t *testing.T) {
	cb, now := newTestBreaker(1, time.Minute)

	require.Error(t, cb.Execute(failing))
	*now = now.Add(61 * time.Second)

	// Probe fails: back to cooling down from this moment.
	require.ErrorIs(t, cb.Execute(failing), errSMTP)
	require.ErrorIs(t, cb.Execute(succeeding), ErrCircuitOpen)

	*now = now.Add(61 * time.Second)
	assert.NoError(t, cb.Execute(succeeding))
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Minute)

	require.Error(t, cb.Execute(failing))
	require.NoError(t, cb.Execute(succeeding))
	require.Error(t, cb.Execute(failing))

	// Interleaved success keeps the breaker closed.
	called := false
	require.Error(t, cb.Execute(func() error { called = true; return errSMTP }))
	assert.True(t, called)
}
