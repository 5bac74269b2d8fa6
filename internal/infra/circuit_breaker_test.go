package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelay = errors.New("relay unreachable")

func testCB(openTimeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      openTimeout,
	})
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := testCB(time.Minute)

	for i := 0; i < 3; i++ {
		assert.Equal(t, CBClosed, cb.State())
		err := cb.Execute(func() error { return errRelay })
		require.ErrorIs(t, err, errRelay)
	}

	assert.Equal(t, CBOpen, cb.State())
	err := cb.Execute(func() error { t.Fatal("fn must not run while open"); return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := testCB(time.Minute)

	require.Error(t, cb.Execute(func() error { return errRelay }))
	require.Error(t, cb.Execute(func() error { return errRelay }))
	require.NoError(t, cb.Execute(func() error { return nil }))

	// two more failures are not enough to trip after the reset
	require.Error(t, cb.Execute(func() error { return errRelay }))
	require.Error(t, cb.Execute(func() error { return errRelay }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenClosesAfterSuccesses(t *testing.T) {
	cb := testCB(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errRelay })
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenReopensOnFailure(t *testing.T) {
	cb := testCB(10 * time.Millisecond)

	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errRelay })
	}
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.Error(t, cb.Execute(func() error { return errRelay }))
	assert.Equal(t, CBOpen, cb.State())
}

func TestDefaultCBConfig(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCBConfig())
	assert.Equal(t, CBClosed, cb.State())

	// Three straight failures trip the breaker under the mailer defaults.
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return errRelay })
	}
	assert.Equal(t, CBOpen, cb.State())
}
