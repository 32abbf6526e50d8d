package infra

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is cooling down after the
// SMTP relay failed repeatedly. Callers treat it like any delivery failure;
// the notification lands in the DLQ instead of piling up retries.
var ErrCircuitOpen = errors.New("smtp breaker open")

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// CircuitBreaker fast-fails SMTP delivery after failureLimit consecutive
// errors and lets a single probe through once the cooldown elapses. The
// probe closes the breaker on success and restarts the cooldown on failure.
type CircuitBreaker struct {
	mu           sync.Mutex
	state        breakerState
	failures     int
	openedAt     time.Time
	failureLimit int
	cooldown     time.Duration

	now func() time.Time // injected in tests
}

func NewCircuitBreaker(failureLimit int, cooldown time.Duration) *CircuitBreaker {
	if failureLimit <= 0 {
		failureLimit = 5
	}
	if cooldown <= 0 {
		cooldown = time.Minute
	}
	return &CircuitBreaker{failureLimit: failureLimit, cooldown: cooldown, now: time.Now}
}

// Execute runs fn unless the breaker is open and still cooling down.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.state == breakerOpen {
		if cb.now().Sub(cb.openedAt) < cb.cooldown {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = breakerHalfOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failures++
		if cb.state == breakerHalfOpen || cb.failures >= cb.failureLimit {
			cb.state = breakerOpen
			cb.openedAt = cb.now()
			cb.failures = 0
		}
		return err
	}
	cb.state = breakerClosed
	cb.failures = 0
	return nil
}
