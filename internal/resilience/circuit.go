package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrCircuitOpen is returned when a call is rejected because the circuit is open.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// Breaker is a minimal circuit breaker for a single upstream service.
// After FailureThreshold consecutive failures it rejects calls for
// ResetTimeout, then lets a single probe through; a successful probe
// closes the circuit, a failed one reopens it.
type Breaker struct {
	mu               sync.Mutex
	failureThreshold int
	resetTimeout     time.Duration

	consecutiveFailures int
	openedAt            time.Time
	open                bool

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// NewBreaker creates a breaker. Non-positive arguments fall back to
// 5 failures and 30s.
func NewBreaker(failureThreshold int, resetTimeout time.Duration) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if resetTimeout <= 0 {
		resetTimeout = 30 * time.Second
	}
	return &Breaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		nowFunc:          time.Now,
	}
}

// Execute runs fn through the breaker. Returns ErrCircuitOpen without
// calling fn when the circuit is open and the reset timeout has not elapsed.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn(ctx)
	b.record(err)
	return err
}

// BreakerVal is like Execute but preserves a return value.
func BreakerVal[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := b.allow(); err != nil {
		return zero, err
	}
	val, err := fn(ctx)
	b.record(err)
	return val, err
}

// Open reports whether the circuit is currently rejecting calls.
func (b *Breaker) Open() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open && b.nowFunc().Sub(b.openedAt) < b.resetTimeout
}

// Reset forces the circuit closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.consecutiveFailures = 0
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return nil
	}
	if b.nowFunc().Sub(b.openedAt) >= b.resetTimeout {
		// Probe allowed; the circuit stays open until the probe succeeds.
		return nil
	}
	return ErrCircuitOpen
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.open = false
		b.consecutiveFailures = 0
		return
	}

	b.consecutiveFailures++
	b.openedAt = b.nowFunc()
	if b.consecutiveFailures >= b.failureThreshold {
		b.open = true
	}
}
