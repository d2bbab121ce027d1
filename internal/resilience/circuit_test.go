package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func failing(_ context.Context) error { return errors.New("upstream down") }

func succeeding(_ context.Context) error { return nil }

func TestBreaker_StaysClosedBelowThreshold(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	for i := 0; i < 2; i++ {
		_ = b.Execute(context.Background(), failing)
	}
	if b.Open() {
		t.Fatal("breaker opened below failure threshold")
	}
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	for i := 0; i < 3; i++ {
		_ = b.Execute(context.Background(), failing)
	}
	if !b.Open() {
		t.Fatal("breaker should be open after 3 consecutive failures")
	}

	err := b.Execute(context.Background(), succeeding)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_SuccessResetsCounter(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	_ = b.Execute(context.Background(), failing)
	_ = b.Execute(context.Background(), failing)
	_ = b.Execute(context.Background(), succeeding)
	_ = b.Execute(context.Background(), failing)
	_ = b.Execute(context.Background(), failing)

	if b.Open() {
		t.Fatal("breaker opened even though a success reset the streak")
	}
}

func TestBreaker_ProbeAfterResetTimeout(t *testing.T) {
	now := time.Now()
	b := NewBreaker(1, 30*time.Second)
	b.nowFunc = func() time.Time { return now }

	_ = b.Execute(context.Background(), failing)
	if !b.Open() {
		t.Fatal("breaker should be open")
	}

	// Before the timeout, calls are rejected.
	err := b.Execute(context.Background(), succeeding)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	// After the timeout, a probe is allowed and closes the circuit.
	now = now.Add(31 * time.Second)
	if err := b.Execute(context.Background(), succeeding); err != nil {
		t.Fatalf("probe should pass through: %v", err)
	}
	if b.Open() {
		t.Fatal("successful probe should close the circuit")
	}
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Now()
	b := NewBreaker(1, 30*time.Second)
	b.nowFunc = func() time.Time { return now }

	_ = b.Execute(context.Background(), failing)

	now = now.Add(31 * time.Second)
	_ = b.Execute(context.Background(), failing)

	// The failed probe restarts the open window.
	err := b.Execute(context.Background(), succeeding)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after failed probe, got %v", err)
	}
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker(1, time.Minute)
	_ = b.Execute(context.Background(), failing)
	if !b.Open() {
		t.Fatal("breaker should be open")
	}

	b.Reset()
	if b.Open() {
		t.Fatal("Reset should close the circuit")
	}
	if err := b.Execute(context.Background(), succeeding); err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
}

func TestBreakerVal(t *testing.T) {
	b := NewBreaker(1, time.Minute)

	val, err := BreakerVal(context.Background(), b, func(_ context.Context) (int, error) {
		return 7, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 7 {
		t.Errorf("expected 7, got %d", val)
	}

	_, _ = BreakerVal(context.Background(), b, func(_ context.Context) (int, error) {
		return 0, errors.New("fail")
	})
	_, err = BreakerVal(context.Background(), b, func(_ context.Context) (int, error) {
		return 7, nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}
