package d7r

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

// ---------------------------------------------------------------------------
// Guarded never propagates a failure
// ---------------------------------------------------------------------------

func TestGuardedSuppressesFailures(t *testing.T) {
	opts := append(Guarded(), WithSink(&recordingSink{}))

	_, err := Do(
		context.Background(),
		func(_ context.Context) (int, error) {
			return 0, errors.New("must not escape")
		},
		opts...,
	)
	if !IsSuppressed(err) {
		t.Fatalf("Do(Guarded()) error = %v, want suppressed outcome", err)
	}
}

// ---------------------------------------------------------------------------
// Benchmarked repeats and reports one timing
// ---------------------------------------------------------------------------

func TestBenchmarkedRepeatsAndTimesOnce(t *testing.T) {
	sink := &recordingSink{}
	calls := 0

	opts := append(Benchmarked(4), WithSink(sink), WithClock(fixedClock{}))

	_, err := Do(
		context.Background(),
		func(_ context.Context) (int, error) {
			calls++
			return calls, nil
		},
		opts...,
	)
	if err != nil {
		t.Fatalf("Do(Benchmarked(4)) error = %v, want nil", err)
	}
	if calls != 4 {
		t.Fatalf("target called %d times, want 4", calls)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.timings) != 1 {
		t.Fatalf("sink received %d timing reports, want 1 for the whole batch", len(sink.timings))
	}
}

// ---------------------------------------------------------------------------
// RacedAttempts runs all attempts and absorbs failures
// ---------------------------------------------------------------------------

func TestRacedAttemptsRunsAllAndAbsorbsFailure(t *testing.T) {
	p := newTestPool(t, 2)

	var calls atomic.Int32

	opts := append(RacedAttempts(3), WithPool(p), WithSink(&recordingSink{}))

	_, err := Do(
		context.Background(),
		func(_ context.Context) (int, error) {
			calls.Add(1)
			return 0, errors.New("flaky")
		},
		opts...,
	)
	if !IsSuppressed(err) {
		t.Fatalf("Do(RacedAttempts(3)) error = %v, want suppressed outcome", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("target called %d times, want all 3 attempts", got)
	}
}
