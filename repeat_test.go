package d7r

import (
	"context"
	"errors"
	"testing"
)

// ---------------------------------------------------------------------------
// DoRepeat invokes the target exactly n times and keeps the final result
// ---------------------------------------------------------------------------

func TestDoRepeatInvokesExactlyNTimes(t *testing.T) {
	calls := 0

	result, err := DoRepeat(context.Background(), 5, func(_ context.Context) (int, error) {
		calls++
		return calls, nil
	}, nil)
	if err != nil {
		t.Fatalf("DoRepeat() error = %v, want nil", err)
	}
	if calls != 5 {
		t.Fatalf("target called %d times, want 5", calls)
	}
	if result != 5 {
		t.Fatalf("DoRepeat() = %d, want final result 5", result)
	}
}

// ---------------------------------------------------------------------------
// Pure targets yield the same value for any n
// ---------------------------------------------------------------------------

func TestDoRepeatPureTargetValueUnchanged(t *testing.T) {
	pure := func(_ context.Context) (string, error) {
		return "constant", nil
	}

	for _, n := range []int{1, 2, 3, 10} {
		result, err := DoRepeat(context.Background(), n, pure, nil)
		if err != nil {
			t.Fatalf("DoRepeat(n=%d) error = %v, want nil", n, err)
		}
		if result != "constant" {
			t.Fatalf("DoRepeat(n=%d) = %q, want %q", n, result, "constant")
		}
	}
}

// ---------------------------------------------------------------------------
// Side effects of earlier repetitions occur in order
// ---------------------------------------------------------------------------

func TestDoRepeatSideEffectsOccurInOrder(t *testing.T) {
	var order []int
	next := 0

	_, err := DoRepeat(context.Background(), 3, func(_ context.Context) (int, error) {
		next++
		order = append(order, next)
		return next, nil
	}, nil)
	if err != nil {
		t.Fatalf("DoRepeat() error = %v, want nil", err)
	}

	if len(order) != 3 {
		t.Fatalf("got %d side effects, want 3", len(order))
	}
	for i, v := range order {
		if v != i+1 {
			t.Fatalf("side effect %d = %d, want %d", i, v, i+1)
		}
	}
}

// ---------------------------------------------------------------------------
// Errors fail fast: later repetitions do not run
// ---------------------------------------------------------------------------

func TestDoRepeatFailsFast(t *testing.T) {
	cause := errors.New("boom")
	calls := 0

	_, err := DoRepeat(context.Background(), 5, func(_ context.Context) (int, error) {
		calls++
		if calls == 2 {
			return 0, cause
		}
		return calls, nil
	}, nil)
	if !errors.Is(err, cause) {
		t.Fatalf("DoRepeat() error = %v, want %v", err, cause)
	}
	if calls != 2 {
		t.Fatalf("target called %d times after failure, want 2", calls)
	}
}

// ---------------------------------------------------------------------------
// A count below 1 is a configuration error
// ---------------------------------------------------------------------------

func TestDoRepeatInvalidCount(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := DoRepeat(context.Background(), n, func(_ context.Context) (int, error) {
			t.Fatal("target must not run for invalid count")
			return 0, nil
		}, nil)
		if !errors.Is(err, ErrInvalidCount) {
			t.Fatalf("DoRepeat(n=%d) error = %v, want ErrInvalidCount", n, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Repeat(1) is an identity pass-through
// ---------------------------------------------------------------------------

func TestRepeatOneReturnsNextUnchanged(t *testing.T) {
	calls := 0
	fn := func(_ context.Context) (int, error) {
		calls++
		return 42, nil
	}

	wrapped := Repeat[int](1)(fn)

	result, err := wrapped(context.Background())
	if err != nil {
		t.Fatalf("Repeat(1) error = %v, want nil", err)
	}
	if result != 42 {
		t.Fatalf("Repeat(1) = %d, want 42", result)
	}
	if calls != 1 {
		t.Fatalf("target called %d times, want exactly 1", calls)
	}
}

// ---------------------------------------------------------------------------
// Repeat middleware composes through Chain
// ---------------------------------------------------------------------------

func TestRepeatMiddlewareThroughChain(t *testing.T) {
	calls := 0

	chained := Chain(Repeat[int](3))
	fn := chained(func(_ context.Context) (int, error) {
		calls++
		return calls, nil
	})

	result, err := fn(context.Background())
	if err != nil {
		t.Fatalf("Chain(Repeat(3)) error = %v, want nil", err)
	}
	if calls != 3 {
		t.Fatalf("target called %d times, want 3", calls)
	}
	if result != 3 {
		t.Fatalf("Chain(Repeat(3)) = %d, want 3", result)
	}
}

// ---------------------------------------------------------------------------
// OnRepeat hook fires once per completed iteration
// ---------------------------------------------------------------------------

func TestDoRepeatEmitsRepeatHook(t *testing.T) {
	var iterations []int
	hooks := Hooks{
		OnRepeat: func(iteration int) {
			iterations = append(iterations, iteration)
		},
	}

	_, err := DoRepeat(context.Background(), 3, func(_ context.Context) (int, error) {
		return 0, nil
	}, &hooks)
	if err != nil {
		t.Fatalf("DoRepeat() error = %v, want nil", err)
	}

	if len(iterations) != 3 {
		t.Fatalf("OnRepeat fired %d times, want 3", len(iterations))
	}
	for i, got := range iterations {
		if got != i+1 {
			t.Fatalf("OnRepeat iteration %d = %d, want %d", i, got, i+1)
		}
	}
}
