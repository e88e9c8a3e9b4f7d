package d7r

import "context"

// Pattern: Repeat — invokes the wrapped function n times in sequence,
// discarding every result but the last. Exists for warm-up and
// benchmark-style call sites where only the final outcome matters.

// DoRepeat executes fn exactly n times sequentially with the same context
// and returns the result of the final invocation. Side effects of the first
// n-1 invocations still occur, in order. If any invocation fails, the error
// propagates immediately and later repetitions do not run.
//
// A count below 1 is a caller programming error and yields
// [ErrInvalidCount].
func DoRepeat[T any](ctx context.Context, n int, fn func(context.Context) (T, error), hooks *Hooks) (T, error) {
	var zero T

	if n < 1 {
		return zero, ErrInvalidCount
	}

	var result T

	for i := 0; i < n; i++ {
		var err error

		result, err = fn(ctx)
		if err != nil {
			return zero, err
		}

		// 1-indexed iteration number.
		hooks.emitRepeat(i + 1)
	}

	return result, nil
}

// Repeat returns a middleware that invokes the wrapped function n times per
// call, returning only the final result.
//
// Repeat(1) is an identity: the input function is returned unchanged, with
// no wrapper layer at all.
func Repeat[T any](n int) Middleware[T] {
	return func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
		if n == 1 {
			return next
		}

		return func(ctx context.Context) (T, error) {
			return DoRepeat(ctx, n, next, nil)
		}
	}
}
