package d7r

import "context"

// Pattern: Concurrent Repeat — races n independent invocations of the same
// function across a worker pool and waits for all of them. This absorbs
// occasional spurious single-call failures and variance by running several
// attempts; it does not reduce latency predictably.

// threadedConfig holds the optional configuration for concurrent repeat.
type threadedConfig struct {
	pool *Pool
}

// ThreadedRepeatOption configures concurrent repeat behavior.
type ThreadedRepeatOption func(*threadedConfig)

// SubmitTo sets the pool that receives the concurrent invocations. When not
// supplied, [DefaultPool] is used.
func SubmitTo(p *Pool) ThreadedRepeatOption {
	return func(cfg *threadedConfig) {
		cfg.pool = p
	}
}

// DoThreadedRepeat submits n independent invocations of fn (same context)
// to pool and blocks until all n have completed. A nil pool selects
// [DefaultPool].
//
// The returned value is the result of whichever invocation was observed
// last in completion order — not first-success and not first-submitted. For
// a pure, idempotent fn every invocation yields the same value, so the
// result is deterministic; otherwise it is inherently a race.
//
// If any invocation fails, one of the failures (the first observed) is
// returned — but only after all n invocations have been drained, so no
// background work or unobserved error is ever leaked. There is no
// cancellation: once submitted, all n run to completion.
func DoThreadedRepeat[T any](ctx context.Context, n int, pool *Pool, fn func(context.Context) (T, error), hooks *Hooks) (T, error) {
	var zero T

	if n < 1 {
		return zero, ErrInvalidCount
	}

	if pool == nil {
		pool = DefaultPool()
	}

	handles := make([]*Handle[T], 0, n)

	for j := 0; j < n; j++ {
		h, err := Submit(pool, func() (T, error) {
			return fn(ctx)
		})
		if err != nil {
			// Drain whatever was already submitted before reporting.
			for _, prev := range handles {
				<-prev.Done()
			}

			return zero, err
		}

		hooks.emitSubmitted(h.ID())
		handles = append(handles, h)
	}

	var (
		last     T
		firstErr error
	)

	for h := range AsCompleted(handles...) {
		val, err := h.Result()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}

			continue
		}

		last = val
	}

	hooks.emitDrained(n)

	if firstErr != nil {
		return zero, firstErr
	}

	return last, nil
}

// ThreadedRepeat returns a middleware that runs the wrapped function n
// times concurrently per call, returning the last-completed result. See
// [DoThreadedRepeat] for the aggregation contract.
func ThreadedRepeat[T any](n int, opts ...ThreadedRepeatOption) Middleware[T] {
	var cfg threadedConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
		return func(ctx context.Context) (T, error) {
			return DoThreadedRepeat(ctx, n, cfg.pool, next, nil)
		}
	}
}
