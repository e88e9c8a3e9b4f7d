package d7r

// Pattern: Factory Function — each preset produces a ready-made option
// bundle for a common use case, avoiding boilerplate configuration.

// Guarded returns options for call sites that must never propagate a
// failure: every error is intercepted and traced to the sink.
func Guarded() []any {
	return []any{
		WithCatch(),
	}
}

// Benchmarked returns options for measuring a call under repetition: the
// call runs n times and the total duration is reported once.
func Benchmarked(n int) []any {
	return []any{
		WithTimeit(),
		WithRepeat(n),
	}
}

// RacedAttempts returns options for absorbing spurious single-call
// failures: n concurrent attempts race on the worker pool, the
// last-completed result wins, and any surviving failure is intercepted
// rather than propagated.
func RacedAttempts(n int) []any {
	return []any{
		WithCatch(),
		WithThreadedRepeat(n),
	}
}
