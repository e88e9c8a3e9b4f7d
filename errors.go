package d7r

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error classification wrappers
// ---------------------------------------------------------------------------.

type (
	// combinatorError is the concrete type backing all sentinel errors.
	combinatorError string

	// suppressedError marks an error that was intercepted by the catch
	// combinator. It is the typed "no result" outcome: callers distinguish a
	// suppressed call from a legitimate zero value via [IsSuppressed], and
	// recover the original failure via [SuppressedCause].
	suppressedError struct {
		cause error
	}

	// panicError carries a recovered panic value and the stack captured at
	// the recovery site.
	panicError struct {
		value any
		stack []byte
	}
)

// Sentinel combinator errors.
var (
	// ErrSuppressed is matched (via errors.Is) by every error returned from a
	// catch-suppressed call.
	ErrSuppressed error = combinatorError("call suppressed")
	// ErrInvalidCount is returned when a repeat count is less than 1.
	ErrInvalidCount error = combinatorError("repeat count must be at least 1")
	// ErrPoolClosed is returned when work is submitted to a closed pool.
	ErrPoolClosed error = combinatorError("pool is closed")
)

func (e combinatorError) Error() string { return string(e) }

func (e *suppressedError) Error() string { return "suppressed: " + e.cause.Error() }
func (e *suppressedError) Unwrap() error { return e.cause }

// Is reports ErrSuppressed so that errors.Is(err, ErrSuppressed) holds for
// any suppressed outcome regardless of the underlying cause.
func (e *suppressedError) Is(target error) bool { return target == ErrSuppressed }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

// Unwrap exposes the panic value when it is itself an error, so that
// catch match sets apply to panicking targets the same way they apply to
// returned errors.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}

	return nil
}

func newPanicError(value any, stack []byte) *panicError {
	return &panicError{value: value, stack: stack}
}

// suppress wraps err as the typed suppressed outcome. Returns nil if err is
// nil.
func suppress(err error) error {
	if err == nil {
		return nil
	}

	return &suppressedError{cause: err}
}

// IsSuppressed reports whether err is the result of a catch-suppressed call.
// Returns false for nil.
func IsSuppressed(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrSuppressed)
}

// SuppressedCause returns the error that was intercepted and suppressed, or
// nil when err is not a suppressed outcome.
func SuppressedCause(err error) error {
	var se *suppressedError
	if errors.As(err, &se) {
		return se.cause
	}

	return nil
}
