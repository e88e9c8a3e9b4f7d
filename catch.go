package d7r

import (
	"context"
	"errors"
	"runtime/debug"
)

// Pattern: Guard — intercepts a configurable set of failures from the
// wrapped function, routes them to a handler or the diagnostic sink, and
// converts them into a typed suppressed outcome instead of propagating.

// catchConfig holds the optional configuration for the guard combinator.
type catchConfig struct {
	match   []error
	handler func(error)
	sink    Sink
	silent  bool
}

// CatchOption configures guard behavior.
type CatchOption func(*catchConfig)

// Match restricts interception to errors matching (via errors.Is) any of
// the given targets. Nil targets are ignored. Without Match, every error is
// intercepted.
func Match(targets ...error) CatchOption {
	return func(cfg *catchConfig) {
		for _, target := range targets {
			if target != nil {
				cfg.match = append(cfg.match, target)
			}
		}
	}
}

// Handler routes intercepted errors to fn instead of the diagnostic sink.
// The handler and the sink are never both invoked for the same error.
func Handler(fn func(error)) CatchOption {
	return func(cfg *catchConfig) {
		cfg.handler = fn
	}
}

// Silent suppresses all diagnostic output for intercepted errors, including
// a configured handler.
func Silent() CatchOption {
	return func(cfg *catchConfig) {
		cfg.silent = true
	}
}

// TraceTo sets the diagnostic sink receiving intercepted errors when no
// handler is configured. Defaults to [DefaultSink].
func TraceTo(s Sink) CatchOption {
	return func(cfg *catchConfig) {
		cfg.sink = s
	}
}

// matches reports whether err falls inside the configured interception set.
// An empty set intercepts everything.
func (cfg *catchConfig) matches(err error) bool {
	if len(cfg.match) == 0 {
		return true
	}

	for _, target := range cfg.match {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// report emits the intercepted error exactly once: to the handler when one
// is configured, otherwise to the sink. Silent disables both.
func (cfg *catchConfig) report(err error, stack []byte) {
	if cfg.silent {
		return
	}

	if cfg.handler != nil {
		cfg.handler(err)
		return
	}

	cfg.sink.Trace(err, stack)
}

// DoCatch executes fn, intercepting failures that match the configured set.
//
// On success the result passes through untouched and no diagnostic action
// occurs. A matched error is suppressed: the call returns the zero value
// and an error satisfying errors.Is(err, [ErrSuppressed]), with the
// original failure available through [SuppressedCause]. An unmatched error
// propagates unchanged — the interception surface is never widened beyond
// the configured set.
//
// A panic in fn is recovered and treated like a failure: it is matched
// against the set (a panic value that is itself an error unwraps for
// errors.Is), suppressed with the stack captured at the recovery site, and
// re-raised when unmatched.
func DoCatch[T any](ctx context.Context, fn func(context.Context) (T, error), hooks *Hooks, opts ...CatchOption) (result T, err error) {
	cfg := catchConfig{sink: DefaultSink()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var zero T

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		stack := debug.Stack()
		perr := newPanicError(r, stack)

		if !cfg.matches(perr) {
			panic(r)
		}

		cfg.report(perr, stack)
		hooks.emitCaught(perr)

		result, err = zero, suppress(perr)
	}()

	val, callErr := fn(ctx)
	if callErr == nil {
		return val, nil
	}

	if !cfg.matches(callErr) {
		return zero, callErr
	}

	cfg.report(callErr, nil)
	hooks.emitCaught(callErr)

	return zero, suppress(callErr)
}

// Catch returns a middleware that guards the wrapped function. With no
// options it intercepts every failure; see [Match], [Handler], [Silent] and
// [TraceTo] for configuration.
func Catch[T any](opts ...CatchOption) Middleware[T] {
	return func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
		return func(ctx context.Context) (T, error) {
			return DoCatch(ctx, next, nil, opts...)
		}
	}
}
