package d7r

import (
	"context"
	"maps"
)

// Pattern: Higher-Order Decorator — turns a plain wrapping implementation
// into a factory usable either bare (applied straight to a target) or
// configured (bound to decorator-time arguments first). The two forms are
// separate, statically typed constructor paths; a dynamic Apply shim exists
// for call sites that dispatch on argument shape.

// Args carries the positional and named arguments of one invocation or of
// a decorator configuration.
type Args struct {
	Pos   []any
	Named map[string]any
}

// merge combines decorator-time arguments with call-time arguments:
// decorator positionals come first, and call-time named arguments override
// decorator-time named arguments of the same key.
func (a Args) merge(call Args) Args {
	merged := Args{
		Pos: append(append(make([]any, 0, len(a.Pos)+len(call.Pos)), a.Pos...), call.Pos...),
	}

	if len(a.Named)+len(call.Named) > 0 {
		merged.Named = make(map[string]any, len(a.Named)+len(call.Named))
		maps.Copy(merged.Named, a.Named)
		maps.Copy(merged.Named, call.Named)
	}

	return merged
}

// WrapperFunc is the shape a wrapping implementation must have: it receives
// the target and the merged arguments of one call, decides how to invoke
// the target, and produces the result.
type WrapperFunc[T any] func(ctx context.Context, target func(context.Context) (T, error), args Args) (T, error)

// Invoker is the callable produced by a [Wrapper]: it accepts per-call
// arguments and forwards them to the wrapping implementation.
type Invoker[T any] func(ctx context.Context, call Args) (T, error)

// Wrapper turns a [WrapperFunc] into decorators via two constructor paths:
// [Wrapper.Bare] for direct application and [Wrapper.Configured] for
// parameterized application.
type Wrapper[T any] struct {
	impl WrapperFunc[T]
}

// NewWrapper creates a Wrapper from a wrapping implementation.
func NewWrapper[T any](impl WrapperFunc[T]) *Wrapper[T] {
	return &Wrapper[T]{impl: impl}
}

// Bare wraps target directly: every call invokes the implementation with
// the target and the call-time arguments, unchanged.
func (w *Wrapper[T]) Bare(target func(context.Context) (T, error)) Invoker[T] {
	return func(ctx context.Context, call Args) (T, error) {
		return w.impl(ctx, target, call)
	}
}

// Configured binds decorator-time arguments and returns a second-level
// factory that still needs a target.
func (w *Wrapper[T]) Configured(args Args) *Configured[T] {
	return &Configured[T]{wrapper: w, args: args}
}

// Configured is a Wrapper bound to decorator-time arguments.
type Configured[T any] struct {
	wrapper *Wrapper[T]
	args    Args
}

// Wrap applies the configured wrapper to target. Every call invokes the
// implementation with decorator positionals before call positionals, and
// call-time named arguments overriding decorator-time ones of the same key.
func (c *Configured[T]) Wrap(target func(context.Context) (T, error)) Invoker[T] {
	return func(ctx context.Context, call Args) (T, error) {
		return c.wrapper.impl(ctx, target, c.args.merge(call))
	}
}

// Middleware adapts the configured wrapper into the combinator chain shape.
// Chained calls carry no per-call arguments, so the implementation sees
// only the decorator-time ones.
func (c *Configured[T]) Middleware() Middleware[T] {
	return func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
		inv := c.Wrap(next)

		return func(ctx context.Context) (T, error) {
			return inv(ctx, Args{})
		}
	}
}

// Apply dispatches on argument shape, mirroring decorators that are usable
// with or without their own arguments. The disambiguation predicate is:
// exactly one positional argument, that argument a
// func(context.Context) (T, error), and no named arguments — then args is a
// target and the bare form's [Invoker] is returned. Any other shape is
// configuration, and a [*Configured] is returned.
//
// The predicate is inherently ambiguous when the sole positional argument
// is a function of the wrapped shape but was intended as configuration;
// such call sites must use [Wrapper.Configured] explicitly. Prefer the
// named constructors — Apply exists for dynamic call sites only.
func (w *Wrapper[T]) Apply(args Args) any {
	if len(args.Pos) == 1 && len(args.Named) == 0 {
		if target, ok := args.Pos[0].(func(context.Context) (T, error)); ok {
			return w.Bare(target)
		}
	}

	return w.Configured(args)
}
