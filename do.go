package d7r

import "context"

// Do is a convenience function that wraps a single function call with
// combinators without creating a named [Stack]. It creates an anonymous
// stack internally and calls [Stack.Do]. The stack is not registered with
// any [Registry].
func Do[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...any) (T, error) {
	s := NewStack[T]("", opts...)
	return s.Do(ctx, fn)
}
