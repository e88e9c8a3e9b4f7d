// Package d7r provides composable function-wrapping combinators for Go
// applications.
//
// Each combinator takes a function of shape func(context.Context) (T, error)
// and returns a new function with the same shape and additional behavior:
// sequential repetition, concurrent repetition over a worker pool, error
// interception with an optional recovery handler, and execution-time
// measurement. Combinators compose through Middleware[T] and Chain, or
// through Stack[T], which assembles them in a fixed priority order.
package d7r
