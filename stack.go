package d7r

import "context"

// ---------------------------------------------------------------------------
// Stack[T] — the central integration type
// ---------------------------------------------------------------------------

// Stack composes multiple combinators (catch, timing, repeat, concurrent
// repeat) behind a single [Stack.Do] method. Use [NewStack] with functional
// options to configure it. Combinators are auto-sorted into a fixed
// priority order: catch is outermost, then timing, then repeat, with
// concurrent repeat innermost.
//
// Pattern: Functional Options — configures Stack[T] via composable option
// values; generic options use any to work around Go's generic type
// constraint on function signatures.
type Stack[T any] struct {
	name    string
	hooks   Hooks
	clock   Clock
	sink    Sink
	chain   Middleware[T]
	entries []CombinatorEntry[T]

	// Registry this stack is registered with (nil if anonymous or opted out).
	registry *Registry
}

// Name returns the stack's name.
func (s *Stack[T]) Name() string { return s.name }

// Do executes fn through the composed combinator chain.
func (s *Stack[T]) Do(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	wrapped := s.chain(fn)
	return wrapped(ctx)
}

// ---------------------------------------------------------------------------
// Non-generic option descriptors — stored as any, interpreted by NewStack[T]
// ---------------------------------------------------------------------------

// stackOptionFunc is a non-generic option that modifies stackSetup.
type stackOptionFunc func(*stackSetup)

// stackSetup holds non-generic configuration collected during NewStack.
type stackSetup struct {
	clock    Clock
	hooks    Hooks
	sink     Sink
	pool     *Pool
	registry *Registry
}

// repeatDesc holds deferred repeat configuration.
type repeatDesc struct {
	n int
}

// threadedDesc holds deferred concurrent repeat configuration.
type threadedDesc struct {
	n    int
	opts []ThreadedRepeatOption
}

// catchDesc holds deferred guard configuration.
type catchDesc struct {
	opts []CatchOption
}

// timeitDesc holds deferred timing configuration.
type timeitDesc struct {
	opts []TimeitOption
}

// middlewareDesc holds a type-erased custom middleware.
type middlewareDesc struct {
	mw any // Middleware[T] stored as any
}

// ---------------------------------------------------------------------------
// With* functions — all return any
// ---------------------------------------------------------------------------

// WithClock sets the clock used by the timing combinator within this stack.
func WithClock(c Clock) any {
	return stackOptionFunc(func(s *stackSetup) {
		s.clock = c
	})
}

// WithHooks sets the lifecycle hooks for all combinators within this stack.
func WithHooks(h Hooks) any {
	return stackOptionFunc(func(s *stackSetup) {
		s.hooks = h
	})
}

// WithSink sets the diagnostic sink for all combinators within this stack.
func WithSink(sink Sink) any {
	return stackOptionFunc(func(s *stackSetup) {
		s.sink = sink
	})
}

// WithPool sets the worker pool used by the concurrent repeat combinator.
// Without it, [DefaultPool] serves the stack.
func WithPool(p *Pool) any {
	return stackOptionFunc(func(s *stackSetup) {
		s.pool = p
	})
}

// WithRegistry sets an explicit registry for the stack to register with.
// If not provided, named stacks auto-register with DefaultRegistry.
func WithRegistry(reg *Registry) any {
	return stackOptionFunc(func(s *stackSetup) {
		s.registry = reg
	})
}

// WithRepeat adds sequential repetition: the wrapped function runs n times
// per call and only the final result is kept.
func WithRepeat(n int) any {
	return repeatDesc{n: n}
}

// WithThreadedRepeat adds concurrent repetition: n invocations race on a
// worker pool and the last-completed result is kept.
func WithThreadedRepeat(n int, opts ...ThreadedRepeatOption) any {
	return threadedDesc{n: n, opts: opts}
}

// WithCatch adds failure interception with the given guard options.
func WithCatch(opts ...CatchOption) any {
	return catchDesc{opts: opts}
}

// WithTimeit adds execution-time measurement with the given timing options.
func WithTimeit(opts ...TimeitOption) any {
	return timeitDesc{opts: opts}
}

// WithMiddleware adds a custom middleware at repeat priority. The
// middleware must match the Stack's type parameter T. Use it to mount a
// [Configured] wrapper built with [NewWrapper].
func WithMiddleware[T any](mw Middleware[T]) any {
	return middlewareDesc{mw: mw}
}

// ---------------------------------------------------------------------------
// NewStack[T] — construct and wire up the stack
// ---------------------------------------------------------------------------

// NewStack creates a new [Stack] with the given name and options.
// Options are processed in two phases: first, non-generic options (clock,
// hooks, sink, pool, registry) are collected; then, combinator descriptors
// build their middleware using the resolved ambient values. Combinators are
// auto-sorted by priority via [SortCombinators] before chaining.
func NewStack[T any](name string, opts ...any) *Stack[T] {
	var setup stackSetup

	// Phase 1: Collect non-generic options to resolve ambient values first.
	for _, opt := range opts {
		if sof, ok := opt.(stackOptionFunc); ok {
			sof(&setup)
		}
	}

	// Defaults.
	if setup.clock == nil {
		setup.clock = RealClock{}
	}

	if setup.sink == nil {
		setup.sink = DefaultSink()
	}

	hooks := setup.hooks
	clock := setup.clock
	sink := setup.sink
	pool := setup.pool

	// Phase 2: Build middleware entries from combinator descriptors.
	var entries []CombinatorEntry[T]

	for _, opt := range opts {
		switch desc := opt.(type) {
		case stackOptionFunc:
			// Already processed in phase 1.

		case repeatDesc:
			n := desc.n
			entries = append(entries, CombinatorEntry[T]{
				Priority: priorityRepeat,
				Name:     "repeat",
				MW: func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
					if n == 1 {
						return next
					}

					return func(ctx context.Context) (T, error) {
						return DoRepeat(ctx, n, next, &hooks)
					}
				},
			})

		case threadedDesc:
			n := desc.n

			cfg := threadedConfig{pool: pool}
			for _, topt := range desc.opts {
				topt(&cfg)
			}

			entries = append(entries, CombinatorEntry[T]{
				Priority: priorityThreaded,
				Name:     "threaded_repeat",
				MW: func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
					return func(ctx context.Context) (T, error) {
						return DoThreadedRepeat(ctx, n, cfg.pool, next, &hooks)
					}
				},
			})

		case catchDesc:
			// Stack-level sink first so per-combinator options override it.
			catchOpts := append([]CatchOption{TraceTo(sink)}, desc.opts...)
			entries = append(entries, CombinatorEntry[T]{
				Priority: priorityCatch,
				Name:     "catch",
				MW: func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
					return func(ctx context.Context) (T, error) {
						return DoCatch(ctx, next, &hooks, catchOpts...)
					}
				},
			})

		case timeitDesc:
			timeitOpts := append([]TimeitOption{Timer(clock), ReportTo(sink)}, desc.opts...)
			if name != "" && !hasName(desc.opts) {
				timeitOpts = append(timeitOpts, Named(name))
			}

			entries = append(entries, CombinatorEntry[T]{
				Priority: priorityTimeit,
				Name:     "timeit",
				MW: func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
					return func(ctx context.Context) (T, error) {
						return DoTimeit(ctx, next, &hooks, timeitOpts...)
					}
				},
			})

		case middlewareDesc:
			mw := desc.mw.(Middleware[T])
			entries = append(entries, CombinatorEntry[T]{
				Priority: priorityRepeat,
				Name:     "middleware",
				MW:       mw,
			})
		}
	}

	// Sort by priority and chain.
	sorted := SortCombinators[T](entries)
	chain := Chain[T](sorted...)

	// Auto-register if the stack has a name.
	var reg *Registry
	if name != "" {
		reg = setup.registry
		if reg == nil {
			reg = DefaultRegistry()
		}
	}

	s := &Stack[T]{
		name:     name,
		hooks:    hooks,
		clock:    clock,
		sink:     sink,
		chain:    chain,
		entries:  entries,
		registry: reg,
	}

	if reg != nil && name != "" {
		reg.register(name)
	}

	return s
}
