package d7r

import (
	"context"
	"reflect"
	"runtime"
	"time"
)

// Pattern: Timing — measures the wall-clock duration of one invocation via
// an injectable clock and reports it to a handler and the diagnostic sink.
// The wrapped function's result is returned unmodified.

// timeitConfig holds the optional configuration for the timing combinator.
type timeitConfig struct {
	name    string
	clock   Clock
	handler func(name string, elapsed time.Duration)
	sink    Sink
}

// TimeitOption configures timing behavior.
type TimeitOption func(*timeitConfig)

// Named sets the name used in timing reports. Without it, the wrapped
// function's runtime name is used.
func Named(name string) TimeitOption {
	return func(cfg *timeitConfig) {
		cfg.name = name
	}
}

// Timer sets the clock used to measure elapsed time. Defaults to
// [RealClock]. Fake clocks make timing deterministic in tests.
func Timer(c Clock) TimeitOption {
	return func(cfg *timeitConfig) {
		cfg.clock = c
	}
}

// TimingHandler registers a callback receiving the name and elapsed
// duration of each successful invocation, in addition to the sink report.
func TimingHandler(fn func(name string, elapsed time.Duration)) TimeitOption {
	return func(cfg *timeitConfig) {
		cfg.handler = fn
	}
}

// ReportTo sets the sink receiving timing reports. Defaults to
// [DefaultSink].
func ReportTo(s Sink) TimeitOption {
	return func(cfg *timeitConfig) {
		cfg.sink = s
	}
}

// funcName resolves the runtime name of fn, falling back to "anonymous"
// when the runtime has no symbol for it.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() == reflect.Func {
		if f := runtime.FuncForPC(v.Pointer()); f != nil {
			return f.Name()
		}
	}

	return "anonymous"
}

// DoTimeit executes fn once, measuring its duration with the configured
// clock. On success it invokes the timing handler (when configured),
// reports (name, elapsed) to the sink unconditionally, and returns fn's
// result unchanged. On failure the error propagates unchanged and no timing
// is reported — this combinator adds no error handling.
func DoTimeit[T any](ctx context.Context, fn func(context.Context) (T, error), hooks *Hooks, opts ...TimeitOption) (T, error) {
	cfg := timeitConfig{clock: RealClock{}, sink: DefaultSink()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.name == "" {
		cfg.name = funcName(fn)
	}

	start := cfg.clock.Now()

	val, err := fn(ctx)
	if err != nil {
		return val, err
	}

	elapsed := cfg.clock.Since(start)

	if cfg.handler != nil {
		cfg.handler(cfg.name, elapsed)
	}

	cfg.sink.Timing(cfg.name, elapsed)
	hooks.emitTiming(cfg.name, elapsed)

	return val, nil
}

// Timeit returns a middleware that times each call of the wrapped function.
func Timeit[T any](opts ...TimeitOption) Middleware[T] {
	return func(next func(context.Context) (T, error)) func(context.Context) (T, error) {
		// Resolve the default name from the wrapped function, not from the
		// anonymous closure below.
		resolved := opts
		if !hasName(opts) {
			resolved = append([]TimeitOption{Named(funcName(next))}, opts...)
		}

		return func(ctx context.Context) (T, error) {
			return DoTimeit(ctx, next, nil, resolved...)
		}
	}
}

// hasName reports whether opts already carry a Named option.
func hasName(opts []TimeitOption) bool {
	var probe timeitConfig
	for _, opt := range opts {
		opt(&probe)
	}

	return probe.name != ""
}
