package d7r

import (
	"context"
	"fmt"
	"testing"
)

// sumImpl is a wrapping implementation that invokes the target and appends
// a rendering of the merged arguments to its result.
func sumImpl(ctx context.Context, target func(context.Context) (string, error), args Args) (string, error) {
	base, err := target(ctx)
	if err != nil {
		return "", err
	}

	out := base
	for _, p := range args.Pos {
		out += fmt.Sprintf("|%v", p)
	}
	if v, ok := args.Named["key"]; ok {
		out += fmt.Sprintf("|key=%v", v)
	}

	return out, nil
}

func plainTarget(_ context.Context) (string, error) { return "g", nil }

// ---------------------------------------------------------------------------
// Bare form: call arguments flow to the implementation unchanged
// ---------------------------------------------------------------------------

func TestWrapperBareForwardsCallArgs(t *testing.T) {
	w := NewWrapper(sumImpl)
	inv := w.Bare(plainTarget)

	got, err := inv(context.Background(), Args{Pos: []any{1, 2}})
	if err != nil {
		t.Fatalf("Bare invoker error = %v, want nil", err)
	}
	if got != "g|1|2" {
		t.Fatalf("Bare invoker = %q, want %q", got, "g|1|2")
	}
}

// ---------------------------------------------------------------------------
// Configured form: decorator positionals precede call positionals
// ---------------------------------------------------------------------------

func TestWrapperConfiguredMergesPositionals(t *testing.T) {
	w := NewWrapper(sumImpl)
	inv := w.Configured(Args{Pos: []any{1}}).Wrap(plainTarget)

	got, err := inv(context.Background(), Args{Pos: []any{2, 3}})
	if err != nil {
		t.Fatalf("Configured invoker error = %v, want nil", err)
	}
	if got != "g|1|2|3" {
		t.Fatalf("Configured invoker = %q, want decorator args first: %q", got, "g|1|2|3")
	}
}

// ---------------------------------------------------------------------------
// Call-time named arguments override decorator-time ones of the same key
// ---------------------------------------------------------------------------

func TestWrapperConfiguredCallNamedOverrides(t *testing.T) {
	w := NewWrapper(sumImpl)
	cfg := w.Configured(Args{Named: map[string]any{"key": 2}})

	inv := cfg.Wrap(plainTarget)

	// Without a call-time value the decorator-time value applies.
	got, err := inv(context.Background(), Args{})
	if err != nil {
		t.Fatalf("Configured invoker error = %v, want nil", err)
	}
	if got != "g|key=2" {
		t.Fatalf("Configured invoker = %q, want %q", got, "g|key=2")
	}

	// A call-time value for the same key wins.
	got, err = inv(context.Background(), Args{Named: map[string]any{"key": 9}})
	if err != nil {
		t.Fatalf("Configured invoker error = %v, want nil", err)
	}
	if got != "g|key=9" {
		t.Fatalf("Configured invoker = %q, want call-time override %q", got, "g|key=9")
	}
}

// ---------------------------------------------------------------------------
// Merging does not mutate the decorator-time arguments
// ---------------------------------------------------------------------------

func TestWrapperMergeLeavesDecoratorArgsIntact(t *testing.T) {
	w := NewWrapper(sumImpl)
	decorArgs := Args{Pos: []any{1}, Named: map[string]any{"key": 2}}
	inv := w.Configured(decorArgs).Wrap(plainTarget)

	if _, err := inv(context.Background(), Args{Pos: []any{7}, Named: map[string]any{"key": 8}}); err != nil {
		t.Fatalf("Configured invoker error = %v, want nil", err)
	}

	if len(decorArgs.Pos) != 1 || decorArgs.Pos[0] != 1 {
		t.Fatalf("decorator positionals mutated: %v", decorArgs.Pos)
	}
	if decorArgs.Named["key"] != 2 {
		t.Fatalf("decorator named args mutated: %v", decorArgs.Named)
	}
}

// ---------------------------------------------------------------------------
// Apply dispatch: a sole function argument with no named args is a target
// ---------------------------------------------------------------------------

func TestWrapperApplyBareDispatch(t *testing.T) {
	w := NewWrapper(sumImpl)

	out := w.Apply(Args{Pos: []any{func(ctx context.Context) (string, error) {
		return plainTarget(ctx)
	}}})

	inv, ok := out.(Invoker[string])
	if !ok {
		t.Fatalf("Apply(sole callable) returned %T, want Invoker[string]", out)
	}

	got, err := inv(context.Background(), Args{})
	if err != nil {
		t.Fatalf("dispatched invoker error = %v, want nil", err)
	}
	if got != "g" {
		t.Fatalf("dispatched invoker = %q, want %q", got, "g")
	}
}

// ---------------------------------------------------------------------------
// Apply dispatch: any other shape is configuration
// ---------------------------------------------------------------------------

func TestWrapperApplyConfiguredDispatch(t *testing.T) {
	w := NewWrapper(sumImpl)

	for name, args := range map[string]Args{
		"non-callable positional": {Pos: []any{5}},
		"two positionals":         {Pos: []any{1, 2}},
		"named present": {
			Pos:   []any{func(context.Context) (string, error) { return "", nil }},
			Named: map[string]any{"key": 1},
		},
		"empty": {},
	} {
		out := w.Apply(args)
		if _, ok := out.(*Configured[string]); !ok {
			t.Fatalf("Apply(%s) returned %T, want *Configured[string]", name, out)
		}
	}
}

// ---------------------------------------------------------------------------
// The accepted ambiguity: a sole callable intended as configuration still
// dispatches to the bare form
// ---------------------------------------------------------------------------

func TestWrapperApplyAmbiguousSoleCallable(t *testing.T) {
	w := NewWrapper(sumImpl)

	// The caller meant this function value as configuration, but the
	// predicate cannot tell; it is treated as the target.
	configFn := func(_ context.Context) (string, error) { return "config", nil }

	out := w.Apply(Args{Pos: []any{configFn}})
	if _, ok := out.(Invoker[string]); !ok {
		t.Fatalf("Apply(sole callable) returned %T, want Invoker[string] (accepted ambiguity)", out)
	}
}

// ---------------------------------------------------------------------------
// A configured wrapper mounts into the middleware chain
// ---------------------------------------------------------------------------

func TestConfiguredMiddleware(t *testing.T) {
	w := NewWrapper(sumImpl)
	mw := w.Configured(Args{Pos: []any{1}}).Middleware()

	fn := Chain(mw)(plainTarget)

	got, err := fn(context.Background())
	if err != nil {
		t.Fatalf("Configured middleware error = %v, want nil", err)
	}
	if got != "g|1" {
		t.Fatalf("Configured middleware = %q, want %q", got, "g|1")
	}
}
