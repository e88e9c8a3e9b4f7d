package d7r

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

type (
	// configFile is the top-level JSON structure.
	configFile struct {
		Wrappers map[string]WrapperConfig `json:"wrappers"`
	}

	// WrapperConfig holds the decoded configuration for a single combinator
	// stack. Export it to embed in your own app config structs for JSON or
	// YAML unmarshaling, then call [BuildOptions] to obtain functional
	// options for [NewStack].
	WrapperConfig struct {
		// Repeat is the sequential repetition count.
		// Optional. Must be at least 1. Example: 3.
		Repeat *int `json:"repeat,omitempty" yaml:"repeat,omitempty"`
		// ThreadedRepeat configures concurrent repetition.
		// Optional. Example: {"count": 5, "workers": 8}.
		ThreadedRepeat *ThreadedRepeatConfig `json:"threaded_repeat,omitempty" yaml:"threaded_repeat,omitempty"`
		// Catch configures failure interception.
		// Optional. Example: {"silent": true}.
		Catch *CatchConfig `json:"catch,omitempty" yaml:"catch,omitempty"`
		// Timeit configures execution-time measurement.
		// Optional. Example: {"name": "ingest"}.
		Timeit *TimeitConfig `json:"timeit,omitempty" yaml:"timeit,omitempty"`
	}

	// ThreadedRepeatConfig holds concurrent repetition configuration
	// values. Embed it (via [WrapperConfig]) in your own config struct for
	// JSON or YAML unmarshaling.
	ThreadedRepeatConfig struct {
		// Count is the number of concurrent invocations per call.
		// Required. Must be at least 1. Example: 5.
		Count *int `json:"count,omitempty" yaml:"count,omitempty"`
		// Workers builds a dedicated pool of this size for the stack.
		// Optional; without it the stack uses the process-wide pool.
		Workers *int `json:"workers,omitempty" yaml:"workers,omitempty"`
	}

	// CatchConfig holds failure interception configuration values.
	CatchConfig struct {
		// Silent disables diagnostic output for intercepted errors.
		// Optional. Example: true.
		Silent *bool `json:"silent,omitempty" yaml:"silent,omitempty"`
	}

	// TimeitConfig holds timing configuration values.
	TimeitConfig struct {
		// Name overrides the name used in timing reports.
		// Optional. Example: "ingest".
		Name *string `json:"name,omitempty" yaml:"name,omitempty"`
	}
)

// LoadConfig reads a JSON configuration file and stores the wrapper
// configurations in a [Registry]. Actual [Stack] instances are not created
// until [GetStack] is called, allowing the caller to provide type
// parameters and additional code-level options.
func LoadConfig(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("d7r: read config: %w", err)
	}

	var cfg configFile
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("d7r: parse config: %w", err)
	}

	// Validate all wrappers eagerly so errors surface at load time.
	for name, wc := range cfg.Wrappers {
		if _, buildErr := BuildOptions(&wc); buildErr != nil {
			return nil, fmt.Errorf("d7r: wrapper %q: %w", name, buildErr)
		}
	}

	reg := NewRegistry()
	reg.mu.Lock()
	reg.configs = cfg.Wrappers
	reg.mu.Unlock()

	return reg, nil
}

// BuildOptions converts a [WrapperConfig] into a slice of functional option
// values suitable for [NewStack]. Use this when you embed [WrapperConfig]
// in your own config struct and want to build a stack without going through
// [LoadConfig].
func BuildOptions(wc *WrapperConfig) ([]any, error) {
	var opts []any

	if wc.Catch != nil {
		var catchOpts []CatchOption

		if wc.Catch.Silent != nil && *wc.Catch.Silent {
			catchOpts = append(catchOpts, Silent())
		}

		opts = append(opts, WithCatch(catchOpts...))
	}

	if wc.Timeit != nil {
		var timeitOpts []TimeitOption

		if wc.Timeit.Name != nil {
			timeitOpts = append(timeitOpts, Named(*wc.Timeit.Name))
		}

		opts = append(opts, WithTimeit(timeitOpts...))
	}

	if wc.Repeat != nil {
		if *wc.Repeat < 1 {
			return nil, fmt.Errorf("repeat: count must be at least 1, got %d", *wc.Repeat)
		}

		opts = append(opts, WithRepeat(*wc.Repeat))
	}

	if wc.ThreadedRepeat != nil {
		if wc.ThreadedRepeat.Count == nil {
			return nil, fmt.Errorf("threaded_repeat: count is required")
		}

		if *wc.ThreadedRepeat.Count < 1 {
			return nil, fmt.Errorf("threaded_repeat: count must be at least 1, got %d", *wc.ThreadedRepeat.Count)
		}

		var trOpts []ThreadedRepeatOption

		if wc.ThreadedRepeat.Workers != nil {
			workers := *wc.ThreadedRepeat.Workers
			if workers < 1 {
				return nil, fmt.Errorf("threaded_repeat: worker count must be greater than 0, got %d", workers)
			}

			// Defer pool construction to stack build time so that eager
			// validation in LoadConfig does not spin up workers.
			trOpts = append(trOpts, func(cfg *threadedConfig) {
				if pool, err := NewPool(workers); err == nil {
					cfg.pool = pool
				}
			})
		}

		opts = append(opts, WithThreadedRepeat(*wc.ThreadedRepeat.Count, trOpts...))
	}

	return opts, nil
}

// GetStack retrieves a named wrapper configuration from a config-loaded
// [Registry] and returns a typed [Stack] ready for use with [Stack.Do]. If
// the name is not found in the stored configs, a bare stack is created with
// only the provided opts.
//
// Additional options can be provided to augment or override the
// config-loaded settings (e.g., adding hooks, a custom clock, or a sink).
// User-provided options are applied after config options, so they take
// precedence.
func GetStack[T any](reg *Registry, name string, opts ...any) *Stack[T] {
	wc, ok := reg.Config(name)

	var allOpts []any

	allOpts = append(allOpts, WithRegistry(reg))

	if ok {
		configOpts, err := BuildOptions(&wc)
		if err == nil {
			allOpts = append(allOpts, configOpts...)
		}
	}

	// User opts come last so they can override config values.
	allOpts = append(allOpts, opts...)

	return NewStack[T](name, allOpts...)
}
