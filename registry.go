package d7r

import (
	"sync"
	"sync/atomic"
)

// Registry tracks named stacks and the wrapper configurations loaded from
// file, so that [GetStack] can build typed stacks from configuration.
//
// Pattern: Singleton — DefaultRegistry uses sync.OnceValue for safe lazy
// init; explicit registries can be created for testing or multi-tenant
// scenarios.
type Registry struct {
	names   atomic.Pointer[[]string]
	configs map[string]WrapperConfig
	mu      sync.Mutex
}

//nolint:gochecknoglobals // singleton via sync.OnceValue
var defaultRegistry = sync.OnceValue(NewRegistry)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}

	var empty []string

	r.names.Store(&empty)

	return r
}

// register records a stack name. This is called during startup by NewStack.
// It is safe for concurrent use but intended for initialization only.
func (r *Registry) register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.names.Load()
	// Create a new slice (copy-on-write) to avoid mutating the slice that
	// concurrent readers may be iterating.
	updated := make([]string, len(old), len(old)+1)
	copy(updated, old)
	updated = append(updated, name)
	r.names.Store(&updated)
}

// Names returns the names of all stacks registered so far.
func (r *Registry) Names() []string {
	return *r.names.Load()
}

// Config returns the stored wrapper configuration for name, if any.
func (r *Registry) Config(name string) (WrapperConfig, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wc, ok := r.configs[name]

	return wc, ok
}

// DefaultRegistry returns the package-level global registry, creating it
// on first call.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}
