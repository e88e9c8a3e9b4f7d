package d7r

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Pattern: Worker Pool — a fixed set of worker goroutines drains a task
// channel; submitted work resolves through a completion handle. The pool is
// the only shared mutable resource in this library.

// defaultQueueDepth is the task channel buffer used when WithQueueDepth is
// not supplied.
const defaultQueueDepth = 64

// Pool is a reusable set of worker goroutines that executes submitted units
// of work. Submission is safe from multiple goroutines concurrently; when
// the queue is full, Submit blocks until a worker frees a slot, so every
// accepted unit of work eventually runs.
type Pool struct {
	tasks    chan func()
	shutdown chan struct{}
	wg       sync.WaitGroup
	closed   atomic.Bool
	workers  int
}

// poolConfig holds the optional configuration for a pool.
type poolConfig struct {
	queueDepth int
}

// PoolOption configures pool construction.
type PoolOption func(*poolConfig)

// WithQueueDepth sets the task queue buffer size.
func WithQueueDepth(n int) PoolOption {
	return func(cfg *poolConfig) {
		cfg.queueDepth = n
	}
}

// NewPool creates a pool with the given number of worker goroutines.
// Using a worker count or queue depth smaller than 1 returns an error.
func NewPool(workers int, opts ...PoolOption) (*Pool, error) {
	cfg := poolConfig{queueDepth: defaultQueueDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	if workers < 1 {
		return nil, fmt.Errorf("pool: worker count must be greater than 0, got %d", workers)
	}

	if cfg.queueDepth < 1 {
		return nil, fmt.Errorf("pool: queue depth must be greater than 0, got %d", cfg.queueDepth)
	}

	p := &Pool{
		tasks:    make(chan func(), cfg.queueDepth),
		shutdown: make(chan struct{}),
		workers:  workers,
	}

	for w := 0; w < workers; w++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p, nil
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for task := range p.tasks {
		task()
	}
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Close stops accepting work, waits for all queued tasks to finish, and
// releases the workers. Close must not be called concurrently with Submit,
// and must not be called more than once.
func (p *Pool) Close() {
	p.closed.Store(true)
	close(p.tasks)
	p.wg.Wait()
	close(p.shutdown)
}

// Handle represents one submitted unit of work. It resolves to either a
// value or an error once the unit has run.
type Handle[T any] struct {
	id   uuid.UUID
	done chan struct{}
	val  T
	err  error
}

// ID returns the unique identifier assigned at submission.
func (h *Handle[T]) ID() uuid.UUID { return h.id }

// Done returns a channel that is closed when the unit of work has completed.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Result blocks until the unit of work has completed and returns its value
// or error. A panic in the unit of work surfaces as an error carrying the
// panic value; it never kills a worker.
func (h *Handle[T]) Result() (T, error) {
	<-h.done
	return h.val, h.err
}

// Submit schedules fn on the pool and returns a handle resolving to its
// outcome. Submit blocks while the queue is full and returns ErrPoolClosed
// once the pool has been closed.
//
// Submit is a package-level function because methods cannot introduce their
// own type parameters.
func Submit[T any](p *Pool, fn func() (T, error)) (*Handle[T], error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	h := &Handle[T]{id: uuid.New(), done: make(chan struct{})}

	task := func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.err = newPanicError(r, debug.Stack())
			}
		}()

		h.val, h.err = fn()
	}

	select {
	case p.tasks <- task:
		return h, nil
	case <-p.shutdown:
		return nil, ErrPoolClosed
	}
}

// AsCompleted returns a channel yielding the given handles as they
// complete, in completion order. The channel is closed after every handle
// has been delivered.
func AsCompleted[T any](handles ...*Handle[T]) <-chan *Handle[T] {
	out := make(chan *Handle[T], len(handles))

	var wg sync.WaitGroup

	for _, h := range handles {
		h := h
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-h.done
			out <- h
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

//nolint:gochecknoglobals // singleton via sync.OnceValue
var defaultPool = sync.OnceValue(func() *Pool {
	p, _ := NewPool(runtime.NumCPU())
	return p
})

// DefaultPool returns the process-wide pool, creating it on first call with
// one worker per CPU. It is a convenience for callers that do not manage
// pool lifecycles; code that needs isolation should construct its own pool
// with [NewPool] and pass it in explicitly.
func DefaultPool() *Pool {
	return defaultPool()
}
