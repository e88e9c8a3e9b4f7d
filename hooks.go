package d7r

import (
	"time"

	"github.com/google/uuid"
)

// Hooks holds optional callback functions for combinator lifecycle events.
// All fields are nil by default; callers set only the hooks they care about.
// Once constructed, a Hooks value must not be mutated — emit methods read
// the function fields without synchronisation, which is safe as long as the
// struct is read-only after initialisation.
//
// Pattern: Observer — decouples combinator event emission from consumers
// (logging, metrics, alerting) without combinators knowing about observers.
type Hooks struct {
	OnRepeat    func(iteration int)
	OnSubmitted func(id uuid.UUID)
	OnDrained   func(n int)
	OnCaught    func(err error)
	OnTiming    func(name string, elapsed time.Duration)
}

func (h *Hooks) emitRepeat(iteration int) {
	if h != nil && h.OnRepeat != nil {
		h.OnRepeat(iteration)
	}
}

func (h *Hooks) emitSubmitted(id uuid.UUID) {
	if h != nil && h.OnSubmitted != nil {
		h.OnSubmitted(id)
	}
}

func (h *Hooks) emitDrained(n int) {
	if h != nil && h.OnDrained != nil {
		h.OnDrained(n)
	}
}

func (h *Hooks) emitCaught(err error) {
	if h != nil && h.OnCaught != nil {
		h.OnCaught(err)
	}
}

func (h *Hooks) emitTiming(name string, elapsed time.Duration) {
	if h != nil && h.OnTiming != nil {
		h.OnTiming(name, elapsed)
	}
}
