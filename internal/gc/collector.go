package gc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/comalice/heapsim/internal/heap"
)

var (
	// ErrUnsupported is returned when a collector is asked for a capability it does not implement.
	ErrUnsupported = errors.New("operation not implemented by collector")

	// ErrUnknownCollector is returned for an unrecognised collector kind.
	ErrUnknownCollector = errors.New("unknown collector kind")

	// ErrUnknownCycle is returned for a cycle name the collector does not offer.
	ErrUnknownCycle = errors.New("unknown collection cycle")

	// ErrNothingToCollect is returned by StartAuto when the heap is empty.
	ErrNothingToCollect = errors.New("heap is empty")
)

// Collector is the contract every engine implements.
type Collector interface {
	// Name returns the collector kind.
	Name() Kind

	// Step executes exactly one phase and reports whether phases remain.
	// Stepping an idle or exhausted collector completes it and returns false.
	Step() bool

	// Reset abandons the current cycle. The heap is left as it is.
	Reset()

	// Phase returns the announced phase, or PhaseIdle.
	Phase() Phase

	// Running reports whether a cycle is in progress.
	Running() bool

	// Concurrent reports whether the announced phase runs alongside the mutator.
	Concurrent() bool

	// AddPhaseCallback registers fn to be called once per phase transition.
	AddPhaseCallback(fn func(Phase))

	// Marked returns a copy of the current mark set.
	Marked() heap.IDSet

	// Timeline returns the records of phases executed in the current cycle.
	Timeline() []PhaseRecord

	// Cycles lists the entry points this collector offers.
	Cycles() []Cycle

	// CycleID identifies the current (or last) cycle.
	CycleID() string
}

// Marker computes the mark set outside a stepped cycle.
type Marker interface {
	Mark()
}

// Sweeper removes unmarked objects.
type Sweeper interface {
	Sweep()
}

// Copier relocates surviving objects.
type Copier interface {
	Copy()
}

// Compactor squeezes dead objects out of the old generation.
type Compactor interface {
	Compact()
}

// Publisher receives phase events.
type Publisher interface {
	Publish(ctx context.Context, event PhaseEvent) error
	Close() error
}

// Operation names a base capability.
type Operation string

// Base capabilities.
const (
	OpMark    Operation = "mark"
	OpSweep   Operation = "sweep"
	OpCopy    Operation = "copy"
	OpCompact Operation = "compact"
)

// Invoke runs op on c. A capability c lacks yields ErrUnsupported; this is a
// programming error, not a data condition.
func Invoke(c Collector, op Operation) error {
	switch op {
	case OpMark:
		if m, ok := c.(Marker); ok {
			m.Mark()
			return nil
		}
	case OpSweep:
		if s, ok := c.(Sweeper); ok {
			s.Sweep()
			return nil
		}
	case OpCopy:
		if cp, ok := c.(Copier); ok {
			cp.Copy()
			return nil
		}
	case OpCompact:
		if cm, ok := c.(Compactor); ok {
			cm.Compact()
			return nil
		}
	}

	return errors.Wrapf(ErrUnsupported, "%v: %v", c.Name(), op)
}
