package gc

import (
	"github.com/pkg/errors"

	"github.com/comalice/heapsim/internal/heap"
)

type generational interface {
	StartMinor()
	StartMajor()
}

type regional interface {
	StartYoung()
	StartMixed()
}

type single interface {
	Start()
}

// StartCycle starts the named cycle on c.
func StartCycle(c Collector, cycle string) error {
	switch v := c.(type) {
	case generational:
		switch cycle {
		case CycleMinor:
			v.StartMinor()
			return nil
		case CycleMajor:
			v.StartMajor()
			return nil
		}
	case regional:
		switch cycle {
		case CycleYoung:
			v.StartYoung()
			return nil
		case CycleMixed:
			v.StartMixed()
			return nil
		}
	case single:
		if cycle == CycleConcurrent || cycle == "" {
			v.Start()
			return nil
		}
	}

	return errors.Wrapf(ErrUnknownCycle, "%v: %q", c.Name(), cycle)
}

// StartAuto picks an entry point for the current heap: generational
// collectors run a minor cycle while the young generation holds objects and a
// major one otherwise, G1 runs a young cycle and the others their only cycle.
// An empty heap starts nothing.
func StartAuto(c Collector, m *heap.Model) error {
	if m.Partitions().Len() == 0 {
		return errors.Wrapf(ErrNothingToCollect, "%v", c.Name())
	}

	switch v := c.(type) {
	case generational:
		if !m.Partitions().YoungEmpty() {
			v.StartMinor()
		} else {
			v.StartMajor()
		}
	case regional:
		v.StartYoung()
	case single:
		v.Start()
	default:
		return errors.Wrapf(ErrUnknownCycle, "%v", c.Name())
	}
	return nil
}
