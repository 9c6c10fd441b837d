package gc

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/comalice/heapsim/internal/heap"
)

// Kind names a collector.
type Kind string

// Supported collectors.
const (
	KindSerial     Kind = "serial"
	KindParallel   Kind = "parallel"
	KindCMS        Kind = "cms"
	KindG1         Kind = "g1"
	KindZGC        Kind = "zgc"
	KindShenandoah Kind = "shenandoah"
)

// Cycle names accepted by StartCycle.
const (
	CycleMinor      = "minor"
	CycleMajor      = "major"
	CycleYoung      = "young"
	CycleMixed      = "mixed"
	CycleConcurrent = "concurrent"
)

type constructor func(m *heap.Model, opts ...Option) Collector

var constructors = map[Kind]constructor{
	KindSerial:     func(m *heap.Model, opts ...Option) Collector { return NewSerial(m, opts...) },
	KindParallel:   func(m *heap.Model, opts ...Option) Collector { return NewParallel(m, opts...) },
	KindCMS:        func(m *heap.Model, opts ...Option) Collector { return NewCMS(m, opts...) },
	KindG1:         func(m *heap.Model, opts ...Option) Collector { return NewG1(m, opts...) },
	KindZGC:        func(m *heap.Model, opts ...Option) Collector { return NewZGC(m, opts...) },
	KindShenandoah: func(m *heap.Model, opts ...Option) Collector { return NewShenandoah(m, opts...) },
}

// Kinds lists the supported collectors in presentation order.
func Kinds() []Kind {
	return []Kind{KindSerial, KindParallel, KindCMS, KindG1, KindZGC, KindShenandoah}
}

// ParseKind resolves a collector name, ignoring case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := constructors[k]; !ok {
		return "", errors.Wrapf(ErrUnknownCollector, "%q", s)
	}
	return k, nil
}

// New creates a collector of the given kind bound to m.
func New(kind Kind, m *heap.Model, opts ...Option) (Collector, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCollector, "%q", kind)
	}
	return ctor(m, opts...), nil
}

// Sequences lists the entry points and phase sequences of kind.
func Sequences(kind Kind) ([]Cycle, error) {
	c, err := New(kind, heap.NewModel())
	if err != nil {
		return nil, err
	}
	return c.Cycles(), nil
}
