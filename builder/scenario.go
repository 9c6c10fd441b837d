package builder

import (
	"io"
	"os"

	"github.com/alecthomas/units"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
	"github.com/comalice/heapsim/internal/logging"
	"github.com/comalice/heapsim/internal/workload"
)

// ErrInvalidScenario wraps every scenario validation failure.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario is a declarative heap plus the collector to run against it.
//
//	name: linked-list
//	collector: serial
//	cycle: minor
//	objects:
//	  - {name: head, thread: main, refs: [tail]}
//	  - {name: tail, size: 128}
//	  - {name: garbage}
type Scenario struct {
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	Collector  string        `json:"collector" yaml:"collector"`
	Cycle      string        `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Workers    int           `json:"workers,omitempty" yaml:"workers,omitempty"`
	RegionSize string        `json:"regionSize,omitempty" yaml:"regionSize,omitempty"`
	MaxRegions int           `json:"maxRegions,omitempty" yaml:"maxRegions,omitempty"`
	Threads    []string      `json:"threads,omitempty" yaml:"threads,omitempty"`
	Objects    []ObjectSpec  `json:"objects,omitempty" yaml:"objects,omitempty"`
	Workload   *WorkloadSpec `json:"workload,omitempty" yaml:"workload,omitempty"`
}

// WorkloadSpec adds random objects and references after the declared objects.
type WorkloadSpec struct {
	Seed      int64    `json:"seed,omitempty" yaml:"seed,omitempty"`
	Allocate  int      `json:"allocate,omitempty" yaml:"allocate,omitempty"`
	Types     []string `json:"types,omitempty" yaml:"types,omitempty"`
	MinSize   uint64   `json:"minSize,omitempty" yaml:"minSize,omitempty"`
	MaxSize   uint64   `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	RootRatio *float64 `json:"rootRatio,omitempty" yaml:"rootRatio,omitempty"`
	OutDegree float64  `json:"outDegree,omitempty" yaml:"outDegree,omitempty"`
	MaxEdges  int      `json:"maxEdges,omitempty" yaml:"maxEdges,omitempty"`
}

// Load decodes and validates a scenario. Unknown fields are rejected.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "yaml decode")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile loads a scenario from path.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close() //nolint:errcheck

	s, err := Load(f)
	return s, errors.Wrapf(err, "load %s", path)
}

// Validate checks the collector, cycle, region size and every object declaration.
func (s *Scenario) Validate() error {
	if s.Collector == "" {
		return errors.Wrap(ErrInvalidScenario, "collector is required")
	}

	kind, err := gc.ParseKind(s.Collector)
	if err != nil {
		return invalid(err)
	}

	if s.Cycle != "" {
		cycles, err := gc.Sequences(kind)
		if err != nil {
			return invalid(err)
		}
		found := false
		for _, c := range cycles {
			found = found || c.Name == s.Cycle
		}
		if !found {
			return errors.Wrapf(ErrInvalidScenario, "%v has no %q cycle", kind, s.Cycle)
		}
	}

	if _, err := s.regionSize(); err != nil {
		return invalid(err)
	}

	seen := make(map[string]bool, len(s.Objects))
	for _, o := range s.Objects {
		if seen[o.Name] {
			return errors.Wrapf(ErrInvalidScenario, "duplicate object %q", o.Name)
		}
		seen[o.Name] = true
	}

	if err := s.heapBuilder().validate(); err != nil {
		return invalid(err)
	}

	if w := s.Workload; w != nil && (w.Allocate < 0 || w.OutDegree < 0 || w.MaxEdges < 0) {
		return errors.Wrap(ErrInvalidScenario, "workload counts must not be negative")
	}

	return nil
}

// Kind returns the scenario's collector kind.
func (s *Scenario) Kind() (gc.Kind, error) {
	return gc.ParseKind(s.Collector)
}

// Build allocates the declared objects, then runs the workload if any.
func (s *Scenario) Build(l logging.Logger) (*heap.Model, Names, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	m, names, err := s.heapBuilder().Build()
	if err != nil {
		return nil, nil, err
	}

	if w := s.Workload; w != nil {
		cfg := workload.Config{
			Seed:      w.Seed,
			Types:     w.Types,
			MinSize:   w.MinSize,
			MaxSize:   w.MaxSize,
			Thread:    heap.DefaultThread,
			RootRatio: 1,
		}
		if w.RootRatio != nil {
			cfg.RootRatio = *w.RootRatio
		}

		mu := workload.New(m, cfg, l)
		mu.Allocate(w.Allocate)
		mu.Link(w.OutDegree, w.MaxEdges)
	}

	return m, names, nil
}

// CollectorOptions translates the tuning fields into collector options.
func (s *Scenario) CollectorOptions() ([]gc.Option, error) {
	var opts []gc.Option
	if s.Workers > 0 {
		opts = append(opts, gc.WithWorkers(s.Workers))
	}
	if s.MaxRegions > 0 {
		opts = append(opts, gc.WithMaxCollectionRegions(s.MaxRegions))
	}

	size, err := s.regionSize()
	if err != nil {
		return nil, err
	}
	if size > 0 {
		opts = append(opts, gc.WithRegionSize(size))
	}
	return opts, nil
}

// NewCollector creates the scenario's collector bound to m and starts its
// cycle: the named one, or the automatic choice when none is named.
func (s *Scenario) NewCollector(m *heap.Model, opts ...gc.Option) (gc.Collector, error) {
	kind, err := s.Kind()
	if err != nil {
		return nil, err
	}

	tuning, err := s.CollectorOptions()
	if err != nil {
		return nil, err
	}

	c, err := gc.New(kind, m, append(tuning, opts...)...)
	if err != nil {
		return nil, err
	}

	if s.Cycle == "" {
		return c, gc.StartAuto(c, m)
	}
	return c, gc.StartCycle(c, s.Cycle)
}

func (s *Scenario) regionSize() (uint64, error) {
	if s.RegionSize == "" {
		return 0, nil
	}

	b, err := units.ParseBase2Bytes(s.RegionSize)
	if err != nil {
		return 0, errors.Wrapf(err, "region size %q", s.RegionSize)
	}
	if b <= 0 {
		return 0, errors.Errorf("region size %q must be positive", s.RegionSize)
	}
	return uint64(b), nil
}

// scenarioError marks err as a validation failure while keeping it inspectable.
type scenarioError struct {
	err error
}

func invalid(err error) error { return &scenarioError{err: err} }

func (e *scenarioError) Error() string        { return ErrInvalidScenario.Error() + ": " + e.err.Error() }
func (e *scenarioError) Unwrap() error        { return e.err }
func (e *scenarioError) Is(target error) bool { return target == ErrInvalidScenario }

func (s *Scenario) heapBuilder() *HeapBuilder {
	b := NewHeapBuilder()
	for _, t := range s.Threads {
		b.Thread(t)
	}
	for _, o := range s.Objects {
		b.Add(o)
	}
	return b
}
