// Package heapsim simulates a generational managed heap and the garbage
// collectors that reclaim it.
//
// A Model holds the object graph, its heap partitions and the thread roots.
// A Collector bound to that model runs one collection cycle phase by phase:
//
//	m := heapsim.NewModel()
//	a := m.Allocate("Node", 64, heapsim.MainThread)
//	b := m.Allocate("Node", 64, "")
//	m.CreateReference(a.ID, b.ID)
//
//	c, _ := heapsim.NewCollector("g1", m)
//	_ = heapsim.StartAuto(c, m)
//	for c.Step() {
//		fmt.Println(c.Phase())
//	}
//
// Nothing here is safe for concurrent use; the realtime package paces a
// cycle when it should be watched step by step.
package heapsim

import (
	"github.com/comalice/heapsim/internal/gc"
	"github.com/comalice/heapsim/internal/heap"
)

// Version of the simulator.
const Version = "0.3.0"

// MainThread is the thread every model starts with.
const MainThread = heap.DefaultThread

type (
	// Model is the simulated heap.
	Model = heap.Model
	// Object is one allocated object.
	Object = heap.Object
	// ObjectID identifies an object within its model.
	ObjectID = heap.ObjectID
	// Location names a heap partition.
	Location = heap.Location
	// Snapshot is a serializable copy of a model.
	Snapshot = heap.Snapshot
	// Stats summarises a model.
	Stats = heap.Stats

	// Collector is the contract every collection engine implements.
	Collector = gc.Collector
	// Kind names a collector.
	Kind = gc.Kind
	// Phase names a collection phase.
	Phase = gc.Phase
	// PhaseRecord describes one executed phase.
	PhaseRecord = gc.PhaseRecord
	// Option configures a collector.
	Option = gc.Option
)

// Partition names.
const (
	Eden      = heap.Eden
	Survivor0 = heap.Survivor0
	Survivor1 = heap.Survivor1
	Old       = heap.Old
)

// Errors returned by the collectors.
var (
	ErrUnsupported      = gc.ErrUnsupported
	ErrUnknownCollector = gc.ErrUnknownCollector
	ErrUnknownCycle     = gc.ErrUnknownCycle
	ErrNothingToCollect = gc.ErrNothingToCollect
)

// NewModel returns an empty model with the main thread registered.
func NewModel() *Model {
	return heap.NewModel()
}

// NewCollector creates a collector by name (serial, parallel, cms, g1, zgc,
// shenandoah; case-insensitive) bound to m.
func NewCollector(name string, m *Model, opts ...Option) (Collector, error) {
	kind, err := gc.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return gc.New(kind, m, opts...)
}

// Collectors lists the collector kinds.
func Collectors() []Kind {
	return gc.Kinds()
}

// StartAuto starts the cycle the collector would pick for the current heap.
func StartAuto(c Collector, m *Model) error {
	return gc.StartAuto(c, m)
}

// StartCycle starts the named cycle of c.
func StartCycle(c Collector, cycle string) error {
	return gc.StartCycle(c, cycle)
}

// Collect runs a started cycle to completion and returns its timeline.
func Collect(c Collector) []PhaseRecord {
	for c.Step() {
	}
	return c.Timeline()
}
