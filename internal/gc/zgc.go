package gc

import (
	"github.com/comalice/heapsim/internal/heap"
)

var zgcCycle = []phaseSpec{
	stw(PhasePauseMarkStart),
	concurrent(PhaseConcurrentMark),
	stw(PhasePauseMarkEnd),
	concurrent(PhaseConcurrentProcessWeakRoots),
	concurrent(PhaseConcurrentRelocate),
}

// Color is the mark bit carried by a ZGC pointer.
type Color uint8

// Mark colours. The current colour alternates every cycle.
const (
	Marked0 Color = 0
	Marked1 Color = 1
)

// ZGC is the coloured-pointer collector. Objects are never freed here: the
// cycle colours live objects and tags relocated old objects as remapped.
type ZGC struct {
	engine

	current  Color
	colors   map[heap.ObjectID]Color
	marked0  heap.IDSet
	marked1  heap.IDSet
	remapped heap.IDSet
}

// NewZGC returns a ZGC collector bound to m.
func NewZGC(m *heap.Model, opts ...Option) *ZGC {
	z := &ZGC{
		engine:   newEngine(KindZGC, m, opts),
		colors:   make(map[heap.ObjectID]Color),
		marked0:  heap.NewIDSet(),
		marked1:  heap.NewIDSet(),
		remapped: heap.NewIDSet(),
	}
	z.exec = z.execute
	return z
}

// Start begins a collection.
func (z *ZGC) Start() { z.begin(CycleConcurrent, zgcCycle) }

// Cycles lists the single ZGC sequence.
func (z *ZGC) Cycles() []Cycle {
	return []Cycle{newCycle(CycleConcurrent, zgcCycle)}
}

// CurrentColor returns the colour of the current (or last) marking cycle.
func (z *ZGC) CurrentColor() Color { return z.current }

// ColorOf returns the colour of id's pointer, if it has one.
func (z *ZGC) ColorOf(id heap.ObjectID) (Color, bool) {
	c, ok := z.colors[id]
	return c, ok
}

// AddressSpace returns a copy of the ids currently coloured c.
func (z *ZGC) AddressSpace(c Color) heap.IDSet {
	if c == Marked0 {
		return z.marked0.Clone()
	}
	return z.marked1.Clone()
}

// Remapped returns a copy of the ids relocated so far.
func (z *ZGC) Remapped() heap.IDSet { return z.remapped.Clone() }

// Mark runs pause-mark-start and concurrent-mark back to back.
func (z *ZGC) Mark() {
	z.pauseMarkStart()
	z.concurrentMark()
}

// Copy relocates the old objects carrying the current colour.
func (z *ZGC) Copy() { z.relocate() }

func (z *ZGC) execute(p Phase) PhaseRecord {
	switch p {
	case PhasePauseMarkStart:
		z.pauseMarkStart()
	case PhaseConcurrentMark, PhasePauseMarkEnd:
		return z.concurrentMark()
	case PhaseConcurrentProcessWeakRoots:
		// No weak references are modelled.
	case PhaseConcurrentRelocate:
		return z.relocate()
	}
	return PhaseRecord{}
}

// pauseMarkStart drops colours of collected objects, flips the current
// colour and colours the roots.
func (z *ZGC) pauseMarkStart() {
	for id := range z.colors {
		if z.model.Get(id) == nil {
			delete(z.colors, id)
			delete(z.marked0, id)
			delete(z.marked1, id)
			delete(z.remapped, id)
		}
	}

	z.current ^= 1
	for _, root := range z.markRoots() {
		z.color(root.ID, z.current)
	}
}

// concurrentMark traces from the mark set, passing every resolved edge
// through the load barrier.
func (z *ZGC) concurrentMark() PhaseRecord {
	var rec PhaseRecord
	z.retrace(heap.Tracer{
		Resolve: z.model.Get,
		OnVisit: func(obj *heap.Object) {
			z.color(obj.ID, z.current)
		},
		OnEdge: func(_, to *heap.Object) {
			if z.loadBarrier(to) {
				rec.BarrierHits++
			}
		},
	})
	return rec
}

// loadBarrier heals a pointer whose colour is stale, reporting whether it did.
func (z *ZGC) loadBarrier(obj *heap.Object) bool {
	if c, ok := z.colors[obj.ID]; ok && c == z.current {
		return false
	}
	z.color(obj.ID, z.current)
	z.marked.Add(obj.ID)
	return true
}

func (z *ZGC) relocate() PhaseRecord {
	var rec PhaseRecord
	for _, obj := range z.model.Partitions().Old() {
		if c, ok := z.colors[obj.ID]; ok && c == z.current {
			z.remapped.Add(obj.ID)
			rec.Relocated++
		}
	}
	return rec
}

// color assigns c to id and moves it into the matching address space.
func (z *ZGC) color(id heap.ObjectID, c Color) {
	z.colors[id] = c
	if c == Marked0 {
		z.marked0.Add(id)
		delete(z.marked1, id)
	} else {
		z.marked1.Add(id)
		delete(z.marked0, id)
	}
}
