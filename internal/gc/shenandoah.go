package gc

import (
	"github.com/comalice/heapsim/internal/heap"
)

var shenandoahCycle = []phaseSpec{
	stw(PhaseInitialMark),
	concurrent(PhaseConcurrentMark),
	stw(PhaseFinalMark),
	concurrent(PhaseConcurrentEvacuation),
	concurrent(PhaseConcurrentUpdateRefs),
}

// Shenandoah is the concurrent-evacuation collector. Evacuation and reference
// updating are accounted but do not move objects.
type Shenandoah struct {
	engine

	matrix map[heap.Location]map[heap.Location]struct{}
}

// NewShenandoah returns a Shenandoah collector bound to m.
func NewShenandoah(m *heap.Model, opts ...Option) *Shenandoah {
	s := &Shenandoah{
		engine: newEngine(KindShenandoah, m, opts),
		matrix: make(map[heap.Location]map[heap.Location]struct{}),
	}
	s.exec = s.execute
	return s
}

// Start begins a collection.
func (s *Shenandoah) Start() { s.begin(CycleConcurrent, shenandoahCycle) }

// Cycles lists the single Shenandoah sequence.
func (s *Shenandoah) Cycles() []Cycle {
	return []Cycle{newCycle(CycleConcurrent, shenandoahCycle)}
}

// ConnectionMatrix returns, per partition, the other partitions its objects
// reference, as computed by the last evacuation. Both levels follow
// heap.Locations order.
func (s *Shenandoah) ConnectionMatrix() map[heap.Location][]heap.Location {
	out := make(map[heap.Location][]heap.Location, len(s.matrix))
	for from, targets := range s.matrix {
		for _, to := range heap.Locations() {
			if _, ok := targets[to]; ok {
				out[from] = append(out[from], to)
			}
		}
	}
	return out
}

// Mark marks the roots and everything reachable from them.
func (s *Shenandoah) Mark() {
	s.markRoots()
	s.retrace(s.tracer())
}

// Copy runs the evacuation accounting.
func (s *Shenandoah) Copy() { s.evacuate() }

// Compact runs the reference-update accounting.
func (s *Shenandoah) Compact() { s.updateRefs() }

func (s *Shenandoah) execute(p Phase) PhaseRecord {
	switch p {
	case PhaseInitialMark:
		s.markRoots()
	case PhaseConcurrentMark, PhaseFinalMark:
		s.retrace(s.tracer())
	case PhaseConcurrentEvacuation:
		return s.evacuate()
	case PhaseConcurrentUpdateRefs:
		return s.updateRefs()
	}
	return PhaseRecord{}
}

// evacuate rebuilds the connection matrix and counts live old objects.
func (s *Shenandoah) evacuate() PhaseRecord {
	parts := s.model.Partitions()
	s.matrix = make(map[heap.Location]map[heap.Location]struct{})

	for _, obj := range s.model.AllObjects() {
		from, ok := parts.Locate(obj.ID)
		if !ok {
			continue
		}
		for _, ref := range obj.References {
			if s.model.Get(ref) == nil {
				continue
			}
			to, ok := parts.Locate(ref)
			if !ok || to == from {
				continue
			}
			if s.matrix[from] == nil {
				s.matrix[from] = make(map[heap.Location]struct{})
			}
			s.matrix[from][to] = struct{}{}
		}
	}

	var rec PhaseRecord
	for _, obj := range parts.Old() {
		if s.marked.Has(obj.ID) {
			rec.Moved++
		}
	}
	return rec
}

// updateRefs counts references from any object to a marked target.
func (s *Shenandoah) updateRefs() PhaseRecord {
	var rec PhaseRecord
	for _, obj := range s.model.AllObjects() {
		for _, ref := range obj.References {
			if s.marked.Has(ref) {
				rec.UpdatedRefs++
			}
		}
	}
	return rec
}
