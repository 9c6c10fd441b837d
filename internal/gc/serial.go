package gc

import (
	"github.com/comalice/heapsim/internal/heap"
)

var (
	serialMinor = []phaseSpec{stw(PhaseInitialMark), stw(PhaseMark), stw(PhaseCopy), stw(PhaseSweep)}
	serialMajor = []phaseSpec{stw(PhaseInitialMark), stw(PhaseMark), stw(PhaseCompact), stw(PhaseSweep)}
)

// Serial is the single-threaded stop-the-world collector.
type Serial struct {
	engine
}

// NewSerial returns a Serial collector bound to m.
func NewSerial(m *heap.Model, opts ...Option) *Serial {
	s := &Serial{engine: newEngine(KindSerial, m, opts)}
	s.exec = s.execute
	return s
}

// StartMinor begins a young-generation collection.
func (s *Serial) StartMinor() { s.begin(CycleMinor, serialMinor) }

// StartMajor begins a full-heap collection.
func (s *Serial) StartMajor() { s.begin(CycleMajor, serialMajor) }

// Cycles lists the minor and major sequences.
func (s *Serial) Cycles() []Cycle {
	return []Cycle{newCycle(CycleMinor, serialMinor), newCycle(CycleMajor, serialMajor)}
}

// Mark marks the roots and everything reachable from them.
func (s *Serial) Mark() {
	s.markRoots()
	s.traceFromRoots()
}

// Copy evacuates the young generation.
func (s *Serial) Copy() { s.copyYoung() }

// Compact drops unmarked objects from the old generation.
func (s *Serial) Compact() { s.compactOld() }

// Sweep frees every unmarked object.
func (s *Serial) Sweep() { s.sweepAll() }

func (s *Serial) execute(p Phase) PhaseRecord {
	switch p {
	case PhaseInitialMark:
		s.markRoots()
	case PhaseMark:
		s.traceFromRoots()
	case PhaseCopy:
		return s.copyYoung()
	case PhaseCompact:
		return s.compactOld()
	case PhaseSweep:
		return s.sweepAll()
	}
	return PhaseRecord{}
}

// copyYoung moves marked eden and from-space objects to the to-space or the
// old generation and evicts the rest, leaving them for sweep.
func (s *Serial) copyYoung() PhaseRecord {
	parts := s.model.Partitions()
	from := parts.From()

	var rec PhaseRecord
	for _, obj := range append(parts.Eden(), parts.Objects(from)...) {
		evacuate(parts, s.marked, obj, &rec)
	}

	parts.Clear(heap.Eden)
	parts.Clear(from)
	parts.SwitchSurvivor()
	return rec
}

func (s *Serial) compactOld() PhaseRecord {
	parts := s.model.Partitions()
	old := parts.Old()

	live := make([]*heap.Object, 0, len(old))
	for _, obj := range old {
		if s.marked.Has(obj.ID) {
			live = append(live, obj)
		}
	}
	parts.SetOld(live)
	return PhaseRecord{Evicted: len(old) - len(live)}
}

// evacuate applies the copy rule to one young object.
func evacuate(parts *heap.Partitions, marked heap.IDSet, obj *heap.Object, rec *PhaseRecord) {
	switch {
	case !marked.Has(obj.ID):
		parts.Evict(obj)
		rec.Evicted++
	case obj.Age >= heap.PromotionAge:
		parts.Promote(obj)
		rec.Promoted++
	default:
		parts.MoveToSurvivor(obj)
		rec.Moved++
	}
}
