package gc

import (
	"github.com/comalice/heapsim/internal/heap"
)

var (
	parallelMinor = []phaseSpec{stw(PhaseInitialMark), stw(PhaseParallelMark), stw(PhaseCopy), stw(PhaseSweep)}
	parallelMajor = []phaseSpec{stw(PhaseInitialMark), stw(PhaseParallelMark), stw(PhaseParallelCompact), stw(PhaseSweep)}
)

// Parallel is the throughput collector. Work is split into per-worker chunks
// for accounting; chunks are processed one after another and the result is
// the same as Serial's.
type Parallel struct {
	engine
}

// NewParallel returns a Parallel collector bound to m.
func NewParallel(m *heap.Model, opts ...Option) *Parallel {
	p := &Parallel{engine: newEngine(KindParallel, m, opts)}
	p.exec = p.execute
	return p
}

// Workers returns the configured worker count.
func (p *Parallel) Workers() int { return p.workers }

// StartMinor begins a young-generation collection.
func (p *Parallel) StartMinor() { p.begin(CycleMinor, parallelMinor) }

// StartMajor begins a full-heap collection.
func (p *Parallel) StartMajor() { p.begin(CycleMajor, parallelMajor) }

// Cycles lists the minor and major sequences.
func (p *Parallel) Cycles() []Cycle {
	return []Cycle{newCycle(CycleMinor, parallelMinor), newCycle(CycleMajor, parallelMajor)}
}

// Mark marks the roots and everything reachable from them.
func (p *Parallel) Mark() {
	p.markRoots()
	p.parallelMark()
}

// Copy evacuates the young generation.
func (p *Parallel) Copy() { p.copyYoung() }

// Compact drops unmarked objects from the old generation.
func (p *Parallel) Compact() { p.parallelCompact() }

// Sweep frees every unmarked object.
func (p *Parallel) Sweep() { p.sweep() }

func (p *Parallel) execute(ph Phase) PhaseRecord {
	switch ph {
	case PhaseInitialMark:
		p.markRoots()
	case PhaseParallelMark:
		return p.parallelMark()
	case PhaseCopy:
		return p.copyYoung()
	case PhaseParallelCompact:
		return p.parallelCompact()
	case PhaseSweep:
		return p.sweep()
	}
	return PhaseRecord{}
}

// parallelMark traces from the roots, then records how many marked objects
// each worker's share of the heap holds.
func (p *Parallel) parallelMark() PhaseRecord {
	p.traceFromRoots()

	var rec PhaseRecord
	for _, chunk := range chunks(p.model.AllObjects(), p.workers) {
		n := 0
		for _, obj := range chunk {
			if p.marked.Has(obj.ID) {
				n++
			}
		}
		rec.Workers = append(rec.Workers, n)
	}
	return rec
}

func (p *Parallel) copyYoung() PhaseRecord {
	parts := p.model.Partitions()
	from := parts.From()

	var rec PhaseRecord
	for _, chunk := range chunks(append(parts.Eden(), parts.Objects(from)...), p.workers) {
		for _, obj := range chunk {
			evacuate(parts, p.marked, obj, &rec)
		}
		rec.Workers = append(rec.Workers, len(chunk))
	}

	parts.Clear(heap.Eden)
	parts.Clear(from)
	parts.SwitchSurvivor()
	return rec
}

func (p *Parallel) parallelCompact() PhaseRecord {
	parts := p.model.Partitions()
	old := parts.Old()

	var (
		rec  PhaseRecord
		live []*heap.Object
	)
	for _, chunk := range chunks(old, p.workers) {
		for _, obj := range chunk {
			if p.marked.Has(obj.ID) {
				live = append(live, obj)
			}
		}
		rec.Workers = append(rec.Workers, len(chunk))
	}
	parts.SetOld(live)
	rec.Evicted = len(old) - len(live)
	return rec
}

func (p *Parallel) sweep() PhaseRecord {
	var (
		dead    []*heap.Object
		workers []int
	)
	for _, chunk := range chunks(p.model.AllObjects(), p.workers) {
		n := 0
		for _, obj := range chunk {
			if !p.marked.Has(obj.ID) {
				dead = append(dead, obj)
				n++
			}
		}
		workers = append(workers, n)
	}

	rec := p.free(dead)
	rec.Workers = workers
	return rec
}

// chunks splits objs into at most n consecutive chunks of ceil(len/n).
func chunks(objs []*heap.Object, n int) [][]*heap.Object {
	if len(objs) == 0 || n <= 0 {
		return nil
	}

	size := (len(objs) + n - 1) / n
	out := make([][]*heap.Object, 0, n)
	for start := 0; start < len(objs); start += size {
		end := min(start+size, len(objs))
		out = append(out, objs[start:end])
	}
	return out
}
