package gc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/heapsim/internal/heap"
	"github.com/comalice/heapsim/internal/logging"
)

// engine is the phase sequencer shared by every collector.
//
// A variant embeds it and supplies exec, which runs one phase against the
// model and reports what it did.
type engine struct {
	kind  Kind
	model *heap.Model
	exec  func(Phase) PhaseRecord

	cycle    string
	sequence []phaseSpec
	index    int
	running  bool
	phase    Phase
	conc     bool
	marked   heap.IDSet
	timeline []PhaseRecord
	cycleID  string

	callbacks []func(Phase)

	log        logging.Logger
	publisher  Publisher
	workers    int
	regionSize uint64
	maxRegions int
}

func newEngine(kind Kind, m *heap.Model, opts []Option) engine {
	e := engine{
		kind:       kind,
		model:      m,
		phase:      PhaseIdle,
		marked:     heap.NewIDSet(),
		workers:    DefaultWorkers,
		regionSize: DefaultRegionSize,
		maxRegions: DefaultMaxCollectionRegions,
	}

	for _, opt := range opts {
		opt(&e)
	}

	e.log = logging.Module(e.log, "heapsim/gc/"+string(kind))

	return e
}

// Name returns the collector kind.
func (e *engine) Name() Kind { return e.kind }

// Phase returns the announced phase.
func (e *engine) Phase() Phase { return e.phase }

// Running reports whether a cycle is in progress.
func (e *engine) Running() bool { return e.running }

// Concurrent reports whether the announced phase runs alongside the mutator.
func (e *engine) Concurrent() bool { return e.conc }

// CycleID identifies the current or last cycle.
func (e *engine) CycleID() string { return e.cycleID }

// Marked returns a copy of the mark set.
func (e *engine) Marked() heap.IDSet { return e.marked.Clone() }

// Timeline returns a copy of the phase records of the current cycle.
func (e *engine) Timeline() []PhaseRecord {
	out := make([]PhaseRecord, len(e.timeline))
	copy(out, e.timeline)
	return out
}

// AddPhaseCallback registers fn. Callbacks run in registration order.
func (e *engine) AddPhaseCallback(fn func(Phase)) {
	if fn != nil {
		e.callbacks = append(e.callbacks, fn)
	}
}

// begin resets per-cycle state and announces the first phase of seq.
func (e *engine) begin(cycle string, seq []phaseSpec) {
	if e.running {
		e.log.Debugw("restarting collection", "cycle", e.cycle, "phase", e.phase)
	}

	e.cycle = cycle
	e.sequence = seq
	e.index = 0
	e.running = true
	e.marked = heap.NewIDSet()
	e.timeline = nil
	e.cycleID = uuid.NewString()

	e.log.Debugw("collection started", "cycle", cycle, "id", e.cycleID, "objects", e.model.Store().Len())
	e.announce(seq[0])
}

// Step executes the phase at the current index and advances.
func (e *engine) Step() bool {
	if !e.running || e.index >= len(e.sequence) {
		e.complete()
		return false
	}

	spec := e.sequence[e.index]
	rec := e.exec(spec.phase)
	rec.Step = e.index
	rec.Phase = spec.phase
	rec.StopTheWorld = spec.stopTheWorld
	rec.Marked = e.marked.Len()
	e.timeline = append(e.timeline, rec)

	e.log.Debugw("phase executed",
		"phase", spec.phase,
		"marked", rec.Marked,
		"freed", rec.Freed,
		"moved", rec.Moved,
		"promoted", rec.Promoted)

	e.index++
	if e.index >= len(e.sequence) {
		e.complete()
		return false
	}

	e.announce(e.sequence[e.index])
	return true
}

// Reset abandons the cycle. The heap is untouched and no callback fires.
func (e *engine) Reset() {
	e.running = false
	e.phase = PhaseIdle
	e.conc = false
	e.index = 0
	e.sequence = nil
}

// complete ends the cycle, announcing idle unless already idle.
func (e *engine) complete() {
	e.running = false
	if e.phase == PhaseIdle {
		return
	}

	e.log.Debugw("collection complete", "cycle", e.cycle, "id", e.cycleID, "objects", e.model.Store().Len())
	e.announce(phaseSpec{phase: PhaseIdle})
}

func (e *engine) announce(spec phaseSpec) {
	e.phase = spec.phase
	e.conc = spec.phase != PhaseIdle && !spec.stopTheWorld

	for _, fn := range e.callbacks {
		fn(spec.phase)
	}

	if e.publisher == nil {
		return
	}

	ev := PhaseEvent{
		Collector:  e.kind,
		Cycle:      e.cycle,
		CycleID:    e.cycleID,
		Phase:      spec.phase,
		Step:       e.index,
		Concurrent: e.conc,
		Timestamp:  time.Now(),
	}
	if err := e.publisher.Publish(context.Background(), ev); err != nil {
		e.log.Warnw("unable to publish phase event", "phase", spec.phase, "error", err)
	}
}

// markRoots adds every resolvable root to the mark set and returns them.
func (e *engine) markRoots() []*heap.Object {
	var out []*heap.Object
	for _, id := range e.model.GCRoots() {
		if obj := e.model.Get(id); obj != nil {
			e.marked.Add(obj.ID)
			out = append(out, obj)
		}
	}
	return out
}

// tracer returns a tracer bound to the model.
func (e *engine) tracer() heap.Tracer {
	return heap.Tracer{Resolve: e.model.Get}
}

// traceFromRoots adds everything reachable from the roots to the mark set.
func (e *engine) traceFromRoots() {
	e.marked.Union(e.tracer().Trace(e.model.GCRoots()))
}

// retrace re-walks the graph from the current mark set using t.
func (e *engine) retrace(t heap.Tracer) {
	e.marked.Union(t.Trace(e.marked.Sorted()))
}

// sweepAll frees every unmarked object in the store.
func (e *engine) sweepAll() PhaseRecord {
	var dead []*heap.Object
	for _, obj := range e.model.AllObjects() {
		if !e.marked.Has(obj.ID) {
			dead = append(dead, obj)
		}
	}
	return e.free(dead)
}

// free evicts and removes objs.
func (e *engine) free(objs []*heap.Object) PhaseRecord {
	for _, obj := range objs {
		e.model.Free(obj)
	}
	return PhaseRecord{Freed: len(objs), FreedBytes: freedBytes(objs)}
}
