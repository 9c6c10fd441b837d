package gc

import (
	"time"

	"github.com/comalice/heapsim/internal/heap"
)

// Phase is a phase name. The literal strings are consumed by display
// collaborators and must not change.
type Phase string

// Phase names shared by the engines.
const (
	PhaseIdle                       Phase = "idle"
	PhaseInitialMark                Phase = "initial-mark"
	PhaseMark                       Phase = "mark"
	PhaseCopy                       Phase = "copy"
	PhaseCompact                    Phase = "compact"
	PhaseSweep                      Phase = "sweep"
	PhaseParallelMark               Phase = "parallel-mark"
	PhaseParallelCompact            Phase = "parallel-compact"
	PhaseConcurrentMark             Phase = "concurrent-mark"
	PhaseRemark                     Phase = "remark"
	PhaseConcurrentSweep            Phase = "concurrent-sweep"
	PhaseRootRegionScan             Phase = "root-region-scan"
	PhaseCleanup                    Phase = "cleanup"
	PhaseEvacuation                 Phase = "evacuation"
	PhasePauseMarkStart             Phase = "pause-mark-start"
	PhasePauseMarkEnd               Phase = "pause-mark-end"
	PhaseConcurrentProcessWeakRoots Phase = "concurrent-process-weak-roots"
	PhaseConcurrentRelocate         Phase = "concurrent-relocate"
	PhaseFinalMark                  Phase = "final-mark"
	PhaseConcurrentEvacuation       Phase = "concurrent-evacuation"
	PhaseConcurrentUpdateRefs       Phase = "concurrent-update-refs"
)

// phaseSpec pairs a phase with whether it pauses the mutator.
type phaseSpec struct {
	phase        Phase
	stopTheWorld bool
}

func stw(p Phase) phaseSpec        { return phaseSpec{phase: p, stopTheWorld: true} }
func concurrent(p Phase) phaseSpec { return phaseSpec{phase: p} }

// Cycle names one collection kind and its phase sequence.
type Cycle struct {
	Name   string  `json:"name" yaml:"name"`
	Phases []Phase `json:"phases" yaml:"phases"`
}

func newCycle(name string, specs []phaseSpec) Cycle {
	c := Cycle{Name: name}
	for _, s := range specs {
		c.Phases = append(c.Phases, s.phase)
	}
	return c
}

// PhaseRecord describes what one executed phase did to the heap.
type PhaseRecord struct {
	Step         int    `json:"step" yaml:"step"`
	Phase        Phase  `json:"phase" yaml:"phase"`
	StopTheWorld bool   `json:"stopTheWorld" yaml:"stopTheWorld"`
	Marked       int    `json:"marked" yaml:"marked"`
	Freed        int    `json:"freed,omitempty" yaml:"freed,omitempty"`
	FreedBytes   uint64 `json:"freedBytes,omitempty" yaml:"freedBytes,omitempty"`
	Evicted      int    `json:"evicted,omitempty" yaml:"evicted,omitempty"`
	Moved        int    `json:"moved,omitempty" yaml:"moved,omitempty"`
	Promoted     int    `json:"promoted,omitempty" yaml:"promoted,omitempty"`
	Relocated    int    `json:"relocated,omitempty" yaml:"relocated,omitempty"`
	BarrierHits  int    `json:"barrierHits,omitempty" yaml:"barrierHits,omitempty"`
	UpdatedRefs  int    `json:"updatedRefs,omitempty" yaml:"updatedRefs,omitempty"`
	Regions      []int  `json:"regions,omitempty" yaml:"regions,omitempty"`
	Workers      []int  `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// PhaseEvent is published on every phase transition.
type PhaseEvent struct {
	Collector  Kind      `json:"collector" yaml:"collector"`
	Cycle      string    `json:"cycle" yaml:"cycle"`
	CycleID    string    `json:"cycleID" yaml:"cycleID"`
	Phase      Phase     `json:"phase" yaml:"phase"`
	Step       int       `json:"step" yaml:"step"`
	Concurrent bool      `json:"concurrent" yaml:"concurrent"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
}

// freedBytes sums the size of objs.
func freedBytes(objs []*heap.Object) uint64 {
	var n uint64
	for _, o := range objs {
		n += o.Size
	}
	return n
}
