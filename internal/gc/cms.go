package gc

import (
	"github.com/comalice/heapsim/internal/heap"
)

var cmsCycle = []phaseSpec{
	stw(PhaseInitialMark),
	concurrent(PhaseConcurrentMark),
	stw(PhaseRemark),
	concurrent(PhaseConcurrentSweep),
}

// CMS is the concurrent mark-sweep collector of the old generation.
// It never compacts, so old-generation order is preserved across cycles.
type CMS struct {
	engine
}

// NewCMS returns a CMS collector bound to m.
func NewCMS(m *heap.Model, opts ...Option) *CMS {
	c := &CMS{engine: newEngine(KindCMS, m, opts)}
	c.exec = c.execute
	return c
}

// Start begins a collection.
func (c *CMS) Start() { c.begin(CycleConcurrent, cmsCycle) }

// Cycles lists the single CMS sequence.
func (c *CMS) Cycles() []Cycle {
	return []Cycle{newCycle(CycleConcurrent, cmsCycle)}
}

// Mark runs initial-mark and concurrent-mark back to back.
func (c *CMS) Mark() {
	c.initialMark()
	c.retrace(c.tracer())
}

// Sweep frees unmarked old-generation objects.
func (c *CMS) Sweep() { c.concurrentSweep() }

func (c *CMS) execute(p Phase) PhaseRecord {
	switch p {
	case PhaseInitialMark:
		c.initialMark()
	case PhaseConcurrentMark, PhaseRemark:
		// Remark re-traces everything rather than tracking mutations made
		// during concurrent-mark.
		c.retrace(c.tracer())
	case PhaseConcurrentSweep:
		return c.concurrentSweep()
	}
	return PhaseRecord{}
}

// initialMark marks the roots and the objects they reference directly.
func (c *CMS) initialMark() {
	for _, root := range c.markRoots() {
		for _, ref := range root.References {
			if obj := c.model.Get(ref); obj != nil {
				c.marked.Add(obj.ID)
			}
		}
	}
}

func (c *CMS) concurrentSweep() PhaseRecord {
	var dead []*heap.Object
	for _, obj := range c.model.Partitions().Old() {
		if !c.marked.Has(obj.ID) {
			dead = append(dead, obj)
		}
	}
	return c.free(dead)
}
