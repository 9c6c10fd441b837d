package gc

import (
	"github.com/comalice/heapsim/internal/heap"
)

var (
	g1Young = []phaseSpec{
		stw(PhaseInitialMark),
		concurrent(PhaseRootRegionScan),
		concurrent(PhaseConcurrentMark),
		stw(PhaseRemark),
		stw(PhaseCleanup),
		stw(PhaseCopy),
	}
	g1Mixed = []phaseSpec{
		stw(PhaseInitialMark),
		concurrent(PhaseConcurrentMark),
		stw(PhaseRemark),
		stw(PhaseCleanup),
		stw(PhaseEvacuation),
	}
)

// G1 is the region-based garbage-first collector. Cleanup lays the heap out in
// regions; copy and evacuation collect the regions with the most garbage and
// leave every other region as it is.
type G1 struct {
	engine

	regions []Region
	cset    []int
}

// NewG1 returns a G1 collector bound to m.
func NewG1(m *heap.Model, opts ...Option) *G1 {
	g := &G1{engine: newEngine(KindG1, m, opts)}
	g.exec = g.execute
	return g
}

// RegionSize returns the configured region capacity in bytes.
func (g *G1) RegionSize() uint64 { return g.regionSize }

// Regions returns a copy of the region layout from the last cleanup.
func (g *G1) Regions() []Region {
	out := make([]Region, len(g.regions))
	copy(out, g.regions)
	return out
}

// CollectionSet returns the ids of the regions collected by the last copy or evacuation.
func (g *G1) CollectionSet() []int {
	return append([]int(nil), g.cset...)
}

// StartYoung begins a young collection.
func (g *G1) StartYoung() { g.begin(CycleYoung, g1Young) }

// StartMixed begins a mixed collection over young and old regions.
func (g *G1) StartMixed() { g.begin(CycleMixed, g1Mixed) }

// Cycles lists the young and mixed sequences.
func (g *G1) Cycles() []Cycle {
	return []Cycle{newCycle(CycleYoung, g1Young), newCycle(CycleMixed, g1Mixed)}
}

// Mark marks the roots and everything reachable from them.
func (g *G1) Mark() {
	g.markRoots()
	g.retrace(g.tracer())
}

// Copy lays out regions and runs a young evacuation.
func (g *G1) Copy() {
	g.cleanup()
	g.evacuate(true)
}

func (g *G1) execute(p Phase) PhaseRecord {
	switch p {
	case PhaseInitialMark:
		g.regions, g.cset = nil, nil
		g.markRoots()
	case PhaseRootRegionScan:
		// Survivor regions are scanned as part of concurrent-mark.
	case PhaseConcurrentMark, PhaseRemark:
		g.retrace(g.tracer())
	case PhaseCleanup:
		return g.cleanup()
	case PhaseCopy:
		return g.evacuate(true)
	case PhaseEvacuation:
		return g.evacuate(false)
	}
	return PhaseRecord{}
}

func (g *G1) cleanup() PhaseRecord {
	g.regions = BuildRegions(g.model.Partitions(), g.marked, g.regionSize)

	rec := PhaseRecord{}
	for _, r := range g.regions {
		rec.Regions = append(rec.Regions, r.ID)
	}
	return rec
}

// evacuate collects the selected regions: live objects are promoted or moved
// to survivor, dead ones freed, and the region becomes free.
func (g *G1) evacuate(young bool) PhaseRecord {
	candidates := g.regions
	if young {
		candidates = nil
		for _, r := range g.regions {
			if r.Young() {
				candidates = append(candidates, r)
			}
		}
	}

	parts := g.model.Partitions()

	var (
		rec  PhaseRecord
		dead []*heap.Object
	)
	g.cset = nil
	for _, r := range SelectCollectionSet(candidates, g.maxRegions) {
		for _, id := range r.Objects {
			obj := g.model.Get(id)
			if obj == nil {
				continue
			}
			switch {
			case !g.marked.Has(id):
				dead = append(dead, obj)
			case obj.Location == heap.Old:
				// Live old objects stay in the old generation.
			case obj.Age >= heap.PromotionAge:
				parts.Promote(obj)
				rec.Promoted++
			default:
				parts.MoveToSurvivor(obj)
				rec.Moved++
			}
		}

		g.regions[r.ID] = Region{ID: r.ID, Type: RegionFree}
		g.cset = append(g.cset, r.ID)
	}

	freed := g.free(dead)
	rec.Freed, rec.FreedBytes = freed.Freed, freed.FreedBytes
	rec.Regions = g.CollectionSet()
	return rec
}
