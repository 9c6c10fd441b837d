package gc

import (
	"golang.org/x/exp/slices"

	"github.com/comalice/heapsim/internal/heap"
)

// RegionType classifies a G1 region.
type RegionType string

// Region types.
const (
	RegionFree      RegionType = "free"
	RegionEden      RegionType = "eden"
	RegionSurvivor  RegionType = "survivor"
	RegionOld       RegionType = "old"
	RegionHumongous RegionType = "humongous"
)

// Region is a fixed-capacity slice of the heap.
type Region struct {
	ID           int             `json:"id" yaml:"id"`
	Type         RegionType      `json:"type" yaml:"type"`
	Generation   RegionType      `json:"generation,omitempty" yaml:"generation,omitempty"` // humongous regions only
	Objects      []heap.ObjectID `json:"objects" yaml:"objects"`
	UsedBytes    uint64          `json:"usedBytes" yaml:"usedBytes"`
	LiveBytes    uint64          `json:"liveBytes" yaml:"liveBytes"`
	GarbageBytes uint64          `json:"garbageBytes" yaml:"garbageBytes"`
}

// Young reports whether the region belongs to eden or a survivor space. A
// humongous region is young when its object was allocated from one.
func (r Region) Young() bool {
	typ := r.Type
	if typ == RegionHumongous {
		typ = r.Generation
	}
	return typ == RegionEden || typ == RegionSurvivor
}

// GarbageRatio is garbage bytes over occupied bytes, zero for an empty region.
func (r Region) GarbageRatio() float64 {
	total := r.LiveBytes + r.GarbageBytes
	if total == 0 {
		return 0
	}
	return float64(r.GarbageBytes) / float64(total)
}

// BuildRegions packs every partition into regions of capacity size, first
// fit in partition order. An object larger than size gets a humongous region
// of its own. Live bytes are those of marked objects.
func BuildRegions(parts *heap.Partitions, marked heap.IDSet, size uint64) []Region {
	groups := []struct {
		typ  RegionType
		objs []*heap.Object
	}{
		{RegionEden, parts.Eden()},
		{RegionSurvivor, append(parts.Objects(heap.Survivor0), parts.Objects(heap.Survivor1)...)},
		{RegionOld, parts.Old()},
	}

	var regions []Region
	for _, g := range groups {
		current := -1
		for _, obj := range g.objs {
			if obj.Size > size {
				regions = append(regions, Region{ID: len(regions), Type: RegionHumongous, Generation: g.typ})
				addToRegion(&regions[len(regions)-1], obj, marked)
				continue
			}
			if current < 0 || regions[current].UsedBytes+obj.Size > size {
				regions = append(regions, Region{ID: len(regions), Type: g.typ})
				current = len(regions) - 1
			}
			addToRegion(&regions[current], obj, marked)
		}
	}
	return regions
}

func addToRegion(r *Region, obj *heap.Object, marked heap.IDSet) {
	r.Objects = append(r.Objects, obj.ID)
	r.UsedBytes += obj.Size
	if marked.Has(obj.ID) {
		r.LiveBytes += obj.Size
	} else {
		r.GarbageBytes += obj.Size
	}
}

// SelectCollectionSet picks at most limit regions that hold garbage, highest
// garbage ratio first. Ties keep their input order.
func SelectCollectionSet(regions []Region, limit int) []Region {
	var candidates []Region
	for _, r := range regions {
		if r.GarbageBytes > 0 {
			candidates = append(candidates, r)
		}
	}

	slices.SortStableFunc(candidates, func(a, b Region) bool {
		return a.GarbageRatio() > b.GarbageRatio()
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
