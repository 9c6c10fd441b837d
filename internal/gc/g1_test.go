package gc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/comalice/heapsim/internal/heap"
)

func TestBuildRegions(t *testing.T) {
	m := heap.NewModel()
	sizes := []uint64{60, 30, 20, 150, 50}
	var objs []*heap.Object
	for _, size := range sizes {
		objs = append(objs, m.Allocate("Object", size, ""))
	}
	old := m.Allocate("Old", 40, "")
	m.Partitions().Promote(old)

	marked := heap.NewIDSet(objs[0].ID, objs[3].ID)
	got := BuildRegions(m.Partitions(), marked, 100)

	want := []Region{
		{ID: 0, Type: RegionEden, Objects: []heap.ObjectID{1, 2}, UsedBytes: 90, LiveBytes: 60, GarbageBytes: 30},
		{ID: 1, Type: RegionEden, Objects: []heap.ObjectID{3, 5}, UsedBytes: 70, GarbageBytes: 70},
		{ID: 2, Type: RegionHumongous, Generation: RegionEden, Objects: []heap.ObjectID{4}, UsedBytes: 150, LiveBytes: 150},
		{ID: 3, Type: RegionOld, Objects: []heap.ObjectID{6}, UsedBytes: 40, GarbageBytes: 40},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildRegions() mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectCollectionSet(t *testing.T) {
	ratios := []float64{0.9, 0.1, 0.5, 0.0, 0.9, 0.9, 0.9, 0.9, 0.9, 0.9}

	var regions []Region
	for i, r := range ratios {
		garbage := uint64(r * 100)
		regions = append(regions, Region{ID: i, Type: RegionOld, GarbageBytes: garbage, LiveBytes: 100 - garbage})
	}

	var got []int
	for _, r := range SelectCollectionSet(regions, DefaultMaxCollectionRegions) {
		got = append(got, r.ID)
	}
	require.Equal(t, []int{0, 4, 5, 6, 7, 8, 9, 2}, got)
}

func TestGarbageRatio(t *testing.T) {
	require.Zero(t, Region{}.GarbageRatio())
	require.InDelta(t, 0.25, Region{LiveBytes: 75, GarbageBytes: 25}.GarbageRatio(), 1e-9)
}

func TestG1YoungLeavesUnselectedRegions(t *testing.T) {
	m := heap.NewModel()
	var objs []*heap.Object
	for i := 0; i < 12; i++ {
		objs = append(objs, m.Allocate("Object", 100, ""))
	}
	live := m.Allocate("Live", 100, heap.DefaultThread)

	g := NewG1(m, WithRegionSize(100))
	require.Equal(t, uint64(100), g.RegionSize())
	g.StartYoung()
	drain(t, g)

	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, g.CollectionSet())
	for _, obj := range objs[:8] {
		require.Nil(t, m.Get(obj.ID))
	}
	for _, obj := range objs[8:] {
		require.NotNil(t, m.Get(obj.ID))
		require.Equal(t, heap.Eden, obj.Location)
	}

	// The live region held no garbage, so it was not collected either.
	require.Equal(t, heap.Eden, live.Location)
	require.Zero(t, live.Age)

	regions := g.Regions()
	require.Len(t, regions, 13)
	require.Equal(t, RegionFree, regions[0].Type)
	require.Equal(t, RegionEden, regions[8].Type)
}

func TestG1YoungCollectsHumongousGarbage(t *testing.T) {
	m := heap.NewModel()
	root := m.Allocate("Root", 50, heap.DefaultThread)
	big := m.Allocate("Big", 500, "")
	oldBig := m.Allocate("OldBig", 500, "")
	m.Partitions().Promote(oldBig)

	g := NewG1(m, WithRegionSize(100))
	g.StartYoung()
	drain(t, g)

	require.Nil(t, m.Get(big.ID))
	require.NotNil(t, m.Get(root.ID))
	require.NotNil(t, m.Get(oldBig.ID), "old humongous regions wait for a mixed cycle")
}

func TestRegionYoung(t *testing.T) {
	tests := []struct {
		region Region
		want   bool
	}{
		{Region{Type: RegionEden}, true},
		{Region{Type: RegionSurvivor}, true},
		{Region{Type: RegionOld}, false},
		{Region{Type: RegionHumongous, Generation: RegionEden}, true},
		{Region{Type: RegionHumongous, Generation: RegionSurvivor}, true},
		{Region{Type: RegionHumongous, Generation: RegionOld}, false},
		{Region{Type: RegionFree}, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.region.Young(), "%+v", tt.region)
	}
}

func TestG1YoungMovesLiveObjects(t *testing.T) {
	m := heap.NewModel()
	root := m.Allocate("Root", 50, heap.DefaultThread)
	dead := m.Allocate("Dead", 50, "")
	oldGarbage := m.Allocate("OldGarbage", 50, "")
	m.Partitions().Promote(oldGarbage)

	g := NewG1(m, WithRegionSize(100))
	g.StartYoung()
	drain(t, g)

	require.Equal(t, heap.Survivor0, root.Location)
	require.Equal(t, 1, root.Age)
	require.Nil(t, m.Get(dead.ID))
	require.NotNil(t, m.Get(oldGarbage.ID), "young collections skip old regions")
	require.Empty(t, m.Partitions().Eden())
	require.Equal(t, heap.Survivor1, m.Partitions().From(), "survivor selector does not flip")

	rec := g.Timeline()[5]
	require.Equal(t, PhaseCopy, rec.Phase)
	require.Equal(t, 1, rec.Moved)
	require.Equal(t, 1, rec.Freed)
}

func TestG1MixedCollectsOld(t *testing.T) {
	m := heap.NewModel()
	parts := m.Partitions()
	keep := m.Allocate("Keep", 50, heap.DefaultThread)
	drop := m.Allocate("Drop", 50, "")
	parts.Promote(keep)
	parts.Promote(drop)

	g := NewG1(m, WithRegionSize(100), WithMaxCollectionRegions(1))
	g.StartMixed()
	drain(t, g)

	require.Nil(t, m.Get(drop.ID))
	require.Equal(t, []heap.ObjectID{keep.ID}, ids(parts.Old()))
	require.Equal(t, heap.Old, keep.Location)
	require.Len(t, g.CollectionSet(), 1)
}
