package gc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comalice/heapsim/internal/heap"
)

func TestZGCColoursAlternate(t *testing.T) {
	m := heap.NewModel()
	a := m.Allocate("A", 64, heap.DefaultThread)
	b := m.Allocate("B", 64, "")
	m.CreateReference(a.ID, b.ID)
	orphan := m.Allocate("Orphan", 64, "")

	z := NewZGC(m)
	require.Equal(t, Marked0, z.CurrentColor())

	z.Start()
	require.Equal(t, Marked1, z.CurrentColor())
	drain(t, z)

	for _, id := range []heap.ObjectID{a.ID, b.ID} {
		c, ok := z.ColorOf(id)
		require.True(t, ok)
		require.Equal(t, Marked1, c)
	}
	_, ok := z.ColorOf(orphan.ID)
	require.False(t, ok)
	require.Equal(t, heap.NewIDSet(a.ID, b.ID), z.AddressSpace(Marked1))
	require.Zero(t, z.AddressSpace(Marked0).Len())

	tl := z.Timeline()
	require.Equal(t, 1, tl[1].BarrierHits, "b healed during concurrent-mark")
	require.Zero(t, tl[2].BarrierHits, "nothing left to heal at pause-mark-end")

	z.Start()
	drain(t, z)
	require.Equal(t, Marked0, z.CurrentColor())
	require.Equal(t, heap.NewIDSet(a.ID, b.ID), z.AddressSpace(Marked0))
	require.Zero(t, z.AddressSpace(Marked1).Len())

	require.Equal(t, 3, m.Store().Len(), "ZGC never frees")
}

func TestZGCRelocatesOnlyCurrentOld(t *testing.T) {
	m := heap.NewModel()
	parts := m.Partitions()

	liveOld := m.Allocate("LiveOld", 64, heap.DefaultThread)
	deadOld := m.Allocate("DeadOld", 64, "")
	parts.Promote(liveOld)
	parts.Promote(deadOld)
	young := m.Allocate("Young", 64, heap.DefaultThread)

	z := NewZGC(m)
	z.Start()
	drain(t, z)

	require.Equal(t, heap.NewIDSet(liveOld.ID), z.Remapped())
	require.False(t, z.Remapped().Has(young.ID))
	require.Equal(t, 1, z.Timeline()[4].Relocated)
}

func TestZGCForgetsCollectedObjects(t *testing.T) {
	m := heap.NewModel()
	a := m.Allocate("A", 64, heap.DefaultThread)

	z := NewZGC(m)
	z.Start()
	drain(t, z)
	require.True(t, z.AddressSpace(Marked1).Has(a.ID))

	m.Free(a)
	z.Start()
	_, ok := z.ColorOf(a.ID)
	require.False(t, ok)
	require.False(t, z.AddressSpace(Marked1).Has(a.ID))
}
