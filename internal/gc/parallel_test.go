package gc

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/comalice/heapsim/internal/heap"
)

func TestChunks(t *testing.T) {
	tests := []struct {
		name    string
		objects int
		workers int
		want    []int
	}{
		{"empty", 0, 4, nil},
		{"even", 8, 4, []int{2, 2, 2, 2}},
		{"ragged", 10, 4, []int{3, 3, 3, 1}},
		{"fewer objects than workers", 3, 4, []int{1, 1, 1}},
		{"single worker", 5, 1, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := make([]*heap.Object, tt.objects)
			for i := range objs {
				objs[i] = &heap.Object{ID: heap.ObjectID(i + 1)}
			}

			var sizes []int
			var flat []*heap.Object
			for _, c := range chunks(objs, tt.workers) {
				sizes = append(sizes, len(c))
				flat = append(flat, c...)
			}
			require.Equal(t, tt.want, sizes)
			require.Equal(t, ids(objs), ids(flat))
		})
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4} {
		ms := randomHeap(rand.New(rand.NewSource(seed)), 50)
		mp := randomHeap(rand.New(rand.NewSource(seed)), 50)

		s := NewSerial(ms)
		p := NewParallel(mp, WithWorkers(3))
		require.Equal(t, 3, p.Workers())

		for _, major := range []bool{false, true, false} {
			if major {
				s.StartMajor()
				p.StartMajor()
			} else {
				s.StartMinor()
				p.StartMinor()
			}
			drain(t, s)
			drain(t, p)
		}

		require.Empty(t, cmp.Diff(ms.Snapshot(), mp.Snapshot()), "seed %d", seed)
	}
}

func TestParallelRecordsWorkers(t *testing.T) {
	m := heap.NewModel()
	for i := 0; i < 10; i++ {
		thread := ""
		if i%2 == 0 {
			thread = heap.DefaultThread
		}
		m.Allocate("Object", 64, thread)
	}

	p := NewParallel(m)
	p.StartMinor()
	drain(t, p)

	tl := p.Timeline()
	require.Equal(t, PhaseParallelMark, tl[1].Phase)
	require.Equal(t, []int{2, 1, 2, 0}, tl[1].Workers)
	require.Equal(t, []int{3, 3, 3, 1}, tl[2].Workers)
	require.Equal(t, 5, tl[3].Freed)
	require.Equal(t, 5, m.Store().Len())
}
