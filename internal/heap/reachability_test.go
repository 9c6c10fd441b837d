package heap

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func graph(edges map[ObjectID][]ObjectID, n int) []*Object {
	objs := make([]*Object, 0, n)
	for i := 1; i <= n; i++ {
		id := ObjectID(i)
		objs = append(objs, &Object{ID: id, Type: "Node", Size: 8, Location: Eden, References: edges[id]})
	}
	return objs
}

func TestComputeReachable(t *testing.T) {
	tests := []struct {
		name  string
		edges map[ObjectID][]ObjectID
		n     int
		roots []ObjectID
		want  []ObjectID
	}{
		{
			name:  "chain",
			edges: map[ObjectID][]ObjectID{1: {2}, 2: {3}},
			n:     4,
			roots: []ObjectID{1},
			want:  []ObjectID{1, 2, 3},
		},
		{
			name:  "cycle terminates",
			edges: map[ObjectID][]ObjectID{1: {2}, 2: {3}, 3: {1}},
			n:     3,
			roots: []ObjectID{2},
			want:  []ObjectID{1, 2, 3},
		},
		{
			name:  "dangling reference skipped",
			edges: map[ObjectID][]ObjectID{1: {99, 2}},
			n:     2,
			roots: []ObjectID{1},
			want:  []ObjectID{1, 2},
		},
		{
			name:  "unknown root skipped",
			edges: nil,
			n:     2,
			roots: []ObjectID{42, 2},
			want:  []ObjectID{2},
		},
		{
			name:  "no roots",
			edges: map[ObjectID][]ObjectID{1: {2}},
			n:     2,
			roots: nil,
			want:  []ObjectID{},
		},
		{
			name:  "duplicate roots",
			edges: map[ObjectID][]ObjectID{1: {2}},
			n:     3,
			roots: []ObjectID{1, 1},
			want:  []ObjectID{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReachable(tt.roots, graph(tt.edges, tt.n)).Sorted()
			if got == nil {
				got = []ObjectID{}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeReachable() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReachabilityClosedUnderReferences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(40)
		edges := make(map[ObjectID][]ObjectID)
		for i := 0; i < n*2; i++ {
			from := ObjectID(1 + rng.Intn(n))
			to := ObjectID(1 + rng.Intn(n+3)) // some dangling
			edges[from] = append(edges[from], to)
		}
		objs := graph(edges, n)
		roots := []ObjectID{ObjectID(1 + rng.Intn(n))}

		reachable := ComputeReachable(roots, objs)
		for _, obj := range objs {
			if !reachable.Has(obj.ID) {
				continue
			}
			for _, ref := range obj.References {
				if int(ref) <= n && !reachable.Has(ref) {
					t.Fatalf("round %d: %v reachable but its target %v is not", round, obj.ID, ref)
				}
			}
		}
	}
}

func TestTracerCallbacks(t *testing.T) {
	objs := graph(map[ObjectID][]ObjectID{1: {2, 3}, 2: {3}, 3: {1}}, 3)
	index := map[ObjectID]*Object{}
	for _, o := range objs {
		index[o.ID] = o
	}

	var visits []ObjectID
	edges := 0
	Tracer{
		Resolve: func(id ObjectID) *Object { return index[id] },
		OnVisit: func(o *Object) { visits = append(visits, o.ID) },
		OnEdge:  func(_, _ *Object) { edges++ },
	}.Trace([]ObjectID{1})

	if diff := cmp.Diff([]ObjectID{1, 2, 3}, visits); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
	if edges != 4 {
		t.Errorf("expected 4 edge callbacks, got %d", edges)
	}
}

func TestIDSet(t *testing.T) {
	s := NewIDSet(3, 1)
	s.Add(2)
	c := s.Clone()
	c.Add(9)

	if s.Has(9) {
		t.Error("clone shares storage with original")
	}
	s.Union(NewIDSet(5))
	if diff := cmp.Diff([]ObjectID{1, 2, 3, 5}, s.Sorted()); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}
}
