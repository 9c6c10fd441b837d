package heap

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// IDSet is a set of object ids.
type IDSet map[ObjectID]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...ObjectID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id.
func (s IDSet) Add(id ObjectID) { s[id] = struct{}{} }

// Has reports whether id is in the set.
func (s IDSet) Has(id ObjectID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids.
func (s IDSet) Len() int { return len(s) }

// Union adds every id of other to s.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = struct{}{}
	}
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	return maps.Clone(s)
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []ObjectID {
	ids := maps.Keys(s)
	slices.Sort(ids)
	return ids
}

// Resolver looks up an object by id, returning nil when it does not exist.
type Resolver func(ObjectID) *Object

// Tracer walks the reference graph depth-first.
//
// Each Trace call owns its visited set, so repeated traces start from scratch.
// Ids that do not resolve are skipped silently wherever they appear.
type Tracer struct {
	Resolve Resolver

	// OnVisit is called once per newly visited object.
	OnVisit func(obj *Object)

	// OnEdge is called for every resolved reference of a visited object,
	// whether or not the target has already been visited.
	OnEdge func(from, to *Object)
}

// Trace visits everything reachable from start and returns the visited set.
func (t Tracer) Trace(start []ObjectID) IDSet {
	visited := make(IDSet)
	var stack []*Object

	push := func(id ObjectID) {
		if obj := t.Resolve(id); obj != nil && !visited.Has(id) {
			stack = append(stack, obj)
		}
	}

	for i := len(start) - 1; i >= 0; i-- {
		push(start[i])
	}

	for len(stack) > 0 {
		obj := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.Has(obj.ID) {
			continue
		}
		visited.Add(obj.ID)
		if t.OnVisit != nil {
			t.OnVisit(obj)
		}

		targets := make([]*Object, 0, len(obj.References))
		for _, ref := range obj.References {
			target := t.Resolve(ref)
			if target == nil {
				continue
			}
			if t.OnEdge != nil {
				t.OnEdge(obj, target)
			}
			targets = append(targets, target)
		}

		// Push in reverse so children are visited in reference order.
		for i := len(targets) - 1; i >= 0; i-- {
			if !visited.Has(targets[i].ID) {
				stack = append(stack, targets[i])
			}
		}
	}
	return visited
}

// ComputeReachable returns the transitive closure of roots over the references
// of objects. Roots and references that name no object in objects are skipped.
func ComputeReachable(roots []ObjectID, objects []*Object) IDSet {
	index := make(map[ObjectID]*Object, len(objects))
	for _, obj := range objects {
		index[obj.ID] = obj
	}
	return Tracer{Resolve: func(id ObjectID) *Object { return index[id] }}.Trace(roots)
}
