package heap

import "golang.org/x/exp/slices"

// Store holds every object record and resolves ids to objects.
// Iteration follows allocation order.
type Store struct {
	objects map[ObjectID]*Object
	order   []ObjectID
	counter ObjectID
}

// NewStore creates an empty store whose first allocated id is 1.
func NewStore() *Store {
	return &Store{
		objects: make(map[ObjectID]*Object),
	}
}

// Allocate creates a new object in eden with age 0 and no references.
func (s *Store) Allocate(typ string, size uint64) *Object {
	s.counter++
	obj := &Object{
		ID:       s.counter,
		Type:     typ,
		Size:     size,
		Location: Eden,
	}
	s.objects[obj.ID] = obj
	s.order = append(s.order, obj.ID)
	return obj
}

// AddReference records an edge from -> to. Unknown from is a no-op.
// The target is not validated; dangling edges are skipped during tracing.
func (s *Store) AddReference(from, to ObjectID) {
	if obj := s.objects[from]; obj != nil {
		obj.AddReference(to)
	}
}

// RemoveReference drops the edge from -> to if it exists.
func (s *Store) RemoveReference(from, to ObjectID) {
	if obj := s.objects[from]; obj != nil {
		obj.RemoveReference(to)
	}
}

// Remove deletes id from the store. The caller evicts it from its partition first.
func (s *Store) Remove(id ObjectID) {
	if _, ok := s.objects[id]; !ok {
		return
	}
	delete(s.objects, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// Get returns the object for id, or nil.
func (s *Store) Get(id ObjectID) *Object {
	return s.objects[id]
}

// Contains reports whether id is live in the store.
func (s *Store) Contains(id ObjectID) bool {
	_, ok := s.objects[id]
	return ok
}

// All returns a snapshot slice of live objects in allocation order.
func (s *Store) All() []*Object {
	out := make([]*Object, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.objects[id])
	}
	return out
}

// Len returns the number of live objects.
func (s *Store) Len() int {
	return len(s.objects)
}

// LastID returns the most recently assigned id (0 if none).
func (s *Store) LastID() ObjectID {
	return s.counter
}

// Reset drops every object and restarts the id counter.
func (s *Store) Reset() {
	s.objects = make(map[ObjectID]*Object)
	s.order = nil
	s.counter = 0
}
