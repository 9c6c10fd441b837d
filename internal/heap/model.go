package heap

// Model is the memory model façade. It exclusively owns the object store,
// the heap partitions and the root set.
//
// Collectors hold a non-owning *Model. Reset does not cascade to them; callers
// reset any collector bound to the model themselves.
type Model struct {
	store      *Store
	partitions *Partitions
	roots      *RootSet
}

// NewModel creates an empty model with the default "main" thread.
func NewModel() *Model {
	m := &Model{
		store:      NewStore(),
		partitions: NewPartitions(),
		roots:      NewRootSet(),
	}
	m.roots.CreateThread(DefaultThread)
	return m
}

// Allocate creates an object in eden. A non-empty threadID registers the new
// object as a root held by that thread; unknown threads register nothing.
func (m *Model) Allocate(typ string, size uint64, threadID string) *Object {
	obj := m.store.Allocate(typ, size)
	m.partitions.AllocateYoung(obj)
	if threadID != "" {
		m.roots.AddReference(threadID, obj.ID)
	}
	return obj
}

// CreateReference adds the edge from -> to on a best-effort basis.
func (m *Model) CreateReference(from, to ObjectID) {
	m.store.AddReference(from, to)
}

// RemoveReference drops the edge from -> to if present.
func (m *Model) RemoveReference(from, to ObjectID) {
	m.store.RemoveReference(from, to)
}

// CreateThread registers an additional mutator thread.
func (m *Model) CreateThread(id string) *Thread {
	return m.roots.CreateThread(id)
}

// AddFrame pushes a stack frame holding localVars onto threadID.
func (m *Model) AddFrame(threadID string, localVars ...ObjectID) bool {
	return m.roots.AddFrame(threadID, localVars...)
}

// Get resolves id, returning nil for unknown or collected objects.
func (m *Model) Get(id ObjectID) *Object {
	return m.store.Get(id)
}

// AllObjects returns every live object in allocation order.
func (m *Model) AllObjects() []*Object {
	return m.store.All()
}

// GCRoots returns the current root snapshot, recomputed on every call.
func (m *Model) GCRoots() []ObjectID {
	return m.roots.AllReferences()
}

// ReachableObjects recomputes the set of objects reachable from the current roots.
func (m *Model) ReachableObjects() IDSet {
	return ComputeReachable(m.GCRoots(), m.AllObjects())
}

// Free evicts obj from its partition and removes it from the store.
func (m *Model) Free(obj *Object) {
	m.partitions.Evict(obj)
	m.store.Remove(obj.ID)
}

// Store returns the object graph store.
func (m *Model) Store() *Store { return m.store }

// Partitions returns the heap partitions.
func (m *Model) Partitions() *Partitions { return m.partitions }

// Roots returns the root set.
func (m *Model) Roots() *RootSet { return m.roots }

// Reset clears all state and recreates the default thread.
func (m *Model) Reset() {
	m.store.Reset()
	m.partitions.Reset()
	m.roots.Reset()
	m.roots.CreateThread(DefaultThread)
}
