package heap

import "golang.org/x/exp/slices"

// DefaultThread is the thread every fresh model starts with.
const DefaultThread = "main"

// Frame is one stack frame's set of local variable references.
type Frame struct {
	LocalVars []ObjectID
}

// Thread holds the stack frames of one mutator thread and the
// duplicate-free union of their references.
type Thread struct {
	ID         string
	Frames     []Frame
	References []ObjectID
}

// RootSet maintains per-thread references that act as GC roots.
type RootSet struct {
	threads []*Thread
}

// NewRootSet creates an empty root set with no threads.
func NewRootSet() *RootSet {
	return &RootSet{}
}

// CreateThread registers a thread. Creating an existing thread returns it unchanged.
func (r *RootSet) CreateThread(id string) *Thread {
	if t := r.Thread(id); t != nil {
		return t
	}
	t := &Thread{ID: id}
	r.threads = append(r.threads, t)
	return t
}

// Thread returns the thread with the given id, or nil.
func (r *RootSet) Thread(id string) *Thread {
	for _, t := range r.threads {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// AddFrame pushes a frame on threadID and merges its locals into the thread's references.
// It reports false if the thread does not exist.
func (r *RootSet) AddFrame(threadID string, localVars ...ObjectID) bool {
	t := r.Thread(threadID)
	if t == nil {
		return false
	}
	t.Frames = append(t.Frames, Frame{LocalVars: slices.Clone(localVars)})
	for _, id := range localVars {
		t.addReference(id)
	}
	return true
}

// AddReference makes id a root held by threadID. Unknown threads are ignored.
func (r *RootSet) AddReference(threadID string, id ObjectID) bool {
	t := r.Thread(threadID)
	if t == nil {
		return false
	}
	t.addReference(id)
	return true
}

// AllReferences flattens every thread's references in thread order.
// An id held by two threads appears twice.
func (r *RootSet) AllReferences() []ObjectID {
	var out []ObjectID
	for _, t := range r.threads {
		out = append(out, t.References...)
	}
	return out
}

// Threads returns the registered threads in creation order.
func (r *RootSet) Threads() []*Thread {
	return slices.Clone(r.threads)
}

// Reset removes every thread.
func (r *RootSet) Reset() {
	r.threads = nil
}

func (t *Thread) addReference(id ObjectID) {
	if !slices.Contains(t.References, id) {
		t.References = append(t.References, id)
	}
}
