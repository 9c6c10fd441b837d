package heap

import "golang.org/x/exp/slices"

// ObjectSnapshot is the display form of one object.
type ObjectSnapshot struct {
	ID         ObjectID   `json:"id" yaml:"id"`
	Type       string     `json:"type" yaml:"type"`
	Size       uint64     `json:"size" yaml:"size"`
	Age        int        `json:"age" yaml:"age"`
	Location   Location   `json:"location" yaml:"location"`
	References []ObjectID `json:"references,omitempty" yaml:"references,omitempty"`
	Root       bool       `json:"root,omitempty" yaml:"root,omitempty"`
	Reachable  bool       `json:"reachable" yaml:"reachable"`
}

// ThreadSnapshot is the display form of one thread.
type ThreadSnapshot struct {
	ID         string     `json:"id" yaml:"id"`
	Frames     int        `json:"frames" yaml:"frames"`
	References []ObjectID `json:"references,omitempty" yaml:"references,omitempty"`
}

// Snapshot is a read-only, serializable copy of the model for display collaborators.
type Snapshot struct {
	Objects    []ObjectSnapshot        `json:"objects" yaml:"objects"`
	Partitions map[Location][]ObjectID `json:"partitions" yaml:"partitions"`
	FromSpace  Location                `json:"fromSpace" yaml:"fromSpace"`
	Threads    []ThreadSnapshot        `json:"threads" yaml:"threads"`
	GCRoots    []ObjectID              `json:"gcRoots" yaml:"gcRoots"`
	Reachable  []ObjectID              `json:"reachable" yaml:"reachable"`
	Stats      Stats                   `json:"stats" yaml:"stats"`
}

// Snapshot captures the model. Mutating the snapshot does not affect the model.
func (m *Model) Snapshot() Snapshot {
	roots := m.GCRoots()
	rootSet := NewIDSet(roots...)
	reachable := m.ReachableObjects()

	snap := Snapshot{
		Partitions: make(map[Location][]ObjectID, 4),
		FromSpace:  m.partitions.From(),
		GCRoots:    roots,
		Reachable:  reachable.Sorted(),
		Stats:      m.Stats(),
	}
	for _, obj := range m.AllObjects() {
		snap.Objects = append(snap.Objects, ObjectSnapshot{
			ID:         obj.ID,
			Type:       obj.Type,
			Size:       obj.Size,
			Age:        obj.Age,
			Location:   obj.Location,
			References: slices.Clone(obj.References),
			Root:       rootSet.Has(obj.ID),
			Reachable:  reachable.Has(obj.ID),
		})
	}
	for _, loc := range Locations() {
		ids := []ObjectID{}
		for _, obj := range m.partitions.Objects(loc) {
			ids = append(ids, obj.ID)
		}
		snap.Partitions[loc] = ids
	}
	for _, t := range m.roots.Threads() {
		snap.Threads = append(snap.Threads, ThreadSnapshot{
			ID:         t.ID,
			Frames:     len(t.Frames),
			References: slices.Clone(t.References),
		})
	}
	return snap
}
