package heap

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// ObjectID uniquely identifies an object within one Model.
type ObjectID uint64

// String renders the id the way display collaborators show it.
func (id ObjectID) String() string {
	return fmt.Sprintf("obj_%d", uint64(id))
}

// Location names the heap partition an object currently lives in.
// The literal values are user-visible labels and must not change.
type Location string

const (
	Eden      Location = "eden"
	Survivor0 Location = "survivor0"
	Survivor1 Location = "survivor1"
	Old       Location = "old"
)

// Locations lists partitions in heap order.
func Locations() []Location {
	return []Location{Eden, Survivor0, Survivor1, Old}
}

// IsYoung reports whether the location belongs to the young generation.
func (l Location) IsYoung() bool {
	return l == Eden || l == Survivor0 || l == Survivor1
}

// PromotionAge is the age at which a surviving object moves to the old generation.
const PromotionAge = 15

// Object is a single managed object.
type Object struct {
	ID         ObjectID   // Unique identifier
	Type       string     // Type tag (e.g. "Object", "String")
	Size       uint64     // Size in bytes
	Age        int        // Collections survived
	Location   Location   // Current partition
	References []ObjectID // Outgoing references, ordered, duplicate-free
}

// AddReference appends target unless it is already referenced.
func (o *Object) AddReference(target ObjectID) {
	if slices.Contains(o.References, target) {
		return
	}
	o.References = append(o.References, target)
}

// RemoveReference drops target from the reference list if present.
func (o *Object) RemoveReference(target ObjectID) {
	if i := slices.Index(o.References, target); i >= 0 {
		o.References = slices.Delete(o.References, i, i+1)
	}
}

// HasReference reports whether o references target.
func (o *Object) HasReference(target ObjectID) bool {
	return slices.Contains(o.References, target)
}
