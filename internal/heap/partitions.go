package heap

import "golang.org/x/exp/slices"

// Partitions holds the four generational spaces.
//
// from selects the survivor space that currently holds survivors. MoveToSurvivor
// appends to the other space; SwitchSurvivor flips the selection once a copy
// phase has emptied the from-space. A fresh heap treats survivor1 as the (empty)
// from-space so the first copy lands in survivor0.
type Partitions struct {
	eden     []*Object
	survivor [2][]*Object
	old      []*Object
	from     int
}

// NewPartitions creates empty partitions.
func NewPartitions() *Partitions {
	return &Partitions{from: 1}
}

// AllocateYoung appends obj to eden.
func (p *Partitions) AllocateYoung(obj *Object) {
	obj.Location = Eden
	p.eden = append(p.eden, obj)
}

// Promote moves obj into the old generation with its age pinned at PromotionAge.
func (p *Partitions) Promote(obj *Object) {
	p.Evict(obj)
	obj.Location = Old
	obj.Age = PromotionAge
	p.old = append(p.old, obj)
}

// MoveToSurvivor ages obj by one and appends it to the to-space.
func (p *Partitions) MoveToSurvivor(obj *Object) {
	p.Evict(obj)
	obj.Age++
	to := 1 - p.from
	obj.Location = survivorLocation(to)
	p.survivor[to] = append(p.survivor[to], obj)
}

// SwitchSurvivor flips the from/to selection. Nothing is moved.
func (p *Partitions) SwitchSurvivor() {
	p.from = 1 - p.from
}

// Evict removes obj from the partition named by obj.Location.
// Eviction trusts Location; if it has drifted from actual membership this is a no-op.
func (p *Partitions) Evict(obj *Object) {
	space := p.space(obj.Location)
	if space == nil {
		return
	}
	if i := indexOf(*space, obj.ID); i >= 0 {
		*space = slices.Delete(*space, i, i+1)
	}
}

// AllObjects returns eden, survivor0, survivor1 and old concatenated.
func (p *Partitions) AllObjects() []*Object {
	out := make([]*Object, 0, p.Len())
	out = append(out, p.eden...)
	out = append(out, p.survivor[0]...)
	out = append(out, p.survivor[1]...)
	out = append(out, p.old...)
	return out
}

// Len returns the total number of objects across partitions.
func (p *Partitions) Len() int {
	return len(p.eden) + len(p.survivor[0]) + len(p.survivor[1]) + len(p.old)
}

// Objects returns a copy of the partition named by loc.
func (p *Partitions) Objects(loc Location) []*Object {
	space := p.space(loc)
	if space == nil {
		return nil
	}
	return slices.Clone(*space)
}

// Eden returns a copy of eden.
func (p *Partitions) Eden() []*Object { return slices.Clone(p.eden) }

// Old returns a copy of the old generation.
func (p *Partitions) Old() []*Object { return slices.Clone(p.old) }

// From returns the location of the survivor space currently holding survivors.
func (p *Partitions) From() Location { return survivorLocation(p.from) }

// To returns the location MoveToSurvivor appends to.
func (p *Partitions) To() Location { return survivorLocation(1 - p.from) }

// Locate finds the partition that actually contains id, ignoring Location bookkeeping.
func (p *Partitions) Locate(id ObjectID) (Location, bool) {
	for _, loc := range Locations() {
		if indexOf(*p.space(loc), id) >= 0 {
			return loc, true
		}
	}
	return "", false
}

// Clear empties the partition named by loc.
func (p *Partitions) Clear(loc Location) {
	if space := p.space(loc); space != nil {
		*space = nil
	}
}

// SetOld replaces the old generation, keeping the given order.
func (p *Partitions) SetOld(objs []*Object) {
	p.old = slices.Clone(objs)
}

// YoungEmpty reports whether eden and both survivor spaces are empty.
func (p *Partitions) YoungEmpty() bool {
	return len(p.eden) == 0 && len(p.survivor[0]) == 0 && len(p.survivor[1]) == 0
}

// Reset empties every partition and restores the initial survivor selection.
func (p *Partitions) Reset() {
	*p = Partitions{from: 1}
}

func (p *Partitions) space(loc Location) *[]*Object {
	switch loc {
	case Eden:
		return &p.eden
	case Survivor0:
		return &p.survivor[0]
	case Survivor1:
		return &p.survivor[1]
	case Old:
		return &p.old
	}
	return nil
}

func survivorLocation(i int) Location {
	if i == 0 {
		return Survivor0
	}
	return Survivor1
}

func indexOf(objs []*Object, id ObjectID) int {
	return slices.IndexFunc(objs, func(o *Object) bool { return o.ID == id })
}
