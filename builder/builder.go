// Package builder constructs heaps from names instead of object ids, either
// through a fluent API or from a YAML scenario file.
package builder

import (
	"github.com/pkg/errors"

	"github.com/comalice/heapsim/internal/heap"
)

// Generation places a built object in the heap.
type Generation string

// Generations an object can be placed in.
const (
	Eden     Generation = "eden"
	Survivor Generation = "survivor"
	Old      Generation = "old"
)

// Validation errors.
var (
	ErrUnknownObject     = errors.New("reference to unknown object")
	ErrInvalidGeneration = errors.New("invalid generation")
	ErrInvalidAge        = errors.New("invalid age")
	ErrEmptyName         = errors.New("object name is empty")
)

// Names maps object names to the ids they were allocated with.
type Names map[string]heap.ObjectID

// ObjectSpec describes one object to allocate.
type ObjectSpec struct {
	Name       string     `json:"name" yaml:"name"`
	Type       string     `json:"type,omitempty" yaml:"type,omitempty"`
	Size       uint64     `json:"size,omitempty" yaml:"size,omitempty"`
	Thread     string     `json:"thread,omitempty" yaml:"thread,omitempty"`
	Generation Generation `json:"generation,omitempty" yaml:"generation,omitempty"`
	Age        int        `json:"age,omitempty" yaml:"age,omitempty"`
	Refs       []string   `json:"refs,omitempty" yaml:"refs,omitempty"`
}

// Defaults applied to objects that leave a field empty.
const (
	DefaultType = "Object"
	DefaultSize = 64
)

// HeapBuilder provides a fluent API for constructing a heap from named objects.
// Objects are allocated in the order they were first declared.
type HeapBuilder struct {
	threads []string
	specs   []*ObjectSpec
	byName  map[string]*ObjectSpec
}

// ObjectBuilder configures a single object.
type ObjectBuilder struct {
	b    *HeapBuilder
	spec *ObjectSpec
}

// NewHeapBuilder creates an empty builder.
func NewHeapBuilder() *HeapBuilder {
	return &HeapBuilder{byName: make(map[string]*ObjectSpec)}
}

// Thread declares a thread. Threads named by Root are declared implicitly.
func (b *HeapBuilder) Thread(id string) *HeapBuilder {
	b.threads = append(b.threads, id)
	return b
}

// Object creates or retrieves an object by name.
func (b *HeapBuilder) Object(name string) *ObjectBuilder {
	spec := b.byName[name]
	if spec == nil {
		spec = &ObjectSpec{Name: name}
		b.byName[name] = spec
		b.specs = append(b.specs, spec)
	}
	return &ObjectBuilder{b: b, spec: spec}
}

// Add declares an object from a full spec, replacing any previous declaration.
func (b *HeapBuilder) Add(spec ObjectSpec) *HeapBuilder {
	ob := b.Object(spec.Name)
	*ob.spec = spec
	ob.spec.Refs = append([]string(nil), spec.Refs...)
	return b
}

// Build validates the declarations and allocates them into a new model.
func (b *HeapBuilder) Build() (*heap.Model, Names, error) {
	m := heap.NewModel()
	names, err := b.BuildInto(m)
	if err != nil {
		return nil, nil, err
	}
	return m, names, nil
}

// BuildInto validates the declarations and allocates them into m.
// Nothing is allocated when validation fails.
func (b *HeapBuilder) BuildInto(m *heap.Model) (Names, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	for _, t := range b.threads {
		m.CreateThread(t)
	}

	names := make(Names, len(b.specs))
	objs := make([]*heap.Object, len(b.specs))
	parts := m.Partitions()
	survivors := false

	for i, spec := range b.specs {
		if spec.Thread != "" {
			m.CreateThread(spec.Thread)
		}

		typ, size := spec.Type, spec.Size
		if typ == "" {
			typ = DefaultType
		}
		if size == 0 {
			size = DefaultSize
		}

		obj := m.Allocate(typ, size, spec.Thread)
		switch spec.Generation {
		case Survivor:
			parts.MoveToSurvivor(obj)
			if spec.Age > 0 {
				obj.Age = spec.Age
			}
			survivors = true
		case Old:
			parts.Promote(obj)
		default:
			obj.Age = spec.Age
		}

		names[spec.Name] = obj.ID
		objs[i] = obj
	}

	// Survivors were appended to the to-space; make it the space holding them.
	if survivors {
		parts.SwitchSurvivor()
	}

	for i, spec := range b.specs {
		for _, ref := range spec.Refs {
			m.CreateReference(objs[i].ID, names[ref])
		}
	}

	return names, nil
}

// validate checks names, generations, ages and that every reference resolves.
func (b *HeapBuilder) validate() error {
	for _, spec := range b.specs {
		if spec.Name == "" {
			return ErrEmptyName
		}

		switch spec.Generation {
		case "", Eden, Survivor, Old:
		default:
			return errors.Wrapf(ErrInvalidGeneration, "object %s: %q", spec.Name, spec.Generation)
		}

		if spec.Age < 0 || spec.Age > heap.PromotionAge {
			return errors.Wrapf(ErrInvalidAge, "object %s: %d", spec.Name, spec.Age)
		}

		for _, ref := range spec.Refs {
			if _, ok := b.byName[ref]; !ok {
				return errors.Wrapf(ErrUnknownObject, "object %s refers to %q", spec.Name, ref)
			}
		}
	}

	return nil
}

// Type sets the object type.
func (ob *ObjectBuilder) Type(typ string) *ObjectBuilder {
	ob.spec.Type = typ
	return ob
}

// Size sets the object size in bytes.
func (ob *ObjectBuilder) Size(size uint64) *ObjectBuilder {
	ob.spec.Size = size
	return ob
}

// Root makes a local variable of thread refer to the object.
func (ob *ObjectBuilder) Root(thread string) *ObjectBuilder {
	ob.spec.Thread = thread
	return ob
}

// Survivor places the object in the survivor space holding survivors, with the given age.
func (ob *ObjectBuilder) Survivor(age int) *ObjectBuilder {
	ob.spec.Generation = Survivor
	ob.spec.Age = age
	return ob
}

// Old places the object in the old generation.
func (ob *ObjectBuilder) Old() *ObjectBuilder {
	ob.spec.Generation = Old
	return ob
}

// RefersTo adds references to the named objects, which may be declared later.
func (ob *ObjectBuilder) RefersTo(names ...string) *ObjectBuilder {
	ob.spec.Refs = append(ob.spec.Refs, names...)
	return ob
}

// Object continues with another object.
func (ob *ObjectBuilder) Object(name string) *ObjectBuilder {
	return ob.b.Object(name)
}

// Build finishes the heap.
func (ob *ObjectBuilder) Build() (*heap.Model, Names, error) {
	return ob.b.Build()
}
