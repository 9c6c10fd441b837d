package heap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreAllocate(t *testing.T) {
	s := NewStore()

	a := s.Allocate("Object", 64)
	b := s.Allocate("String", 32)

	require.Equal(t, ObjectID(1), a.ID)
	require.Equal(t, ObjectID(2), b.ID)
	require.Equal(t, Eden, a.Location)
	require.Zero(t, a.Age)
	require.Empty(t, a.References)
	require.Equal(t, "obj_2", b.ID.String())
	require.Equal(t, 2, s.Len())
}

func TestStoreAddReferenceIdempotent(t *testing.T) {
	s := NewStore()
	a := s.Allocate("Object", 64)
	b := s.Allocate("Object", 64)

	s.AddReference(a.ID, b.ID)
	s.AddReference(a.ID, b.ID)

	require.Equal(t, []ObjectID{b.ID}, s.Get(a.ID).References)
}

func TestStoreAddReferenceUnknownSource(t *testing.T) {
	s := NewStore()
	a := s.Allocate("Object", 64)

	s.AddReference(999, a.ID)

	require.Nil(t, s.Get(999))
	require.Equal(t, 1, s.Len())
}

func TestStoreRemoveReference(t *testing.T) {
	s := NewStore()
	a := s.Allocate("Object", 64)
	b := s.Allocate("Object", 64)
	c := s.Allocate("Object", 64)

	s.AddReference(a.ID, b.ID)
	s.AddReference(a.ID, c.ID)
	s.RemoveReference(a.ID, b.ID)
	s.RemoveReference(a.ID, 42)

	require.Equal(t, []ObjectID{c.ID}, a.References)
}

func TestStoreRemoveKeepsOrder(t *testing.T) {
	s := NewStore()
	a := s.Allocate("Object", 1)
	b := s.Allocate("Object", 1)
	c := s.Allocate("Object", 1)

	s.Remove(b.ID)
	s.Remove(b.ID) // second remove is a no-op

	var ids []ObjectID
	for _, obj := range s.All() {
		ids = append(ids, obj.ID)
	}
	require.Equal(t, []ObjectID{a.ID, c.ID}, ids)
	require.False(t, s.Contains(b.ID))
}

func TestStoreIDsNeverReused(t *testing.T) {
	s := NewStore()
	a := s.Allocate("Object", 1)
	s.Remove(a.ID)

	b := s.Allocate("Object", 1)
	require.Equal(t, ObjectID(2), b.ID)

	s.Reset()
	c := s.Allocate("Object", 1)
	require.Equal(t, ObjectID(1), c.ID, "counter restarts after reset")
}
