// Package sparseset implements the dense-array-plus-sparse-index set that
// backs every cached entity group. Insert, erase and membership checks are
// O(1); the dense array gives stable random access for forward, reverse and
// split iteration. Erase swap-removes, so iteration order is not insertion
// order once elements have been removed.
package sparseset

import "github.com/tabular-ecs/tabular/types"

// Set is an ordered set of entity ids keyed by slot index. A slot appears
// at most once; the stored id carries the generation it was inserted under.
type Set struct {
	dense []types.EntityID
	// sparse maps a slot index to its dense position plus one; zero means
	// the slot is absent.
	sparse []uint32
}

// New returns an empty set.
func New() *Set {
	return &Set{}
}

// Insert adds id to the set. It reports whether the set changed; inserting
// a present id is a no-op. If the slot is already present under a
// different generation, the stored id is re-keyed in place.
func (s *Set) Insert(id types.EntityID) bool {
	slot := id.Slot()
	if int(slot) >= len(s.sparse) {
		grown := make([]uint32, slot+1)
		copy(grown, s.sparse)
		s.sparse = grown
	}
	if pos := s.sparse[slot]; pos != 0 {
		if s.dense[pos-1] == id {
			return false
		}
		s.dense[pos-1] = id
		return true
	}
	s.dense = append(s.dense, id)
	s.sparse[slot] = uint32(len(s.dense))
	return true
}

// Erase removes id from the set by swapping the last dense element into its
// position. It reports whether the set changed; erasing an absent id is a
// no-op.
func (s *Set) Erase(id types.EntityID) bool {
	if !s.Contains(id) {
		return false
	}
	slot := id.Slot()
	pos := s.sparse[slot] - 1
	last := uint32(len(s.dense) - 1)
	if pos != last {
		moved := s.dense[last]
		s.dense[pos] = moved
		s.sparse[moved.Slot()] = pos + 1
	}
	s.dense = s.dense[:last]
	s.sparse[slot] = 0
	return true
}

// Contains reports whether id is in the set. The full id must match: a
// stale id whose slot was reinserted under a newer generation is absent.
func (s *Set) Contains(id types.EntityID) bool {
	slot := id.Slot()
	if int(slot) >= len(s.sparse) {
		return false
	}
	pos := s.sparse[slot]
	return pos != 0 && s.dense[pos-1] == id
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	return len(s.dense)
}

// Empty reports whether the set has no ids.
func (s *Set) Empty() bool {
	return len(s.dense) == 0
}

// At returns the id at dense position i, 0 <= i < Len().
func (s *Set) At(i int) types.EntityID {
	return s.dense[i]
}

// Dense returns the backing dense array. Callers must treat it as
// read-only; it is invalidated by the next Insert or Erase.
func (s *Set) Dense() []types.EntityID {
	return s.dense
}
