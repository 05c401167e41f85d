// Package iterators provides small cursor types over entity id sequences.
package iterators

import (
	"math"

	"github.com/tabular-ecs/tabular/types"
)

// BadID is returned by lookups that found no entity.
const BadID = types.EntityID(math.MaxUint64)

// EntityIterator walks a dense entity id sequence front to back.
type EntityIterator struct {
	current int
	ids     []types.EntityID
}

// NewEntityIterator returns an iterator over ids. The slice is not copied;
// mutating the underlying set during iteration is not supported.
func NewEntityIterator(ids []types.EntityID) EntityIterator {
	return EntityIterator{ids: ids}
}

// HasNext reports whether ids remain.
func (it *EntityIterator) HasNext() bool {
	return it.current < len(it.ids)
}

// Next returns the next id.
func (it *EntityIterator) Next() types.EntityID {
	id := it.ids[it.current]
	it.current++
	return id
}

// ReverseEntityIterator walks a dense entity id sequence back to front.
type ReverseEntityIterator struct {
	current int
	ids     []types.EntityID
}

// NewReverseEntityIterator returns a reverse iterator over ids.
func NewReverseEntityIterator(ids []types.EntityID) ReverseEntityIterator {
	return ReverseEntityIterator{current: len(ids) - 1, ids: ids}
}

// HasNext reports whether ids remain.
func (it *ReverseEntityIterator) HasNext() bool {
	return it.current >= 0
}

// Next returns the next id.
func (it *ReverseEntityIterator) Next() types.EntityID {
	id := it.ids[it.current]
	it.current--
	return id
}
