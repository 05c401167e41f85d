// Package column provides type-erased per-component storage: a presence
// bitmap marking which slots currently hold a constructed value, backed by
// chunk-allocated typed slabs. A chunk exists only once some slot inside it
// has held a value, which bounds wasted memory for sparsely assigned
// component types.
package column

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/rotisserie/eris"

	"github.com/tabular-ecs/tabular/types"
)

// ErrStoreTypeMismatch is returned when a column's backing store is
// accessed under a component type other than the one it was created with.
var ErrStoreTypeMismatch = eris.New("column store type mismatch")

// Column is the storage for one component type: a presence bitmap plus a
// chunked slab, addressed by entity slot index. Invariant: bit i of the
// presence bitmap is set iff a live value currently occupies slot i.
type Column struct {
	id      types.ComponentID
	name    string
	present *bitset.BitSet
	store   Store
}

// New creates a column for component type T under the given id.
func New[T any](id types.ComponentID, name string, chunkSize uint32) *Column {
	return &Column{
		id:      id,
		name:    name,
		present: bitset.New(0),
		store:   NewSlab[T](chunkSize),
	}
}

// ID returns the column id.
func (c *Column) ID() types.ComponentID {
	return c.id
}

// Name returns the component type name the column was registered under.
func (c *Column) Name() string {
	return c.name
}

// Has reports whether slot currently holds a value.
func (c *Column) Has(slot uint32) bool {
	return c.present.Test(uint(slot))
}

// Set marks slot as holding a value, growing the bitmap as needed.
func (c *Column) Set(slot uint32) {
	c.present.Set(uint(slot))
}

// Unset marks slot as empty.
func (c *Column) Unset(slot uint32) {
	c.present.Clear(uint(slot))
}

// Count returns the number of slots currently holding a value.
func (c *Column) Count() int {
	return int(c.present.Count())
}

// Accommodate ensures backing storage exists for slot.
func (c *Column) Accommodate(slot uint32) {
	c.store.Accommodate(slot)
}

// Reserve eagerly allocates storage for slots [0, n).
func (c *Column) Reserve(n uint32) {
	c.store.Reserve(n)
}

// ClearSlot zeroes the value at slot. Must be called before the slot's
// storage is reused for another value.
func (c *Column) ClearSlot(slot uint32) {
	c.store.Clear(slot)
}

// CopyWithin copies the value at src into dst within the column.
func (c *Column) CopyWithin(dst, src uint32) {
	c.store.CopyWithin(dst, src)
}

// Capacity returns the number of slots covered by allocated storage.
func (c *Column) Capacity() int {
	return int(c.store.Capacity())
}

// ShrinkToFit releases chunks that hold no live values.
func (c *Column) ShrinkToFit() {
	c.store.Shrink(c.present)
}

// ValueAt returns the value at slot for introspection.
func (c *Column) ValueAt(slot uint32) (any, bool) {
	if !c.Has(slot) {
		return nil, false
	}
	return c.store.ValueAt(slot)
}

// Access recovers the typed slab behind a column. The type parameter must
// match the type the column was created with.
func Access[T any](c *Column) (*Slab[T], error) {
	slab, ok := c.store.(*Slab[T])
	if !ok {
		return nil, eris.Wrapf(ErrStoreTypeMismatch, "column %q", c.name)
	}
	return slab, nil
}
