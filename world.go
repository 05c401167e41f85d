package tabular

import (
	"math"
	"reflect"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/tabular-ecs/tabular/column"
	"github.com/tabular-ecs/tabular/types"
)

// maxSlots caps the number of entity slots a World may allocate.
const maxSlots uint64 = math.MaxUint32

// World owns entity slot allocation, the per-type columns and the group
// cache, and keeps them consistent on every lifecycle and component
// operation. A World is single-writer: see the package documentation for
// the concurrency contract.
type World struct {
	// generations[slot] counts how many times the slot has been recycled.
	generations []uint32
	// freeList holds recyclable slots, most recently freed on top.
	freeList []uint32
	// alive tracks the slot indices of live entities.
	alive *roaring.Bitmap

	typeIDs map[reflect.Type]types.ComponentID
	columns []*column.Column
	groups  map[string]*group

	chunkSize uint32
	logger    zerolog.Logger
}

// NewWorld creates an empty World.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		alive:     roaring.New(),
		typeIDs:   make(map[reflect.Type]types.ComponentID),
		groups:    make(map[string]*group),
		chunkSize: defaultChunkSize,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Valid reports whether id identifies a live entity of this World. It
// never fails.
func (w *World) Valid(id types.EntityID) bool {
	slot := id.Slot()
	return int(slot) < len(w.generations) &&
		w.generations[slot] == id.Generation() &&
		w.alive.Contains(slot)
}

// Create allocates a new entity, recycling the most recently freed slot if
// one exists, and default-initializes the given components on it.
func (w *World) Create(comps ...types.ComponentID) (types.EntityID, error) {
	if err := w.checkComponentSet(comps); err != nil {
		return types.Nil, err
	}
	id := w.allocate()
	for _, cid := range comps {
		w.addDefault(id, cid)
	}
	return id, nil
}

// CreateMany creates n entities, each default-initialized with the given
// components.
func (w *World) CreateMany(n int, comps ...types.ComponentID) ([]types.EntityID, error) {
	if err := w.checkComponentSet(comps); err != nil {
		return nil, err
	}
	ids := make([]types.EntityID, n)
	for i := range ids {
		id := w.allocate()
		for _, cid := range comps {
			w.addDefault(id, cid)
		}
		ids[i] = id
	}
	return ids, nil
}

// Clone creates a new entity carrying copies of src's values for the given
// components. Mutating the clone's values afterwards does not affect src.
func (w *World) Clone(src types.EntityID, comps ...types.ComponentID) (types.EntityID, error) {
	if !w.Valid(src) {
		return types.Nil, eris.Wrap(ErrEntityDoesNotExist, "clone")
	}
	if len(comps) == 0 {
		return types.Nil, eris.Wrap(ErrNoComponents, "clone")
	}
	if err := w.checkComponentSet(comps); err != nil {
		return types.Nil, err
	}
	srcSlot := src.Slot()
	for _, cid := range comps {
		if !w.columns[cid].Has(srcSlot) {
			return types.Nil, eris.Wrapf(ErrComponentNotOnEntity, "clone source lacks %q", w.columns[cid].Name())
		}
	}
	id := w.allocate()
	slot := id.Slot()
	for _, cid := range comps {
		col := w.columns[cid]
		col.Accommodate(slot)
		col.CopyWithin(slot, srcSlot)
		col.Set(slot)
		w.groupsOnAdd(id, cid)
	}
	return id, nil
}

// CloneMany creates n clones of src. See Clone.
func (w *World) CloneMany(src types.EntityID, n int, comps ...types.ComponentID) ([]types.EntityID, error) {
	ids := make([]types.EntityID, n)
	for i := range ids {
		id, err := w.Clone(src, comps...)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// Destroy invalidates id, destroys all of its component values, removes it
// from every group and returns its slot to the free list.
func (w *World) Destroy(id types.EntityID) error {
	if !w.Valid(id) {
		return eris.Wrap(ErrEntityDoesNotExist, "destroy")
	}
	w.stripComponents(id)
	slot := id.Slot()
	if w.generations[slot] == math.MaxUint32 {
		panic("tabular: generation counter exhausted for slot")
	}
	w.generations[slot]++
	w.alive.Remove(slot)
	w.freeList = append(w.freeList, slot)
	return nil
}

// DestroyMany destroys every entity in ids. It stops at the first invalid
// id.
func (w *World) DestroyMany(ids []types.EntityID) error {
	for _, id := range ids {
		if err := w.Destroy(id); err != nil {
			return err
		}
	}
	return nil
}

// Orphan removes all components from id and erases it from every group.
// The entity itself stays alive.
func (w *World) Orphan(id types.EntityID) error {
	if !w.Valid(id) {
		return eris.Wrap(ErrEntityDoesNotExist, "orphan")
	}
	w.stripComponents(id)
	return nil
}

// OrphanMany orphans every entity in ids.
func (w *World) OrphanMany(ids []types.EntityID) error {
	for _, id := range ids {
		if err := w.Orphan(id); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether id holds every one of the given components. It is
// false for invalid entities and for unmanaged component ids. Listing a
// component twice is a contract violation.
func (w *World) Has(id types.EntityID, comps ...types.ComponentID) (bool, error) {
	if len(comps) == 0 {
		return false, eris.Wrap(ErrNoComponents, "has")
	}
	if err := checkDuplicates(comps); err != nil {
		return false, err
	}
	if !w.Valid(id) {
		return false, nil
	}
	slot := id.Slot()
	for _, cid := range comps {
		if int(cid) < 0 || int(cid) >= len(w.columns) {
			return false, nil
		}
		if !w.columns[cid].Has(slot) {
			return false, nil
		}
	}
	return true, nil
}

// Remove destroys the given component values on id and updates every group
// whose filter includes one of them. The entity must hold all of the
// components.
func (w *World) Remove(id types.EntityID, comps ...types.ComponentID) error {
	if !w.Valid(id) {
		return eris.Wrap(ErrEntityDoesNotExist, "remove")
	}
	if len(comps) == 0 {
		return eris.Wrap(ErrNoComponents, "remove")
	}
	if err := w.checkComponentSet(comps); err != nil {
		return err
	}
	slot := id.Slot()
	for _, cid := range comps {
		if !w.columns[cid].Has(slot) {
			return eris.Wrapf(ErrComponentNotOnEntity, "remove %q", w.columns[cid].Name())
		}
	}
	for _, cid := range comps {
		w.removeComponent(id, cid)
	}
	return nil
}

// RemoveMany removes the given components from every entity in ids.
func (w *World) RemoveMany(ids []types.EntityID, comps ...types.ComponentID) error {
	for _, id := range ids {
		if err := w.Remove(id, comps...); err != nil {
			return err
		}
	}
	return nil
}

// AssignMany default-initializes the given components on every entity in
// ids.
func (w *World) AssignMany(ids []types.EntityID, comps ...types.ComponentID) error {
	if len(comps) == 0 {
		return eris.Wrap(ErrNoComponents, "assign many")
	}
	if err := w.checkComponentSet(comps); err != nil {
		return err
	}
	for _, id := range ids {
		if !w.Valid(id) {
			return eris.Wrap(ErrEntityDoesNotExist, "assign many")
		}
		slot := id.Slot()
		for _, cid := range comps {
			if w.columns[cid].Has(slot) {
				return eris.Wrapf(ErrComponentAlreadyOnEntity, "assign many %q", w.columns[cid].Name())
			}
		}
		for _, cid := range comps {
			w.addDefault(id, cid)
		}
	}
	return nil
}

// Count returns the number of live entities holding every one of the given
// components, by scanning the live-slot set. It always agrees with the
// size of the corresponding view.
func (w *World) Count(comps ...types.ComponentID) (int, error) {
	if len(comps) == 0 {
		return 0, eris.Wrap(ErrNoComponents, "count")
	}
	if err := checkDuplicates(comps); err != nil {
		return 0, err
	}
	for _, cid := range comps {
		if int(cid) < 0 || int(cid) >= len(w.columns) {
			return 0, nil
		}
	}
	count := 0
	it := w.alive.Iterator()
	for it.HasNext() {
		slot := it.Next()
		match := true
		for _, cid := range comps {
			if !w.columns[cid].Has(slot) {
				match = false
				break
			}
		}
		if match {
			count++
		}
	}
	return count, nil
}

// Reserve eagerly allocates column storage for n entities for each of the
// given components.
func (w *World) Reserve(n int, comps ...types.ComponentID) error {
	if err := w.checkComponentSet(comps); err != nil {
		return err
	}
	for _, cid := range comps {
		w.columns[cid].Reserve(uint32(n))
	}
	return nil
}

// ShrinkToFit releases column chunks holding no live values for each of
// the given components.
func (w *World) ShrinkToFit(comps ...types.ComponentID) error {
	if err := w.checkComponentSet(comps); err != nil {
		return err
	}
	for _, cid := range comps {
		w.columns[cid].ShrinkToFit()
	}
	return nil
}

// NumEntities returns the number of entity slots ever allocated.
func (w *World) NumEntities() int {
	return len(w.generations)
}

// NumAlive returns the number of live entities.
func (w *World) NumAlive() int {
	return int(w.alive.GetCardinality())
}

// NumReusable returns the number of slots waiting on the free list.
func (w *World) NumReusable() int {
	return len(w.freeList)
}

// NumComponentTypes returns the number of component types the World
// manages.
func (w *World) NumComponentTypes() int {
	return len(w.columns)
}

// Managed reports whether id names a column managed by the World.
func (w *World) Managed(id types.ComponentID) bool {
	return int(id) >= 0 && int(id) < len(w.columns)
}

// allocate hands out a fresh or recycled entity slot. The free list is a
// stack, so the most recently freed slot is reused first.
func (w *World) allocate() types.EntityID {
	if n := len(w.freeList); n > 0 {
		slot := w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
		w.alive.Add(slot)
		return types.NewEntityID(slot, w.generations[slot])
	}
	if uint64(len(w.generations)) >= maxSlots {
		panic("tabular: entity slot capacity exhausted")
	}
	slot := uint32(len(w.generations))
	w.generations = append(w.generations, 0)
	w.alive.Add(slot)
	return types.NewEntityID(slot, 0)
}

// addDefault marks cid present on id with its zero value. The caller must
// have verified the component is not already on the entity.
func (w *World) addDefault(id types.EntityID, cid types.ComponentID) {
	col := w.columns[cid]
	slot := id.Slot()
	col.Accommodate(slot)
	col.ClearSlot(slot)
	col.Set(slot)
	w.groupsOnAdd(id, cid)
}

// removeComponent destroys the value for cid on id and updates the groups
// touched by the column.
func (w *World) removeComponent(id types.EntityID, cid types.ComponentID) {
	col := w.columns[cid]
	slot := id.Slot()
	col.ClearSlot(slot)
	col.Unset(slot)
	w.groupsOnRemove(id, cid)
}

// stripComponents clears every column bit for id's slot and erases id from
// every group.
func (w *World) stripComponents(id types.EntityID) {
	slot := id.Slot()
	for _, col := range w.columns {
		if col.Has(slot) {
			col.ClearSlot(slot)
			col.Unset(slot)
		}
	}
	for _, g := range w.groups {
		g.set.Erase(id)
	}
}

// checkComponentSet rejects duplicate and unmanaged component ids.
func (w *World) checkComponentSet(comps []types.ComponentID) error {
	if err := checkDuplicates(comps); err != nil {
		return err
	}
	for _, cid := range comps {
		if !w.Managed(cid) {
			return eris.Wrapf(ErrComponentNotRegistered, "component id %d", cid)
		}
	}
	return nil
}

func checkDuplicates(comps []types.ComponentID) error {
	for i, c := range comps {
		for _, d := range comps[:i] {
			if c == d {
				return eris.Wrapf(ErrDuplicateComponents, "component id %d listed twice", c)
			}
		}
	}
	return nil
}
