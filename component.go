package tabular

import (
	"github.com/rotisserie/eris"

	"github.com/tabular-ecs/tabular/column"
	"github.com/tabular-ecs/tabular/types"
)

// Assign constructs a value of T on the entity and returns a pointer into
// the column. The entity must be valid and must not already hold T;
// assigning over a live value is never allowed. T is registered with the
// World on first use. Every existing group whose filter includes T and
// which the entity now fully matches gains the entity.
func Assign[T any](w *World, id types.EntityID, value T) (*T, error) {
	if !w.Valid(id) {
		return nil, eris.Wrap(ErrEntityDoesNotExist, "assign")
	}
	cid := Register[T](w)
	col := w.columns[cid]
	slot := id.Slot()
	if col.Has(slot) {
		return nil, eris.Wrapf(ErrComponentAlreadyOnEntity, "assign %q", col.Name())
	}
	col.Accommodate(slot)
	slab, err := column.Access[T](col)
	if err != nil {
		return nil, err
	}
	p := slab.At(slot)
	*p = value
	col.Set(slot)
	w.groupsOnAdd(id, cid)
	return p, nil
}

// AssignOrReplace constructs T on the entity if absent, or swaps the new
// value in place of the current one. Group membership is unchanged when
// replacing.
func AssignOrReplace[T any](w *World, id types.EntityID, value T) (*T, error) {
	if !w.Valid(id) {
		return nil, eris.Wrap(ErrEntityDoesNotExist, "assign or replace")
	}
	cid := Register[T](w)
	col := w.columns[cid]
	slot := id.Slot()
	if !col.Has(slot) {
		return Assign(w, id, value)
	}
	slab, err := column.Access[T](col)
	if err != nil {
		return nil, err
	}
	p := slab.At(slot)
	*p = value
	return p, nil
}

// Get returns a pointer to the entity's T value. The entity must be valid
// and must hold T.
func Get[T any](w *World, id types.EntityID) (*T, error) {
	if !w.Valid(id) {
		return nil, eris.Wrap(ErrEntityDoesNotExist, "get")
	}
	cid, err := ID[T](w)
	if err != nil {
		return nil, err
	}
	col := w.columns[cid]
	slot := id.Slot()
	if !col.Has(slot) {
		return nil, eris.Wrapf(ErrComponentNotOnEntity, "get %q", col.Name())
	}
	slab, err := column.Access[T](col)
	if err != nil {
		return nil, err
	}
	return slab.At(slot), nil
}

// Has reports whether the entity currently holds T. It is false for
// invalid entities and for types the World has never seen; it never fails.
func Has[T any](w *World, id types.EntityID) bool {
	if !w.Valid(id) {
		return false
	}
	cid, err := ID[T](w)
	if err != nil {
		return false
	}
	return w.columns[cid].Has(id.Slot())
}

// Remove destroys the entity's T value and removes the entity from every
// group whose filter includes T. The entity must hold T.
func Remove[T any](w *World, id types.EntityID) error {
	if !w.Valid(id) {
		return eris.Wrap(ErrEntityDoesNotExist, "remove")
	}
	cid, err := ID[T](w)
	if err != nil {
		return err
	}
	col := w.columns[cid]
	if !col.Has(id.Slot()) {
		return eris.Wrapf(ErrComponentNotOnEntity, "remove %q", col.Name())
	}
	w.removeComponent(id, cid)
	return nil
}

// Size returns the number of live T values in the store.
func Size[T any](w *World) (int, error) {
	cid, err := ID[T](w)
	if err != nil {
		return 0, err
	}
	return w.columns[cid].Count(), nil
}

// Capacity returns the number of entity slots T's column has allocated
// storage for.
func Capacity[T any](w *World) (int, error) {
	cid, err := ID[T](w)
	if err != nil {
		return 0, err
	}
	return w.columns[cid].Capacity(), nil
}

// Empty reports whether the store holds no live T values.
func Empty[T any](w *World) (bool, error) {
	n, err := Size[T](w)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// ReserveFor registers T if needed and eagerly allocates its column
// storage for n entities.
func ReserveFor[T any](w *World, n int) {
	cid := Register[T](w)
	w.columns[cid].Reserve(uint32(n))
}

// ShrinkToFitFor releases T's column chunks holding no live values.
func ShrinkToFitFor[T any](w *World) error {
	cid, err := ID[T](w)
	if err != nil {
		return err
	}
	w.columns[cid].ShrinkToFit()
	return nil
}
