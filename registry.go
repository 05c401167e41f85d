package tabular

import (
	"reflect"

	"github.com/rotisserie/eris"

	"github.com/tabular-ecs/tabular/column"
	"github.com/tabular-ecs/tabular/types"
)

// typeOf returns the reflect.Type for T without requiring an addressable
// zero value.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Register assigns T the next free column id the first time it is called
// for T on this World, creating the column, and returns the existing id on
// every later call. Ids are dense from 0 and scoped to the World: two
// Worlds may assign the same type different ids.
func Register[T any](w *World) types.ComponentID {
	t := typeOf[T]()
	if id, ok := w.typeIDs[t]; ok {
		return id
	}
	id := types.ComponentID(len(w.columns))
	w.typeIDs[t] = id
	w.columns = append(w.columns, column.New[T](id, t.String(), w.chunkSize))
	w.logger.Debug().
		Int("component_id", int(id)).
		Str("component_name", t.String()).
		Msg("component registered")
	return id
}

// ID returns the column id assigned to T, or ErrComponentNotRegistered if
// the World has never encountered T.
func ID[T any](w *World) (types.ComponentID, error) {
	id, ok := w.typeIDs[typeOf[T]()]
	if !ok {
		return 0, eris.Wrapf(ErrComponentNotRegistered, "type %s", typeOf[T]().String())
	}
	return id, nil
}

// ManagedType reports whether the World has assigned T a column id.
func ManagedType[T any](w *World) bool {
	_, ok := w.typeIDs[typeOf[T]()]
	return ok
}
