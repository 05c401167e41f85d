package tabular

import (
	"github.com/tabular-ecs/tabular/filter"
	"github.com/tabular-ecs/tabular/sparseset"
	"github.com/tabular-ecs/tabular/types"
)

// group is one entry of the group cache: the sparse set of live entities
// currently holding every component in the filter. Built lazily on first
// query, then kept accurate by groupsOnAdd/groupsOnRemove after every
// mutation.
type group struct {
	filter filter.Filter
	set    *sparseset.Set
}

// groupFor returns the cached group for f, building it with a full scan of
// the live-slot set on first request. Groups persist for the life of the
// World, so their sets are pointer-stable.
func (w *World) groupFor(f filter.Filter) *group {
	key := f.Key()
	if g, ok := w.groups[key]; ok {
		return g
	}
	set := sparseset.New()
	it := w.alive.Iterator()
	for it.HasNext() {
		slot := it.Next()
		if w.slotMatches(slot, f) {
			set.Insert(types.NewEntityID(slot, w.generations[slot]))
		}
	}
	g := &group{filter: f, set: set}
	w.groups[key] = g
	w.logger.Debug().
		Str("filter", key).
		Int("size", set.Len()).
		Msg("group built")
	return g
}

// groupsOnAdd inserts id into every existing group whose filter includes
// cid and which id now fully matches. Only groups touched by the changed
// column are examined.
func (w *World) groupsOnAdd(id types.EntityID, cid types.ComponentID) {
	slot := id.Slot()
	for _, g := range w.groups {
		if !g.filter.Contains(cid) || g.set.Contains(id) {
			continue
		}
		if w.slotMatches(slot, g.filter) {
			g.set.Insert(id)
		}
	}
}

// groupsOnRemove erases id from every existing group whose filter includes
// cid. Erasing an absent id is a cheap no-op.
func (w *World) groupsOnRemove(id types.EntityID, cid types.ComponentID) {
	for _, g := range w.groups {
		if g.filter.Contains(cid) {
			g.set.Erase(id)
		}
	}
}

// slotMatches reports whether the slot holds a value for every column in f.
func (w *World) slotMatches(slot uint32, f filter.Filter) bool {
	match := true
	f.Each(func(cid types.ComponentID) bool {
		if !w.columns[cid].Has(slot) {
			match = false
			return false
		}
		return true
	})
	return match
}
