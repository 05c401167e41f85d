package tabular

import (
	json "github.com/goccy/go-json"

	"github.com/tabular-ecs/tabular/types"
)

// EntityStateElement is the introspection record for one live entity.
type EntityStateElement struct {
	ID         types.EntityID `json:"id"`
	Components map[string]any `json:"components"`
}

// DebugState returns a JSON snapshot of every live entity and its
// component values, keyed by component type name. It is an in-memory
// introspection aid, not a persistence format.
func (w *World) DebugState() ([]byte, error) {
	state := make([]EntityStateElement, 0, w.NumAlive())
	it := w.alive.Iterator()
	for it.HasNext() {
		slot := it.Next()
		comps := make(map[string]any)
		for _, col := range w.columns {
			if v, ok := col.ValueAt(slot); ok {
				comps[col.Name()] = v
			}
		}
		state = append(state, EntityStateElement{
			ID:         types.NewEntityID(slot, w.generations[slot]),
			Components: comps,
		})
	}
	return json.Marshal(state)
}
