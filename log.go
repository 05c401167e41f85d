package tabular

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/tabular-ecs/tabular/column"
	"github.com/tabular-ecs/tabular/types"
)

func loadColumnIntoArrayLogger(col *column.Column, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(col.ID()))
	dictLogger = dictLogger.Str("component_name", col.Name())
	dictLogger = dictLogger.Int("values", col.Count())
	return arrayLogger.Dict(dictLogger)
}

func (w *World) loadColumnsToEvent(event *zerolog.Event) *zerolog.Event {
	event.Int("total_components", len(w.columns))
	arrayLogger := zerolog.Arr()
	for _, col := range w.columns {
		arrayLogger = loadColumnIntoArrayLogger(col, arrayLogger)
	}
	return event.Array("components", arrayLogger)
}

// LogComponents logs every registered component column at the given level.
func (w *World) LogComponents(level zerolog.Level) {
	event := w.logger.WithLevel(level)
	event = w.loadColumnsToEvent(event)
	event.Msg("component columns")
}

// LogEntity logs an entity's id, slot, generation and held components at
// the given level.
func (w *World) LogEntity(level zerolog.Level, id types.EntityID) error {
	if !w.Valid(id) {
		return eris.Wrap(ErrEntityDoesNotExist, "log entity")
	}
	slot := id.Slot()
	arrayLogger := zerolog.Arr()
	for _, col := range w.columns {
		if col.Has(slot) {
			arrayLogger = loadColumnIntoArrayLogger(col, arrayLogger)
		}
	}
	w.logger.WithLevel(level).
		Uint64("entity_id", uint64(id)).
		Uint32("slot", slot).
		Uint32("generation", id.Generation()).
		Array("components", arrayLogger).
		Msg("entity state")
	return nil
}

// LogWorld logs the World's entity counters and component columns at the
// given level.
func (w *World) LogWorld(level zerolog.Level) {
	event := w.logger.WithLevel(level)
	event.Int("total_entities", w.NumEntities())
	event.Int("alive", w.NumAlive())
	event.Int("reusable", w.NumReusable())
	event.Int("groups", len(w.groups))
	event = w.loadColumnsToEvent(event)
	event.Msg("world state")
}
