package depot

import (
	"github.com/rs/zerolog"
)

type Logger struct {
	*zerolog.Logger
}

func (_ *Logger) loadComponentIntoArrayLogger(meta ComponentMetadata, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(meta.ID))
	dictLogger = dictLogger.Str("component_name", meta.Name)
	return arrayLogger.Dict(dictLogger)
}

func (l *Logger) loadArchetypeIntoEvent(zeroLoggerEvent *zerolog.Event, archetype Archetype) *zerolog.Event {
	arrayLogger := zerolog.Arr()
	total := 0
	for id := range archetype.IDs() {
		if meta, ok := components.lookupID(id); ok {
			arrayLogger = l.loadComponentIntoArrayLogger(meta, arrayLogger)
			total++
		}
	}
	zeroLoggerEvent.Int("total_components", total)
	return zeroLoggerEvent.Array("components", arrayLogger)
}

// LogTable logs the layout and occupancy of a single table
func (l *Logger) LogTable(level zerolog.Level, t *Table) {
	zeroLoggerEvent := l.WithLevel(level)
	zeroLoggerEvent = l.loadArchetypeIntoEvent(zeroLoggerEvent, t.Archetype())
	zeroLoggerEvent.Int("rows", t.Len()).
		Int("live_rows", t.LiveCount()).
		Send()
}

// LogEntity logs the location and components of an entity
func (l *Logger) LogEntity(level zerolog.Level, w *World, e Entity) {
	loc, ok := w.location(e)
	if !ok {
		l.Err(EntityNotFoundError{Entity: e}).Uint32("entity_id", uint32(e)).Msg("cannot log entity")
		return
	}
	zeroLoggerEvent := l.WithLevel(level)
	zeroLoggerEvent = l.loadArchetypeIntoEvent(zeroLoggerEvent, loc.archetype)
	zeroLoggerEvent.Uint32("entity_id", uint32(e)).
		Int("row", loc.row).
		Send()
}

// LogWorld logs a summary of every table in the world
func (l *Logger) LogWorld(level zerolog.Level, w *World) {
	zeroLoggerEvent := l.WithLevel(level)
	arrayLogger := zerolog.Arr()
	for t := range w.Tables() {
		dictLogger := zerolog.Dict().
			Str("archetype", t.Archetype().String()).
			Int("rows", t.Len()).
			Int("live_rows", t.LiveCount())
		arrayLogger = arrayLogger.Dict(dictLogger)
	}
	zeroLoggerEvent.Int("total_tables", len(w.tableOrder)).
		Int("live_entities", w.LiveEntities()).
		Uint32("entities_upper_bound", w.NumEntitiesUpperBound()).
		Array("tables", arrayLogger).
		Send()
}
