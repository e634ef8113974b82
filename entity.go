package depot

import (
	"fmt"
	"reflect"

	"github.com/rotisserie/eris"
)

// Entity is a bare integer handle. Ids are recycled without a generation
// counter, so a handle kept across Despawn may later address a new entity.
type Entity uint32

// Tombstone marks dead rows. It is never a live entity.
const Tombstone Entity = 0

func (e Entity) Valid() bool {
	return e != Tombstone
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d)", uint32(e))
}

type location struct {
	archetype Archetype
	row       int
	live      bool
}

func (w *World) location(e Entity) (location, bool) {
	if e == Tombstone || int(e) >= len(w.entities) {
		return location{}, false
	}
	loc := w.entities[e]
	return loc, loc.live
}

func metadataFor[T any]() (ComponentMetadata, bool) {
	return components.lookup(reflect.TypeFor[T]())
}

func (w *World) column(e Entity, meta ComponentMetadata) (*Column, int, bool) {
	loc, ok := w.location(e)
	if !ok {
		return nil, 0, false
	}
	col, ok := w.tables[loc.archetype].Column(meta.ID)
	return col, loc.row, ok
}

// HasComponent reports whether e is live and has a T.
func HasComponent[T any](w *World, e Entity) bool {
	meta, ok := metadataFor[T]()
	if !ok {
		return false
	}
	loc, ok := w.location(e)
	return ok && loc.archetype.Contains(meta)
}

// GetComponent returns a copy of e's T.
func GetComponent[T any](w *World, e Entity) (T, bool) {
	if p := GetComponentMut[T](w, e); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// GetComponentMut returns a pointer to e's T, or nil when e is not live or has
// no T. The pointer is invalidated by any structural change to e's table.
func GetComponentMut[T any](w *World, e Entity) *T {
	meta, ok := metadataFor[T]()
	if !ok {
		return nil
	}
	col, row, ok := w.column(e, meta)
	if !ok {
		return nil
	}
	return ReadColumnMut[T](col, row)
}

// AddComponent attaches v to e, moving e to the table of its new archetype.
// While a query runs the change is queued and nil is returned.
func AddComponent[T any](w *World, e Entity, v T) error {
	Register[T]()
	return w.AddComponentValue(e, v)
}

// RemoveComponent detaches e's T. While a query runs the change is queued and
// nil is returned.
func RemoveComponent[T any](w *World, e Entity) error {
	return w.RemoveComponentByID(e, Register[T]().ID)
}

func (w *World) AddComponentValue(e Entity, v any) error {
	meta := metadataOfValue(v)
	if w.Locked() {
		w.opQueue.EnqueueComponentOp(opAddComponent, e, meta, v)
		return nil
	}
	return w.addComponent(e, meta, v)
}

func (w *World) RemoveComponentByID(e Entity, id ComponentID) error {
	if id == EntityComponentID {
		return eris.New("the Entity component cannot be removed")
	}
	meta, ok := components.lookupID(id)
	if !ok {
		return ComponentNotFoundError{Component: ComponentMetadata{ID: id, Name: fmt.Sprintf("#%d", id)}}
	}
	if w.Locked() {
		w.opQueue.EnqueueComponentOp(opRemoveComponent, e, meta, nil)
		return nil
	}
	return w.removeComponent(e, meta)
}

func (w *World) addComponent(e Entity, meta ComponentMetadata, v any) error {
	loc, ok := w.location(e)
	if !ok {
		return EntityNotFoundError{Entity: e}
	}
	dest := loc.archetype
	dest.Set(meta)
	if dest == loc.archetype {
		return ComponentExistsError{Component: meta}
	}
	destTable, row := w.migrate(e, loc, dest)
	destTable.WriteAny(meta, row, v)
	return nil
}

func (w *World) removeComponent(e Entity, meta ComponentMetadata) error {
	loc, ok := w.location(e)
	if !ok {
		return EntityNotFoundError{Entity: e}
	}
	dest := loc.archetype
	dest.Unset(meta)
	if dest == loc.archetype {
		return ComponentNotFoundError{Component: meta}
	}
	w.tables[loc.archetype].destroy(meta.ID, loc.row)
	w.migrate(e, loc, dest)
	return nil
}

// migrate moves e's row from its current table into the table for dest. Every
// component the two archetypes share is relocated; the source row is
// tombstoned and freed. The caller writes any component dest adds.
func (w *World) migrate(e Entity, loc location, dest Archetype) (*Table, int) {
	src := w.tables[loc.archetype]
	dst, created := w.tableFor(dest)
	if created {
		for id := range dest.IDs() {
			meta, _ := components.lookupID(id)
			dst.AddColumnByID(id, meta.Size, meta.Align)
		}
	}

	row := dst.ReserveIndex()
	for id := range dest.IDs() {
		if !loc.archetype.ContainsID(id) {
			continue
		}
		srcCol, _ := src.Column(id)
		meta, _ := components.lookupID(id)
		dstCol := dst.AddColumnByID(id, meta.Size, meta.Align)
		CopyItemFromColumn(srcCol, dstCol, loc.row, row)
		if id != EntityComponentID {
			srcCol.clear(loc.row)
		}
	}
	src.tombstone(loc.row)

	w.entities[e] = location{archetype: dest, row: row, live: true}
	if cb := Config.tableEvents.OnEntityMigrated; cb != nil {
		cb(e, loc.archetype, dest)
	}
	return dst, row
}
