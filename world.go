package depot

import (
	"iter"
	"reflect"

	"github.com/google/btree"
)

var _ Storage = &World{}

// World owns every table, the entity index and the deferred operation queue.
// It is not safe for concurrent use.
type World struct {
	entities     []location
	tables       map[Archetype]*Table
	tableOrder   []*Table
	freeEntities *btree.BTreeG[Entity]
	resources    *resourceCache
	systems      map[reflect.Type]*compiledSystem
	opQueue      opQueue
	running      int
}

func newWorld() *World {
	return &World{
		// slot 0 belongs to Tombstone and is never handed out
		entities:     make([]location, 1),
		tables:       make(map[Archetype]*Table),
		freeEntities: btree.NewOrderedG[Entity](freeListDegree),
		resources:    newResourceCache(),
		systems:      make(map[reflect.Type]*compiledSystem),
		opQueue:      newOpQueue(),
	}
}

func (w *World) tableFor(archetype Archetype) (*Table, bool) {
	if t, ok := w.tables[archetype]; ok {
		return t, false
	}
	t := newTable(archetype)
	w.tables[archetype] = t
	w.tableOrder = append(w.tableOrder, t)

	Config.log().Debug().
		Stringer("archetype", archetype).
		Int("total_tables", len(w.tableOrder)).
		Msg("table created")
	if cb := Config.tableEvents.OnTableCreated; cb != nil {
		cb(t)
	}
	return t, true
}

// Spawn creates an entity holding the given component values. The smallest
// despawned id is reused before a new one is minted. Every value must be of a
// registered component type.
func (w *World) Spawn(bundle ...any) Entity {
	metas, archetype := resolveBundle(bundle)
	e, ok := w.freeEntities.DeleteMin()
	if !ok {
		e = Entity(len(w.entities))
	}
	w.place(e, bundle, metas, archetype)
	return e
}

// Insert is Spawn at a caller-chosen id. A live entity already at that id is
// despawned first. Inserting at Tombstone does nothing.
func (w *World) Insert(e Entity, bundle ...any) Entity {
	if e == Tombstone {
		return Tombstone
	}
	metas, archetype := resolveBundle(bundle)
	if _, live := w.location(e); live {
		w.Despawn(e)
	}
	w.freeEntities.Delete(e)
	w.place(e, bundle, metas, archetype)
	return e
}

// resolveBundle panics with UnregisteredComponentError before the world is
// touched if any value has an unknown type.
func resolveBundle(bundle []any) ([]ComponentMetadata, Archetype) {
	metas := make([]ComponentMetadata, len(bundle))
	archetype := NewArchetype(EntityComponentID)
	for i, v := range bundle {
		metas[i] = metadataOfValue(v)
		archetype.Set(metas[i])
	}
	return metas, archetype
}

func (w *World) place(e Entity, bundle []any, metas []ComponentMetadata, archetype Archetype) {
	t, _ := w.tableFor(archetype)
	row := t.ReserveIndex()
	for i, v := range bundle {
		if metas[i].ID == EntityComponentID {
			continue
		}
		t.WriteAny(metas[i], row, v)
	}
	writeTable(t, row, e)

	if int(e) >= len(w.entities) {
		w.entities = append(w.entities, make([]location, int(e)+1-len(w.entities))...)
	}
	w.entities[e] = location{archetype: archetype, row: row, live: true}
}

// Despawn destroys e's components and frees its row and id. Unknown, dead and
// Tombstone ids are ignored.
func (w *World) Despawn(e Entity) {
	loc, ok := w.location(e)
	if !ok {
		return
	}
	t := w.tables[loc.archetype]
	for id := range loc.archetype.IDs() {
		if id != EntityComponentID {
			t.destroy(id, loc.row)
		}
	}
	t.tombstone(loc.row)
	w.entities[e] = location{}
	w.freeEntities.ReplaceOrInsert(e)
}

// EnqueueSpawn spawns now, or once the running queries finish.
func (w *World) EnqueueSpawn(bundle ...any) {
	if !w.Locked() {
		w.Spawn(bundle...)
		return
	}
	resolveBundle(bundle)
	w.opQueue.EnqueueSpawn(bundle)
}

// EnqueueDespawn despawns now, or once the running queries finish.
func (w *World) EnqueueDespawn(entities ...Entity) {
	if !w.Locked() {
		for _, e := range entities {
			w.Despawn(e)
		}
		return
	}
	w.opQueue.EnqueueDespawn(entities)
}

// NumEntitiesUpperBound is the length of the entity index, dead slots included.
func (w *World) NumEntitiesUpperBound() uint32 {
	return uint32(len(w.entities))
}

func (w *World) LiveEntities() int {
	live := 0
	for _, loc := range w.entities {
		if loc.live {
			live++
		}
	}
	return live
}

// Tables yields every table in creation order.
func (w *World) Tables() iter.Seq[*Table] {
	return func(yield func(*Table) bool) {
		for _, t := range w.tableOrder {
			if !yield(t) {
				return
			}
		}
	}
}

// Running is the number of queries currently iterating.
func (w *World) Running() int {
	return w.running
}

func (w *World) Locked() bool {
	return w.running > 0
}

// Lock marks the start of an iteration. Until the matching Unlock, structural
// changes made through the Enqueue methods, AddComponent and RemoveComponent
// are queued.
func (w *World) Lock() {
	w.running++
}

// Unlock ends an iteration started by Lock. The outermost Unlock applies the
// queued operations in the order they were issued.
func (w *World) Unlock() {
	if w.running == 0 {
		panic("depot: Unlock of unlocked world")
	}
	w.running--
	if w.running == 0 {
		w.processOperationQueue()
	}
}

// ForEachWithArchetype calls f for every live row of the table whose archetype
// is exactly archetype. The Entity component is implied.
func (w *World) ForEachWithArchetype(archetype Archetype, f func(t *Table, row int)) {
	archetype.SetID(EntityComponentID)
	w.Lock()
	defer w.Unlock()
	if t, ok := w.tables[archetype]; ok {
		eachLiveRow(t, f)
	}
}

// ForEachWithArchetypeSubset calls f for every live row of every table whose
// archetype contains archetype.
func (w *World) ForEachWithArchetypeSubset(archetype Archetype, f func(t *Table, row int)) {
	w.Lock()
	defer w.Unlock()
	for _, t := range w.tableOrder {
		if archetype.IsSubsetOf(t.Archetype()) {
			eachLiveRow(t, f)
		}
	}
}

// eachLiveRow visits rows below the table length seen on entry, skipping
// tombstones.
func eachLiveRow(t *Table, f func(t *Table, row int)) {
	n := t.Len()
	for row := 0; row < n; row++ {
		if t.Entity(row) == Tombstone {
			continue
		}
		f(t, row)
	}
}
