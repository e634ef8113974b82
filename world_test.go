package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableReuse(t *testing.T) {
	tests := []struct {
		name       string
		first      []any
		second     []any
		sameTable  bool
		wantTables int
	}{
		{"Identical components", []any{Position{}, Velocity{}}, []any{Position{}, Velocity{}}, true, 1},
		{"Different order", []any{Position{}, Velocity{}}, []any{Velocity{}, Position{}}, true, 1},
		{"Different components", []any{Position{}}, []any{Velocity{}}, false, 2},
		{"Subset components", []any{Position{}, Velocity{}}, []any{Position{}}, false, 2},
		{"Superset components", []any{Position{}}, []any{Position{}, Velocity{}, Health{}}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Factory.NewWorld()
			a := w.Spawn(tt.first...)
			b := w.Spawn(tt.second...)

			locA, _ := w.location(a)
			locB, _ := w.location(b)
			assert.Equal(t, tt.sameTable, w.tables[locA.archetype] == w.tables[locB.archetype])
			assert.Len(t, w.tableOrder, tt.wantTables)
		})
	}
}

func TestForEachWithArchetype(t *testing.T) {
	w := Factory.NewWorld()
	w.Spawn(Position{X: 1})
	w.Spawn(Position{X: 2}, Velocity{})
	w.Spawn(Position{X: 3}, Velocity{}, Health{})
	dead := w.Spawn(Position{X: 4}, Velocity{})
	w.Despawn(dead)

	collect := func(each func(Archetype, func(*Table, int)), filter Archetype) []float64 {
		var xs []float64
		each(filter, func(tbl *Table, row int) {
			pos, ok := TableGet[Position](tbl, row)
			require.True(t, ok)
			xs = append(xs, pos.X)
		})
		return xs
	}

	exact := archetypeOf(posComp, velComp)
	assert.Equal(t, []float64{2}, collect(w.ForEachWithArchetype, exact))
	assert.Equal(t, []float64{2, 3}, collect(w.ForEachWithArchetypeSubset, exact))
	assert.Equal(t, []float64{1, 2, 3}, collect(w.ForEachWithArchetypeSubset, archetypeOf(posComp)))
	assert.Empty(t, collect(w.ForEachWithArchetype, archetypeOf(healthComp)))
	assert.False(t, w.Locked())
}

func TestDeferredMutationOrdering(t *testing.T) {
	w := Factory.NewWorld()
	entities := []Entity{
		w.Spawn(Position{X: 1}),
		w.Spawn(Position{X: 2}),
		w.Spawn(Position{X: 3}),
	}

	visited := 0
	w.ForEachWithArchetypeSubset(archetypeOf(posComp), func(tbl *Table, row int) {
		visited++
		e := tbl.Entity(row)
		require.NoError(t, AddComponent(w, e, Velocity{X: 1}))
		assert.False(t, HasComponent[Velocity](w, e), "queued add is not visible mid-iteration")
		assert.Equal(t, visited, w.opQueue.Len())
	})
	assert.Equal(t, 3, visited, "queued adds do not extend the iteration")

	for _, e := range entities {
		assert.True(t, HasComponent[Velocity](w, e))
	}
	assert.Zero(t, w.opQueue.Len())
}

func TestDeferredMutationAppliesInOrder(t *testing.T) {
	w := Factory.NewWorld()
	e := w.Spawn(Position{})

	w.Lock()
	require.NoError(t, AddComponent(w, e, Velocity{X: 1}))
	require.NoError(t, RemoveComponent[Velocity](w, e))
	require.NoError(t, AddComponent(w, e, Health{Current: 5}))
	assert.Equal(t, 3, w.opQueue.Len())
	w.Unlock()

	assert.False(t, HasComponent[Velocity](w, e))
	health, ok := GetComponent[Health](w, e)
	require.True(t, ok)
	assert.Equal(t, 5, health.Current)
}

func TestNestedLocksDrainOnOutermost(t *testing.T) {
	w := Factory.NewWorld()
	e := w.Spawn(Position{})

	w.Lock()
	w.Lock()
	require.NoError(t, AddComponent(w, e, Velocity{}))
	w.Unlock()
	assert.Equal(t, 1, w.Running())
	assert.False(t, HasComponent[Velocity](w, e))
	w.Unlock()
	assert.True(t, HasComponent[Velocity](w, e))

	assert.Panics(t, w.Unlock)
}

func TestQueuedFailuresAreSkipped(t *testing.T) {
	w := Factory.NewWorld()
	e := w.Spawn(Position{}, Velocity{})

	w.Lock()
	require.NoError(t, AddComponent(w, e, Velocity{}), "failure surfaces only when applied")
	require.NoError(t, AddComponent(w, e, Health{}))
	w.Unlock()

	assert.True(t, HasComponent[Health](w, e))
}

func TestEnqueueSpawnDespawn(t *testing.T) {
	w := Factory.NewWorld()
	a := w.Spawn(Position{X: 1})
	b := w.Spawn(Position{X: 2})

	w.Lock()
	w.EnqueueSpawn(Position{X: 3}, Velocity{})
	w.EnqueueDespawn(a, a)
	require.NoError(t, AddComponent(w, a, Health{}))
	require.NoError(t, AddComponent(w, b, Health{}))
	assert.Equal(t, 2, w.LiveEntities())
	assert.Equal(t, 3, w.opQueue.Len(), "duplicate despawn and ops on a despawning entity are dropped")
	w.Unlock()

	assert.Equal(t, 2, w.LiveEntities())
	assert.False(t, HasComponent[Position](w, a))
	assert.True(t, HasComponent[Health](w, b))
	assert.True(t, HasComponent[Velocity](w, 3))

	w.EnqueueDespawn(b)
	w.EnqueueSpawn(Velocity{})
	assert.False(t, HasComponent[Position](w, b))
	assert.Equal(t, 2, w.LiveEntities())
}

func TestEnqueueSpawnUnregisteredPanicsEarly(t *testing.T) {
	type unregistered struct{}
	w := Factory.NewWorld()
	w.Lock()
	defer w.Unlock()

	assert.Panics(t, func() { w.EnqueueSpawn(unregistered{}) })
	assert.Zero(t, w.opQueue.Len())
}

func TestTableEvents(t *testing.T) {
	var created []Archetype
	var migrated []Entity
	Config.SetTableEvents(TableEvents{
		OnTableCreated: func(tbl *Table) {
			created = append(created, tbl.Archetype())
		},
		OnEntityMigrated: func(e Entity, from, to Archetype) {
			migrated = append(migrated, e)
			assert.True(t, from.IsSubsetOf(to))
		},
	})
	defer Config.SetTableEvents(TableEvents{})

	w := Factory.NewWorld()
	e := w.Spawn(Position{})
	w.Spawn(Position{})
	require.NoError(t, AddComponent(w, e, Velocity{}))

	assert.Equal(t, []Archetype{
		archetypeOf(entityMetadata, posComp),
		archetypeOf(entityMetadata, posComp, velComp),
	}, created)
	assert.Equal(t, []Entity{e}, migrated)
}

func TestTablesInCreationOrder(t *testing.T) {
	w := Factory.NewWorld()
	w.Spawn(Health{})
	w.Spawn(Position{})
	w.Spawn(Health{})

	var order []Archetype
	for tbl := range w.Tables() {
		order = append(order, tbl.Archetype())
	}
	assert.Equal(t, []Archetype{
		archetypeOf(entityMetadata, healthComp),
		archetypeOf(entityMetadata, posComp),
	}, order)
}
