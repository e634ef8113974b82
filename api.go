package depot

import (
	"iter"
)

// Storage is the untyped surface of a World. Typed access goes through the
// package-level generic functions.
type Storage interface {
	Spawn(bundle ...any) Entity
	Insert(e Entity, bundle ...any) Entity
	Despawn(e Entity)
	EnqueueSpawn(bundle ...any)
	EnqueueDespawn(entities ...Entity)
	AddComponentValue(e Entity, v any) error
	RemoveComponentByID(e Entity, id ComponentID) error
	ForEachWithArchetype(archetype Archetype, f func(t *Table, row int))
	ForEachWithArchetypeSubset(archetype Archetype, f func(t *Table, row int))
	Run(system any) error
	NumEntitiesUpperBound() uint32
	Tables() iter.Seq[*Table]
	Locked() bool
	Lock()
	Unlock()
}

// Component is anything that can name a registered component type.
type Component interface {
	Metadata() ComponentMetadata
}

type Query interface {
	QueryNode
	And(items ...any) QueryNode
	Or(items ...any) QueryNode
	Not(items ...any) QueryNode
}

type QueryNode interface {
	Evaluate(archetype Archetype) bool
}

type iCursor interface {
	Entities() iter.Seq2[int, *Table]
	Next() bool
}

// Warning: the cursor holds the world locked while it iterates.
type Cursor struct {
	// The query to filter tables
	query QueryNode

	// The storage to iterate over
	storage Storage

	// Current iteration state
	currentTable *Table
	tableIndex   int
	row          int

	// Initialization state
	initialized   bool
	matchedTables []*Table
	ends          []int
}

type AccessibleComponent[T any] struct {
	meta ComponentMetadata
}
