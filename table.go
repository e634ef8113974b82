package depot

import (
	"github.com/google/btree"
)

const freeListDegree = 8

// Table stores every entity of one Archetype as parallel columns. Row indices
// below Len may be dead: a dead row holds Tombstone in its Entity column.
type Table struct {
	archetype   Archetype
	columns     [MaxComponents]*Column
	endIndex    int
	freeIndices *btree.BTreeG[int]
}

func newTable(archetype Archetype) *Table {
	return &Table{
		archetype:   archetype,
		freeIndices: btree.NewOrderedG[int](freeListDegree),
	}
}

func (t *Table) Archetype() Archetype {
	return t.archetype
}

// Len is the row high-water mark, not the number of live rows.
func (t *Table) Len() int {
	return t.endIndex
}

// ReserveIndex hands out the smallest freed row, or a fresh one past the end.
func (t *Table) ReserveIndex() int {
	if index, ok := t.freeIndices.DeleteMin(); ok {
		return index
	}
	index := t.endIndex
	t.endIndex++
	return index
}

// FreeIndex makes row i reusable. The caller must already have written
// Tombstone into the row's Entity column.
func (t *Table) FreeIndex(i int) {
	t.freeIndices.ReplaceOrInsert(i)
}

// AddColumnByID creates the column for a registered component id if the table
// does not have one yet. size and align must agree with the registration.
func (t *Table) AddColumnByID(id ComponentID, size, align uintptr) *Column {
	meta, ok := components.lookupID(id)
	if !ok {
		panic(CapacityError{ID: id})
	}
	if meta.Size != size || meta.Align != align {
		panic(StrideMismatchError{Src: size, Dst: meta.Size})
	}
	return t.columnFor(meta)
}

func (t *Table) columnFor(meta ComponentMetadata) *Column {
	if col := t.columns[meta.ID]; col != nil {
		return col
	}
	col := newColumn(meta)
	t.columns[meta.ID] = col
	return col
}

// Column returns the column for id, or false when the table's archetype does
// not include it.
func (t *Table) Column(id ComponentID) (*Column, bool) {
	if id >= MaxComponents {
		return nil, false
	}
	col := t.columns[id]
	return col, col != nil
}

func (t *Table) ColumnFor(c Component) (*Column, bool) {
	return t.Column(c.Metadata().ID)
}

// Has checks the archetype only; storage is not touched.
func (t *Table) Has(c Component) bool {
	return t.archetype.Contains(c.Metadata())
}

func (t *Table) HasID(id ComponentID) bool {
	return t.archetype.ContainsID(id)
}

// Entity returns the entity stored at row, Tombstone for dead rows.
func (t *Table) Entity(row int) Entity {
	col := t.columns[EntityComponentID]
	if col == nil || row >= col.cap {
		return Tombstone
	}
	return ReadColumn[Entity](col, row)
}

func (t *Table) Live(row int) bool {
	return row < t.endIndex && t.Entity(row) != Tombstone
}

func (t *Table) LiveCount() int {
	return t.endIndex - t.freeIndices.Len()
}

// WriteAny places v, whose registered metadata is meta, at row.
func (t *Table) WriteAny(meta ComponentMetadata, row int, v any) {
	t.columnFor(meta).WriteAny(row, v, meta.Size)
}

func (t *Table) destroy(id ComponentID, row int) {
	if col, ok := t.Column(id); ok {
		col.Destroy(row)
	}
}

func (t *Table) tombstone(row int) {
	WriteColumn(t.columnFor(entityMetadata), row, Tombstone)
	t.FreeIndex(row)
}

// TableGet returns a pointer to the T stored at row, or false when the table
// has no T column.
func TableGet[T any](t *Table, row int) (*T, bool) {
	col, ok := t.Column(Register[T]().ID)
	if !ok {
		return nil, false
	}
	return ReadColumnMut[T](col, row), true
}

func writeTable[T any](t *Table, row int, v T) {
	WriteColumn(t.columnFor(Register[T]()), row, v)
}
