package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableReserveIndex(t *testing.T) {
	tbl := newTable(archetypeOf(entityMetadata, posComp))

	for want := range 4 {
		row := tbl.ReserveIndex()
		assert.Equal(t, want, row)
		writeTable(tbl, row, Entity(row+1))
	}
	assert.Equal(t, 4, tbl.Len())

	tbl.tombstone(2)
	tbl.tombstone(1)
	assert.False(t, tbl.Live(1))
	assert.True(t, tbl.Live(3))
	assert.Equal(t, 2, tbl.LiveCount())

	assert.Equal(t, 1, tbl.ReserveIndex(), "smallest free row first")
	assert.Equal(t, 2, tbl.ReserveIndex())
	assert.Equal(t, 4, tbl.ReserveIndex())
	assert.Equal(t, 5, tbl.Len())
}

func TestTableColumns(t *testing.T) {
	tbl := newTable(archetypeOf(entityMetadata, posComp))

	_, ok := tbl.Column(posComp.Metadata().ID)
	assert.False(t, ok, "columns are created lazily")

	meta := posComp.Metadata()
	col := tbl.AddColumnByID(meta.ID, meta.Size, meta.Align)
	assert.Same(t, col, tbl.AddColumnByID(meta.ID, meta.Size, meta.Align))

	got, ok := tbl.ColumnFor(posComp)
	require.True(t, ok)
	assert.Same(t, col, got)

	_, ok = tbl.Column(MaxComponents + 1)
	assert.False(t, ok)

	assert.Panics(t, func() { tbl.AddColumnByID(meta.ID, meta.Size+1, meta.Align) })
	assert.Panics(t, func() { tbl.AddColumnByID(MaxComponents-1, 8, 8) })
}

func TestTableHas(t *testing.T) {
	tbl := newTable(archetypeOf(entityMetadata, posComp, velComp))

	assert.True(t, tbl.Has(posComp))
	assert.True(t, tbl.HasID(velComp.Metadata().ID))
	assert.False(t, tbl.Has(healthComp))
	assert.True(t, tbl.HasID(EntityComponentID))
}

func TestTableGet(t *testing.T) {
	tbl := newTable(archetypeOf(entityMetadata, posComp))
	row := tbl.ReserveIndex()
	tbl.WriteAny(posComp.Metadata(), row, Position{X: 3})
	writeTable(tbl, row, Entity(9))

	pos, ok := TableGet[Position](tbl, row)
	require.True(t, ok)
	assert.Equal(t, 3.0, pos.X)
	assert.Equal(t, Entity(9), tbl.Entity(row))
	assert.Equal(t, Tombstone, tbl.Entity(row+10))

	_, ok = TableGet[Velocity](tbl, row)
	assert.False(t, ok)
}
