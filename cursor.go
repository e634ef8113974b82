package depot

import (
	"iter"
)

var _ iCursor = &Cursor{}

func newCursor(query QueryNode, storage Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: storage,
		row:     -1,
	}
}

// Next moves to the next live row of a matching table. The first call locks
// the storage; the call that returns false unlocks it.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	c.row++
	for c.tableIndex < len(c.matchedTables) {
		c.currentTable = c.matchedTables[c.tableIndex]
		for ; c.row < c.ends[c.tableIndex]; c.row++ {
			if c.currentTable.Entity(c.row) != Tombstone {
				return true
			}
		}
		c.tableIndex++
		c.row = 0
	}
	c.Reset()
	return false
}

// Entities yields every live matching row. Breaking out of the loop releases
// the storage.
func (c *Cursor) Entities() iter.Seq2[int, *Table] {
	return func(yield func(int, *Table) bool) {
		for c.Next() {
			if !yield(c.row, c.currentTable) {
				c.Reset()
				return
			}
		}
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.storage.Lock()
	c.matchedTables = make([]*Table, 0)
	c.ends = make([]int, 0)

	// Rows added to a matched table after this point are not visited.
	for t := range c.storage.Tables() {
		if c.query.Evaluate(t.Archetype()) {
			c.matchedTables = append(c.matchedTables, t)
			c.ends = append(c.ends, t.Len())
		}
	}
	c.tableIndex = 0
	c.row = -1
	c.initialized = true
}

// Reset abandons the iteration. It unlocks the storage if the cursor was
// iterating.
func (c *Cursor) Reset() {
	wasIterating := c.initialized
	c.tableIndex = 0
	c.row = -1
	c.currentTable = nil
	c.matchedTables = nil
	c.ends = nil
	c.initialized = false
	if wasIterating {
		c.storage.Unlock()
	}
}

func (c *Cursor) CurrentEntity() (int, *Table) {
	return c.row, c.currentTable
}

// RemainingInTable is an upper bound on the rows left in the current table.
func (c *Cursor) RemainingInTable() int {
	if !c.initialized || c.tableIndex >= len(c.ends) {
		return 0
	}
	return c.ends[c.tableIndex] - c.row - 1
}

// TotalMatched counts live rows in matching tables. It does not start an
// iteration.
func (c *Cursor) TotalMatched() int {
	total := 0
	if c.initialized {
		for _, t := range c.matchedTables {
			total += t.LiveCount()
		}
		return total
	}
	for t := range c.storage.Tables() {
		if c.query.Evaluate(t.Archetype()) {
			total += t.LiveCount()
		}
	}
	return total
}
