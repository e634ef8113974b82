package depot

// AccessibleComponent is a typed handle on a registered component type.
// It provides methods to retrieve components using different access patterns
func (c AccessibleComponent[T]) Metadata() ComponentMetadata {
	return c.meta
}

// GetFromCursor retrieves a component value for the entity at the cursor position
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	col, _ := cursor.currentTable.Column(c.meta.ID)
	return ReadColumnMut[T](col, cursor.row)
}

// GetFromCursorSafe safely retrieves a component value, checking if the component exists
// Returns a boolean indicating success and the component pointer if found
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if c.CheckCursor(cursor) {
		return true, c.GetFromCursor(cursor)
	}
	return false, nil
}

// CheckCursor determines if the component exists in the table at the cursor position
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return cursor.currentTable != nil && cursor.currentTable.Has(c.meta)
}

// GetFromEntity retrieves a component value for the specified entity, or nil
func (c AccessibleComponent[T]) GetFromEntity(w *World, e Entity) *T {
	col, row, ok := w.column(e, c.meta)
	if !ok {
		return nil
	}
	return ReadColumnMut[T](col, row)
}
