package depot

type factory struct{}

var Factory factory

func (f factory) NewWorld() *World {
	return newWorld()
}

func (f factory) NewQuery() Query {
	return newQuery()
}

func (f factory) NewCursor(query QueryNode, storage Storage) *Cursor {
	return newCursor(query, storage)
}

// FactoryNewComponent registers T and returns a typed handle for it.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{meta: Register[T]()}
}
