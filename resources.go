package depot

import "reflect"

// resourceCache holds at most one value per type. Values are boxed so pointers
// returned by ResourceMut survive later registrations.
type resourceCache struct {
	items       []any
	itemIndices map[reflect.Type]int
}

func newResourceCache() *resourceCache {
	return &resourceCache{
		itemIndices: make(map[reflect.Type]int),
	}
}

func (c *resourceCache) GetIndex(key reflect.Type) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *resourceCache) GetItem(index int) any {
	return c.items[index]
}

func (c *resourceCache) Register(key reflect.Type, item any) int {
	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)
	return idx
}

func (c *resourceCache) Len() int {
	return len(c.items)
}

// AddResource stores v as w's T resource, overwriting any previous T in place.
func AddResource[T any](w *World, v T) {
	key := reflect.TypeFor[T]()
	if idx, ok := w.resources.GetIndex(key); ok {
		*w.resources.GetItem(idx).(*T) = v
		return
	}
	w.resources.Register(key, &v)
}

// Resource returns a copy of w's T resource.
func Resource[T any](w *World) (T, bool) {
	if r := ResourceMut[T](w); r != nil {
		return *r, true
	}
	var zero T
	return zero, false
}

// ResourceMut returns a pointer to w's T resource, or nil if none was added.
func ResourceMut[T any](w *World) *T {
	idx, ok := w.resources.GetIndex(reflect.TypeFor[T]())
	if !ok {
		return nil
	}
	return w.resources.GetItem(idx).(*T)
}
