package depot

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// ComponentID is the dense, process-stable identifier of a component type.
// ID 0 belongs to Entity, which every table stores in its first column.
type ComponentID uint32

// MaxComponents is the number of distinct component types the store can hold,
// Entity included. Registering more is a fatal programmer error.
const MaxComponents = 128

// EntityComponentID is the id Entity is registered under.
const EntityComponentID ComponentID = 0

// ComponentMetadata describes a registered component type.
type ComponentMetadata struct {
	ID    ComponentID
	Size  uintptr
	Align uintptr
	Name  string
	typ   reflect.Type
}

// Metadata lets plain metadata values be used wherever a Component is expected.
func (m ComponentMetadata) Metadata() ComponentMetadata {
	return m
}

// Destroyer is implemented by components that hold something to release when
// their column slot is destroyed.
type Destroyer interface {
	Destroy()
}

var components = newRegistry()

var entityMetadata, _ = components.lookupID(EntityComponentID)

// registry hands out component ids. Row indices of a table.Schema are used as
// ids, offset so that Entity sits at 0.
type registry struct {
	mu     sync.RWMutex
	schema table.Schema
	base   uint32
	byType map[reflect.Type]ComponentMetadata
	byID   [MaxComponents]ComponentMetadata
}

func newRegistry() *registry {
	r := &registry{
		schema: table.Factory.NewSchema(),
		byType: make(map[reflect.Type]ComponentMetadata),
	}
	entity := table.FactoryNewElementType[Entity]()
	r.schema.Register(entity)
	r.base = r.schema.RowIndexFor(entity)
	r.store(reflect.TypeFor[Entity](), EntityComponentID)
	return r
}

func (r *registry) store(typ reflect.Type, id ComponentID) ComponentMetadata {
	meta := ComponentMetadata{
		ID:    id,
		Size:  typ.Size(),
		Align: uintptr(typ.Align()),
		Name:  typ.String(),
		typ:   typ,
	}
	r.byType[typ] = meta
	r.byID[id] = meta
	return meta
}

func (r *registry) lookup(typ reflect.Type) (ComponentMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.byType[typ]
	return meta, ok
}

func (r *registry) lookupID(id ComponentID) (ComponentMetadata, bool) {
	if id >= MaxComponents {
		return ComponentMetadata{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta := r.byID[id]
	return meta, meta.typ != nil
}

func register[T any](r *registry) ComponentMetadata {
	typ := reflect.TypeFor[T]()
	if meta, ok := r.lookup(typ); ok {
		return meta
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if meta, ok := r.byType[typ]; ok {
		return meta
	}
	elementType := table.FactoryNewElementType[T]()
	r.schema.Register(elementType)
	row := r.schema.RowIndexFor(elementType)
	if row < r.base || row-r.base >= MaxComponents {
		panic(CapacityError{ID: ComponentID(row - r.base)})
	}
	return r.store(typ, ComponentID(row-r.base))
}

// Register makes T a component type and returns its metadata. Calling it again
// for the same type returns the same metadata.
func Register[T any]() ComponentMetadata {
	return register[T](components)
}

// MetadataOf returns the metadata of the dynamic type of v, if registered.
func MetadataOf(v any) (ComponentMetadata, bool) {
	if c, ok := v.(Component); ok {
		return c.Metadata(), true
	}
	return components.lookup(reflect.TypeOf(v))
}

// MetadataByID returns the metadata registered under id.
func MetadataByID(id ComponentID) (ComponentMetadata, bool) {
	return components.lookupID(id)
}

func metadataOfValue(v any) ComponentMetadata {
	typ := reflect.TypeOf(v)
	meta, ok := components.lookup(typ)
	if !ok {
		panic(UnregisteredComponentError{Type: typ})
	}
	return meta
}
