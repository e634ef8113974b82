package depot

import (
	"fmt"
	"iter"
	"strings"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
)

// Archetype is the exact set of component types an entity has. It is a value
// type: copy it freely and compare it with ==.
type Archetype struct {
	bits mask.Mask256
}

// NewArchetype returns the archetype holding exactly ids.
func NewArchetype(ids ...ComponentID) Archetype {
	var a Archetype
	for _, id := range ids {
		a.SetID(id)
	}
	return a
}

func archetypeOf(components ...Component) Archetype {
	var a Archetype
	for _, c := range components {
		a.Set(c.Metadata())
	}
	return a
}

// SetID adds id to the set. It panics with CapacityError past MaxComponents.
func (a *Archetype) SetID(id ComponentID) {
	if id >= MaxComponents {
		panic(CapacityError{ID: id})
	}
	a.bits.Mark(uint32(id))
}

// UnsetID removes id from the set. It panics with CapacityError past MaxComponents.
func (a *Archetype) UnsetID(id ComponentID) {
	if id >= MaxComponents {
		panic(CapacityError{ID: id})
	}
	a.bits.Unmark(uint32(id))
}

// Set adds the component described by meta.
func (a *Archetype) Set(meta ComponentMetadata) {
	a.SetID(meta.ID)
}

// Unset removes the component described by meta.
func (a *Archetype) Unset(meta ComponentMetadata) {
	a.UnsetID(meta.ID)
}

func (a Archetype) ContainsID(id ComponentID) bool {
	if id >= MaxComponents {
		return false
	}
	return a.bits.Contains(uint32(id))
}

func (a Archetype) Contains(meta ComponentMetadata) bool {
	return a.ContainsID(meta.ID)
}

// IsSubsetOf reports whether every component of a is also in other. Query
// filters are archetypes of required bits tested this way against tables.
func (a Archetype) IsSubsetOf(other Archetype) bool {
	return other.bits.ContainsAll(a.bits)
}

// ContainsAny reports whether a and other share at least one component.
func (a Archetype) ContainsAny(other Archetype) bool {
	return a.bits.ContainsAny(other.bits)
}

// ContainsNone reports whether a and other share no component. It is false
// when other is empty.
func (a Archetype) ContainsNone(other Archetype) bool {
	return a.bits.ContainsNone(other.bits)
}

// IDs yields the component ids in ascending order.
func (a Archetype) IDs() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for id := ComponentID(0); id < MaxComponents; id++ {
			if a.ContainsID(id) && !yield(id) {
				return
			}
		}
	}
}

// Len returns the number of components in the set.
func (a Archetype) Len() int {
	return len(iter_util.Collect(a.IDs()))
}

func (a Archetype) String() string {
	names := make([]string, 0, MaxComponents)
	for _, id := range iter_util.Collect(a.IDs()) {
		if meta, ok := components.lookupID(id); ok {
			names = append(names, meta.Name)
			continue
		}
		names = append(names, fmt.Sprintf("#%d", id))
	}
	return "{" + strings.Join(names, ", ") + "}"
}
