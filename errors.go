package depot

import (
	"fmt"
	"reflect"
)

type ComponentExistsError struct {
	Component ComponentMetadata
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: %s", e.Component.Name)
}

type ComponentNotFoundError struct {
	Component ComponentMetadata
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: %s", e.Component.Name)
}

type EntityNotFoundError struct {
	Entity Entity
}

func (e EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity %d is not live", e.Entity)
}

type InvalidSystemError struct {
	System reflect.Type
	Reason string
}

func (e InvalidSystemError) Error() string {
	return fmt.Sprintf("invalid system %v: %s", e.System, e.Reason)
}

// The errors below are panic values. They signal a broken store invariant
// rather than a condition the caller can recover from.

type CapacityError struct {
	ID ComponentID
}

func (e CapacityError) Error() string {
	return fmt.Sprintf("component id %d exceeds capacity of %d component types", e.ID, MaxComponents)
}

type StrideMismatchError struct {
	Src, Dst uintptr
}

func (e StrideMismatchError) Error() string {
	return fmt.Sprintf("column stride mismatch: src %d, dst %d", e.Src, e.Dst)
}

type TypeMismatchError struct {
	Src, Dst reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("column type mismatch: src %v, dst %v", e.Src, e.Dst)
}

type MissingResourceError struct {
	Resource reflect.Type
}

func (e MissingResourceError) Error() string {
	return fmt.Sprintf("resource does not exist: %v", e.Resource)
}

type UnregisteredComponentError struct {
	Type reflect.Type
}

func (e UnregisteredComponentError) Error() string {
	return fmt.Sprintf("component type not registered: %v", e.Type)
}
