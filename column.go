package depot

import (
	"reflect"
	"unsafe"
)

// Column is one component type's densely packed values, addressed by row.
//
// The buffer is allocated as a slice of the component type so the garbage
// collector still sees pointers held by components; all addressing goes
// through base + stride*row. A Column does not know which rows hold a value.
// The owning Table's liveness bookkeeping decides that.
//
// Pointers handed out by ReadColumnMut address the current buffer. After the
// column grows they keep pointing at the old buffer, and writes through them
// are lost.
type Column struct {
	typ    reflect.Type
	stride uintptr
	data   reflect.Value
	base   unsafe.Pointer
	cap    int
}

func newColumn(meta ComponentMetadata) *Column {
	return &Column{
		typ:    meta.typ,
		stride: meta.Size,
	}
}

func (c *Column) Stride() uintptr {
	return c.stride
}

func (c *Column) Cap() int {
	return c.cap
}

// grow doubles the buffer (minimum one slot) when idx is out of range. It
// never shrinks.
func (c *Column) grow(idx int) {
	if idx < c.cap {
		return
	}
	newCap := max(idx*2, 1)
	data := reflect.MakeSlice(reflect.SliceOf(c.typ), newCap, newCap)
	if c.cap > 0 {
		reflect.Copy(data, c.data)
	}
	c.data = data
	c.base = data.UnsafePointer()
	c.cap = newCap
}

func (c *Column) pointer(idx int) unsafe.Pointer {
	return unsafe.Add(c.base, c.stride*uintptr(idx))
}

func (c *Column) slot(idx int) reflect.Value {
	return reflect.NewAt(c.typ, c.pointer(idx)).Elem()
}

// ReadColumn returns a copy of the value at idx. idx must have been written.
func ReadColumn[T any](c *Column, idx int) T {
	return *(*T)(c.pointer(idx))
}

// ReadColumnMut returns a pointer to the value at idx. idx must have been written.
func ReadColumnMut[T any](c *Column, idx int) *T {
	return (*T)(c.pointer(idx))
}

// WriteColumn places v at idx, growing the column if needed. Whatever was in
// the slot before is overwritten without being destroyed.
func WriteColumn[T any](c *Column, idx int, v T) {
	c.grow(idx)
	*(*T)(c.pointer(idx)) = v
}

// WriteAny is WriteColumn for a value whose static type is unknown at the call
// site. size is the declared size of v and must equal the column stride.
func (c *Column) WriteAny(idx int, v any, size uintptr) {
	if size != c.stride {
		panic(StrideMismatchError{Src: size, Dst: c.stride})
	}
	value := reflect.ValueOf(v)
	if value.Type() != c.typ {
		panic(TypeMismatchError{Src: value.Type(), Dst: c.typ})
	}
	c.grow(idx)
	c.slot(idx).Set(value)
}

// Destroy runs the teardown of the value at idx, then zeroes the slot so the
// buffer no longer references what was released.
func (c *Column) Destroy(idx int) {
	if idx >= c.cap {
		return
	}
	slot := c.slot(idx)
	if d, ok := slot.Addr().Interface().(Destroyer); ok {
		d.Destroy()
	} else if d, ok := slot.Interface().(Destroyer); ok {
		d.Destroy()
	}
	slot.SetZero()
}

// clear zeroes the slot at idx without running any teardown. Used on rows whose
// values were relocated elsewhere so the old buffer stops pinning them.
func (c *Column) clear(idx int) {
	if idx >= c.cap {
		return
	}
	c.slot(idx).SetZero()
}

// CopyItemFromColumn relocates the value at srcIdx of src into dstIdx of dst.
// It is a plain memory copy: no per-value copy logic runs. Both columns must
// share a stride and element type.
func CopyItemFromColumn(src, dst *Column, srcIdx, dstIdx int) {
	if src.stride != dst.stride {
		panic(StrideMismatchError{Src: src.stride, Dst: dst.stride})
	}
	if src.typ != dst.typ {
		panic(TypeMismatchError{Src: src.typ, Dst: dst.typ})
	}
	dst.grow(dstIdx)
	if srcIdx >= src.cap {
		return
	}
	reflect.Copy(dst.data.Slice(dstIdx, dstIdx+1), src.data.Slice(srcIdx, srcIdx+1))
}
