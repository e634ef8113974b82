package depot

import (
	"fmt"
	"reflect"

	"github.com/rotisserie/eris"
)

// A system is any func whose parameters are drawn from:
//
//	*T            the row's T, writable; the table must have T
//	T             a copy of the row's T; the table must have T (Entity gives the row's entity)
//	Option[T]     the row's T if the table has it
//	OptionMut[T]  a pointer to the row's T if the table has it
//	With[T]       nothing; the table must have T
//	Without[T]    nothing; the table must not have T
//	Res[T]        the T resource; panics if none was added
//	ResMut[T]     a pointer to the T resource; panics if none was added
//
// T must be a registered component type for the first two kinds.

type paramKind int

const (
	paramRead paramKind = iota
	paramWrite
	paramOptionalRead
	paramOptionalWrite
	paramWith
	paramWithout
	paramResourceRead
	paramResourceWrite
)

// rowAccess produces a parameter value for one row of a prepared table.
type rowAccess func(row int) reflect.Value

type paramSpec struct {
	kind    paramKind
	meta    ComponentMetadata
	prepare func(w *World, t *Table) rowAccess
}

type systemParam interface {
	describe() paramSpec
}

var systemParamType = reflect.TypeFor[systemParam]()

type Option[T any] struct {
	value *T
}

func (o Option[T]) Get() (T, bool) {
	if o.value == nil {
		var zero T
		return zero, false
	}
	return *o.value, true
}

func (Option[T]) describe() paramSpec {
	meta := Register[T]()
	return paramSpec{
		kind: paramOptionalRead,
		meta: meta,
		prepare: func(_ *World, t *Table) rowAccess {
			col, ok := t.Column(meta.ID)
			if !ok {
				return constant(Option[T]{})
			}
			return func(row int) reflect.Value {
				return reflect.ValueOf(Option[T]{value: ReadColumnMut[T](col, row)})
			}
		},
	}
}

type OptionMut[T any] struct {
	value *T
}

// Get returns nil, false when the row has no T.
func (o OptionMut[T]) Get() (*T, bool) {
	return o.value, o.value != nil
}

func (OptionMut[T]) describe() paramSpec {
	meta := Register[T]()
	return paramSpec{
		kind: paramOptionalWrite,
		meta: meta,
		prepare: func(_ *World, t *Table) rowAccess {
			col, ok := t.Column(meta.ID)
			if !ok {
				return constant(OptionMut[T]{})
			}
			return func(row int) reflect.Value {
				return reflect.ValueOf(OptionMut[T]{value: ReadColumnMut[T](col, row)})
			}
		},
	}
}

type With[T any] struct{}

func (With[T]) describe() paramSpec {
	return paramSpec{
		kind: paramWith,
		meta: Register[T](),
		prepare: func(*World, *Table) rowAccess {
			return constant(With[T]{})
		},
	}
}

type Without[T any] struct{}

func (Without[T]) describe() paramSpec {
	return paramSpec{
		kind: paramWithout,
		meta: Register[T](),
		prepare: func(*World, *Table) rowAccess {
			return constant(Without[T]{})
		},
	}
}

type Res[T any] struct {
	value *T
}

func (r Res[T]) Get() T {
	return *r.value
}

func (Res[T]) describe() paramSpec {
	return paramSpec{
		kind: paramResourceRead,
		prepare: func(w *World, _ *Table) rowAccess {
			return constant(Res[T]{value: mustResource[T](w)})
		},
	}
}

type ResMut[T any] struct {
	value *T
}

func (r ResMut[T]) Get() *T {
	return r.value
}

func (ResMut[T]) describe() paramSpec {
	return paramSpec{
		kind: paramResourceWrite,
		prepare: func(w *World, _ *Table) rowAccess {
			return constant(ResMut[T]{value: mustResource[T](w)})
		},
	}
}

func mustResource[T any](w *World) *T {
	r := ResourceMut[T](w)
	if r == nil {
		panic(MissingResourceError{Resource: reflect.TypeFor[T]()})
	}
	return r
}

func constant(v any) rowAccess {
	value := reflect.ValueOf(v)
	return func(int) reflect.Value {
		return value
	}
}

func componentParam(kind paramKind, meta ComponentMetadata) paramSpec {
	return paramSpec{
		kind: kind,
		meta: meta,
		prepare: func(_ *World, t *Table) rowAccess {
			col := t.AddColumnByID(meta.ID, meta.Size, meta.Align)
			if kind == paramWrite {
				return func(row int) reflect.Value {
					return reflect.NewAt(meta.typ, col.pointer(row))
				}
			}
			return func(row int) reflect.Value {
				return reflect.NewAt(meta.typ, col.pointer(row)).Elem()
			}
		},
	}
}

type compiledSystem struct {
	params []paramSpec
	query  QueryNode
}

func compileSystem(typ reflect.Type) (*compiledSystem, error) {
	if typ.Kind() != reflect.Func {
		return nil, InvalidSystemError{System: typ, Reason: "not a func"}
	}
	if typ.NumOut() != 0 {
		return nil, InvalidSystemError{System: typ, Reason: "systems return nothing"}
	}
	if typ.IsVariadic() {
		return nil, InvalidSystemError{System: typ, Reason: "systems cannot be variadic"}
	}

	s := &compiledSystem{params: make([]paramSpec, typ.NumIn())}
	var required, excluded []Component
	for i := range typ.NumIn() {
		spec, err := describeParam(typ.In(i))
		if err != nil {
			return nil, InvalidSystemError{System: typ, Reason: fmt.Sprintf("parameter %d: %v", i, err)}
		}
		switch spec.kind {
		case paramRead, paramWrite, paramWith:
			required = append(required, spec.meta)
		case paramWithout:
			excluded = append(excluded, spec.meta)
		}
		s.params[i] = spec
	}

	q := newQuery()
	if len(excluded) > 0 {
		s.query = q.And(required, q.Not(excluded))
	} else {
		s.query = q.And(required)
	}
	return s, nil
}

func describeParam(pt reflect.Type) (paramSpec, error) {
	if pt.Kind() != reflect.Pointer && pt.Implements(systemParamType) {
		return reflect.Zero(pt).Interface().(systemParam).describe(), nil
	}
	kind := paramRead
	elem := pt
	if pt.Kind() == reflect.Pointer {
		kind = paramWrite
		elem = pt.Elem()
	}
	meta, ok := components.lookup(elem)
	if !ok {
		return paramSpec{}, UnregisteredComponentError{Type: elem}
	}
	if kind == paramWrite && meta.ID == EntityComponentID {
		return paramSpec{}, eris.New("*Entity is read-only, take Entity instead")
	}
	return componentParam(kind, meta), nil
}

// Run calls system once for every live row of every table matching the
// system's parameters. Tables are visited in creation order and rows in
// ascending order. Structural changes made by system are applied after the
// outermost running query returns.
func (w *World) Run(system any) error {
	fn := reflect.ValueOf(system)
	if !fn.IsValid() || (fn.Kind() == reflect.Func && fn.IsNil()) {
		return InvalidSystemError{System: reflect.TypeOf(system), Reason: "nil system"}
	}
	s, ok := w.systems[fn.Type()]
	if !ok {
		compiled, err := compileSystem(fn.Type())
		if err != nil {
			return eris.Wrap(err, "failed to compile system")
		}
		w.systems[fn.Type()] = compiled
		s = compiled
	}
	s.run(w, fn)
	return nil
}

func (s *compiledSystem) run(w *World, fn reflect.Value) {
	w.Lock()
	defer w.Unlock()

	args := make([]reflect.Value, len(s.params))
	access := make([]rowAccess, len(s.params))
	for _, t := range w.tableOrder {
		if !s.query.Evaluate(t.Archetype()) {
			continue
		}
		for i, p := range s.params {
			access[i] = p.prepare(w, t)
		}
		n := t.Len()
		for row := 0; row < n; row++ {
			if t.Entity(row) == Tombstone {
				continue
			}
			for i, get := range access {
				args[i] = get(row)
			}
			fn.Call(args)
		}
	}
}
