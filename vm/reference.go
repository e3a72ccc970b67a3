package vm

import (
	"reflect"
)

// ---------------------------------------------------------------------------
// References
// ---------------------------------------------------------------------------

// Reference is the capability to read a current value. References may be
// constant, computed, or derived from other references; the VM never caches
// a reference's value on its own.
type Reference interface {
	Value() any
}

// ConstReference always yields the same value.
type ConstReference struct {
	value any
}

// NewConstReference creates a reference that always yields v.
func NewConstReference(v any) *ConstReference {
	return &ConstReference{value: v}
}

func (r *ConstReference) Value() any { return r.value }

// FuncReference computes its value on every read.
type FuncReference func() any

func (f FuncReference) Value() any { return f() }

// PropertyReference resolves one path step off a base reference. It handles
// map keys (string-keyed maps) and exported struct fields; anything else
// resolves to nil.
type PropertyReference struct {
	base Reference
	name string
}

// NewPropertyReference creates a reference yielding base's value's name property.
func NewPropertyReference(base Reference, name string) *PropertyReference {
	return &PropertyReference{base: base, name: name}
}

func (r *PropertyReference) Value() any {
	return property(r.base.Value(), r.name)
}

func property(base any, name string) any {
	if base == nil {
		return nil
	}
	v := reflect.ValueOf(base)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil
		}
		mv := v.MapIndex(reflect.ValueOf(name))
		if !mv.IsValid() {
			return nil
		}
		return mv.Interface()
	case reflect.Struct:
		fv := v.FieldByName(name)
		if !fv.IsValid() || !fv.CanInterface() {
			return nil
		}
		return fv.Interface()
	}
	return nil
}

// ---------------------------------------------------------------------------
// The unbound sentinel
// ---------------------------------------------------------------------------

type undefinedReference struct{}

func (undefinedReference) Value() any { return nil }

// UndefinedReference is the shared sentinel filling unbound scope slots.
// Reading it yields nil. There is exactly one; slots compare against it by
// identity.
var UndefinedReference Reference = undefinedReference{}

// ---------------------------------------------------------------------------
// Truthiness
// ---------------------------------------------------------------------------

// Truthy reports whether a value drives a conditional to its true branch.
// False values: nil, false, empty strings, numeric zero, and empty slices,
// arrays and maps. Everything else is true.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// conditionalReference coerces its inner reference to a boolean on every
// read. Produced by Environment.ToConditionalReference.
type conditionalReference struct {
	inner Reference
}

func (r *conditionalReference) Value() any { return Truthy(r.inner.Value()) }
