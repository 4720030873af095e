package vango

import (
	"math"
	"reflect"
	"unsafe"
)

// Identical reports whether a and b are the same value by identity.
//
// Pointers, maps, channels, slices and functions are identical only when
// they refer to the same underlying object; two slices must also share
// their length. Scalars and strings compare by value, with NaN identical
// to NaN. Structs, arrays and interfaces compare element-wise under these
// same rules, so a struct holding the same slice twice is identical to
// itself while two separately built slices with equal contents are not.
func Identical[T any](a, b T) bool {
	return identicalValues(reflect.ValueOf(&a).Elem(), reflect.ValueOf(&b).Elem())
}

// Deps is a dependency list for memoized hooks and effects.
// A nil Deps means "every render"; an empty Deps means "only once".
type Deps []any

// depsEqual compares dependency lists element-wise by identity.
func depsEqual(a, b Deps) bool {
	if a == nil || b == nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

func identicalValues(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		x, y := a.Float(), b.Float()
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan:
		return a.Pointer() == b.Pointer()
	case reflect.Slice:
		return a.Pointer() == b.Pointer() && a.Len() == b.Len()
	case reflect.Func:
		return funcIdentity(a) == funcIdentity(b)
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return identicalValues(a.Elem(), b.Elem())
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !identicalValues(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !identicalValues(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// funcIdentity returns the closure pointer of a func value. Two closures
// built from the same literal share a code pointer but not a closure
// pointer, so the code pointer from reflect.Value.Pointer is not enough.
func funcIdentity(v reflect.Value) uintptr {
	if v.IsNil() {
		return 0
	}
	if v.CanAddr() {
		return uintptr(*(*unsafe.Pointer)(v.Addr().UnsafePointer()))
	}
	if !v.CanInterface() {
		return v.Pointer()
	}
	tmp := reflect.New(v.Type()).Elem()
	tmp.Set(v)
	return uintptr(*(*unsafe.Pointer)(tmp.Addr().UnsafePointer()))
}
