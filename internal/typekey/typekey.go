// Package typekey derives stable contract keys from Go types.
package typekey

import (
	"reflect"
	"strconv"
	"sync"
)

var cache sync.Map

// For returns the contract key for T. Keys are stable across calls and
// unique per type, including for interface types.
func For[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return fromReflect(t)
}

// Named returns the contract key for T qualified by name. Named contracts
// live in their own slot so several providers of one type can coexist.
func Named[T any](name string) string {
	return For[T]() + "#" + name
}

// FromValue returns the contract key for the dynamic type of v.
func FromValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fromReflect(reflect.TypeOf(v))
}

func fromReflect(t reflect.Type) string {
	if cached, ok := cache.Load(t); ok {
		return cached.(string)
	}

	key := build(t)
	cache.Store(t, key)
	return key
}

func build(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + build(t.Elem())
	case reflect.Slice:
		return "[]" + build(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + build(t.Elem())
	case reflect.Map:
		return "map[" + build(t.Key()) + "]" + build(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + build(t.Elem())
		case reflect.SendDir:
			return "chan<- " + build(t.Elem())
		default:
			return "chan " + build(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.Name()
	}
}

// TypeName returns the short display name of T for error messages.
func TypeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return t.String()
}

// IsNil reports whether v is nil, including typed nils behind interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
