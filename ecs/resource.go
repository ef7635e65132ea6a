package ecs

import "reflect"

// SetResource stores a resource keyed by its type, replacing any previous
// value of the same type.
func SetResource[T any](w *World, v *T) {
	w.resources[reflect.TypeFor[T]()] = v
}

// GetResource returns the resource of type T.
func GetResource[T any](w *World) (*T, bool) {
	v, ok := w.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// RemoveResource drops the resource of type T.
func RemoveResource[T any](w *World) {
	delete(w.resources, reflect.TypeFor[T]())
}

// SetNamed stores a resource under a name. Generated per-declaration
// resources share one Go type and are told apart by name.
func (w *World) SetNamed(name string, v any) {
	w.named[name] = v
}

// Named returns the resource stored under name.
func (w *World) Named(name string) (any, bool) {
	v, ok := w.named[name]
	return v, ok
}
