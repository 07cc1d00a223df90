package ecs

import (
	"reflect"
	"sort"
)

// ComponentType identifies a component type. It is the key an entity uses
// to store at most one instance of each component.
type ComponentType struct {
	t reflect.Type
}

// TypeOf returns the ComponentType for T.
func TypeOf[T any]() ComponentType {
	return ComponentType{t: reflect.TypeFor[T]()}
}

// componentTypeOf returns the ComponentType of a component value or pointer.
func componentTypeOf(component any) ComponentType {
	t := reflect.TypeOf(component)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return ComponentType{t: t}
}

// Reflect returns the underlying reflect.Type.
func (c ComponentType) Reflect() reflect.Type {
	return c.t
}

// IsZero reports whether c does not name any type.
func (c ComponentType) IsZero() bool {
	return c.t == nil
}

func (c ComponentType) String() string {
	if c.t == nil {
		return "<nil>"
	}
	return c.t.String()
}

type byTypeName []ComponentType

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

func sortTypes(types []ComponentType) {
	sort.Sort(byTypeName(types))
}

// ComponentRegistry declares the component types a World accepts, together
// with the constructor used to build a default instance of each.
// Each World is built on a registry, allowing independent worlds to declare
// different component sets.
type ComponentRegistry struct {
	factories map[ComponentType]func() any
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[ComponentType]func() any),
	}
}

// RegisterComponent declares T as a component type on the registry.
// The optional defaults constructor builds the value an Assemblage starts
// from; without it the zero value is used. Registering a type twice
// replaces its constructor.
func RegisterComponent[T any](r *ComponentRegistry, defaults ...func() T) {
	t := TypeOf[T]()

	// Components can be structs or primitives (int, string, etc.)
	// But not pointers, maps, channels, or functions (those aren't value types)
	switch t.t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("components cannot be pointers, maps, channels, interfaces or functions: " + t.String())
	}

	var ctor func() T
	if len(defaults) > 0 && defaults[0] != nil {
		ctor = defaults[0]
	}

	r.factories[t] = func() any {
		value := new(T)
		if ctor != nil {
			*value = ctor()
		}
		return value
	}
}

// IsRegistered reports whether t has been declared on the registry.
func (r *ComponentRegistry) IsRegistered(t ComponentType) bool {
	_, ok := r.factories[t]
	return ok
}

// Types returns every registered component type, sorted by name.
func (r *ComponentRegistry) Types() []ComponentType {
	types := make([]ComponentType, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

// newComponent builds a pointer to a default instance of t.
// Returns false if the type is not registered.
func (r *ComponentRegistry) newComponent(t ComponentType) (any, bool) {
	factory, ok := r.factories[t]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// toPointer returns a pointer to component, copying value components into
// fresh storage so the entity owns its instance.
func toPointer(component any) any {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		return component
	}
	ptr := reflect.New(v.Type())
	ptr.Elem().Set(v)
	return ptr.Interface()
}
