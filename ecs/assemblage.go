package ecs

import (
	"reflect"
	"slices"

	"github.com/rotisserie/eris"
)

// Assemblage is a template that stamps out entities carrying a fixed,
// ordered set of components. Each component starts from the default
// declared on the world's ComponentRegistry, then the assemblage's own
// defaults and finally the caller's overrides are applied.
type Assemblage struct {
	name     string
	types    []ComponentType
	defaults []Override
}

// NewAssemblage creates an assemblage for the given component types.
// Duplicate types are ignored; the first occurrence fixes the order.
func NewAssemblage(name string, types []ComponentType, defaults ...Override) *Assemblage {
	unique := make([]ComponentType, 0, len(types))
	for _, t := range types {
		if !slices.Contains(unique, t) {
			unique = append(unique, t)
		}
	}
	return &Assemblage{
		name:     name,
		types:    unique,
		defaults: defaults,
	}
}

// Name returns the assemblage's name.
func (a *Assemblage) Name() string {
	return a.name
}

// Types returns the component types the assemblage attaches, in template order.
func (a *Assemblage) Types() []ComponentType {
	return slices.Clone(a.types)
}

// Create builds a new entity and registers it with world. Nothing is
// registered when a component type is unknown or an override fails.
func (a *Assemblage) Create(world *World, overrides ...Override) (*Entity, error) {
	components := make([]any, len(a.types))
	for i, t := range a.types {
		c, ok := world.registry.newComponent(t)
		if !ok {
			return nil, eris.Wrapf(ErrComponentNotRegistered, "assemblage %s: component %s", a.name, t)
		}
		components[i] = c
	}

	for _, o := range slices.Concat(a.defaults, overrides) {
		if err := o.apply(a.types, components); err != nil {
			return nil, eris.Wrapf(err, "assemblage %s", a.name)
		}
	}

	e := world.allocate()
	for i, t := range a.types {
		e.components[t] = components[i]
	}
	world.register(e)
	return e, nil
}

// Override customizes the components built by an Assemblage.
type Override interface {
	apply(types []ComponentType, components []any) error
}

type fieldOverride struct {
	name  string
	value any
}

// Field sets the exported field name to value on every template component
// that has such a field.
func Field(name string, value any) Override {
	return fieldOverride{name: name, value: value}
}

func (o fieldOverride) apply(types []ComponentType, components []any) error {
	matched := false
	for i, c := range components {
		v := reflect.ValueOf(c).Elem()
		if v.Kind() != reflect.Struct {
			continue
		}
		f := v.FieldByName(o.name)
		if !f.IsValid() || !f.CanSet() {
			continue
		}
		matched = true

		if o.value == nil {
			switch f.Kind() {
			case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
				f.Set(reflect.Zero(f.Type()))
				continue
			}
			return eris.Wrapf(ErrInvalidOverride, "%s.%s cannot be nil", types[i], o.name)
		}

		val := reflect.ValueOf(o.value)
		if !val.Type().AssignableTo(f.Type()) {
			return eris.Wrapf(ErrInvalidOverride, "%s.%s: %s is not assignable to %s",
				types[i], o.name, val.Type(), f.Type())
		}
		f.Set(val)
	}

	if !matched {
		return eris.Wrapf(ErrUnknownOverride, "field %s", o.name)
	}
	return nil
}

type modifyOverride[T any] struct {
	fn func(*T)
}

// Modify runs fn against the template's T component.
func Modify[T any](fn func(*T)) Override {
	return modifyOverride[T]{fn: fn}
}

func (o modifyOverride[T]) apply(types []ComponentType, components []any) error {
	idx := slices.Index(types, TypeOf[T]())
	if idx == -1 {
		return eris.Wrapf(ErrUnknownOverride, "component %s", TypeOf[T]())
	}
	o.fn(components[idx].(*T))
	return nil
}
