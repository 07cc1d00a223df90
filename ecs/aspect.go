package ecs

import (
	"slices"
	"strings"
)

// Aspect is a predicate over the component types an entity carries.
// An entity matches when it carries every type in AllOf, at least one type
// in AnyOf (if AnyOf is non-empty) and none of the types in NoneOf.
// The zero Aspect matches every live entity.
//
// Aspects are values; the builder methods return modified copies.
type Aspect struct {
	allOf  []ComponentType
	anyOf  []ComponentType
	noneOf []ComponentType
}

// NewAspect returns an empty aspect.
func NewAspect() Aspect {
	return Aspect{}
}

// AllOf returns a copy of a that additionally requires every type in types.
func (a Aspect) AllOf(types ...ComponentType) Aspect {
	a.allOf = union(a.allOf, types)
	return a
}

// AnyOf returns a copy of a that additionally accepts any type in types.
func (a Aspect) AnyOf(types ...ComponentType) Aspect {
	a.anyOf = union(a.anyOf, types)
	return a
}

// NoneOf returns a copy of a that additionally excludes every type in types.
func (a Aspect) NoneOf(types ...ComponentType) Aspect {
	a.noneOf = union(a.noneOf, types)
	return a
}

// Matches reports whether e currently satisfies the aspect. The result is
// computed from e's component set on every call.
func (a Aspect) Matches(e *Entity) bool {
	if e == nil || !e.alive {
		return false
	}

	for _, t := range a.allOf {
		if !e.HasComponent(t) {
			return false
		}
	}

	if len(a.anyOf) > 0 {
		found := false
		for _, t := range a.anyOf {
			if e.HasComponent(t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, t := range a.noneOf {
		if e.HasComponent(t) {
			return false
		}
	}

	return true
}

// Contains is an alias for Matches.
func (a Aspect) Contains(e *Entity) bool {
	return a.Matches(e)
}

// IsEmpty reports whether the aspect places no constraint on entities.
func (a Aspect) IsEmpty() bool {
	return len(a.allOf) == 0 && len(a.anyOf) == 0 && len(a.noneOf) == 0
}

func (a Aspect) String() string {
	var b strings.Builder
	b.WriteString("Aspect{")
	writeTypeSet(&b, "all", a.allOf)
	b.WriteString(" ")
	writeTypeSet(&b, "any", a.anyOf)
	b.WriteString(" ")
	writeTypeSet(&b, "none", a.noneOf)
	b.WriteString("}")
	return b.String()
}

func writeTypeSet(b *strings.Builder, label string, types []ComponentType) {
	b.WriteString(label)
	b.WriteString("[")
	for i, t := range types {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(t.String())
	}
	b.WriteString("]")
}

// union appends the types not already present, keeping the set sorted.
// The result never aliases set.
func union(set []ComponentType, types []ComponentType) []ComponentType {
	out := slices.Clone(set)
	for _, t := range types {
		if t.IsZero() || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	sortTypes(out)
	return out
}
