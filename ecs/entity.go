package ecs

import (
	"github.com/rotisserie/eris"
)

// EntityId is the opaque identity of an entity. Ids are allocated by the
// World in increasing order and are never reused; 0 is never issued.
type EntityId uint64

// Entity owns at most one component instance per component type.
// Entities are created by a World (directly or through an Assemblage) and
// stay owned by it until DestroyEntity; components that point at other
// entities hold non-owning references.
type Entity struct {
	id         EntityId
	world      *World
	components map[ComponentType]any
	alive      bool
}

func newEntity(id EntityId, world *World) *Entity {
	return &Entity{
		id:         id,
		world:      world,
		components: make(map[ComponentType]any),
		alive:      true,
	}
}

// Id returns the entity's identity.
func (e *Entity) Id() EntityId {
	return e.id
}

// World returns the world that owns the entity.
func (e *Entity) World() *World {
	return e.world
}

// Alive reports whether the entity has not been destroyed.
func (e *Entity) Alive() bool {
	return e.alive
}

// HasComponent reports whether the entity currently carries a component of type t.
func (e *Entity) HasComponent(t ComponentType) bool {
	_, ok := e.components[t]
	return ok
}

// AddComponent attaches component to the entity, silently replacing any
// existing component of the same type. Value components are copied; pointer
// components are stored as given.
func (e *Entity) AddComponent(component any) error {
	if !e.alive {
		return eris.Wrapf(ErrEntityDestroyed, "entity %d", e.id)
	}

	t := componentTypeOf(component)
	if t.IsZero() || !e.world.registry.IsRegistered(t) {
		return eris.Wrapf(ErrComponentNotRegistered, "component %s", t)
	}

	e.components[t] = toPointer(component)
	return nil
}

// RemoveComponent detaches the component of type t. Removing a component
// the entity does not carry is a no-op; the return value reports whether
// anything was removed.
func (e *Entity) RemoveComponent(t ComponentType) bool {
	if _, ok := e.components[t]; !ok {
		return false
	}
	delete(e.components, t)
	return true
}

// GetComponent returns a pointer to the component of type t, or nil.
func (e *Entity) GetComponent(t ComponentType) any {
	return e.components[t]
}

// ComponentTypes returns the types the entity carries, sorted by name.
func (e *Entity) ComponentTypes() []ComponentType {
	types := make([]ComponentType, 0, len(e.components))
	for t := range e.components {
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

// Has reports whether e carries a T.
func Has[T any](e *Entity) bool {
	return e.HasComponent(TypeOf[T]())
}

// Get returns the entity's T component and true, or nil and false if the
// entity does not carry one.
func Get[T any](e *Entity) (*T, bool) {
	c, ok := e.components[TypeOf[T]()]
	if !ok {
		return nil, false
	}
	return c.(*T), true
}

// Component returns the entity's T component, or ErrMissingComponent.
func Component[T any](e *Entity) (*T, error) {
	c, ok := Get[T](e)
	if !ok {
		return nil, eris.Wrapf(ErrMissingComponent, "entity %d has no %s", e.id, TypeOf[T]())
	}
	return c, nil
}

// Remove detaches the entity's T component, if any.
func Remove[T any](e *Entity) bool {
	return e.RemoveComponent(TypeOf[T]())
}
