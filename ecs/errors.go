package ecs

import "errors"

var (
	// ErrInvalidOperation is returned when an entity lacks the capability an
	// operation requires, e.g. moving an entity that is not moveable.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrDuplicateRelation is returned when a relation slot is already occupied.
	ErrDuplicateRelation = errors.New("duplicate relation")

	// ErrMissingComponent is returned when a component is read from an entity
	// that does not carry it.
	ErrMissingComponent = errors.New("missing component")

	// ErrDuplicateAlias is returned when a name is registered twice in a
	// name-resolution index.
	ErrDuplicateAlias = errors.New("duplicate alias")

	ErrComponentNotRegistered = errors.New("component type not registered")
	ErrEntityNotFound         = errors.New("entity not found")
	ErrEntityDestroyed        = errors.New("entity destroyed")
	ErrUnknownOverride        = errors.New("override does not match any component")
	ErrInvalidOverride        = errors.New("override value not assignable")
	ErrDuplicateSystem        = errors.New("system already registered")
)
