package ecs

// System is a unit of behavior bound to an Aspect.
//
// Update recomputes whatever derived state the system caches from the
// entities currently matching its aspect. Cached state is only trustworthy
// right after Update returns: nothing notifies a system when the world
// changes, so reads between updates may be stale. Update must be
// idempotent; two calls with no world mutation in between leave the same
// cached state.
//
// Systems that depend on other systems receive them through their
// constructors, so systems are built in dependency order.
type System interface {
	Update() error
}

// BaseSystem carries the world and aspect a system works on.
// Embed it in concrete systems.
type BaseSystem struct {
	world  *World
	aspect Aspect
}

// NewBaseSystem binds a system to world and aspect. The zero Aspect
// selects every entity.
func NewBaseSystem(world *World, aspect Aspect) BaseSystem {
	return BaseSystem{
		world:  world,
		aspect: aspect,
	}
}

// World returns the system's world.
func (s *BaseSystem) World() *World {
	return s.world
}

// Aspect returns the system's aspect.
func (s *BaseSystem) Aspect() Aspect {
	return s.aspect
}

// Contains reports whether e currently matches the system's aspect.
func (s *BaseSystem) Contains(e *Entity) bool {
	return s.aspect.Matches(e)
}

// Entities queries the world for the entities matching the system's aspect.
func (s *BaseSystem) Entities() []*Entity {
	return s.world.Matching(s.aspect)
}
