package duel

import (
	"github.com/plus3/braga/ecs"
	"github.com/rotisserie/eris"
)

// ContainerSystem moves things between containers.
// Its cached state is an index from each moveable thing to its location,
// valid as of the last Update.
type ContainerSystem struct {
	ecs.BaseSystem
	locations map[ecs.EntityId]*ecs.Entity
}

// NewContainerSystem creates a ContainerSystem over every moveable entity.
func NewContainerSystem(world *ecs.World) *ContainerSystem {
	return &ContainerSystem{
		BaseSystem: ecs.NewBaseSystem(world, ecs.NewAspect().AllOf(ecs.TypeOf[Moveable]())),
		locations:  make(map[ecs.EntityId]*ecs.Entity),
	}
}

// Move puts thing into destination's inventory, taking it out of the
// inventory of its previous location. Every precondition is checked
// before either inventory changes.
func (s *ContainerSystem) Move(thing, destination *ecs.Entity) error {
	moveable, ok := ecs.Get[Moveable](thing)
	if !ok {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d cannot be moved", thing.Id())
	}
	target, ok := ecs.Get[Container](destination)
	if !ok {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d is not a valid destination", destination.Id())
	}
	if !thing.Alive() || !destination.Alive() {
		return eris.Wrap(ecs.ErrEntityDestroyed, "move")
	}
	if encloses(thing, destination) {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d cannot be moved inside itself", thing.Id())
	}

	var previous *Container
	if moveable.Location != nil {
		previous, ok = ecs.Get[Container](moveable.Location)
		if !ok {
			return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d is held by a non-container", thing.Id())
		}
	}

	if previous != nil {
		previous.remove(thing)
	}
	target.add(thing)
	moveable.Location = destination
	return nil
}

// encloses reports whether destination is outer itself or sits, directly
// or transitively, inside outer.
func encloses(outer, destination *ecs.Entity) bool {
	seen := make(map[*ecs.Entity]bool)
	for current := destination; current != nil && !seen[current]; {
		if current == outer {
			return true
		}
		seen[current] = true
		m, ok := ecs.Get[Moveable](current)
		if !ok {
			return false
		}
		current = m.Location
	}
	return false
}

// Contents returns the live entities in container's inventory, ordered by id.
func (s *ContainerSystem) Contents(container *ecs.Entity) ([]*ecs.Entity, error) {
	c, err := ecs.Component[Container](container)
	if err != nil {
		return nil, err
	}
	return resolve(s.World(), c.Inventory), nil
}

// Where returns the location of thing as of the last Update.
func (s *ContainerSystem) Where(thing *ecs.Entity) (*ecs.Entity, bool) {
	location, ok := s.locations[thing.Id()]
	return location, ok
}

// Update rebuilds the location index.
func (s *ContainerSystem) Update() error {
	locations := make(map[ecs.EntityId]*ecs.Entity)
	for _, e := range s.Entities() {
		m, _ := ecs.Get[Moveable](e)
		if m.Location != nil {
			locations[e.Id()] = m.Location
		}
	}
	s.locations = locations
	return nil
}
