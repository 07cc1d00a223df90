package duel

import (
	"github.com/plus3/braga/ecs"
	"github.com/rotisserie/eris"
)

var (
	// Player is a named, describable wizard who can carry things, be moved,
	// bear equipment and cast expelliarmus.
	Player = ecs.NewAssemblage("player", []ecs.ComponentType{
		ecs.TypeOf[Name](),
		ecs.TypeOf[Description](),
		ecs.TypeOf[Container](),
		ecs.TypeOf[Moveable](),
		ecs.TypeOf[EquipmentBearing](),
		ecs.TypeOf[ExpelliarmusSkill](),
	})

	// Room is a place on the map that holds things.
	Room = ecs.NewAssemblage("room", []ecs.ComponentType{
		ecs.TypeOf[Description](),
		ecs.TypeOf[Container](),
		ecs.TypeOf[Mappable](),
		ecs.TypeOf[Name](),
	})

	// Wand is equipment worn in the wand slot.
	Wand = ecs.NewAssemblage("wand", []ecs.ComponentType{
		ecs.TypeOf[Name](),
		ecs.TypeOf[Description](),
		ecs.TypeOf[Equipment](),
		ecs.TypeOf[Moveable](),
		ecs.TypeOf[Loyalty](),
	}, ecs.Field("Slot", WandSlot))
)

// Connect links room to neighbour in the given direction.
func Connect(room, neighbour *ecs.Entity, direction string) error {
	m, ok := ecs.Get[Mappable](room)
	if !ok {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d is not on the map", room.Id())
	}
	if !ecs.Has[Mappable](neighbour) {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d is not on the map", neighbour.Id())
	}
	if !room.Alive() || !neighbour.Alive() {
		return eris.Wrap(ecs.ErrEntityDestroyed, "connect")
	}
	if m.Paths == nil {
		m.Paths = make(map[string]*ecs.Entity)
	}
	m.Paths[direction] = neighbour
	return nil
}
