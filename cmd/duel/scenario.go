package main

import (
	"github.com/plus3/braga/duel"
	"github.com/plus3/braga/ecs"
	"github.com/rotisserie/eris"
)

type scenario struct {
	hall, tower     *ecs.Entity
	harry, draco    *ecs.Entity
	holly, hawthorn *ecs.Entity
}

type systems struct {
	names        *duel.NameSystem
	descriptions *duel.DescriptionSystem
	containers   *duel.ContainerSystem
	equipment    *duel.EquipmentSystem
	spells       *duel.SpellSystem
}

func stage(world *ecs.World) (*scenario, error) {
	var s scenario
	var err error

	create := func(a *ecs.Assemblage, overrides ...ecs.Override) *ecs.Entity {
		if err != nil {
			return nil
		}
		var e *ecs.Entity
		e, err = world.CreateEntity(a, overrides...)
		return e
	}

	s.hall = create(duel.Room, ecs.Field("Name", "hall"), ecs.Field("Text", "a draughty hall, stairs lead up to the {tower}"))
	s.tower = create(duel.Room, ecs.Field("Name", "tower"), ecs.Field("Text", "the top of the tower"))
	s.harry = create(duel.Player, ecs.Field("Name", "harry"), ecs.Field("Text", "{self} grips {holly}"))
	s.draco = create(duel.Player, ecs.Field("Name", "draco"), ecs.Field("Text", "{self} sneers at {harry}"))
	s.holly = create(duel.Wand, ecs.Field("Name", "holly"), ecs.Field("Text", "eleven inches, phoenix feather"))
	s.hawthorn = create(duel.Wand, ecs.Field("Name", "hawthorn"), ecs.Field("Text", "ten inches, unicorn hair"))
	if err != nil {
		return nil, eris.Wrap(err, "stage duel")
	}

	if err := duel.Connect(s.hall, s.tower, "up"); err != nil {
		return nil, err
	}
	if err := duel.Connect(s.tower, s.hall, "down"); err != nil {
		return nil, err
	}
	return &s, nil
}

// build creates the duel systems in dependency order and registers them
// with the scheduler in the same order.
func build(scheduler *ecs.Scheduler) (*systems, error) {
	world := scheduler.World()

	names, err := duel.NewNameSystem(world)
	if err != nil {
		return nil, err
	}
	descriptions, err := duel.NewDescriptionSystem(world, names)
	if err != nil {
		return nil, err
	}
	containers := duel.NewContainerSystem(world)
	equipment := duel.NewEquipmentSystem(world)
	spells := duel.NewSpellSystem(world, containers, equipment)

	for _, system := range []ecs.System{names, descriptions, containers, equipment, spells} {
		if err := scheduler.Register(system); err != nil {
			return nil, err
		}
	}

	return &systems{
		names:        names,
		descriptions: descriptions,
		containers:   containers,
		equipment:    equipment,
		spells:       spells,
	}, nil
}

// arm walks a player into a room and puts a wand in their hand.
func (s *systems) arm(player, room, wand *ecs.Entity) error {
	if err := s.containers.Move(player, room); err != nil {
		return err
	}
	if err := s.containers.Move(wand, player); err != nil {
		return err
	}
	if loyalty, ok := ecs.Get[duel.Loyalty](wand); ok {
		loyalty.Owner = player
	}
	return s.equipment.Equip(player, wand)
}
