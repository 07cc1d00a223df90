package ecs

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Commands buffers structural world changes so they can be applied after
// the systems of a tick have run. The Scheduler flushes the world's buffer
// at the end of each tick.
type Commands struct {
	spawns   []spawnCommand
	destroys []*Entity
	adds     []addComponentCommand
	removes  []removeComponentCommand
	defers   []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	assemblage *Assemblage
	overrides  []Override
}

type addComponentCommand struct {
	entity    *Entity
	component any
}

type removeComponentCommand struct {
	entity   *Entity
	compType ComponentType
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues the creation of an entity from an assemblage.
func (c *Commands) Spawn(a *Assemblage, overrides ...Override) {
	c.spawns = append(c.spawns, spawnCommand{assemblage: a, overrides: overrides})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity *Entity) {
	c.destroys = append(c.destroys, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity *Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity *Entity, compType ComponentType) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies all queued commands to world in the order destroys,
// removes, adds, spawns, defers. Operations on entities destroyed in the
// same flush are skipped. Every failing operation is reported in the
// joined error; the others still apply. Commands queued while flushing,
// e.g. from a deferred function, are kept for the next Flush.
func (c *Commands) Flush(world *World) error {
	destroys, removes, adds, spawns, defers := c.destroys, c.removes, c.adds, c.spawns, c.defers
	c.destroys, c.removes, c.adds, c.spawns, c.defers = nil, nil, nil, nil, nil

	var errs []error
	destroyed := make(map[*Entity]bool)

	for _, e := range destroys {
		if destroyed[e] {
			continue
		}
		if err := world.DestroyEntity(e); err != nil {
			errs = append(errs, err)
		}
		destroyed[e] = true
	}

	for _, cmd := range removes {
		if !destroyed[cmd.entity] {
			cmd.entity.RemoveComponent(cmd.compType)
		}
	}

	for _, cmd := range adds {
		if destroyed[cmd.entity] {
			continue
		}
		if err := cmd.entity.AddComponent(cmd.component); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range spawns {
		if _, err := cmd.assemblage.Create(world, cmd.overrides...); err != nil {
			errs = append(errs, err)
		}
	}

	for _, df := range defers {
		df.fn()
	}

	if err := errors.Join(errs...); err != nil {
		return eris.Wrap(err, "flush commands")
	}
	return nil
}
