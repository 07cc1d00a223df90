// Package duel is a small wizard-duel world built on the ecs package:
// players, rooms and wands, and the systems that move, equip and name them.
package duel

import (
	"cmp"
	"maps"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/plus3/braga/ecs"
)

// EquipmentSlot identifies where an item of equipment is worn.
type EquipmentSlot uint8

const (
	NoSlot EquipmentSlot = iota
	WandSlot
	RobeSlot
)

func (s EquipmentSlot) String() string {
	switch s {
	case WandSlot:
		return "wand"
	case RobeSlot:
		return "robe"
	default:
		return "none"
	}
}

// Name is the name of a player, room or wand.
type Name struct {
	Name string
}

// Description is the text shown for an entity. It may reference other
// entities by name with {tag} placeholders; {self} is the entity itself.
type Description struct {
	Text string
}

// Container gives an entity an inventory. For rooms and players.
type Container struct {
	Inventory *intmap.Set[ecs.EntityId]
}

// Holds reports whether e is in the inventory.
func (c *Container) Holds(e *ecs.Entity) bool {
	return c.Inventory != nil && c.Inventory.Has(e.Id())
}

// Len returns the number of entities in the inventory.
func (c *Container) Len() int {
	if c.Inventory == nil {
		return 0
	}
	return c.Inventory.Len()
}

func (c *Container) add(e *ecs.Entity) {
	if c.Inventory == nil {
		c.Inventory = intmap.NewSet[ecs.EntityId](8)
	}
	c.Inventory.Add(e.Id())
}

func (c *Container) remove(e *ecs.Entity) {
	if c.Inventory != nil {
		c.Inventory.Del(e.Id())
	}
}

func (c *Container) DropReference(target *ecs.Entity) {
	c.remove(target)
}

// EquipmentBearing lets an entity use equipment, one item per slot. For players.
type EquipmentBearing struct {
	Slots map[EquipmentSlot]*ecs.Entity
}

func (b *EquipmentBearing) DropReference(target *ecs.Entity) {
	for slot, item := range b.Slots {
		if item == target {
			delete(b.Slots, slot)
		}
	}
}

// Mappable links a room to its neighbours by direction. For rooms only.
type Mappable struct {
	Paths map[string]*ecs.Entity
}

// Directions returns the directions with a path, sorted.
func (m *Mappable) Directions() []string {
	return slices.Sorted(maps.Keys(m.Paths))
}

func (m *Mappable) DropReference(target *ecs.Entity) {
	for direction, room := range m.Paths {
		if room == target {
			delete(m.Paths, direction)
		}
	}
}

// Moveable lets an entity be moved and records where it is. For players and wands.
type Moveable struct {
	Location *ecs.Entity
}

func (m *Moveable) DropReference(target *ecs.Entity) {
	if m.Location == target {
		m.Location = nil
	}
}

// Equipment lets an entity be equipped in a slot and records its bearer. For wands.
type Equipment struct {
	Slot   EquipmentSlot
	Bearer *ecs.Entity
}

func (e *Equipment) DropReference(target *ecs.Entity) {
	if e.Bearer == target {
		e.Bearer = nil
	}
}

// Loyalty records which entity this entity belongs to. For wands.
type Loyalty struct {
	Owner *ecs.Entity
}

func (l *Loyalty) DropReference(target *ecs.Entity) {
	if l.Owner == target {
		l.Owner = nil
	}
}

// ExpelliarmusSkill is a player's skill at casting expelliarmus.
type ExpelliarmusSkill struct {
	Skill int
}

// Register declares the duel components on registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Description](registry)
	ecs.RegisterComponent(registry, func() Container {
		return Container{Inventory: intmap.NewSet[ecs.EntityId](8)}
	})
	ecs.RegisterComponent(registry, func() EquipmentBearing {
		return EquipmentBearing{Slots: make(map[EquipmentSlot]*ecs.Entity)}
	})
	ecs.RegisterComponent(registry, func() Mappable {
		return Mappable{Paths: make(map[string]*ecs.Entity)}
	})
	ecs.RegisterComponent[Moveable](registry)
	ecs.RegisterComponent(registry, func() Equipment {
		return Equipment{Slot: NoSlot}
	})
	ecs.RegisterComponent[Loyalty](registry)
	ecs.RegisterComponent[ExpelliarmusSkill](registry)
}

// NewRegistry returns a registry with the duel components declared.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	Register(registry)
	return registry
}

// resolve maps ids to live entities of world, ordered by id.
func resolve(world *ecs.World, ids *intmap.Set[ecs.EntityId]) []*ecs.Entity {
	if ids == nil {
		return nil
	}
	entities := make([]*ecs.Entity, 0, ids.Len())
	for id := range ids.All() {
		if e, ok := world.Entity(id); ok {
			entities = append(entities, e)
		}
	}
	slices.SortFunc(entities, func(a, b *ecs.Entity) int {
		return cmp.Compare(a.Id(), b.Id())
	})
	return entities
}
