package duel

import (
	"github.com/plus3/braga/ecs"
	"github.com/rotisserie/eris"
)

// EquipmentSystem links bearers to the items they equip.
// Its cached state is the set of bearers holding at least one item, valid
// as of the last Update.
type EquipmentSystem struct {
	ecs.BaseSystem
	armed []*ecs.Entity
}

// NewEquipmentSystem creates an EquipmentSystem over every equipment bearer.
func NewEquipmentSystem(world *ecs.World) *EquipmentSystem {
	return &EquipmentSystem{
		BaseSystem: ecs.NewBaseSystem(world, ecs.NewAspect().AllOf(ecs.TypeOf[EquipmentBearing]())),
	}
}

// Equip puts item in the bearer's slot for the item's equipment type and
// records the bearer on the item.
func (s *EquipmentSystem) Equip(bearer, item *ecs.Entity) error {
	bearing, ok := ecs.Get[EquipmentBearing](bearer)
	if !ok {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d cannot equip other items", bearer.Id())
	}
	equipment, ok := ecs.Get[Equipment](item)
	if !ok {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d cannot be equipped", item.Id())
	}
	if !bearer.Alive() || !item.Alive() {
		return eris.Wrap(ecs.ErrEntityDestroyed, "equip")
	}

	if equipped, ok := bearing.Slots[equipment.Slot]; ok && equipped != nil {
		if equipped == item {
			return eris.Wrapf(ErrAlreadyEquippingItem, "entity %d", bearer.Id())
		}
		return eris.Wrapf(ErrAlreadyEquippingType, "entity %d slot %s", bearer.Id(), equipment.Slot)
	}
	if equipment.Bearer != nil && equipment.Bearer != bearer {
		return eris.Wrapf(ErrEquippedElsewhere, "entity %d", item.Id())
	}

	if bearing.Slots == nil {
		bearing.Slots = make(map[EquipmentSlot]*ecs.Entity)
	}
	bearing.Slots[equipment.Slot] = item
	equipment.Bearer = bearer
	return nil
}

// Unequip clears the bearer's slot and the item's bearer. It fails with
// ErrInvalidOperation if the bearer is not equipping item.
func (s *EquipmentSystem) Unequip(bearer, item *ecs.Entity) error {
	bearing, ok := ecs.Get[EquipmentBearing](bearer)
	if !ok {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d cannot equip other items", bearer.Id())
	}
	equipment, ok := ecs.Get[Equipment](item)
	if !ok {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d cannot be equipped", item.Id())
	}
	if bearing.Slots[equipment.Slot] != item {
		return eris.Wrapf(ecs.ErrInvalidOperation, "entity %d is not equipping entity %d", bearer.Id(), item.Id())
	}

	delete(bearing.Slots, equipment.Slot)
	equipment.Bearer = nil
	return nil
}

// Equipped returns the item the bearer wears in slot.
func (s *EquipmentSystem) Equipped(bearer *ecs.Entity, slot EquipmentSlot) (*ecs.Entity, bool) {
	bearing, ok := ecs.Get[EquipmentBearing](bearer)
	if !ok {
		return nil, false
	}
	item, ok := bearing.Slots[slot]
	return item, ok && item != nil
}

// Armed returns the bearers holding at least one item as of the last Update.
func (s *EquipmentSystem) Armed() []*ecs.Entity {
	return s.armed
}

// Update rebuilds the list of armed bearers.
func (s *EquipmentSystem) Update() error {
	armed := make([]*ecs.Entity, 0)
	for _, e := range s.Entities() {
		bearing, _ := ecs.Get[EquipmentBearing](e)
		if len(bearing.Slots) > 0 {
			armed = append(armed, e)
		}
	}
	s.armed = armed
	return nil
}
