package duel

import (
	"cmp"
	"slices"

	"github.com/plus3/braga/ecs"
	"github.com/rotisserie/eris"
)

// SpellSystem casts spells between players. It moves and unequips items
// through the container and equipment systems it is built with.
// Its cached state is a ranking of casters by skill, valid as of the last
// Update.
type SpellSystem struct {
	ecs.BaseSystem
	containers *ContainerSystem
	equipment  *EquipmentSystem
	ranking    []*ecs.Entity
}

// NewSpellSystem creates a SpellSystem over every entity that can cast expelliarmus.
func NewSpellSystem(world *ecs.World, containers *ContainerSystem, equipment *EquipmentSystem) *SpellSystem {
	return &SpellSystem{
		BaseSystem: ecs.NewBaseSystem(world, ecs.NewAspect().AllOf(ecs.TypeOf[ExpelliarmusSkill]())),
		containers: containers,
		equipment:  equipment,
	}
}

// Expelliarmus disarms target: the wand target is holding ends up
// unequipped in the caster's inventory and loyal to the caster, and the
// caster's skill improves. The caster must hold a wand of their own.
// Nothing changes when a precondition fails.
func (s *SpellSystem) Expelliarmus(caster, target *ecs.Entity) (*ecs.Entity, error) {
	skill, ok := ecs.Get[ExpelliarmusSkill](caster)
	if !ok {
		return nil, eris.Wrapf(ecs.ErrInvalidOperation, "entity %d cannot cast expelliarmus", caster.Id())
	}
	if caster == target {
		return nil, eris.Wrap(ecs.ErrInvalidOperation, "cannot disarm yourself")
	}
	if _, armed := s.equipment.Equipped(caster, WandSlot); !armed {
		return nil, eris.Wrapf(ecs.ErrInvalidOperation, "entity %d has no wand", caster.Id())
	}
	wand, armed := s.equipment.Equipped(target, WandSlot)
	if !armed {
		return nil, eris.Wrapf(ecs.ErrInvalidOperation, "entity %d has no wand", target.Id())
	}
	equipment, ok := ecs.Get[Equipment](wand)
	if !ok || equipment.Slot != WandSlot {
		return nil, eris.Wrapf(ecs.ErrInvalidOperation, "entity %d is not worn as a wand", wand.Id())
	}

	if err := s.containers.Move(wand, caster); err != nil {
		return nil, eris.Wrap(err, "expelliarmus")
	}
	if err := s.equipment.Unequip(target, wand); err != nil {
		return nil, eris.Wrap(err, "expelliarmus")
	}
	if loyalty, ok := ecs.Get[Loyalty](wand); ok {
		loyalty.Owner = caster
	}
	skill.Skill++
	return wand, nil
}

// Ranking returns casters ordered by descending skill as of the last Update.
func (s *SpellSystem) Ranking() []*ecs.Entity {
	return s.ranking
}

// Update rebuilds the skill ranking. Ties keep id order.
func (s *SpellSystem) Update() error {
	ranking := s.Entities()
	slices.SortStableFunc(ranking, func(a, b *ecs.Entity) int {
		sa, _ := ecs.Get[ExpelliarmusSkill](a)
		sb, _ := ecs.Get[ExpelliarmusSkill](b)
		return cmp.Compare(sb.Skill, sa.Skill)
	})
	s.ranking = ranking
	return nil
}
