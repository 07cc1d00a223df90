package duel_test

import (
	"errors"
	"testing"

	"github.com/plus3/braga/duel"
	"github.com/plus3/braga/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorld(t *testing.T) *ecs.World {
	t.Helper()
	return ecs.NewWorld(duel.NewRegistry())
}

func create(t *testing.T, world *ecs.World, a *ecs.Assemblage, overrides ...ecs.Override) *ecs.Entity {
	t.Helper()
	e, err := world.CreateEntity(a, overrides...)
	require.NoError(t, err)
	return e
}

func TestAssemblages(t *testing.T) {
	world := newWorld(t)

	player := create(t, world, duel.Player, ecs.Field("Name", "harry"))
	room := create(t, world, duel.Room)
	wand := create(t, world, duel.Wand)

	assert.Len(t, player.ComponentTypes(), 6)
	assert.Len(t, room.ComponentTypes(), 4)
	assert.Len(t, wand.ComponentTypes(), 5)

	name, _ := ecs.Get[duel.Name](player)
	assert.Equal(t, "harry", name.Name)

	equipment, ok := ecs.Get[duel.Equipment](wand)
	require.True(t, ok)
	assert.Equal(t, duel.WandSlot, equipment.Slot)
	assert.Nil(t, equipment.Bearer)

	container, _ := ecs.Get[duel.Container](room)
	require.NotNil(t, container.Inventory)
	assert.Equal(t, 0, container.Len())

	other := create(t, world, duel.Room)
	otherContainer, _ := ecs.Get[duel.Container](other)
	assert.NotSame(t, container.Inventory, otherContainer.Inventory)
}

func TestMove(t *testing.T) {
	world := newWorld(t)
	containers := duel.NewContainerSystem(world)

	room := create(t, world, duel.Room)
	player := create(t, world, duel.Player)

	require.NoError(t, containers.Move(player, room))

	c, _ := ecs.Get[duel.Container](room)
	assert.True(t, c.Holds(player))

	m, _ := ecs.Get[duel.Moveable](player)
	assert.Same(t, room, m.Location)

	contents, err := containers.Contents(room)
	require.NoError(t, err)
	assert.Equal(t, []*ecs.Entity{player}, contents)
}

func TestMoveBetweenContainers(t *testing.T) {
	world := newWorld(t)
	containers := duel.NewContainerSystem(world)

	hall := create(t, world, duel.Room)
	tower := create(t, world, duel.Room)
	player := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)

	require.NoError(t, containers.Move(player, hall))
	require.NoError(t, containers.Move(wand, player))
	require.NoError(t, containers.Move(player, tower))

	hallContainer, _ := ecs.Get[duel.Container](hall)
	towerContainer, _ := ecs.Get[duel.Container](tower)
	playerContainer, _ := ecs.Get[duel.Container](player)

	assert.False(t, hallContainer.Holds(player))
	assert.True(t, towerContainer.Holds(player))
	assert.True(t, playerContainer.Holds(wand))
	assert.Equal(t, 0, hallContainer.Len())
}

func TestMovePreconditions(t *testing.T) {
	world := newWorld(t)
	containers := duel.NewContainerSystem(world)

	room := create(t, world, duel.Room)
	other := create(t, world, duel.Room)
	player := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)
	require.NoError(t, containers.Move(player, room))

	snapshot := func() (int, int) {
		a, _ := ecs.Get[duel.Container](room)
		b, _ := ecs.Get[duel.Container](other)
		return a.Len(), b.Len()
	}
	beforeRoom, beforeOther := snapshot()

	tests := []struct {
		name        string
		thing, dest *ecs.Entity
	}{
		{"room is not moveable", other, room},
		{"wand is not a container", player, wand},
		{"player into itself", player, player},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := containers.Move(tt.thing, tt.dest)
			assert.ErrorIs(t, err, ecs.ErrInvalidOperation)

			afterRoom, afterOther := snapshot()
			assert.Equal(t, beforeRoom, afterRoom)
			assert.Equal(t, beforeOther, afterOther)

			m, _ := ecs.Get[duel.Moveable](player)
			assert.Same(t, room, m.Location)
		})
	}
}

func TestMoveRejectsCycles(t *testing.T) {
	world := newWorld(t)
	containers := duel.NewContainerSystem(world)

	outer := create(t, world, duel.Player)
	inner := create(t, world, duel.Player)
	require.NoError(t, containers.Move(inner, outer))

	err := containers.Move(outer, inner)
	assert.ErrorIs(t, err, ecs.ErrInvalidOperation)

	c, _ := ecs.Get[duel.Container](inner)
	assert.False(t, c.Holds(outer))
}

func TestContainerSystemUpdate(t *testing.T) {
	world := newWorld(t)
	containers := duel.NewContainerSystem(world)

	room := create(t, world, duel.Room)
	player := create(t, world, duel.Player)

	require.NoError(t, containers.Update())
	_, ok := containers.Where(player)
	assert.False(t, ok)

	require.NoError(t, containers.Move(player, room))
	_, ok = containers.Where(player)
	assert.False(t, ok, "location index is only refreshed by Update")

	require.NoError(t, containers.Update())
	location, ok := containers.Where(player)
	require.True(t, ok)
	assert.Same(t, room, location)
}

func TestEquip(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	player := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)

	require.NoError(t, equipment.Equip(player, wand))

	equipped, ok := equipment.Equipped(player, duel.WandSlot)
	require.True(t, ok)
	assert.Same(t, wand, equipped)

	e, _ := ecs.Get[duel.Equipment](wand)
	assert.Same(t, player, e.Bearer)

	err := equipment.Equip(player, wand)
	assert.ErrorIs(t, err, duel.ErrAlreadyEquippingItem)
	assert.ErrorIs(t, err, ecs.ErrDuplicateRelation)
	assert.False(t, errors.Is(err, duel.ErrAlreadyEquippingType))
}

func TestEquipSecondItemOfSameType(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	player := create(t, world, duel.Player)
	first := create(t, world, duel.Wand)
	second := create(t, world, duel.Wand)

	require.NoError(t, equipment.Equip(player, first))

	err := equipment.Equip(player, second)
	assert.ErrorIs(t, err, duel.ErrAlreadyEquippingType)
	assert.ErrorIs(t, err, ecs.ErrDuplicateRelation)
	assert.False(t, errors.Is(err, duel.ErrAlreadyEquippingItem))

	e, _ := ecs.Get[duel.Equipment](second)
	assert.Nil(t, e.Bearer)
}

func TestEquipSlotsAreIndependent(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	player := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)
	robe := create(t, world, duel.Wand, ecs.Field("Slot", duel.RobeSlot))

	require.NoError(t, equipment.Equip(player, wand))
	require.NoError(t, equipment.Equip(player, robe))

	equipped, ok := equipment.Equipped(player, duel.RobeSlot)
	require.True(t, ok)
	assert.Same(t, robe, equipped)
}

func TestEquipItemBorneElsewhere(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	harry := create(t, world, duel.Player)
	draco := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)

	require.NoError(t, equipment.Equip(harry, wand))
	err := equipment.Equip(draco, wand)
	assert.ErrorIs(t, err, duel.ErrEquippedElsewhere)

	_, ok := equipment.Equipped(draco, duel.WandSlot)
	assert.False(t, ok)
}

func TestEquipPreconditions(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	player := create(t, world, duel.Player)
	room := create(t, world, duel.Room)
	wand := create(t, world, duel.Wand)

	assert.ErrorIs(t, equipment.Equip(room, wand), ecs.ErrInvalidOperation)
	assert.ErrorIs(t, equipment.Equip(player, room), ecs.ErrInvalidOperation)

	e, _ := ecs.Get[duel.Equipment](wand)
	assert.Nil(t, e.Bearer)
}

func TestEquipDestroyedEntities(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	player := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)
	require.NoError(t, world.DestroyEntity(wand))

	assert.ErrorIs(t, equipment.Equip(player, wand), ecs.ErrEntityDestroyed)
	_, ok := equipment.Equipped(player, duel.WandSlot)
	assert.False(t, ok)

	ghost := create(t, world, duel.Player)
	holly := create(t, world, duel.Wand)
	require.NoError(t, world.DestroyEntity(ghost))

	assert.ErrorIs(t, equipment.Equip(ghost, holly), ecs.ErrEntityDestroyed)
	e, _ := ecs.Get[duel.Equipment](holly)
	assert.Nil(t, e.Bearer)
}

func TestUnequip(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	player := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)

	err := equipment.Unequip(player, wand)
	assert.ErrorIs(t, err, ecs.ErrInvalidOperation, "unequipping an empty slot")

	require.NoError(t, equipment.Equip(player, wand))
	require.NoError(t, equipment.Unequip(player, wand))

	_, ok := equipment.Equipped(player, duel.WandSlot)
	assert.False(t, ok)
	e, _ := ecs.Get[duel.Equipment](wand)
	assert.Nil(t, e.Bearer)

	require.NoError(t, equipment.Equip(player, wand), "slot is free again")
}

func TestEquipmentSystemUpdate(t *testing.T) {
	world := newWorld(t)
	equipment := duel.NewEquipmentSystem(world)

	harry := create(t, world, duel.Player)
	create(t, world, duel.Player)
	wand := create(t, world, duel.Wand)
	require.NoError(t, equipment.Equip(harry, wand))

	require.NoError(t, equipment.Update())
	assert.Equal(t, []*ecs.Entity{harry}, equipment.Armed())

	require.NoError(t, equipment.Update())
	assert.Equal(t, []*ecs.Entity{harry}, equipment.Armed())
}

func TestDestroySweepsReferences(t *testing.T) {
	world := newWorld(t)
	containers := duel.NewContainerSystem(world)
	equipment := duel.NewEquipmentSystem(world)

	hall := create(t, world, duel.Room)
	tower := create(t, world, duel.Room)
	player := create(t, world, duel.Player)
	wand := create(t, world, duel.Wand, ecs.Modify(func(l *duel.Loyalty) { l.Owner = player }))

	require.NoError(t, duel.Connect(hall, tower, "up"))
	require.NoError(t, containers.Move(player, hall))
	require.NoError(t, containers.Move(wand, player))
	require.NoError(t, equipment.Equip(player, wand))

	require.NoError(t, world.DestroyEntity(player))

	hallContainer, _ := ecs.Get[duel.Container](hall)
	assert.False(t, hallContainer.Holds(player))

	e, _ := ecs.Get[duel.Equipment](wand)
	assert.Nil(t, e.Bearer)
	l, _ := ecs.Get[duel.Loyalty](wand)
	assert.Nil(t, l.Owner)

	require.NoError(t, world.DestroyEntity(tower))
	m, _ := ecs.Get[duel.Mappable](hall)
	assert.Empty(t, m.Directions())

	require.NoError(t, world.DestroyEntity(hall))
	wandMoveable, _ := ecs.Get[duel.Moveable](wand)
	assert.Nil(t, wandMoveable.Location)
}

func TestConnect(t *testing.T) {
	world := newWorld(t)
	hall := create(t, world, duel.Room)
	tower := create(t, world, duel.Room)
	player := create(t, world, duel.Player)

	require.NoError(t, duel.Connect(hall, tower, "up"))
	require.NoError(t, duel.Connect(tower, hall, "down"))

	m, _ := ecs.Get[duel.Mappable](hall)
	assert.Equal(t, []string{"up"}, m.Directions())
	assert.Same(t, tower, m.Paths["up"])

	assert.ErrorIs(t, duel.Connect(player, hall, "in"), ecs.ErrInvalidOperation)
	assert.ErrorIs(t, duel.Connect(hall, player, "in"), ecs.ErrInvalidOperation)
}

func TestConnectDestroyedRooms(t *testing.T) {
	world := newWorld(t)
	hall := create(t, world, duel.Room)
	tower := create(t, world, duel.Room)
	require.NoError(t, world.DestroyEntity(tower))

	assert.ErrorIs(t, duel.Connect(hall, tower, "up"), ecs.ErrEntityDestroyed)
	assert.ErrorIs(t, duel.Connect(tower, hall, "down"), ecs.ErrEntityDestroyed)

	m, _ := ecs.Get[duel.Mappable](hall)
	assert.Empty(t, m.Directions())
}

func TestEquipmentSlotString(t *testing.T) {
	assert.Equal(t, "wand", duel.WandSlot.String())
	assert.Equal(t, "robe", duel.RobeSlot.String())
	assert.Equal(t, "none", duel.NoSlot.String())
}
