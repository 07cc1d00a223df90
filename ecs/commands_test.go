package ecs_test

import (
	"testing"

	"github.com/plus3/braga/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var walker = ecs.NewAssemblage("walker", []ecs.ComponentType{
	ecs.TypeOf[Position](),
	ecs.TypeOf[Velocity](),
})

func TestCommands(t *testing.T) {
	t.Run("spawn entities", func(t *testing.T) {
		world := newTestWorld()
		commands := world.Commands()

		commands.Spawn(walker)
		commands.Spawn(walker, ecs.Field("DX", float32(2)))
		assert.Equal(t, 2, commands.Len())
		assert.Equal(t, 0, world.Len(), "entities spawned before flush")

		require.NoError(t, world.Flush())
		assert.Equal(t, 2, world.Len())
		assert.Equal(t, 0, commands.Len())
	})

	t.Run("destroy entities", func(t *testing.T) {
		world := newTestWorld()
		e, err := world.Spawn(Position{})
		require.NoError(t, err)

		world.Commands().Destroy(e)
		world.Commands().Destroy(e)
		assert.True(t, e.Alive())

		require.NoError(t, world.Flush())
		assert.False(t, e.Alive())
		assert.Equal(t, 0, world.Len())
	})

	t.Run("add and remove components", func(t *testing.T) {
		world := newTestWorld()
		e, err := world.Spawn(Position{}, Health{})
		require.NoError(t, err)

		world.Commands().AddComponent(e, Velocity{DX: 5, DY: 10})
		world.Commands().RemoveComponent(e, ecs.TypeOf[Health]())
		assert.False(t, ecs.Has[Velocity](e))
		assert.True(t, ecs.Has[Health](e))

		require.NoError(t, world.Flush())
		vel, ok := ecs.Get[Velocity](e)
		require.True(t, ok)
		assert.Equal(t, float32(5), vel.DX)
		assert.False(t, ecs.Has[Health](e))
	})

	t.Run("operations on destroyed entities are skipped", func(t *testing.T) {
		world := newTestWorld()
		e, err := world.Spawn(Position{})
		require.NoError(t, err)

		world.Commands().AddComponent(e, Velocity{})
		world.Commands().Destroy(e)
		world.Commands().RemoveComponent(e, ecs.TypeOf[Position]())

		require.NoError(t, world.Flush())
		assert.False(t, e.Alive())
		assert.False(t, ecs.Has[Velocity](e))
		assert.True(t, ecs.Has[Position](e))
	})

	t.Run("defer runs after structural changes", func(t *testing.T) {
		world := newTestWorld()
		var seen int
		world.Commands().Defer(func() { seen = world.Len() })
		world.Commands().Spawn(walker)

		require.NoError(t, world.Flush())
		assert.Equal(t, 1, seen)
	})

	t.Run("failures are reported and others still apply", func(t *testing.T) {
		type Unregistered struct{}

		world := newTestWorld()
		e, err := world.Spawn(Position{})
		require.NoError(t, err)

		world.Commands().AddComponent(e, Unregistered{})
		world.Commands().Spawn(walker, ecs.Field("Nope", 1))
		world.Commands().Spawn(walker)

		err = world.Flush()
		assert.ErrorIs(t, err, ecs.ErrComponentNotRegistered)
		assert.ErrorIs(t, err, ecs.ErrUnknownOverride)
		assert.Equal(t, 2, world.Len())
	})

	t.Run("commands queued while flushing run on the next flush", func(t *testing.T) {
		world := newTestWorld()
		e, err := world.Spawn(Position{})
		require.NoError(t, err)

		world.Commands().Defer(func() { world.Commands().Destroy(e) })

		require.NoError(t, world.Flush())
		assert.True(t, e.Alive())
		assert.Equal(t, 1, world.Commands().Len())

		require.NoError(t, world.Flush())
		assert.False(t, e.Alive())
		assert.Equal(t, 0, world.Commands().Len())
	})
}
