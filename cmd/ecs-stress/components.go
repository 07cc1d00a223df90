package main

import (
	"math/rand/v2"

	"github.com/plus3/braga/ecs"
)

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

type Age int

// Target points at another entity; destroying the target clears it.
type Target struct {
	Entity *ecs.Entity
}

func (t *Target) DropReference(target *ecs.Entity) {
	if t.Entity == target {
		t.Entity = nil
	}
}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent(registry, func() Health { return Health{Current: 100, Max: 100} })
	ecs.RegisterComponent[Age](registry)
	ecs.RegisterComponent[Target](registry)
	return registry
}

var (
	drifter = ecs.NewAssemblage("drifter", []ecs.ComponentType{
		ecs.TypeOf[Position](),
		ecs.TypeOf[Velocity](),
		ecs.TypeOf[Health](),
	})
	hunter = ecs.NewAssemblage("hunter", []ecs.ComponentType{
		ecs.TypeOf[Position](),
		ecs.TypeOf[Velocity](),
		ecs.TypeOf[Health](),
		ecs.TypeOf[Target](),
	})
	marker = ecs.NewAssemblage("marker", []ecs.ComponentType{
		ecs.TypeOf[Position](),
		ecs.TypeOf[Age](),
	})

	assemblages = []*ecs.Assemblage{drifter, hunter, marker}
)

// overridesFor scatters a new entity and, for hunters, aims it at prey.
// The prey check runs when the entity is created, so a target destroyed
// earlier in the same flush is never picked up.
func overridesFor(a *ecs.Assemblage, rng *rand.Rand, prey *ecs.Entity) []ecs.Override {
	overrides := []ecs.Override{
		ecs.Modify(func(p *Position) {
			p.X = rng.Float64() * 1000
			p.Y = rng.Float64() * 1000
		}),
	}
	if a == marker {
		return overrides
	}

	overrides = append(overrides,
		ecs.Modify(func(v *Velocity) {
			v.X = rng.Float64()*2 - 1
			v.Y = rng.Float64()*2 - 1
		}),
		ecs.Field("Current", rng.IntN(100)+1),
	)
	if a == hunter && prey != nil {
		overrides = append(overrides, ecs.Modify(func(t *Target) {
			if prey.Alive() {
				t.Entity = prey
			}
		}))
	}
	return overrides
}
