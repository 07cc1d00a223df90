package main

import (
	"math"

	"github.com/plus3/braga/ecs"
	"github.com/rotisserie/eris"
)

type boundsSystem struct {
	ecs.BaseSystem
	minX, minY, maxX, maxY float64
}

func newBoundsSystem(world *ecs.World) *boundsSystem {
	return &boundsSystem{
		BaseSystem: ecs.NewBaseSystem(world, ecs.NewAspect().AllOf(ecs.TypeOf[Position]())),
	}
}

func (s *boundsSystem) Update() error {
	s.minX, s.minY = math.Inf(1), math.Inf(1)
	s.maxX, s.maxY = math.Inf(-1), math.Inf(-1)
	for _, e := range s.Entities() {
		p, _ := ecs.Get[Position](e)
		s.minX, s.maxX = min(s.minX, p.X), max(s.maxX, p.X)
		s.minY, s.maxY = min(s.minY, p.Y), max(s.maxY, p.Y)
	}
	return nil
}

type vitalsSystem struct {
	ecs.BaseSystem
	wounded int
}

func newVitalsSystem(world *ecs.World) *vitalsSystem {
	aspect := ecs.NewAspect().
		AllOf(ecs.TypeOf[Health]()).
		AnyOf(ecs.TypeOf[Velocity](), ecs.TypeOf[Target]())
	return &vitalsSystem{BaseSystem: ecs.NewBaseSystem(world, aspect)}
}

func (s *vitalsSystem) Update() error {
	s.wounded = 0
	for _, e := range s.Entities() {
		if h, _ := ecs.Get[Health](e); h.Current < h.Max {
			s.wounded++
		}
	}
	return nil
}

// pursuitSystem tracks hunters and their prey. A hunter still aiming at a
// destroyed entity fails the tick.
type pursuitSystem struct {
	ecs.BaseSystem
	tracking int
	idle     int
	distance float64
}

func newPursuitSystem(world *ecs.World) *pursuitSystem {
	aspect := ecs.NewAspect().AllOf(ecs.TypeOf[Target](), ecs.TypeOf[Position]())
	return &pursuitSystem{BaseSystem: ecs.NewBaseSystem(world, aspect)}
}

func (s *pursuitSystem) Update() error {
	s.tracking, s.idle, s.distance = 0, 0, 0
	for _, e := range s.Entities() {
		t, _ := ecs.Get[Target](e)
		if t.Entity == nil {
			s.idle++
			continue
		}
		if !t.Entity.Alive() {
			return eris.Errorf("hunter %d aims at destroyed entity %d", e.Id(), t.Entity.Id())
		}
		s.tracking++
		if prey, ok := ecs.Get[Position](t.Entity); ok {
			hunter, _ := ecs.Get[Position](e)
			s.distance += math.Hypot(prey.X-hunter.X, prey.Y-hunter.Y)
		}
	}
	return nil
}

type ageSystem struct {
	ecs.BaseSystem
	oldest Age
}

func newAgeSystem(world *ecs.World) *ageSystem {
	aspect := ecs.NewAspect().AllOf(ecs.TypeOf[Age]()).NoneOf(ecs.TypeOf[Velocity]())
	return &ageSystem{BaseSystem: ecs.NewBaseSystem(world, aspect)}
}

func (s *ageSystem) Update() error {
	s.oldest = 0
	for _, e := range s.Entities() {
		if a, _ := ecs.Get[Age](e); *a > s.oldest {
			s.oldest = *a
		}
	}
	return nil
}
