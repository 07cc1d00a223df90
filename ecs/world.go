package ecs

import (
	"cmp"
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Referencer is implemented by components that hold non-owning references
// to other entities. When an entity is destroyed the World calls
// DropReference on every component of every remaining entity, so no
// component keeps pointing at a dead entity.
type Referencer interface {
	DropReference(target *Entity)
}

// World owns every live entity. It is the only place entities are created
// and destroyed.
//
// A World is not safe for concurrent use. Run it from a single goroutine,
// or drive it with Scheduler.Run and send mutations through Scheduler.Submit.
type World struct {
	registry *ComponentRegistry
	entities *intmap.Map[EntityId, *Entity]
	nextId   EntityId
	commands *Commands
	logger   zerolog.Logger
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger sets the logger used for entity lifecycle events.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// NewWorld creates an empty world accepting the components declared on registry.
func NewWorld(registry *ComponentRegistry, opts ...WorldOption) *World {
	w := &World{
		registry: registry,
		entities: intmap.New[EntityId, *Entity](256),
		commands: newCommands(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Registry returns the component registry of the world.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Logger returns the world's logger.
func (w *World) Logger() *zerolog.Logger {
	return &w.logger
}

// CreateEntity builds a new entity from the assemblage and registers it.
func (w *World) CreateEntity(a *Assemblage, overrides ...Override) (*Entity, error) {
	return a.Create(w, overrides...)
}

// Spawn creates an entity carrying exactly the given components.
// Fails without registering anything if a component type is not registered
// or appears twice.
func (w *World) Spawn(components ...any) (*Entity, error) {
	seen := make(map[ComponentType]struct{}, len(components))
	for _, c := range components {
		t := componentTypeOf(c)
		if t.IsZero() || !w.registry.IsRegistered(t) {
			return nil, eris.Wrapf(ErrComponentNotRegistered, "component %s", t)
		}
		if _, dup := seen[t]; dup {
			return nil, eris.Errorf("component %s given twice", t)
		}
		seen[t] = struct{}{}
	}

	e := w.allocate()
	for _, c := range components {
		e.components[componentTypeOf(c)] = toPointer(c)
	}
	w.register(e)
	return e, nil
}

func (w *World) allocate() *Entity {
	w.nextId++
	return newEntity(w.nextId, w)
}

func (w *World) register(e *Entity) {
	w.entities.Put(e.id, e)
	w.logger.Debug().
		Uint64("entity_id", uint64(e.id)).
		Int("components", len(e.components)).
		Msg("entity created")
}

// DestroyEntity removes e from the world and marks it dead. Every component
// implementing Referencer on the remaining entities is asked to drop its
// references to e.
func (w *World) DestroyEntity(e *Entity) error {
	if e == nil || e.world != w || !e.alive {
		return eris.Wrap(ErrEntityNotFound, "destroy entity")
	}
	if !w.entities.Del(e.id) {
		return eris.Wrapf(ErrEntityNotFound, "entity %d", e.id)
	}
	e.alive = false

	swept := 0
	for _, other := range w.entities.All() {
		for _, c := range other.components {
			if r, ok := c.(Referencer); ok {
				r.DropReference(e)
				swept++
			}
		}
	}

	w.logger.Debug().
		Uint64("entity_id", uint64(e.id)).
		Int("swept_components", swept).
		Msg("entity destroyed")
	return nil
}

// Entity returns the live entity with the given id.
func (w *World) Entity(id EntityId) (*Entity, bool) {
	return w.entities.Get(id)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.Len()
}

// All returns every live entity ordered by id.
func (w *World) All() []*Entity {
	return w.Matching(Aspect{})
}

// Matching returns the live entities satisfying aspect, ordered by id.
// It scans every entity; there is no index.
func (w *World) Matching(aspect Aspect) []*Entity {
	result := make([]*Entity, 0)
	for _, e := range w.entities.All() {
		if aspect.Matches(e) {
			result = append(result, e)
		}
	}
	slices.SortFunc(result, func(a, b *Entity) int {
		return cmp.Compare(a.id, b.id)
	})
	return result
}

// Commands returns the world's deferred command buffer.
func (w *World) Commands() *Commands {
	return w.commands
}

// Flush applies and clears the world's deferred commands.
func (w *World) Flush() error {
	return w.commands.Flush(w)
}

// WorldStats summarizes the contents of a world.
type WorldStats struct {
	EntityCount     int
	ComponentCount  int
	ComponentCounts map[string]int
}

// CollectStats counts live entities and components per type.
func (w *World) CollectStats() WorldStats {
	stats := WorldStats{
		EntityCount:     w.entities.Len(),
		ComponentCounts: make(map[string]int),
	}
	for _, e := range w.entities.All() {
		for t := range e.components {
			stats.ComponentCounts[t.String()]++
			stats.ComponentCount++
		}
	}
	return stats
}
