package duel

import (
	"maps"
	"slices"

	"github.com/plus3/braga/ecs"
	"github.com/rotisserie/eris"
)

// NameSystem resolves names and aliases to entities.
//
// Lookup reads the index built by the last Update plus any alias added
// since; names given to entities after that Update are not visible until
// the next one.
type NameSystem struct {
	ecs.BaseSystem
	names   map[string]*ecs.Entity
	aliases map[string]*ecs.Entity
}

// NewNameSystem creates a NameSystem and builds its initial index.
func NewNameSystem(world *ecs.World) (*NameSystem, error) {
	s := &NameSystem{
		BaseSystem: ecs.NewBaseSystem(world, ecs.NewAspect().AllOf(ecs.TypeOf[Name]())),
		names:      make(map[string]*ecs.Entity),
		aliases:    make(map[string]*ecs.Entity),
	}
	if err := s.Update(); err != nil {
		return nil, err
	}
	return s, nil
}

// Lookup returns the entity registered under name.
func (s *NameSystem) Lookup(name string) (*ecs.Entity, bool) {
	e, ok := s.names[name]
	return e, ok
}

// AddAlias registers an additional name for e.
func (s *NameSystem) AddAlias(alias string, e *ecs.Entity) error {
	if e == nil {
		return eris.Wrapf(ecs.ErrInvalidOperation, "alias %q for nil entity", alias)
	}
	if _, exists := s.names[alias]; exists {
		return eris.Wrapf(ecs.ErrDuplicateAlias, "name %q", alias)
	}
	s.aliases[alias] = e
	s.names[alias] = e
	return nil
}

// Names returns every registered name, sorted.
func (s *NameSystem) Names() []string {
	return slices.Sorted(maps.Keys(s.names))
}

// Update rebuilds the index from the aliases and the Name of every named
// entity. Two entities claiming the same name fail with ErrDuplicateAlias
// and leave the previous index in place.
func (s *NameSystem) Update() error {
	for alias, e := range s.aliases {
		if !e.Alive() {
			delete(s.aliases, alias)
		}
	}

	names := maps.Clone(s.aliases)
	for _, e := range s.Entities() {
		n, _ := ecs.Get[Name](e)
		if n.Name == "" {
			continue
		}
		if existing, ok := names[n.Name]; ok && existing != e {
			return eris.Wrapf(ecs.ErrDuplicateAlias, "name %q claimed by entities %d and %d",
				n.Name, existing.Id(), e.Id())
		}
		names[n.Name] = e
	}

	s.names = names
	return nil
}
