package duel

import (
	"regexp"

	"github.com/plus3/braga/ecs"
)

// tagPattern matches {tag} and field paths such as {tag.name}; the tag is
// the leading word.
var tagPattern = regexp.MustCompile(`\{(\w+)[^{}]*\}`)

const selfTag = "self"

// DescriptionSystem resolves the {tag} references in entity descriptions.
// Tags are resolved through the NameSystem; {self} is the described entity.
// Resolution happens in Update, so the NameSystem must be updated first.
type DescriptionSystem struct {
	ecs.BaseSystem
	names    *NameSystem
	resolved map[ecs.EntityId]map[string]*ecs.Entity
}

// NewDescriptionSystem creates a DescriptionSystem resolving through names
// and performs the initial resolution.
func NewDescriptionSystem(world *ecs.World, names *NameSystem) (*DescriptionSystem, error) {
	s := &DescriptionSystem{
		BaseSystem: ecs.NewBaseSystem(world, ecs.NewAspect().AllOf(ecs.TypeOf[Description]())),
		names:      names,
		resolved:   make(map[ecs.EntityId]map[string]*ecs.Entity),
	}
	if err := s.Update(); err != nil {
		return nil, err
	}
	return s, nil
}

// Tags returns the tags referenced by text, in order of appearance.
func Tags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return tags
}

// Resolve returns the entity tag referred to in e's description as of the
// last Update.
func (s *DescriptionSystem) Resolve(e *ecs.Entity, tag string) (*ecs.Entity, bool) {
	target, ok := s.resolved[e.Id()][tag]
	return target, ok
}

// Render returns e's description with every resolved tag replaced by the
// referenced entity's name. Unresolved tags are left as written.
func (s *DescriptionSystem) Render(e *ecs.Entity) (string, error) {
	d, err := ecs.Component[Description](e)
	if err != nil {
		return "", err
	}

	refs := s.resolved[e.Id()]
	return tagPattern.ReplaceAllStringFunc(d.Text, func(match string) string {
		target, ok := refs[tagPattern.FindStringSubmatch(match)[1]]
		if !ok {
			return match
		}
		if n, ok := ecs.Get[Name](target); ok {
			return n.Name
		}
		return match
	}), nil
}

// Update resolves the tags of every described entity.
func (s *DescriptionSystem) Update() error {
	resolved := make(map[ecs.EntityId]map[string]*ecs.Entity)
	for _, e := range s.Entities() {
		d, _ := ecs.Get[Description](e)
		refs := make(map[string]*ecs.Entity)
		for _, tag := range Tags(d.Text) {
			if tag == selfTag {
				refs[tag] = e
				continue
			}
			if target, ok := s.names.Lookup(tag); ok && target.Alive() {
				refs[tag] = target
			}
		}
		resolved[e.Id()] = refs
	}
	s.resolved = resolved
	return nil
}
