// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package routing

import (
	"sync"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
)

// Group contributes a path prefix and conventions to every source nested
// in it. A group registers itself as one source of its parent when it is
// created.
//
// Example:
//
//	api := t.Group("/api/v1")
//	users := api.Group("/users")
//	users.Get("/{id}", getUser) // Final pattern: /api/v1/users/{id}
type Group struct {
	routes

	outer   Registrar
	prefix  *pattern.Pattern
	sources *Collection
	source  *groupSource
	cfg     *settings

	mu          sync.Mutex
	conventions []endpoint.Convention
	finally     []endpoint.Convention
	signal      *changes.Signal
}

// NewGroup creates a group under outer and registers it as a source of outer.
//
// Errors:
//   - ErrNilRegistrar if outer is nil
//   - ErrEmptyPrefix if prefix is nil
func NewGroup(outer Registrar, prefix *pattern.Pattern) (*Group, error) {
	if outer == nil {
		return nil, ErrNilRegistrar
	}
	if prefix == nil {
		return nil, ErrEmptyPrefix
	}

	g := &Group{
		outer:   outer,
		prefix:  prefix,
		sources: NewCollection(),
		cfg:     settingsOf(outer),
		signal:  changes.NewSignal(),
	}
	g.routes = routes{r: g}
	g.source = &groupSource{
		g:        g,
		children: newComposite(g.sources, g.cfg),
	}
	outer.Sources().Add(g.source)
	return g, nil
}

// Sources returns the collection of the group's children.
func (g *Group) Sources() *Collection { return g.sources }

// Services returns the services of the enclosing registrar.
func (g *Group) Services() any { return g.outer.Services() }

func (g *Group) settings() *settings { return g.cfg }

// Prefix returns the prefix local to this group.
func (g *Group) Prefix() *pattern.Pattern { return g.prefix }

// Source returns the source the group registered into its parent.
func (g *Group) Source() GroupedSource { return g.source }

// FullPrefix returns the group prefix combined with every ancestor prefix.
// It is recomputed on every call.
func (g *Group) FullPrefix() (*pattern.Pattern, error) {
	gc, err := g.innerContext()
	if err != nil {
		return nil, err
	}
	return gc.Prefix, nil
}

// Group creates a nested group. It panics if prefix is not a valid pattern.
func (g *Group) Group(prefix string) *Group {
	inner, err := NewGroup(g, pattern.MustParse(prefix))
	if err != nil {
		panic(err)
	}
	return inner
}

// MapGroup creates a nested group with a parsed prefix.
func (g *Group) MapGroup(prefix *pattern.Pattern) (*Group, error) {
	return NewGroup(g, prefix)
}

// Add registers conventions applied to every endpoint in the group.
// Conventions of enclosing groups run first.
func (g *Group) Add(conventions ...endpoint.Convention) *Group {
	g.mu.Lock()
	g.conventions = append(g.conventions, conventions...)
	g.unlockAndFire()
	return g
}

// Finally registers conventions applied after every endpoint convention.
// Finally conventions of inner groups run before those of enclosing groups.
func (g *Group) Finally(conventions ...endpoint.Convention) *Group {
	g.mu.Lock()
	g.finally = append(g.finally, conventions...)
	g.unlockAndFire()
	return g
}

// WithName adds a route name to every endpoint in the group.
// Endpoint names override it.
func (g *Group) WithName(name string) *Group {
	return g.Add(endpoint.WithName(name))
}

// WithGroupName sets the group name of every endpoint in the group.
func (g *Group) WithGroupName(name string) *Group {
	return g.Add(endpoint.WithGroupName(name))
}

// WithTags adds tags to every endpoint in the group.
func (g *Group) WithTags(tags ...string) *Group {
	return g.Add(endpoint.WithTags(tags...))
}

// WithMetadata adds metadata to every endpoint in the group.
func (g *Group) WithMetadata(items ...any) *Group {
	return g.Add(endpoint.WithMetadata(items...))
}

// unlockAndFire must be called with g.mu held.
func (g *Group) unlockAndFire() {
	old := g.signal
	g.signal = changes.NewSignal()
	g.mu.Unlock()
	old.Fire()
}

func (g *Group) ownConventions() (conventions, finally []endpoint.Convention, tok changes.Token) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conventions[:len(g.conventions):len(g.conventions)],
		g.finally[:len(g.finally):len(g.finally)],
		g.signal.Token()
}

// outerContext is the context the enclosing groups hand to this group.
func (g *Group) outerContext() (GroupContext, error) {
	if og, ok := g.outer.(*Group); ok {
		return og.innerContext()
	}
	return GroupContext{Prefix: pattern.Empty(), Services: g.outer.Services()}, nil
}

// innerContext is the context this group hands to its children.
func (g *Group) innerContext() (GroupContext, error) {
	gc, err := g.outerContext()
	if err != nil {
		return GroupContext{}, err
	}
	return g.nest(gc)
}

func (g *Group) nest(gc GroupContext) (GroupContext, error) {
	prefix := g.prefix
	if !gc.Prefix.IsEmpty() {
		combined, err := pattern.Combine(gc.Prefix, g.prefix)
		if err != nil {
			return GroupContext{}, err
		}
		prefix = combined
	}
	conventions, finally, _ := g.ownConventions()
	return GroupContext{
		Prefix:      prefix,
		Conventions: mergeConventions(gc.Conventions, conventions),
		Finally:     mergeConventions(gc.Finally, finally),
		Services:    gc.Services,
	}, nil
}

// groupSource is the source a group registers into its parent.
type groupSource struct {
	g        *Group
	children *Composite // change tracking only
}

// Endpoints returns the group endpoints nested under every ancestor.
func (s *groupSource) Endpoints() ([]endpoint.Endpoint, error) {
	gc, err := s.g.outerContext()
	if err != nil {
		return nil, err
	}
	return s.GroupedEndpoints(gc)
}

// GroupedEndpoints nests the group under gc and collects its children.
func (s *groupSource) GroupedEndpoints(gc GroupContext) ([]endpoint.Endpoint, error) {
	children := s.g.sources.Snapshot()
	if len(children) == 0 {
		return nil, nil
	}

	inner, err := s.g.nest(gc)
	if err != nil {
		return nil, err
	}
	if len(children) == 1 {
		return Grouped(children[0], inner)
	}

	var out []endpoint.Endpoint
	for _, child := range children {
		eps, err := Grouped(child, inner)
		if err != nil {
			return nil, err
		}
		out = append(out, eps...)
	}
	return out, nil
}

// ChangeToken fires when the group's conventions change or any child changes.
func (s *groupSource) ChangeToken() changes.Token {
	_, _, own := s.g.ownConventions()
	return changes.Composite(own, s.children.ChangeToken())
}

// Close stops tracking the group's children and closes them.
func (s *groupSource) Close() error {
	return s.children.Close()
}
