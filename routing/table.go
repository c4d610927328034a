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
	"cmp"
	"slices"
	"strings"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
)

// Table is the root of a route tree.
//
// Routes registered on the table go into a [Model]; groups register
// themselves as additional sources. Endpoints are cached by a [Composite]
// over the root sources.
type Table struct {
	routes

	cfg       *settings
	sources   *Collection
	composite *Composite
}

// New returns an empty route table.
//
// Errors:
//   - ErrInvalidMaxPasses if WithMaxChangePasses is not positive
//   - an instrument creation error from the configured meter provider
func New(opts ...Option) (*Table, error) {
	s, err := newSettings(opts...)
	if err != nil {
		return nil, err
	}
	t := &Table{cfg: s, sources: NewCollection()}
	t.routes = routes{r: t}
	t.composite = newComposite(t.sources, s)
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Table {
	t, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Sources returns the root source collection.
func (t *Table) Sources() *Collection { return t.sources }

// Services returns the value configured with WithServices.
func (t *Table) Services() any { return t.cfg.services }

func (t *Table) settings() *settings { return t.cfg }

// Endpoints returns the flattened, cached endpoint list.
func (t *Table) Endpoints() ([]endpoint.Endpoint, error) {
	return t.composite.Endpoints()
}

// ChangeToken returns a token that fires when Endpoints may change.
func (t *Table) ChangeToken() changes.Token {
	return t.composite.ChangeToken()
}

// GroupedEndpoints returns the table endpoints nested under gc, which lets
// a whole table be mounted into another one.
func (t *Table) GroupedEndpoints(gc GroupContext) ([]endpoint.Endpoint, error) {
	return t.composite.GroupedEndpoints(gc)
}

// AddSource registers an additional root source.
func (t *Table) AddSource(src Source) {
	t.sources.Add(src)
}

// RemoveSource removes a root source and reports whether it was registered.
func (t *Table) RemoveSource(src Source) bool {
	return t.sources.Remove(src)
}

// Group creates a top-level group. It panics if prefix is not a valid pattern.
func (t *Table) Group(prefix string) *Group {
	g, err := NewGroup(t, pattern.MustParse(prefix))
	if err != nil {
		panic(err)
	}
	return g
}

// MapGroup creates a top-level group with a parsed prefix.
func (t *Table) MapGroup(prefix *pattern.Pattern) (*Group, error) {
	return NewGroup(t, prefix)
}

// Close releases every subscription and closes the sources that implement
// io.Closer. It is safe to call more than once.
func (t *Table) Close() error {
	return t.composite.Close()
}

// Info contains information about a route for introspection.
type Info struct {
	Name        string            `json:"name,omitempty"`        // Route name, empty if unnamed
	DisplayName string            `json:"display_name"`          // Human readable name
	Methods     []string          `json:"methods,omitempty"`     // HTTP methods, empty for any method
	Pattern     string            `json:"pattern"`               // Full route pattern
	Order       int               `json:"order"`                 // Tie-break order
	Constraints map[string]string `json:"constraints,omitempty"` // Parameter constraints (param -> policy text)
	Parameters  []string          `json:"parameters,omitempty"`  // Parameter names in declaration order
	IsStatic    bool              `json:"is_static"`             // True if route has no parameters
	GroupName   string            `json:"group_name,omitempty"`  // Group name, empty if none
	Tags        []string          `json:"tags,omitempty"`        // Documentation tags
}

// NewInfo describes a route endpoint.
func NewInfo(ep *endpoint.RouteEndpoint) Info {
	md := ep.Metadata()
	p := ep.Pattern()

	info := Info{
		DisplayName: ep.DisplayName(),
		Pattern:     p.String(),
		Order:       ep.Order(),
		Parameters:  p.ParameterNames(),
		IsStatic:    p.IsStatic(),
	}
	if name, ok := endpoint.Last[endpoint.Name](md); ok {
		info.Name = string(name)
	}
	if methods, ok := endpoint.Last[endpoint.Methods](md); ok {
		info.Methods = slices.Clone(methods)
	}
	if group, ok := endpoint.Last[endpoint.GroupName](md); ok {
		info.GroupName = string(group)
	}
	for _, tags := range endpoint.All[endpoint.Tags](md) {
		for _, tag := range tags {
			if !slices.Contains(info.Tags, tag) {
				info.Tags = append(info.Tags, tag)
			}
		}
	}
	for _, prm := range p.Parameters() {
		if len(prm.Policies) == 0 {
			continue
		}
		if info.Constraints == nil {
			info.Constraints = make(map[string]string)
		}
		texts := make([]string, len(prm.Policies))
		for i, pol := range prm.Policies {
			texts[i] = pol.Content
		}
		info.Constraints[prm.Name] = strings.Join(texts, ":")
	}
	return info
}

// Routes returns information about every route endpoint, sorted by
// pattern, then by methods. Endpoints without a pattern are skipped.
func (t *Table) Routes() ([]Info, error) {
	eps, err := t.Endpoints()
	if err != nil {
		return nil, err
	}
	infos := make([]Info, 0, len(eps))
	for _, ep := range eps {
		if re, ok := ep.(*endpoint.RouteEndpoint); ok {
			infos = append(infos, NewInfo(re))
		}
	}
	slices.SortStableFunc(infos, func(a, b Info) int {
		return cmp.Or(
			cmp.Compare(a.Pattern, b.Pattern),
			cmp.Compare(strings.Join(a.Methods, ","), strings.Join(b.Methods, ",")),
		)
	})
	return infos, nil
}
