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

package manifest

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cast"

	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
	"rivaas.dev/endpoints/routing"
)

// Attribute is a manifest metadata entry attached to an endpoint.
type Attribute struct {
	Key   string
	Value string
}

func (a Attribute) String() string {
	return a.Key + "=" + a.Value
}

// registrar is satisfied by *routing.Table and *routing.Group.
type registrar interface {
	routing.Registrar
	Map(methods []string, p *pattern.Pattern, h endpoint.Handler) *routing.RouteHandle
	MapGroup(prefix *pattern.Pattern) (*routing.Group, error)
}

// Build creates a route table holding every route of doc. The table is
// configured with opts.
//
// Errors:
//   - ErrNilHandlers if handlers is nil
//   - *Error with Operation "build" locating the failing route or group,
//     including routes whose pattern conflicts with an enclosing prefix
func Build(doc *Document, handlers *Handlers, opts ...routing.Option) (*routing.Table, error) {
	if handlers == nil {
		return nil, ErrNilHandlers
	}
	tbl, err := routing.New(opts...)
	if err != nil {
		return nil, err
	}

	var root registrar = tbl
	if doc.Prefix != "" {
		g, err := mapGroup(tbl, doc.Prefix)
		if err != nil {
			_ = tbl.Close()
			return nil, NewFieldError("manifest", "prefix", "build", err)
		}
		root = g
	}

	b := builder{handlers: handlers}
	if err = b.add(root, "", doc.Routes, doc.Groups); err != nil {
		_ = tbl.Close()
		return nil, err
	}

	// Conventions may still produce patterns that do not compose.
	if _, err = tbl.Endpoints(); err != nil {
		_ = tbl.Close()
		return nil, NewFieldError("manifest", "routes", "build", err)
	}
	return tbl, nil
}

type builder struct {
	handlers *Handlers
}

func (b builder) add(r registrar, base string, routes []Route, groups []Group) error {
	for i := range routes {
		field := fmt.Sprintf("%sroutes[%d]", base, i)
		if err := b.route(r, &routes[i]); err != nil {
			return NewFieldError("manifest", field, "build", err)
		}
	}
	for i := range groups {
		field := fmt.Sprintf("%sgroups[%d]", base, i)
		g, err := b.group(r, &groups[i])
		if err != nil {
			return NewFieldError("manifest", field, "build", err)
		}
		if err = b.add(g, field+".", groups[i].Routes, groups[i].Groups); err != nil {
			return err
		}
	}
	return nil
}

func (b builder) route(r registrar, rt *Route) error {
	p, err := pattern.Parse(rt.Path)
	if err != nil {
		return err
	}
	if g, ok := r.(*routing.Group); ok {
		full, err := g.FullPrefix()
		if err != nil {
			return err
		}
		if _, err = pattern.Combine(full, p); err != nil {
			return err
		}
	}
	h, err := b.handlers.Lookup(rt.Handler)
	if err != nil {
		return err
	}
	attrs, err := attributes(rt.Metadata)
	if err != nil {
		return err
	}

	handle := r.Map(rt.Methods, p, h)
	if rt.Name != "" {
		handle.WithName(rt.Name)
	}
	if rt.DisplayName != "" {
		handle.WithDisplayName(rt.DisplayName)
	}
	if rt.Description != "" {
		handle.WithDescription(rt.Description)
	}
	if rt.Summary != "" {
		handle.WithSummary(rt.Summary)
	}
	if len(rt.Tags) > 0 {
		handle.WithTags(rt.Tags...)
	}
	if rt.Order != 0 {
		handle.WithOrder(rt.Order)
	}
	if len(attrs) > 0 {
		handle.WithMetadata(attrs...)
	}
	return nil
}

func (b builder) group(r registrar, gr *Group) (*routing.Group, error) {
	attrs, err := attributes(gr.Metadata)
	if err != nil {
		return nil, err
	}
	g, err := mapGroup(r, gr.Prefix)
	if err != nil {
		return nil, err
	}
	if _, err = g.FullPrefix(); err != nil {
		return nil, err
	}
	if gr.Name != "" {
		g.WithGroupName(gr.Name)
	}
	if len(gr.Tags) > 0 {
		g.WithTags(gr.Tags...)
	}
	if len(attrs) > 0 {
		g.WithMetadata(attrs...)
	}
	return g, nil
}

func mapGroup(r registrar, prefix string) (*routing.Group, error) {
	p, err := pattern.Parse(prefix)
	if err != nil {
		return nil, err
	}
	return r.MapGroup(p)
}

// attributes converts metadata values to strings, ordered by key.
func attributes(md map[string]any) ([]any, error) {
	if len(md) == 0 {
		return nil, nil
	}
	out := make([]any, 0, len(md))
	for _, k := range slices.Sorted(maps.Keys(md)) {
		v, err := cast.ToStringE(md[k])
		if err != nil {
			return nil, fmt.Errorf("metadata %q: %w", k, err)
		}
		out = append(out, Attribute{Key: k, Value: v})
	}
	return out, nil
}
