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
	"fmt"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
)

// Source provides endpoints and notifies when they may have changed.
type Source interface {
	// Endpoints returns the current endpoints.
	// The returned slice must not be modified.
	Endpoints() ([]endpoint.Endpoint, error)

	// ChangeToken returns a token that fires when Endpoints may return
	// a different result. Callers request a new token after each change.
	ChangeToken() changes.Token
}

// GroupContext is what an enclosing group passes to its children.
type GroupContext struct {
	// Prefix is the combined prefix of every enclosing group.
	// pattern.Empty() means no prefix.
	Prefix *pattern.Pattern

	// Conventions are applied outer first, before endpoint conventions.
	Conventions []endpoint.Convention

	// Finally conventions are applied after endpoint conventions, last first.
	Finally []endpoint.Convention

	// Services is handed to every builder unchanged.
	Services any
}

// GroupedSource is a source that can produce its endpoints as if nested
// under an enclosing group.
type GroupedSource interface {
	Source
	GroupedEndpoints(gc GroupContext) ([]endpoint.Endpoint, error)
}

// Grouped returns the endpoints of src nested under gc.
// Sources that do not implement GroupedSource have each of their endpoints
// rebuilt with [Wrap].
func Grouped(src Source, gc GroupContext) ([]endpoint.Endpoint, error) {
	if gs, ok := src.(GroupedSource); ok {
		return gs.GroupedEndpoints(gc)
	}

	eps, err := src.Endpoints()
	if err != nil {
		return nil, err
	}
	out := make([]endpoint.Endpoint, 0, len(eps))
	for _, ep := range eps {
		wrapped, err := Wrap(ep, gc)
		if err != nil {
			return nil, err
		}
		out = append(out, wrapped)
	}
	return out, nil
}

// Wrap rebuilds a route endpoint under gc.
//
// The group conventions run first, then the endpoint's own metadata is
// appended so that it outranks every group value of the same kind, then the
// finally conventions run innermost first.
//
// Endpoints that are not *endpoint.RouteEndpoint yield an
// *UnsupportedEndpointError.
func Wrap(ep endpoint.Endpoint, gc GroupContext) (*endpoint.RouteEndpoint, error) {
	re, ok := ep.(*endpoint.RouteEndpoint)
	if !ok {
		return nil, &UnsupportedEndpointError{Type: fmt.Sprintf("%T", ep), DisplayName: ep.DisplayName()}
	}

	b := endpoint.NewPrefixedBuilder(gc.Prefix, re.Pattern(), re.Handler(), re.Order())
	b.Services = gc.Services
	if re.DisplayName() != re.Pattern().String() {
		b.DisplayName = re.DisplayName()
	}

	endpoint.Apply(b, gc.Conventions...)
	b.AddMetadata(re.Metadata().Items()...)
	endpoint.ApplyReverse(b, gc.Finally...)

	return b.Build()
}

func mergeConventions(outer, own []endpoint.Convention) []endpoint.Convention {
	switch {
	case len(own) == 0:
		return outer
	case len(outer) == 0:
		return own
	}
	merged := make([]endpoint.Convention, 0, len(outer)+len(own))
	merged = append(merged, outer...)
	return append(merged, own...)
}
