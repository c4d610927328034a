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

package endpoint

import (
	"fmt"
	"math"

	"rivaas.dev/endpoints/pattern"
)

// OrderFallback marks an endpoint that should only match when nothing else does.
const OrderFallback = math.MaxInt32

// Handler is an opaque dispatch target. This package never inspects or calls it.
type Handler = any

// Endpoint is a built, immutable endpoint.
type Endpoint interface {
	Handler() Handler
	Metadata() Metadata
	DisplayName() string
}

// Basic is an endpoint without a route pattern.
type Basic struct {
	handler     Handler
	metadata    Metadata
	displayName string
}

// NewEndpoint returns an endpoint that is not routable by pattern.
func NewEndpoint(handler Handler, displayName string, metadata ...any) *Basic {
	return &Basic{
		handler:     handler,
		metadata:    NewMetadata(metadata...),
		displayName: displayName,
	}
}

// Handler returns the dispatch target.
func (e *Basic) Handler() Handler { return e.handler }

// Metadata returns the endpoint metadata.
func (e *Basic) Metadata() Metadata { return e.metadata }

// DisplayName returns the human readable name.
func (e *Basic) DisplayName() string { return e.displayName }

func (e *Basic) String() string { return e.displayName }

// RouteEndpoint is an endpoint matched by a route pattern.
// Two route endpoints are distinct values even when all fields are equal.
type RouteEndpoint struct {
	Basic
	pattern *pattern.Pattern
	order   int
}

// NewRouteEndpoint returns a route endpoint with a fully prefixed pattern.
func NewRouteEndpoint(handler Handler, p *pattern.Pattern, order int, displayName string, metadata ...any) *RouteEndpoint {
	if p == nil {
		p = pattern.Empty()
	}
	return &RouteEndpoint{
		Basic: Basic{
			handler:     handler,
			metadata:    NewMetadata(metadata...),
			displayName: displayName,
		},
		pattern: p,
		order:   order,
	}
}

// Pattern returns the full route pattern.
func (e *RouteEndpoint) Pattern() *pattern.Pattern { return e.pattern }

// Order returns the tie-break order used when patterns have equal precedence.
// Lower values win.
func (e *RouteEndpoint) Order() int { return e.order }

func (e *RouteEndpoint) String() string {
	return fmt.Sprintf("%s (%s, order %d)", e.displayName, e.pattern, e.order)
}
