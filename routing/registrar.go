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
	"net/http"

	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
)

// Registrar is implemented by [Table] and [Group] to receive registrations.
type Registrar interface {
	// Sources returns the collection new sources are registered into.
	Sources() *Collection

	// Services returns the value passed to builders as Builder.Services.
	Services() any
}

type settingsProvider interface {
	settings() *settings
}

func settingsOf(r Registrar) *settings {
	if sp, ok := r.(settingsProvider); ok {
		return sp.settings()
	}
	s, err := newSettings()
	if err != nil {
		// Unreachable with the default no-op providers.
		panic(err)
	}
	return s
}

// Map registers a route in the first [Model] of r, creating one if needed.
func Map(r Registrar, methods []string, p *pattern.Pattern, h endpoint.Handler) *RouteHandle {
	src := r.Sources().findOrAdd(
		func(s Source) bool { _, ok := s.(*Model); return ok },
		func() Source { return NewModelWithServices(r.Services()) },
	)
	return src.(*Model).Add(methods, p, h)
}

// routes implements the verb helpers shared by Table and Group.
type routes struct {
	r Registrar
}

func (rt routes) add(method, path string, h endpoint.Handler) *RouteHandle {
	var methods []string
	if method != "" {
		methods = []string{method}
	}
	return Map(rt.r, methods, pattern.MustParse(path), h)
}

// Get registers a GET route. It panics if path is not a valid pattern.
func (rt routes) Get(path string, h endpoint.Handler) *RouteHandle {
	return rt.add(http.MethodGet, path, h)
}

// Post registers a POST route.
func (rt routes) Post(path string, h endpoint.Handler) *RouteHandle {
	return rt.add(http.MethodPost, path, h)
}

// Put registers a PUT route.
func (rt routes) Put(path string, h endpoint.Handler) *RouteHandle {
	return rt.add(http.MethodPut, path, h)
}

// Patch registers a PATCH route.
func (rt routes) Patch(path string, h endpoint.Handler) *RouteHandle {
	return rt.add(http.MethodPatch, path, h)
}

// Delete registers a DELETE route.
func (rt routes) Delete(path string, h endpoint.Handler) *RouteHandle {
	return rt.add(http.MethodDelete, path, h)
}

// Head registers a HEAD route.
func (rt routes) Head(path string, h endpoint.Handler) *RouteHandle {
	return rt.add(http.MethodHead, path, h)
}

// Options registers an OPTIONS route.
func (rt routes) Options(path string, h endpoint.Handler) *RouteHandle {
	return rt.add(http.MethodOptions, path, h)
}

// Any registers a route that matches every method.
func (rt routes) Any(path string, h endpoint.Handler) *RouteHandle {
	return rt.add("", path, h)
}

// Map registers a route for methods with a parsed pattern.
func (rt routes) Map(methods []string, p *pattern.Pattern, h endpoint.Handler) *RouteHandle {
	return Map(rt.r, methods, p, h)
}
