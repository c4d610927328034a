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
	"slices"
	"strings"
	"sync"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
)

// Model is a terminal source holding route registrations directly.
// Every call to Endpoints or GroupedEndpoints builds fresh endpoints.
type Model struct {
	mu          sync.Mutex
	entries     []*modelEntry
	conventions []endpoint.Convention
	finally     []endpoint.Convention
	signal      *changes.Signal
	services    any
}

type modelEntry struct {
	handler     endpoint.Handler
	pattern     *pattern.Pattern
	methods     []string
	conventions []endpoint.Convention
	finally     []endpoint.Convention
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{signal: changes.NewSignal()}
}

// NewModelWithServices returns an empty model whose builders receive
// services when no enclosing group supplies them.
func NewModelWithServices(services any) *Model {
	m := NewModel()
	m.services = services
	return m
}

// Add registers a route. A nil methods slice matches any method.
func (m *Model) Add(methods []string, p *pattern.Pattern, h endpoint.Handler) *RouteHandle {
	e := &modelEntry{
		handler: h,
		pattern: p,
		methods: normalizeMethods(methods),
	}
	m.mu.Lock()
	m.entries = append(m.entries, e)
	m.unlockAndFire()
	return &RouteHandle{model: m, entry: e}
}

// AddConvention registers conventions applied to every route of the model,
// after group conventions and before route conventions.
func (m *Model) AddConvention(conventions ...endpoint.Convention) {
	m.mu.Lock()
	m.conventions = append(m.conventions, conventions...)
	m.unlockAndFire()
}

// AddFinally registers conventions applied after every route convention.
func (m *Model) AddFinally(conventions ...endpoint.Convention) {
	m.mu.Lock()
	m.finally = append(m.finally, conventions...)
	m.unlockAndFire()
}

// Len returns the number of registered routes.
func (m *Model) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Endpoints builds the routes without a prefix.
func (m *Model) Endpoints() ([]endpoint.Endpoint, error) {
	return m.GroupedEndpoints(GroupContext{Prefix: pattern.Empty(), Services: m.services})
}

// GroupedEndpoints builds the routes under gc.
//
// For every route the order is: group conventions, model conventions, the
// route methods, route conventions, then route, model and group finally
// conventions, each list last first.
func (m *Model) GroupedEndpoints(gc GroupContext) ([]endpoint.Endpoint, error) {
	m.mu.Lock()
	entries := make([]modelEntry, len(m.entries))
	for i, e := range m.entries {
		entries[i] = *e
		entries[i].conventions = slices.Clip(e.conventions)
		entries[i].finally = slices.Clip(e.finally)
	}
	conventions := slices.Clip(m.conventions)
	finally := slices.Clip(m.finally)
	m.mu.Unlock()

	if len(entries) == 0 {
		return nil, nil
	}

	out := make([]endpoint.Endpoint, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		b := endpoint.NewPrefixedBuilder(gc.Prefix, e.pattern, e.handler, 0)
		b.Services = gc.Services
		if b.Services == nil {
			b.Services = m.services
		}

		endpoint.Apply(b, gc.Conventions...)
		endpoint.Apply(b, conventions...)
		if len(e.methods) > 0 {
			b.AddMetadata(endpoint.Methods(slices.Clone(e.methods)))
		}
		endpoint.Apply(b, e.conventions...)
		endpoint.ApplyReverse(b, e.finally...)
		endpoint.ApplyReverse(b, finally...)
		endpoint.ApplyReverse(b, gc.Finally...)

		if b.DisplayName == "" {
			full, err := b.RoutePattern()
			if err != nil {
				return nil, err
			}
			b.DisplayName = displayName(e.methods, full)
		}

		ep, err := b.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}

// ChangeToken fires when a route or convention is added.
func (m *Model) ChangeToken() changes.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.signal.Token()
}

// unlockAndFire must be called with m.mu held.
func (m *Model) unlockAndFire() {
	old := m.signal
	m.signal = changes.NewSignal()
	m.mu.Unlock()
	old.Fire()
}

func (m *Model) addEntryConventions(e *modelEntry, finally bool, conventions []endpoint.Convention) {
	m.mu.Lock()
	if finally {
		e.finally = append(e.finally, conventions...)
	} else {
		e.conventions = append(e.conventions, conventions...)
	}
	m.unlockAndFire()
}

// displayName formats "HTTP: GET, POST /path".
func displayName(methods []string, p *pattern.Pattern) string {
	if len(methods) == 0 {
		return "HTTP: " + p.String()
	}
	return "HTTP: " + strings.Join(methods, ", ") + " " + p.String()
}

func normalizeMethods(methods []string) []string {
	if len(methods) == 0 {
		return nil
	}
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// RouteHandle customizes one route registered on a [Model].
// Every call fires the model change token.
type RouteHandle struct {
	model *Model
	entry *modelEntry
}

// Pattern returns the route pattern relative to its group.
func (h *RouteHandle) Pattern() *pattern.Pattern {
	return h.entry.pattern
}

// Methods returns the HTTP methods of the route.
func (h *RouteHandle) Methods() []string {
	return slices.Clone(h.entry.methods)
}

// Add registers route conventions.
func (h *RouteHandle) Add(conventions ...endpoint.Convention) *RouteHandle {
	h.model.addEntryConventions(h.entry, false, conventions)
	return h
}

// Finally registers conventions that run after every other convention of
// the route, last first.
func (h *RouteHandle) Finally(conventions ...endpoint.Convention) *RouteHandle {
	h.model.addEntryConventions(h.entry, true, conventions)
	return h
}

// WithName sets the route name.
func (h *RouteHandle) WithName(name string) *RouteHandle {
	return h.Add(endpoint.WithName(name))
}

// WithDisplayName sets the display name.
func (h *RouteHandle) WithDisplayName(name string) *RouteHandle {
	return h.Add(endpoint.WithDisplayName(name))
}

// WithOrder sets the tie-break order.
func (h *RouteHandle) WithOrder(order int) *RouteHandle {
	return h.Add(endpoint.WithOrder(order))
}

// WithTags adds documentation tags.
func (h *RouteHandle) WithTags(tags ...string) *RouteHandle {
	return h.Add(endpoint.WithTags(tags...))
}

// WithDescription sets the description.
func (h *RouteHandle) WithDescription(text string) *RouteHandle {
	return h.Add(endpoint.WithDescription(text))
}

// WithSummary sets the summary.
func (h *RouteHandle) WithSummary(text string) *RouteHandle {
	return h.Add(endpoint.WithSummary(text))
}

// WithMetadata appends metadata items.
func (h *RouteHandle) WithMetadata(items ...any) *RouteHandle {
	return h.Add(endpoint.WithMetadata(items...))
}
