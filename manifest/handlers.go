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
	"slices"
	"sync"

	"rivaas.dev/endpoints/endpoint"
)

// Resolver resolves handler names that were not registered.
type Resolver func(name string) (endpoint.Handler, bool)

// Handlers maps the handler names used in manifests to handlers.
// It is safe for concurrent use.
type Handlers struct {
	mu       sync.RWMutex
	byName   map[string]endpoint.Handler
	fallback Resolver
}

// NewHandlers returns an empty registry.
func NewHandlers() *Handlers {
	return &Handlers{byName: make(map[string]endpoint.Handler)}
}

// Register adds a named handler.
//
// Errors:
//   - ErrEmptyHandlerName if name is empty
//   - ErrDuplicateHandler if name is already registered
func (h *Handlers) Register(name string, handler endpoint.Handler) error {
	if name == "" {
		return ErrEmptyHandlerName
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byName[name]; ok {
		return &Error{Source: "handlers", Field: name, Operation: "register", Err: ErrDuplicateHandler}
	}
	h.byName[name] = handler
	return nil
}

// MustRegister is like Register but panics on error.
func (h *Handlers) MustRegister(name string, handler endpoint.Handler) *Handlers {
	if err := h.Register(name, handler); err != nil {
		panic(err)
	}
	return h
}

// SetFallback sets the resolver consulted for unregistered names.
func (h *Handlers) SetFallback(r Resolver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fallback = r
}

// Lookup returns the handler registered under name.
// It returns an *UnknownHandlerError if neither the registry nor the
// fallback resolver knows the name.
func (h *Handlers) Lookup(name string) (endpoint.Handler, error) {
	h.mu.RLock()
	handler, ok := h.byName[name]
	fallback := h.fallback
	h.mu.RUnlock()

	if ok {
		return handler, nil
	}
	if fallback != nil {
		if handler, ok = fallback(name); ok {
			return handler, nil
		}
	}
	return nil, &UnknownHandlerError{Name: name}
}

// Names returns the registered names in sorted order.
func (h *Handlers) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.byName))
	for name := range h.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
