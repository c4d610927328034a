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

import "rivaas.dev/endpoints/pattern"

// Convention customizes a builder before it is built.
// Conventions are invoked exactly once per build and must not assume they
// are idempotent.
type Convention func(*Builder)

// Builder is the mutable, pre-build form of a route endpoint.
//
// Pattern is relative to Prefix. Conventions may replace it; the full pattern
// is recomputed from Prefix and Pattern every time it is requested, so the
// ancestor prefix can never be lost. Assigning the value previously returned
// by RoutePattern back to Pattern is treated as "unchanged".
type Builder struct {
	Handler     Handler
	Pattern     *pattern.Pattern
	Order       int
	DisplayName string

	// Metadata is applied in order; later items of a kind take precedence.
	Metadata []any

	// Services is passed through from the caller that requested the endpoints.
	Services any

	prefix   *pattern.Pattern
	full     *pattern.Pattern
	fullFrom *pattern.Pattern
}

// NewBuilder returns a builder without a prefix.
func NewBuilder(handler Handler, p *pattern.Pattern, order int) *Builder {
	return NewPrefixedBuilder(pattern.Empty(), p, handler, order)
}

// NewPrefixedBuilder returns a builder whose pattern is nested under prefix.
func NewPrefixedBuilder(prefix, p *pattern.Pattern, handler Handler, order int) *Builder {
	if prefix == nil {
		prefix = pattern.Empty()
	}
	return &Builder{
		Handler: handler,
		Pattern: p,
		Order:   order,
		prefix:  prefix,
	}
}

// Prefix returns the accumulated ancestor prefix.
func (b *Builder) Prefix() *pattern.Pattern {
	return b.prefix
}

// AddMetadata appends items to the builder metadata.
func (b *Builder) AddMetadata(items ...any) {
	b.Metadata = append(b.Metadata, items...)
}

// RoutePattern returns Combine(Prefix(), Pattern).
//
// Errors:
//   - *MutationError if Pattern is nil
//   - *pattern.ConflictError if the prefix and pattern share a parameter name
func (b *Builder) RoutePattern() (*pattern.Pattern, error) {
	rel := b.Pattern
	switch {
	case rel == nil:
		return nil, &MutationError{Attempted: "<nil>", Expected: b.expected()}
	case b.full != nil && rel == b.full && rel != b.fullFrom:
		rel = b.fullFrom
		b.Pattern = rel
	}

	if b.full != nil && rel == b.fullFrom {
		return b.full, nil
	}
	full, err := pattern.Combine(b.prefix, rel)
	if err != nil {
		return nil, err
	}
	b.full, b.fullFrom = full, rel
	return full, nil
}

func (b *Builder) expected() string {
	if b.full != nil {
		return b.full.RawText()
	}
	return b.prefix.RawText()
}

// Build produces an immutable endpoint from the current builder state.
// The display name defaults to the full pattern text.
// Building twice without intervening changes yields equivalent endpoints.
func (b *Builder) Build() (*RouteEndpoint, error) {
	full, err := b.RoutePattern()
	if err != nil {
		return nil, err
	}
	name := b.DisplayName
	if name == "" {
		name = full.String()
	}
	return NewRouteEndpoint(b.Handler, full, b.Order, name, b.Metadata...), nil
}

// Apply runs conventions against b in order. Nil conventions are skipped.
func Apply(b *Builder, conventions ...Convention) {
	for _, c := range conventions {
		if c != nil {
			c(b)
		}
	}
}

// ApplyReverse runs conventions against b from last to first.
func ApplyReverse(b *Builder, conventions ...Convention) {
	for i := len(conventions) - 1; i >= 0; i-- {
		if c := conventions[i]; c != nil {
			c(b)
		}
	}
}
