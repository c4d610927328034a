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

import "slices"

// Metadata is an immutable ordered list of metadata items.
type Metadata struct {
	items []any
}

// NewMetadata copies items into a new collection. Nil items are dropped.
func NewMetadata(items ...any) Metadata {
	if len(items) == 0 {
		return Metadata{}
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	return Metadata{items: out}
}

// Len returns the number of items.
func (m Metadata) Len() int { return len(m.items) }

// Items returns a copy of the items in insertion order.
func (m Metadata) Items() []any { return slices.Clone(m.items) }

// Last returns the most recently added item of kind T.
func Last[T any](m Metadata) (T, bool) {
	for i := len(m.items) - 1; i >= 0; i-- {
		if v, ok := m.items[i].(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// All returns every item of kind T in insertion order.
func All[T any](m Metadata) []T {
	var out []T
	for _, it := range m.items {
		if v, ok := it.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// Has reports whether m contains an item of kind T.
func Has[T any](m Metadata) bool {
	_, ok := Last[T](m)
	return ok
}

// Well-known metadata kinds.
type (
	// Name is the unique route name used for URL generation.
	Name string

	// GroupName names the logical group an endpoint belongs to.
	GroupName string

	// Tags are free-form labels, typically used for documentation.
	Tags []string

	// Description is a long-form endpoint description.
	Description string

	// Summary is a one-line endpoint summary.
	Summary string

	// Methods lists the HTTP methods an endpoint accepts.
	Methods []string
)
