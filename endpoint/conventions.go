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

// WithName sets the route name.
func WithName(name string) Convention {
	return func(b *Builder) { b.AddMetadata(Name(name)) }
}

// WithGroupName sets the group name.
func WithGroupName(name string) Convention {
	return func(b *Builder) { b.AddMetadata(GroupName(name)) }
}

// WithTags adds documentation tags.
func WithTags(tags ...string) Convention {
	return func(b *Builder) { b.AddMetadata(Tags(tags)) }
}

// WithDescription sets the long description.
func WithDescription(text string) Convention {
	return func(b *Builder) { b.AddMetadata(Description(text)) }
}

// WithSummary sets the one-line summary.
func WithSummary(text string) Convention {
	return func(b *Builder) { b.AddMetadata(Summary(text)) }
}

// WithMetadata appends arbitrary metadata items.
func WithMetadata(items ...any) Convention {
	return func(b *Builder) { b.AddMetadata(items...) }
}

// WithOrder sets the tie-break order.
func WithOrder(order int) Convention {
	return func(b *Builder) { b.Order = order }
}

// WithDisplayName overrides the display name.
func WithDisplayName(name string) Convention {
	return func(b *Builder) { b.DisplayName = name }
}
