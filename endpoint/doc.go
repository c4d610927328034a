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

// Package endpoint defines built endpoints, their metadata and the mutable
// builder that conventions customize before an endpoint is finalized.
//
// A [Builder] is the pre-build form of a route endpoint. Conventions receive
// the builder, may change its handler, order, display name, group-relative
// pattern and metadata, and are applied in a fixed order by whoever owns the
// builder. [Builder.Build] produces an immutable [RouteEndpoint].
//
// Metadata is an ordered list of arbitrary values. Its "kind" is the Go type
// of each item: [Last] returns the most recently added item of a kind, which
// lets later conventions override earlier ones, and [All] enumerates every
// item of a kind in insertion order.
//
//	b := endpoint.NewBuilder(handler, pattern.MustParse("/users/{id}"), 0)
//	endpoint.WithName("get-user")(b)
//	ep, err := b.Build()
//	name, _ := endpoint.Last[endpoint.Name](ep.Metadata())
package endpoint
