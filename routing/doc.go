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

// Package routing composes endpoint sources into a flat, versioned list of
// route endpoints.
//
// A [Table] is the root of a route tree. Routes registered directly on the
// table live in a terminal [Model] source; [Table.Group] creates a [Group]
// that contributes a path prefix and conventions to everything nested in
// it. Groups register themselves as one source of their parent when they are
// created, so the tree is built by ordinary registration calls:
//
//	t := routing.MustNew()
//	api := t.Group("/api").WithTags("api")
//	users := api.Group("/users/{tenant}")
//	users.Get("/{id:int}", getUser).WithName("get-user")
//
//	eps, err := t.Endpoints() // GET /api/users/{tenant}/{id:int}
//
// # Conventions
//
// Conventions run outer group first, then inner groups, then conventions
// registered on the endpoint itself. Because the last metadata item of a
// kind wins, inner values override outer ones. Finally conventions run
// after all of those, innermost first.
//
// # Caching and change notification
//
// A [Composite] caches the concatenated endpoints of its children and
// regenerates the cache once per change. Every source exposes a one-shot
// change token (see package changes); the composite fires its own token
// after each structural or child change, so consumers re-read endpoints
// only when something actually changed.
//
// Regeneration never recurses: a change that arrives while another one is
// being handled is coalesced into the running pass.
package routing
