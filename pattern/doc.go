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

// Package pattern provides immutable parsed route templates and the
// combination operation used to prefix them.
//
// A Pattern is built once by [Parse] and never modified afterwards. Every
// operation that derives a new template, most notably [Combine], returns a
// fresh instance and leaves its operands untouched.
//
// # Syntax
//
//	/users/{id}              named parameter
//	/users/{id:int}          parameter with an inline constraint
//	/files/{*path}           catch-all (last segment only)
//	/posts/{page?}           optional parameter
//	/posts/{sort=date}       parameter with a default value
//	/users/:id               whole-segment parameter, colon form
//	/files/{name}.{ext}      complex segment
//
// # Combination
//
// Combine joins two patterns with exactly one separating slash, concatenates
// their segments and rejects duplicate parameter names:
//
//	api := pattern.MustParse("/api/{tenant}")
//	users := pattern.MustParse("/users/{id:int}")
//	full, err := pattern.Combine(api, users) // "/api/{tenant}/users/{id:int}"
//
// [Empty] is the identity element of Combine.
package pattern
