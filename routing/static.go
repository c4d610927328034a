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

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
)

// Static is a source of prebuilt endpoints that never changes.
// Grouping it rebuilds each endpoint with [Wrap].
type Static struct {
	endpoints []endpoint.Endpoint
}

// NewStatic returns a source holding eps.
func NewStatic(eps ...endpoint.Endpoint) *Static {
	return &Static{endpoints: slices.Clone(eps)}
}

// Endpoints returns the fixed endpoints.
func (s *Static) Endpoints() ([]endpoint.Endpoint, error) {
	return slices.Clip(s.endpoints), nil
}

// ChangeToken returns a token that never fires.
func (s *Static) ChangeToken() changes.Token {
	return changes.Never()
}
