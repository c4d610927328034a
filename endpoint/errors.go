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

import (
	"errors"
	"fmt"
)

// ErrRoutePatternMutation indicates that a convention left a builder in a
// state where its full route pattern can no longer be derived.
var ErrRoutePatternMutation = errors.New("route pattern mutation is not supported")

// MutationError reports an unsupported change to [Builder.Pattern].
type MutationError struct {
	Attempted string
	Expected  string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("route pattern mutation is not supported: attempted %q, expected %q", e.Attempted, e.Expected)
}

// Unwrap returns ErrRoutePatternMutation.
func (e *MutationError) Unwrap() error {
	return ErrRoutePatternMutation
}
