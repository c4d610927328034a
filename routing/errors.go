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
	"errors"
	"fmt"
)

var (
	// ErrEmptyPrefix indicates that a group was created without a prefix.
	ErrEmptyPrefix = errors.New("group prefix must not be nil")

	// ErrNilRegistrar indicates that a group was created without a parent.
	ErrNilRegistrar = errors.New("registrar must not be nil")

	// ErrUnsupportedEndpoint indicates that an endpoint without a route
	// pattern was encountered while applying a group prefix.
	ErrUnsupportedEndpoint = errors.New("endpoint type is not supported for grouping")

	// ErrClosed indicates that the source has been closed.
	ErrClosed = errors.New("endpoint source is closed")

	// ErrNilCollection indicates that a composite was created without a source collection.
	ErrNilCollection = errors.New("source collection must not be nil")

	// ErrInvalidMaxPasses indicates that the change pass limit must be positive.
	ErrInvalidMaxPasses = errors.New("max change passes must be positive")
)

// UnsupportedEndpointError names the endpoint type that could not be grouped.
type UnsupportedEndpointError struct {
	Type        string
	DisplayName string
}

func (e *UnsupportedEndpointError) Error() string {
	return fmt.Sprintf("endpoint %q of type %s cannot be grouped: it has no route pattern", e.DisplayName, e.Type)
}

// Unwrap returns ErrUnsupportedEndpoint.
func (e *UnsupportedEndpointError) Unwrap() error {
	return ErrUnsupportedEndpoint
}
