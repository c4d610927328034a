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
	"errors"
	"fmt"
)

var (
	// ErrUnknownFormat indicates that no decoder is registered for a format.
	ErrUnknownFormat = errors.New("unknown manifest format")

	// ErrUnknownHandler indicates that a route names a handler that is not registered.
	ErrUnknownHandler = errors.New("unknown handler")

	// ErrDuplicateHandler indicates that a handler name was registered twice.
	ErrDuplicateHandler = errors.New("handler already registered")

	// ErrEmptyHandlerName indicates that a handler was registered without a name.
	ErrEmptyHandlerName = errors.New("handler name must not be empty")

	// ErrNilLoader indicates that a source was created without a loader.
	ErrNilLoader = errors.New("manifest loader must not be nil")

	// ErrNilHandlers indicates that a manifest was built without a handler registry.
	ErrNilHandlers = errors.New("handler registry must not be nil")

	// ErrWatchUnsupported indicates that the loader cannot report changes.
	ErrWatchUnsupported = errors.New("manifest loader does not support watching")
)

// Error describes a manifest failure with its location.
type Error struct {
	Source    string // Where the error occurred (e.g., "yaml", "schema", "file:routes.yaml")
	Field     string // Document path (e.g., "groups[0].routes[1]"), optional
	Operation string // Operation being performed (e.g., "decode", "validate", "build")
	Err       error  // Underlying error
}

// Error returns a formatted error message with context information.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("manifest error in %s.%s during %s: %v",
			e.Source, e.Field, e.Operation, e.Err)
	}
	return fmt.Sprintf("manifest error in %s during %s: %v",
		e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error without field information.
func NewError(source, operation string, err error) *Error {
	return &Error{
		Source:    source,
		Operation: operation,
		Err:       err,
	}
}

// NewFieldError creates an Error located at a document field.
func NewFieldError(source, field, operation string, err error) *Error {
	return &Error{
		Source:    source,
		Field:     field,
		Operation: operation,
		Err:       err,
	}
}

// UnknownHandlerError names the handler that could not be resolved.
type UnknownHandlerError struct {
	Name string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("handler %q is not registered", e.Name)
}

// Unwrap returns ErrUnknownHandler.
func (e *UnknownHandlerError) Unwrap() error {
	return ErrUnknownHandler
}
