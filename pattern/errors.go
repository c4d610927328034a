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

package pattern

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPattern indicates that a route template could not be parsed.
	ErrInvalidPattern = errors.New("invalid route pattern")

	// ErrRoutePatternConflict indicates that a template declares the same
	// parameter name more than once.
	ErrRoutePatternConflict = errors.New("route pattern parameter conflict")
)

// SyntaxError describes why a route template was rejected.
type SyntaxError struct {
	RawText string
	Reason  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid route pattern %q: %s", e.RawText, e.Reason)
}

// Unwrap returns ErrInvalidPattern.
func (e *SyntaxError) Unwrap() error {
	return ErrInvalidPattern
}

// ConflictError is returned when a parameter name appears twice in one
// template, either written that way or produced by [Combine].
// RawText is the full (combined) template text.
type ConflictError struct {
	RawText   string
	Parameter string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("route pattern %q declares parameter %q more than once", e.RawText, e.Parameter)
}

// Unwrap returns ErrRoutePatternConflict.
func (e *ConflictError) Unwrap() error {
	return ErrRoutePatternConflict
}

func syntaxErr(raw, format string, args ...any) error {
	return &SyntaxError{RawText: raw, Reason: fmt.Sprintf(format, args...)}
}
