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

// DiagnosticEvent represents a notable event in the life of a route table.
//
// Diagnostic events are optional. Route tables behave the same whether they
// are collected or not.
type DiagnosticEvent struct {
	Kind    DiagnosticKind
	Message string
	Fields  map[string]any // Structured context
}

// DiagnosticKind categorizes diagnostic events.
type DiagnosticKind string

const (
	// Cache diagnostics
	DiagRegenerated      DiagnosticKind = "endpoints_regenerated"
	DiagRegenerateFailed DiagnosticKind = "endpoints_regenerate_failed"

	// Change handling diagnostics
	DiagChangePassLimit  DiagnosticKind = "change_pass_limit_reached"
	DiagReentrantChange  DiagnosticKind = "change_reentrant"
	DiagChangeAfterClose DiagnosticKind = "change_after_close"
)

// DiagnosticHandler receives diagnostic events.
// Implementations may log, emit metrics, trace events, or ignore them.
//
// Example with logging:
//
//	handler := routing.DiagnosticHandlerFunc(func(e routing.DiagnosticEvent) {
//	    slog.Warn(e.Message, "kind", e.Kind, "fields", e.Fields)
//	})
//	t := routing.MustNew(routing.WithDiagnostics(handler))
type DiagnosticHandler interface {
	OnDiagnostic(DiagnosticEvent)
}

// DiagnosticHandlerFunc is a function adapter for DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) OnDiagnostic(e DiagnosticEvent) {
	f(e)
}
