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
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// DefaultMaxChangePasses bounds how many times one change notification may
// regenerate the endpoint cache when handling it keeps producing changes.
const DefaultMaxChangePasses = 16

// Option configures a [Table] or [Composite].
type Option func(*settings)

type settings struct {
	logger         *slog.Logger
	diagnostics    DiagnosticHandler
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	services       any
	maxPasses      int

	instruments *instruments
}

func defaultSettings() *settings {
	return &settings{
		logger:         slog.New(slog.DiscardHandler),
		meterProvider:  metricnoop.NewMeterProvider(),
		tracerProvider: tracenoop.NewTracerProvider(),
		maxPasses:      DefaultMaxChangePasses,
	}
}

// newSettings applies opts to the defaults and creates the instruments.
func newSettings(opts ...Option) (*settings, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	if s.maxPasses <= 0 {
		return nil, ErrInvalidMaxPasses
	}
	in, err := newInstruments(s.meterProvider, s.tracerProvider)
	if err != nil {
		return nil, err
	}
	s.instruments = in
	return s, nil
}

// emit sends a diagnostic event if a handler is configured.
func (s *settings) emit(kind DiagnosticKind, msg string, fields map[string]any) {
	if s.diagnostics != nil {
		s.diagnostics.OnDiagnostic(DiagnosticEvent{Kind: kind, Message: msg, Fields: fields})
	}
}

// WithLogger sets the structured logger. By default nothing is logged.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	t := routing.MustNew(routing.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDiagnostics sets a diagnostic handler.
func WithDiagnostics(handler DiagnosticHandler) Option {
	return func(s *settings) {
		s.diagnostics = handler
	}
}

// WithMeterProvider records cache metrics with mp. The default is a no-op provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *settings) {
		if mp != nil {
			s.meterProvider = mp
		}
	}
}

// WithTracerProvider traces cache regeneration with tp. The default is a no-op provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) {
		if tp != nil {
			s.tracerProvider = tp
		}
	}
}

// WithServices sets the value passed to every builder as Builder.Services.
func WithServices(services any) Option {
	return func(s *settings) {
		s.services = services
	}
}

// WithMaxChangePasses bounds the regeneration passes for one change.
//
// Default: 16
func WithMaxChangePasses(n int) Option {
	return func(s *settings) {
		s.maxPasses = n
	}
}
