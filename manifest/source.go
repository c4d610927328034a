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
	"context"
	"log/slog"
	"sync"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/routing"
)

// Loader reads a manifest document.
type Loader interface {
	// Load returns the current document.
	Load(ctx context.Context) (*Document, error)
}

// Watcher is a Loader that reports changes.
type Watcher interface {
	Loader

	// Watch calls onChange whenever the document may have changed.
	// It blocks until ctx is done or watching fails.
	Watch(ctx context.Context, onChange func()) error
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the structured logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTableOptions configures every route table built from the manifest.
func WithTableOptions(opts ...routing.Option) Option {
	return func(s *Source) {
		s.tableOpts = append(s.tableOpts, opts...)
	}
}

// Source serves the endpoints of a manifest.
//
// The endpoints of the current document live in a [routing.Table]. Reload
// builds a complete new table before swapping it in, so readers see either
// the old routes or the new ones. A failed reload keeps the old table.
type Source struct {
	loader    Loader
	handlers  *Handlers
	logger    *slog.Logger
	tableOpts []routing.Option

	mu         sync.RWMutex
	table      *routing.Table
	signal     *changes.Signal
	generation uint64
	closed     bool
}

// NewSource loads the manifest once and returns a source serving it.
//
// Errors:
//   - ErrNilLoader if loader is nil
//   - ErrNilHandlers if handlers is nil
//   - any load or build error of the initial document
func NewSource(ctx context.Context, loader Loader, handlers *Handlers, opts ...Option) (*Source, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	if handlers == nil {
		return nil, ErrNilHandlers
	}
	s := &Source{
		loader:   loader,
		handlers: handlers,
		logger:   slog.New(slog.DiscardHandler),
		signal:   changes.NewSignal(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tbl, err := s.build(ctx)
	if err != nil {
		return nil, err
	}
	s.table = tbl
	s.generation = 1
	return s, nil
}

func (s *Source) build(ctx context.Context) (*routing.Table, error) {
	doc, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Build(doc, s.handlers, s.tableOpts...)
}

// Reload loads the manifest again and swaps in the new routes. On success
// the current change token fires. On failure the previous routes stay in
// place and the error is logged and returned.
func (s *Source) Reload(ctx context.Context) error {
	tbl, err := s.build(ctx)
	if err != nil {
		s.logger.Warn("manifest reload failed; keeping previous routes", "error", err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = tbl.Close()
		return routing.ErrClosed
	}
	old, oldSignal := s.table, s.signal
	s.table, s.signal = tbl, changes.NewSignal()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	if err = old.Close(); err != nil {
		s.logger.Warn("failed to close previous route table", "error", err)
	}
	s.logger.Info("manifest reloaded", "generation", gen)
	oldSignal.Fire()
	return nil
}

// Watch reloads the manifest whenever the loader reports a change.
// It blocks until ctx is done. Reload failures are logged and do not stop
// watching.
//
// Errors:
//   - ErrWatchUnsupported if the loader does not implement Watcher
func (s *Source) Watch(ctx context.Context) error {
	w, ok := s.loader.(Watcher)
	if !ok {
		return ErrWatchUnsupported
	}
	return w.Watch(ctx, func() {
		_ = s.Reload(ctx)
	})
}

// Endpoints returns the endpoints of the current manifest.
func (s *Source) Endpoints() ([]endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, routing.ErrClosed
	}
	return s.table.Endpoints()
}

// GroupedEndpoints returns the endpoints of the current manifest nested under gc.
func (s *Source) GroupedEndpoints(gc routing.GroupContext) ([]endpoint.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, routing.ErrClosed
	}
	return s.table.GroupedEndpoints(gc)
}

// ChangeToken returns a token that fires on the next successful reload.
func (s *Source) ChangeToken() changes.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return changes.Never()
	}
	return s.signal.Token()
}

// Routes describes the routes of the current manifest.
func (s *Source) Routes() ([]routing.Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, routing.ErrClosed
	}
	return s.table.Routes()
}

// Generation counts successful loads, starting at 1.
func (s *Source) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Close releases the current route table. It is safe to call more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	tbl := s.table
	s.mu.Unlock()
	return tbl.Close()
}
