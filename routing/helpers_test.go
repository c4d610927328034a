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
	"sync"
	"sync/atomic"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
	"rivaas.dev/endpoints/pattern"
)

// fakeSource is a changeable source that counts Endpoints calls.
type fakeSource struct {
	mu     sync.Mutex
	eps    []endpoint.Endpoint
	err    error
	signal *changes.Signal
	calls  atomic.Int32
	closed atomic.Int32
}

func newFakeSource(paths ...string) *fakeSource {
	s := &fakeSource{signal: changes.NewSignal()}
	s.eps = routeEndpoints(paths...)
	return s
}

func routeEndpoints(paths ...string) []endpoint.Endpoint {
	eps := make([]endpoint.Endpoint, 0, len(paths))
	for _, p := range paths {
		eps = append(eps, endpoint.NewRouteEndpoint("h"+p, pattern.MustParse(p), 0, p))
	}
	return eps
}

func (s *fakeSource) Endpoints() ([]endpoint.Endpoint, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eps, s.err
}

func (s *fakeSource) ChangeToken() changes.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signal.Token()
}

func (s *fakeSource) Close() error {
	s.closed.Add(1)
	return nil
}

// change replaces the endpoints and fires the current token.
func (s *fakeSource) change(paths ...string) {
	s.mu.Lock()
	s.eps = routeEndpoints(paths...)
	old := s.signal
	s.signal = changes.NewSignal()
	s.mu.Unlock()
	old.Fire()
}

func (s *fakeSource) fail(err error) {
	s.mu.Lock()
	s.err = err
	old := s.signal
	s.signal = changes.NewSignal()
	s.mu.Unlock()
	old.Fire()
}

// diagRecorder collects diagnostic events.
type diagRecorder struct {
	mu     sync.Mutex
	events []DiagnosticEvent
}

func (r *diagRecorder) OnDiagnostic(e DiagnosticEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *diagRecorder) count(kind DiagnosticKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func rawTexts(eps []endpoint.Endpoint) []string {
	out := make([]string, 0, len(eps))
	for _, ep := range eps {
		if re, ok := ep.(*endpoint.RouteEndpoint); ok {
			out = append(out, re.Pattern().RawText())
		}
	}
	return out
}

func mustPattern(text string) *pattern.Pattern {
	return pattern.MustParse(text)
}
