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

package changes

import (
	"sync"
	"sync/atomic"
)

// Token is a one-shot change notification.
type Token interface {
	// HasChanged reports whether the token has fired.
	HasChanged() bool

	// Register arranges for callback to run when the token fires.
	// If the token has already fired, callback runs before Register returns.
	Register(callback func()) Registration

	// Done returns a channel that is closed when the token fires.
	// Tokens that never fire return a nil channel.
	Done() <-chan struct{}
}

// Registration is the handle returned by [Token.Register].
type Registration interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the callback; false means it already ran or was already stopped.
	Stop() bool
}

const (
	callbackPending int32 = iota
	callbackRan
	callbackStopped
)

type callback struct {
	fn     func()
	state  atomic.Int32
	signal *Signal
}

func (c *callback) Stop() bool {
	if !c.state.CompareAndSwap(callbackPending, callbackStopped) {
		return false
	}
	if c.signal != nil {
		c.signal.remove(c)
	}
	return true
}

func (c *callback) run() {
	if c.state.CompareAndSwap(callbackPending, callbackRan) {
		c.fn()
	}
}

// Signal is the producer side of a [Token].
// The zero value is not usable; create one with [NewSignal].
type Signal struct {
	mu        sync.Mutex
	fired     bool
	done      chan struct{}
	callbacks []*callback
	token     signalToken
}

// NewSignal returns a signal that has not fired.
func NewSignal() *Signal {
	s := &Signal{done: make(chan struct{})}
	s.token = signalToken{s: s}
	return s
}

// Token returns the consumer view of the signal.
// Every call returns an equivalent token.
func (s *Signal) Token() Token {
	return s.token
}

// Fire marks the signal as changed and runs the registered callbacks.
// It reports whether this call fired the signal; subsequent calls are no-ops.
func (s *Signal) Fire() bool {
	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		return false
	}
	s.fired = true
	close(s.done)
	pending := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	for _, cb := range pending {
		cb.run()
	}
	return true
}

// Fired reports whether the signal has fired.
func (s *Signal) Fired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

func (s *Signal) register(fn func()) Registration {
	cb := &callback{fn: fn, signal: s}

	s.mu.Lock()
	if s.fired {
		s.mu.Unlock()
		cb.run()
		return cb
	}
	s.callbacks = append(s.callbacks, cb)
	s.mu.Unlock()
	return cb
}

func (s *Signal) remove(cb *callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.callbacks {
		if c == cb {
			s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
			return
		}
	}
}

type signalToken struct {
	s *Signal
}

func (t signalToken) HasChanged() bool { return t.s.Fired() }

func (t signalToken) Register(callback func()) Registration {
	return t.s.register(callback)
}

func (t signalToken) Done() <-chan struct{} { return t.s.done }

type neverToken struct{}

type noopRegistration struct{}

func (noopRegistration) Stop() bool { return false }

// Never returns a token that never fires. Registering on it is a no-op.
func Never() Token {
	return neverToken{}
}

func (neverToken) HasChanged() bool { return false }
func (neverToken) Register(func()) Registration { return noopRegistration{} }
func (neverToken) Done() <-chan struct{} { return nil }
