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
	"io"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"rivaas.dev/endpoints/changes"
	"rivaas.dev/endpoints/endpoint"
)

// Composite aggregates the sources of a [Collection] into one source.
//
// The concatenated endpoints are cached after the first read and rebuilt
// only when the collection changes or a child token fires. The first call
// to ChangeToken or Endpoints subscribes to every child token; after each
// change the composite re-subscribes before releasing the old
// registrations, so no change can slip through unobserved.
//
// Children's Endpoints are called with the composite lock held; conventions
// must not read the same composite.
type Composite struct {
	sources  *Collection
	settings *settings

	mu        sync.Mutex
	endpoints []endpoint.Endpoint
	built     bool
	signal    *changes.Signal // nil until a token is requested
	regs      []changes.Registration

	unsubscribe func()
	handling    atomic.Bool
	pending     atomic.Bool
	subscribing atomic.Bool
	closed      atomic.Bool
}

// NewComposite returns a composite observing sources.
func NewComposite(sources *Collection, opts ...Option) (*Composite, error) {
	if sources == nil {
		return nil, ErrNilCollection
	}
	s, err := newSettings(opts...)
	if err != nil {
		return nil, err
	}
	return newComposite(sources, s), nil
}

func newComposite(sources *Collection, s *settings) *Composite {
	c := &Composite{sources: sources, settings: s}
	c.unsubscribe = sources.Subscribe(c.handleChange)
	return c
}

// Endpoints returns the cached endpoints, building them on first use.
// It returns ErrClosed after Close.
func (c *Composite) Endpoints() ([]endpoint.Endpoint, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.drainPending()

	c.mu.Lock()
	if c.signal == nil {
		c.createTokenLocked()
	}
	var err error
	if !c.built {
		err = c.collectLocked("read")
	}
	eps := c.endpoints
	c.mu.Unlock()

	c.drainPending()
	if err != nil {
		return nil, err
	}
	return slices.Clip(eps), nil
}

// ChangeToken returns the token for the current generation of endpoints.
// The same token is returned until the next change. After Close it returns
// a token that never fires.
func (c *Composite) ChangeToken() changes.Token {
	if c.closed.Load() {
		return changes.Never()
	}
	c.mu.Lock()
	if c.signal == nil {
		c.createTokenLocked()
	}
	tok := c.signal.Token()
	c.mu.Unlock()

	c.drainPending()
	return tok
}

// GroupedEndpoints returns the endpoints of every child nested under gc.
// The result is not cached.
func (c *Composite) GroupedEndpoints(gc GroupContext) ([]endpoint.Endpoint, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	var out []endpoint.Endpoint
	for _, src := range c.sources.Snapshot() {
		eps, err := Grouped(src, gc)
		if err != nil {
			return nil, err
		}
		out = append(out, eps...)
	}
	return out, nil
}

// Close unsubscribes from the collection and every child token and closes
// children that implement io.Closer. It is safe to call more than once.
func (c *Composite) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.unsubscribe()

	c.mu.Lock()
	regs := c.regs
	c.regs = nil
	c.endpoints = nil
	c.built = false
	c.mu.Unlock()

	for _, r := range regs {
		r.Stop()
	}

	var errs []error
	for _, src := range c.sources.Snapshot() {
		if cl, ok := src.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// createTokenLocked subscribes to every child token and installs a fresh
// signal. Children whose token already fired mark a pending change instead
// of re-entering, since c.mu is held.
func (c *Composite) createTokenLocked() {
	c.subscribing.Store(true)
	children := c.sources.Snapshot()
	regs := make([]changes.Registration, 0, len(children))
	for _, src := range children {
		regs = append(regs, src.ChangeToken().Register(c.handleChange))
	}
	c.subscribing.Store(false)

	c.signal = changes.NewSignal()
	c.regs = regs
}

func (c *Composite) collectLocked(trigger string) error {
	done := c.settings.instruments.startBuild(trigger)
	start := time.Now()

	var out []endpoint.Endpoint
	for _, src := range c.sources.Snapshot() {
		eps, err := src.Endpoints()
		if err != nil {
			c.endpoints, c.built = nil, false
			done(0, err)
			c.settings.logger.Warn("failed to build endpoints", "trigger", trigger, "error", err)
			c.settings.emit(DiagRegenerateFailed, "endpoint build failed", map[string]any{
				"trigger": trigger,
				"error":   err.Error(),
			})
			return err
		}
		out = append(out, eps...)
	}

	c.endpoints, c.built = out, true
	done(len(out), nil)
	c.settings.logger.Debug("endpoints built", "trigger", trigger, "endpoints", len(out), "duration", time.Since(start))
	c.settings.emit(DiagRegenerated, "endpoints built", map[string]any{
		"trigger":   trigger,
		"endpoints": len(out),
	})
	return nil
}

// handleChange runs whenever the collection changes or a child token fires.
//
// Every change first marks the composite as pending and then competes for
// the handler. A change that loses only leaves the mark behind; the running
// handler checks it again after releasing the flag, so a change arriving
// while the handler returns is never dropped.
func (c *Composite) handleChange() {
	if c.closed.Load() {
		c.settings.emit(DiagChangeAfterClose, "change notification ignored after close", nil)
		return
	}
	c.pending.Store(true)
	if c.subscribing.Load() {
		return
	}

	for first := true; ; first = false {
		if !c.handling.CompareAndSwap(false, true) {
			if first {
				c.settings.emit(DiagReentrantChange, "change coalesced into running pass", nil)
			}
			return
		}

		passes, limited := c.process()
		c.handling.Store(false)
		c.settings.instruments.recordChange(passes)

		if limited || c.closed.Load() || !c.pending.Load() {
			return
		}
	}
}

func (c *Composite) process() (passes int, limited bool) {
	for {
		c.pending.Store(false)
		c.regenerate()
		passes++
		if !c.pending.Load() || c.closed.Load() {
			return passes, false
		}
		if passes >= c.settings.maxPasses {
			c.settings.logger.Warn("change pass limit reached; endpoints will be rebuilt on next read", "passes", passes)
			c.settings.emit(DiagChangePassLimit, "change pass limit reached", map[string]any{"passes": passes})
			return passes, true
		}
	}
}

// regenerate replaces the token and the cached endpoints. The old
// registrations are released and the old token fired outside the lock.
func (c *Composite) regenerate() {
	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return
	}
	oldSignal, oldRegs := c.signal, c.regs
	if oldSignal != nil {
		c.createTokenLocked()
	}
	if c.built {
		if c.pending.Load() {
			// Another pass follows; build once, on that pass or on the next read.
			c.endpoints, c.built = nil, false
		} else {
			_ = c.collectLocked("change")
		}
	}
	c.mu.Unlock()

	for _, r := range oldRegs {
		r.Stop()
	}
	if oldSignal != nil {
		oldSignal.Fire()
	}
}

func (c *Composite) drainPending() {
	if c.pending.Load() && !c.handling.Load() {
		c.handleChange()
	}
}
