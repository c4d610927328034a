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

import "sync"

// Composite returns a token that fires as soon as any of tokens fires.
//
// Nil tokens are ignored. With no tokens the result is [Never]; with exactly
// one token that token is returned unchanged.
//
// The composite registers on its inputs only while it has callbacks of its
// own: the first Register subscribes, and stopping the last outstanding
// registration releases the inputs again. Once the composite fires, its
// input registrations are stopped. Calling Done keeps the inputs subscribed
// until the composite fires.
func Composite(tokens ...Token) Token {
	live := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t != nil {
			live = append(live, t)
		}
	}

	switch len(live) {
	case 0:
		return Never()
	case 1:
		return live[0]
	}

	c := &compositeToken{inputs: live, s: NewSignal()}
	for _, t := range live {
		if t.HasChanged() {
			c.s.Fire()
			break
		}
	}
	return c
}

type compositeToken struct {
	inputs []Token
	s      *Signal

	mu     sync.Mutex
	refs   int
	pinned bool
	gen    uint64         // bumped whenever the subscription is dropped
	regs   []Registration // nil while not subscribed
}

func (c *compositeToken) HasChanged() bool {
	if c.s.Fired() {
		return true
	}
	for _, t := range c.inputs {
		if t.HasChanged() {
			c.fire()
			return true
		}
	}
	return false
}

func (c *compositeToken) Register(callback func()) Registration {
	c.mu.Lock()
	c.refs++
	c.mu.Unlock()
	c.subscribe()

	return &compositeRegistration{c: c, cb: c.s.register(callback)}
}

func (c *compositeToken) Done() <-chan struct{} {
	c.mu.Lock()
	c.pinned = true
	c.mu.Unlock()
	c.subscribe()
	return c.s.done
}

// subscribe registers on every input unless a subscription is already in
// place. Inputs are called without holding c.mu since they may fire
// synchronously.
func (c *compositeToken) subscribe() {
	c.mu.Lock()
	if c.regs != nil || c.s.Fired() {
		c.mu.Unlock()
		return
	}
	c.regs = []Registration{}
	gen := c.gen
	c.mu.Unlock()

	regs := make([]Registration, 0, len(c.inputs))
	for _, t := range c.inputs {
		regs = append(regs, t.Register(c.fire))
	}

	c.mu.Lock()
	if c.gen == gen && !c.s.Fired() {
		c.regs = regs
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	// Released or fired while subscribing.
	stopAll(regs)
}

func (c *compositeToken) fire() {
	c.s.Fire()
	c.mu.Lock()
	regs := c.dropLocked()
	c.mu.Unlock()
	stopAll(regs)
}

// release is called when one of the composite's own callbacks is stopped.
func (c *compositeToken) release() {
	c.mu.Lock()
	c.refs--
	var regs []Registration
	if c.refs == 0 && !c.pinned {
		regs = c.dropLocked()
	}
	c.mu.Unlock()
	stopAll(regs)
}

func (c *compositeToken) dropLocked() []Registration {
	regs := c.regs
	c.regs = nil
	c.gen++
	return regs
}

func stopAll(regs []Registration) {
	for _, r := range regs {
		r.Stop()
	}
}

type compositeRegistration struct {
	c  *compositeToken
	cb Registration
}

func (r *compositeRegistration) Stop() bool {
	if !r.cb.Stop() {
		return false
	}
	r.c.release()
	return true
}
