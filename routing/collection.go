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
	"slices"
	"sync"

	"rivaas.dev/endpoints/changes"
)

// Collection is an observable, ordered set of sources.
//
// It is owned by whoever registers sources into it; composites only observe
// it. Sources are compared by identity, so they should be pointers.
type Collection struct {
	mu      sync.Mutex
	sources []Source
	signal  *changes.Signal
	subs    []*subscription
}

type subscription struct {
	fn func()
}

// NewCollection returns a collection holding sources.
func NewCollection(sources ...Source) *Collection {
	c := &Collection{signal: changes.NewSignal()}
	for _, s := range sources {
		if s != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// Add appends src and notifies subscribers. Nil sources are ignored.
func (c *Collection) Add(src Source) {
	if src == nil {
		return
	}
	c.mu.Lock()
	c.sources = append(c.sources, src)
	c.unlockAndNotify()
}

// Remove removes the first occurrence of src and reports whether it was present.
func (c *Collection) Remove(src Source) bool {
	c.mu.Lock()
	i := slices.Index(c.sources, src)
	if i < 0 {
		c.mu.Unlock()
		return false
	}
	c.sources = slices.Delete(c.sources, i, i+1)
	c.unlockAndNotify()
	return true
}

// Snapshot returns the current sources in registration order.
func (c *Collection) Snapshot() []Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sources)
}

// Len returns the number of sources.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sources)
}

// Subscribe registers fn to run after every change to the collection.
// fn runs on the goroutine that changed the collection, with no lock held.
func (c *Collection) Subscribe(fn func()) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if i := slices.Index(c.subs, sub); i >= 0 {
				c.subs = slices.Delete(c.subs, i, i+1)
			}
		})
	}
}

// ChangeToken returns a token that fires on the next change to the collection.
func (c *Collection) ChangeToken() changes.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signal.Token()
}

// findOrAdd returns the first source matching match, or adds the one
// returned by create. The lookup and the insertion are atomic.
func (c *Collection) findOrAdd(match func(Source) bool, create func() Source) Source {
	c.mu.Lock()
	for _, s := range c.sources {
		if match(s) {
			c.mu.Unlock()
			return s
		}
	}
	src := create()
	c.sources = append(c.sources, src)
	c.unlockAndNotify()
	return src
}

// unlockAndNotify must be called with c.mu held.
func (c *Collection) unlockAndNotify() {
	old := c.signal
	c.signal = changes.NewSignal()
	subs := slices.Clone(c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
	old.Fire()
}
