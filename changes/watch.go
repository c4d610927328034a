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

// Watch calls consumer every time the token returned by producer fires,
// asking producer for a fresh token after each notification.
//
// The returned function stops watching. consumer is not called after stop
// returns, except for an invocation already in progress.
func Watch(producer func() Token, consumer func()) (stop func()) {
	w := &watcher{producer: producer, consumer: consumer}
	w.arm()
	return w.stop
}

type watcher struct {
	producer func() Token
	consumer func()

	stopped atomic.Bool
	mu      sync.Mutex
	reg     Registration
}

func (w *watcher) arm() {
	for !w.stopped.Load() {
		tok := w.producer()
		if tok == nil {
			return
		}
		if tok.HasChanged() {
			w.consumer()
			continue
		}

		reg := tok.Register(w.fire)
		w.mu.Lock()
		if w.stopped.Load() {
			w.mu.Unlock()
			reg.Stop()
			return
		}
		w.reg = reg
		w.mu.Unlock()
		return
	}
}

func (w *watcher) fire() {
	if w.stopped.Load() {
		return
	}
	w.consumer()
	w.arm()
}

func (w *watcher) stop() {
	w.stopped.Store(true)
	w.mu.Lock()
	reg := w.reg
	w.reg = nil
	w.mu.Unlock()
	if reg != nil {
		reg.Stop()
	}
}
