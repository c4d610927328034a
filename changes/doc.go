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

// Package changes provides one-shot change notification tokens.
//
// A [Token] reports that data previously read from its producer may be
// stale. Tokens fire at most once; consumers that want to keep observing a
// producer call its ChangeToken method again after each notification, or use
// [Watch] to do so automatically.
//
//	sig := changes.NewSignal()
//	tok := sig.Token()
//	tok.Register(func() { log.Println("routes changed") })
//	sig.Fire()
//
// Callbacks run synchronously on the goroutine that fires the token, in the
// order they were registered, and never while an internal lock is held. A
// callback registered on a token that has already fired runs immediately on
// the registering goroutine.
package changes
