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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/consul/api"
)

// ConsulKV is the part of the Consul KV API the loader uses.
// *api.KV implements it.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul loads a manifest stored under a Consul KV key.
type Consul struct {
	kv       ConsulKV
	key      string
	format   Format
	waitTime time.Duration
	retry    time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	lastIndex uint64
}

// ConsulOption configures a Consul loader.
type ConsulOption func(*Consul)

// WithWaitTime bounds each blocking query.
//
// Default: 5m
func WithWaitTime(d time.Duration) ConsulOption {
	return func(c *Consul) {
		if d > 0 {
			c.waitTime = d
		}
	}
}

// WithRetryInterval sets the pause after a failed blocking query.
//
// Default: 1s
func WithRetryInterval(d time.Duration) ConsulOption {
	return func(c *Consul) {
		if d > 0 {
			c.retry = d
		}
	}
}

// WithConsulLogger sets the logger used for query errors.
func WithConsulLogger(logger *slog.Logger) ConsulOption {
	return func(c *Consul) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConsul returns a loader for key. When kv is nil a client is created
// from the standard Consul environment variables.
func NewConsul(key string, format Format, kv ConsulKV, opts ...ConsulOption) (*Consul, error) {
	if _, err := DecoderFor(format); err != nil {
		return nil, err
	}
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}
	c := &Consul{
		kv:       kv,
		key:      key,
		format:   format,
		waitTime: 5 * time.Minute,
		retry:    time.Second,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Load reads the current value of the key. A missing key yields an empty
// document.
func (c *Consul) Load(ctx context.Context) (*Document, error) {
	pair, meta, err := c.kv.Get(c.key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, NewError("consul:"+c.key, "load", fmt.Errorf("failed to get consul key: %w", err))
	}
	if meta != nil {
		c.setIndex(meta.LastIndex)
	}
	if pair == nil {
		return &Document{}, nil
	}
	doc, err := Parse(pair.Value, c.format)
	if err != nil {
		return nil, NewError("consul:"+c.key, "load", err)
	}
	return doc, nil
}

// Watch issues blocking queries on the key and calls onChange whenever its
// modify index moves. It blocks until ctx is done.
func (c *Consul) Watch(ctx context.Context, onChange func()) error {
	for {
		q := (&api.QueryOptions{
			WaitIndex: c.index(),
			WaitTime:  c.waitTime,
		}).WithContext(ctx)

		_, meta, err := c.kv.Get(c.key, q)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			c.logger.Warn("consul blocking query failed", "key", c.key, "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(c.retry):
			}
			continue
		}
		if meta == nil {
			continue
		}

		last := c.index()
		c.setIndex(meta.LastIndex)
		switch {
		case last == 0:
			// First observation only establishes the baseline.
		case meta.LastIndex != last:
			// An index that goes backwards means the key was recreated.
			onChange()
		}
	}
}

func (c *Consul) index() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastIndex
}

func (c *Consul) setIndex(i uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastIndex = i
}
