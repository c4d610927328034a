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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rivaas.dev/endpoints/changes"
)

func TestNewComposite_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewComposite(nil)
	require.ErrorIs(t, err, ErrNilCollection)

	_, err = NewComposite(NewCollection(), WithMaxChangePasses(0))
	require.ErrorIs(t, err, ErrInvalidMaxPasses)
}

func TestComposite_CachesEndpoints(t *testing.T) {
	t.Parallel()

	a, b := newFakeSource("/a"), newFakeSource("/b1", "/b2")
	c, err := NewComposite(NewCollection(a, b))
	require.NoError(t, err)

	first, err := c.Endpoints()
	require.NoError(t, err)
	second, err := c.Endpoints()
	require.NoError(t, err)

	assert.Equal(t, []string{"/a", "/b1", "/b2"}, rawTexts(first))
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), a.calls.Load())
	assert.Equal(t, int32(1), b.calls.Load())
}

func TestComposite_ChangeTokenIsStableUntilChange(t *testing.T) {
	t.Parallel()

	a := newFakeSource("/a")
	c, err := NewComposite(NewCollection(a))
	require.NoError(t, err)

	tok := c.ChangeToken()
	assert.Equal(t, tok, c.ChangeToken())
	assert.False(t, tok.HasChanged())

	a.change("/a2")
	assert.True(t, tok.HasChanged())

	next := c.ChangeToken()
	assert.NotEqual(t, tok, next)
	assert.False(t, next.HasChanged())
}

func TestComposite_InvalidatesOnCollectionChange(t *testing.T) {
	t.Parallel()

	a := newFakeSource("/a")
	sources := NewCollection(a)
	c, err := NewComposite(sources)
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)
	before := c.ChangeToken()

	added := newFakeSource("/added")
	sources.Add(added)
	assert.True(t, before.HasChanged())

	eps, err := c.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/added"}, rawTexts(eps))

	// The new child is observed as well.
	afterAdd := c.ChangeToken()
	added.change("/added2")
	assert.True(t, afterAdd.HasChanged())

	eps, err = c.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/added2"}, rawTexts(eps))

	require.True(t, sources.Remove(a))
	eps, err = c.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{"/added2"}, rawTexts(eps))
}

func TestComposite_ChildChangeRebuildsOnce(t *testing.T) {
	t.Parallel()

	a, b := newFakeSource("/a"), newFakeSource("/b")
	c, err := NewComposite(NewCollection(a, b))
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)

	a.change("/a2")
	assert.Equal(t, int32(2), a.calls.Load())

	for range 3 {
		eps, err := c.Endpoints()
		require.NoError(t, err)
		assert.Equal(t, []string{"/a2", "/b"}, rawTexts(eps))
	}
	assert.Equal(t, int32(2), a.calls.Load())
	assert.Equal(t, int32(2), b.calls.Load())
}

func TestComposite_NoNegativeCaching(t *testing.T) {
	t.Parallel()

	a := newFakeSource("/a")
	c, err := NewComposite(NewCollection(a))
	require.NoError(t, err)

	_ = c.ChangeToken()
	a.change("/a2")
	assert.Zero(t, a.calls.Load(), "endpoints are not built before the first read")

	eps, err := c.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a2"}, rawTexts(eps))
}

func TestComposite_ReentrantChangeIsCoalesced(t *testing.T) {
	t.Parallel()

	diag := &diagRecorder{}
	a, other := newFakeSource("/a"), newFakeSource("/other")
	sources := NewCollection(a)
	c, err := NewComposite(sources, WithDiagnostics(diag))
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)

	tok := c.ChangeToken()
	var seen []string
	tok.Register(func() {
		// Runs while the composite is handling a's change.
		sources.Add(other)
		eps, err := c.Endpoints()
		if assert.NoError(t, err) {
			seen = rawTexts(eps)
		}
	})

	a.change("/a2")

	assert.True(t, tok.HasChanged())
	assert.Equal(t, 1, diag.count(DiagReentrantChange))
	// The nested change is applied by a second pass after the callback returns.
	assert.Equal(t, []string{"/a2"}, seen)

	callsA, callsOther := a.calls.Load(), other.calls.Load()
	for range 2 {
		eps, err := c.Endpoints()
		require.NoError(t, err)
		assert.Equal(t, []string{"/a2", "/other"}, rawTexts(eps))
	}
	assert.Equal(t, callsA, a.calls.Load(), "settled cache must not be rebuilt on read")
	assert.Equal(t, callsOther, other.calls.Load())
	assert.Equal(t, int32(1), other.calls.Load())
	assert.False(t, c.ChangeToken().HasChanged())
}

func TestComposite_PassLimit(t *testing.T) {
	t.Parallel()

	diag := &diagRecorder{}
	a := newFakeSource("/a")
	c, err := NewComposite(NewCollection(a), WithDiagnostics(diag), WithMaxChangePasses(3))
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)

	// A consumer that changes the source on every notification.
	stop := changes.Watch(c.ChangeToken, func() { a.change("/a") })
	a.change("/a")
	stop()

	assert.Equal(t, 1, diag.count(DiagChangePassLimit))

	eps, err := c.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, rawTexts(eps))
}

func TestComposite_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	diag := &diagRecorder{}
	a := newFakeSource("/a")
	sources := NewCollection(a)
	c, err := NewComposite(sources, WithDiagnostics(diag))
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)
	tok := c.ChangeToken()

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, int32(1), a.closed.Load())

	calls := a.calls.Load()
	assert.NotPanics(t, func() { a.change("/late") })
	assert.NotPanics(t, func() { sources.Add(newFakeSource("/late")) })
	assert.False(t, tok.HasChanged(), "a closed composite does not react to changes")
	assert.Equal(t, calls, a.calls.Load())

	_, err = c.Endpoints()
	require.ErrorIs(t, err, ErrClosed)
	_, err = c.GroupedEndpoints(GroupContext{})
	require.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, changes.Never(), c.ChangeToken())
}

func TestComposite_ChildError(t *testing.T) {
	t.Parallel()

	diag := &diagRecorder{}
	a := newFakeSource("/a")
	c, err := NewComposite(NewCollection(a), WithDiagnostics(diag))
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)

	boom := errors.New("boom")
	a.fail(boom)
	assert.Equal(t, 1, diag.count(DiagRegenerateFailed))

	_, err = c.Endpoints()
	require.ErrorIs(t, err, boom)

	a.fail(nil)
	eps, err := c.Endpoints()
	require.NoError(t, err)
	assert.Len(t, eps, 1)
}

func TestComposite_Instrumentation(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	a := newFakeSource("/a")
	c, err := NewComposite(NewCollection(a), WithMeterProvider(mp), WithTracerProvider(tp))
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)
	a.change("/b")

	sums, histograms := collectMetrics(t, reader)
	assert.Equal(t, int64(1), sums["routing_changes_total"])
	// One build on first read and one after the change.
	assert.Equal(t, int64(2), sums["routing_endpoint_regenerations_total"])
	assert.Equal(t, 2, histograms)

	ended := spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "routing.collect", ended[0].Name())
}

// collectMetrics returns counter totals by name and the number of recorded
// histogram observations.
func collectMetrics(t *testing.T, reader sdkmetric.Reader) (map[string]int64, int) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	var histograms int
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					histograms += int(dp.Count)
				}
			}
		}
	}
	return sums, histograms
}

func TestComposite_ChangeFromAnotherGoroutineWhileHandling(t *testing.T) {
	t.Parallel()

	a, b := newFakeSource("/a"), newFakeSource("/b")
	c, err := NewComposite(NewCollection(a, b))
	require.NoError(t, err)

	_, err = c.Endpoints()
	require.NoError(t, err)

	var next changes.Token
	c.ChangeToken().Register(func() {
		next = c.ChangeToken()
		done := make(chan struct{})
		go func() {
			defer close(done)
			b.change("/b2")
		}()
		<-done
	})

	a.change("/a2")

	require.NotNil(t, next)
	assert.True(t, next.HasChanged(), "a change handed off to the running handler must fire the current token")
	assert.False(t, c.ChangeToken().HasChanged())

	eps, err := c.Endpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{"/a2", "/b2"}, rawTexts(eps))
}

func TestComposite_GroupedEndpointsNotCached(t *testing.T) {
	t.Parallel()

	a := newFakeSource("/a")
	c, err := NewComposite(NewCollection(a))
	require.NoError(t, err)

	gc := GroupContext{Prefix: mustPattern("/p")}
	eps, err := c.GroupedEndpoints(gc)
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/a"}, rawTexts(eps))

	_, err = c.GroupedEndpoints(gc)
	require.NoError(t, err)
	assert.Equal(t, int32(2), a.calls.Load())
}
