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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "rivaas.dev/endpoints/routing"

type instruments struct {
	tracer        trace.Tracer
	regenerations metric.Int64Counter
	changes       metric.Int64Counter
	failures      metric.Int64Counter
	buildDuration metric.Float64Histogram
}

func newInstruments(mp metric.MeterProvider, tp trace.TracerProvider) (*instruments, error) {
	meter := mp.Meter(instrumentationName)
	in := &instruments{tracer: tp.Tracer(instrumentationName)}

	var err error
	in.regenerations, err = meter.Int64Counter(
		"routing_endpoint_regenerations_total",
		metric.WithDescription("Total number of successful endpoint cache builds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create regenerations counter: %w", err)
	}

	in.changes, err = meter.Int64Counter(
		"routing_changes_total",
		metric.WithDescription("Total number of change notifications handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create changes counter: %w", err)
	}

	in.failures, err = meter.Int64Counter(
		"routing_endpoint_build_failures_total",
		metric.WithDescription("Total number of failed endpoint builds"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}

	in.buildDuration, err = meter.Float64Histogram(
		"routing_endpoint_build_duration_seconds",
		metric.WithDescription("Duration of endpoint cache builds in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create build duration histogram: %w", err)
	}
	return in, nil
}

// startBuild opens a span for one endpoint collection. The returned function
// records the outcome; a successful build counts as one regeneration.
func (in *instruments) startBuild(trigger string) func(n int, err error) {
	ctx, span := in.tracer.Start(context.Background(), "routing.collect",
		trace.WithAttributes(attribute.String("routing.trigger", trigger)))
	start := time.Now()

	return func(n int, err error) {
		attrs := metric.WithAttributes(attribute.String("trigger", trigger))
		in.buildDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		span.SetAttributes(attribute.Int("routing.endpoints", n))
		if err != nil {
			in.failures.Add(ctx, 1, attrs)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			in.regenerations.Add(ctx, 1, attrs)
		}
		span.End()
	}
}

func (in *instruments) recordChange(passes int) {
	in.changes.Add(context.Background(), 1, metric.WithAttributes(attribute.Int("passes", passes)))
}
