// Copyright 2025 Wayfarer AI
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

// Package telemetry wraps OpenTelemetry tracer and meter acquisition for
// the reasoning and orchestration core. It deliberately stops short of
// exporter wiring (OTLP endpoints, batching spans, resource detection) —
// that belongs to the process-bootstrap layer the core doesn't own. What
// it gives callers is a stable place to start spans and record metrics
// that, by default, go nowhere (the global TracerProvider/MeterProvider
// are whatever the embedding process installs; with none installed, the
// otel SDK's own no-op implementations take over).
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/wayfarer-ai/roc"

// Tracer returns the module's shared tracer for the named subsystem.
func Tracer(subsystem string) trace.Tracer {
	return otel.Tracer(instrumentationName + "/" + subsystem)
}

// Meter returns the module's shared meter for the named subsystem.
func Meter(subsystem string) metric.Meter {
	return otel.Meter(instrumentationName + "/" + subsystem)
}

// CollectorMetrics holds the counters and histograms the DataCollector
// records per dispatched upstream call.
type CollectorMetrics struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// NewCollectorMetrics builds the instruments, falling back to nil (safe to
// call methods on) if instrument creation fails — telemetry must never be
// the reason a request fails.
func NewCollectorMetrics() *CollectorMetrics {
	m := Meter("collector")

	calls, err1 := m.Int64Counter("roc.upstream.calls",
		metric.WithDescription("upstream calls initiated, by service kind"))
	failures, err2 := m.Int64Counter("roc.upstream.failures",
		metric.WithDescription("upstream calls that returned Err, by error kind"))
	latency, err3 := m.Float64Histogram("roc.upstream.latency_ms",
		metric.WithDescription("upstream call wall time in milliseconds"))
	if err1 != nil || err2 != nil || err3 != nil {
		return &CollectorMetrics{}
	}
	return &CollectorMetrics{calls: calls, failures: failures, latency: latency}
}

// RecordCall records one completed upstream call.
func (m *CollectorMetrics) RecordCall(ctx context.Context, kind string, ok bool, errKind string, d time.Duration) {
	if m == nil || m.calls == nil {
		return
	}
	attrs := attribute.String("kind", kind)
	m.calls.Add(ctx, 1, metric.WithAttributes(attrs))
	m.latency.Record(ctx, float64(d.Milliseconds()), metric.WithAttributes(attrs))
	if !ok {
		m.failures.Add(ctx, 1, metric.WithAttributes(attrs, attribute.String("error_kind", errKind)))
	}
}

// RateLimiterMetrics records how long callers waited for a token.
type RateLimiterMetrics struct {
	waitTime metric.Float64Histogram
}

// NewRateLimiterMetrics builds the wait-time histogram.
func NewRateLimiterMetrics() *RateLimiterMetrics {
	m := Meter("ratelimit")
	h, err := m.Float64Histogram("roc.ratelimit.wait_ms",
		metric.WithDescription("time spent waiting for a rate limiter token, by provider"))
	if err != nil {
		return &RateLimiterMetrics{}
	}
	return &RateLimiterMetrics{waitTime: h}
}

// RecordWait records how long a caller waited for the named provider.
func (m *RateLimiterMetrics) RecordWait(ctx context.Context, provider string, d time.Duration) {
	if m == nil || m.waitTime == nil {
		return
	}
	m.waitTime.Record(ctx, float64(d.Milliseconds()), metric.WithAttributes(attribute.String("provider", provider)))
}
