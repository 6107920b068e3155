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

// Package collector implements component C7, the concurrency core: given
// a PlanSpec and a request-scoped context, it dispatches every
// deduplicated ServiceCallSpec to the upstream registry, bounding
// per-provider concurrency through the RateLimiter and returning a
// canonical ResultBundle.
package collector

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/wayfarer-ai/roc/config"
	"github.com/wayfarer-ai/roc/domain"
	"github.com/wayfarer-ai/roc/ratelimit"
	"github.com/wayfarer-ai/roc/telemetry"
	"github.com/wayfarer-ai/roc/upstream"
)

// Dispatcher is the narrow collaborator DataCollector needs from the
// upstream layer; *upstream.Registry satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult
}

// Collector runs a PlanSpec's calls to completion and assembles the
// ResultBundle.
type Collector struct {
	dispatcher Dispatcher
	limiter    *ratelimit.Limiter
	cfg        *config.Config
	log        *slog.Logger
	metrics    *telemetry.CollectorMetrics
	tracer     trace.Tracer
}

// New builds a Collector.
func New(dispatcher Dispatcher, limiter *ratelimit.Limiter, cfg *config.Config, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{
		dispatcher: dispatcher,
		limiter:    limiter,
		cfg:        cfg,
		log:        log,
		metrics:    telemetry.NewCollectorMetrics(),
		tracer:     telemetry.Tracer("collector"),
	}
}

// Collect runs every deduplicated spec in planSpec.Calls to completion and
// returns the canonical per-kind, per-key-sorted ResultBundle. It never
// returns an error: upstream and timeout failures are encoded as Err
// ServiceResults so one failing call never takes down the rest.
func (c *Collector) Collect(ctx context.Context, planSpec domain.PlanSpec) domain.ResultBundle {
	deduped := dedupe(planSpec.Calls)

	results := make([]domain.ServiceResult, len(deduped))
	group, groupCtx := errgroup.WithContext(ctx)

	for i, spec := range deduped {
		i, spec := i, spec
		group.Go(func() error {
			// Never propagate an error from the goroutine body: a single
			// task's failure must not cancel its siblings. groupCtx is
			// still observed for cancellation below.
			results[i] = c.runOne(groupCtx, spec)
			return nil
		})
	}

	// errgroup.Wait error is always nil here by construction; ctx
	// cancellation is already reflected in each task's own result.
	_ = group.Wait()

	return bundle(results)
}

func (c *Collector) runOne(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	start := time.Now()

	ctx, span := c.tracer.Start(ctx, "upstream.call",
		trace.WithAttributes(
			attribute.String("kind", string(spec.Kind)),
			attribute.String("key", spec.Key),
		),
	)
	defer span.End()

	timeout := c.cfg.PerCallTimeout()
	if spec.Kind == domain.ServiceInputHints {
		timeout = c.cfg.HintsTimeout()
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	provider := upstream.ProviderForKind(spec.Kind)
	if err := c.limiter.Acquire(callCtx, provider); err != nil {
		result := errResultFromAcquire(spec, callCtx, err)
		c.record(ctx, spec.Kind, result, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(result.ErrKind))
		return result
	}

	result := c.dispatcher.Dispatch(callCtx, spec)
	if result.Kind == "" {
		result.Kind = spec.Kind
	}
	if result.Key == "" {
		result.Key = spec.Key
	}
	if !result.OK && result.ErrKind == "" {
		if ctxKind := classifyCtx(callCtx); ctxKind != "" {
			result.ErrKind = ctxKind
		} else {
			result.ErrKind = domain.ErrorUpstream
		}
	}

	c.record(ctx, spec.Kind, result, time.Since(start))
	if result.OK {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, string(result.ErrKind))
	}
	return result
}

func errResultFromAcquire(spec domain.ServiceCallSpec, ctx context.Context, err error) domain.ServiceResult {
	kind := domain.KindOf(err)
	if ctx.Err() == context.DeadlineExceeded {
		kind = domain.ErrorTimeout
	}
	return domain.ServiceResult{
		Kind:      spec.Kind,
		Key:       spec.Key,
		OK:        false,
		ErrKind:   kind,
		Detail:    err.Error(),
		Retryable: kind == domain.ErrorRateLimited,
	}
}

func classifyCtx(ctx context.Context) domain.ErrorKind {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return domain.ErrorTimeout
	case context.Canceled:
		return domain.ErrorCanceled
	default:
		return ""
	}
}

func (c *Collector) record(ctx context.Context, kind domain.ServiceKind, result domain.ServiceResult, elapsed time.Duration) {
	c.metrics.RecordCall(ctx, string(kind), result.OK, string(result.ErrKind), elapsed)
	if !result.OK {
		c.log.DebugContext(ctx, "upstream call failed", "kind", kind, "key", result.Key, "err_kind", result.ErrKind, "detail", result.Detail)
	}
}

// dedupe collapses specs sharing (kind,key) to a single representative at
// the first occurrence's position, keeping that occurrence's params and
// the highest priority seen (lower numeric value = higher priority).
// Collect starts tasks in slice order and does not reorder by Priority.
func dedupe(calls []domain.ServiceCallSpec) []domain.ServiceCallSpec {
	seen := make(map[string]int, len(calls))
	var out []domain.ServiceCallSpec
	for _, spec := range calls {
		key := spec.DedupKey()
		if idx, ok := seen[key]; ok {
			if spec.Priority < out[idx].Priority {
				out[idx].Priority = spec.Priority
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, spec)
	}
	return out
}

// bundle groups results by kind and sorts each kind's list by key so
// composers see a deterministic order regardless of completion order.
func bundle(results []domain.ServiceResult) domain.ResultBundle {
	out := make(domain.ResultBundle)
	for _, r := range results {
		out[r.Kind] = append(out[r.Kind], r)
	}
	for kind := range out {
		list := out[kind]
		sort.SliceStable(list, func(i, j int) bool { return list[i].Key < list[j].Key })
		out[kind] = list
	}
	return out
}
