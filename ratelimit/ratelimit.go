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

// Package ratelimit implements the per-upstream-provider token discipline
// (component C1). A Limiter holds one token bucket per provider; callers
// block cooperatively in Acquire until a token is available or their
// context is canceled.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wayfarer-ai/roc/config"
	"github.com/wayfarer-ai/roc/domain"
	"github.com/wayfarer-ai/roc/telemetry"
)

// Bucket describes one provider's configured capacity: at most Capacity
// requests may be initiated per RefillInterval.
type Bucket struct {
	Capacity       int
	RefillInterval time.Duration
}

// Limiter is a mapping from provider identity to a token bucket. It is
// safe for concurrent use by many request pipelines.
type Limiter struct {
	log     *slog.Logger
	metrics *telemetry.RateLimiterMetrics

	mu       sync.RWMutex
	buckets  map[config.Provider]Bucket
	limiters map[config.Provider]*rate.Limiter
}

// New builds a Limiter from the per-provider QPS map (requests per
// second); any provider absent from qps falls back to 3 req/s.
func New(qps map[config.Provider]int, log *slog.Logger) *Limiter {
	if log == nil {
		log = slog.Default()
	}
	buckets := make(map[config.Provider]Bucket, len(config.AllProviders))
	for _, p := range config.AllProviders {
		n := qps[p]
		if n <= 0 {
			n = 3
		}
		buckets[p] = Bucket{Capacity: n, RefillInterval: time.Second}
	}
	return &Limiter{
		log:      log,
		metrics:  telemetry.NewRateLimiterMetrics(),
		buckets:  buckets,
		limiters: make(map[config.Provider]*rate.Limiter, len(buckets)),
	}
}

// limiterFor returns (creating if needed) the token-bucket limiter for a
// provider. rate.Limiter's reservation scheme assigns each Wait call a
// monotonically increasing deadline in arrival order, so a token that
// becomes ready cannot be stolen by a call that arrived later — this is
// the "equivalent monotonic-deadline scheme" the core requires in place
// of an explicit FIFO queue.
func (l *Limiter) limiterFor(p config.Provider) *rate.Limiter {
	l.mu.RLock()
	rl, ok := l.limiters[p]
	l.mu.RUnlock()
	if ok {
		return rl
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if rl, ok := l.limiters[p]; ok {
		return rl
	}

	b, ok := l.buckets[p]
	if !ok {
		b = Bucket{Capacity: 3, RefillInterval: time.Second}
	}
	perSec := float64(b.Capacity) / b.RefillInterval.Seconds()
	// Burst 1 spaces tokens evenly, so no rolling RefillInterval window
	// ever sees more than Capacity initiations.
	rl = rate.NewLimiter(rate.Limit(perSec), 1)
	l.limiters[p] = rl
	return rl
}

// Acquire waits until a token is available for provider, or until ctx is
// canceled. A failed upstream call still consumed its token; callers must
// not call Acquire again to "return" it.
func (l *Limiter) Acquire(ctx context.Context, p config.Provider) error {
	rl := l.limiterFor(p)

	start := time.Now()
	err := rl.Wait(ctx)
	waited := time.Since(start)

	l.metrics.RecordWait(ctx, string(p), waited)
	if waited > time.Millisecond {
		l.log.DebugContext(ctx, "rate limiter wait", "provider", p, "waited_ms", waited.Milliseconds())
	}

	if err != nil {
		if ctx.Err() != nil {
			return domain.NewError(domain.ErrorCanceled, fmt.Errorf("acquire %s: %w", p, ctx.Err()))
		}
		return domain.NewError(domain.ErrorRateLimited, fmt.Errorf("acquire %s: %w", p, err))
	}
	return nil
}

// Capacity returns the configured capacity for a provider, for tests and
// diagnostics.
func (l *Limiter) Capacity(p config.Provider) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.buckets[p].Capacity
}
