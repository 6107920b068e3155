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

// Package roc wires components C1 through C8 into the single synchronous
// operation the Reasoning & Orchestration Core exposes to its embedder:
// Handle. Every collaborator (Reasoner, upstream clients, configuration)
// is injected; this package contains no upstream or LLM wiring of its own.
package roc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wayfarer-ai/roc/affect"
	"github.com/wayfarer-ai/roc/collector"
	"github.com/wayfarer-ai/roc/config"
	"github.com/wayfarer-ai/roc/compose"
	"github.com/wayfarer-ai/roc/domain"
	"github.com/wayfarer-ai/roc/keyword"
	"github.com/wayfarer-ai/roc/plan"
	"github.com/wayfarer-ai/roc/ratelimit"
	"github.com/wayfarer-ai/roc/reasoning"
	"github.com/wayfarer-ai/roc/session"
	"github.com/wayfarer-ai/roc/upstream"
)

// Options controls one Handle invocation.
type Options struct {
	IncludeThoughts bool
	Deadline        *time.Time
}

// Response is the single synchronous operation's result.
type Response struct {
	Answer    string
	Thoughts  []domain.Thought
	Extracted *domain.ExtractedContext
}

// Core wires every component together. Construct one with New and reuse
// it across requests; it is safe for concurrent use.
type Core struct {
	cfg      *config.Config
	log      *slog.Logger
	sessions *session.Store
	builder  *reasoning.Builder
	resolver func([]domain.Thought, domain.ExtractedContext) domain.PlanSpec
	collect  *collector.Collector
	composer *compose.Composer
}

// New builds a Core from its collaborators. reasoner may be nil (both C5
// and C8 then run their deterministic fallbacks). dispatcher is typically
// an *upstream.Registry.
func New(cfg *config.Config, reasoner reasoning.Reasoner, dispatcher collector.Dispatcher, log *slog.Logger) *Core {
	if log == nil {
		log = slog.Default()
	}
	limiter := ratelimit.New(cfg.PerProviderQPS, log)
	return &Core{
		cfg:      cfg,
		log:      log,
		sessions: session.NewStore(cfg.MaxHistoryTurns, cfg.MaxConcurrentRequestsPerUser),
		builder:  reasoning.NewBuilder(reasoner, log),
		resolver: plan.Resolve,
		collect:  collector.New(dispatcher, limiter, cfg, log),
		composer: compose.NewComposer(reasoner, log),
	}
}

// Handle runs one full turn: extraction, reasoning, planning, collection,
// and composition, appending the resulting TurnRecord to the user's
// session. It is the core's single synchronous external operation. An
// empty (or whitespace-only) utterance is rejected before any
// collaborator is invoked — in particular, no upstream call is made.
func (c *Core) Handle(ctx context.Context, userID, text string, opts Options) (Response, error) {
	if strings.TrimSpace(text) == "" {
		return Response{}, domain.NewError(domain.ErrorInvalidInput, domain.ErrInvalidInput)
	}

	if opts.Deadline != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, *opts.Deadline)
		defer cancel()
	}

	unlock := c.sessions.Lock(userID)
	defer unlock()

	history := c.sessions.Load(userID)

	utterance := domain.Utterance{Text: text, UserID: userID, TsMono: time.Now()}
	tsIn := utterance.TsMono

	extracted := extractContext(text, c.cfg)

	thoughts := c.builder.Build(ctx, utterance, extracted)
	planSpec := c.resolver(thoughts, extracted)
	bundle := c.collect.Collect(ctx, planSpec)
	answer := c.composer.Compose(ctx, utterance, extracted, thoughts, bundle, history.Turns)

	record := domain.TurnRecord{
		ID:        uuid.NewString(),
		Utterance: utterance,
		Thoughts:  thoughts,
		Extracted: extracted,
		Plan:      planSpec,
		Results:   bundle,
		Answer:    answer,
		TsIn:      tsIn,
		TsOut:     time.Now(),
	}
	c.sessions.Append(userID, record)

	resp := Response{Answer: answer}
	if opts.IncludeThoughts {
		resp.Thoughts = thoughts
		extractedCopy := extracted
		resp.Extracted = &extractedCopy
	}
	return resp, nil
}

// extractContext runs C3 and C4 and assembles the combined
// ExtractedContext the rest of the pipeline consumes.
func extractContext(text string, cfg *config.Config) domain.ExtractedContext {
	keywords := keyword.Extract(text, cfg.DefaultDays, cfg.MaxDays)
	companions, emotion, budget, preferences := affect.Extract(text)

	return domain.ExtractedContext{
		Keywords:      keywords,
		Locations:     keywords.Locations,
		ActivityTypes: keywords.Activities,
		Days:          keywords.Days,
		Route:         keywords.Route,
		Companions:    companions,
		Emotion:       emotion,
		Budget:        budget,
		Preferences:   preferences,
	}
}

// RegisterDefaultClients registers the module's adapter for every non-nil
// client passed in (nil clients are skipped), for callers that want the
// built-in UpstreamClient adapters rather than supplying their own.
func RegisterDefaultClients(reg *upstream.Registry, weather upstream.WeatherClient, poi upstream.POIClient, region string, navigation upstream.NavigationClient, traffic upstream.TrafficClient, hints upstream.HintsClient, crowd upstream.CrowdClient) {
	if weather != nil {
		reg.Register(domain.ServiceWeather, upstream.NewWeatherAdapter(weather))
	}
	if poi != nil {
		reg.Register(domain.ServicePOI, upstream.NewPOIAdapter(poi, region))
	}
	if navigation != nil {
		reg.Register(domain.ServiceNavigation, upstream.NewNavigationAdapter(navigation))
	}
	if traffic != nil {
		reg.Register(domain.ServiceTraffic, upstream.NewTrafficAdapter(traffic))
	}
	if hints != nil {
		reg.Register(domain.ServiceInputHints, upstream.NewHintsAdapter(hints, region))
	}
	if crowd != nil {
		reg.Register(domain.ServiceCrowd, upstream.NewCrowdAdapter(crowd))
	}
}
