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

package reasoning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wayfarer-ai/roc/domain"
)

const systemPromptTemplate = `You are the reasoning stage of a travel planning assistant.
Given the traveler's message and extracted context, produce a short ordered
chain of thoughts about what information is needed to answer well.

Respond with JSON only, shaped exactly as:
{"thoughts":[{"step":1,"thought":"...","keywords":["..."],"api_needs":["weather"|"poi"|"navigation"|"traffic"|"crowd"|"input_hints"],"reasoning":"..."}]}

Do not include any text outside the JSON object.`

// Builder implements component C5. It prefers the Reasoner-assisted path
// and falls back to the deterministic rule-based chain whenever the
// Reasoner is unset, errors, times out, or yields zero usable thoughts.
type Builder struct {
	reasoner Reasoner
	log      *slog.Logger
}

// NewBuilder constructs a Builder. reasoner may be nil, in which case the
// rule-based chain is always used.
func NewBuilder(reasoner Reasoner, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{reasoner: reasoner, log: log}
}

// Build produces the ordered Thought sequence for one turn.
func (b *Builder) Build(ctx context.Context, utterance domain.Utterance, extracted domain.ExtractedContext) []domain.Thought {
	if b.reasoner == nil {
		return stampNow(ruleBasedChain(extracted))
	}

	thoughts, ok := b.tryReasoner(ctx, utterance, extracted)
	if !ok {
		b.log.DebugContext(ctx, "thought chain falling back to rule-based mode")
		return stampNow(ruleBasedChain(extracted))
	}
	return stampNow(thoughts)
}

func (b *Builder) tryReasoner(ctx context.Context, utterance domain.Utterance, extracted domain.ExtractedContext) ([]domain.Thought, bool) {
	prompt := userPrompt(utterance, extracted)
	raw, err := b.reasoner.Complete(ctx, []Message{{Role: "user", Content: prompt}}, systemPromptTemplate)
	if err != nil {
		b.log.WarnContext(ctx, "reasoner call failed", "error", err)
		return nil, false
	}

	return parseThoughtChain(raw, keywordTerms(extracted))
}

func userPrompt(utterance domain.Utterance, extracted domain.ExtractedContext) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Traveler message: %q\n", utterance.Text)
	fmt.Fprintf(&sb, "Days: %d\n", extracted.Days)
	if len(extracted.Locations) > 0 {
		names := make([]string, 0, len(extracted.Locations))
		for _, l := range extracted.Locations {
			names = append(names, l.Name)
		}
		fmt.Fprintf(&sb, "Locations: %s\n", strings.Join(names, ", "))
	}
	if extracted.Route != nil {
		fmt.Fprintf(&sb, "Route: %s -> %s\n", extracted.Route.Start.Name, extracted.Route.End.Name)
	}
	if len(extracted.ActivityTypes) > 0 {
		acts := make([]string, 0, len(extracted.ActivityTypes))
		for _, a := range extracted.ActivityTypes {
			acts = append(acts, string(a))
		}
		fmt.Fprintf(&sb, "Activities: %s\n", strings.Join(acts, ", "))
	}
	return sb.String()
}

func stampNow(thoughts []domain.Thought) []domain.Thought {
	now := time.Now()
	for i := range thoughts {
		thoughts[i].Ts = now
	}
	return thoughts
}
