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

package compose

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/wayfarer-ai/roc/domain"
	"github.com/wayfarer-ai/roc/knowledge"
	"github.com/wayfarer-ai/roc/reasoning"
)

const maxCachedTipsPerGap = 2

const answerSystemPrompt = `You are the final answer stage of a travel planning assistant.
Use only the facts given in the context below; never invent data that is not
present. If a data source is marked unavailable, say so plainly instead of
guessing. Write a concise, natural-language answer for the traveler.`

// Composer implements component C8's composition half: it turns
// (utterance, extracted, thoughts, bundle, history) into the final answer
// string via the Reasoner, after fusing weather and POI data into
// LocationAnalyses.
type Composer struct {
	reasoner reasoning.Reasoner
	log      *slog.Logger
}

// NewComposer builds a Composer. reasoner may be nil, in which case
// Compose falls back to a deterministic templated summary.
func NewComposer(reasoner reasoning.Reasoner, log *slog.Logger) *Composer {
	if log == nil {
		log = slog.Default()
	}
	return &Composer{reasoner: reasoner, log: log}
}

// Compose produces the final answer string for one turn.
func (c *Composer) Compose(ctx context.Context, utterance domain.Utterance, extracted domain.ExtractedContext, thoughts []domain.Thought, bundle domain.ResultBundle, history []domain.TurnRecord) string {
	analyses := Analyze(bundle, extracted)
	gaps := missingKinds(bundle)

	if c.reasoner == nil {
		return templatedAnswer(analyses, gaps)
	}

	prompt := composePrompt(utterance, extracted, analyses, gaps, history)
	answer, err := c.reasoner.Complete(ctx, []reasoning.Message{{Role: "user", Content: prompt}}, answerSystemPrompt)
	if err != nil {
		c.log.WarnContext(ctx, "composer reasoner call failed, using templated answer", "error", err)
		return templatedAnswer(analyses, gaps)
	}
	return strings.TrimSpace(answer)
}

// gap is one ServiceKind that came back with no usable data, together with
// the keys that were asked for and a cached fallback pulled from the
// knowledge package, so a missing live source still leaves the traveler
// with something actionable.
type gap struct {
	kind domain.ServiceKind
	keys []string
	tips []string
}

// missingKinds reports every ServiceKind that was requested (present in
// bundle) but came back with zero OK results, so the composer can
// explicitly state the gap and offer cached-knowledge alternatives rather
// than silently omitting it.
func missingKinds(bundle domain.ResultBundle) []gap {
	var out []gap
	for kind, results := range bundle {
		anyOK := false
		seenKeys := make(map[string]struct{})
		var keys []string
		for _, r := range results {
			if r.OK {
				anyOK = true
				break
			}
			if _, dup := seenKeys[r.Key]; !dup {
				seenKeys[r.Key] = struct{}{}
				keys = append(keys, r.Key)
			}
		}
		if anyOK {
			continue
		}
		if len(keys) == 0 {
			keys = []string{"default"}
		}
		sort.Strings(keys)

		tipSeen := make(map[string]struct{})
		var tips []string
		for _, key := range keys {
			for _, tip := range knowledge.Suggest(kind, key, maxCachedTipsPerGap) {
				if _, dup := tipSeen[tip]; dup {
					continue
				}
				tipSeen[tip] = struct{}{}
				tips = append(tips, tip)
			}
		}
		out = append(out, gap{kind: kind, keys: keys, tips: tips})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].kind < out[j].kind })
	return out
}

func composePrompt(utterance domain.Utterance, extracted domain.ExtractedContext, analyses []LocationAnalysis, gaps []gap, history []domain.TurnRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Traveler message: %q\n", utterance.Text)
	fmt.Fprintf(&sb, "Trip length: %d day(s)\n", extracted.Days)

	if len(history) > 0 {
		fmt.Fprintf(&sb, "Prior turns in this session: %d\n", len(history))
	}

	for _, a := range analyses {
		fmt.Fprintf(&sb, "\nLocation %s:\n", a.Location)
		if a.WeatherScore >= 0 {
			fmt.Fprintf(&sb, "  weather score: %d/100 (outdoor-friendly: %v)\n", a.WeatherScore, a.Outdoor)
		} else {
			sb.WriteString("  weather: unavailable\n")
		}
		for _, p := range a.TopPOIs {
			fmt.Fprintf(&sb, "  - %s (score %d)\n", p.POI.Name, p.Score)
		}
		for _, tip := range a.Tips {
			fmt.Fprintf(&sb, "  tip: %s\n", tip)
		}
	}

	if len(gaps) > 0 {
		sb.WriteString("\nData unavailable for the following, with cached fallback suggestions (present these as general tips, not live data):\n")
		for _, g := range gaps {
			fmt.Fprintf(&sb, "  %s (%s):\n", g.kind, strings.Join(g.keys, ", "))
			if len(g.tips) == 0 {
				sb.WriteString("    no cached suggestion available\n")
				continue
			}
			for _, tip := range g.tips {
				fmt.Fprintf(&sb, "    - %s\n", tip)
			}
		}
	}

	return sb.String()
}

// templatedAnswer is the deterministic fallback used when no Reasoner is
// configured or the Reasoner call fails; it never fabricates data beyond
// what analyses/gaps already carry, but it does offer cached suggestions for
// each gap so the answer stays useful.
func templatedAnswer(analyses []LocationAnalysis, gaps []gap) string {
	var sb strings.Builder
	if len(analyses) == 0 {
		sb.WriteString("I couldn't gather enough information to plan your trip right now.")
	} else {
		sb.WriteString("Here's what I found:\n")
		for _, a := range analyses {
			fmt.Fprintf(&sb, "- %s: ", a.Location)
			if a.WeatherScore >= 0 {
				fmt.Fprintf(&sb, "weather score %d/100", a.WeatherScore)
			} else {
				sb.WriteString("weather data unavailable")
			}
			if len(a.TopPOIs) > 0 {
				fmt.Fprintf(&sb, ", top pick %s", a.TopPOIs[0].POI.Name)
			}
			sb.WriteString("\n")
		}
	}
	for _, g := range gaps {
		fmt.Fprintf(&sb, "Note: no data available for %s.", g.kind)
		if len(g.tips) > 0 {
			fmt.Fprintf(&sb, " Instead: %s", strings.Join(g.tips, "; "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
