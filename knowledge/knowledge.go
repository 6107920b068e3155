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

// Package knowledge holds a small curated cache of destination tips and
// alternative suggestions, consulted by the answer composer whenever a live
// service call came back empty. It is a keyword-matched lookup rather than a
// vector search: there is no embedding pipeline anywhere upstream of it, so
// scoring by word overlap is the honest fit, the same fallback the
// memory subsystem reaches for when no vector database is configured.
package knowledge

import (
	"sort"
	"strings"

	"github.com/wayfarer-ai/roc/domain"
)

// Tip is one cached suggestion, taggable to the locations and activity
// classes it is relevant for.
type Tip struct {
	Kind domain.ServiceKind
	Tags []string
	Text string
}

// base is a small hand-curated set of destination-agnostic and
// destination-specific fallbacks. It is intentionally small: it exists to
// keep an answer useful when a live source is unavailable, not to replace
// one.
var base = []Tip{
	{Kind: domain.ServiceWeather, Tags: []string{"default"}, Text: "pack layers; conditions were not available so plan for variable weather"},
	{Kind: domain.ServiceWeather, Tags: []string{"downtown", "uptown"}, Text: "city centers usually run a couple degrees warmer than surrounding areas"},
	{Kind: domain.ServiceWeather, Tags: []string{"waterfront", "harbor district"}, Text: "waterfront areas tend to be windier than inland neighborhoods"},

	{Kind: domain.ServicePOI, Tags: []string{"default"}, Text: "local visitor centers and hotel concierges are a reliable fallback for nearby picks"},
	{Kind: domain.ServicePOI, Tags: []string{"museum district", "arts district"}, Text: "museum and arts districts usually cluster galleries within easy walking distance of each other"},
	{Kind: domain.ServicePOI, Tags: []string{"old town", "chinatown"}, Text: "historic quarters tend to reward wandering side streets rather than following a fixed route"},
	{Kind: domain.ServicePOI, Tags: []string{"riverside", "waterfront"}, Text: "riverside and waterfront promenades are typically free, walkable alternatives to ticketed attractions"},
	{Kind: domain.ServicePOI, Tags: []string{"tech quarter"}, Text: "tech districts often have coworking cafes that double as casual daytime stops"},

	{Kind: domain.ServiceNavigation, Tags: []string{"default"}, Text: "ride-hailing or a local transit pass are reasonable defaults between major districts"},
	{Kind: domain.ServiceTraffic, Tags: []string{"default"}, Text: "aim to move between districts outside typical morning and evening commute windows"},
	{Kind: domain.ServiceCrowd, Tags: []string{"default"}, Text: "arriving near opening time is the most reliable way to avoid crowds without live data"},
	{Kind: domain.ServiceInputHints, Tags: []string{"default"}, Text: "treat unconfirmed place names as approximate until a local source can verify them"},
}

// Suggest returns up to n cached tips for kind, ranked by tag overlap with
// key (a location's canonical name, a route key, or similar). Ties fall back
// to the destination-agnostic "default" tips.
func Suggest(kind domain.ServiceKind, key string, n int) []string {
	words := tokenize(key)

	type scored struct {
		tip   Tip
		score int
	}
	var candidates []scored
	for _, t := range base {
		if t.Kind != kind {
			continue
		}
		candidates = append(candidates, scored{tip: t, score: overlap(words, t.Tags)})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.tip.Text)
	}
	return out
}

func tokenize(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, word := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		out[word] = struct{}{}
	}
	return out
}

func overlap(words map[string]struct{}, tags []string) int {
	score := 0
	for _, tag := range tags {
		if tag == "default" {
			continue
		}
		for _, tagWord := range strings.Fields(tag) {
			if _, ok := words[tagWord]; ok {
				score++
			}
		}
	}
	return score
}
