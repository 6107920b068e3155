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

// Package plan implements component C6, PlanResolver: a pure function
// from (thoughts, extracted context) to a deduplicated PlanSpec.
package plan

import (
	"sort"

	"github.com/wayfarer-ai/roc/domain"
)

// Priority bands enforce InputHints < Weather <= POI <= Navigation <=
// Traffic; DataCollector uses these for scheduling only, never for
// correctness.
const (
	priorityInputHints = 10
	priorityWeather    = 20
	priorityPOI        = 20
	priorityNavigation = 20
	priorityTraffic    = 20

	maxInputHintsCalls = 3
)

// Resolve is the pure entry point for component C6.
func Resolve(thoughts []domain.Thought, extracted domain.ExtractedContext) domain.PlanSpec {
	services := unionServices(thoughts)

	if extracted.Days >= 1 {
		services[domain.ServiceWeather] = struct{}{}
	}
	if len(extracted.Locations) > 0 || len(extracted.ActivityTypes) > 0 {
		services[domain.ServicePOI] = struct{}{}
	} else {
		services[domain.ServicePOI] = struct{}{} // fetch defaults when nothing is named
	}

	hasRoute := extracted.Route != nil
	hasTwoPlusLocations := len(extracted.Locations) >= 2
	if hasRoute || hasTwoPlusLocations {
		services[domain.ServiceNavigation] = struct{}{}
		services[domain.ServiceTraffic] = struct{}{}
	}

	hasUnverified := false
	for _, loc := range extracted.Locations {
		if loc.Unverified {
			hasUnverified = true
			break
		}
	}
	if hasUnverified {
		services[domain.ServiceInputHints] = struct{}{}
	}

	seen := make(map[string]struct{})
	var calls []domain.ServiceCallSpec

	addCall := func(spec domain.ServiceCallSpec) {
		key := spec.DedupKey()
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		calls = append(calls, spec)
	}

	if _, ok := services[domain.ServiceWeather]; ok {
		for _, spec := range weatherCalls(extracted) {
			addCall(spec)
		}
	}
	if _, ok := services[domain.ServicePOI]; ok {
		for _, spec := range poiCalls(extracted) {
			addCall(spec)
		}
	}
	if _, ok := services[domain.ServiceNavigation]; ok {
		for _, spec := range navigationCalls(extracted) {
			addCall(spec)
		}
	}
	if _, ok := services[domain.ServiceTraffic]; ok {
		for _, spec := range trafficCalls(extracted) {
			addCall(spec)
		}
	}
	if _, ok := services[domain.ServiceInputHints]; ok {
		for _, spec := range inputHintsCalls(extracted) {
			addCall(spec)
		}
	}
	if _, ok := services[domain.ServiceCrowd]; ok {
		for _, spec := range crowdCalls(extracted) {
			addCall(spec)
		}
	}

	sort.SliceStable(calls, func(i, j int) bool {
		if calls[i].Priority != calls[j].Priority {
			return calls[i].Priority < calls[j].Priority
		}
		if calls[i].Kind != calls[j].Kind {
			return calls[i].Kind < calls[j].Kind
		}
		return calls[i].Key < calls[j].Key
	})

	return domain.PlanSpec{Calls: calls, HasUnverifiedHints: hasUnverified}
}

func unionServices(thoughts []domain.Thought) map[domain.ServiceKind]struct{} {
	out := make(map[domain.ServiceKind]struct{})
	for _, th := range thoughts {
		for kind := range th.Services {
			out[kind] = struct{}{}
		}
	}
	return out
}

func weatherCalls(extracted domain.ExtractedContext) []domain.ServiceCallSpec {
	if len(extracted.Locations) == 0 {
		return []domain.ServiceCallSpec{{Kind: domain.ServiceWeather, Key: "default", Priority: priorityWeather}}
	}
	var out []domain.ServiceCallSpec
	for _, loc := range extracted.Locations {
		out = append(out, domain.ServiceCallSpec{
			Kind:     domain.ServiceWeather,
			Key:      targetKey(loc),
			Params:   map[string]string{"city": targetKey(loc)},
			Priority: priorityWeather,
		})
	}
	return out
}

func poiCalls(extracted domain.ExtractedContext) []domain.ServiceCallSpec {
	locations := extracted.Locations
	if len(locations) == 0 {
		locations = []domain.Location{{Name: "default", Canonical: "default"}}
	}

	categories := extracted.ActivityTypes
	if len(categories) == 0 {
		categories = []domain.ActivityClass{""}
	}

	var out []domain.ServiceCallSpec
	for _, loc := range locations {
		for _, cat := range categories {
			out = append(out, domain.ServiceCallSpec{
				Kind: domain.ServicePOI,
				Key:  targetKey(loc) + "|" + string(cat),
				Params: map[string]string{
					"location": targetKey(loc),
					"category": string(cat),
				},
				Priority: priorityPOI,
			})
		}
	}
	return out
}

func navigationCalls(extracted domain.ExtractedContext) []domain.ServiceCallSpec {
	pairs := routePairs(extracted)
	var out []domain.ServiceCallSpec
	for _, p := range pairs {
		key := targetKey(p.Start) + "->" + targetKey(p.End)
		out = append(out, domain.ServiceCallSpec{
			Kind: domain.ServiceNavigation,
			Key:  key,
			Params: map[string]string{
				"origin":      targetKey(p.Start),
				"destination": targetKey(p.End),
			},
			Priority: priorityNavigation,
		})
	}
	return out
}

func trafficCalls(extracted domain.ExtractedContext) []domain.ServiceCallSpec {
	pairs := routePairs(extracted)
	var out []domain.ServiceCallSpec
	for _, p := range pairs {
		key := targetKey(p.Start) + "->" + targetKey(p.End)
		out = append(out, domain.ServiceCallSpec{
			Kind:     domain.ServiceTraffic,
			Key:      key,
			Params:   map[string]string{"area": key},
			Priority: priorityTraffic,
		})
	}
	return out
}

// routePairs returns every consecutive location pair to route between.
// With two or more mentioned locations, Route only gates whether
// Navigation/Traffic are included at all — the pairs themselves always
// come from consecutive entries in extracted.Locations, one pair per leg
// of the trip. The explicit Route is used as the sole pair only when
// fewer than two locations were extracted (an explicit "from X to Y"
// phrase whose endpoints didn't also land in Locations).
func routePairs(extracted domain.ExtractedContext) []domain.Route {
	if len(extracted.Locations) >= 2 {
		var out []domain.Route
		for i := 0; i+1 < len(extracted.Locations); i++ {
			out = append(out, domain.Route{Start: extracted.Locations[i], End: extracted.Locations[i+1]})
		}
		return out
	}
	if extracted.Route != nil {
		return []domain.Route{*extracted.Route}
	}
	return nil
}

func inputHintsCalls(extracted domain.ExtractedContext) []domain.ServiceCallSpec {
	hits := make([]domain.KeywordHit, len(extracted.Keywords.Keywords))
	copy(hits, extracted.Keywords.Keywords)
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Priority > hits[j].Priority })

	if len(hits) > maxInputHintsCalls {
		hits = hits[:maxInputHintsCalls]
	}

	var out []domain.ServiceCallSpec
	for _, hit := range hits {
		out = append(out, domain.ServiceCallSpec{
			Kind:     domain.ServiceInputHints,
			Key:      hit.Term,
			Params:   map[string]string{"keyword": hit.Term},
			Priority: priorityInputHints,
		})
	}
	return out
}

func crowdCalls(extracted domain.ExtractedContext) []domain.ServiceCallSpec {
	var out []domain.ServiceCallSpec
	for _, loc := range extracted.Locations {
		out = append(out, domain.ServiceCallSpec{
			Kind:     domain.ServiceCrowd,
			Key:      targetKey(loc),
			Params:   map[string]string{"location": targetKey(loc)},
			Priority: priorityTraffic,
		})
	}
	return out
}

func targetKey(loc domain.Location) string {
	if loc.Canonical != "" {
		return loc.Canonical
	}
	return loc.Name
}
