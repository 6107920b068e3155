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

// Package keyword implements the deterministic, side-effect-free term and
// intent mining of component C3: locations, activity classes, trip
// duration, route, and time-of-day hints.
package keyword

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/wayfarer-ai/roc/domain"
)

var spelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7,
}

var dayCountPattern = regexp.MustCompile(`(?i)(\d+|one|two|three|four|five|six|seven)[\s-]*day`)

var routePattern = regexp.MustCompile(`(?i)\bfrom\s+(.+?)\s+to\s+(.+?)(?:[.,!?]|$)`)

var activityTerms = []struct {
	term  string
	class domain.ActivityClass
}{
	{"shopping", domain.ActivityShopping},
	{"mall", domain.ActivityShopping},
	{"market", domain.ActivityShopping},
	{"food", domain.ActivityCuisine},
	{"cuisine", domain.ActivityCuisine},
	{"restaurant", domain.ActivityCuisine},
	{"eat", domain.ActivityCuisine},
	{"museum", domain.ActivityCulture},
	{"culture", domain.ActivityCulture},
	{"temple", domain.ActivityCulture},
	{"history", domain.ActivityCulture},
	{"concert", domain.ActivityEntertainment},
	{"show", domain.ActivityEntertainment},
	{"entertainment", domain.ActivityEntertainment},
	{"nightlife", domain.ActivityEntertainment},
	{"park", domain.ActivityNature},
	{"hike", domain.ActivityNature},
	{"hiking", domain.ActivityNature},
	{"nature", domain.ActivityNature},
	{"outdoor", domain.ActivityNature},
	{"conference", domain.ActivityBusiness},
	{"meeting", domain.ActivityBusiness},
	{"business", domain.ActivityBusiness},
	{"kids", domain.ActivityFamily},
	{"children", domain.ActivityFamily},
	{"family", domain.ActivityFamily},
	{"relax", domain.ActivityLeisure},
	{"leisure", domain.ActivityLeisure},
	{"spa", domain.ActivityLeisure},
	{"sightseeing", domain.ActivitySightseeing},
	{"landmark", domain.ActivitySightseeing},
	{"tour", domain.ActivitySightseeing},
}

var timeOfDayTerms = map[string]domain.TimeOfDay{
	"morning": domain.TimeMorning,
	"evening": domain.TimeEvening,
	"night":   domain.TimeNight,
	"nightlife": domain.TimeNight,
}

// Extract is the pure entry point for component C3.
func Extract(text string, defaultDays, maxDays int) domain.ExtractedKeywords {
	lower := strings.ToLower(text)

	locations := extractLocations(text, lower)
	activities := extractActivities(lower)
	days := extractDays(lower, defaultDays, maxDays)
	route := extractRoute(text, locations)
	times := extractTimesOfDay(lower)
	hits := rankKeywords(locations, activities)

	return domain.ExtractedKeywords{
		Locations:  locations,
		Activities: activities,
		Days:       days,
		Route:      route,
		TimesOfDay: times,
		Keywords:   hits,
	}
}

// extractLocations returns every recognized or candidate location, in the
// order each first appears in the text — callers (the plan resolver in
// particular) pair up consecutive entries as trip legs, so mention order
// is load-bearing, not cosmetic.
func extractLocations(original, lower string) []domain.Location {
	seen := make(map[string]struct{})

	type match struct {
		loc        domain.Location
		start, end int
	}

	type candidate struct {
		surface string
		canon   string
		pos     int
	}
	var candidates []candidate
	for surface := range canonicalLocations {
		if idx := strings.Index(lower, surface); idx >= 0 {
			candidates = append(candidates, candidate{surface: surface, canon: surface, pos: idx})
		}
	}
	for alias, canon := range locationAliases {
		if idx := strings.Index(lower, alias); idx >= 0 {
			candidates = append(candidates, candidate{surface: alias, canon: canon, pos: idx})
		}
	}
	// Longest-surface-first so an overlapping alias ("museum row") claims
	// its span before the shorter "museum" can; final output order is
	// re-sorted by position below, so this ordering only affects which
	// overlapping match wins, not the result order.
	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i].surface) != len(candidates[j].surface) {
			return len(candidates[i].surface) > len(candidates[j].surface)
		}
		return candidates[i].pos < candidates[j].pos
	})

	var claims []match
	overlaps := func(start, end int) bool {
		for _, c := range claims {
			if start < c.end && c.start < end {
				return true
			}
		}
		return false
	}

	for _, c := range candidates {
		if _, dup := seen[c.canon]; dup {
			continue
		}
		end := c.pos + len(c.surface)
		if overlaps(c.pos, end) {
			continue
		}
		seen[c.canon] = struct{}{}
		claims = append(claims, match{loc: domain.Location{Name: c.surface, Canonical: c.canon}, start: c.pos, end: end})
	}

	for _, idx := range unverifiedLocationShape.FindAllStringIndex(original, -1) {
		m := original[idx[0]:idx[1]]
		if overlaps(idx[0], idx[1]) {
			continue
		}
		canon, ok := resolveLocation(strings.ToLower(m))
		if ok {
			if _, dup := seen[canon]; dup {
				continue
			}
			seen[canon] = struct{}{}
			claims = append(claims, match{loc: domain.Location{Name: m, Canonical: canon}, start: idx[0], end: idx[1]})
			continue
		}
		key := "unverified:" + strings.ToLower(m)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		claims = append(claims, match{loc: domain.Location{Name: m, Unverified: true}, start: idx[0], end: idx[1]})
	}

	sort.SliceStable(claims, func(i, j int) bool { return claims[i].start < claims[j].start })

	out := make([]domain.Location, len(claims))
	for i, c := range claims {
		out[i] = c.loc
	}
	return out
}

func extractActivities(lower string) []domain.ActivityClass {
	seen := make(map[domain.ActivityClass]struct{})
	var out []domain.ActivityClass
	for _, t := range activityTerms {
		if strings.Contains(lower, t.term) {
			if _, dup := seen[t.class]; dup {
				continue
			}
			seen[t.class] = struct{}{}
			out = append(out, t.class)
		}
	}
	return out
}

func extractDays(lower string, defaultDays, maxDays int) int {
	m := dayCountPattern.FindStringSubmatch(lower)
	if m == nil {
		return defaultDays
	}
	raw := m[1]
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = spelledNumbers[raw]
	}
	if n < 1 {
		return defaultDays
	}
	if n > maxDays {
		return maxDays
	}
	return n
}

// extractRoute reports only the overall trip endpoints, as a gate for
// whether Navigation/Traffic apply and a summary for the reasoning
// prompt. It is not the source of per-leg pairs: with three or more
// locations mentioned, the plan resolver builds one Navigation/Traffic
// call per consecutive pair directly from Locations, not from this field.
func extractRoute(original string, locations []domain.Location) *domain.Route {
	if m := routePattern.FindStringSubmatch(original); m != nil {
		start := strings.TrimSpace(m[1])
		end := strings.TrimSpace(m[2])
		startLoc := matchOrCandidate(start, locations)
		endLoc := matchOrCandidate(end, locations)
		return &domain.Route{Start: startLoc, End: endLoc}
	}

	// No explicit route phrase: infer overall start/end from the mentioned
	// locations in order, spanning all of them rather than just the first
	// two.
	if len(locations) >= 2 {
		return &domain.Route{Start: locations[0], End: locations[len(locations)-1]}
	}
	return nil
}

func matchOrCandidate(text string, locations []domain.Location) domain.Location {
	lower := strings.ToLower(text)
	for _, loc := range locations {
		if strings.Contains(lower, strings.ToLower(loc.Name)) || strings.Contains(lower, loc.Canonical) {
			return loc
		}
	}
	return domain.Location{Name: text, Unverified: true}
}

func extractTimesOfDay(lower string) map[domain.TimeOfDay]struct{} {
	out := make(map[domain.TimeOfDay]struct{})
	for term, tag := range timeOfDayTerms {
		if strings.Contains(lower, term) {
			out[tag] = struct{}{}
		}
	}
	return out
}

// rankKeywords assigns deterministic priority weights to location and
// activity terms so the plan resolver can pick the top few by
// deterministic score when budgeting InputHints calls.
func rankKeywords(locations []domain.Location, activities []domain.ActivityClass) []domain.KeywordHit {
	var hits []domain.KeywordHit
	for i, loc := range locations {
		priority := 10 - i
		if loc.Unverified {
			priority += 5 // unverified candidates need hints the most
		}
		hits = append(hits, domain.KeywordHit{Term: loc.Name, Priority: priority})
	}
	for i, a := range activities {
		hits = append(hits, domain.KeywordHit{Term: string(a), Priority: 5 - i})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Priority > hits[j].Priority })
	return hits
}
