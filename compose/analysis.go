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

// Package compose implements component C8: environmental analysis of a
// ResultBundle into per-location LocationAnalysis, and answer composition
// via the Reasoner.
package compose

import (
	"sort"
	"strings"

	"github.com/wayfarer-ai/roc/domain"
	"github.com/wayfarer-ai/roc/upstream"
)

// poiRatingWeight is the rating component's share of a POI's fit score.
const poiRatingWeight = 0.6

// LocationAnalysis fuses weather and POI results for one target location.
type LocationAnalysis struct {
	Location     string
	WeatherScore int // 0-100; -1 when no weather data is available
	Outdoor      bool
	TopPOIs      []ScoredPOI
	Tips         []string
}

// ScoredPOI is one POI annotated with its composed fit score.
type ScoredPOI struct {
	POI   upstream.POI
	Score int
}

const topKPOIs = 5

// Analyze builds one LocationAnalysis per distinct key present in the
// weather or POI result lists.
func Analyze(bundle domain.ResultBundle, extracted domain.ExtractedContext) []LocationAnalysis {
	keys := targetKeys(bundle)
	analyses := make([]LocationAnalysis, 0, len(keys))
	for _, key := range keys {
		analyses = append(analyses, analyzeLocation(key, bundle, extracted))
	}
	return analyses
}

func targetKeys(bundle domain.ResultBundle) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, kind := range []domain.ServiceKind{domain.ServiceWeather, domain.ServicePOI} {
		for _, r := range bundle[kind] {
			key := baseKey(r.Key)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// baseKey strips PlanResolver's "location|category" composite suffix so
// weather and POI results for the same location line up.
func baseKey(key string) string {
	if idx := strings.IndexByte(key, '|'); idx >= 0 {
		return key[:idx]
	}
	return key
}

func analyzeLocation(key string, bundle domain.ResultBundle, extracted domain.ExtractedContext) LocationAnalysis {
	analysis := LocationAnalysis{Location: key, WeatherScore: -1}

	var forecast *upstream.DailyForecast
	for _, r := range bundle[domain.ServiceWeather] {
		if baseKey(r.Key) != key || !r.OK {
			continue
		}
		if days, ok := r.Payload.([]upstream.DailyForecast); ok && len(days) > 0 {
			forecast = &days[0]
		}
	}

	if forecast != nil {
		analysis.WeatherScore, analysis.Outdoor = scoreWeather(*forecast)
	} else {
		analysis.Tips = append(analysis.Tips, "no weather data available for "+key)
	}

	var pois []upstream.POI
	anyPOIOK := false
	for _, r := range bundle[domain.ServicePOI] {
		if baseKey(r.Key) != key {
			continue
		}
		if !r.OK {
			continue
		}
		anyPOIOK = true
		if list, ok := r.Payload.([]upstream.POI); ok {
			pois = append(pois, list...)
		}
	}
	if !anyPOIOK {
		analysis.Tips = append(analysis.Tips, "no points of interest available for "+key)
	}

	analysis.TopPOIs = rankPOIs(pois, analysis.Outdoor, extracted)
	if analysis.Outdoor && forecast != nil {
		analysis.Tips = append(analysis.Tips, "weather favors outdoor plans in "+key)
	} else if forecast != nil {
		analysis.Tips = append(analysis.Tips, "prioritize indoor options in "+key)
	}

	return analysis
}

// scoreWeather derives a 0-100 favorability score and an outdoor-suitability
// flag from one day's forecast, by rule on condition text and temperature
// brackets.
func scoreWeather(f upstream.DailyForecast) (int, bool) {
	condition := strings.ToLower(f.Text)
	score := 70
	outdoor := true

	switch {
	case strings.Contains(condition, "storm") || strings.Contains(condition, "extreme") || strings.Contains(condition, "hurricane"):
		score, outdoor = 10, false
	case strings.Contains(condition, "snow"):
		score, outdoor = 30, false
	case strings.Contains(condition, "rain") || strings.Contains(condition, "shower"):
		score, outdoor = 40, false
	case strings.Contains(condition, "cloud") || strings.Contains(condition, "overcast"):
		score, outdoor = 60, true
	case strings.Contains(condition, "sun") || strings.Contains(condition, "clear"):
		score, outdoor = 90, true
	}

	avgTemp := (f.TempDayC + f.TempNightC) / 2
	switch {
	case avgTemp <= 5:
		score -= 20
		outdoor = false
	case avgTemp >= 33:
		score -= 15
		outdoor = false
	}

	if f.Precipitation > 50 {
		score -= 10
		outdoor = false
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, outdoor
}

// rankPOIs scores and sorts pois, returning at most topKPOIs.
func rankPOIs(pois []upstream.POI, outdoorWeather bool, extracted domain.ExtractedContext) []ScoredPOI {
	scored := make([]ScoredPOI, 0, len(pois))
	for _, p := range pois {
		scored = append(scored, ScoredPOI{POI: p, Score: scorePOI(p, outdoorWeather, extracted)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		ri, rj := ratingOf(scored[i].POI), ratingOf(scored[j].POI)
		if ri != rj {
			return ri > rj
		}
		return scored[i].POI.Name < scored[j].POI.Name
	})
	if len(scored) > topKPOIs {
		scored = scored[:topKPOIs]
	}
	return scored
}

func ratingOf(p upstream.POI) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func scorePOI(p upstream.POI, outdoorWeather bool, extracted domain.ExtractedContext) int {
	ratingComponent := (ratingOf(p) / 5.0) * 100 * poiRatingWeight

	fitComponent := 0.0
	if p.Indoor != nil {
		if *p.Indoor == !outdoorWeather {
			fitComponent = 15
		} else {
			fitComponent = -10
		}
	}

	prefComponent := 0.0
	_, preferIndoor := extracted.Preferences.Flags[domain.PreferIndoor]
	_, preferOutdoor := extracted.Preferences.Flags[domain.PreferOutdoor]
	if p.Indoor != nil {
		if preferIndoor && *p.Indoor {
			prefComponent += 10
		}
		if preferOutdoor && !*p.Indoor {
			prefComponent += 10
		}
	}
	_, preferBudget := extracted.Preferences.Flags[domain.PreferBudgetFriendly]
	_, preferPremium := extracted.Preferences.Flags[domain.PreferPremium]

	budgetComponent := 0.0
	if p.Price != nil {
		switch {
		case preferBudget && *p.Price <= 2:
			budgetComponent += 10
		case preferPremium && *p.Price >= 3:
			budgetComponent += 10
		}
	}

	total := ratingComponent + fitComponent + prefComponent + budgetComponent
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return int(total)
}
