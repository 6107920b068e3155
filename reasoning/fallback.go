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
	"fmt"

	"github.com/wayfarer-ai/roc/domain"
)

// ruleBasedChain synthesises the canonical four-step chain used whenever
// the Reasoner is unavailable, fails, times out, or returns zero usable
// thoughts. It is pure and fully deterministic: same inputs, same chain.
func ruleBasedChain(extracted domain.ExtractedContext) []domain.Thought {
	var thoughts []domain.Thought
	step := 1

	thoughts = append(thoughts, domain.Thought{
		Step:     step,
		Text:     fmt.Sprintf("Acknowledge the request for a %d-day trip.", extracted.Days),
		Keywords: keywordTerms(extracted),
		Services: map[domain.ServiceKind]struct{}{},
	})
	step++

	poiServices := map[domain.ServiceKind]struct{}{domain.ServicePOI: {}}
	locText := "Identify points of interest for the requested activities and locations."
	thoughts = append(thoughts, domain.Thought{
		Step:     step,
		Text:     locText,
		Keywords: keywordTerms(extracted),
		Services: poiServices,
	})
	step++

	thoughts = append(thoughts, domain.Thought{
		Step:     step,
		Text:     "Check weather conditions for the trip window.",
		Keywords: keywordTerms(extracted),
		Services: map[domain.ServiceKind]struct{}{domain.ServiceWeather: {}},
	})
	step++

	hasRoute := extracted.Route != nil
	hasTwoPlusLocations := len(extracted.Locations) >= 2
	if hasRoute || hasTwoPlusLocations {
		thoughts = append(thoughts, domain.Thought{
			Step:     step,
			Text:     "Plan navigation between locations and check traffic conditions.",
			Keywords: keywordTerms(extracted),
			Services: map[domain.ServiceKind]struct{}{
				domain.ServiceNavigation: {},
				domain.ServiceTraffic:    {},
			},
		})
	}

	return thoughts
}

func keywordTerms(extracted domain.ExtractedContext) []string {
	var out []string
	for _, hit := range extracted.Keywords.Keywords {
		out = append(out, hit.Term)
	}
	return out
}
