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
	"encoding/json"
	"errors"
	"strings"

	"github.com/wayfarer-ai/roc/domain"
)

// apiNeedsToServiceKind is the closed lookup table mapping the Reasoner's
// free-text api_needs entries to a ServiceKind. Unknown entries are
// silently dropped, never surfaced as an error.
var apiNeedsToServiceKind = map[string]domain.ServiceKind{
	"weather":     domain.ServiceWeather,
	"poi":         domain.ServicePOI,
	"navigation":  domain.ServiceNavigation,
	"nav":         domain.ServiceNavigation,
	"traffic":     domain.ServiceTraffic,
	"crowd":       domain.ServiceCrowd,
	"input_hints": domain.ServiceInputHints,
	"hints":       domain.ServiceInputHints,
}

type rawThoughtChain struct {
	Thoughts []rawThought `json:"thoughts"`
}

type rawThought struct {
	Step      int      `json:"step"`
	Thought   string   `json:"thought"`
	Keywords  []string `json:"keywords"`
	APINeeds  []string `json:"api_needs"`
	Reasoning string   `json:"reasoning"`
}

// extractFirstJSONObject scans s for the first balanced {...} block,
// tracking string literals and escapes so braces inside quoted text don't
// confuse the bracket depth. A hand-rolled scan handles tolerant LLM
// response parsing more reliably than a regex here.
func extractFirstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range s {
		if start == -1 {
			if r == '{' {
				start = i
				depth = 1
			}
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// parseThoughtChain tolerantly parses a Reasoner's raw text response into
// a Thought sequence. Malformed fields are ignored rather than aborting
// the whole chain; a completely unparsable response yields (nil, false)
// so the caller falls back to the rule-based chain. Steps are renumbered
// 1..n in response order.
func parseThoughtChain(raw string, extractedKeywords []string) ([]domain.Thought, bool) {
	block, ok := extractFirstJSONObject(raw)
	if !ok {
		return nil, false
	}

	var parsed rawThoughtChain
	if err := json.Unmarshal([]byte(block), &parsed); err != nil {
		// A value of the wrong type only leaves that field unset; any other
		// decode error means the block is unusable.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, false
		}
	}
	if len(parsed.Thoughts) == 0 {
		return nil, false
	}

	thoughts := make([]domain.Thought, 0, len(parsed.Thoughts))
	for _, rt := range parsed.Thoughts {
		services := make(map[domain.ServiceKind]struct{})
		for _, need := range rt.APINeeds {
			kind, known := apiNeedsToServiceKind[strings.ToLower(strings.TrimSpace(need))]
			if !known {
				continue
			}
			services[kind] = struct{}{}
		}

		keywords := mergeKeywords(rt.Keywords, extractedKeywords)

		thoughts = append(thoughts, domain.Thought{
			Step:      len(thoughts) + 1,
			Text:      rt.Thought,
			Keywords:  keywords,
			Services:  services,
			Rationale: rt.Reasoning,
		})
	}

	if len(thoughts) == 0 {
		return nil, false
	}
	return thoughts, true
}

func mergeKeywords(llmKeywords, extractorKeywords []string) []string {
	seen := make(map[string]struct{}, len(llmKeywords)+len(extractorKeywords))
	var out []string
	for _, k := range llmKeywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	for _, k := range extractorKeywords {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
