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

// Package affect implements the deterministic, side-effect-free extraction
// of component C4: travel companions, emotional context (mood, avoidances,
// desires), budget, and soft preferences.
package affect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wayfarer-ai/roc/domain"
)

var amountPattern = regexp.MustCompile(`\$\s?(\d[\d,]*)|(\d[\d,]*)\s?(?:dollars|usd|per day|per person)|\bbudget\s+(?:of\s+)?\$?\s?(\d[\d,]*)`)

var budgetMinPattern = regexp.MustCompile(`(?i)\bat least\b|\bminimum\b|\bno less than\b`)
var budgetMaxPattern = regexp.MustCompile(`(?i)\bno more than\b|\bunder\b|\bmax(?:imum)?\b|\bcan't exceed\b|\bcannot exceed\b`)

// Extract is the pure entry point for component C4. It derives companions,
// emotional context, budget, and preference flags from raw utterance text.
func Extract(text string) (domain.Companions, domain.EmotionalContext, domain.Budget, domain.Preferences) {
	lower := strings.ToLower(text)

	return extractCompanions(lower), extractEmotion(lower), extractBudget(lower), extractPreferences(lower)
}

func extractCompanions(lower string) domain.Companions {
	c := domain.Companions{FamilyMembers: make(map[domain.FamilyRole]int)}

	for _, rule := range companionRules {
		if !strings.Contains(lower, rule.term) {
			continue
		}
		if c.Type == domain.CompanionsUnknown {
			c.Type = rule.typ
		}
		if rule.typ == domain.CompanionsRomantic && c.PartnerLabel == "" {
			c.PartnerLabel = rule.term
		}
		if rule.typ == domain.CompanionsFamily && rule.family != "" {
			c.FamilyMembers[rule.family]++
		}
	}

	c.Size = explicitPartySize(lower)
	if c.Size == 0 {
		c.Size = inferredPartySize(c)
	}

	return c
}

var partySizePattern = regexp.MustCompile(`(?i)(?:party of|group of|table for)\s+(\d+)|(\d+)\s+(?:people|adults|guests|travelers)`)

func explicitPartySize(lower string) int {
	m := partySizePattern.FindStringSubmatch(lower)
	if m == nil {
		return 0
	}
	for _, g := range m[1:] {
		if g == "" {
			continue
		}
		if n, err := strconv.Atoi(g); err == nil {
			return n
		}
	}
	return 0
}

func inferredPartySize(c domain.Companions) int {
	switch c.Type {
	case domain.CompanionsSolo:
		return 1
	case domain.CompanionsRomantic:
		return 2
	case domain.CompanionsFamily:
		total := 1 // the speaker
		for _, n := range c.FamilyMembers {
			total += n
		}
		if total < 2 {
			return 2
		}
		return total
	case domain.CompanionsFriends, domain.CompanionsColleagues:
		return 0 // unknown group size; caller must not assume a default
	default:
		return 0
	}
}

func extractEmotion(lower string) domain.EmotionalContext {
	ec := domain.NewEmotionalContext()
	for term, mood := range moodTerms {
		if strings.Contains(lower, term) {
			ec.Moods[mood] = struct{}{}
		}
	}
	for term, avoid := range avoidTerms {
		if strings.Contains(lower, term) {
			ec.Avoid[avoid] = struct{}{}
		}
	}
	for term, desire := range desireTerms {
		if strings.Contains(lower, term) {
			ec.Desires[desire] = struct{}{}
		}
	}
	return ec
}

func extractBudget(lower string) domain.Budget {
	b := domain.Budget{}

	if m := amountPattern.FindStringSubmatch(lower); m != nil {
		raw := ""
		for _, g := range m[1:] {
			if g != "" {
				raw = g
				break
			}
		}
		raw = strings.ReplaceAll(raw, ",", "")
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			b.Amount = &n
		}
	}

	// The longest matching term wins (alphabetical on equal length), so the
	// result never depends on map iteration order.
	best := ""
	for term, level := range qualitativeBudgetTerms {
		if !strings.Contains(lower, term) {
			continue
		}
		if len(term) > len(best) || (len(term) == len(best) && term < best) {
			best = term
			b.Level = level
		}
	}

	switch {
	case budgetMinPattern.MatchString(lower):
		b.Constraint = domain.BudgetConstraintMin
	case budgetMaxPattern.MatchString(lower):
		b.Constraint = domain.BudgetConstraintMax
	}

	return b
}

func extractPreferences(lower string) domain.Preferences {
	p := domain.NewPreferences()
	for term, flag := range preferenceTerms {
		if strings.Contains(lower, term) {
			p.Flags[flag] = struct{}{}
		}
	}
	return p
}
