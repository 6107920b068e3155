package keyword

import "regexp"

// canonicalLocations is the closed Tier-1 gazetteer of place identifiers
// for the configured region, grounded on the alias tables the original
// city-code loader built for its region (city name plus common district
// suffixes).
var canonicalLocations = map[string]struct{}{
	"downtown":         {},
	"old town":         {},
	"riverside":        {},
	"harbor district":  {},
	"tech quarter":     {},
	"museum district":  {},
	"uptown":           {},
	"waterfront":       {},
	"arts district":    {},
	"chinatown":        {},
}

// locationAliases is the Tier-2 alias table: common landmarks and
// abbreviations that resolve to a canonical Tier-1 location.
var locationAliases = map[string]string{
	"the tower":      "downtown",
	"central tower":  "downtown",
	"old market":     "old town",
	"the wharf":      "waterfront",
	"pier":           "waterfront",
	"tech park":      "tech quarter",
	"museum row":     "museum district",
	"china town":     "chinatown",
	"harbor park":    "harbor district",
	"the harbor":     "harbor district",
	"uptown square":  "uptown",
}

// unverifiedLocationShape matches tokens that look like a place name
// (by suffix) but aren't in the Tier-1/Tier-2 tables; these become
// candidate locations marked Unverified.
var unverifiedLocationShape = regexp.MustCompile(`(?i)\b([A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)*)\s(district|park|centre|center|quarter|square|town)\b`)

// resolveLocation canonicalizes a lowercase token against the gazetteer,
// returning ("", false) when it doesn't match.
func resolveLocation(lower string) (string, bool) {
	if _, ok := canonicalLocations[lower]; ok {
		return lower, true
	}
	if canon, ok := locationAliases[lower]; ok {
		return canon, true
	}
	return "", false
}
