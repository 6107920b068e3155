package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-ai/roc/domain"
)

func TestResolveAlwaysIncludesWeatherWhenDaysPresent(t *testing.T) {
	p := Resolve(nil, domain.ExtractedContext{Days: 1})
	require.True(t, containsKind(p.Calls, domain.ServiceWeather))
}

func TestResolveIncludesPOIByDefault(t *testing.T) {
	p := Resolve(nil, domain.ExtractedContext{Days: 1})
	require.True(t, containsKind(p.Calls, domain.ServicePOI))
}

func TestResolveIncludesNavigationAndTrafficWithRoute(t *testing.T) {
	extracted := domain.ExtractedContext{
		Days:  2,
		Route: &domain.Route{Start: domain.Location{Name: "A", Canonical: "a"}, End: domain.Location{Name: "B", Canonical: "b"}},
	}
	p := Resolve(nil, extracted)
	require.True(t, containsKind(p.Calls, domain.ServiceNavigation))
	require.True(t, containsKind(p.Calls, domain.ServiceTraffic))
}

func TestResolveOmitsNavigationWithoutRouteOrMultipleLocations(t *testing.T) {
	extracted := domain.ExtractedContext{Days: 1, Locations: []domain.Location{{Name: "A", Canonical: "a"}}}
	p := Resolve(nil, extracted)
	require.False(t, containsKind(p.Calls, domain.ServiceNavigation))
}

func TestResolveIncludesInputHintsForUnverifiedLocation(t *testing.T) {
	extracted := domain.ExtractedContext{
		Days:      1,
		Locations: []domain.Location{{Name: "Sunset District", Unverified: true}},
		Keywords:  domain.ExtractedKeywords{Keywords: []domain.KeywordHit{{Term: "Sunset District", Priority: 15}}},
	}
	p := Resolve(nil, extracted)
	require.True(t, containsKind(p.Calls, domain.ServiceInputHints))
	require.True(t, p.HasUnverifiedHints)
}

func TestResolveInputHintsCappedAtThree(t *testing.T) {
	extracted := domain.ExtractedContext{
		Days:      1,
		Locations: []domain.Location{{Name: "A", Unverified: true}},
		Keywords: domain.ExtractedKeywords{Keywords: []domain.KeywordHit{
			{Term: "a", Priority: 10},
			{Term: "b", Priority: 9},
			{Term: "c", Priority: 8},
			{Term: "d", Priority: 7},
			{Term: "e", Priority: 6},
		}},
	}
	p := Resolve(nil, extracted)
	count := 0
	for _, c := range p.Calls {
		if c.Kind == domain.ServiceInputHints {
			count++
		}
	}
	require.LessOrEqual(t, count, 3)
}

func TestResolveNoDuplicateCalls(t *testing.T) {
	extracted := domain.ExtractedContext{
		Days:      2,
		Locations: []domain.Location{{Name: "Downtown", Canonical: "downtown"}, {Name: "Downtown", Canonical: "downtown"}},
	}
	thoughts := []domain.Thought{
		{Services: map[domain.ServiceKind]struct{}{domain.ServiceWeather: {}}},
		{Services: map[domain.ServiceKind]struct{}{domain.ServiceWeather: {}}},
	}
	p := Resolve(thoughts, extracted)
	seen := make(map[string]struct{})
	for _, c := range p.Calls {
		key := c.DedupKey()
		_, dup := seen[key]
		require.False(t, dup, "duplicate call spec: %+v", c)
		seen[key] = struct{}{}
	}
}

func TestResolvePriorityOrdering(t *testing.T) {
	extracted := domain.ExtractedContext{
		Days:      2,
		Locations: []domain.Location{{Name: "A", Unverified: true}, {Name: "B", Canonical: "b"}},
		Keywords:  domain.ExtractedKeywords{Keywords: []domain.KeywordHit{{Term: "A", Priority: 15}}},
		Route:     &domain.Route{Start: domain.Location{Name: "A"}, End: domain.Location{Name: "B", Canonical: "b"}},
	}
	p := Resolve(nil, extracted)
	for i := 1; i < len(p.Calls); i++ {
		require.LessOrEqual(t, p.Calls[i-1].Priority, p.Calls[i].Priority)
	}
	// InputHints must sort before Weather/POI/Navigation/Traffic.
	hintsIdx, weatherIdx := -1, -1
	for i, c := range p.Calls {
		if c.Kind == domain.ServiceInputHints && hintsIdx == -1 {
			hintsIdx = i
		}
		if c.Kind == domain.ServiceWeather && weatherIdx == -1 {
			weatherIdx = i
		}
	}
	require.NotEqual(t, -1, hintsIdx)
	require.NotEqual(t, -1, weatherIdx)
	require.Less(t, hintsIdx, weatherIdx)
}

func TestResolveThreeLocationsWithRouteYieldsOnePairPerLeg(t *testing.T) {
	extracted := domain.ExtractedContext{
		Days: 3,
		Locations: []domain.Location{
			{Name: "Downtown", Canonical: "downtown"},
			{Name: "Old Town", Canonical: "old town"},
			{Name: "Waterfront", Canonical: "waterfront"},
		},
		// An explicit route phrase naming only the first and last location
		// must not collapse the per-leg pairs down to a single call.
		Route: &domain.Route{
			Start: domain.Location{Name: "Downtown", Canonical: "downtown"},
			End:   domain.Location{Name: "Waterfront", Canonical: "waterfront"},
		},
	}
	p := Resolve(nil, extracted)

	var navCount, trafficCount int
	for _, c := range p.Calls {
		switch c.Kind {
		case domain.ServiceNavigation:
			navCount++
		case domain.ServiceTraffic:
			trafficCount++
		}
	}
	require.Equal(t, 2, navCount)
	require.Equal(t, 2, trafficCount)
	require.True(t, containsCallKey(p.Calls, domain.ServiceNavigation, "downtown->old town"))
	require.True(t, containsCallKey(p.Calls, domain.ServiceNavigation, "old town->waterfront"))
	require.True(t, containsCallKey(p.Calls, domain.ServiceTraffic, "downtown->old town"))
	require.True(t, containsCallKey(p.Calls, domain.ServiceTraffic, "old town->waterfront"))
}

func TestResolveDeterministic(t *testing.T) {
	extracted := domain.ExtractedContext{
		Days:      3,
		Locations: []domain.Location{{Name: "Downtown", Canonical: "downtown"}, {Name: "Waterfront", Canonical: "waterfront"}},
	}
	a := Resolve(nil, extracted)
	b := Resolve(nil, extracted)
	require.Equal(t, a, b)
}

func containsKind(calls []domain.ServiceCallSpec, kind domain.ServiceKind) bool {
	for _, c := range calls {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func containsCallKey(calls []domain.ServiceCallSpec, kind domain.ServiceKind, key string) bool {
	for _, c := range calls {
		if c.Kind == kind && c.Key == key {
			return true
		}
	}
	return false
}
