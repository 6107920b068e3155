package keyword

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-ai/roc/domain"
)

func TestExtractDaysDefault(t *testing.T) {
	out := Extract("Show me around town", 1, 7)
	require.Equal(t, 1, out.Days)
}

func TestExtractDaysDigits(t *testing.T) {
	out := Extract("Plan a 3-day romantic trip", 1, 7)
	require.Equal(t, 3, out.Days)
}

func TestExtractDaysSpelled(t *testing.T) {
	out := Extract("five day food tour", 1, 7)
	require.Equal(t, 5, out.Days)
}

func TestExtractDaysClampedToMax(t *testing.T) {
	out := Extract("a 30 day trip", 1, 7)
	require.Equal(t, 7, out.Days)
}

func TestExtractRouteExplicit(t *testing.T) {
	out := Extract("From Downtown to Waterfront, how do I get there?", 1, 7)
	require.NotNil(t, out.Route)
	require.Equal(t, "downtown", out.Route.Start.Canonical)
	require.Equal(t, "waterfront", out.Route.End.Canonical)
}

func TestExtractRouteInferredFromTwoLocations(t *testing.T) {
	out := Extract("I want to visit Downtown and the Museum District", 1, 7)
	require.NotNil(t, out.Route)
}

func TestExtractRouteInferredSpansFirstAndLastOfThreeLocations(t *testing.T) {
	out := Extract("Visiting Downtown, then Old Town, then Waterfront", 1, 7)
	require.GreaterOrEqual(t, len(out.Locations), 3)
	require.NotNil(t, out.Route)
	require.Equal(t, "downtown", out.Route.Start.Canonical)
	require.Equal(t, "waterfront", out.Route.End.Canonical)
}

func TestExtractNoRouteSingleLocation(t *testing.T) {
	out := Extract("What's fun to do in Downtown", 1, 7)
	require.Nil(t, out.Route)
}

func TestExtractActivities(t *testing.T) {
	out := Extract("Looking for good restaurants and a museum visit", 1, 7)
	require.Contains(t, out.Activities, domain.ActivityCuisine)
	require.Contains(t, out.Activities, domain.ActivityCulture)
}

func TestExtractUnverifiedLocation(t *testing.T) {
	out := Extract("Let's explore Sunset District this weekend", 1, 7)
	found := false
	for _, loc := range out.Locations {
		if loc.Unverified {
			found = true
		}
	}
	require.True(t, found)
}

func TestExtractDeterministic(t *testing.T) {
	text := "Plan a 3-day trip from Downtown to Waterfront with good food"
	a := Extract(text, 1, 7)
	b := Extract(text, 1, 7)
	require.Equal(t, a, b)
}

func TestExtractTimesOfDay(t *testing.T) {
	out := Extract("Looking for a quiet evening walk", 1, 7)
	_, ok := out.TimesOfDay[domain.TimeEvening]
	require.True(t, ok)
}
