package compose

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-ai/roc/domain"
	"github.com/wayfarer-ai/roc/reasoning"
	"github.com/wayfarer-ai/roc/upstream"
)

func ptrFloat(f float64) *float64 { return &f }
func ptrBool(b bool) *bool        { return &b }

func TestScoreWeatherSunnyMild(t *testing.T) {
	score, outdoor := scoreWeather(upstream.DailyForecast{Text: "Sunny", TempDayC: 24, TempNightC: 16})
	require.Greater(t, score, 70)
	require.True(t, outdoor)
}

func TestScoreWeatherExtremeCold(t *testing.T) {
	score, outdoor := scoreWeather(upstream.DailyForecast{Text: "Clear", TempDayC: 2, TempNightC: -5})
	require.Less(t, score, 70)
	require.False(t, outdoor)
}

func TestScoreWeatherStorm(t *testing.T) {
	score, outdoor := scoreWeather(upstream.DailyForecast{Text: "Severe thunderstorm", TempDayC: 20, TempNightC: 15})
	require.Less(t, score, 30)
	require.False(t, outdoor)
}

func TestRankPOIsOrdersByScoreThenRatingThenName(t *testing.T) {
	pois := []upstream.POI{
		{Name: "Zebra Museum", Rating: ptrFloat(4.5)},
		{Name: "Alpha Museum", Rating: ptrFloat(4.5)},
		{Name: "Low Rated", Rating: ptrFloat(1.0)},
	}
	scored := rankPOIs(pois, true, domain.ExtractedContext{})
	require.Equal(t, "Alpha Museum", scored[0].POI.Name)
	require.Equal(t, "Zebra Museum", scored[1].POI.Name)
}

func TestRankPOIsCapsAtTopK(t *testing.T) {
	var pois []upstream.POI
	for i := 0; i < 10; i++ {
		pois = append(pois, upstream.POI{Name: string(rune('a' + i)), Rating: ptrFloat(3.0)})
	}
	scored := rankPOIs(pois, true, domain.ExtractedContext{})
	require.LessOrEqual(t, len(scored), topKPOIs)
}

func TestAnalyzeFlagsMissingWeather(t *testing.T) {
	bundle := domain.ResultBundle{
		domain.ServicePOI: {{Kind: domain.ServicePOI, Key: "downtown", OK: true, Payload: []upstream.POI{{Name: "A", Rating: ptrFloat(4)}}}},
	}
	analyses := Analyze(bundle, domain.ExtractedContext{})
	require.Len(t, analyses, 1)
	require.Equal(t, -1, analyses[0].WeatherScore)
	require.NotEmpty(t, analyses[0].Tips)
}

func TestMissingKindsReportsAllErrKind(t *testing.T) {
	bundle := domain.ResultBundle{
		domain.ServiceWeather: {{Kind: domain.ServiceWeather, Key: "downtown", OK: false, ErrKind: domain.ErrorUpstream}},
		domain.ServicePOI:     {{Kind: domain.ServicePOI, Key: "downtown", OK: true}},
	}
	gaps := missingKinds(bundle)
	require.Len(t, gaps, 1)
	require.Equal(t, domain.ServiceWeather, gaps[0].kind)
	require.Equal(t, []string{"downtown"}, gaps[0].keys)
}

func TestMissingKindsOffersCachedTips(t *testing.T) {
	bundle := domain.ResultBundle{
		domain.ServicePOI: {{Kind: domain.ServicePOI, Key: "museum district|", OK: false, ErrKind: domain.ErrorUpstream}},
	}
	gaps := missingKinds(bundle)
	require.Len(t, gaps, 1)
	require.NotEmpty(t, gaps[0].tips)
}

type stubReasoner struct {
	response string
	err      error
}

func (s stubReasoner) Complete(ctx context.Context, messages []reasoning.Message, systemPrompt string) (string, error) {
	return s.response, s.err
}

func TestComposeUsesReasonerWhenAvailable(t *testing.T) {
	c := NewComposer(stubReasoner{response: "Here is your plan."}, nil)
	answer := c.Compose(context.Background(), domain.Utterance{Text: "hi"}, domain.ExtractedContext{}, nil, domain.ResultBundle{}, nil)
	require.Equal(t, "Here is your plan.", answer)
}

func TestComposeFallsBackToTemplateOnReasonerError(t *testing.T) {
	c := NewComposer(stubReasoner{err: errors.New("boom")}, nil)
	bundle := domain.ResultBundle{
		domain.ServiceWeather: {{Kind: domain.ServiceWeather, Key: "downtown", OK: true, Payload: []upstream.DailyForecast{{Text: "Sunny", TempDayC: 25, TempNightC: 18}}}},
	}
	answer := c.Compose(context.Background(), domain.Utterance{Text: "hi"}, domain.ExtractedContext{}, nil, bundle, nil)
	require.Contains(t, answer, "downtown")
}

func TestComposeNeverFabricatesStatesGap(t *testing.T) {
	c := NewComposer(nil, nil)
	bundle := domain.ResultBundle{
		domain.ServiceWeather: {{Kind: domain.ServiceWeather, Key: "downtown", OK: false, ErrKind: domain.ErrorUpstream}},
	}
	answer := c.Compose(context.Background(), domain.Utterance{Text: "hi"}, domain.ExtractedContext{}, nil, bundle, nil)
	require.Contains(t, answer, "weather")
}

func TestComposeOffersCachedAlternativeForGap(t *testing.T) {
	c := NewComposer(nil, nil)
	bundle := domain.ResultBundle{
		domain.ServicePOI: {{Kind: domain.ServicePOI, Key: "waterfront|", OK: false, ErrKind: domain.ErrorUpstream}},
	}
	answer := c.Compose(context.Background(), domain.Utterance{Text: "hi"}, domain.ExtractedContext{}, nil, bundle, nil)
	require.Contains(t, answer, "Instead:")
}
