package roc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-ai/roc/config"
	"github.com/wayfarer-ai/roc/domain"
	"github.com/wayfarer-ai/roc/upstream"
)

func testConfig() *config.Config {
	cfg := &config.Config{Region: "testregion"}
	cfg.SetDefaults()
	cfg.PerCallTimeoutMs = 500
	cfg.HintsTimeoutMs = 300
	return cfg
}

func newCoreWithRegistry(cfg *config.Config) (*Core, *upstream.Registry) {
	reg := upstream.NewRegistry()
	reg.Register(domain.ServiceWeather, &upstream.FakeClient{
		CannedResult: func(spec domain.ServiceCallSpec) domain.ServiceResult {
			return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: []upstream.DailyForecast{{Text: "Sunny", TempDayC: 24, TempNightC: 16}}}
		},
	})
	reg.Register(domain.ServicePOI, &upstream.FakeClient{
		CannedResult: func(spec domain.ServiceCallSpec) domain.ServiceResult {
			rating := 4.2
			return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: []upstream.POI{{Name: "Sample POI", Rating: &rating}}}
		},
	})
	reg.Register(domain.ServiceNavigation, &upstream.FakeClient{})
	reg.Register(domain.ServiceTraffic, &upstream.FakeClient{})
	reg.Register(domain.ServiceInputHints, &upstream.FakeClient{})

	core := New(cfg, nil, reg, nil)
	return core, reg
}

func TestHandleEmptyUtteranceIsInvalidInput(t *testing.T) {
	core, _ := newCoreWithRegistry(testConfig())
	_, err := core.Handle(context.Background(), "u3", "", Options{})
	require.Error(t, err)
	require.Equal(t, domain.ErrorInvalidInput, domain.KindOf(err))
}

func TestHandleRomanticBudgetScenario(t *testing.T) {
	core, _ := newCoreWithRegistry(testConfig())
	resp, err := core.Handle(context.Background(), "u1",
		"Plan a 3-day romantic trip for me and my girlfriend, budget 20000, avoid crowded places",
		Options{IncludeThoughts: true})

	require.NoError(t, err)
	require.NotNil(t, resp.Extracted)
	require.Equal(t, 3, resp.Extracted.Days)
	require.Equal(t, domain.CompanionsRomantic, resp.Extracted.Companions.Type)
	_, hasRomanticMood := resp.Extracted.Emotion.Moods[domain.MoodRomantic]
	require.True(t, hasRomanticMood)
	_, hasAvoidCrowded := resp.Extracted.Emotion.Avoid[domain.AvoidCrowded]
	require.True(t, hasAvoidCrowded)
	require.NotNil(t, resp.Extracted.Budget.Amount)
	require.Equal(t, int64(20000), *resp.Extracted.Budget.Amount)
}

func TestHandleRouteScenario(t *testing.T) {
	core, _ := newCoreWithRegistry(testConfig())
	resp, err := core.Handle(context.Background(), "u2", "From Downtown to Waterfront, how do I get there?", Options{IncludeThoughts: true})

	require.NoError(t, err)
	require.NotNil(t, resp.Extracted.Route)
	require.NotEmpty(t, resp.Answer)
}

func TestHandleThreeLocationRouteScenarioCallsOnePairPerLeg(t *testing.T) {
	cfg := testConfig()
	reg := upstream.NewRegistry()

	var navKeys, trafficKeys []string
	var mu sync.Mutex
	recordKey := func(keys *[]string) func(spec domain.ServiceCallSpec) domain.ServiceResult {
		return func(spec domain.ServiceCallSpec) domain.ServiceResult {
			mu.Lock()
			*keys = append(*keys, spec.Key)
			mu.Unlock()
			return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true}
		}
	}
	reg.Register(domain.ServiceWeather, &upstream.FakeClient{})
	reg.Register(domain.ServicePOI, &upstream.FakeClient{})
	reg.Register(domain.ServiceNavigation, &upstream.FakeClient{CannedResult: recordKey(&navKeys)})
	reg.Register(domain.ServiceTraffic, &upstream.FakeClient{CannedResult: recordKey(&trafficKeys)})
	reg.Register(domain.ServiceInputHints, &upstream.FakeClient{})

	core := New(cfg, nil, reg, nil)

	resp, err := core.Handle(context.Background(), "u5",
		"Visiting Downtown, then Old Town, then Waterfront, from Downtown to Waterfront", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Answer)

	require.Len(t, navKeys, 2)
	require.Len(t, trafficKeys, 2)
	require.Contains(t, navKeys, "downtown->old town")
	require.Contains(t, navKeys, "old town->waterfront")
	require.Contains(t, trafficKeys, "downtown->old town")
	require.Contains(t, trafficKeys, "old town->waterfront")
}

func TestHandleCancellationSuppressesNewCalls(t *testing.T) {
	cfg := testConfig()
	reg := upstream.NewRegistry()
	slowPOI := &upstream.FakeClient{
		Delay: func(spec domain.ServiceCallSpec) <-chan struct{} {
			ch := make(chan struct{})
			go func() {
				time.Sleep(time.Second)
				close(ch)
			}()
			return ch
		},
	}
	reg.Register(domain.ServicePOI, slowPOI)
	reg.Register(domain.ServiceWeather, &upstream.FakeClient{})

	core := New(cfg, nil, reg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	resp, err := core.Handle(ctx, "u4", "Plan a trip with shopping, museum, and park visits across Downtown, Waterfront, and Old Town", Options{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Answer)
	// The plan holds more POI specs than the limiter admits before the
	// 100ms deadline; the ones that could not start never reach the client.
	require.LessOrEqual(t, slowPOI.CallCount(), cfg.PerProviderQPS[config.ProviderPOI])
}

func TestHandleAppendsHistoryAcrossRepeatedCalls(t *testing.T) {
	core, _ := newCoreWithRegistry(testConfig())
	text := "Plan a 3-day romantic trip for me and my girlfriend, budget 20000, avoid crowded places"

	_, err := core.Handle(context.Background(), "u1", text, Options{})
	require.NoError(t, err)
	_, err = core.Handle(context.Background(), "u1", text, Options{})
	require.NoError(t, err)

	session := core.sessions.Load("u1")
	require.Len(t, session.Turns, 2)
	require.True(t, !session.Turns[1].TsIn.Before(session.Turns[0].TsIn))
	require.NotEmpty(t, session.Turns[0].ID)
	require.NotEqual(t, session.Turns[0].ID, session.Turns[1].ID)
}

func TestHandleConcurrentRequestsSameProviderRespectQPS(t *testing.T) {
	cfg := testConfig()
	cfg.PerProviderQPS = map[config.Provider]int{config.ProviderWeather: 3}
	core, _ := newCoreWithRegistry(cfg)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			userID := "concurrent-user"
			_, err := core.Handle(context.Background(), userID, "What's the weather like downtown", Options{})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()
}
