package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wayfarer-ai/roc/domain"
)

// HTTPWeatherClient is a concrete WeatherClient backed by a JSON HTTP API.
type HTTPWeatherClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewHTTPWeatherClient builds a weather client against baseURL.
func NewHTTPWeatherClient(baseURL, apiKey string) *HTTPWeatherClient {
	return &HTTPWeatherClient{BaseURL: baseURL, APIKey: apiKey, HTTP: defaultHTTPClient()}
}

type weatherForecastResponse struct {
	Forecasts []DailyForecast `json:"forecasts"`
}

// Forecast implements WeatherClient.
func (c *HTTPWeatherClient) Forecast(ctx context.Context, city string) ([]DailyForecast, error) {
	u := fmt.Sprintf("%s/forecast?city=%s&key=%s", c.BaseURL, url.QueryEscape(city), url.QueryEscape(c.APIKey))
	var out weatherForecastResponse
	if err := httpJSONCall(ctx, c.HTTP, u, &out); err != nil {
		return nil, err
	}
	return out.Forecasts, nil
}

// weatherAdapter adapts a WeatherClient to the generic upstream.Client
// interface, one call per spec, keyed by city.
type weatherAdapter struct {
	client WeatherClient
}

// NewWeatherAdapter wraps client so it can be registered in a Registry.
func NewWeatherAdapter(client WeatherClient) Client {
	return &weatherAdapter{client: client}
}

func (a *weatherAdapter) Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	city := spec.Params["city"]
	forecasts, err := a.client.Forecast(ctx, city)
	if err != nil {
		return errResult(spec, err)
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: forecasts}
}

// errResult converts any error into a classified ServiceResult, defaulting
// unclassified errors to ErrorTransport: a network-level failure not
// otherwise classified.
func errResult(spec domain.ServiceCallSpec, err error) domain.ServiceResult {
	kind := domain.ErrorTransport
	if de, ok := err.(*domain.Error); ok {
		kind = de.Kind
	}
	return domain.ServiceResult{
		Kind: spec.Kind, Key: spec.Key,
		ErrKind: kind,
		Detail:  err.Error(),
	}
}
