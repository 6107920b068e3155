package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wayfarer-ai/roc/domain"
)

// HTTPTrafficClient is a concrete TrafficClient backed by a JSON HTTP API.
type HTTPTrafficClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewHTTPTrafficClient builds a traffic client against baseURL.
func NewHTTPTrafficClient(baseURL, apiKey string) *HTTPTrafficClient {
	return &HTTPTrafficClient{BaseURL: baseURL, APIKey: apiKey, HTTP: defaultHTTPClient()}
}

// Status implements TrafficClient.
func (c *HTTPTrafficClient) Status(ctx context.Context, areaOrBox string) (TrafficStatus, error) {
	u := fmt.Sprintf("%s/traffic/status?area=%s&key=%s", c.BaseURL, url.QueryEscape(areaOrBox), url.QueryEscape(c.APIKey))
	var out TrafficStatus
	if err := httpJSONCall(ctx, c.HTTP, u, &out); err != nil {
		return TrafficStatus{}, err
	}
	return out, nil
}

type trafficAdapter struct {
	client TrafficClient
}

// NewTrafficAdapter wraps client so it can be registered in a Registry.
func NewTrafficAdapter(client TrafficClient) Client {
	return &trafficAdapter{client: client}
}

func (a *trafficAdapter) Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	status, err := a.client.Status(ctx, spec.Params["area"])
	if err != nil {
		return errResult(spec, err)
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: status}
}
