package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wayfarer-ai/roc/domain"
)

// HTTPCrowdClient is a concrete, experimental CrowdClient backed by a JSON
// HTTP API. Crowd is first-class in the ServiceKind enum but has no
// production data source in the reference system; this implementation
// exists so the collector can dispatch a Crowd call the day a real
// provider is configured, without a core code change.
type HTTPCrowdClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewHTTPCrowdClient builds a crowd client against baseURL.
func NewHTTPCrowdClient(baseURL, apiKey string) *HTTPCrowdClient {
	return &HTTPCrowdClient{BaseURL: baseURL, APIKey: apiKey, HTTP: defaultHTTPClient()}
}

// Status implements CrowdClient.
func (c *HTTPCrowdClient) Status(ctx context.Context, location string) (CrowdLevel, error) {
	u := fmt.Sprintf("%s/crowd/status?location=%s&key=%s", c.BaseURL, url.QueryEscape(location), url.QueryEscape(c.APIKey))
	var out CrowdLevel
	if err := httpJSONCall(ctx, c.HTTP, u, &out); err != nil {
		return CrowdLevel{}, err
	}
	return out, nil
}

type crowdAdapter struct {
	client CrowdClient
}

// NewCrowdAdapter wraps client so it can be registered in a Registry.
func NewCrowdAdapter(client CrowdClient) Client {
	return &crowdAdapter{client: client}
}

func (a *crowdAdapter) Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	level, err := a.client.Status(ctx, spec.Params["location"])
	if err != nil {
		return errResult(spec, err)
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: level}
}
