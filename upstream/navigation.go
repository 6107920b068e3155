package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/wayfarer-ai/roc/domain"
)

// HTTPNavigationClient is a concrete NavigationClient backed by a JSON
// HTTP API.
type HTTPNavigationClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewHTTPNavigationClient builds a navigation client against baseURL.
func NewHTTPNavigationClient(baseURL, apiKey string) *HTTPNavigationClient {
	return &HTTPNavigationClient{BaseURL: baseURL, APIKey: apiKey, HTTP: defaultHTTPClient()}
}

type routeResponse struct {
	Candidates []RouteCandidate `json:"candidates"`
}

// Route implements NavigationClient.
func (c *HTTPNavigationClient) Route(ctx context.Context, origin, destination, mode string) ([]RouteCandidate, error) {
	u := fmt.Sprintf("%s/navigation/route?origin=%s&destination=%s&mode=%s&key=%s",
		c.BaseURL, url.QueryEscape(origin), url.QueryEscape(destination),
		url.QueryEscape(mode), url.QueryEscape(c.APIKey))
	var out routeResponse
	if err := httpJSONCall(ctx, c.HTTP, u, &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

type navigationAdapter struct {
	client NavigationClient
}

// NewNavigationAdapter wraps client so it can be registered in a Registry.
func NewNavigationAdapter(client NavigationClient) Client {
	return &navigationAdapter{client: client}
}

func (a *navigationAdapter) Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	mode := spec.Params["mode"]
	if mode == "" {
		mode = "driving"
	}
	candidates, err := a.client.Route(ctx, spec.Params["origin"], spec.Params["destination"], mode)
	if err != nil {
		return errResult(spec, err)
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: candidates}
}
