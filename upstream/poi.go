package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wayfarer-ai/roc/domain"
)

// HTTPPOIClient is a concrete POIClient backed by a JSON HTTP API.
type HTTPPOIClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewHTTPPOIClient builds a POI client against baseURL.
func NewHTTPPOIClient(baseURL, apiKey string) *HTTPPOIClient {
	return &HTTPPOIClient{BaseURL: baseURL, APIKey: apiKey, HTTP: defaultHTTPClient()}
}

type poiSearchResponse struct {
	Results []POI `json:"results"`
}

// Search implements POIClient, constrained to region by the upstream
// provider itself.
func (c *HTTPPOIClient) Search(ctx context.Context, keyword, region, category string, limit int) ([]POI, error) {
	u := fmt.Sprintf("%s/poi/search?keyword=%s&region=%s&category=%s&limit=%s&key=%s",
		c.BaseURL, url.QueryEscape(keyword), url.QueryEscape(region),
		url.QueryEscape(category), strconv.Itoa(limit), url.QueryEscape(c.APIKey))
	var out poiSearchResponse
	if err := httpJSONCall(ctx, c.HTTP, u, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

type poiAdapter struct {
	client POIClient
	region string
}

// NewPOIAdapter wraps client, constraining every search to region.
func NewPOIAdapter(client POIClient, region string) Client {
	return &poiAdapter{client: client, region: region}
}

func (a *poiAdapter) Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	keyword := spec.Params["keyword"]
	category := spec.Params["category"]
	limit := 10
	if v, ok := spec.Params["limit"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	results, err := a.client.Search(ctx, keyword, a.region, category, limit)
	if err != nil {
		return errResult(spec, err)
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: results}
}
