package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wayfarer-ai/roc/domain"
)

// HTTPHintsClient is a concrete HintsClient backed by a JSON HTTP API.
type HTTPHintsClient struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewHTTPHintsClient builds a hints client against baseURL.
func NewHTTPHintsClient(baseURL, apiKey string) *HTTPHintsClient {
	return &HTTPHintsClient{BaseURL: baseURL, APIKey: apiKey, HTTP: defaultHTTPClient()}
}

type hintsResponse struct {
	Candidates []HintCandidate `json:"candidates"`
}

// Tips implements HintsClient.
func (c *HTTPHintsClient) Tips(ctx context.Context, keyword, region string, cityLimit int) ([]HintCandidate, error) {
	u := fmt.Sprintf("%s/hints/tips?keyword=%s&region=%s&limit=%s&key=%s",
		c.BaseURL, url.QueryEscape(keyword), url.QueryEscape(region), strconv.Itoa(cityLimit), url.QueryEscape(c.APIKey))
	var out hintsResponse
	if err := httpJSONCall(ctx, c.HTTP, u, &out); err != nil {
		return nil, err
	}
	return out.Candidates, nil
}

type hintsAdapter struct {
	client HintsClient
	region string
}

// NewHintsAdapter wraps client, constraining every lookup to region.
func NewHintsAdapter(client HintsClient, region string) Client {
	return &hintsAdapter{client: client, region: region}
}

func (a *hintsAdapter) Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	limit := 5
	if v, ok := spec.Params["limit"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	candidates, err := a.client.Tips(ctx, spec.Params["keyword"], a.region, limit)
	if err != nil {
		return errResult(spec, err)
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: candidates}
}
