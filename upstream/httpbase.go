package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/wayfarer-ai/roc/domain"
)

// httpJSONCall issues a GET to url and decodes the JSON body into out.
// Transport failures and non-2xx statuses are classified into the
// ErrorKind taxonomy the core understands; a done context is reported as
// ErrorTimeout when its deadline passed and as ErrorCanceled otherwise,
// whichever concrete client made the call.
func httpJSONCall(ctx context.Context, client *http.Client, url string, out any) *domain.Error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.NewError(domain.ErrorInternal, fmt.Errorf("build request: %w", err))
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return domain.NewError(domain.ErrorTimeout, err)
			}
			return domain.NewError(domain.ErrorCanceled, err)
		}
		return domain.NewError(domain.ErrorTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return domain.Errorf(domain.ErrorTransport, "upstream %s returned %d", url, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return domain.Errorf(domain.ErrorUpstream, "upstream %s returned %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewError(domain.ErrorTransport, fmt.Errorf("read body: %w", err))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewError(domain.ErrorParse, fmt.Errorf("decode %s: %w", url, err))
	}
	return nil
}

// defaultHTTPClient returns an http.Client with no built-in timeout; the
// per-call deadline always comes from ctx, set by the collector, never
// from the transport itself.
func defaultHTTPClient() *http.Client {
	return &http.Client{}
}
