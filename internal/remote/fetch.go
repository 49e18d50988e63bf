package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"autoeda/domain/core"
)

var htmlMarker = []byte("<html")

// Doer executes one HTTP request. *http.Client satisfies it; tests
// substitute counting or failing transports.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads raw file bytes from direct-content URLs. One GET per
// call, no retries; every failure maps to a recoverable error the caller
// can show without losing prior state.
type Fetcher struct {
	client   Doer
	maxBytes int64
}

// NewFetcher creates a fetcher with an explicit request timeout
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// NewFetcherWithClient substitutes the transport, for tests
func NewFetcherWithClient(client Doer, maxBytes int64) *Fetcher {
	return &Fetcher{client: client, maxBytes: maxBytes}
}

// Fetch GETs the URL and returns the body. Non-2xx responses fail with
// core.ErrHTTPStatus, transport failures with core.ErrNetwork, and a body
// that looks like an HTML document with core.ErrNotRawContent: share links
// that redirect to a landing or login page deliver HTML with a 200, and
// that must never reach the format reader as data.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, core.NewValidationError("url", err.Error())
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, core.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, core.NewHTTPStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, core.NewNetworkError(err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("response exceeds the %d byte fetch limit", f.maxBytes)
	}

	if bytes.Contains(bytes.ToLower(body), htmlMarker) {
		return nil, fmt.Errorf("%w: %s returned an html page", core.ErrNotRawContent, rawURL)
	}

	return body, nil
}
