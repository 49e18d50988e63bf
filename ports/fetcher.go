package ports

import "context"

// FetcherPort retrieves the raw bytes behind a direct-content URL
type FetcherPort interface {
	// Fetch issues one GET and returns the body. Non-2xx statuses map to
	// core.ErrHTTPStatus, HTML landing pages to core.ErrNotRawContent, and
	// transport failures to core.ErrNetwork.
	Fetch(ctx context.Context, url string) ([]byte, error)
}
