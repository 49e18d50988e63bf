// Package remote turns user-entered links into raw file bytes: share-link
// normalization first, then a bounded fetch.
package remote

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"autoeda/domain/core"
)

const (
	githubHost    = "github.com"
	githubRawHost = "raw.githubusercontent.com"
	driveHost     = "drive.google.com"
)

var driveFilePattern = regexp.MustCompile(`/d/([A-Za-z0-9_-]+)`)

// Normalize rewrites known share links into direct-content URLs and passes
// everything else through unchanged. It is pure and idempotent on its own
// output: a GitHub blob viewer link moves to the raw host, a Drive share
// link becomes the uc download form, and a Drive link without a
// recognizable file id fails with core.ErrShareLink rather than being
// fetched as an HTML page.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		// Not rewritable; the fetcher will surface the real failure
		return raw, nil
	}

	switch u.Host {
	case githubHost:
		if strings.Contains(u.Path, "/blob/") {
			u.Host = githubRawHost
			u.Path = strings.Replace(u.Path, "/blob/", "/", 1)
			u.RawPath = ""
			return u.String(), nil
		}
		return raw, nil
	case driveHost:
		if m := driveFilePattern.FindStringSubmatch(u.Path); m != nil {
			return fmt.Sprintf("https://%s/uc?export=download&id=%s", driveHost, m[1]), nil
		}
		if u.Path == "/uc" {
			// Already the direct-download form
			return raw, nil
		}
		return "", fmt.Errorf("%w: no file id in %q", core.ErrShareLink, raw)
	default:
		return raw, nil
	}
}
