// Package pipeline turns a user-chosen input source into one or more
// in-memory tabular datasets with derived names. It is the single entry
// point behind the upload, url and remote-dataset interactions.
package pipeline

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"autoeda/adapters/tabular"
	"autoeda/domain/core"
	"autoeda/domain/dataset"
	"autoeda/internal"
	"autoeda/internal/remote"
	"autoeda/ports"
)

// Result is the outcome of one pipeline run: the run-level label, the
// resolved datasets, and any per-file issues from multi-file modes.
type Result struct {
	Name      string
	Source    string
	Reference string
	Outputs   []Output
	Issues    []FileIssue
}

// Pipeline resolves input sources. One instance is shared across requests;
// it carries no per-run state.
type Pipeline struct {
	fetcher  ports.FetcherPort
	datasets ports.DatasetServicePort
	logger   *internal.Logger
}

// New creates a pipeline over the given fetcher and dataset service
func New(fetcher ports.FetcherPort, datasets ports.DatasetServicePort, logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Pipeline{fetcher: fetcher, datasets: datasets, logger: logger}
}

// Resolve runs the matching pipeline segment for the source. The optional
// credential is only consulted for remote-dataset sources; it is handed to
// the dataset service, which persists it. Failures return unchanged to the
// caller, with no retry.
func (p *Pipeline) Resolve(ctx context.Context, src dataset.InputSource, cred *ports.Credential) (*Result, error) {
	result, err := p.resolve(ctx, src, cred)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Resolved %s input %q into %d dataset(s)", result.Source, result.Reference, len(result.Outputs))
	return result, nil
}

func (p *Pipeline) resolve(ctx context.Context, src dataset.InputSource, cred *ports.Credential) (*Result, error) {
	switch s := src.(type) {
	case dataset.LocalFile:
		frame, err := tabular.Read(s.Data, filepath.Ext(s.Name))
		if err != nil {
			return nil, err
		}
		name := dataset.FileBaseName(s.Name)
		return &Result{
			Name:      name,
			Source:    s.SourceKind(),
			Reference: s.Name,
			Outputs:   []Output{{Name: name, Frame: frame}},
		}, nil

	case dataset.RemoteURL:
		normalized, err := remote.Normalize(s.Raw)
		if err != nil {
			return nil, err
		}
		if normalized != s.Raw {
			p.logger.Debug("Rewrote share link %s to %s", s.Raw, normalized)
		}
		body, err := p.fetcher.Fetch(ctx, normalized)
		if err != nil {
			return nil, err
		}
		frame, err := tabular.Read(body, urlExt(normalized))
		if err != nil {
			return nil, err
		}
		name := dataset.URLBaseName(normalized)
		return &Result{
			Name:      name,
			Source:    s.SourceKind(),
			Reference: s.Raw,
			Outputs:   []Output{{Name: name, Frame: frame}},
		}, nil

	case dataset.RemoteDataset:
		return p.resolveDataset(ctx, s, cred)

	default:
		return nil, core.NewValidationError("source", "unknown input source")
	}
}

func (p *Pipeline) resolveDataset(ctx context.Context, src dataset.RemoteDataset, cred *ports.Credential) (*Result, error) {
	ref, err := dataset.ParseRef(src.Ref)
	if err != nil {
		return nil, err
	}

	sess, err := p.datasets.Authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}
	listing, err := p.datasets.ListAndDownload(ctx, sess, ref)
	if err != nil {
		return nil, err
	}

	result := &Result{Source: src.SourceKind(), Reference: ref}
	switch m := src.Mode.(type) {
	case dataset.SingleFile:
		frame, err := ReadSingle(listing.Files, m.Name)
		if err != nil {
			return nil, err
		}
		name := dataset.FileBaseName(m.Name)
		result.Name = name
		result.Outputs = []Output{{Name: name, Frame: frame}}

	case dataset.MergeAll:
		frame, issues, err := Merge(listing.Files)
		if err != nil {
			return nil, err
		}
		name := dataset.DeriveName(dataset.RemoteDataset{Ref: ref, Mode: m})
		result.Name = name
		result.Outputs = []Output{{Name: name, Frame: frame}}
		result.Issues = issues

	case dataset.EachSeparately:
		outputs, issues, err := ReadEach(listing.Files, m.Names)
		if err != nil {
			return nil, err
		}
		result.Name = dataset.DeriveName(dataset.RemoteDataset{Ref: ref, Mode: m})
		result.Outputs = outputs
		result.Issues = issues

	default:
		return nil, core.NewValidationError("mode", "unknown combine mode")
	}
	return result, nil
}

// urlExt returns the extension of the URL's final path segment. Download
// endpoints like the drive rewrite target carry no extension; their bodies
// are treated as csv.
func urlExt(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".csv"
	}
	trimmed := strings.Trim(u.EscapedPath(), "/")
	segs := strings.Split(trimmed, "/")
	last := segs[len(segs)-1]
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}
	if ext := path.Ext(last); ext != "" {
		return ext
	}
	return ".csv"
}
