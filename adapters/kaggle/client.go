// Package kaggle is the dataset-service client: credential persistence,
// session reuse, file listing and all-or-nothing downloads into scratch
// directories.
package kaggle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"autoeda/domain/core"
	"autoeda/internal"
	"autoeda/internal/scratch"
	"autoeda/ports"
)

// DefaultBaseURL is the public dataset-service API root
const DefaultBaseURL = "https://www.kaggle.com/api/v1"

// Doer executes one HTTP request; *http.Client satisfies it
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session is an authenticated handle on the dataset service. Sessions are
// cached by credential identity, so callers holding the same effective
// credential share one session.
type Session struct {
	cred Credential
}

// Username returns the session's account name, for display
func (s *Session) Username() string {
	return s.cred.Username
}

// ServiceConfig tunes the client. Zero values fall back to defaults. The
// transport carries no explicit request timeout; downloads are bounded by
// the transport defaults alone.
type ServiceConfig struct {
	BaseURL         string
	Concurrency     int
	ListingCacheCap int
	Client          Doer
}

// Service is the dataset-service client
type Service struct {
	store       ports.CredentialStore
	scratch     *scratch.Manager
	client      Doer
	logger      *internal.Logger
	baseURL     string
	concurrency int

	mu       sync.Mutex
	sessions map[Credential]*Session
	listings *listingCache
}

var _ ports.DatasetServicePort = (*Service)(nil)

// NewService creates a client over the given credential store and scratch
// manager
func NewService(store ports.CredentialStore, scratchMgr *scratch.Manager, cfg ServiceConfig, logger *internal.Logger) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	if cfg.ListingCacheCap < 1 {
		cfg.ListingCacheCap = 16
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{
		store:       store,
		scratch:     scratchMgr,
		client:      cfg.Client,
		logger:      logger,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		concurrency: cfg.Concurrency,
		sessions:    make(map[Credential]*Session),
		listings:    newListingCache(cfg.ListingCacheCap),
	}
}

// Authenticate resolves the effective credential and returns its session.
// A supplied credential is persisted first, overwriting any prior one; a
// nil credential falls back to the persisted copy. With neither, the call
// fails with core.ErrNoCredential. Repeated calls with the same effective
// credential return the same session.
func (s *Service) Authenticate(ctx context.Context, cred *Credential) (ports.DatasetSession, error) {
	var effective Credential
	if cred != nil {
		if err := s.store.Save(*cred); err != nil {
			return nil, fmt.Errorf("failed to persist credential: %w", err)
		}
		effective = *cred
	} else {
		loaded, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		effective = loaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[effective]; ok {
		return sess, nil
	}
	sess := &Session{cred: effective}
	s.sessions[effective] = sess
	s.logger.Info("Authenticated dataset-service session for %s", effective.Username)
	return sess, nil
}

// ListAndDownload fetches the dataset's file list, downloads every file
// into a fresh scratch directory, and returns the csv files as a listing.
// Downloads are all-or-nothing: any failure removes the scratch directory
// and nothing is returned. Results are cached per (session, ref) in a
// bounded cache, so a repeat request does no network work until evicted.
func (s *Service) ListAndDownload(ctx context.Context, session ports.DatasetSession, ref string) (*ports.DatasetListing, error) {
	sess, ok := session.(*Session)
	if !ok {
		return nil, core.NewValidationError("session", "not issued by this service")
	}

	key := listingKey{session: sess, ref: ref}
	if listing, ok := s.listings.get(key); ok {
		s.logger.Debug("Listing cache hit for %s", ref)
		return listing, nil
	}

	names, err := s.listFiles(ctx, sess, ref)
	if err != nil {
		return nil, err
	}

	dir, err := s.scratch.NewDir(strings.ReplaceAll(ref, "/", "_"))
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range names {
		i, name := i, name // per-iteration copies; go directive predates Go 1.22 loop semantics
		g.Go(func() error {
			data, err := s.downloadFile(gctx, sess, ref, name)
			if err != nil {
				return fmt.Errorf("downloading %s: %w", name, err)
			}
			path := filepath.Join(dir, filepath.FromSlash(name))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("storing %s: %w", name, err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("storing %s: %w", name, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// A partial download must never surface as a listing
		if rmErr := s.scratch.Remove(dir); rmErr != nil {
			s.logger.Warn("Failed to clean up scratch dir %s: %v", dir, rmErr)
		}
		return nil, err
	}

	var files []ports.DatasetFile
	for i, name := range names {
		if strings.HasSuffix(name, ".csv") {
			files = append(files, ports.DatasetFile{Name: name, Path: paths[i]})
		}
	}
	if len(files) == 0 {
		if rmErr := s.scratch.Remove(dir); rmErr != nil {
			s.logger.Warn("Failed to clean up scratch dir %s: %v", dir, rmErr)
		}
		return nil, fmt.Errorf("%w: %s has no csv files", core.ErrEmptyDataset, ref)
	}

	listing := &ports.DatasetListing{Dir: dir, Files: files}
	s.logger.Info("Downloaded %d files for %s (%d csv)", len(names), ref, listing.Len())
	s.listings.put(key, listing)
	return listing, nil
}

type listFilesResponse struct {
	DatasetFiles []struct {
		Name string `json:"name"`
	} `json:"datasetFiles"`
}

func (s *Service) listFiles(ctx context.Context, sess *Session, ref string) ([]string, error) {
	body, err := s.get(ctx, sess, fmt.Sprintf("%s/datasets/list/%s", s.baseURL, ref))
	if err != nil {
		return nil, err
	}

	var parsed listFilesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse file list for %s: %w", ref, err)
	}

	names := make([]string, 0, len(parsed.DatasetFiles))
	for _, f := range parsed.DatasetFiles {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names, nil
}

func (s *Service) downloadFile(ctx context.Context, sess *Session, ref, name string) ([]byte, error) {
	return s.get(ctx, sess, fmt.Sprintf("%s/datasets/download/%s/%s", s.baseURL, ref, url.PathEscape(name)))
}

func (s *Service) get(ctx context.Context, sess *Session, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, core.NewValidationError("url", err.Error())
	}
	req.SetBasicAuth(sess.cred.Username, sess.cred.Key)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, core.NewNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.NewHTTPStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewNetworkError(err)
	}
	return body, nil
}
