package kaggle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"autoeda/domain/core"
	"autoeda/ports"
)

// Credential is the username/key pair for the dataset service
type Credential = ports.Credential

// ParseCredential parses an uploaded credential file body
func ParseCredential(data []byte) (Credential, error) {
	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return Credential{}, fmt.Errorf("failed to parse credential file: %w", err)
	}
	if cred.Username == "" || cred.Key == "" {
		return Credential{}, core.NewValidationError("credential", "username and key are both required")
	}
	return cred, nil
}

// DefaultCredentialsPath is the service's well-known token location
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".kaggle", "kaggle.json"), nil
}

// FileStore keeps the credential on disk with owner-only permissions
type FileStore struct {
	path string
}

var _ ports.CredentialStore = (*FileStore)(nil)

// NewFileStore creates a file store; an empty path means the well-known
// ~/.kaggle/kaggle.json location
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		resolved, err := DefaultCredentialsPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted credential
func (s *FileStore) Load() (Credential, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Credential{}, fmt.Errorf("%w: nothing persisted at %s", core.ErrNoCredential, s.path)
	}
	if err != nil {
		return Credential{}, fmt.Errorf("failed to read credential file: %w", err)
	}
	cred, err := ParseCredential(data)
	if err != nil {
		return Credential{}, err
	}
	return cred, nil
}

// Save overwrites the persisted credential. The parent directory and the
// file itself are restricted to the owning user.
func (s *FileStore) Save(cred Credential) error {
	if cred.Username == "" || cred.Key == "" {
		return core.NewValidationError("credential", "username and key are both required")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}

	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	// WriteFile keeps the old mode when overwriting; enforce it
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("failed to restrict credential file permissions: %w", err)
	}
	return nil
}

// MemoryStore holds the credential in memory, for tests and transient use
type MemoryStore struct {
	mu   sync.Mutex
	cred *Credential
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored credential
func (s *MemoryStore) Load() (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return Credential{}, core.ErrNoCredential
	}
	return *s.cred, nil
}

// Save overwrites the stored credential
func (s *MemoryStore) Save(cred Credential) error {
	if cred.Username == "" || cred.Key == "" {
		return core.NewValidationError("credential", "username and key are both required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &cred
	return nil
}

// FallbackStore layers an environment-supplied credential under a primary
// store. Loads consult the primary first and fall back only when it has
// nothing stored. Saves always go to the primary, so a user-entered
// credential takes precedence from then on.
type FallbackStore struct {
	primary  ports.CredentialStore
	fallback Credential
}

// NewFallbackStore wraps primary with the given fallback credential
func NewFallbackStore(primary ports.CredentialStore, fallback Credential) *FallbackStore {
	return &FallbackStore{primary: primary, fallback: fallback}
}

// Load returns the primary credential, or the fallback when none is stored
func (s *FallbackStore) Load() (Credential, error) {
	cred, err := s.primary.Load()
	if err == nil {
		return cred, nil
	}
	if errors.Is(err, core.ErrNoCredential) && s.fallback.Username != "" && s.fallback.Key != "" {
		return s.fallback, nil
	}
	return Credential{}, err
}

// Save persists to the primary store
func (s *FallbackStore) Save(cred Credential) error {
	return s.primary.Save(cred)
}
