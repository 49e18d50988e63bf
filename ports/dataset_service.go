package ports

import (
	"context"
)

// Credential is the dataset-service username/key pair
type Credential struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// DatasetFile is one downloaded dataset file: its listing name and the
// local path it was stored at
type DatasetFile struct {
	Name string
	Path string
}

// DatasetListing is the result of one download: the csv files of a remote
// dataset in listing order. The order is stable for the lifetime of the
// instance.
type DatasetListing struct {
	Dir   string
	Files []DatasetFile
}

// Names returns the file names in listing order
func (l *DatasetListing) Names() []string {
	names := make([]string, len(l.Files))
	for i, f := range l.Files {
		names[i] = f.Name
	}
	return names
}

// Path looks a file's local path up by listing name
func (l *DatasetListing) Path(name string) (string, bool) {
	for _, f := range l.Files {
		if f.Name == name {
			return f.Path, true
		}
	}
	return "", false
}

// Len returns the number of files
func (l *DatasetListing) Len() int {
	return len(l.Files)
}

// DatasetSession is an authenticated dataset-service handle. Implementations
// return the same session for the same effective credential, so callers can
// hold one and reuse it across downloads.
type DatasetSession interface {
	Username() string
}

// DatasetServicePort authenticates against the dataset-hosting service and
// downloads datasets into scratch storage
type DatasetServicePort interface {
	// Authenticate resolves the effective credential and returns its session.
	// A supplied credential is persisted first, overwriting any prior one; nil
	// falls back to the persisted copy, or core.ErrNoCredential without one.
	Authenticate(ctx context.Context, cred *Credential) (DatasetSession, error)

	// ListAndDownload downloads every file of the owner/name dataset into a
	// fresh scratch directory and returns its csv files. Fails with
	// core.ErrEmptyDataset when the dataset has no csv files.
	ListAndDownload(ctx context.Context, session DatasetSession, ref string) (*DatasetListing, error)
}

// CredentialStore persists the single active credential. Saving always
// overwrites; there is exactly one active credential at a time.
type CredentialStore interface {
	// Load returns the persisted credential, or core.ErrNoCredential
	Load() (Credential, error)
	// Save overwrites the persisted credential
	Save(Credential) error
}
