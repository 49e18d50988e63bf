package dataset

import (
	"strings"

	"autoeda/domain/core"
)

// MergeSourceColumn is the synthetic origin-tag column added by the merge
// mode. Input files must not already contain a column with this name.
const MergeSourceColumn = "__source_file__"

// InputSource is the user-chosen origin of one pipeline run. Exactly one
// variant is constructed per interaction; the pipeline entry point switches
// exhaustively over the three.
type InputSource interface {
	inputSource()
	// SourceKind returns a short label for logs and run history
	SourceKind() string
}

// LocalFile is an uploaded file: its declared name and raw bytes
type LocalFile struct {
	Name string
	Data []byte
}

// RemoteURL is a user-entered link, possibly a share link needing rewriting
type RemoteURL struct {
	Raw string
}

// RemoteDataset references a dataset-service dataset by owner/name
type RemoteDataset struct {
	Ref  string
	Mode CombineMode
}

func (LocalFile) inputSource()     {}
func (RemoteURL) inputSource()     {}
func (RemoteDataset) inputSource() {}

func (LocalFile) SourceKind() string     { return "upload" }
func (RemoteURL) SourceKind() string     { return "url" }
func (RemoteDataset) SourceKind() string { return "dataset" }

// CombineMode selects how a multi-file remote dataset becomes one or more
// frames
type CombineMode interface {
	combineMode()
	// ModeKind returns a short label for logs and run history
	ModeKind() string
}

// SingleFile reads exactly one named file from the listing
type SingleFile struct {
	Name string
}

// MergeAll concatenates every readable file row-wise, tagging each row
// with its origin file in the MergeSourceColumn column
type MergeAll struct{}

// EachSeparately reads each selected file independently; an empty Names
// slice selects every file in the listing
type EachSeparately struct {
	Names []string
}

func (SingleFile) combineMode()     {}
func (MergeAll) combineMode()       {}
func (EachSeparately) combineMode() {}

func (SingleFile) ModeKind() string     { return "single" }
func (MergeAll) ModeKind() string       { return "merge" }
func (EachSeparately) ModeKind() string { return "each" }

// ParseRef validates an owner/name dataset reference and returns it
// trimmed. Any other shape is rejected before the dataset-service client
// is ever called.
func ParseRef(s string) (string, error) {
	ref := strings.TrimSpace(s)
	parts := strings.Split(ref, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", core.NewValidationError("dataset reference", "must be owner/name")
	}
	for _, part := range parts {
		if strings.ContainsAny(part, " \t") {
			return "", core.NewValidationError("dataset reference", "segments cannot contain whitespace")
		}
	}
	return ref, nil
}
