package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)
	ErrRunNotFound    = fmt.Errorf("%w: run", ErrNotFound)

	// Format reading errors
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingCapability = errors.New("optional capability unavailable")
	ErrMalformedContent  = errors.New("malformed content")

	// Remote input errors
	ErrShareLink     = errors.New("unrecognized share link")
	ErrHTTPStatus    = errors.New("unexpected http status")
	ErrNotRawContent = errors.New("response is not raw file content")
	ErrNetwork       = errors.New("network failure")

	// Dataset-service errors
	ErrNoCredential = errors.New("no credential available")
	ErrEmptyDataset = errors.New("dataset contains no eligible files")

	// Combining errors
	ErrUnknownFile     = errors.New("file not present in listing")
	ErrNoReadableFiles = errors.New("no readable files in listing")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewUnsupportedFormatError(ext string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

func NewMalformedContentError(format string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedContent, format, reason)
}

func NewHTTPStatusError(status int) error {
	return fmt.Errorf("%w: %d", ErrHTTPStatus, status)
}

func NewNetworkError(err error) error {
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func NewUnknownFileError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownFile, name)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsReadError reports whether err came from the format-reading stage.
func IsReadError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrMissingCapability) ||
		errors.Is(err, ErrMalformedContent)
}

// IsRemoteError reports whether err came from URL normalization or fetching.
func IsRemoteError(err error) bool {
	return errors.Is(err, ErrShareLink) ||
		errors.Is(err, ErrHTTPStatus) ||
		errors.Is(err, ErrNotRawContent) ||
		errors.Is(err, ErrNetwork)
}

// IsDatasetServiceError reports whether err came from the dataset-service client.
func IsDatasetServiceError(err error) bool {
	return errors.Is(err, ErrNoCredential) ||
		errors.Is(err, ErrEmptyDataset)
}
