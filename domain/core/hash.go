package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns a 12-character prefix for display
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint identifies dataset content so repeated runs over identical
// input are recognizable in the run history.
type Fingerprint Hash

// NewFingerprint computes the content fingerprint of raw input bytes
func NewFingerprint(data []byte) Fingerprint {
	return Fingerprint(NewHash(data))
}

// String returns the string representation
func (f Fingerprint) String() string { return Hash(f).String() }

// Short returns a display-length prefix
func (f Fingerprint) Short() string { return Hash(f).Short() }
