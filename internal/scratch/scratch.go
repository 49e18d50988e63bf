package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Manager hands out fresh scratch directories for downloaded dataset files
// and sweeps expired ones. Every download call gets its own directory, so
// concurrent calls never share paths.
type Manager struct {
	base string
}

// NewManager creates a manager rooted at base
func NewManager(base string) *Manager {
	return &Manager{base: base}
}

// Base returns the root scratch path
func (m *Manager) Base() string {
	return m.base
}

// NewDir creates a fresh uniquely named directory for one download call.
// The label becomes part of the directory name for debuggability.
func (m *Manager) NewDir(label string) (string, error) {
	if err := os.MkdirAll(m.base, 0755); err != nil {
		return "", fmt.Errorf("failed to create scratch root: %w", err)
	}

	// Unique name to prevent conflicts between calls
	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s_%s", sanitizeLabel(label), timestamp, uuid.New().String()[:8])

	dir := filepath.Join(m.base, name)
	if err := os.Mkdir(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return dir, nil
}

// Remove deletes one scratch directory and everything in it
func (m *Manager) Remove(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove scratch directory: %w", err)
	}
	return nil
}

// Sweep removes scratch directories older than maxAge and returns how many
// were deleted. Errors on individual directories are skipped; the sweep is
// best effort.
func (m *Manager) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.base)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read scratch root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(filepath.Join(m.base, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func sanitizeLabel(label string) string {
	if label == "" {
		return "scratch"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, label)
}
