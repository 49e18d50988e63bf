package main

import (
	"os"
	"path/filepath"
	"testing"

	"autoeda/domain/dataset"
)

func TestParseSourceURL(t *testing.T) {
	src, err := parseSource("https://example.com/data.csv", dataset.MergeAll{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	url, ok := src.(dataset.RemoteURL)
	if !ok {
		t.Fatalf("expected RemoteURL, got %T", src)
	}
	if url.Raw != "https://example.com/data.csv" {
		t.Errorf("unexpected raw URL %q", url.Raw)
	}
}

func TestParseSourceLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.csv")
	if err := os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	src, err := parseSource(path, dataset.MergeAll{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := src.(dataset.LocalFile)
	if !ok {
		t.Fatalf("expected LocalFile, got %T", src)
	}
	if f.Name != "cities.csv" {
		t.Errorf("expected base name cities.csv, got %q", f.Name)
	}
	if string(f.Data) != "a,b\n1,2\n" {
		t.Errorf("unexpected data %q", f.Data)
	}
}

func TestParseSourceDatasetRef(t *testing.T) {
	src, err := parseSource(" acme/pair ", dataset.EachSeparately{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := src.(dataset.RemoteDataset)
	if !ok {
		t.Fatalf("expected RemoteDataset, got %T", src)
	}
	if d.Ref != "acme/pair" {
		t.Errorf("expected trimmed ref, got %q", d.Ref)
	}
	if d.Mode.ModeKind() != "each" {
		t.Errorf("expected each mode, got %s", d.Mode.ModeKind())
	}
}

func TestParseSourceMissingPath(t *testing.T) {
	// A missing relative path must stay a file error even though its text
	// splits into two slash segments like a dataset reference.
	if _, err := parseSource("./missing.csv", dataset.MergeAll{}); err == nil {
		t.Fatal("expected error for missing relative path")
	}
	if _, err := parseSource("/no/such/file.csv", dataset.MergeAll{}); err == nil {
		t.Fatal("expected error for missing absolute path")
	}
	if _, err := parseSource("missing.csv", dataset.MergeAll{}); err == nil {
		t.Fatal("expected error for missing bare file name")
	}
}

func TestParseModeDefaultsToMerge(t *testing.T) {
	m, err := parseMode("merge", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(dataset.MergeAll); !ok {
		t.Fatalf("expected MergeAll, got %T", m)
	}
}

func TestParseModeSingle(t *testing.T) {
	if _, err := parseMode("single", "", nil); err == nil {
		t.Fatal("expected error without --file")
	}

	m, err := parseMode("single", "data.csv", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := m.(dataset.SingleFile)
	if !ok {
		t.Fatalf("expected SingleFile, got %T", m)
	}
	if s.Name != "data.csv" {
		t.Errorf("unexpected file name %q", s.Name)
	}
}

func TestParseModeEach(t *testing.T) {
	m, err := parseMode("each", "", []string{"a.csv", "b.csv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, ok := m.(dataset.EachSeparately)
	if !ok {
		t.Fatalf("expected EachSeparately, got %T", m)
	}
	if len(e.Names) != 2 {
		t.Errorf("expected two names, got %v", e.Names)
	}
}

func TestParseModeUnknown(t *testing.T) {
	if _, err := parseMode("zip", "", nil); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
