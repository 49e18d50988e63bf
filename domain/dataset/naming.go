package dataset

import (
	"net/url"
	"path"
	"strings"
)

// DefaultName is the fallback label when a source yields no usable name,
// such as a URL with no path segments.
const DefaultName = "dataset"

// DeriveName computes the human-readable dataset name for a source. The
// result doubles as the file-system-safe base of the report filename, so
// it is restricted to letters, digits, dot, underscore and hyphen.
//
// For EachSeparately runs this is the label of the run as a whole; each
// per-file output is named with FileBaseName instead.
func DeriveName(src InputSource) string {
	switch s := src.(type) {
	case LocalFile:
		return FileBaseName(s.Name)
	case RemoteURL:
		return URLBaseName(s.Raw)
	case RemoteDataset:
		switch m := s.Mode.(type) {
		case SingleFile:
			return FileBaseName(m.Name)
		case MergeAll:
			return sanitizeName(strings.ReplaceAll(s.Ref, "/", "_") + "_merged")
		case EachSeparately:
			return sanitizeName(strings.ReplaceAll(s.Ref, "/", "_"))
		}
	}
	return DefaultName
}

// FileBaseName derives a name from a file name: the base name with its
// extension removed.
func FileBaseName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	if base == "" || base == "." || base == "/" {
		return DefaultName
	}
	return sanitizeName(base)
}

// URLBaseName derives a name from a URL: the final path segment with its
// extension removed, or DefaultName for a root URL.
func URLBaseName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return DefaultName
	}
	// Split on the escaped form so an encoded slash stays inside its segment
	trimmed := strings.Trim(u.EscapedPath(), "/")
	if trimmed == "" {
		return DefaultName
	}
	segs := strings.Split(trimmed, "/")
	last := segs[len(segs)-1]
	if unescaped, err := url.PathUnescape(last); err == nil {
		last = unescaped
	}
	last = strings.TrimSuffix(last, path.Ext(last))
	if last == "" {
		return DefaultName
	}
	return sanitizeName(last)
}

func sanitizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
