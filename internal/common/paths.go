package common

import (
	"path/filepath"
	"runtime"
	"strings"
)

// caseInsensitiveFS reports whether the host filesystem is conventionally
// case-insensitive. Path identity and cache keys fold case only on these
// platforms.
var caseInsensitiveFS = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// NormalizePath cleans a path and folds case on case-insensitive filesystems.
// Two paths that identify the same file must normalize to the same string.
func NormalizePath(path string) string {
	cleaned := filepath.Clean(path)
	if caseInsensitiveFS {
		cleaned = strings.ToLower(cleaned)
	}
	return cleaned
}

// SamePath reports whether two paths identify the same file after
// normalization.
func SamePath(a, b string) bool {
	return NormalizePath(a) == NormalizePath(b)
}

// HasPathPrefix reports whether path is located under root (or equals it),
// honoring the platform case-sensitivity rule and path-separator boundaries.
func HasPathPrefix(path, root string) bool {
	normPath := NormalizePath(path)
	normRoot := NormalizePath(root)
	if normPath == normRoot {
		return true
	}
	if strings.HasSuffix(normRoot, string(filepath.Separator)) {
		return strings.HasPrefix(normPath, normRoot)
	}
	if !strings.HasPrefix(normPath, normRoot) {
		return false
	}
	return normPath[len(normRoot)] == filepath.Separator
}

// RelativeTo returns path expressed relative to root. It returns an error if
// path does not live under root.
func RelativeTo(path, root string) (string, error) {
	if !HasPathPrefix(path, root) {
		return "", NewError("path %q is not under root %q", path, root)
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return "", WrapError(err, "failed to relativize path")
	}
	return rel, nil
}
