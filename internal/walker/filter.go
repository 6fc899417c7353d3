package walker

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// isGlob reports whether a pattern needs glob matching instead of a plain
// substring test.
func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// ShouldIgnoreDir checks whether a directory name matches an ignore pattern.
// Plain patterns match as a case-insensitive substring of the name, so
// "venv" also prunes "my_venv".
func ShouldIgnoreDir(name string, patterns []string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if isGlob(p) {
			if matched, err := doublestar.Match(strings.ToLower(p), lower); err == nil && matched {
				return true
			}
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// ShouldIgnoreFile checks whether a slash-separated relative path matches an
// ignore pattern. A plain pattern must equal one path component
// (case-insensitive), so "build" skips build/app.go but not src/builder.go.
// A plain pattern containing a slash matches as a substring of the path.
// Globs are tried against the path and the base name.
func ShouldIgnoreFile(relPath string, patterns []string) bool {
	lower := strings.ToLower(relPath)
	parts := strings.Split(lower, "/")
	var globs []string
	for _, p := range patterns {
		if p == "" {
			continue
		}
		lp := strings.ToLower(p)
		if isGlob(lp) {
			globs = append(globs, lp)
			continue
		}
		if strings.Contains(lp, "/") {
			if strings.Contains(lower, strings.Trim(lp, "/")) {
				return true
			}
			continue
		}
		for _, part := range parts {
			if part == lp {
				return true
			}
		}
	}
	return matchesAny(lower, globs)
}

// matchesAny checks if relPath matches any of the given glob patterns.
// It uses doublestar for ** support and also tries the base name alone.
func matchesAny(relPath string, patterns []string) bool {
	base := path.Base(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, relPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// MatchGlob reports whether name matches the doublestar pattern.
func MatchGlob(pattern, name string) bool {
	matched, err := doublestar.Match(pattern, name)
	return err == nil && matched
}
