package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo holds metadata about a single file discovered during traversal.
type FileInfo struct {
	Path     string `json:"-"`        // Absolute path on disk.
	RelPath  string `json:"path"`     // Slash-separated path relative to the root.
	Ext      string `json:"ext"`      // Lowercase extension including the dot, or "".
	Size     int64  `json:"size"`     // File size in bytes.
	Language string `json:"language"` // Detected language.
	IsTest   bool   `json:"is_test"`  // Whether the file appears to be a test file.
}

// WalkerConfig controls the behaviour of the Walk function.
type WalkerConfig struct {
	RootDir string // Root directory to walk.
	// IgnorePatterns are case-insensitive substrings (or globs when they
	// contain glob metacharacters) that prune directories and skip files.
	IgnorePatterns []string
	// RespectGitignore additionally honours a .gitignore at the root.
	RespectGitignore bool
}

// ErrRootNotFound is returned when the root directory does not exist.
var ErrRootNotFound = errors.New("walker: root not found")

// Walk traverses the directory tree rooted at config.RootDir in lexical order
// and returns every file whose language is recognized. Dotfiles, dot-dirs and
// ignored paths are skipped; unreadable entries are skipped silently.
func Walk(config WalkerConfig) ([]FileInfo, error) {
	root, err := filepath.Abs(config.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	st, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("walker: stat root: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("walker: root %s is not a directory", root)
	}

	var gitignorePatterns []string
	if config.RespectGitignore {
		gitignorePatterns = loadGitignore(filepath.Join(root, ".gitignore"))
	}

	var files []FileInfo

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if ShouldIgnoreDir(name, config.IgnorePatterns) || matchesGitignore(relPath, gitignorePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if ShouldIgnoreFile(relPath, config.IgnorePatterns) || matchesGitignore(relPath, gitignorePatterns) {
			return nil
		}

		lang := detectFileLanguage(path)
		if lang == "" {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		files = append(files, FileInfo{
			Path:     path,
			RelPath:  relPath,
			Ext:      strings.ToLower(filepath.Ext(name)),
			Size:     info.Size(),
			Language: lang,
			IsTest:   isTestFile(name, relPath),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return files, nil
}

// isTestFile returns true if the filename or path looks like a test file.
func isTestFile(name, relPath string) bool {
	lower := strings.ToLower(name)

	// Go test files.
	if strings.HasSuffix(lower, "_test.go") {
		return true
	}
	// Python test files.
	if strings.HasPrefix(lower, "test_") || strings.HasSuffix(lower, "_test.py") {
		return true
	}
	// JavaScript/TypeScript test files.
	for _, suffix := range []string{".test.js", ".test.ts", ".test.tsx", ".spec.js", ".spec.ts", ".spec.tsx"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	// Java and Kotlin test classes.
	if strings.HasSuffix(lower, "test.java") || strings.HasSuffix(lower, "test.kt") {
		return true
	}
	// Files inside a test/ or tests/ directory.
	relSlash := strings.ToLower(relPath)
	if strings.Contains(relSlash, "/test/") || strings.Contains(relSlash, "/tests/") ||
		strings.HasPrefix(relSlash, "test/") || strings.HasPrefix(relSlash, "tests/") {
		return true
	}

	return false
}

// loadGitignore reads a .gitignore file and returns its non-empty,
// non-comment lines as patterns.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks if a relative path matches any gitignore pattern.
func matchesGitignore(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	for _, pattern := range patterns {
		pattern = strings.TrimSuffix(strings.TrimPrefix(pattern, "/"), "/")
		if pattern == "" {
			continue
		}

		// Without a slash the pattern matches any path component.
		if !strings.Contains(pattern, "/") {
			for _, part := range strings.Split(relPath, "/") {
				if matched, _ := filepath.Match(pattern, part); matched {
					return true
				}
			}
			continue
		}

		if matchesAny(relPath, []string{pattern}) {
			return true
		}
	}
	return false
}
