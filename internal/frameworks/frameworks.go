// Package frameworks recognizes application frameworks from declared
// dependencies and marker files and directories at the project root.
package frameworks

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ziadkadry99/greencode/internal/config"
)

// Confidence levels reported for a detected framework.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// Evidence records why a framework was detected.
type Evidence struct {
	Language   string   `json:"language" yaml:"language"`
	Evidence   []string `json:"evidence" yaml:"evidence"`
	Confidence string   `json:"confidence" yaml:"confidence"`
}

// families groups languages whose frameworks are interchangeable, so a
// TypeScript project is tested against JavaScript frameworks and vice versa.
var families = map[string]string{
	"JavaScript": "JavaScript",
	"TypeScript": "JavaScript",
	"Vue":        "JavaScript",
	"Svelte":     "JavaScript",
	"Java":       "Java",
	"Kotlin":     "Java",
	"Scala":      "Java",
}

func family(lang string) string {
	if f, ok := families[lang]; ok {
		return f
	}
	return lang
}

// Detect tests every rule whose language is present in the project. Each
// satisfied indicator (a declared dependency containing the rule's
// dependency substring, a marker file, a marker directory) adds one piece of
// evidence; two or more make the detection high confidence, one medium.
func Detect(root string, languages []string, deps []string, rules []config.FrameworkRule) map[string]Evidence {
	present := make(map[string]bool, len(languages))
	for _, lang := range languages {
		present[family(lang)] = true
	}

	lowerDeps := make([]string, len(deps))
	for i, d := range deps {
		lowerDeps[i] = strings.ToLower(d)
	}

	out := make(map[string]Evidence)
	for _, rule := range rules {
		if rule.Language != "" && !present[family(rule.Language)] {
			continue
		}

		var evidence []string
		matched := make(map[string]bool)
		for _, want := range rule.Dependencies {
			if dep, ok := findDependency(lowerDeps, want, matched); ok {
				matched[dep] = true
				evidence = append(evidence, "dependency: "+dep)
			}
		}
		for _, f := range rule.Files {
			if isFile(filepath.Join(root, filepath.FromSlash(f))) {
				evidence = append(evidence, "file: "+f)
			}
		}
		for _, d := range rule.Dirs {
			if isDir(filepath.Join(root, filepath.FromSlash(d))) {
				evidence = append(evidence, "dir: "+d)
			}
		}

		if len(evidence) == 0 {
			continue
		}
		conf := ConfidenceMedium
		if len(evidence) >= 2 {
			conf = ConfidenceHigh
		}
		out[rule.Name] = Evidence{
			Language:   rule.Language,
			Evidence:   evidence,
			Confidence: conf,
		}
	}
	return out
}

// Names returns the detected framework names sorted alphabetically.
func Names(detected map[string]Evidence) []string {
	names := make([]string, 0, len(detected))
	for name := range detected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// findDependency returns the first declared dependency containing want that
// has not already been counted as evidence for the same rule.
func findDependency(lowerDeps []string, want string, skip map[string]bool) (string, bool) {
	w := strings.ToLower(want)
	for _, d := range lowerDeps {
		if !skip[d] && strings.Contains(d, w) {
			return d, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
