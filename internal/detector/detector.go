// Package detector builds the project-level view of a source tree: language
// composition, primary language, project type, frameworks and a coarse
// complexity indicator.
package detector

import (
	"fmt"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/frameworks"
	"github.com/ziadkadry99/greencode/internal/walker"
)

// Complexity tiers shared by the detector and the energy model.
const (
	ComplexityLow      = "low"
	ComplexityMedium   = "medium"
	ComplexityHigh     = "high"
	ComplexityVeryHigh = "very_high"
)

// UnknownLanguage is the primary language of a project with no files.
const UnknownLanguage = "unknown"

// LanguageStats aggregates the files of one language.
type LanguageStats struct {
	Files int      `json:"files" yaml:"files"`
	Bytes int64    `json:"bytes" yaml:"bytes"`
	Paths []string `json:"paths" yaml:"paths"`
}

// ProjectAnalysis is the result of detection. It is not modified after
// Detect returns.
type ProjectAnalysis struct {
	Root            string                         `json:"root" yaml:"root"`
	PrimaryLanguage string                         `json:"primary_language" yaml:"primary_language"`
	Languages       map[string]*LanguageStats      `json:"languages" yaml:"languages"`
	TotalFiles      int                            `json:"total_files" yaml:"total_files"`
	TestFiles       int                            `json:"test_files" yaml:"test_files"`
	ProjectType     string                         `json:"project_type" yaml:"project_type"`
	Frameworks      map[string]frameworks.Evidence `json:"frameworks" yaml:"frameworks"`
	Complexity      string                         `json:"complexity" yaml:"complexity"`

	// Files is the walk result in lexical order.
	Files []walker.FileInfo `json:"-" yaml:"-"`
}

// Detector runs language and project detection with a fixed configuration.
type Detector struct {
	cfg              *config.Config
	respectGitignore bool
}

// New returns a Detector for cfg.
func New(cfg *config.Config) *Detector {
	return &Detector{cfg: cfg}
}

// RespectGitignore makes subsequent walks honour the root .gitignore.
func (d *Detector) RespectGitignore(on bool) {
	d.respectGitignore = on
}

// Detect walks root once and classifies it. deps are the declared package
// names used as framework evidence. It only fails when root cannot be walked.
func (d *Detector) Detect(root string, deps []string) (*ProjectAnalysis, error) {
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir:          root,
		IgnorePatterns:   d.cfg.IgnorePatterns,
		RespectGitignore: d.respectGitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("detecting languages: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}

	pa := &ProjectAnalysis{
		Root:       abs,
		Languages:  make(map[string]*LanguageStats),
		TotalFiles: len(files),
		Files:      files,
	}
	for _, f := range files {
		st, ok := pa.Languages[f.Language]
		if !ok {
			st = &LanguageStats{}
			pa.Languages[f.Language] = st
		}
		st.Files++
		st.Bytes += f.Size
		st.Paths = append(st.Paths, f.RelPath)
		if f.IsTest {
			pa.TestFiles++
		}
	}

	pa.PrimaryLanguage = primaryLanguage(pa.Languages)
	pa.ProjectType = d.projectType(abs, files, pa.PrimaryLanguage)
	pa.Frameworks = frameworks.Detect(abs, pa.LanguageNames(), deps, d.cfg.FrameworkRules)
	pa.Complexity = ComplexityIndicator(pa.Languages, len(pa.Frameworks), pa.TotalFiles, d.cfg.LanguageMultipliers)

	log.WithFields(log.Fields{
		"root":       abs,
		"files":      pa.TotalFiles,
		"primary":    pa.PrimaryLanguage,
		"type":       pa.ProjectType,
		"frameworks": len(pa.Frameworks),
		"complexity": pa.Complexity,
	}).Debug("project detected")

	return pa, nil
}

// LanguageNames returns the detected languages sorted alphabetically.
func (pa *ProjectAnalysis) LanguageNames() []string {
	names := make([]string, 0, len(pa.Languages))
	for name := range pa.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileTypes counts walked files by extension, using the file name for
// extensionless files such as Dockerfile.
func (pa *ProjectAnalysis) FileTypes() map[string]int {
	out := make(map[string]int)
	for _, f := range pa.Files {
		key := f.Ext
		if key == "" {
			key = path.Base(f.RelPath)
		}
		out[key]++
	}
	return out
}

// primaryLanguage picks the code language with the highest 2*files + KB
// score, ties broken alphabetically. When only non-code formats are present
// the language with the most files wins.
func primaryLanguage(langs map[string]*LanguageStats) string {
	if len(langs) == 0 {
		return UnknownLanguage
	}

	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)

	best, bestScore := "", math.Inf(-1)
	for _, name := range names {
		if !walker.IsCode(name) {
			continue
		}
		st := langs[name]
		score := 2*float64(st.Files) + float64(st.Bytes)/1024
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if best != "" {
		return best
	}

	mostFiles := -1
	for _, name := range names {
		if langs[name].Files > mostFiles {
			best, mostFiles = name, langs[name].Files
		}
	}
	return best
}

// ComplexityIndicator buckets (sum of files x language multiplier + 10 per
// framework) / total files into a tier.
func ComplexityIndicator(langs map[string]*LanguageStats, frameworkCount, totalFiles int, multipliers map[string]float64) string {
	if totalFiles == 0 {
		return ComplexityLow
	}

	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Strings(names)

	var weighted float64
	for _, name := range names {
		m, ok := multipliers[walker.Key(name)]
		if !ok {
			m = 1.0
		}
		weighted += float64(langs[name].Files) * m
	}
	avg := (weighted + 10*float64(frameworkCount)) / float64(totalFiles)

	switch {
	case avg < 2:
		return ComplexityLow
	case avg < 5:
		return ComplexityMedium
	case avg < 10:
		return ComplexityHigh
	default:
		return ComplexityVeryHigh
	}
}

// languageProjectTypes is the fallback project type per primary language.
var languageProjectTypes = map[string]string{
	"Go":          "cli_tool",
	"Rust":        "systems",
	"C":           "systems",
	"C++":         "systems",
	"Zig":         "systems",
	"Java":        "web_backend",
	"Kotlin":      "web_backend",
	"Scala":       "web_backend",
	"C#":          "web_backend",
	"PHP":         "web_backend",
	"Ruby":        "web_backend",
	"Elixir":      "web_backend",
	"JavaScript":  "web_frontend",
	"TypeScript":  "web_frontend",
	"Vue":         "web_frontend",
	"Svelte":      "web_frontend",
	"Python":      "script",
	"Shell":       "script",
	"R":           "data_science",
	"Julia":       "data_science",
	"MATLAB":      "data_science",
	"Swift":       "mobile_app",
	"Dart":        "mobile_app",
	"Objective-C": "mobile_app",
}

// projectType scores every rule: root marker files 1 point, root marker
// directories 2 points, and 1 point per walked file matching a glob. Rules
// with at least 2 points are candidates; a unique best wins, otherwise the
// primary language decides.
func (d *Detector) projectType(root string, files []walker.FileInfo, primary string) string {
	best, bestScore, tie := "", 0, false
	for _, rule := range d.cfg.ProjectTypes {
		score := 0
		for _, f := range rule.Files {
			if st, err := os.Stat(filepath.Join(root, filepath.FromSlash(f))); err == nil && !st.IsDir() {
				score++
			}
		}
		for _, dir := range rule.Dirs {
			if st, err := os.Stat(filepath.Join(root, filepath.FromSlash(dir))); err == nil && st.IsDir() {
				score += 2
			}
		}
		for _, g := range rule.Globs {
			for _, f := range files {
				if walker.MatchGlob(g, path.Base(f.RelPath)) {
					score++
				}
			}
		}

		if score < 2 {
			continue
		}
		switch {
		case score > bestScore:
			best, bestScore, tie = rule.Name, score, false
		case score == bestScore:
			tie = true
		}
	}

	if best != "" && !tie {
		return best
	}
	if t, ok := languageProjectTypes[primary]; ok {
		return t
	}
	return "general"
}
