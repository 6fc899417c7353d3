package analyzer

import (
	"time"

	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/deps"
	"github.com/ziadkadry99/greencode/internal/detector"
	"github.com/ziadkadry99/greencode/internal/energy"
	"github.com/ziadkadry99/greencode/internal/features"
	"github.com/ziadkadry99/greencode/internal/frameworks"
	"github.com/ziadkadry99/greencode/internal/recommend"
)

// Options tune a single analysis run.
type Options struct {
	// Grid overrides the configured grid profile when set.
	Grid config.GridType
	// DevelopmentHours feeds the optional development component.
	DevelopmentHours float64
	// Workers overrides config max_workers when positive.
	Workers int
	// RespectGitignore also skips paths matched by the root .gitignore.
	RespectGitignore bool
	// Stamp adds analyzed_at to the report. Stamped reports are not
	// byte-for-byte reproducible.
	Stamp bool
}

// ProgressFunc is called as files finish feature extraction.
type ProgressFunc func(processed int, total int, stage string)

// LanguageDetection is the language half of project detection.
type LanguageDetection struct {
	PrimaryLanguage string                             `json:"primary_language" yaml:"primary_language"`
	Languages       map[string]*detector.LanguageStats `json:"languages" yaml:"languages"`
}

// ProjectStructure describes the shape of the tree.
type ProjectStructure struct {
	TotalFiles  int            `json:"total_files" yaml:"total_files"`
	TestFiles   int            `json:"test_files" yaml:"test_files"`
	FileTypes   map[string]int `json:"file_types" yaml:"file_types"`
	ProjectType string         `json:"project_type" yaml:"project_type"`
	Complexity  string         `json:"complexity" yaml:"complexity"`
}

// FrameworkInfo lists detected frameworks with their evidence.
type FrameworkInfo struct {
	Detected   []string                       `json:"detected" yaml:"detected"`
	Frameworks map[string]frameworks.Evidence `json:"frameworks" yaml:"frameworks"`
}

// Report is the full result of analysing one project.
type Report struct {
	ProjectName       string                     `json:"project_name" yaml:"project_name"`
	ProjectPath       string                     `json:"project_path" yaml:"project_path"`
	LanguageDetection LanguageDetection          `json:"language_detection" yaml:"language_detection"`
	ProjectStructure  ProjectStructure           `json:"project_structure" yaml:"project_structure"`
	Dependencies      deps.Result                `json:"dependencies" yaml:"dependencies"`
	FrameworkInfo     FrameworkInfo              `json:"framework_info" yaml:"framework_info"`
	Features          features.Summary           `json:"features" yaml:"features"`
	CarbonFootprint   *energy.CarbonReport       `json:"carbon_footprint" yaml:"carbon_footprint"`
	Recommendations   []recommend.Recommendation `json:"recommendations" yaml:"recommendations"`
	AnalyzedAt        *time.Time                 `json:"analyzed_at,omitempty" yaml:"analyzed_at,omitempty"`
}

// SnippetReport is the result of analysing a code string.
type SnippetReport struct {
	Language        string                     `json:"language" yaml:"language"`
	Features        features.FeatureVector     `json:"features" yaml:"features"`
	Complexity      string                     `json:"complexity" yaml:"complexity"`
	CarbonFootprint *energy.CarbonReport       `json:"carbon_footprint" yaml:"carbon_footprint"`
	Recommendations []recommend.Recommendation `json:"recommendations" yaml:"recommendations"`
	AnalyzedAt      *time.Time                 `json:"analyzed_at,omitempty" yaml:"analyzed_at,omitempty"`
}

// ProjectSummary is one project's row in a comparison.
type ProjectSummary struct {
	Path            string  `json:"path" yaml:"path"`
	PrimaryLanguage string  `json:"primary_language" yaml:"primary_language"`
	TotalFiles      int     `json:"total_files" yaml:"total_files"`
	TotalLines      int     `json:"total_lines" yaml:"total_lines"`
	Dependencies    int     `json:"dependencies" yaml:"dependencies"`
	Complexity      string  `json:"complexity" yaml:"complexity"`
	TotalEnergyKWh  float64 `json:"total_energy_kwh" yaml:"total_energy_kwh"`
	TotalCarbonKg   float64 `json:"total_carbon_kg" yaml:"total_carbon_kg"`
	ImpactLevel     string  `json:"impact_level" yaml:"impact_level"`
}

// Averages are the per-project means of a comparison.
type Averages struct {
	EnergyKWh float64 `json:"energy_kwh" yaml:"energy_kwh"`
	CarbonKg  float64 `json:"carbon_kg" yaml:"carbon_kg"`
	Files     float64 `json:"files" yaml:"files"`
	Lines     float64 `json:"lines" yaml:"lines"`
}

// Comparison ranks several projects by total carbon.
type Comparison struct {
	Projects       map[string]ProjectSummary `json:"projects" yaml:"projects"`
	Order          []string                  `json:"order" yaml:"order"`
	MostEfficient  string                    `json:"most_efficient" yaml:"most_efficient"`
	LeastEfficient string                    `json:"least_efficient" yaml:"least_efficient"`
	Averages       Averages                  `json:"averages" yaml:"averages"`
}
