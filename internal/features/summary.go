package features

import "sort"

// Summary is the project-level reduction of all feature vectors.
type Summary struct {
	Files           int            `json:"files" yaml:"files"`
	Lines           int            `json:"total_lines" yaml:"total_lines"`
	LinesByLanguage map[string]int `json:"lines_by_language" yaml:"lines_by_language"`
	FilesByLanguage map[string]int `json:"files_by_language" yaml:"files_by_language"`
	Features        map[string]int `json:"features" yaml:"features"`

	TotalComplexity     float64  `json:"total_complexity" yaml:"total_complexity"`
	AverageComplexity   float64  `json:"average_complexity" yaml:"average_complexity"`
	TotalCyclomatic     int      `json:"total_cyclomatic" yaml:"total_cyclomatic"`
	MaxCyclomatic       int      `json:"max_cyclomatic" yaml:"max_cyclomatic"`
	MaxInheritanceDepth int      `json:"max_inheritance_depth" yaml:"max_inheritance_depth"`
	NestedLoopFiles     int      `json:"nested_loop_files" yaml:"nested_loop_files"`
	StructuralFiles     int      `json:"structural_files" yaml:"structural_files"`
	FailedFiles         []string `json:"failed_files,omitempty" yaml:"failed_files,omitempty"`
	WorstRuntime        string   `json:"worst_runtime_complexity" yaml:"worst_runtime_complexity"`
}

// Summarize folds vectors in order, so the floating-point totals are the
// same on every run over the same input.
func Summarize(vectors []FeatureVector) Summary {
	s := Summary{
		Files:           len(vectors),
		LinesByLanguage: make(map[string]int),
		FilesByLanguage: make(map[string]int),
		Features:        make(map[string]int),
		WorstRuntime:    RuntimeConstant,
	}

	worstDepth := 0
	for _, v := range vectors {
		s.FilesByLanguage[v.Language]++
		if v.Error != "" {
			s.FailedFiles = append(s.FailedFiles, v.Path)
			continue
		}
		s.Lines += v.Lines
		s.LinesByLanguage[v.Language] += v.Lines

		names := make([]string, 0, len(v.Features))
		for name := range v.Features {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s.Features[name] += v.Features[name]
		}

		s.TotalComplexity += v.ComplexityScore
		s.TotalCyclomatic += v.CyclomaticComplexity
		s.MaxCyclomatic = max(s.MaxCyclomatic, v.CyclomaticComplexity)
		s.MaxInheritanceDepth = max(s.MaxInheritanceDepth, v.InheritanceDepth)
		if v.MaxLoopDepth >= 2 {
			s.NestedLoopFiles++
		}
		if v.MaxLoopDepth > worstDepth {
			worstDepth = v.MaxLoopDepth
		}
		if v.Structural {
			s.StructuralFiles++
		}
	}

	if analysed := s.Files - len(s.FailedFiles); analysed > 0 {
		s.AverageComplexity = s.TotalComplexity / float64(analysed)
	}
	s.WorstRuntime = runtimeClass(worstDepth)
	return s
}
