// Package features turns source text into per-file structural feature
// vectors. Go sources are parsed into an AST; Python, JavaScript/TypeScript
// and Java use ecosystem pattern tables; every other language falls back to
// a generic cross-ecosystem table.
package features

// Runtime complexity classes produced by the loop nesting heuristic.
const (
	RuntimeConstant  = "O(1)"
	RuntimeLinear    = "O(n)"
	RuntimeQuadratic = "O(n²)"
	RuntimeCubic     = "O(n³)+"
)

// FeatureVector is the structural description of one source file.
type FeatureVector struct {
	Path     string         `json:"path" yaml:"path"`
	Language string         `json:"language" yaml:"language"`
	Lines    int            `json:"lines" yaml:"lines"`
	Features map[string]int `json:"features" yaml:"features"`

	ComplexityScore      float64 `json:"complexity_score" yaml:"complexity_score"`
	CyclomaticComplexity int     `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	InheritanceDepth     int     `json:"inheritance_depth" yaml:"inheritance_depth"`
	MaxLoopDepth         int     `json:"max_loop_depth" yaml:"max_loop_depth"`
	RuntimeComplexity    string  `json:"estimated_runtime_complexity" yaml:"estimated_runtime_complexity"`

	// Structural is true when the vector came from a parsed syntax tree
	// rather than pattern matching.
	Structural bool   `json:"structural" yaml:"structural"`
	Extractor  string `json:"extractor" yaml:"extractor"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Extractor produces a FeatureVector from source text. Implementations must
// be safe for concurrent use.
type Extractor interface {
	Name() string
	Extract(path string, src []byte) (FeatureVector, error)
}

// zeroVector is the neutral result for a file that could not be analysed.
func zeroVector(path, lang, reason string) FeatureVector {
	return FeatureVector{
		Path:              path,
		Language:          lang,
		Features:          map[string]int{},
		RuntimeComplexity: RuntimeConstant,
		Error:             reason,
	}
}

// runtimeClass maps a maximum loop nesting depth to a complexity class.
func runtimeClass(depth int) string {
	switch {
	case depth <= 0:
		return RuntimeConstant
	case depth == 1:
		return RuntimeLinear
	case depth == 2:
		return RuntimeQuadratic
	default:
		return RuntimeCubic
	}
}

// score combines line count, weighted feature counts and cyclomatic
// complexity into a single complexity score. weights is iterated in the
// given order so the float sum is reproducible.
func score(lines int, counts map[string]int, weights []weightedFeature, cyclomatic int) float64 {
	s := float64(lines) * 0.1
	for _, w := range weights {
		s += w.weight * float64(counts[w.name])
	}
	return s + float64(cyclomatic)*0.5
}

// weightedFeature pairs a feature name with its score weight.
type weightedFeature struct {
	name   string
	weight float64
}
