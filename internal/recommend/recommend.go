// Package recommend turns an assembled analysis into ordered, human-readable
// suggestions for lowering a project's footprint.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/deps"
	"github.com/ziadkadry99/greencode/internal/detector"
	"github.com/ziadkadry99/greencode/internal/energy"
	"github.com/ziadkadry99/greencode/internal/features"
)

// Priority keywords, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Recommendation is one triggered rule.
type Recommendation struct {
	Category string `json:"category" yaml:"category"`
	Priority string `json:"priority" yaml:"priority"`
	Message  string `json:"message" yaml:"message"`
}

// Input is the assembled analysis the rules inspect. Project and Carbon may
// be nil in snippet mode.
type Input struct {
	Project      *detector.ProjectAnalysis
	Dependencies deps.Result
	Features     features.Summary
	Carbon       *energy.CarbonReport
}

func (in *Input) hasLanguage(names ...string) bool {
	for _, n := range names {
		if in.Features.FilesByLanguage[n] > 0 {
			return true
		}
		if in.Project != nil {
			if _, ok := in.Project.Languages[n]; ok {
				return true
			}
		}
	}
	return false
}

func (in *Input) hasFramework(names ...string) bool {
	if in.Project == nil {
		return false
	}
	for _, n := range names {
		if _, ok := in.Project.Frameworks[n]; ok {
			return true
		}
	}
	return false
}

func (in *Input) complexity() string {
	if in.Project != nil {
		return in.Project.Complexity
	}
	return ""
}

func (in *Input) share(pick func(energy.Components) energy.Component) float64 {
	if in.Carbon == nil {
		return 0
	}
	return pick(in.Carbon.Components).Percentage
}

// rule pairs a trigger with a message template.
type rule struct {
	category string
	priority string
	when     func(e *Engine, in *Input) bool
	message  func(e *Engine, in *Input) string
}

func static(msg string) func(*Engine, *Input) string {
	return func(*Engine, *Input) string { return msg }
}

// Engine evaluates the rule table. It holds no state between calls.
type Engine struct {
	cfg   *config.Config
	rules []rule
}

// New returns an Engine with the built-in rule table.
func New(cfg *config.Config) *Engine {
	return &Engine{cfg: cfg, rules: append(append([]rule(nil), ecosystemRules...), generalRules...)}
}

// Generate returns the message of every triggered rule in table order:
// ecosystem rules first, then general impact rules.
func (e *Engine) Generate(in Input) []Recommendation {
	out := []Recommendation{}
	for _, r := range e.rules {
		if r.when(e, &in) {
			out = append(out, Recommendation{
				Category: r.category,
				Priority: r.priority,
				Message:  r.message(e, &in),
			})
		}
	}
	return out
}

// Top returns at most n recommendations re-sorted by priority. Equal
// priorities keep their table order. n <= 0 returns all of them.
func Top(recs []Recommendation, n int) []Recommendation {
	sorted := append([]Recommendation(nil), recs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i].Priority) < rank(sorted[j].Priority)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func rank(p string) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

var ecosystemRules = []rule{
	{
		category: "python",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.hasLanguage("Python") && (in.Features.Features["dataframe_operations"] > 0 || in.hasFramework("pandas", "numpy"))
		},
		message: static("Prefer vectorized pandas/NumPy operations over row-wise loops and apply() calls."),
	},
	{
		category: "python",
		priority: PriorityLow,
		when: func(_ *Engine, in *Input) bool {
			return in.hasLanguage("Python") && in.Features.Features["loops"] > in.Features.Features["list_comprehensions"]
		},
		message: static("Replace simple accumulation loops with comprehensions, generators or built-ins like sum() and any()."),
	},
	{
		category: "python",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.hasFramework("django")
		},
		message: static("Enable Django query caching and use select_related/prefetch_related to avoid N+1 queries."),
	},
	{
		category: "python",
		priority: PriorityHigh,
		when: func(_ *Engine, in *Input) bool {
			return in.hasFramework("tensorflow", "pytorch") || in.Features.Features["ml_operations"] > 0
		},
		message: static("Train with mixed precision, cache preprocessed datasets and schedule training jobs on low-carbon grids."),
	},
	{
		category: "javascript",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.hasFramework("react", "angular", "vue", "svelte", "nextjs")
		},
		message: static("Ship production builds with code splitting and tree shaking to reduce bundle size and client energy."),
	},
	{
		category: "javascript",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return managerCount(in.Dependencies, "npm") > 50
		},
		message: func(_ *Engine, in *Input) string {
			return fmt.Sprintf("package.json declares %d packages; audit and remove unused ones to shrink installs and builds.", managerCount(in.Dependencies, "npm"))
		},
	},
	{
		category: "javascript",
		priority: PriorityLow,
		when: func(_ *Engine, in *Input) bool {
			return in.hasLanguage("JavaScript", "TypeScript") && in.Features.Features["timers"] > 0
		},
		message: static("Review setInterval/setTimeout polling; event-driven updates keep devices idle longer."),
	},
	{
		category: "java",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.hasFramework("spring")
		},
		message: static("Enable Spring lazy initialization and consider native images to cut startup energy."),
	},
	{
		category: "java",
		priority: PriorityLow,
		when: func(_ *Engine, in *Input) bool {
			return in.hasLanguage("Java") && in.Features.Features["string_concatenation"] > 0
		},
		message: static("Use StringBuilder for string concatenation inside loops."),
	},
	{
		category: "go",
		priority: PriorityLow,
		when: func(_ *Engine, in *Input) bool {
			return in.hasLanguage("Go") && in.Features.Features["goroutines"] > 0
		},
		message: static("Bound goroutine fan-out with worker pools so CPU stays busy without oversubscription."),
	},
	{
		category: "go",
		priority: PriorityLow,
		when: func(_ *Engine, in *Input) bool {
			return in.hasLanguage("Go") && in.Features.Features["reflection"] > 0
		},
		message: static("Avoid reflection on hot paths; generics or code generation are cheaper at runtime."),
	},
	{
		category: "native",
		priority: PriorityLow,
		when: func(_ *Engine, in *Input) bool {
			return in.hasLanguage("C", "C++", "Rust")
		},
		message: static("Build release artifacts with optimizations enabled and reuse incremental build caches in CI."),
	},
}

var generalRules = []rule{
	{
		category: "complexity",
		priority: PriorityHigh,
		when: func(_ *Engine, in *Input) bool {
			c := in.complexity()
			return c == detector.ComplexityHigh || c == detector.ComplexityVeryHigh
		},
		message: func(_ *Engine, in *Input) string {
			return fmt.Sprintf("Project complexity is %s; simplifying hot code paths could save up to 25%% of estimated energy.", strings.ReplaceAll(in.complexity(), "_", " "))
		},
	},
	{
		category: "complexity",
		priority: PriorityHigh,
		when: func(_ *Engine, in *Input) bool {
			return in.Features.NestedLoopFiles > 0
		},
		message: func(_ *Engine, in *Input) string {
			return fmt.Sprintf("%d file(s) contain nested loops (worst case %s); consider indexing, hashing or batching.", in.Features.NestedLoopFiles, in.Features.WorstRuntime)
		},
	},
	{
		category: "complexity",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.Features.MaxCyclomatic > 20
		},
		message: func(_ *Engine, in *Input) string {
			return fmt.Sprintf("The most complex file has a cyclomatic complexity of %d; split it into smaller units.", in.Features.MaxCyclomatic)
		},
	},
	{
		category: "dependencies",
		priority: PriorityHigh,
		when: func(_ *Engine, in *Input) bool {
			return in.Dependencies.HeavyCount > 5
		},
		message: func(_ *Engine, in *Input) string {
			return fmt.Sprintf("%d heavy dependencies detected; replacing or trimming them could save about 15%% of estimated energy.", in.Dependencies.HeavyCount)
		},
	},
	{
		category: "dependencies",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.Dependencies.HeavyCount > 0
		},
		message: func(_ *Engine, in *Input) string {
			return "Review heavy dependencies and load them lazily where possible: " + strings.Join(in.Dependencies.Heavy, ", ") + "."
		},
	},
	{
		category: "dependencies",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.Dependencies.TotalDependencies > 50
		},
		message: func(_ *Engine, in *Input) string {
			return fmt.Sprintf("%d dependencies are declared; prune unused packages to reduce install and build work.", in.Dependencies.TotalDependencies)
		},
	},
	{
		category: "frameworks",
		priority: PriorityMedium,
		when: func(e *Engine, in *Input) bool {
			return len(heavyFrameworks(e.cfg, in)) > 0
		},
		message: func(e *Engine, in *Input) string {
			return fmt.Sprintf("%s carries a large runtime overhead; use a lighter alternative where it fits.", strings.Join(heavyFrameworks(e.cfg, in), ", "))
		},
	},
	{
		category: "build",
		priority: PriorityMedium,
		when: func(_ *Engine, in *Input) bool {
			return in.share(func(c energy.Components) energy.Component { return c.BuildSystem }) > 20
		},
		message: func(_ *Engine, in *Input) string {
			return fmt.Sprintf("Builds with %s account for a large share of energy; enable incremental builds and dependency caching.", in.Dependencies.BuildTool)
		},
	},
	{
		category: "grid",
		priority: PriorityHigh,
		when: func(_ *Engine, in *Input) bool {
			if in.Carbon == nil {
				return false
			}
			lvl := in.Carbon.ComparisonMetrics.ImpactLevel
			return lvl == energy.ImpactHigh || lvl == energy.ImpactVeryHigh
		},
		message: func(e *Engine, in *Input) string {
			renewable := e.cfg.CO2Factors[string(config.GridRenewableHeavy)]
			saved := in.Carbon.TotalCarbonKg - in.Carbon.TotalEnergyKWh*renewable
			if saved < 0 {
				saved = 0
			}
			return fmt.Sprintf("Estimated impact is %s; hosting on a renewable-heavy grid would avoid about %.3f kg CO2.", strings.ReplaceAll(in.Carbon.ComparisonMetrics.ImpactLevel, "_", " "), saved)
		},
	},
	{
		category: "grid",
		priority: PriorityLow,
		when: func(_ *Engine, in *Input) bool {
			return in.Carbon != nil && in.Carbon.GridType != string(config.GridRenewableHeavy)
		},
		message: static("Run CI and scheduled jobs in regions or hours with low grid carbon intensity."),
	},
	{
		category: "general",
		priority: PriorityLow,
		when:     func(*Engine, *Input) bool { return true },
		message:  static("Track the footprint over time (greencode analyze --save) to catch regressions early."),
	},
}

func managerCount(r deps.Result, manager string) int {
	n := 0
	for _, m := range r.Manifests {
		if m.Manager == manager {
			n += m.Count
		}
	}
	return n
}

func heavyFrameworks(cfg *config.Config, in *Input) []string {
	if in.Project == nil {
		return nil
	}
	var out []string
	for _, name := range sortedNames(in.Project) {
		if cfg.IsHeavyFramework(name) {
			out = append(out, name)
		}
	}
	return out
}

func sortedNames(pa *detector.ProjectAnalysis) []string {
	names := make([]string, 0, len(pa.Frameworks))
	for name := range pa.Frameworks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
