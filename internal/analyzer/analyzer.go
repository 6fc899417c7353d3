// Package analyzer runs the full pipeline: detection, feature extraction,
// dependency and framework classification, the energy model and
// recommendations.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/greencode/internal/config"
	"github.com/ziadkadry99/greencode/internal/deps"
	"github.com/ziadkadry99/greencode/internal/detector"
	"github.com/ziadkadry99/greencode/internal/energy"
	"github.com/ziadkadry99/greencode/internal/features"
	"github.com/ziadkadry99/greencode/internal/frameworks"
	"github.com/ziadkadry99/greencode/internal/recommend"
	"github.com/ziadkadry99/greencode/internal/walker"
)

// ErrProjectNotFound is returned when the project root does not exist.
var ErrProjectNotFound = errors.New("project not found")

// Analyzer holds the configured pipeline stages. The feature cache is the
// only state shared between runs.
type Analyzer struct {
	cfg        *config.Config
	registry   *features.Registry
	deps       *deps.Analyzer
	calc       *energy.Calculator
	engine     *recommend.Engine
	onProgress ProgressFunc
}

// New creates an Analyzer. A nil cfg uses the defaults.
func New(cfg *config.Config) *Analyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Analyzer{
		cfg:      cfg,
		registry: features.NewRegistry(cfg.CacheSize),
		deps:     deps.New(cfg),
		calc:     energy.New(cfg),
		engine:   recommend.New(cfg),
	}
}

// Config returns the configuration the analyzer was built with.
func (a *Analyzer) Config() *config.Config {
	return a.cfg
}

// SetProgressFunc sets the progress callback. Calls are serialized.
func (a *Analyzer) SetProgressFunc(fn ProgressFunc) {
	a.onProgress = fn
}

// AnalyzeProject analyses the tree at root. It fails only when root is
// missing, the grid is unknown or ctx is cancelled; everything else degrades.
func (a *Analyzer) AnalyzeProject(ctx context.Context, root string, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, root)
		}
		return nil, fmt.Errorf("accessing project %s: %w", root, err)
	}

	depResult := a.deps.Analyze(root)

	det := detector.New(a.cfg)
	det.RespectGitignore(opts.RespectGitignore)
	pa, err := det.Detect(root, depResult.All)
	if err != nil {
		if errors.Is(err, walker.ErrRootNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrProjectNotFound, err)
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vectors, err := a.registry.ExtractAll(ctx, pa.Files, a.workers(opts), a.progress(len(pa.Files)))
	if err != nil {
		return nil, err
	}
	summary := features.Summarize(vectors)

	var totalBytes int64
	for _, st := range pa.Languages {
		totalBytes += st.Bytes
	}
	filesByLanguage := make(map[string]int, len(pa.Languages))
	for lang, st := range pa.Languages {
		filesByLanguage[lang] = st.Files
	}

	names := frameworks.Names(pa.Frameworks)
	carbon, err := a.calc.Calculate(energy.Input{
		ComplexityTier:    pa.Complexity,
		LinesByLanguage:   summary.LinesByLanguage,
		FilesByLanguage:   filesByLanguage,
		TotalFiles:        pa.TotalFiles,
		TotalBytes:        totalBytes,
		Frameworks:        names,
		TotalDependencies: depResult.TotalDependencies,
		HeavyDependencies: depResult.HeavyCount,
		BuildTool:         depResult.BuildTool,
		DevelopmentHours:  opts.DevelopmentHours,
		Grid:              opts.Grid,
	})
	if err != nil {
		return nil, err
	}

	recs := a.engine.Generate(recommend.Input{
		Project:      pa,
		Dependencies: depResult,
		Features:     summary,
		Carbon:       carbon,
	})

	report := &Report{
		ProjectName: filepath.Base(pa.Root),
		ProjectPath: pa.Root,
		LanguageDetection: LanguageDetection{
			PrimaryLanguage: pa.PrimaryLanguage,
			Languages:       pa.Languages,
		},
		ProjectStructure: ProjectStructure{
			TotalFiles:  pa.TotalFiles,
			TestFiles:   pa.TestFiles,
			FileTypes:   pa.FileTypes(),
			ProjectType: pa.ProjectType,
			Complexity:  pa.Complexity,
		},
		Dependencies: depResult,
		FrameworkInfo: FrameworkInfo{
			Detected:   names,
			Frameworks: pa.Frameworks,
		},
		Features:        summary,
		CarbonFootprint: carbon,
		Recommendations: recs,
	}
	if opts.Stamp {
		now := time.Now().UTC()
		report.AnalyzedAt = &now
	}

	log.WithFields(log.Fields{
		"project":  report.ProjectName,
		"files":    pa.TotalFiles,
		"lines":    summary.Lines,
		"kwh":      carbon.TotalEnergyKWh,
		"kg_co2":   carbon.TotalCarbonKg,
		"failures": len(summary.FailedFiles),
	}).Info("analysis complete")

	return report, nil
}

// AnalyzeSnippet analyses a code string in the given language without
// touching the filesystem. An empty snippet yields zero features and still
// returns the generic recommendations.
func (a *Analyzer) AnalyzeSnippet(code, language string, opts Options) (*SnippetReport, error) {
	lang := walker.CanonicalLanguage(language)
	if lang == "" {
		lang = detector.UnknownLanguage
	}
	vector := a.registry.ExtractSource("snippet", lang, []byte(code))
	summary := features.Summarize([]features.FeatureVector{vector})

	langs := map[string]*detector.LanguageStats{
		lang: {Files: 1, Bytes: int64(len(code))},
	}
	tier := detector.ComplexityIndicator(langs, 0, 1, a.cfg.LanguageMultipliers)

	carbon, err := a.calc.Calculate(energy.Input{
		ComplexityTier:   tier,
		LinesByLanguage:  summary.LinesByLanguage,
		FilesByLanguage:  map[string]int{lang: 1},
		TotalFiles:       1,
		TotalBytes:       int64(len(code)),
		DevelopmentHours: opts.DevelopmentHours,
		Grid:             opts.Grid,
	})
	if err != nil {
		return nil, err
	}

	report := &SnippetReport{
		Language:        lang,
		Features:        vector,
		Complexity:      tier,
		CarbonFootprint: carbon,
		Recommendations: a.engine.Generate(recommend.Input{
			Features: summary,
			Carbon:   carbon,
		}),
	}
	if opts.Stamp {
		now := time.Now().UTC()
		report.AnalyzedAt = &now
	}
	return report, nil
}

func (a *Analyzer) workers(opts Options) int {
	if opts.Workers > 0 {
		return opts.Workers
	}
	return a.cfg.MaxWorkers
}

// progress adapts the per-file completion hook to the ProgressFunc.
func (a *Analyzer) progress(total int) func() {
	if a.onProgress == nil {
		return nil
	}
	var (
		mu   sync.Mutex
		done int
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		a.onProgress(done, total, "extracting features")
	}
}
